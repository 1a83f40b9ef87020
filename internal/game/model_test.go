package game

import "testing"

func TestParseAmountSpec(t *testing.T) {
	for _, kw := range []string{"all", "MAX", " half "} {
		spec, err := ParseAmountSpec(kw)
		if err != nil {
			t.Fatalf("expected keyword %q to parse: %v", kw, err)
		}
		if spec.Keyword == "" {
			t.Fatalf("expected keyword for %q", kw)
		}
	}

	spec, err := ParseAmountSpec("250")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Value != 250 {
		t.Fatalf("got %d want 250", spec.Value)
	}

	for _, bad := range []string{"0", "-5", "abc", "1.5", ""} {
		if _, err := ParseAmountSpec(bad); err == nil {
			t.Fatalf("expected %q to fail", bad)
		}
	}
}

func TestAmountSpecResolve(t *testing.T) {
	tests := []struct {
		spec      AmountSpec
		available int64
		want      int64
	}{
		{AmountSpec{Keyword: "all"}, 1000, 1000},
		{AmountSpec{Keyword: "max"}, 1000, 1000},
		{AmountSpec{Keyword: "half"}, 1001, 500},
		{AmountSpec{Value: 300}, 1000, 300},
		{AmountSpec{Value: 5000}, 1000, 5000}, // caller validates overdraw
	}
	for _, tc := range tests {
		if got := tc.spec.Resolve(tc.available); got != tc.want {
			t.Fatalf("spec=%+v got=%d want=%d", tc.spec, got, tc.want)
		}
	}
}

func TestTransferTax(t *testing.T) {
	tests := []struct {
		amount int64
		want   int64
	}{
		{100, 10},   // 3% is 3, floor kicks in
		{333, 10},   // 3% is 9, floor kicks in
		{334, 10},   // 3% rounds down to 10
		{1000, 30},
		{99999, 2999},
	}
	for _, tc := range tests {
		if got := TransferTax(tc.amount); got != tc.want {
			t.Fatalf("amount=%d got=%d want=%d", tc.amount, got, tc.want)
		}
	}
}

func TestDailyReward(t *testing.T) {
	if got := DailyReward(1); got != 1250 {
		t.Fatalf("streak 1: got %d want 1250", got)
	}
	if got := DailyReward(10); got != 3500 {
		t.Fatalf("streak 10: got %d want 3500", got)
	}
	if got := DailyReward(99); got != DailyReward(DailyMaxStreak) {
		t.Fatalf("streak past cap should clamp, got %d", got)
	}
}
