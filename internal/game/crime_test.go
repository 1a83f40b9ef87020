package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"
)

// seedWhere scans for a seed whose first Float64 draw satisfies pred.
func seedWhere(t *testing.T, pred func(float64) bool) int64 {
	t.Helper()
	for seed := int64(0); seed < 10_000; seed++ {
		if pred(rand.New(rand.NewSource(seed)).Float64()) {
			return seed
		}
	}
	t.Fatalf("no seed satisfied predicate")
	return 0
}

func TestCommitCrimeUnknown(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.CommitCrime(context.Background(), "u1", "arson"); !errors.Is(err, ErrUnknownCrime) {
		t.Fatalf("got %v want ErrUnknownCrime", err)
	}
}

func TestCommitCrimeForcedSuccess(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	spec, _ := CrimeByID("shoplift")
	seed := seedWhere(t, func(roll float64) bool { return roll < spec.SuccessRate })
	svc.SeedRand(seed)

	// Replicate the roll sequence to predict the payout.
	r := rand.New(rand.NewSource(seed))
	r.Float64() // success roll
	wantPayout := spec.MinPayout + r.Int63n(spec.MaxPayout-spec.MinPayout+1)

	res, err := svc.CommitCrime(ctx, "u1", "shoplift")
	if err != nil {
		t.Fatalf("crime: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success with roll < %v", spec.SuccessRate)
	}
	if res.Payout != wantPayout {
		t.Fatalf("payout got %d want %d", res.Payout, wantPayout)
	}
	if res.Payout < spec.MinPayout || res.Payout > spec.MaxPayout {
		t.Fatalf("payout %d outside [%d, %d]", res.Payout, spec.MinPayout, spec.MaxPayout)
	}
	if res.Jailed {
		t.Fatalf("successful crime must not jail")
	}
	if res.XPGained <= 0 {
		t.Fatalf("success must grant crime xp")
	}
}

func TestCommitCrimeForcedFailure(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	spec, _ := CrimeByID("shoplift")
	seed := seedWhere(t, func(roll float64) bool { return roll >= spec.SuccessRate })
	svc.SeedRand(seed)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	res, err := svc.CommitCrime(ctx, "u1", "shoplift")
	if err != nil {
		t.Fatalf("crime: %v", err)
	}
	if res.Success {
		t.Fatalf("expected failure")
	}
	if !res.Jailed || res.JailedFor != spec.JailTime {
		t.Fatalf("expected jail for %s, got %+v", spec.JailTime, res)
	}
	// Fine is 10% of the starting wallet.
	if res.Fine != 50 {
		t.Fatalf("fine got %d want 50", res.Fine)
	}
	if res.HeatLevel != 0 {
		t.Fatalf("failure must reset heat, got %d", res.HeatLevel)
	}

	// Jail blocks further crimes and work.
	if _, err := svc.CommitCrime(ctx, "u1", "shoplift"); !errors.Is(err, ErrJailed) {
		t.Fatalf("got %v want ErrJailed", err)
	}
}

func TestJailLazyRelease(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	spec, _ := CrimeByID("rob")
	seed := seedWhere(t, func(roll float64) bool { return roll >= spec.SuccessRate })
	svc.SeedRand(seed)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	res, err := svc.CommitCrime(ctx, "u1", "rob")
	if err != nil {
		t.Fatalf("crime: %v", err)
	}
	if !res.Jailed {
		t.Fatalf("expected jail")
	}

	status, err := svc.CheckJail(ctx, "u1")
	if err != nil || !status.Jailed {
		t.Fatalf("expected jailed status, got %+v err=%v", status, err)
	}

	// One second before release: still inside.
	now = now.Add(spec.JailTime - time.Second)
	status, _ = svc.CheckJail(ctx, "u1")
	if !status.Jailed {
		t.Fatalf("released a second early")
	}

	// At release time: free, observed lazily on the read.
	now = now.Add(time.Second)
	status, _ = svc.CheckJail(ctx, "u1")
	if status.Jailed {
		t.Fatalf("still jailed at release time")
	}

	rec, _, err := svc.CriminalProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if rec.JailReleaseAt != nil {
		t.Fatalf("release time not cleared")
	}
	if rec.TimesJailed != 1 {
		t.Fatalf("times jailed got %d want 1", rec.TimesJailed)
	}
}

func TestCrimeCooldown(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	spec, _ := CrimeByID("shoplift")
	seed := seedWhere(t, func(roll float64) bool { return roll < spec.SuccessRate })
	svc.SeedRand(seed)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	if _, err := svc.CommitCrime(ctx, "u1", "shoplift"); err != nil {
		t.Fatalf("crime: %v", err)
	}
	if _, err := svc.CommitCrime(ctx, "u1", "shoplift"); !errors.Is(err, ErrOnCooldown) {
		t.Fatalf("got %v want cooldown", err)
	}
	now = now.Add(spec.Cooldown)
	if _, err := svc.CommitCrime(ctx, "u1", "shoplift"); errors.Is(err, ErrOnCooldown) {
		t.Fatalf("cooldown should have expired")
	}
}
