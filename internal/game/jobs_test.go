package game

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestJoinJobValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.JoinJob(ctx, "u1", "astronaut"); !errors.Is(err, ErrUnknownJob) {
		t.Fatalf("got %v want ErrUnknownJob", err)
	}

	// Doctor gates on intelligence 20; a fresh user is level 1.
	if _, err := svc.JoinJob(ctx, "u1", "doctor"); !errors.Is(err, ErrLevelTooLow) {
		t.Fatalf("got %v want ErrLevelTooLow", err)
	}

	st, err := svc.JoinJob(ctx, "u1", "janitor")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if !st.Employed || st.Position != "Trainee" {
		t.Fatalf("got %+v", st)
	}

	if _, err := svc.JoinJob(ctx, "u1", "cashier"); !errors.Is(err, ErrAlreadyEmployed) {
		t.Fatalf("got %v want ErrAlreadyEmployed", err)
	}
}

func TestQuitJob(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.QuitJob(ctx, "u1"); !errors.Is(err, ErrNotEmployed) {
		t.Fatalf("got %v want ErrNotEmployed", err)
	}
	if _, err := svc.JoinJob(ctx, "u1", "janitor"); err != nil {
		t.Fatalf("join: %v", err)
	}
	st, err := svc.QuitJob(ctx, "u1")
	if err != nil {
		t.Fatalf("quit: %v", err)
	}
	if st.Employed {
		t.Fatalf("still employed after quit")
	}
}

func TestWorkShiftPromotionOnTenth(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	if _, err := svc.JoinJob(ctx, "u1", "janitor"); err != nil {
		t.Fatalf("join: %v", err)
	}
	spec, _ := JobByID("janitor")

	for i := 1; i <= 10; i++ {
		res, err := svc.WorkShift(ctx, "u1")
		if err != nil {
			t.Fatalf("shift %d: %v", i, err)
		}
		if i < 10 && res.Promoted {
			t.Fatalf("promoted early at shift %d", i)
		}
		if i == 10 {
			if !res.Promoted {
				t.Fatalf("expected promotion at shift 10")
			}
			if res.Position != spec.Positions[1] {
				t.Fatalf("position got %q want %q", res.Position, spec.Positions[1])
			}
		}
		now = now.Add(spec.ShiftCooldown)
	}

	st, err := svc.EmploymentStatus(ctx, "u1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Promotions != 1 || st.BonusPct != PromotionBonusPctStep {
		t.Fatalf("got %+v", st)
	}
}

func TestWorkShiftPayRaisesAfterPromotion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	if _, err := svc.JoinJob(ctx, "u1", "janitor"); err != nil {
		t.Fatalf("join: %v", err)
	}
	spec, _ := JobByID("janitor")

	var prePromotion, postPromotion int64
	for i := 1; i <= 11; i++ {
		res, err := svc.WorkShift(ctx, "u1")
		if err != nil {
			t.Fatalf("shift %d: %v", i, err)
		}
		if i == 1 {
			prePromotion = res.Pay
		}
		if i == 11 {
			postPromotion = res.Pay
		}
		now = now.Add(spec.ShiftCooldown)
	}
	if postPromotion <= prePromotion {
		t.Fatalf("pay after promotion (%d) must exceed pay before (%d)", postPromotion, prePromotion)
	}
}

func TestWorkShiftPetPerformanceBonus(t *testing.T) {
	ctx := context.Background()

	shiftPay := func(t *testing.T, withDog bool) int64 {
		t.Helper()
		svc := newTestService(t)
		if withDog {
			if _, err := svc.AdoptPet(ctx, "u1", "dog", ""); err != nil {
				t.Fatalf("adopt: %v", err)
			}
		}
		if _, err := svc.JoinJob(ctx, "u1", "janitor"); err != nil {
			t.Fatalf("join: %v", err)
		}
		res, err := svc.WorkShift(ctx, "u1")
		if err != nil {
			t.Fatalf("shift: %v", err)
		}
		return res.Pay
	}

	plain := shiftPay(t, false)
	boosted := shiftPay(t, true)
	if boosted <= plain {
		t.Fatalf("dog owner pay (%d) must exceed plain pay (%d)", boosted, plain)
	}

	// Dog gives 2% earnings and 1% shift performance on top.
	want := int64(float64(plain) * 1.02 * 1.01)
	if boosted != want {
		t.Fatalf("boosted pay got %d want %d", boosted, want)
	}
}

func TestWorkShiftCooldown(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	if _, err := svc.JoinJob(ctx, "u1", "janitor"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := svc.WorkShift(ctx, "u1"); err != nil {
		t.Fatalf("shift: %v", err)
	}
	if _, err := svc.WorkShift(ctx, "u1"); !errors.Is(err, ErrOnCooldown) {
		t.Fatalf("got %v want cooldown", err)
	}
}

func TestWorkShiftRequiresJob(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.WorkShift(context.Background(), "u1"); !errors.Is(err, ErrNotEmployed) {
		t.Fatalf("got %v want ErrNotEmployed", err)
	}
}
