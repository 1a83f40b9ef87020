package game

import (
	"testing"
	"time"
)

func TestYieldAt(t *testing.T) {
	if got := YieldAt(200, 1.25, 1); got != 200 {
		t.Fatalf("level 1 yield: got %d want 200", got)
	}
	if got := YieldAt(200, 1.25, 2); got != 250 {
		t.Fatalf("level 2 yield: got %d want 250", got)
	}
	if got := YieldAt(200, 1.25, 0); got != 200 {
		t.Fatalf("level 0 clamps to 1: got %d want 200", got)
	}
}

func TestUpgradeCost(t *testing.T) {
	if got := UpgradeCost(1000, 1.8, 10, 10); got != 0 {
		t.Fatalf("at max level cost must be 0, got %d", got)
	}
	if got := UpgradeCost(1000, 1.8, 1, 10); got != 1800 {
		t.Fatalf("level 1 upgrade: got %d want 1800", got)
	}
}

func TestIdleAccrual(t *testing.T) {
	if got := IdleAccrual(100, 2*time.Hour, 8); got != 200 {
		t.Fatalf("2h at 100/h: got %d want 200", got)
	}
	if got := IdleAccrual(100, 30*time.Minute, 8); got != 50 {
		t.Fatalf("partial hour: got %d want 50", got)
	}
	if got := IdleAccrual(100, 100*time.Hour, 8); got != 800 {
		t.Fatalf("capped accrual: got %d want 800", got)
	}
	if got := IdleAccrual(100, -time.Hour, 8); got != 0 {
		t.Fatalf("negative elapsed: got %d want 0", got)
	}
}

func TestWorkEarnings(t *testing.T) {
	// Level 1 already carries its 1% skill bonus.
	base := WorkEarnings(100, 0, 0, 1)
	if base != 101 {
		t.Fatalf("unmodified pay: got %d want 101", base)
	}

	promoted := WorkEarnings(100, 2, 10, 1)
	// 100 * 1.2 * 1.1 * 1.01 = 133.32
	if promoted != 133 {
		t.Fatalf("promoted pay: got %d want 133", promoted)
	}

	skilled := WorkEarnings(100, 0, 0, 51)
	if skilled != 151 {
		t.Fatalf("skill 51 pay: got %d want 151", skilled)
	}

	if got := SkillMultiplier(1); got != 1.01 {
		t.Fatalf("level 1 multiplier: got %v want 1.01", got)
	}

	if WorkEarnings(100, 5, 25, 50) <= WorkEarnings(100, 5, 25, 1) {
		t.Fatalf("higher skill must never pay less")
	}
}

func TestTrainingXP(t *testing.T) {
	if got := TrainingXP(25, 3, 5); got != 25 {
		t.Fatalf("under cap: got %d want 25", got)
	}
	if got := TrainingXP(25, 6, 5); got != 20 {
		t.Fatalf("one over cap: got %d want 20", got)
	}
	if got := TrainingXP(25, 50, 5); got != 2 {
		t.Fatalf("deep over cap floors at 10%%: got %d want 2", got)
	}
}

func TestBankUpgradeCost(t *testing.T) {
	limit, cost := BankUpgradeCost(5000)
	if limit != 10000 || cost != 1000 {
		t.Fatalf("got limit=%d cost=%d want 10000/1000", limit, cost)
	}
}
