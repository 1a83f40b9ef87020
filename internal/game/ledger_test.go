package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"lifesim/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store.NewMemory(), NewPriceBook(rand.New(rand.NewSource(1))), logger)
}

func TestModifyBalanceRejectsZero(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.ModifyBalance(context.Background(), "u1", 0, TxSalary, ""); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("got %v want ErrZeroAmount", err)
	}
}

func TestModifyBalanceNeverNegative(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ModifyBalance(ctx, "u1", -10_000, TxCrimeFine, ""); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("got %v want ErrInsufficientFunds", err)
	}

	// Failed debit leaves no trace.
	acct, err := svc.Account(ctx, "u1")
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if acct.Balance != store.StartingBalance {
		t.Fatalf("balance changed after rejected debit: %d", acct.Balance)
	}
	hist, err := svc.History(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 0 {
		t.Fatalf("rejected debit wrote %d ledger entries", len(hist))
	}
}

func TestModifyBalanceRecordsLedger(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.ModifyBalance(ctx, "u1", 1500, TxSalary, "shift")
	if err != nil {
		t.Fatalf("modify: %v", err)
	}
	if res.Balance != store.StartingBalance+1500 {
		t.Fatalf("balance got %d", res.Balance)
	}
	hist, _ := svc.History(ctx, "u1", 10)
	if len(hist) != 1 || hist[0].Amount != 1500 || hist[0].Type != TxSalary {
		t.Fatalf("unexpected ledger entries: %+v", hist)
	}
}

func TestDepositHalfThenCap(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Wallet 1000, bank 0, limit 300: deposit half moves 300 of the 500
	// requested, capped.
	if _, err := svc.ModifyBalance(ctx, "u1", 500, TxSalary, "top-up"); err != nil {
		t.Fatalf("seed balance: %v", err)
	}
	if err := svc.store.SetBankLimit(ctx, "u1", 300); err != nil {
		t.Fatalf("set limit: %v", err)
	}

	res, err := svc.Deposit(ctx, "u1", AmountSpec{Keyword: "half"})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if !res.Capped {
		t.Fatalf("expected capped deposit")
	}
	if res.Moved != 300 {
		t.Fatalf("moved %d want 300", res.Moved)
	}
	if res.Bank != 300 || res.Balance != 700 {
		t.Fatalf("bank=%d balance=%d want 300/700", res.Bank, res.Balance)
	}

	if _, err := svc.Deposit(ctx, "u1", AmountSpec{Keyword: "all"}); !errors.Is(err, ErrBankFull) {
		t.Fatalf("got %v want ErrBankFull", err)
	}
}

func TestWithdraw(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Withdraw(ctx, "u1", AmountSpec{Keyword: "all"}); !errors.Is(err, ErrBankEmpty) {
		t.Fatalf("got %v want ErrBankEmpty", err)
	}

	if _, err := svc.Deposit(ctx, "u1", AmountSpec{Value: 400}); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	res, err := svc.Withdraw(ctx, "u1", AmountSpec{Value: 150})
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if res.Bank != 250 || res.Balance != 250 {
		t.Fatalf("bank=%d balance=%d want 250/250", res.Bank, res.Balance)
	}

	if _, err := svc.Withdraw(ctx, "u1", AmountSpec{Value: 9999}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("got %v want ErrInsufficientFunds", err)
	}
}

func TestTransferTaxAndConservation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ModifyBalance(ctx, "alice", 9500, TxSalary, "seed"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := svc.Transfer(ctx, "alice", "bob", 1000)
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if res.Tax != 30 {
		t.Fatalf("tax got %d want 30", res.Tax)
	}
	if res.Received != 970 {
		t.Fatalf("received got %d want 970", res.Received)
	}

	alice, _ := svc.Account(ctx, "alice")
	bob, _ := svc.Account(ctx, "bob")
	if alice.Balance != 9000 {
		t.Fatalf("alice balance %d want 9000", alice.Balance)
	}
	if bob.Balance != store.StartingBalance+970 {
		t.Fatalf("bob balance %d", bob.Balance)
	}
}

func TestTransferRejections(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Transfer(ctx, "a", "a", 100); !errors.Is(err, ErrSelfTransfer) {
		t.Fatalf("self transfer: got %v", err)
	}
	if _, err := svc.Transfer(ctx, "a", "b", 0); !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("zero: got %v", err)
	}
	if _, err := svc.Transfer(ctx, "a", "b", TransferMinimum-1); !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("below minimum: got %v", err)
	}
	if _, err := svc.Transfer(ctx, "a", "b", 1_000_000); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("overdraw: got %v", err)
	}
}

func TestTransferSmallAmountFlatTax(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// 3% of 100 is 3, no tax floor: the receiver gets 97.
	res, err := svc.Transfer(ctx, "a", "b", 100)
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if res.Tax != 3 || res.Received != 97 {
		t.Fatalf("tax=%d received=%d, want 3/97", res.Tax, res.Received)
	}

	// Amounts under 34 truncate to zero tax.
	res, err = svc.Transfer(ctx, "a", "b", 10)
	if err != nil {
		t.Fatalf("transfer minimum: %v", err)
	}
	if res.Tax != 0 || res.Received != 10 {
		t.Fatalf("tax=%d received=%d, want 0/10", res.Tax, res.Received)
	}
}

func TestClaimDailyStreaks(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	res, err := svc.ClaimDaily(ctx, "u1")
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if res.Streak != 1 || res.Reward != 1250 {
		t.Fatalf("first claim: %+v", res)
	}

	// Inside the cooldown window.
	now = now.Add(10 * time.Hour)
	_, err = svc.ClaimDaily(ctx, "u1")
	if !errors.Is(err, ErrOnCooldown) {
		t.Fatalf("got %v want cooldown", err)
	}
	var ce *CooldownError
	if !errors.As(err, &ce) || ce.Remaining <= 0 {
		t.Fatalf("cooldown error missing remaining: %v", err)
	}

	// Past cooldown, inside grace: streak grows.
	now = now.Add(12 * time.Hour)
	res, err = svc.ClaimDaily(ctx, "u1")
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if res.Streak != 2 {
		t.Fatalf("streak got %d want 2", res.Streak)
	}

	// Past the grace window: streak resets.
	now = now.Add(72 * time.Hour)
	res, err = svc.ClaimDaily(ctx, "u1")
	if err != nil {
		t.Fatalf("late claim: %v", err)
	}
	if res.Streak != 1 {
		t.Fatalf("streak after lapse got %d want 1", res.Streak)
	}
}

func TestClaimDailyStreakCap(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	var last DailyResult
	for i := 0; i < 15; i++ {
		var err error
		last, err = svc.ClaimDaily(ctx, "u1")
		if err != nil {
			t.Fatalf("claim %d: %v", i, err)
		}
		now = now.Add(24 * time.Hour)
	}
	if last.Streak != DailyMaxStreak {
		t.Fatalf("streak got %d want cap %d", last.Streak, DailyMaxStreak)
	}
}

func TestUpgradeBankLimit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ModifyBalance(ctx, "u1", 1000, TxSalary, "seed"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	res, err := svc.UpgradeBankLimit(ctx, "u1")
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if res.NewLimit != 10000 || res.Cost != 1000 {
		t.Fatalf("got %+v", res)
	}
	acct, _ := svc.Account(ctx, "u1")
	if acct.BankLimit != 10000 {
		t.Fatalf("limit not applied: %d", acct.BankLimit)
	}
}
