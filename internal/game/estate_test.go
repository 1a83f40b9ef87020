package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"lifesim/internal/store"
)

func TestBuyAndCollectBusiness(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	if _, err := svc.BuyBusiness(ctx, "u1", "volcano_lair"); !errors.Is(err, ErrUnknownBusiness) {
		t.Fatalf("got %v want ErrUnknownBusiness", err)
	}
	if _, err := svc.BuyBusiness(ctx, "u1", "food_truck"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("broke buy: got %v", err)
	}

	if _, err := svc.ModifyBalance(ctx, "u1", 10_000, TxSalary, "seed"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	spec, _ := BusinessByID("food_truck")
	buy, err := svc.BuyBusiness(ctx, "u1", "food_truck")
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if buy.Cost != spec.Cost {
		t.Fatalf("cost got %d want %d", buy.Cost, spec.Cost)
	}

	// Nothing accrued yet.
	res, err := svc.CollectBusinessIncome(ctx, "u1")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if res.Collected != 0 {
		t.Fatalf("collected %d immediately after purchase", res.Collected)
	}

	// Two hours of accrual at the level-1 rate.
	now = now.Add(2 * time.Hour)
	res, err = svc.CollectBusinessIncome(ctx, "u1")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if res.Collected != 2*spec.IncomePerHr {
		t.Fatalf("collected %d want %d", res.Collected, 2*spec.IncomePerHr)
	}

	// Idle accrual is capped.
	now = now.Add(1000 * time.Hour)
	res, err = svc.CollectBusinessIncome(ctx, "u1")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := int64(float64(spec.IncomePerHr) * spec.MaxIdleHours)
	if res.Collected != want {
		t.Fatalf("capped collection %d want %d", res.Collected, want)
	}
}

func TestUpgradeBusiness(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ModifyBalance(ctx, "u1", 100_000, TxSalary, "seed"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	buy, err := svc.BuyBusiness(ctx, "u1", "food_truck")
	if err != nil {
		t.Fatalf("buy: %v", err)
	}

	if _, err := svc.UpgradeBusiness(ctx, "u1", 99_999); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("got %v want ErrNotOwner", err)
	}

	spec, _ := BusinessByID("food_truck")
	up, err := svc.UpgradeBusiness(ctx, "u1", buy.ID)
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if up.NewLevel != 2 {
		t.Fatalf("level got %d want 2", up.NewLevel)
	}
	if up.Cost != UpgradeCost(spec.UpgradeBase, spec.UpgradeRate, 1, spec.MaxLevel) {
		t.Fatalf("cost got %d", up.Cost)
	}
}

// txAuditStore records store writes issued outside an InTx body. Flows that
// couple a balance mutation with other writes must keep them in one unit of
// work, or a mid-flight failure strands partial state.
type txAuditStore struct {
	store.Store
	depth   int
	outside []string
}

func (a *txAuditStore) InTx(ctx context.Context, fn func(store.Store) error) error {
	a.depth++
	err := fn(a)
	a.depth--
	return err
}

func (a *txAuditStore) note(method string) {
	if a.depth == 0 {
		a.outside = append(a.outside, method)
	}
}

func (a *txAuditStore) UpdateBalances(ctx context.Context, userID string, balance, bank, netWorth int64) error {
	a.note("UpdateBalances")
	return a.Store.UpdateBalances(ctx, userID, balance, bank, netWorth)
}

func (a *txAuditStore) AppendTransaction(ctx context.Context, tr store.Transaction) error {
	a.note("AppendTransaction")
	return a.Store.AppendTransaction(ctx, tr)
}

func (a *txAuditStore) InsertBusiness(ctx context.Context, b store.Business) (int64, error) {
	a.note("InsertBusiness")
	return a.Store.InsertBusiness(ctx, b)
}

func (a *txAuditStore) UpdateBusiness(ctx context.Context, b store.Business) error {
	a.note("UpdateBusiness")
	return a.Store.UpdateBusiness(ctx, b)
}

func (a *txAuditStore) InsertProperty(ctx context.Context, p store.Property) (int64, error) {
	a.note("InsertProperty")
	return a.Store.InsertProperty(ctx, p)
}

func (a *txAuditStore) UpdateProperty(ctx context.Context, p store.Property) error {
	a.note("UpdateProperty")
	return a.Store.UpdateProperty(ctx, p)
}

func (a *txAuditStore) UpsertHolding(ctx context.Context, h store.Holding) error {
	a.note("UpsertHolding")
	return a.Store.UpsertHolding(ctx, h)
}

func TestMoneyWritesShareTransaction(t *testing.T) {
	audit := &txAuditStore{Store: store.NewMemory()}
	svc := NewService(audit, NewPriceBook(nil), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	if _, err := svc.ModifyBalance(ctx, "u1", 200_000, TxSalary, "seed"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	biz, err := svc.BuyBusiness(ctx, "u1", "food_truck")
	if err != nil {
		t.Fatalf("buy business: %v", err)
	}
	prop, err := svc.BuyProperty(ctx, "u1", "apartment")
	if err != nil {
		t.Fatalf("buy property: %v", err)
	}
	now = now.Add(4 * time.Hour)
	if _, err := svc.CollectBusinessIncome(ctx, "u1"); err != nil {
		t.Fatalf("collect income: %v", err)
	}
	if _, err := svc.CollectRent(ctx, "u1"); err != nil {
		t.Fatalf("collect rent: %v", err)
	}
	if _, err := svc.UpgradeBusiness(ctx, "u1", biz.ID); err != nil {
		t.Fatalf("upgrade business: %v", err)
	}
	if _, err := svc.UpgradeProperty(ctx, "u1", prop.ID); err != nil {
		t.Fatalf("upgrade property: %v", err)
	}
	buy, err := svc.BuyCrypto(ctx, "u1", "BTC", 1000)
	if err != nil {
		t.Fatalf("buy crypto: %v", err)
	}
	if _, err := svc.SellCrypto(ctx, "u1", "BTC", buy.Units); err != nil {
		t.Fatalf("sell crypto: %v", err)
	}

	if len(audit.outside) != 0 {
		t.Fatalf("writes outside a unit of work: %v", audit.outside)
	}
}

func TestPropertyRent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	if _, err := svc.ModifyBalance(ctx, "u1", 20_000, TxSalary, "seed"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	spec, _ := PropertyByID("apartment")
	if _, err := svc.BuyProperty(ctx, "u1", "apartment"); err != nil {
		t.Fatalf("buy: %v", err)
	}

	now = now.Add(3 * time.Hour)
	res, err := svc.CollectRent(ctx, "u1")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if res.Collected != 3*spec.RentPerHr {
		t.Fatalf("rent %d want %d", res.Collected, 3*spec.RentPerHr)
	}

	list, err := svc.Properties(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Pending != 0 {
		t.Fatalf("pending after collect: %+v", list)
	}
}
