package game

import (
	"context"
	"errors"
	"testing"
)

func TestBuySellCrypto(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.BuyCrypto(ctx, "u1", "FAKE", 100); !errors.Is(err, ErrUnknownAsset) {
		t.Fatalf("got %v want ErrUnknownAsset", err)
	}
	if _, err := svc.BuyCrypto(ctx, "u1", "BTC", 0); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("zero spend: got %v", err)
	}
	if _, err := svc.BuyCrypto(ctx, "u1", "BTC", 1_000_000); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("overdraw: got %v", err)
	}

	price, _ := svc.Market().Price("LSC")
	res, err := svc.BuyCrypto(ctx, "u1", "LSC", 200)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if res.Units != float64(200)/price {
		t.Fatalf("units got %v", res.Units)
	}
	if res.Balance != 300 {
		t.Fatalf("balance after buy got %d want 300", res.Balance)
	}

	port, err := svc.Portfolio(ctx, "u1")
	if err != nil {
		t.Fatalf("portfolio: %v", err)
	}
	if len(port) != 1 || port[0].Symbol != "LSC" {
		t.Fatalf("portfolio: %+v", port)
	}

	if _, err := svc.SellCrypto(ctx, "u1", "LSC", res.Units*2); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("oversell: got %v", err)
	}

	sell, err := svc.SellCrypto(ctx, "u1", "LSC", res.Units)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	// Price hasn't moved between buy and sell, so the round trip returns the
	// spend minus only integer truncation.
	if sell.Cost > 200 || sell.Cost < 199 {
		t.Fatalf("round trip proceeds got %d", sell.Cost)
	}
}

func TestHoldingsPriceIntoNetWorth(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	before, err := svc.Account(ctx, "u1")
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if _, err := svc.BuyCrypto(ctx, "u1", "LSC", 400); err != nil {
		t.Fatalf("buy: %v", err)
	}
	after, err := svc.Account(ctx, "u1")
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	// Converting cash to an asset at the same price keeps net worth within
	// rounding of where it was.
	if diff := before.NetWorth - after.NetWorth; diff < 0 || diff > 1 {
		t.Fatalf("net worth drifted: before=%d after=%d", before.NetWorth, after.NetWorth)
	}
}

func TestMarketTickPersistsPrices(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	quotes, _, err := svc.MarketTick(ctx)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(quotes) != len(Assets()) {
		t.Fatalf("quotes %d want %d", len(quotes), len(Assets()))
	}

	stored, err := svc.Store().ListAssetPrices(ctx)
	if err != nil {
		t.Fatalf("list prices: %v", err)
	}
	if len(stored) != len(Assets()) {
		t.Fatalf("stored %d want %d", len(stored), len(Assets()))
	}
}
