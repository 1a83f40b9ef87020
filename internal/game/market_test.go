package game

import (
	"math/rand"
	"testing"
)

func TestPriceBookBoundsOverManyTicks(t *testing.T) {
	b := NewPriceBook(rand.New(rand.NewSource(42)))
	for i := 0; i < 1000; i++ {
		b.Tick()
	}
	for _, q := range b.Quotes() {
		spec, ok := AssetBySymbol(q.Symbol)
		if !ok {
			t.Fatalf("quote for unknown asset %q", q.Symbol)
		}
		if q.Price < priceFloor {
			t.Fatalf("%s price %v below floor", q.Symbol, q.Price)
		}
		if spec.Capped {
			if q.Price < spec.BasePrice*0.1 || q.Price > spec.BasePrice*10 {
				t.Fatalf("%s price %v outside [%v, %v]", q.Symbol, q.Price, spec.BasePrice*0.1, spec.BasePrice*10)
			}
		}
	}
}

func TestPriceBookDeterministic(t *testing.T) {
	a := NewPriceBook(rand.New(rand.NewSource(7)))
	b := NewPriceBook(rand.New(rand.NewSource(7)))
	for i := 0; i < 100; i++ {
		a.Tick()
		b.Tick()
	}
	qa, qb := a.Quotes(), b.Quotes()
	for i := range qa {
		if qa[i].Price != qb[i].Price {
			t.Fatalf("same seed diverged at %s: %v vs %v", qa[i].Symbol, qa[i].Price, qb[i].Price)
		}
	}
}

func TestPriceBookHistoryDepth(t *testing.T) {
	b := NewPriceBook(rand.New(rand.NewSource(1)))
	for i := 0; i < 200; i++ {
		b.Tick()
	}
	h := b.History("BTC")
	if len(h) != priceHistoryDepth {
		t.Fatalf("history depth %d, want %d", len(h), priceHistoryDepth)
	}
}

func TestPriceBookTrend(t *testing.T) {
	b := NewPriceBook(rand.New(rand.NewSource(1)))
	b.SetPrice("BTC", 50000)
	b.SetPrice("BTC", 60000)
	for _, q := range b.Quotes() {
		if q.Symbol == "BTC" && q.Trend != "up" {
			t.Fatalf("trend after rise: got %q want up", q.Trend)
		}
	}
	b.SetPrice("BTC", 55000)
	for _, q := range b.Quotes() {
		if q.Symbol == "BTC" && q.Trend != "down" {
			t.Fatalf("trend after fall: got %q want down", q.Trend)
		}
	}
}

func TestNewsEventOverridesVolatility(t *testing.T) {
	// Find a seed whose first draw fires a news event, then verify every
	// affected asset moved by exactly the event's effect.
	for seed := int64(0); seed < 5000; seed++ {
		r := rand.New(rand.NewSource(seed))
		if r.Float64() >= NewsChancePerTick {
			continue
		}

		b := NewPriceBook(rand.New(rand.NewSource(seed)))
		before := map[string]float64{}
		for _, q := range b.Quotes() {
			before[q.Symbol] = q.Price
		}
		_, event := b.Tick()
		if event == nil {
			t.Fatalf("seed %d: expected a news event", seed)
		}
		for _, q := range b.Quotes() {
			if !eventAffects(event, q.Symbol) {
				continue
			}
			spec, _ := AssetBySymbol(q.Symbol)
			want := clampPrice(spec, before[q.Symbol]*(1+event.Effect))
			if q.Price != want {
				t.Fatalf("seed %d: %s got %v want %v", seed, q.Symbol, q.Price, want)
			}
		}
		return
	}
	t.Fatalf("no seed fired a news event on the first draw")
}
