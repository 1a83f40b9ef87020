package game

import (
	"math/rand"
	"sync"
	"time"
)

const (
	priceHistoryDepth = 24
	priceFloor        = 0.00001
)

// Quote is a point-in-time view of one asset.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Trend     string  `json:"trend"`
	Change24h float64 `json:"change_24h"`
}

type assetState struct {
	spec    AssetSpec
	price   float64
	history []float64 // ring of most recent samples, oldest first
}

// PriceBook drives the simulated asset market. All methods are safe for
// concurrent use; the book's lock is disjoint from user locks.
type PriceBook struct {
	mu     sync.Mutex
	rng    *rand.Rand
	states map[string]*assetState
	order  []string
}

// NewPriceBook seeds the book from the asset catalog. Pass a seeded rand for
// deterministic runs; nil uses a time-seeded source.
func NewPriceBook(rng *rand.Rand) *PriceBook {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	b := &PriceBook{rng: rng, states: make(map[string]*assetState)}
	for _, a := range Assets() {
		b.states[a.Symbol] = &assetState{
			spec:    a,
			price:   a.BasePrice,
			history: []float64{a.BasePrice},
		}
		b.order = append(b.order, a.Symbol)
	}
	return b
}

// Tick advances every asset one step. At most one news event fires per tick;
// affected assets take the event's effect instead of their volatility draw.
// Returns the post-tick quotes and the event, if any.
func (b *PriceBook) Tick() ([]Quote, *NewsEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var event *NewsEvent
	if b.rng.Float64() < NewsChancePerTick {
		e := newsEvents[b.rng.Intn(len(newsEvents))]
		event = &e
	}

	for _, sym := range b.order {
		st := b.states[sym]
		move := b.rng.Float64()*2*st.spec.Volatility - st.spec.Volatility
		if event != nil && eventAffects(event, sym) {
			move = event.Effect
		}
		st.price *= 1 + move
		st.price = clampPrice(st.spec, st.price)
		st.history = append(st.history, st.price)
		if len(st.history) > priceHistoryDepth {
			st.history = st.history[1:]
		}
	}
	return b.quotesLocked(), event
}

func eventAffects(e *NewsEvent, symbol string) bool {
	for _, s := range e.Affected {
		if s == symbol {
			return true
		}
	}
	return false
}

func clampPrice(spec AssetSpec, price float64) float64 {
	if spec.Capped {
		lo, hi := spec.BasePrice*0.1, spec.BasePrice*10
		if price < lo {
			return lo
		}
		if price > hi {
			return hi
		}
		return price
	}
	if price < priceFloor {
		return priceFloor
	}
	return price
}

// Price returns the current price of one asset.
func (b *PriceBook) Price(symbol string) (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.states[symbol]
	if !ok {
		return 0, false
	}
	return st.price, true
}

// Quotes returns the current view of every asset in catalog order.
func (b *PriceBook) Quotes() []Quote {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.quotesLocked()
}

func (b *PriceBook) quotesLocked() []Quote {
	out := make([]Quote, 0, len(b.order))
	for _, sym := range b.order {
		st := b.states[sym]
		out = append(out, Quote{
			Symbol:    sym,
			Name:      st.spec.Name,
			Price:     st.price,
			Trend:     trendOf(st.history),
			Change24h: changeOf(st.history),
		})
	}
	return out
}

// History returns the retained samples for one asset, oldest first.
func (b *PriceBook) History(symbol string) []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.states[symbol]
	if !ok {
		return nil
	}
	out := make([]float64, len(st.history))
	copy(out, st.history)
	return out
}

// SetPrice overrides one asset's current price. Used when the API process
// adopts prices published by the worker.
func (b *PriceBook) SetPrice(symbol string, price float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.states[symbol]
	if !ok {
		return
	}
	st.price = clampPrice(st.spec, price)
	st.history = append(st.history, st.price)
	if len(st.history) > priceHistoryDepth {
		st.history = st.history[1:]
	}
}

func trendOf(history []float64) string {
	if len(history) < 2 {
		return "stable"
	}
	last, prev := history[len(history)-1], history[len(history)-2]
	switch {
	case last > prev:
		return "up"
	case last < prev:
		return "down"
	default:
		return "stable"
	}
}

func changeOf(history []float64) float64 {
	if len(history) < 2 {
		return 0
	}
	oldest, latest := history[0], history[len(history)-1]
	if oldest == 0 {
		return 0
	}
	return (latest - oldest) / oldest * 100
}
