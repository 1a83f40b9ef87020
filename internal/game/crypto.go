package game

import (
	"context"
	"fmt"

	"lifesim/internal/store"
)

// TradeResult reports a filled crypto order.
type TradeResult struct {
	Symbol  string  `json:"symbol"`
	Units   float64 `json:"units"`
	Price   float64 `json:"price"`
	Cost    int64   `json:"cost"`
	Balance int64   `json:"balance"`
}

// PortfolioEntry is one priced holding.
type PortfolioEntry struct {
	Symbol string  `json:"symbol"`
	Units  float64 `json:"units"`
	Price  float64 `json:"price"`
	Value  int64   `json:"value"`
}

// BuyCrypto spends wallet coins on an asset at the current simulated price.
func (s *Service) BuyCrypto(ctx context.Context, userID, symbol string, spend int64) (TradeResult, error) {
	if spend <= 0 {
		return TradeResult{}, ErrNegativeAmount
	}
	price, ok := s.market.Price(symbol)
	if !ok {
		return TradeResult{}, ErrUnknownAsset
	}

	unlock := s.lockUsers(userID)
	defer unlock()

	units := float64(spend) / price
	var out TradeResult
	err := s.store.InTx(ctx, func(st store.Store) error {
		bal, err := s.modifyBalanceTx(ctx, st, userID, -spend, TxCryptoBuy, symbol)
		if err != nil {
			return err
		}
		holdings, err := st.ListHoldings(ctx, userID)
		if err != nil {
			return err
		}
		current := 0.0
		for _, h := range holdings {
			if h.Symbol == symbol {
				current = h.Units
			}
		}
		if err := st.UpsertHolding(ctx, store.Holding{UserID: userID, Symbol: symbol, Units: current + units}); err != nil {
			return err
		}
		out = TradeResult{Symbol: symbol, Units: units, Price: price, Cost: spend, Balance: bal.Balance}
		return nil
	})
	if err != nil {
		return TradeResult{}, err
	}
	return out, nil
}

// SellCrypto sells units of an asset at the current simulated price and
// credits the proceeds. Selling more than held is rejected.
func (s *Service) SellCrypto(ctx context.Context, userID, symbol string, units float64) (TradeResult, error) {
	if units <= 0 {
		return TradeResult{}, ErrNegativeAmount
	}
	price, ok := s.market.Price(symbol)
	if !ok {
		return TradeResult{}, ErrUnknownAsset
	}

	unlock := s.lockUsers(userID)
	defer unlock()

	var out TradeResult
	err := s.store.InTx(ctx, func(st store.Store) error {
		holdings, err := st.ListHoldings(ctx, userID)
		if err != nil {
			return err
		}
		current := 0.0
		for _, h := range holdings {
			if h.Symbol == symbol {
				current = h.Units
			}
		}
		if units > current {
			return fmt.Errorf("%w: hold %.6f %s", ErrInsufficientFunds, current, symbol)
		}

		proceeds := int64(units * price)
		if proceeds <= 0 {
			return ErrBelowMinimum
		}
		if err := st.UpsertHolding(ctx, store.Holding{UserID: userID, Symbol: symbol, Units: current - units}); err != nil {
			return err
		}
		bal, err := s.modifyBalanceTx(ctx, st, userID, proceeds, TxCryptoSell, symbol)
		if err != nil {
			return err
		}
		out = TradeResult{Symbol: symbol, Units: units, Price: price, Cost: proceeds, Balance: bal.Balance}
		return nil
	})
	if err != nil {
		return TradeResult{}, err
	}
	return out, nil
}

// Portfolio prices every holding at current quotes.
func (s *Service) Portfolio(ctx context.Context, userID string) ([]PortfolioEntry, error) {
	holdings, err := s.store.ListHoldings(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]PortfolioEntry, 0, len(holdings))
	for _, h := range holdings {
		price, ok := s.market.Price(h.Symbol)
		if !ok {
			continue
		}
		out = append(out, PortfolioEntry{
			Symbol: h.Symbol,
			Units:  h.Units,
			Price:  price,
			Value:  int64(h.Units * price),
		})
	}
	return out, nil
}

// MarketTick advances the simulator one step and mirrors the resulting
// quotes to the store, so other processes can read them. Called by the
// worker.
func (s *Service) MarketTick(ctx context.Context) ([]Quote, *NewsEvent, error) {
	quotes, event := s.market.Tick()
	prices := make([]store.AssetPrice, 0, len(quotes))
	now := s.now().UTC()
	for _, q := range quotes {
		prices = append(prices, store.AssetPrice{
			Symbol:    q.Symbol,
			Price:     q.Price,
			Trend:     q.Trend,
			Change24h: q.Change24h,
			UpdatedAt: now,
		})
	}
	if err := s.store.SaveAssetPrices(ctx, prices); err != nil {
		return nil, nil, err
	}
	if event != nil {
		s.log.Info("market news", "headline", event.Headline, "effect", event.Effect)
	}
	return quotes, event, nil
}

// AdoptStoredPrices loads the last published prices from the store into this
// process's book. The API server calls it at startup so quotes match the
// worker's.
func (s *Service) AdoptStoredPrices(ctx context.Context) error {
	prices, err := s.store.ListAssetPrices(ctx)
	if err != nil {
		return err
	}
	for _, p := range prices {
		s.market.SetPrice(p.Symbol, p.Price)
	}
	return nil
}
