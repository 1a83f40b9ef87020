package game

import (
	"context"
	"fmt"

	"lifesim/internal/store"
)

// HoldingView is the API shape of an owned income source.
type HoldingView struct {
	ID      int64  `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Level   int64  `json:"level"`
	Pending int64  `json:"pending"`
}

// CollectResult reports an income collection across all owned sources of one
// kind.
type CollectResult struct {
	Collected int64 `json:"collected"`
	Sources   int   `json:"sources"`
	Balance   int64 `json:"balance"`
}

// PurchaseResult reports a buy.
type PurchaseResult struct {
	ID      int64  `json:"id"`
	Type    string `json:"type"`
	Cost    int64  `json:"cost"`
	Balance int64  `json:"balance"`
}

// UpgradeResult reports a level upgrade.
type UpgradeResult struct {
	ID       int64 `json:"id"`
	NewLevel int64 `json:"new_level"`
	Cost     int64 `json:"cost"`
	Balance  int64 `json:"balance"`
}

// BuyBusiness purchases a new business of the given type.
func (s *Service) BuyBusiness(ctx context.Context, userID, typeID string) (PurchaseResult, error) {
	spec, ok := BusinessByID(typeID)
	if !ok {
		return PurchaseResult{}, ErrUnknownBusiness
	}

	unlock := s.lockUsers(userID)
	defer unlock()

	var out PurchaseResult
	err := s.store.InTx(ctx, func(st store.Store) error {
		bal, err := s.modifyBalanceTx(ctx, st, userID, -spec.Cost, TxPurchase, spec.Name)
		if err != nil {
			return err
		}
		id, err := st.InsertBusiness(ctx, store.Business{
			OwnerID: userID, Type: typeID, Level: 1, LastCollected: s.now().UTC(),
		})
		if err != nil {
			return err
		}
		out = PurchaseResult{ID: id, Type: typeID, Cost: spec.Cost, Balance: bal.Balance}
		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}
	s.log.Info("business bought", "user", userID, "type", typeID, "id", out.ID)
	return out, nil
}

// CollectBusinessIncome sweeps pending income from every business the user
// owns. Accrual is capped per business at its idle ceiling; collecting resets
// the accrual clock.
func (s *Service) CollectBusinessIncome(ctx context.Context, userID string) (CollectResult, error) {
	unlock := s.lockUsers(userID)
	defer unlock()

	buffs, err := s.buffsFor(ctx, userID)
	if err != nil {
		return CollectResult{}, err
	}
	list, err := s.store.ListBusinesses(ctx, userID)
	if err != nil {
		return CollectResult{}, err
	}

	now := s.now().UTC()
	var total int64
	var swept []store.Business
	for _, b := range list {
		spec, ok := BusinessByID(b.Type)
		if !ok {
			continue
		}
		rate := YieldAt(spec.IncomePerHr, spec.YieldGrowth, int(b.Level))
		income := IdleAccrual(rate, now.Sub(b.LastCollected), spec.MaxIdleHours)
		if income <= 0 {
			continue
		}
		total += int64(float64(income) * buffs.MoneyMult)
		b.LastCollected = now
		swept = append(swept, b)
	}
	if total == 0 {
		u, err := s.store.GetOrCreateUser(ctx, userID, "")
		if err != nil {
			return CollectResult{}, err
		}
		return CollectResult{Balance: u.Balance}, nil
	}

	// Clock resets and the credit commit together; accrual is never consumed
	// without being paid out.
	var out CollectResult
	err = s.store.InTx(ctx, func(st store.Store) error {
		for _, b := range swept {
			if err := st.UpdateBusiness(ctx, b); err != nil {
				return err
			}
		}
		bal, err := s.modifyBalanceTx(ctx, st, userID, total, TxBusinessIncome, fmt.Sprintf("%d businesses", len(swept)))
		if err != nil {
			return err
		}
		out = CollectResult{Collected: total, Sources: len(swept), Balance: bal.Balance}
		return nil
	})
	if err != nil {
		return CollectResult{}, err
	}
	return out, nil
}

// UpgradeBusiness raises one business a level for its formula-priced cost.
func (s *Service) UpgradeBusiness(ctx context.Context, userID string, businessID int64) (UpgradeResult, error) {
	unlock := s.lockUsers(userID)
	defer unlock()

	list, err := s.store.ListBusinesses(ctx, userID)
	if err != nil {
		return UpgradeResult{}, err
	}
	for _, b := range list {
		if b.ID != businessID {
			continue
		}
		spec, ok := BusinessByID(b.Type)
		if !ok {
			return UpgradeResult{}, ErrUnknownBusiness
		}
		cost := UpgradeCost(spec.UpgradeBase, spec.UpgradeRate, int(b.Level), spec.MaxLevel)
		if cost == 0 {
			return UpgradeResult{}, ErrMaxLevel
		}
		var out UpgradeResult
		err := s.store.InTx(ctx, func(st store.Store) error {
			bal, err := s.modifyBalanceTx(ctx, st, userID, -cost, TxUpgrade, spec.Name+" upgrade")
			if err != nil {
				return err
			}
			b.Level++
			if err := st.UpdateBusiness(ctx, b); err != nil {
				return err
			}
			out = UpgradeResult{ID: b.ID, NewLevel: b.Level, Cost: cost, Balance: bal.Balance}
			return nil
		})
		if err != nil {
			return UpgradeResult{}, err
		}
		return out, nil
	}
	return UpgradeResult{}, ErrNotOwner
}

// Businesses lists the user's businesses with pending income.
func (s *Service) Businesses(ctx context.Context, userID string) ([]HoldingView, error) {
	list, err := s.store.ListBusinesses(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	out := make([]HoldingView, 0, len(list))
	for _, b := range list {
		spec, ok := BusinessByID(b.Type)
		if !ok {
			continue
		}
		rate := YieldAt(spec.IncomePerHr, spec.YieldGrowth, int(b.Level))
		out = append(out, HoldingView{
			ID:      b.ID,
			Type:    b.Type,
			Name:    spec.Name,
			Level:   b.Level,
			Pending: IdleAccrual(rate, now.Sub(b.LastCollected), spec.MaxIdleHours),
		})
	}
	return out, nil
}

// BuyProperty purchases a property of the given type.
func (s *Service) BuyProperty(ctx context.Context, userID, typeID string) (PurchaseResult, error) {
	spec, ok := PropertyByID(typeID)
	if !ok {
		return PurchaseResult{}, ErrUnknownProperty
	}

	unlock := s.lockUsers(userID)
	defer unlock()

	var out PurchaseResult
	err := s.store.InTx(ctx, func(st store.Store) error {
		bal, err := s.modifyBalanceTx(ctx, st, userID, -spec.Cost, TxPurchase, spec.Name)
		if err != nil {
			return err
		}
		id, err := st.InsertProperty(ctx, store.Property{
			OwnerID: userID, Type: typeID, Level: 1, LastCollected: s.now().UTC(),
		})
		if err != nil {
			return err
		}
		out = PurchaseResult{ID: id, Type: typeID, Cost: spec.Cost, Balance: bal.Balance}
		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}
	s.log.Info("property bought", "user", userID, "type", typeID, "id", out.ID)
	return out, nil
}

// CollectRent sweeps pending rent from every property the user owns.
func (s *Service) CollectRent(ctx context.Context, userID string) (CollectResult, error) {
	unlock := s.lockUsers(userID)
	defer unlock()

	buffs, err := s.buffsFor(ctx, userID)
	if err != nil {
		return CollectResult{}, err
	}
	list, err := s.store.ListProperties(ctx, userID)
	if err != nil {
		return CollectResult{}, err
	}

	now := s.now().UTC()
	var total int64
	var swept []store.Property
	for _, p := range list {
		spec, ok := PropertyByID(p.Type)
		if !ok {
			continue
		}
		rate := YieldAt(spec.RentPerHr, spec.YieldGrowth, int(p.Level))
		rent := IdleAccrual(rate, now.Sub(p.LastCollected), spec.MaxIdleHours)
		if rent <= 0 {
			continue
		}
		total += int64(float64(rent) * buffs.MoneyMult)
		p.LastCollected = now
		swept = append(swept, p)
	}
	if total == 0 {
		u, err := s.store.GetOrCreateUser(ctx, userID, "")
		if err != nil {
			return CollectResult{}, err
		}
		return CollectResult{Balance: u.Balance}, nil
	}

	var out CollectResult
	err = s.store.InTx(ctx, func(st store.Store) error {
		for _, p := range swept {
			if err := st.UpdateProperty(ctx, p); err != nil {
				return err
			}
		}
		bal, err := s.modifyBalanceTx(ctx, st, userID, total, TxRentIncome, fmt.Sprintf("%d properties", len(swept)))
		if err != nil {
			return err
		}
		out = CollectResult{Collected: total, Sources: len(swept), Balance: bal.Balance}
		return nil
	})
	if err != nil {
		return CollectResult{}, err
	}
	return out, nil
}

// UpgradeProperty raises one property a level for its formula-priced cost.
func (s *Service) UpgradeProperty(ctx context.Context, userID string, propertyID int64) (UpgradeResult, error) {
	unlock := s.lockUsers(userID)
	defer unlock()

	list, err := s.store.ListProperties(ctx, userID)
	if err != nil {
		return UpgradeResult{}, err
	}
	for _, p := range list {
		if p.ID != propertyID {
			continue
		}
		spec, ok := PropertyByID(p.Type)
		if !ok {
			return UpgradeResult{}, ErrUnknownProperty
		}
		cost := UpgradeCost(spec.UpgradeBase, spec.UpgradeRate, int(p.Level), spec.MaxLevel)
		if cost == 0 {
			return UpgradeResult{}, ErrMaxLevel
		}
		var out UpgradeResult
		err := s.store.InTx(ctx, func(st store.Store) error {
			bal, err := s.modifyBalanceTx(ctx, st, userID, -cost, TxUpgrade, spec.Name+" upgrade")
			if err != nil {
				return err
			}
			p.Level++
			if err := st.UpdateProperty(ctx, p); err != nil {
				return err
			}
			out = UpgradeResult{ID: p.ID, NewLevel: p.Level, Cost: cost, Balance: bal.Balance}
			return nil
		})
		if err != nil {
			return UpgradeResult{}, err
		}
		return out, nil
	}
	return UpgradeResult{}, ErrNotOwner
}

// Properties lists the user's properties with pending rent.
func (s *Service) Properties(ctx context.Context, userID string) ([]HoldingView, error) {
	list, err := s.store.ListProperties(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	out := make([]HoldingView, 0, len(list))
	for _, p := range list {
		spec, ok := PropertyByID(p.Type)
		if !ok {
			continue
		}
		rate := YieldAt(spec.RentPerHr, spec.YieldGrowth, int(p.Level))
		out = append(out, HoldingView{
			ID:      p.ID,
			Type:    p.Type,
			Name:    spec.Name,
			Level:   p.Level,
			Pending: IdleAccrual(rate, now.Sub(p.LastCollected), spec.MaxIdleHours),
		})
	}
	return out, nil
}
