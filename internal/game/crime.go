package game

import (
	"context"
	"fmt"
	"time"

	"lifesim/internal/store"
)

// CrimeResult reports one attempt.
type CrimeResult struct {
	Crime        string        `json:"crime"`
	Success      bool          `json:"success"`
	Payout       int64         `json:"payout,omitempty"`
	Fine         int64         `json:"fine,omitempty"`
	Jailed       bool          `json:"jailed"`
	JailedFor    time.Duration `json:"jailed_for,omitempty"`
	Balance      int64         `json:"balance"`
	HeatLevel    int64         `json:"heat_level"`
	SuccessRoll  float64       `json:"-"`
	SuccessNeed  float64       `json:"-"`
	XPGained     int64         `json:"xp_gained"`
}

// JailStatus reports whether the user is locked up.
type JailStatus struct {
	Jailed    bool          `json:"jailed"`
	Remaining time.Duration `json:"remaining,omitempty"`
}

// CheckJail reports jail state, lazily clearing an expired sentence. There is
// no background release job; expiry is observed on the next read.
func (s *Service) CheckJail(ctx context.Context, userID string) (JailStatus, error) {
	unlock := s.lockUsers(userID)
	defer unlock()
	_, status, err := s.jailStateLocked(ctx, userID)
	return status, err
}

func (s *Service) jailStateLocked(ctx context.Context, userID string) (store.CriminalRecord, JailStatus, error) {
	rec, err := s.store.GetOrCreateCriminalRecord(ctx, userID)
	if err != nil {
		return rec, JailStatus{}, err
	}
	if rec.JailReleaseAt == nil {
		return rec, JailStatus{}, nil
	}
	now := s.now().UTC()
	if !now.Before(*rec.JailReleaseAt) {
		rec.JailReleaseAt = nil
		if err := s.store.UpdateCriminalRecord(ctx, rec); err != nil {
			return rec, JailStatus{}, err
		}
		return rec, JailStatus{}, nil
	}
	return rec, JailStatus{Jailed: true, Remaining: rec.JailReleaseAt.Sub(now)}, nil
}

// CommitCrime attempts the named crime. Success pays a uniform amount from
// the crime's payout range and raises heat; failure fines a fraction of the
// wallet, may jail, and resets heat. Jailed users and users inside the
// crime's cooldown are rejected before any roll.
func (s *Service) CommitCrime(ctx context.Context, userID, crimeID string) (CrimeResult, error) {
	spec, ok := CrimeByID(crimeID)
	if !ok {
		return CrimeResult{}, ErrUnknownCrime
	}

	unlock := s.lockUsers(userID)
	defer unlock()

	rec, jail, err := s.jailStateLocked(ctx, userID)
	if err != nil {
		return CrimeResult{}, err
	}
	if jail.Jailed {
		return CrimeResult{}, fmt.Errorf("%w: released in %s", ErrJailed, jail.Remaining.Round(time.Second))
	}

	now := s.now().UTC()
	if rec.LastCrimeAt != nil {
		if elapsed := now.Sub(*rec.LastCrimeAt); elapsed < spec.Cooldown {
			return CrimeResult{}, &CooldownError{Remaining: spec.Cooldown - elapsed}
		}
	}

	buffs, err := s.buffsFor(ctx, userID)
	if err != nil {
		return CrimeResult{}, err
	}
	chance := spec.SuccessRate * buffs.CrimeSuccessMult
	if chance > 0.95 {
		chance = 0.95
	}
	roll := s.randFloat()

	res := CrimeResult{Crime: crimeID, SuccessRoll: roll, SuccessNeed: chance}
	rec.LastCrimeAt = &now

	if roll < chance {
		payout := s.randRange(spec.MinPayout, spec.MaxPayout)
		payout = int64(float64(payout) * buffs.MoneyMult)
		bal, err := s.modifyBalanceLocked(ctx, userID, payout, TxCrimeReward, spec.Name)
		if err != nil {
			return CrimeResult{}, err
		}
		rec.CrimesCommitted++
		rec.HeatLevel++
		xp := int64(float64(spec.XPReward) * buffs.XPMult)
		if err := s.store.AddSkillXP(ctx, userID, SkillCrime, xp); err != nil {
			return CrimeResult{}, err
		}
		if err := s.store.UpdateCriminalRecord(ctx, rec); err != nil {
			return CrimeResult{}, err
		}
		res.Success = true
		res.Payout = payout
		res.Balance = bal.Balance
		res.HeatLevel = rec.HeatLevel
		res.XPGained = xp
		s.log.Info("crime succeeded", "user", userID, "crime", crimeID, "payout", payout)
		return res, nil
	}

	// Failure: fine a fraction of the wallet, possibly jail.
	u, err := s.store.GetOrCreateUser(ctx, userID, "")
	if err != nil {
		return CrimeResult{}, err
	}
	fine := int64(float64(u.Balance) * spec.FinePct)
	if fine > 0 {
		bal, err := s.modifyBalanceLocked(ctx, userID, -fine, TxCrimeFine, spec.Name+" (caught)")
		if err != nil {
			return CrimeResult{}, err
		}
		res.Balance = bal.Balance
	} else {
		res.Balance = u.Balance
	}
	res.Fine = fine

	release := now.Add(spec.JailTime)
	rec.JailReleaseAt = &release
	rec.TimesJailed++
	rec.HeatLevel = 0
	if err := s.store.UpdateCriminalRecord(ctx, rec); err != nil {
		return CrimeResult{}, err
	}
	res.Jailed = true
	res.JailedFor = spec.JailTime
	res.HeatLevel = 0
	s.log.Info("crime failed", "user", userID, "crime", crimeID, "fine", fine, "jail", spec.JailTime)
	return res, nil
}

// CriminalProfile returns the user's rap sheet after lazy jail release.
func (s *Service) CriminalProfile(ctx context.Context, userID string) (store.CriminalRecord, JailStatus, error) {
	unlock := s.lockUsers(userID)
	defer unlock()
	return s.jailStateLocked(ctx, userID)
}
