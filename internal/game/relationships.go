package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lifesim/internal/store"
)

// Relationship statuses. Progression is one-way except through Breakup.
const (
	RelStranger = "stranger"
	RelFriend   = "friend"
	RelPartner  = "partner"
	RelMarried  = "married"
	RelEx       = "ex"
)

const interactCooldown = 5 * time.Minute

var interactionGain = map[string]int64{
	"talk":    3,
	"hangout": 6,
	"flirt":   10,
}

// RelationshipView is the API shape of a pair's relationship.
type RelationshipView struct {
	With      string `json:"with"`
	Affection int64  `json:"affection"`
	Status    string `json:"status"`
}

// Interact applies one social interaction from actor to target. Interactions
// share a 5-minute per-pair cooldown. Crossing the friend threshold upgrades
// a stranger pair automatically.
func (s *Service) Interact(ctx context.Context, actorID, targetID, kind string) (RelationshipView, error) {
	gain, ok := interactionGain[kind]
	if !ok {
		return RelationshipView{}, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
	}
	return s.bumpAffection(ctx, actorID, targetID, gain, true)
}

// GiveGift spends wallet money on the target and converts its value into
// affection at one point per 500 coins, between 1 and 40 points. Gifts skip
// the interaction cooldown.
func (s *Service) GiveGift(ctx context.Context, actorID, targetID string, value int64) (RelationshipView, error) {
	if value <= 0 {
		return RelationshipView{}, ErrNegativeAmount
	}
	if actorID == targetID {
		return RelationshipView{}, ErrSelfTransfer
	}

	unlock := s.lockUsers(actorID, targetID)
	defer unlock()

	if _, err := s.modifyBalanceLocked(ctx, actorID, -value, TxGift, fmt.Sprintf("gift for %s", targetID)); err != nil {
		return RelationshipView{}, err
	}
	gain := clampI64(value/GiftAffectionUnit, 1, GiftAffectionCap)
	return s.bumpAffectionLocked(ctx, actorID, targetID, gain, false)
}

func (s *Service) bumpAffection(ctx context.Context, actorID, targetID string, gain int64, cooldown bool) (RelationshipView, error) {
	if actorID == targetID {
		return RelationshipView{}, ErrSelfTransfer
	}
	unlock := s.lockUsers(actorID, targetID)
	defer unlock()
	return s.bumpAffectionLocked(ctx, actorID, targetID, gain, cooldown)
}

func (s *Service) bumpAffectionLocked(ctx context.Context, actorID, targetID string, gain int64, cooldown bool) (RelationshipView, error) {
	if _, err := s.store.GetOrCreateUser(ctx, actorID, ""); err != nil {
		return RelationshipView{}, err
	}
	if _, err := s.store.GetOrCreateUser(ctx, targetID, ""); err != nil {
		return RelationshipView{}, err
	}

	rel, err := s.pairLocked(ctx, actorID, targetID)
	if err != nil {
		return RelationshipView{}, err
	}

	now := s.now().UTC()
	if cooldown && rel.LastInteraction != nil {
		if elapsed := now.Sub(*rel.LastInteraction); elapsed < interactCooldown {
			return RelationshipView{}, &CooldownError{Remaining: interactCooldown - elapsed}
		}
	}

	rel.Affection = clampI64(rel.Affection+gain, 0, AffectionMax)
	rel.LastInteraction = &now
	if rel.Status == RelStranger && rel.Affection >= FriendThreshold {
		rel.Status = RelFriend
	}
	if err := s.store.UpsertRelationship(ctx, rel); err != nil {
		return RelationshipView{}, err
	}
	return RelationshipView{With: targetID, Affection: rel.Affection, Status: rel.Status}, nil
}

// pairLocked loads the canonical relationship row, creating a fresh stranger
// row when none exists.
func (s *Service) pairLocked(ctx context.Context, a, b string) (store.Relationship, error) {
	ua, ub := canonicalPair(a, b)
	rel, err := s.store.GetRelationship(ctx, ua, ub)
	if errors.Is(err, store.ErrNotFound) {
		return store.Relationship{UserA: ua, UserB: ub, Status: RelStranger}, nil
	}
	return rel, err
}

// AskOut proposes dating. Requires affection at or above the ask-out
// threshold and that neither side is already partnered.
func (s *Service) AskOut(ctx context.Context, actorID, targetID string) (RelationshipView, error) {
	if actorID == targetID {
		return RelationshipView{}, ErrSelfTransfer
	}
	unlock := s.lockUsers(actorID, targetID)
	defer unlock()

	actor, err := s.store.GetOrCreateUser(ctx, actorID, "")
	if err != nil {
		return RelationshipView{}, err
	}
	target, err := s.store.GetOrCreateUser(ctx, targetID, "")
	if err != nil {
		return RelationshipView{}, err
	}
	if actor.Spouse != "" || target.Spouse != "" {
		return RelationshipView{}, ErrAlreadyPartnered
	}

	rel, err := s.pairLocked(ctx, actorID, targetID)
	if err != nil {
		return RelationshipView{}, err
	}
	if rel.Status == RelPartner || rel.Status == RelMarried {
		return RelationshipView{}, ErrAlreadyPartnered
	}
	if rel.Affection < AskOutThreshold {
		return RelationshipView{}, fmt.Errorf("%w: need %d affection, have %d", ErrAffectionTooLow, AskOutThreshold, rel.Affection)
	}

	rel.Status = RelPartner
	if err := s.store.UpsertRelationship(ctx, rel); err != nil {
		return RelationshipView{}, err
	}
	if err := s.store.SetSpouse(ctx, actorID, targetID); err != nil {
		return RelationshipView{}, err
	}
	if err := s.store.SetSpouse(ctx, targetID, actorID); err != nil {
		return RelationshipView{}, err
	}
	s.log.Info("new couple", "a", actorID, "b", targetID)
	return RelationshipView{With: targetID, Affection: rel.Affection, Status: rel.Status}, nil
}

// Marry upgrades a partner pair at high affection.
func (s *Service) Marry(ctx context.Context, actorID, targetID string) (RelationshipView, error) {
	if actorID == targetID {
		return RelationshipView{}, ErrSelfTransfer
	}
	unlock := s.lockUsers(actorID, targetID)
	defer unlock()

	rel, err := s.pairLocked(ctx, actorID, targetID)
	if err != nil {
		return RelationshipView{}, err
	}
	if rel.Status != RelPartner {
		return RelationshipView{}, ErrNotPartners
	}
	if rel.Affection < MarryThreshold {
		return RelationshipView{}, fmt.Errorf("%w: need %d affection, have %d", ErrAffectionTooLow, MarryThreshold, rel.Affection)
	}
	rel.Status = RelMarried
	if err := s.store.UpsertRelationship(ctx, rel); err != nil {
		return RelationshipView{}, err
	}
	return RelationshipView{With: targetID, Affection: rel.Affection, Status: rel.Status}, nil
}

// Breakup ends a partnership or marriage: both spouse pointers clear, the
// status becomes ex, and affection drops by the breakup penalty.
func (s *Service) Breakup(ctx context.Context, actorID, targetID string) (RelationshipView, error) {
	if actorID == targetID {
		return RelationshipView{}, ErrSelfTransfer
	}
	unlock := s.lockUsers(actorID, targetID)
	defer unlock()

	rel, err := s.pairLocked(ctx, actorID, targetID)
	if err != nil {
		return RelationshipView{}, err
	}
	if rel.Status != RelPartner && rel.Status != RelMarried {
		return RelationshipView{}, ErrNotPartners
	}

	rel.Status = RelEx
	rel.Affection = clampI64(rel.Affection-BreakupPenalty, 0, AffectionMax)
	if err := s.store.UpsertRelationship(ctx, rel); err != nil {
		return RelationshipView{}, err
	}
	if err := s.store.SetSpouse(ctx, actorID, ""); err != nil {
		return RelationshipView{}, err
	}
	if err := s.store.SetSpouse(ctx, targetID, ""); err != nil {
		return RelationshipView{}, err
	}
	return RelationshipView{With: targetID, Affection: rel.Affection, Status: rel.Status}, nil
}

// RelationshipWith returns the current state of a pair.
func (s *Service) RelationshipWith(ctx context.Context, actorID, targetID string) (RelationshipView, error) {
	rel, err := s.pairLocked(ctx, actorID, targetID)
	if err != nil {
		return RelationshipView{}, err
	}
	return RelationshipView{With: targetID, Affection: rel.Affection, Status: rel.Status}, nil
}
