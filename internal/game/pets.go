package game

import (
	"context"

	"github.com/google/uuid"

	"lifesim/internal/store"
)

// PetView is the API shape of an owned pet.
type PetView struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	Level int    `json:"level"`
	XP    int64  `json:"xp"`
	Alive bool   `json:"alive"`
}

// AdoptPet buys a pet of the given type.
func (s *Service) AdoptPet(ctx context.Context, userID, typeID, name string) (PetView, error) {
	spec, ok := PetByID(typeID)
	if !ok {
		return PetView{}, ErrUnknownPet
	}
	if name == "" {
		name = spec.Name
	}

	unlock := s.lockUsers(userID)
	defer unlock()

	if _, err := s.modifyBalanceLocked(ctx, userID, -spec.Cost, TxPurchase, "pet: "+spec.Name); err != nil {
		return PetView{}, err
	}
	p := store.Pet{
		ID:      uuid.NewString(),
		OwnerID: userID,
		Type:    typeID,
		Name:    name,
		Alive:   true,
	}
	if err := s.store.InsertPet(ctx, p); err != nil {
		return PetView{}, err
	}
	return petView(p), nil
}

// FeedPet grants the pet XP for a small fee.
func (s *Service) FeedPet(ctx context.Context, userID, petID string) (PetView, error) {
	unlock := s.lockUsers(userID)
	defer unlock()

	list, err := s.store.ListPets(ctx, userID)
	if err != nil {
		return PetView{}, err
	}
	for _, p := range list {
		if p.ID != petID {
			continue
		}
		if !p.Alive {
			return PetView{}, ErrUnknownPet
		}
		if _, err := s.modifyBalanceLocked(ctx, userID, -10, TxPurchase, "pet food"); err != nil {
			return PetView{}, err
		}
		p.XP += 10
		if err := s.store.UpdatePet(ctx, p); err != nil {
			return PetView{}, err
		}
		return petView(p), nil
	}
	return PetView{}, ErrNotOwner
}

// Pets lists the user's pets.
func (s *Service) Pets(ctx context.Context, userID string) ([]PetView, error) {
	list, err := s.store.ListPets(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]PetView, 0, len(list))
	for _, p := range list {
		out = append(out, petView(p))
	}
	return out, nil
}

func petView(p store.Pet) PetView {
	return PetView{
		ID:    p.ID,
		Type:  p.Type,
		Name:  p.Name,
		Level: PetCurve.Level(p.XP),
		XP:    p.XP,
		Alive: p.Alive,
	}
}
