package game

import (
	"context"
	"log/slog"
	mathrand "math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"lifesim/internal/store"
)

// Service is the economy engine. All money movement, risk resolution and
// progression flows through it; the HTTP layer and CLI are thin shells.
type Service struct {
	store  store.Store
	log    *slog.Logger
	market *PriceBook

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	randMu sync.Mutex
	rand   *mathrand.Rand

	now func() time.Time
}

func NewService(st store.Store, market *PriceBook, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if market == nil {
		market = NewPriceBook(nil)
	}
	return &Service{
		store:  st,
		log:    logger,
		market: market,
		locks:  make(map[string]*sync.Mutex),
		rand:   mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
}

// Market exposes the price book for the worker loop and price endpoints.
func (s *Service) Market() *PriceBook { return s.market }

// Store exposes the persistence layer for read-only surfaces (auth signup,
// leaderboards rendered outside the engine).
func (s *Service) Store() store.Store { return s.store }

// userLock returns the mutex serializing mutations for one user. Locks are
// created on first use and never discarded; the set of users in play at once
// is small relative to memory.
func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// lockUsers acquires every listed user's lock in ascending id order and
// returns the unlock function. Ordering prevents deadlock when two transfers
// cross.
func (s *Service) lockUsers(ids ...string) func() {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	var held []*sync.Mutex
	for i, id := range sorted {
		if i > 0 && id == sorted[i-1] {
			continue
		}
		l := s.userLock(id)
		l.Lock()
		held = append(held, l)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func (s *Service) randFloat() float64 {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rand.Float64()
}

func (s *Service) randRange(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return lo + s.rand.Int63n(hi-lo+1)
}

func (s *Service) randIntn(n int) int {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rand.Intn(n)
}

// SeedRand replaces the RNG source. Tests use this for deterministic rolls.
func (s *Service) SeedRand(seed int64) {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	s.rand = mathrand.New(mathrand.NewSource(seed))
}

// SetClock replaces the time source. Tests use this to step cooldowns.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func newTxRecord(userID string, amount int64, typ, desc string, at time.Time) store.Transaction {
	return store.Transaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Type:      typ,
		Desc:      desc,
		CreatedAt: at,
	}
}

// netWorthOf prices the user's liquid cash plus crypto holdings at current
// market quotes. Property and business principal is deliberately excluded;
// those pay out through income instead.
func (s *Service) netWorthOf(ctx context.Context, st store.Store, u store.User) (int64, error) {
	total := u.Balance + u.Bank
	holdings, err := st.ListHoldings(ctx, u.UserID)
	if err != nil {
		return 0, err
	}
	for _, h := range holdings {
		if price, ok := s.market.Price(h.Symbol); ok {
			total += int64(h.Units * price)
		}
	}
	return total, nil
}

// buffsFor assembles the aggregate buffs for a user from their stored state.
func (s *Service) buffsFor(ctx context.Context, userID string) (Buffs, error) {
	u, err := s.store.GetOrCreateUser(ctx, userID, "")
	if err != nil {
		return Buffs{}, err
	}

	in := BuffInputs{
		HasSpouse:        u.Spouse != "",
		KidsJSON:         u.KidsJSON,
		PartnerAffection: -1,
	}

	if u.Spouse != "" {
		a, b := canonicalPair(u.UserID, u.Spouse)
		rel, err := s.store.GetRelationship(ctx, a, b)
		if err == nil {
			in.PartnerAffection = rel.Affection
		}
	}

	props, err := s.store.ListProperties(ctx, userID)
	if err != nil {
		return Buffs{}, err
	}
	for _, p := range props {
		if spec, ok := PropertyByID(p.Type); ok {
			in.Properties = append(in.Properties, spec)
		}
	}

	petRows, err := s.store.ListPets(ctx, userID)
	if err != nil {
		return Buffs{}, err
	}
	for _, p := range petRows {
		if !p.Alive {
			continue
		}
		if spec, ok := PetByID(p.Type); ok {
			in.Pets = append(in.Pets, spec)
		}
	}

	if u.GuildID != "" {
		g, err := s.store.GetGuild(ctx, u.GuildID)
		if err == nil {
			in.GuildLevel = GuildCurve.Level(g.XP)
		}
	}

	return ComputeBuffs(in), nil
}

// Buffs returns the user's current aggregate buffs.
func (s *Service) Buffs(ctx context.Context, userID string) (Buffs, error) {
	unlock := s.lockUsers(userID)
	defer unlock()
	return s.buffsFor(ctx, userID)
}

func canonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}
