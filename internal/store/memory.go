package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is an in-process Store used by tests and by dev mode when no
// database URL is configured. Individual calls are safe for concurrent use;
// multi-call atomicity is provided by the engine's per-user locks, so InTx
// here is a passthrough rather than a snapshot.
type Memory struct {
	mu           sync.RWMutex
	users        map[string]User
	transactions map[string][]Transaction
	credentials  map[string]Credential
	skills       map[string]map[string]int64
	criminals    map[string]CriminalRecord
	jobs         map[string]JobProfile
	relations    map[string]Relationship
	businesses   map[int64]Business
	properties   map[int64]Property
	pets         map[string][]Pet
	guilds       map[string]Guild
	holdings     map[string]map[string]float64
	prices       map[string]AssetPrice
	nextID       int64
}

func NewMemory() *Memory {
	return &Memory{
		users:        make(map[string]User),
		transactions: make(map[string][]Transaction),
		credentials:  make(map[string]Credential),
		skills:       make(map[string]map[string]int64),
		criminals:    make(map[string]CriminalRecord),
		jobs:         make(map[string]JobProfile),
		relations:    make(map[string]Relationship),
		businesses:   make(map[int64]Business),
		properties:   make(map[int64]Property),
		pets:         make(map[string][]Pet),
		guilds:       make(map[string]Guild),
		holdings:     make(map[string]map[string]float64),
		prices:       make(map[string]AssetPrice),
		nextID:       1,
	}
}

func (m *Memory) InTx(ctx context.Context, fn func(Store) error) error {
	return fn(m)
}

func (m *Memory) GetUser(ctx context.Context, userID string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) GetOrCreateUser(ctx context.Context, userID, username string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	u := NewUserDefaults(userID, username)
	m.users[userID] = u
	return u, nil
}

func (m *Memory) mutateUser(userID string, fn func(*User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	fn(&u)
	m.users[userID] = u
	return nil
}

func (m *Memory) UpdateBalances(ctx context.Context, userID string, balance, bank, netWorth int64) error {
	return m.mutateUser(userID, func(u *User) {
		u.Balance = balance
		u.Bank = bank
		u.NetWorth = netWorth
	})
}

func (m *Memory) SetBankLimit(ctx context.Context, userID string, limit int64) error {
	return m.mutateUser(userID, func(u *User) { u.BankLimit = limit })
}

func (m *Memory) SetDaily(ctx context.Context, userID string, streak int, last time.Time) error {
	return m.mutateUser(userID, func(u *User) {
		u.DailyStreak = streak
		t := last
		u.LastDaily = &t
	})
}

func (m *Memory) SetSpouse(ctx context.Context, userID, spouse string) error {
	return m.mutateUser(userID, func(u *User) { u.Spouse = spouse })
}

func (m *Memory) SetKidsJSON(ctx context.Context, userID string, kids []byte) error {
	return m.mutateUser(userID, func(u *User) { u.KidsJSON = kids })
}

func (m *Memory) SetGuildID(ctx context.Context, userID, guildID string) error {
	return m.mutateUser(userID, func(u *User) { u.GuildID = guildID })
}

func (m *Memory) TopNetWorth(ctx context.Context, limit int) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NetWorth != out[j].NetWorth {
			return out[i].NetWorth > out[j].NetWorth
		}
		return out[i].UserID < out[j].UserID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) AppendTransaction(ctx context.Context, t Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[t.UserID] = append(m.transactions[t.UserID], t)
	return nil
}

func (m *Memory) RecentTransactions(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.transactions[userID]
	out := make([]Transaction, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (m *Memory) CreateCredential(ctx context.Context, c Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.credentials[c.Email]; ok {
		return ErrDuplicate
	}
	m.credentials[c.Email] = c
	return nil
}

func (m *Memory) GetCredentialByEmail(ctx context.Context, email string) (Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.credentials[email]
	if !ok {
		return Credential{}, ErrNotFound
	}
	return c, nil
}

func (m *Memory) SkillXP(ctx context.Context, userID string) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int64, len(m.skills[userID]))
	for k, v := range m.skills[userID] {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) AddSkillXP(ctx context.Context, userID, skill string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.skills[userID] == nil {
		m.skills[userID] = make(map[string]int64)
	}
	m.skills[userID][skill] += delta
	return nil
}

func (m *Memory) GetOrCreateCriminalRecord(ctx context.Context, userID string) (CriminalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.criminals[userID]; ok {
		return rec, nil
	}
	rec := CriminalRecord{UserID: userID}
	m.criminals[userID] = rec
	return rec, nil
}

func (m *Memory) UpdateCriminalRecord(ctx context.Context, rec CriminalRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.criminals[rec.UserID]; !ok {
		return ErrNotFound
	}
	m.criminals[rec.UserID] = rec
	return nil
}

func (m *Memory) GetOrCreateJobProfile(ctx context.Context, userID string) (JobProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.jobs[userID]; ok {
		return p, nil
	}
	p := JobProfile{UserID: userID}
	m.jobs[userID] = p
	return p, nil
}

func (m *Memory) UpdateJobProfile(ctx context.Context, p JobProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[p.UserID]; !ok {
		return ErrNotFound
	}
	m.jobs[p.UserID] = p
	return nil
}

func relKey(a, b string) string { return a + "\x00" + b }

func (m *Memory) GetRelationship(ctx context.Context, userA, userB string) (Relationship, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rel, ok := m.relations[relKey(userA, userB)]
	if !ok {
		return Relationship{}, ErrNotFound
	}
	return rel, nil
}

func (m *Memory) UpsertRelationship(ctx context.Context, rel Relationship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.relations[relKey(rel.UserA, rel.UserB)] = rel
	return nil
}

func (m *Memory) ListBusinesses(ctx context.Context, ownerID string) ([]Business, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Business
	for _, b := range m.businesses {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) InsertBusiness(ctx context.Context, b Business) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.nextID
	m.nextID++
	m.businesses[b.ID] = b
	return b.ID, nil
}

func (m *Memory) UpdateBusiness(ctx context.Context, b Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.businesses[b.ID]; !ok {
		return ErrNotFound
	}
	m.businesses[b.ID] = b
	return nil
}

func (m *Memory) ListProperties(ctx context.Context, ownerID string) ([]Property, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Property
	for _, p := range m.properties {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) InsertProperty(ctx context.Context, p Property) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID
	m.nextID++
	m.properties[p.ID] = p
	return p.ID, nil
}

func (m *Memory) UpdateProperty(ctx context.Context, p Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.properties[p.ID]; !ok {
		return ErrNotFound
	}
	m.properties[p.ID] = p
	return nil
}

func (m *Memory) ListPets(ctx context.Context, ownerID string) ([]Pet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Pet, len(m.pets[ownerID]))
	copy(out, m.pets[ownerID])
	return out, nil
}

func (m *Memory) InsertPet(ctx context.Context, p Pet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pets[p.OwnerID] = append(m.pets[p.OwnerID], p)
	return nil
}

func (m *Memory) UpdatePet(ctx context.Context, p Pet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, got := range m.pets[p.OwnerID] {
		if got.ID == p.ID {
			m.pets[p.OwnerID][i] = p
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) GetGuild(ctx context.Context, guildID string) (Guild, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.guilds[guildID]
	if !ok {
		return Guild{}, ErrNotFound
	}
	return g, nil
}

func (m *Memory) UpsertGuild(ctx context.Context, g Guild) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guilds[g.GuildID] = g
	return nil
}

func (m *Memory) ListHoldings(ctx context.Context, userID string) ([]Holding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Holding
	for sym, units := range m.holdings[userID] {
		if units != 0 {
			out = append(out, Holding{UserID: userID, Symbol: sym, Units: units})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func (m *Memory) UpsertHolding(ctx context.Context, h Holding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.holdings[h.UserID] == nil {
		m.holdings[h.UserID] = make(map[string]float64)
	}
	m.holdings[h.UserID][h.Symbol] = h.Units
	return nil
}

func (m *Memory) SaveAssetPrices(ctx context.Context, prices []AssetPrice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range prices {
		m.prices[p.Symbol] = p
	}
	return nil
}

func (m *Memory) ListAssetPrices(ctx context.Context) ([]AssetPrice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]AssetPrice, 0, len(m.prices))
	for _, p := range m.prices {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}
