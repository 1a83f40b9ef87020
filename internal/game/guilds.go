package game

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"lifesim/internal/store"
)

const guildCreationCost = int64(10000)

// GuildView is the API shape of a guild.
type GuildView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	OwnerID  string `json:"owner_id"`
	Level    int    `json:"level"`
	XP       int64  `json:"xp"`
	BonusPct int64  `json:"bonus_pct"`
}

// CreateGuild founds a guild, charges the creation fee, and enrolls the
// founder.
func (s *Service) CreateGuild(ctx context.Context, userID, name string) (GuildView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return GuildView{}, errors.New("guild name is required")
	}

	unlock := s.lockUsers(userID)
	defer unlock()

	u, err := s.store.GetOrCreateUser(ctx, userID, "")
	if err != nil {
		return GuildView{}, err
	}
	if u.GuildID != "" {
		return GuildView{}, ErrGuildExists
	}

	if _, err := s.modifyBalanceLocked(ctx, userID, -guildCreationCost, TxPurchase, "guild: "+name); err != nil {
		return GuildView{}, err
	}
	g := store.Guild{GuildID: uuid.NewString(), Name: name, OwnerID: userID}
	if err := s.store.UpsertGuild(ctx, g); err != nil {
		return GuildView{}, err
	}
	if err := s.store.SetGuildID(ctx, userID, g.GuildID); err != nil {
		return GuildView{}, err
	}
	s.log.Info("guild created", "user", userID, "guild", g.GuildID, "name", name)
	return guildView(g), nil
}

// JoinGuild enrolls the user in an existing guild.
func (s *Service) JoinGuild(ctx context.Context, userID, guildID string) (GuildView, error) {
	unlock := s.lockUsers(userID)
	defer unlock()

	u, err := s.store.GetOrCreateUser(ctx, userID, "")
	if err != nil {
		return GuildView{}, err
	}
	if u.GuildID != "" {
		return GuildView{}, ErrGuildExists
	}
	g, err := s.store.GetGuild(ctx, guildID)
	if errors.Is(err, store.ErrNotFound) {
		return GuildView{}, ErrGuildNotFound
	}
	if err != nil {
		return GuildView{}, err
	}
	if err := s.store.SetGuildID(ctx, userID, g.GuildID); err != nil {
		return GuildView{}, err
	}
	return guildView(g), nil
}

// LeaveGuild drops guild membership.
func (s *Service) LeaveGuild(ctx context.Context, userID string) error {
	unlock := s.lockUsers(userID)
	defer unlock()

	u, err := s.store.GetOrCreateUser(ctx, userID, "")
	if err != nil {
		return err
	}
	if u.GuildID == "" {
		return ErrGuildNotFound
	}
	return s.store.SetGuildID(ctx, userID, "")
}

// ContributeToGuild converts wallet money into guild XP at one XP per coin.
func (s *Service) ContributeToGuild(ctx context.Context, userID string, amount int64) (GuildView, error) {
	if amount <= 0 {
		return GuildView{}, ErrNegativeAmount
	}

	unlock := s.lockUsers(userID)
	defer unlock()

	u, err := s.store.GetOrCreateUser(ctx, userID, "")
	if err != nil {
		return GuildView{}, err
	}
	if u.GuildID == "" {
		return GuildView{}, ErrGuildNotFound
	}
	g, err := s.store.GetGuild(ctx, u.GuildID)
	if err != nil {
		return GuildView{}, err
	}
	if _, err := s.modifyBalanceLocked(ctx, userID, -amount, TxPurchase, "guild contribution"); err != nil {
		return GuildView{}, err
	}
	g.XP += amount
	if err := s.store.UpsertGuild(ctx, g); err != nil {
		return GuildView{}, err
	}
	return guildView(g), nil
}

// GuildOf returns the user's guild, if any.
func (s *Service) GuildOf(ctx context.Context, userID string) (GuildView, error) {
	u, err := s.store.GetOrCreateUser(ctx, userID, "")
	if err != nil {
		return GuildView{}, err
	}
	if u.GuildID == "" {
		return GuildView{}, ErrGuildNotFound
	}
	g, err := s.store.GetGuild(ctx, u.GuildID)
	if err != nil {
		return GuildView{}, err
	}
	return guildView(g), nil
}

func guildView(g store.Guild) GuildView {
	level := GuildCurve.Level(g.XP)
	return GuildView{
		ID:       g.GuildID,
		Name:     g.Name,
		OwnerID:  g.OwnerID,
		Level:    level,
		XP:       g.XP,
		BonusPct: GuildBonusPct(level),
	}
}
