package game

import (
	"context"
	"errors"
	"testing"
)

func fundUser(t *testing.T, svc *Service, userID string, amount int64) {
	t.Helper()
	if _, err := svc.ModifyBalance(context.Background(), userID, amount, TxSalary, "test funding"); err != nil {
		t.Fatalf("fund %s: %v", userID, err)
	}
}

func TestCreateGuildChargesFounder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	fundUser(t, svc, "u1", 20000)

	g, err := svc.CreateGuild(ctx, "u1", "Night Owls")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if g.Name != "Night Owls" || g.OwnerID != "u1" || g.Level != 1 {
		t.Fatalf("guild view: %+v", g)
	}

	acct, err := svc.Account(ctx, "u1")
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if acct.Balance != 20500-guildCreationCost {
		t.Fatalf("balance: got %d want %d", acct.Balance, 20500-guildCreationCost)
	}

	mine, err := svc.GuildOf(ctx, "u1")
	if err != nil {
		t.Fatalf("guild of: %v", err)
	}
	if mine.ID != g.ID {
		t.Fatalf("membership not recorded")
	}
}

func TestCreateGuildRequiresNameAndFunds(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateGuild(ctx, "u1", "  "); err == nil {
		t.Fatalf("blank name must fail")
	}
	if _, err := svc.CreateGuild(ctx, "u1", "Broke Club"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("got %v want ErrInsufficientFunds", err)
	}
}

func TestCreateGuildWhileMemberFails(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	fundUser(t, svc, "u1", 30000)

	if _, err := svc.CreateGuild(ctx, "u1", "First"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateGuild(ctx, "u1", "Second"); !errors.Is(err, ErrGuildExists) {
		t.Fatalf("got %v want ErrGuildExists", err)
	}
}

func TestJoinAndLeaveGuild(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	fundUser(t, svc, "u1", 20000)

	g, err := svc.CreateGuild(ctx, "u1", "Night Owls")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	joined, err := svc.JoinGuild(ctx, "u2", g.ID)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if joined.ID != g.ID {
		t.Fatalf("joined wrong guild")
	}
	if _, err := svc.JoinGuild(ctx, "u2", g.ID); !errors.Is(err, ErrGuildExists) {
		t.Fatalf("double join: got %v want ErrGuildExists", err)
	}

	if err := svc.LeaveGuild(ctx, "u2"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if _, err := svc.GuildOf(ctx, "u2"); !errors.Is(err, ErrGuildNotFound) {
		t.Fatalf("after leave: got %v want ErrGuildNotFound", err)
	}
	if err := svc.LeaveGuild(ctx, "u2"); !errors.Is(err, ErrGuildNotFound) {
		t.Fatalf("leave twice: got %v want ErrGuildNotFound", err)
	}
}

func TestJoinUnknownGuild(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.JoinGuild(context.Background(), "u1", "nope"); !errors.Is(err, ErrGuildNotFound) {
		t.Fatalf("got %v want ErrGuildNotFound", err)
	}
}

func TestContributeRaisesLevelAndBonus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	fundUser(t, svc, "u1", 30000)

	g, err := svc.CreateGuild(ctx, "u1", "Night Owls")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if g.BonusPct != GuildBonusPct(1) {
		t.Fatalf("fresh bonus: got %d", g.BonusPct)
	}

	// 1000 XP crosses the level 2 threshold on the guild curve.
	after, err := svc.ContributeToGuild(ctx, "u1", 1000)
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if after.XP != 1000 {
		t.Fatalf("guild xp: got %d want 1000", after.XP)
	}
	if after.Level != 2 {
		t.Fatalf("guild level: got %d want 2", after.Level)
	}
	if after.BonusPct != GuildBonusPct(2) {
		t.Fatalf("bonus: got %d want %d", after.BonusPct, GuildBonusPct(2))
	}

	if _, err := svc.ContributeToGuild(ctx, "u1", 0); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("zero contribution: got %v want ErrNegativeAmount", err)
	}
}

func TestContributeWithoutGuild(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.ContributeToGuild(context.Background(), "u1", 100); !errors.Is(err, ErrGuildNotFound) {
		t.Fatalf("got %v want ErrGuildNotFound", err)
	}
}
