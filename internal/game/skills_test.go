package game

import (
	"context"
	"testing"
)

func TestTrainSkill(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.TrainSkill(ctx, "u1", "juggling", 0); err == nil {
		t.Fatalf("unknown skill must fail")
	}

	res, err := svc.TrainSkill(ctx, "u1", SkillStrength, 0)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if res.XPGained != trainBaseXP {
		t.Fatalf("xp got %d want %d", res.XPGained, trainBaseXP)
	}
	if res.Balance != 500-trainCost {
		t.Fatalf("balance got %d", res.Balance)
	}

	// Past the soft cap the grant decays.
	res, err = svc.TrainSkill(ctx, "u1", SkillStrength, trainSoftCapPerDay+1)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if res.XPGained >= trainBaseXP {
		t.Fatalf("over-cap xp got %d, want less than %d", res.XPGained, trainBaseXP)
	}
}

func TestSkillsListing(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	skills, err := svc.Skills(ctx, "u1")
	if err != nil {
		t.Fatalf("skills: %v", err)
	}
	if len(skills) != len(AllSkills) {
		t.Fatalf("got %d skills want %d", len(skills), len(AllSkills))
	}
	for _, sk := range skills {
		if sk.Level != 1 {
			t.Fatalf("fresh skill %s at level %d", sk.Skill, sk.Level)
		}
	}
}

func TestPetsAndGuilds(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AdoptPet(ctx, "u1", "unicorn", ""); err != ErrUnknownPet {
		t.Fatalf("got %v want ErrUnknownPet", err)
	}
	pet, err := svc.AdoptPet(ctx, "u1", "hamster", "Biscuit")
	if err != nil {
		t.Fatalf("adopt: %v", err)
	}
	if pet.Name != "Biscuit" || pet.Level != 1 {
		t.Fatalf("pet: %+v", pet)
	}

	fed, err := svc.FeedPet(ctx, "u1", pet.ID)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if fed.XP != 10 {
		t.Fatalf("fed xp got %d want 10", fed.XP)
	}

	if _, err := svc.CreateGuild(ctx, "u1", "Night Owls"); err == nil {
		t.Fatalf("guild creation should fail on a depleted wallet")
	}
	if _, err := svc.ModifyBalance(ctx, "u1", 50_000, TxSalary, "seed"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	g, err := svc.CreateGuild(ctx, "u1", "Night Owls")
	if err != nil {
		t.Fatalf("create guild: %v", err)
	}
	if g.Level != 1 {
		t.Fatalf("fresh guild level %d", g.Level)
	}

	g, err = svc.ContributeToGuild(ctx, "u1", 1500)
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if g.XP != 1500 || g.Level != 2 {
		t.Fatalf("guild after contribution: %+v", g)
	}

	if _, err := svc.JoinGuild(ctx, "u1", g.ID); err != ErrGuildExists {
		t.Fatalf("double membership: got %v", err)
	}
	if err := svc.LeaveGuild(ctx, "u1"); err != nil {
		t.Fatalf("leave: %v", err)
	}
}
