package game

import (
	"context"
	"fmt"
	"time"
)

const (
	trainBaseXP        = int64(25)
	trainCost          = int64(50)
	trainSoftCapPerDay = 5
)

// SkillView is one skill's progress.
type SkillView struct {
	Skill  string `json:"skill"`
	Level  int    `json:"level"`
	XP     int64  `json:"xp"`
	Into   int64  `json:"into"`
	Needed int64  `json:"needed"`
}

// TrainResult reports a training session.
type TrainResult struct {
	Skill    string `json:"skill"`
	XPGained int64  `json:"xp_gained"`
	Level    int    `json:"level"`
	Balance  int64  `json:"balance"`
}

func validSkill(skill string) bool {
	for _, s := range AllSkills {
		if s == skill {
			return true
		}
	}
	return false
}

// TrainSkill pays the training fee and grants XP to one skill, scaled by the
// user's XP buffs. Sessions past the daily soft cap earn decayed XP.
func (s *Service) TrainSkill(ctx context.Context, userID, skill string, sessionsToday int) (TrainResult, error) {
	if !validSkill(skill) {
		return TrainResult{}, fmt.Errorf("%w: %q", ErrUnknownSkill, skill)
	}

	unlock := s.lockUsers(userID)
	defer unlock()

	_, jail, err := s.jailStateLocked(ctx, userID)
	if err != nil {
		return TrainResult{}, err
	}
	if jail.Jailed {
		return TrainResult{}, fmt.Errorf("%w: released in %s", ErrJailed, jail.Remaining.Round(time.Second))
	}

	buffs, err := s.buffsFor(ctx, userID)
	if err != nil {
		return TrainResult{}, err
	}

	bal, err := s.modifyBalanceLocked(ctx, userID, -trainCost, TxPurchase, "training: "+skill)
	if err != nil {
		return TrainResult{}, err
	}

	xp := TrainingXP(trainBaseXP, sessionsToday, trainSoftCapPerDay)
	xp = int64(float64(xp) * buffs.XPMult)
	if err := s.store.AddSkillXP(ctx, userID, skill, xp); err != nil {
		return TrainResult{}, err
	}

	skills, err := s.store.SkillXP(ctx, userID)
	if err != nil {
		return TrainResult{}, err
	}
	return TrainResult{
		Skill:    skill,
		XPGained: xp,
		Level:    SkillCurve.Level(skills[skill]),
		Balance:  bal.Balance,
	}, nil
}

// Skills returns every tracked skill's progress, including untouched ones at
// level 1.
func (s *Service) Skills(ctx context.Context, userID string) ([]SkillView, error) {
	if _, err := s.store.GetOrCreateUser(ctx, userID, ""); err != nil {
		return nil, err
	}
	xp, err := s.store.SkillXP(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]SkillView, 0, len(AllSkills))
	for _, skill := range AllSkills {
		level, into, needed := SkillCurve.FromXP(xp[skill])
		out = append(out, SkillView{Skill: skill, Level: level, XP: xp[skill], Into: into, Needed: needed})
	}
	return out, nil
}
