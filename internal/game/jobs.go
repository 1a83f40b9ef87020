package game

import (
	"context"
	"fmt"
	"time"

	"lifesim/internal/store"
)

// WorkResult reports a completed shift.
type WorkResult struct {
	Job      string `json:"job"`
	Position string `json:"position"`
	Pay      int64  `json:"pay"`
	Shifts   int64  `json:"shifts"`
	Promoted bool   `json:"promoted"`
	JobXP    int64  `json:"job_xp"`
	JobLevel int    `json:"job_level"`
	Balance  int64  `json:"balance"`
}

// JobStatus is the user's current employment view.
type JobStatus struct {
	Employed   bool   `json:"employed"`
	Job        string `json:"job,omitempty"`
	Position   string `json:"position,omitempty"`
	Shifts     int64  `json:"shifts"`
	Promotions int64  `json:"promotions"`
	BonusPct   int64  `json:"bonus_pct"`
	JobLevel   int    `json:"job_level"`
	JobXP      int64  `json:"job_xp"`
}

// JoinJob employs the user. Employment is exclusive; quitting first is
// required to switch. Jobs gate on the user's relevant skill level.
func (s *Service) JoinJob(ctx context.Context, userID, jobID string) (JobStatus, error) {
	spec, ok := JobByID(jobID)
	if !ok {
		return JobStatus{}, ErrUnknownJob
	}

	unlock := s.lockUsers(userID)
	defer unlock()

	if _, err := s.store.GetOrCreateUser(ctx, userID, ""); err != nil {
		return JobStatus{}, err
	}
	p, err := s.store.GetOrCreateJobProfile(ctx, userID)
	if err != nil {
		return JobStatus{}, err
	}
	if p.JobID != "" && p.JobID != JobUnemployed {
		return JobStatus{}, ErrAlreadyEmployed
	}

	skills, err := s.store.SkillXP(ctx, userID)
	if err != nil {
		return JobStatus{}, err
	}
	if SkillCurve.Level(skills[spec.Skill]) < spec.RequiredLevel {
		return JobStatus{}, fmt.Errorf("%w: %s level %d required", ErrLevelTooLow, spec.Skill, spec.RequiredLevel)
	}

	p.JobID = jobID
	p.Position = spec.Positions[0]
	p.Promotions = 0
	p.SalaryBonusPct = 0
	if err := s.store.UpdateJobProfile(ctx, p); err != nil {
		return JobStatus{}, err
	}
	s.log.Info("job joined", "user", userID, "job", jobID)
	return jobStatusOf(p), nil
}

// QuitJob ends employment. Shift history and job XP are kept.
func (s *Service) QuitJob(ctx context.Context, userID string) (JobStatus, error) {
	unlock := s.lockUsers(userID)
	defer unlock()

	p, err := s.store.GetOrCreateJobProfile(ctx, userID)
	if err != nil {
		return JobStatus{}, err
	}
	if p.JobID == "" || p.JobID == JobUnemployed {
		return JobStatus{}, ErrNotEmployed
	}
	p.JobID = JobUnemployed
	p.Position = ""
	if err := s.store.UpdateJobProfile(ctx, p); err != nil {
		return JobStatus{}, err
	}
	return jobStatusOf(p), nil
}

// WorkShift performs one shift: pays the composed salary through the ledger,
// grants job and skill XP, and promotes on every 10th shift (one promotion
// step raises the position title and adds 5 percentage points of salary
// bonus). Shifts are rate limited by the job's cooldown and blocked in jail.
func (s *Service) WorkShift(ctx context.Context, userID string) (WorkResult, error) {
	unlock := s.lockUsers(userID)
	defer unlock()

	_, jail, err := s.jailStateLocked(ctx, userID)
	if err != nil {
		return WorkResult{}, err
	}
	if jail.Jailed {
		return WorkResult{}, fmt.Errorf("%w: released in %s", ErrJailed, jail.Remaining.Round(time.Second))
	}

	p, err := s.store.GetOrCreateJobProfile(ctx, userID)
	if err != nil {
		return WorkResult{}, err
	}
	if p.JobID == "" || p.JobID == JobUnemployed {
		return WorkResult{}, ErrNotEmployed
	}
	spec, ok := JobByID(p.JobID)
	if !ok {
		return WorkResult{}, ErrUnknownJob
	}

	now := s.now().UTC()
	if p.LastWorked != nil {
		if elapsed := now.Sub(*p.LastWorked); elapsed < spec.ShiftCooldown {
			return WorkResult{}, &CooldownError{Remaining: spec.ShiftCooldown - elapsed}
		}
	}

	buffs, err := s.buffsFor(ctx, userID)
	if err != nil {
		return WorkResult{}, err
	}
	skills, err := s.store.SkillXP(ctx, userID)
	if err != nil {
		return WorkResult{}, err
	}
	skillLevel := SkillCurve.Level(skills[spec.Skill])

	pay := WorkEarnings(spec.BaseShiftPay, p.Promotions, p.SalaryBonusPct, skillLevel)
	pay = int64(float64(pay) * buffs.MoneyMult * buffs.WorkSuccessMult)

	bal, err := s.modifyBalanceLocked(ctx, userID, pay, TxSalary, spec.Name+" shift")
	if err != nil {
		return WorkResult{}, err
	}

	p.ShiftsWorked++
	p.LastWorked = &now
	promoted := false
	if p.ShiftsWorked%PromotionEveryShifts == 0 {
		p.Promotions++
		p.SalaryBonusPct += PromotionBonusPctStep
		p.Position = positionAt(spec, p.Promotions)
		promoted = true
	}

	xp := int64(float64(spec.XPPerShift) * buffs.XPMult)
	p.JobXP += xp
	if err := s.store.UpdateJobProfile(ctx, p); err != nil {
		return WorkResult{}, err
	}
	if err := s.store.AddSkillXP(ctx, userID, spec.Skill, xp); err != nil {
		return WorkResult{}, err
	}

	level, _, _ := JobLevelFromXP(p.JobXP)
	if promoted {
		s.log.Info("promotion", "user", userID, "job", p.JobID, "position", p.Position)
	}
	return WorkResult{
		Job:      p.JobID,
		Position: p.Position,
		Pay:      pay,
		Shifts:   p.ShiftsWorked,
		Promoted: promoted,
		JobXP:    p.JobXP,
		JobLevel: level,
		Balance:  bal.Balance,
	}, nil
}

// EmploymentStatus returns the user's current job view.
func (s *Service) EmploymentStatus(ctx context.Context, userID string) (JobStatus, error) {
	p, err := s.store.GetOrCreateJobProfile(ctx, userID)
	if err != nil {
		return JobStatus{}, err
	}
	return jobStatusOf(p), nil
}

func jobStatusOf(p store.JobProfile) JobStatus {
	level, _, _ := JobLevelFromXP(p.JobXP)
	st := JobStatus{
		Employed:   p.JobID != "" && p.JobID != JobUnemployed,
		Shifts:     p.ShiftsWorked,
		Promotions: p.Promotions,
		BonusPct:   p.SalaryBonusPct,
		JobLevel:   level,
		JobXP:      p.JobXP,
	}
	if st.Employed {
		st.Job = p.JobID
		st.Position = p.Position
	}
	return st
}

// positionAt maps a promotion count onto the job's title ladder, holding the
// last title once the ladder is exhausted.
func positionAt(spec JobSpec, promotions int64) string {
	idx := int(promotions)
	if idx >= len(spec.Positions) {
		idx = len(spec.Positions) - 1
	}
	return spec.Positions[idx]
}
