package game

import "math"

// Curve describes a geometric leveling curve: the XP needed to go from level
// n to n+1 is BaseXP * Multiplier^(n-1).
type Curve struct {
	BaseXP     int64
	Multiplier float64
	MaxLevel   int
}

var (
	SkillCurve = Curve{BaseXP: 100, Multiplier: 1.15, MaxLevel: 100}
	PetCurve   = Curve{BaseXP: 50, Multiplier: 1.3, MaxLevel: 100}
	GuildCurve = Curve{BaseXP: 1000, Multiplier: 1.5, MaxLevel: 100}
)

// FromXP consumes totalXP against successive level thresholds and returns the
// resulting level, the XP accumulated into the current level, and the full
// threshold of the next one. Thresholds truncate, never round up. Negative XP
// clamps to zero. At MaxLevel both remainders are zero.
func (c Curve) FromXP(totalXP int64) (level int, into, needed int64) {
	if totalXP < 0 {
		totalXP = 0
	}
	level = 1
	threshold := c.BaseXP
	for level < c.MaxLevel && totalXP >= threshold {
		totalXP -= threshold
		level++
		threshold = int64(float64(c.BaseXP) * math.Pow(c.Multiplier, float64(level-1)))
	}
	if level >= c.MaxLevel {
		return c.MaxLevel, 0, 0
	}
	return level, totalXP, threshold
}

// Level is FromXP without the progress breakdown.
func (c Curve) Level(totalXP int64) int {
	level, _, _ := c.FromXP(totalXP)
	return level
}

const JobMaxLevel = 10000

// JobLevelFromXP uses the linear job curve: advancing past level n costs
// n*100 XP. Same contract shape as Curve.FromXP.
func JobLevelFromXP(totalXP int64) (level int, into, needed int64) {
	if totalXP < 0 {
		totalXP = 0
	}
	level = 1
	threshold := int64(level) * 100
	for level < JobMaxLevel && totalXP >= threshold {
		totalXP -= threshold
		level++
		threshold = int64(level) * 100
	}
	if level >= JobMaxLevel {
		return JobMaxLevel, 0, 0
	}
	return level, totalXP, threshold
}
