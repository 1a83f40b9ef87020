package game

import (
	"math"
	"time"
)

// YieldAt returns the per-collection yield of an income source at the given
// level: base * growth^(level-1), truncated to whole coins.
func YieldAt(base int64, growth float64, level int) int64 {
	if level < 1 {
		level = 1
	}
	return int64(float64(base) * math.Pow(growth, float64(level-1)))
}

// UpgradeCost prices the upgrade from level to level+1. Returns 0 at or past
// maxLevel; callers treat 0 as "no upgrade available".
func UpgradeCost(baseCost int64, growth float64, level, maxLevel int) int64 {
	if level >= maxLevel {
		return 0
	}
	return int64(float64(baseCost) * math.Pow(growth, float64(level)))
}

// IdleAccrual computes offline income: ratePerHour over the elapsed time,
// capped at maxHours of accrual. Partial hours count fractionally.
func IdleAccrual(ratePerHour int64, elapsed time.Duration, maxHours float64) int64 {
	hours := elapsed.Hours()
	if hours < 0 {
		hours = 0
	}
	if hours > maxHours {
		hours = maxHours
	}
	return int64(float64(ratePerHour) * hours)
}

// WorkEarnings composes the base shift pay with the promotion multiplier,
// the salary bonus percentage, and the relevant skill's multiplier. All
// factors multiply; truncation happens once at the end.
func WorkEarnings(base int64, promotions, bonusPct int64, skillLevel int) int64 {
	pay := float64(base)
	pay *= 1 + float64(promotions)*0.1
	pay *= 1 + float64(bonusPct)/100
	pay *= SkillMultiplier(skillLevel)
	return int64(pay)
}

// SkillMultiplier converts a skill level into an earnings multiplier: 1% per
// level, so even level 1 pays out above base.
func SkillMultiplier(level int) float64 {
	if level < 0 {
		level = 0
	}
	return 1 + float64(level)/100
}

// TrainingXP applies diminishing returns: each session past the daily soft
// cap earns 20% less, floored at 10% of the base grant.
func TrainingXP(baseXP int64, sessionsToday int, softCap int) int64 {
	if sessionsToday <= softCap {
		return baseXP
	}
	over := sessionsToday - softCap
	factor := math.Pow(0.8, float64(over))
	if factor < 0.1 {
		factor = 0.1
	}
	return int64(float64(baseXP) * factor)
}

// GuildBonusPct returns the flat earnings bonus a guild of the given level
// grants its members: 1 percentage point per level, capped at 25.
func GuildBonusPct(level int) int64 {
	if level < 1 {
		return 0
	}
	if level > 25 {
		level = 25
	}
	return int64(level)
}

// BankUpgradeCost prices the next bank capacity tier. Tiers double in size
// and cost 10% of the new capacity.
func BankUpgradeCost(currentLimit int64) (newLimit, cost int64) {
	newLimit = currentLimit * 2
	cost = newLimit / 10
	return newLimit, cost
}
