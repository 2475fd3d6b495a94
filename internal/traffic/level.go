// Package traffic owns the population of active shopping sessions: a
// feedback-scored arrival rate, per-tick spawn checks, drain-on-stop,
// and the analytics derived from finished visits.
package traffic

import (
	"time"

	"github.com/talgya/shopkeep/internal/shop"
)

// Level describes current arrival intensity, from a dead floor to a
// packed one.
type Level uint8

const (
	LevelDead Level = iota
	LevelSlow
	LevelModerate
	LevelBusy
	LevelVeryBusy
)

// Name returns a human-readable level name.
func (l Level) Name() string {
	switch l {
	case LevelDead:
		return "dead"
	case LevelSlow:
		return "slow"
	case LevelModerate:
		return "moderate"
	case LevelBusy:
		return "busy"
	case LevelVeryBusy:
		return "very-busy"
	default:
		return "unknown"
	}
}

// levelParams fixes each level's spawn-check cadence and base spawn
// probability.
type levelParams struct {
	checkInterval time.Duration
	spawnChance   float64
}

var levelTable = [...]levelParams{
	LevelDead:     {checkInterval: 30 * time.Second, spawnChance: 0.05},
	LevelSlow:     {checkInterval: 15 * time.Second, spawnChance: 0.15},
	LevelModerate: {checkInterval: 8 * time.Second, spawnChance: 0.30},
	LevelBusy:     {checkInterval: 5 * time.Second, spawnChance: 0.50},
	LevelVeryBusy: {checkInterval: 3 * time.Second, spawnChance: 0.70},
}

// Params returns the level's check interval and base spawn probability.
func (l Level) Params() (time.Duration, float64) {
	p := levelTable[l]
	return p.checkInterval, p.spawnChance
}

// Score folds the shop's performance into a single 0–100 traffic score:
// reputation grade scaled to 0–40, occupancy fraction scaled to 0–30,
// and recent sales capped at 30.
func Score(m shop.PerformanceMetrics) float64 {
	rep := float64(m.ReputationGrade-1) / 5 * 40
	if rep < 0 {
		rep = 0
	}
	if rep > 40 {
		rep = 40
	}

	util := m.Utilization * 30

	sales := float64(m.SalesLastHour) * 5
	if sales > 30 {
		sales = 30
	}

	return rep + util + sales
}

// LevelForScore maps a score onto a traffic level. Thresholds are
// inclusive on the lower bound.
func LevelForScore(score float64) Level {
	switch {
	case score >= 80:
		return LevelVeryBusy
	case score >= 60:
		return LevelBusy
	case score >= 40:
		return LevelModerate
	case score >= 20:
		return LevelSlow
	default:
		return LevelDead
	}
}
