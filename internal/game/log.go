package game

import (
	"time"

	"github.com/frifster/yougene/internal/effects"
)

// BasicAttackKey is the histogram bucket used when a turn resolves without
// an ability.
const BasicAttackKey = "basic_attack"

// BattleAction is one resolved turn as recorded in the battle log.
type BattleAction struct {
	AttackerID    string           `json:"attacker_id"`
	DefenderID    string           `json:"defender_id"`
	AbilityID     string           `json:"ability_id,omitempty"`
	Damage        int              `json:"damage"`
	Healing       int              `json:"healing,omitempty"`
	ComboPoints   int              `json:"combo_points"`
	StatusEffects []effects.Active `json:"status_effects,omitempty"`
	Position      Position         `json:"position"`
	Timestamp     time.Time        `json:"timestamp"`
}

// BattleStats aggregates a duel's log for reporting.
type BattleStats struct {
	TotalDamage  int            `json:"total_damage"`
	TotalHealing int            `json:"total_healing"`
	LongestCombo int            `json:"longest_combo"`
	AbilityUsage map[string]int `json:"ability_usage"`
}

// BattleLog is the append-only action history of one duel.
type BattleLog struct {
	DuelID    string         `json:"duel_id"`
	Actions   []BattleAction `json:"actions"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time,omitempty"`
	WinnerID  string         `json:"winner_id,omitempty"`
	Stats     BattleStats    `json:"stats"`
}

// NewBattleLog creates an empty log for a duel.
func NewBattleLog(duelID string, now time.Time) *BattleLog {
	return &BattleLog{
		DuelID:    duelID,
		Actions:   make([]BattleAction, 0, 16),
		StartTime: now,
		Stats:     BattleStats{AbilityUsage: make(map[string]int)},
	}
}

// Record appends an action and folds it into the aggregate stats.
func (l *BattleLog) Record(a BattleAction) {
	l.Actions = append(l.Actions, a)
	l.Stats.TotalDamage += a.Damage
	l.Stats.TotalHealing += a.Healing
	if a.ComboPoints > l.Stats.LongestCombo {
		l.Stats.LongestCombo = a.ComboPoints
	}
	key := a.AbilityID
	if key == "" {
		key = BasicAttackKey
	}
	l.Stats.AbilityUsage[key]++
}
