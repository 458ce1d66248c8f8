package effects

import (
	"time"

	"github.com/google/uuid"
)

// Kind tags the four status-effect variants a combatant can carry.
type Kind string

const (
	KindBuff   Kind = "buff"
	KindDebuff Kind = "debuff"
	// Damage-over-time and heal-over-time variants tick on a fixed interval
	// instead of applying once.
	KindDoT Kind = "dot"
	KindHoT Kind = "hot"
)

// Template is the immutable description of a status effect carried by an
// ability in the catalog. Duration and TickRate are in seconds. Stat is
// empty for dot/hot variants.
type Template struct {
	Kind     Kind    `json:"type"`
	Stat     string  `json:"stat,omitempty"`
	Value    int     `json:"value"`
	Duration float64 `json:"duration"`
	TickRate float64 `json:"tick_rate,omitempty"`
}

// Active is a live instance of a Template applied to a combatant.
type Active struct {
	ID            string    `json:"id"`
	SourceAbility string    `json:"source_ability"`
	Kind          Kind      `json:"type"`
	Stat          string    `json:"stat,omitempty"`
	Value         int       `json:"value"`
	Duration      float64   `json:"duration"`
	Remaining     float64   `json:"remaining"`
	TickRate      float64   `json:"tick_rate,omitempty"`
	AppliedAt     time.Time `json:"applied_at"`
	LastTickAt    time.Time `json:"last_tick_at,omitempty"`
}

// Apply instantiates tpl and adds it to the list. An existing effect with
// the same (kind, stat) pair is replaced, never stacked.
func Apply(list []Active, tpl Template, sourceAbility string, now time.Time) []Active {
	out := list[:0]
	for _, e := range list {
		if e.Kind == tpl.Kind && e.Stat == tpl.Stat {
			continue
		}
		out = append(out, e)
	}
	inst := Active{
		ID:            uuid.NewString(),
		SourceAbility: sourceAbility,
		Kind:          tpl.Kind,
		Stat:          tpl.Stat,
		Value:         tpl.Value,
		Duration:      tpl.Duration,
		Remaining:     tpl.Duration,
		TickRate:      tpl.TickRate,
		AppliedAt:     now,
	}
	if tpl.TickRate > 0 {
		inst.LastTickAt = now
	}
	return append(out, inst)
}

// StatAccuracy never feeds the percent aggregates; accuracy effects ride the
// ledger but do not shift damage math.
const StatAccuracy = "accuracy"

// BuffPercent sums the values of all active buffs. The engine turns this
// into a damage multiplier of (1 + sum/100).
func BuffPercent(list []Active) int {
	sum := 0
	for _, e := range list {
		if e.Kind == KindBuff && e.Stat != StatAccuracy {
			sum += e.Value
		}
	}
	return sum
}

// DebuffPercent sums the values of all active debuffs, used to shrink the
// defender's effective defense.
func DebuffPercent(list []Active) int {
	sum := 0
	for _, e := range list {
		if e.Kind == KindDebuff && e.Stat != StatAccuracy {
			sum += e.Value
		}
	}
	return sum
}

// Decay advances the ledger by one nominal turn tick. Over-time effects whose
// elapsed time since the last tick reached their tick rate contribute to the
// returned health delta (negative for dot, positive for hot) and refresh
// their last-tick stamp. Expired effects are dropped.
//
// Stat buffs/debuffs are not folded into the combatant's base stats here;
// the engine reads them through BuffPercent/DebuffPercent at resolution time.
// The "accuracy" stat is excluded from that lookup entirely.
func Decay(list []Active, now time.Time) ([]Active, int) {
	out := list[:0]
	delta := 0
	for _, e := range list {
		e.Remaining--
		if e.Remaining <= 0 {
			continue
		}
		if e.TickRate > 0 && now.Sub(e.LastTickAt).Seconds() >= e.TickRate {
			switch e.Kind {
			case KindDoT:
				delta -= e.Value
			case KindHoT:
				delta += e.Value
			}
			e.LastTickAt = now
		}
		out = append(out, e)
	}
	return out, delta
}
