package engine

import (
	"math"

	"github.com/frifster/yougene/internal/effects"
	"github.com/frifster/yougene/internal/game"
)

// effectivePower scales a base magnitude by the attacker's cumulative buff
// percentage.
func effectivePower(base int, attacker *game.Combatant) float64 {
	return float64(base) * (1.0 + float64(effects.BuffPercent(attacker.StatusEffects))/100.0)
}

// effectiveDefense shrinks defense by the defender's cumulative debuff
// percentage, floored at zero.
func effectiveDefense(defender *game.Combatant) float64 {
	d := float64(defender.Defense) * (1.0 - float64(effects.DebuffPercent(defender.StatusEffects))/100.0)
	if d < 0 {
		d = 0
	}
	return d
}

// basicDamage is the no-ability fallback: raw attack against defense.
func (r *Resolver) basicDamage(attacker, defender *game.Combatant) int {
	raw := effectivePower(attacker.Attack, attacker) - effectiveDefense(defender)
	if raw < 0 {
		raw = 0
	}
	return int(math.Round(raw * r.Roll()))
}

// abilityDamage uses the power/defense ratio formula when the defender has
// defense left, falling back to the subtractive formula otherwise.
func (r *Resolver) abilityDamage(attacker, defender *game.Combatant, ability *game.Ability) int {
	power := effectivePower(ability.Power, attacker)
	def := effectiveDefense(defender)
	var raw float64
	if defender.Defense > 0 && def > 0 {
		raw = power * float64(attacker.Attack) / def
	} else {
		raw = power - def
	}
	if raw < 0 {
		raw = 0
	}
	return int(math.Round(raw * r.Roll()))
}

// healAmount scales ability power by the attacker's attack stat. The caller
// clamps the applied value at the target's max health.
func (r *Resolver) healAmount(attacker *game.Combatant, ability *game.Ability) int {
	raw := float64(ability.Power) * (1.0 + float64(attacker.Attack)/100.0)
	return int(math.Round(raw * r.Roll()))
}
