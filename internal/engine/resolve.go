package engine

import (
	"time"

	"github.com/frifster/yougene/internal/effects"
	"github.com/frifster/yougene/internal/game"
)

// ResolveTurn applies one attacker turn to the duel and records it in the
// battle log. A failed validation leaves the duel untouched; a rejected turn
// requires a new, corrected submission from the caller.
func (r *Resolver) ResolveTurn(d *game.Duel, log *game.BattleLog, attackerID, defenderID, abilityID string, newPos *game.Position) error {
	if d == nil {
		return ErrDuelNotFound
	}
	if d.State != game.StateInProgress {
		return ErrDuelNotActive
	}
	attacker := d.CombatantByID(attackerID)
	defender := d.CombatantByID(defenderID)
	if attacker == nil || defender == nil {
		return ErrCombatantNotFound
	}

	now := r.Now()

	// Validate the ability before mutating anything so a rejected turn has
	// no side effects, including the requested relocation.
	var ability *game.Ability
	if abilityID != "" {
		ability = attacker.AbilityByID(abilityID)
		if ability == nil {
			return ErrAbilityNotFound
		}
		if attacker.Cooldowns[abilityID] > 0 {
			return ErrAbilityOnCooldown
		}
		if attacker.Energy < ability.EnergyCost {
			return ErrInsufficientEnergy
		}
	}

	if newPos != nil {
		attacker.Position = *newPos
	}

	var combo *effects.Template
	if ability != nil {
		attacker.Energy -= ability.EnergyCost
		attacker.Cooldowns[ability.ID] = ability.Cooldown
		combo = comboBonus(attacker, ability, now)
	}

	damage, healing := r.resolveMagnitude(attacker, defender, ability)

	// Area of effect: any other combatant within range of the attacker is
	// hit with the same formula. The primary defender is already handled.
	var aoeTargets []*game.Combatant
	if ability != nil && ability.AreaOfEffect {
		for _, p := range d.Participants {
			c := p.Combatant
			if c == nil || c.ID == attacker.ID || c.ID == defender.ID {
				continue
			}
			if attacker.Position.Distance(c.Position) > ability.Range {
				continue
			}
			aoeTargets = append(aoeTargets, c)
			r.resolveMagnitude(attacker, c, ability)
		}
	}

	// Status application: every template on the ability plus the combo
	// bonus, replacing same-(type, stat) effects on each target. The action
	// records the instances applied to the primary defender this turn.
	var applied []effects.Active
	if ability != nil {
		targets := append([]*game.Combatant{defender}, aoeTargets...)
		for _, t := range targets {
			for _, tpl := range ability.StatusEffects {
				t.StatusEffects = effects.Apply(t.StatusEffects, tpl, ability.ID, now)
				if t == defender {
					applied = append(applied, t.StatusEffects[len(t.StatusEffects)-1])
				}
			}
			if combo != nil {
				t.StatusEffects = effects.Apply(t.StatusEffects, *combo, ability.ID, now)
				if t == defender {
					applied = append(applied, t.StatusEffects[len(t.StatusEffects)-1])
				}
			}
		}
	}

	// Combo bookkeeping: abilities build points, a basic attack resets them.
	if ability != nil {
		if attacker.ComboPoints < game.MaxComboPoints {
			attacker.ComboPoints++
		}
		attacker.LastUsedAbilityID = ability.ID
		attacker.LastUsedAbilityAt = now
	} else {
		attacker.ComboPoints = 0
	}

	// Decay pass: tick every combatant's ledger once.
	for _, p := range d.Participants {
		if p.Combatant == nil {
			continue
		}
		list, delta := effects.Decay(p.Combatant.StatusEffects, now)
		p.Combatant.StatusEffects = list
		if delta != 0 {
			p.Combatant.ApplyHealthDelta(delta)
		}
	}

	// Outstanding cooldowns tick down, floored at zero.
	for _, p := range d.Participants {
		if p.Combatant == nil {
			continue
		}
		for id, remaining := range p.Combatant.Cooldowns {
			if remaining > 0 {
				p.Combatant.Cooldowns[id] = remaining - 1
			}
		}
	}

	if defender.Health == 0 {
		d.State = game.StateCompleted
		d.WinnerID = attackerID
		log.WinnerID = attackerID
		log.EndTime = now
	}

	d.CurrentTurn++
	d.UpdatedAt = now

	log.Record(game.BattleAction{
		AttackerID:    attackerID,
		DefenderID:    defenderID,
		AbilityID:     abilityID,
		Damage:        damage,
		Healing:       healing,
		ComboPoints:   attacker.ComboPoints,
		StatusEffects: applied,
		Position:      attacker.Position,
		Timestamp:     now,
	})
	return nil
}

// resolveMagnitude computes and applies the direct damage or healing of the
// turn to the target, returning what was dealt.
func (r *Resolver) resolveMagnitude(attacker, target *game.Combatant, ability *game.Ability) (damage, healing int) {
	switch {
	case ability == nil:
		damage = r.basicDamage(attacker, target)
		target.ApplyHealthDelta(-damage)
	case ability.Kind == game.AbilityDamage:
		damage = r.abilityDamage(attacker, target, ability)
		target.ApplyHealthDelta(-damage)
	case ability.Kind == game.AbilityHeal:
		healing = r.healAmount(attacker, ability)
		target.ApplyHealthDelta(healing)
	}
	return damage, healing
}

// comboBonus returns the bonus effect of the first combo template whose
// prerequisite matches the attacker's last used ability within its time
// window. At most one bonus applies per turn.
func comboBonus(attacker *game.Combatant, ability *game.Ability, now time.Time) *effects.Template {
	if attacker.LastUsedAbilityID == "" {
		return nil
	}
	for i := range ability.ComboEffects {
		ce := &ability.ComboEffects[i]
		if ce.RequiredAbilityID != attacker.LastUsedAbilityID {
			continue
		}
		if now.Sub(attacker.LastUsedAbilityAt).Seconds() <= ce.TimeWindow {
			return &ce.BonusEffect
		}
	}
	return nil
}
