package service

import (
	"github.com/frifster/yougene/internal/effects"
	"github.com/frifster/yougene/internal/game"
)

// StatsPatch is a partial combatant stats update; nil fields are untouched.
type StatsPatch struct {
	Health  *int `json:"health,omitempty"`
	Energy  *int `json:"energy,omitempty"`
	Attack  *int `json:"attack,omitempty"`
	Defense *int `json:"defense,omitempty"`
	Speed   *int `json:"speed,omitempty"`
}

// The update family below applies combatant bookkeeping while a session
// exists. Unknown sessions or combatants are benign no-ops: a stale client
// message about a torn-down session is expected traffic, not an error.

// UpdatePosition relocates a combatant and broadcasts the session snapshot.
func (c *Coordinator) UpdatePosition(sessionID, combatantID string, pos game.Position) {
	c.withCombatant(sessionID, combatantID, func(cb *game.Combatant) {
		cb.Position = pos
	})
}

// UpdateStats applies a partial stats patch, clamping health and energy to
// their maxima.
func (c *Coordinator) UpdateStats(sessionID, combatantID string, patch StatsPatch) {
	c.withCombatant(sessionID, combatantID, func(cb *game.Combatant) {
		if patch.Health != nil {
			cb.Health = clamp(*patch.Health, 0, cb.MaxHealth)
		}
		if patch.Energy != nil {
			cb.Energy = clamp(*patch.Energy, 0, cb.MaxEnergy)
		}
		if patch.Attack != nil {
			cb.Attack = *patch.Attack
		}
		if patch.Defense != nil {
			cb.Defense = *patch.Defense
		}
		if patch.Speed != nil {
			cb.Speed = *patch.Speed
		}
	})
}

// UpdateStatusEffects replaces a combatant's active effect ledger.
func (c *Coordinator) UpdateStatusEffects(sessionID, combatantID string, list []effects.Active) {
	c.withCombatant(sessionID, combatantID, func(cb *game.Combatant) {
		cb.StatusEffects = append([]effects.Active(nil), list...)
	})
}

// UpdateCooldowns replaces a combatant's cooldown map.
func (c *Coordinator) UpdateCooldowns(sessionID, combatantID string, cooldowns map[string]int) {
	c.withCombatant(sessionID, combatantID, func(cb *game.Combatant) {
		cp := make(map[string]int, len(cooldowns))
		for k, v := range cooldowns {
			cp[k] = v
		}
		cb.Cooldowns = cp
	})
}

func (c *Coordinator) withCombatant(sessionID, combatantID string, apply func(*game.Combatant)) {
	sess, ok := c.store.get(sessionID)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	cb := sess.duel.CombatantByID(combatantID)
	if cb == nil {
		return
	}
	apply(cb)
	sess.duel.UpdatedAt = c.now()
	c.bus.Publish(Event{Type: EventSessionStateChanged, SessionID: sessionID, Payload: sess.duel.Snapshot()})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
