package service

import (
	"github.com/frifster/yougene/internal/bot"
	"github.com/frifster/yougene/internal/constants"
	"github.com/frifster/yougene/internal/game"
	"github.com/frifster/yougene/internal/logging"
)

// abilityUsedPayload is the ability-used event body.
type abilityUsedPayload struct {
	AttackerID string `json:"attacker_id"`
	DefenderID string `json:"defender_id"`
	AbilityID  string `json:"ability_id,omitempty"`
	Damage     int    `json:"damage"`
	Healing    int    `json:"healing,omitempty"`
}

// SubmitTurn resolves one attacker turn. When the defending side is the
// autonomous opponent and the duel survives the turn, the bot's answer is
// resolved immediately in the same step, before observers see control
// return.
func (c *Coordinator) SubmitTurn(sessionID, attackerID, defenderID, abilityID string, pos *game.Position) (*game.Duel, error) {
	sess, ok := c.store.get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	d := sess.duel
	if defenderID == "" {
		if opp := d.OpponentOf(attackerID); opp != nil {
			defenderID = opp.ID
		}
	}

	if err := c.resolveLocked(sess, attackerID, defenderID, abilityID, pos); err != nil {
		c.bus.Publish(Event{Type: EventError, SessionID: sessionID, Payload: err.Error()})
		return nil, err
	}

	if d.State == game.StateInProgress {
		c.botTurnLocked(sess, attackerID)
	}
	if d.State == game.StateCompleted {
		c.archiveLocked(sess)
	}
	return d.Snapshot(), nil
}

// resolveLocked runs the engine for one turn and publishes the resulting
// events in mutation order.
func (c *Coordinator) resolveLocked(sess *session, attackerID, defenderID, abilityID string, pos *game.Position) error {
	if err := sess.resolver.ResolveTurn(sess.duel, sess.log, attackerID, defenderID, abilityID, pos); err != nil {
		return err
	}
	last := sess.log.Actions[len(sess.log.Actions)-1]
	c.bus.Publish(Event{Type: EventAbilityUsed, SessionID: sess.duel.ID, Payload: abilityUsedPayload{
		AttackerID: last.AttackerID,
		DefenderID: last.DefenderID,
		AbilityID:  last.AbilityID,
		Damage:     last.Damage,
		Healing:    last.Healing,
	}})
	c.bus.Publish(Event{Type: EventSessionStateChanged, SessionID: sess.duel.ID, Payload: sess.duel.Snapshot()})
	return nil
}

// botTurnLocked answers a human turn with the autonomous opponent's own,
// synchronously. A decision the engine rejects (cooldown raced, energy spent
// by a status tick) degrades to a basic attack instead of stalling the duel.
func (c *Coordinator) botTurnLocked(sess *session, humanAttackerID string) {
	d := sess.duel
	var botSide *game.Participant
	for _, p := range d.Participants {
		if p.IsBot && p.Combatant != nil {
			botSide = p
			break
		}
	}
	if botSide == nil || c.policy == nil {
		return
	}
	opponent := d.OpponentOf(botSide.Combatant.ID)
	if opponent == nil || opponent.ID != humanAttackerID {
		return
	}

	decision := c.policy.Decide(d, botSide.Combatant.ID)
	var err error
	switch decision.Action {
	case bot.ActionMove:
		err = c.resolveLocked(sess, botSide.Combatant.ID, opponent.ID, "", decision.Position)
	case bot.ActionAbility:
		targetID := decision.TargetID
		if targetID == "" {
			targetID = opponent.ID
		}
		err = c.resolveLocked(sess, botSide.Combatant.ID, targetID, decision.AbilityID, nil)
		if err != nil {
			logging.Info("bot ability rejected; falling back to basic attack", logging.Fields{constants.LogFieldSessionID: d.ID, "reason": err.Error()})
			err = c.resolveLocked(sess, botSide.Combatant.ID, opponent.ID, "", nil)
		}
	default:
		err = c.resolveLocked(sess, botSide.Combatant.ID, opponent.ID, "", nil)
	}
	if err != nil {
		logging.Error("bot turn failed", err, logging.Fields{constants.LogFieldSessionID: d.ID})
	}
}
