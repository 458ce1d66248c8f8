package bot

import (
	"math"
	"time"

	"github.com/frifster/yougene/internal/game"
)

// ActionKind is what the policy decided to do with its turn.
type ActionKind string

const (
	ActionMove        ActionKind = "move"
	ActionAbility     ActionKind = "ability"
	ActionBasicAttack ActionKind = "basic_attack"
)

// Decision is fed into the turn resolution engine exactly as a
// player-submitted turn would be.
type Decision struct {
	Action    ActionKind     `json:"action"`
	TargetID  string         `json:"target_id,omitempty"`
	AbilityID string         `json:"ability_id,omitempty"`
	Position  *game.Position `json:"position,omitempty"`
}

const (
	defaultSafeDistance  = 3.0
	defaultDecisionBound = time.Second
	// Candidate repositioning points evenly spaced on a circle around self.
	repositionCandidates = 8
	lowHealthFraction    = 0.3
	aggressionFraction   = 0.7
)

// Policy is the heuristic decision maker for the autonomous opponent. It is
// pure: Decide never mutates the duel.
type Policy struct {
	SafeDistance  float64
	DecisionBound time.Duration
	Now           func() time.Time
}

// New returns a policy with the nominal tuning.
func New() *Policy {
	return &Policy{
		SafeDistance:  defaultSafeDistance,
		DecisionBound: defaultDecisionBound,
		Now:           time.Now,
	}
}

// Decide evaluates the duel from the bot's side. If evaluation ever exceeds
// the decision bound it falls back to a basic attack rather than block the
// duel; that recovery never surfaces to the caller.
func (p *Policy) Decide(d *game.Duel, selfID string) Decision {
	self := d.CombatantByID(selfID)
	opponent := d.OpponentOf(selfID)
	if self == nil || opponent == nil {
		return Decision{Action: ActionBasicAttack}
	}

	started := p.Now()
	fallback := Decision{Action: ActionBasicAttack, TargetID: opponent.ID}

	selfHealth := healthFraction(self)
	opponentHealth := healthFraction(opponent)
	distance := self.Position.Distance(opponent.Position)

	// Emergency healing first.
	if selfHealth < lowHealthFraction {
		if heal := bestAffordable(self, game.AbilityHeal); heal != nil {
			return Decision{Action: ActionAbility, AbilityID: heal.ID, TargetID: self.ID}
		}
	}

	// Press the advantage while the opponent is below the aggression line.
	if opponentHealth < aggressionFraction {
		if dmg := bestAffordable(self, game.AbilityDamage); dmg != nil {
			return Decision{Action: ActionAbility, AbilityID: dmg.ID, TargetID: opponent.ID}
		}
	}

	// The reposition scan is the only unbounded-ish work; give it up if the
	// decision budget is already spent.
	if p.Now().Sub(started) >= p.DecisionBound {
		return fallback
	}

	// Keep distance when crowded.
	if distance < p.SafeDistance {
		if pos := p.safePosition(self, opponent, d.Battlefield); pos != nil {
			return Decision{Action: ActionMove, Position: pos}
		}
	}

	return fallback
}

func healthFraction(c *game.Combatant) float64 {
	if c.MaxHealth == 0 {
		return 0
	}
	return float64(c.Health) / float64(c.MaxHealth)
}

// bestAffordable returns the highest-power ability of the given kind the
// combatant can pay for, ignoring cooldown state on purpose: a rejected turn
// falls back to a basic attack in the coordinator.
func bestAffordable(c *game.Combatant, kind game.AbilityKind) *game.Ability {
	var best *game.Ability
	for i := range c.Abilities {
		a := &c.Abilities[i]
		if a.Kind != kind || c.Energy < a.EnergyCost {
			continue
		}
		if best == nil || a.Power > best.Power {
			best = a
		}
	}
	return best
}

// safePosition scans candidate points on a circle around self and keeps the
// in-bounds, unobstructed one farthest from the opponent. Nil when every
// candidate is invalid.
func (p *Policy) safePosition(self, opponent *game.Combatant, field game.Battlefield) *game.Position {
	current := self.Position.Distance(opponent.Position)
	radius := math.Max(p.SafeDistance, current+1)

	var best *game.Position
	bestDistance := -1.0
	for i := 0; i < repositionCandidates; i++ {
		angle := float64(i) / repositionCandidates * 2 * math.Pi
		candidate := game.Position{
			X: self.Position.X + radius*math.Cos(angle),
			Y: self.Position.Y + radius*math.Sin(angle),
		}
		if !field.InBounds(candidate) || occupied(candidate, field.Obstacles) {
			continue
		}
		if dist := candidate.Distance(opponent.Position); dist > bestDistance {
			bestDistance = dist
			c := candidate
			best = &c
		}
	}
	return best
}

func occupied(pos game.Position, obstacles []game.Obstacle) bool {
	for _, o := range obstacles {
		if o.Contains(pos) {
			return true
		}
	}
	return false
}
