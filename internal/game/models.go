package game

import (
	"math"
	"time"

	"github.com/frifster/yougene/internal/effects"
)

// Position is a point on the battlefield.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to other.
func (p Position) Distance(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Hypot(dx, dy)
}

// Obstacle is an axis-aligned rectangle combatants cannot stand on.
type Obstacle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether pos lies inside the obstacle rectangle.
func (o Obstacle) Contains(pos Position) bool {
	return pos.X >= o.X && pos.X <= o.X+o.Width &&
		pos.Y >= o.Y && pos.Y <= o.Y+o.Height
}

// Battlefield is the playable extent of a duel.
type Battlefield struct {
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Obstacles []Obstacle `json:"obstacles"`
}

// InBounds reports whether pos lies within the battlefield extent.
func (b Battlefield) InBounds(pos Position) bool {
	return pos.X >= 0 && pos.X <= b.Width && pos.Y >= 0 && pos.Y <= b.Height
}

// AbilityKind classifies what an ability primarily does.
type AbilityKind string

const (
	AbilityDamage AbilityKind = "damage"
	AbilityHeal   AbilityKind = "heal"
	AbilityBuff   AbilityKind = "buff"
	AbilityDebuff AbilityKind = "debuff"
	AbilityStatus AbilityKind = "status"
)

// ComboEffect is a bonus status effect granted when the ability is used
// within TimeWindow seconds of the named prerequisite ability.
type ComboEffect struct {
	RequiredAbilityID string           `json:"required_ability_id"`
	TimeWindow        float64          `json:"time_window"`
	BonusEffect       effects.Template `json:"bonus_effect"`
}

// Ability is an immutable catalog entry. The core never mutates abilities;
// they are loaded from the creature catalog and referenced by ID.
type Ability struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Kind          AbilityKind        `json:"type"`
	Element       string             `json:"element,omitempty"`
	Description   string             `json:"description,omitempty"`
	Power         int                `json:"power"`
	Accuracy      int                `json:"accuracy"`
	EnergyCost    int                `json:"energy_cost"`
	Cooldown      int                `json:"cooldown"`
	Range         float64            `json:"range"`
	AreaOfEffect  bool               `json:"area_of_effect,omitempty"`
	StatusEffects []effects.Template `json:"status_effects,omitempty"`
	ComboEffects  []ComboEffect      `json:"combo_effects,omitempty"`
}

// MaxComboPoints caps a combatant's combo counter.
const MaxComboPoints = 5

// Combatant is the live, in-duel projection of a creature. It is owned
// exclusively by the duel that contains it and mutated only by the turn
// resolution engine and the coordinator's bookkeeping.
type Combatant struct {
	ID         string `json:"id"`
	CreatureID string `json:"creature_id"`
	Name       string `json:"name"`

	Health    int `json:"health"`
	MaxHealth int `json:"max_health"`
	Energy    int `json:"energy"`
	MaxEnergy int `json:"max_energy"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	Speed     int `json:"speed"`

	Position      Position         `json:"position"`
	Abilities     []Ability        `json:"abilities"`
	StatusEffects []effects.Active `json:"status_effects"`
	ComboPoints   int              `json:"combo_points"`

	// Cooldowns maps ability ID to remaining cooldown seconds. Owned by the
	// duel; entries at zero no longer block reuse.
	Cooldowns map[string]int `json:"cooldowns"`

	LastUsedAbilityID string    `json:"last_used_ability_id,omitempty"`
	LastUsedAbilityAt time.Time `json:"last_used_ability_at,omitempty"`
}

// AbilityByID returns the ability on the combatant's kit, or nil.
func (c *Combatant) AbilityByID(id string) *Ability {
	for i := range c.Abilities {
		if c.Abilities[i].ID == id {
			return &c.Abilities[i]
		}
	}
	return nil
}

// ApplyHealthDelta adjusts health, clamped to [0, MaxHealth].
func (c *Combatant) ApplyHealthDelta(delta int) {
	c.Health += delta
	if c.Health < 0 {
		c.Health = 0
	}
	if c.Health > c.MaxHealth {
		c.Health = c.MaxHealth
	}
}

// DuelState is the lifecycle state of a duel session.
type DuelState string

const (
	StatePending    DuelState = "pending"
	StateInProgress DuelState = "in_progress"
	StateCompleted  DuelState = "completed"
	StateCancelled  DuelState = "cancelled"
)

// Participant is one side of a duel: an opaque identity plus its combatant.
type Participant struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Ready     bool       `json:"ready"`
	IsBot     bool       `json:"is_bot"`
	Combatant *Combatant `json:"combatant"`
}

// Duel is one authoritative battle session and its state.
type Duel struct {
	ID           string         `json:"id"`
	State        DuelState      `json:"state"`
	Participants []*Participant `json:"participants"`
	Battlefield  Battlefield    `json:"battlefield"`
	CurrentTurn  int            `json:"current_turn"`
	WinnerID     string         `json:"winner_id,omitempty"`
	VsBot        bool           `json:"vs_bot"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ParticipantByID returns the participant with the given ID, or nil.
func (d *Duel) ParticipantByID(id string) *Participant {
	for _, p := range d.Participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CombatantByID returns the combatant with the given ID, or nil.
func (d *Duel) CombatantByID(id string) *Combatant {
	for _, p := range d.Participants {
		if p.Combatant != nil && p.Combatant.ID == id {
			return p.Combatant
		}
	}
	return nil
}

// OpponentOf returns the combatant opposing the one with the given ID.
func (d *Duel) OpponentOf(id string) *Combatant {
	for _, p := range d.Participants {
		if p.Combatant != nil && p.Combatant.ID != id {
			return p.Combatant
		}
	}
	return nil
}

// Snapshot returns a deep copy safe to hand to observers while the
// coordinator keeps mutating the original under its session lock.
func (d *Duel) Snapshot() *Duel {
	cp := *d
	cp.Participants = make([]*Participant, len(d.Participants))
	for i, p := range d.Participants {
		pc := *p
		if p.Combatant != nil {
			cc := *p.Combatant
			cc.Abilities = append([]Ability(nil), p.Combatant.Abilities...)
			cc.StatusEffects = append([]effects.Active(nil), p.Combatant.StatusEffects...)
			cc.Cooldowns = make(map[string]int, len(p.Combatant.Cooldowns))
			for k, v := range p.Combatant.Cooldowns {
				cc.Cooldowns[k] = v
			}
			pc.Combatant = &cc
		}
		cp.Participants[i] = &pc
	}
	cp.Battlefield.Obstacles = append([]Obstacle(nil), d.Battlefield.Obstacles...)
	return &cp
}
