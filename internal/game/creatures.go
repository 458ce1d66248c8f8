package game

import "github.com/google/uuid"

// CreatureKit is a catalog entry: a creature's base stats and its ability
// kit. Stats come from the server configuration file, which stays the single
// source of truth; the database only tracks which creatures exist.
type CreatureKit struct {
	Name      string    `json:"name"`
	Element   string    `json:"element,omitempty"`
	Health    int       `json:"health"`
	Attack    int       `json:"attack"`
	Defense   int       `json:"defense"`
	Speed     int       `json:"speed"`
	Energy    int       `json:"energy"`
	Abilities []Ability `json:"abilities"`
}

// NewCombatant builds a fresh combatant from the kit, placed at pos. Energy
// starts full and the ledger/cooldown maps start empty.
func (k CreatureKit) NewCombatant(name string, pos Position) *Combatant {
	if name == "" {
		name = k.Name
	}
	return &Combatant{
		ID:         uuid.NewString(),
		CreatureID: k.Name,
		Name:       name,
		Health:     k.Health,
		MaxHealth:  k.Health,
		Energy:     k.Energy,
		MaxEnergy:  k.Energy,
		Attack:     k.Attack,
		Defense:    k.Defense,
		Speed:      k.Speed,
		Position:   pos,
		Abilities:  append([]Ability(nil), k.Abilities...),
		Cooldowns:  make(map[string]int),
	}
}
