package engine

import (
	"errors"
	"math/rand"
	"time"
)

var (
	ErrDuelNotFound       = errors.New("duel not found")
	ErrDuelNotActive      = errors.New("duel is not in progress")
	ErrCombatantNotFound  = errors.New("combatant not in duel")
	ErrAbilityNotFound    = errors.New("ability not found")
	ErrAbilityOnCooldown  = errors.New("ability is on cooldown")
	ErrInsufficientEnergy = errors.New("not enough energy")
)

// Resolver resolves turns for a single duel. The coordinator creates one per
// session so resolution stays single-writer and the random source never
// needs locking.
type Resolver struct {
	// Roll returns the damage/heal variation multiplier, uniform in
	// [0.9, 1.1]. Tests pin it to 1.0.
	Roll func() float64
	// Now is the clock used for combo windows and over-time ticks.
	Now func() time.Time
}

// NewResolver builds a resolver around the given random source.
func NewResolver(rng *rand.Rand) *Resolver {
	return &Resolver{
		Roll: func() float64 { return 0.9 + rng.Float64()*0.2 },
		Now:  time.Now,
	}
}
