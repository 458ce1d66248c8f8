package bot

import (
	"testing"
	"time"

	"github.com/frifster/yougene/internal/game"
)

func botDuel(selfHealth, opponentHealth int, selfPos, oppPos game.Position) *game.Duel {
	self := &game.Combatant{
		ID: "bot", Health: selfHealth, MaxHealth: 100, Energy: 100, MaxEnergy: 100,
		Attack: 10, Defense: 5, Position: selfPos,
		Abilities: []game.Ability{
			{ID: "claw", Kind: game.AbilityDamage, Power: 20, EnergyCost: 10, Range: 3},
			{ID: "bite", Kind: game.AbilityDamage, Power: 35, EnergyCost: 20, Range: 3},
			{ID: "lick_wounds", Kind: game.AbilityHeal, Power: 25, EnergyCost: 15, Range: 1},
		},
		Cooldowns: map[string]int{},
	}
	opp := &game.Combatant{
		ID: "human", Health: opponentHealth, MaxHealth: 100, Energy: 100, MaxEnergy: 100,
		Attack: 10, Defense: 5, Position: oppPos,
		Cooldowns: map[string]int{},
	}
	return &game.Duel{
		ID:    "d1",
		State: game.StateInProgress,
		Participants: []*game.Participant{
			{ID: "b", IsBot: true, Combatant: self},
			{ID: "h", Combatant: opp},
		},
		Battlefield: game.Battlefield{Width: 100, Height: 100},
	}
}

func TestDecide_HealsWhenLow(t *testing.T) {
	p := New()
	d := botDuel(20, 100, game.Position{X: 10, Y: 10}, game.Position{X: 50, Y: 50})

	got := p.Decide(d, "bot")
	if got.Action != ActionAbility || got.AbilityID != "lick_wounds" {
		t.Fatalf("expected heal decision, got %+v", got)
	}
	if got.TargetID != "bot" {
		t.Fatalf("expected heal to target self, got %q", got.TargetID)
	}
}

func TestDecide_PressesWoundedOpponent(t *testing.T) {
	p := New()
	d := botDuel(100, 60, game.Position{X: 10, Y: 10}, game.Position{X: 50, Y: 50})

	got := p.Decide(d, "bot")
	if got.Action != ActionAbility || got.AbilityID != "bite" {
		t.Fatalf("expected strongest affordable damage ability, got %+v", got)
	}
	if got.TargetID != "human" {
		t.Fatalf("expected opponent target, got %q", got.TargetID)
	}
}

func TestDecide_RetreatsWhenCrowded(t *testing.T) {
	p := New()
	d := botDuel(100, 100, game.Position{X: 50, Y: 50}, game.Position{X: 51, Y: 50})

	got := p.Decide(d, "bot")
	if got.Action != ActionMove || got.Position == nil {
		t.Fatalf("expected a reposition decision, got %+v", got)
	}
	if !d.Battlefield.InBounds(*got.Position) {
		t.Fatalf("reposition target out of bounds: %+v", got.Position)
	}
	before := d.CombatantByID("bot").Position.Distance(d.CombatantByID("human").Position)
	after := got.Position.Distance(d.CombatantByID("human").Position)
	if after <= before {
		t.Fatalf("expected reposition to open distance: before=%.1f after=%.1f", before, after)
	}
}

func TestDecide_FallsBackToBasicAttack(t *testing.T) {
	p := New()
	d := botDuel(100, 100, game.Position{X: 10, Y: 10}, game.Position{X: 80, Y: 80})

	got := p.Decide(d, "bot")
	if got.Action != ActionBasicAttack {
		t.Fatalf("expected basic attack fallback, got %+v", got)
	}
}

func TestDecide_ExhaustedBudgetFallsBack(t *testing.T) {
	p := New()
	// A clock that jumps past the bound between calls.
	base := time.Now()
	calls := 0
	p.Now = func() time.Time {
		calls++
		if calls > 1 {
			return base.Add(2 * time.Second)
		}
		return base
	}
	d := botDuel(100, 100, game.Position{X: 50, Y: 50}, game.Position{X: 51, Y: 50})

	got := p.Decide(d, "bot")
	if got.Action != ActionBasicAttack {
		t.Fatalf("expected fallback when decision budget is spent, got %+v", got)
	}
}
