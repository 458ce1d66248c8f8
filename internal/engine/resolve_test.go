package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/frifster/yougene/internal/effects"
	"github.com/frifster/yougene/internal/game"
)

func testAbilities() []game.Ability {
	return []game.Ability{
		{ID: "fire_blast", Name: "Fire Blast", Kind: game.AbilityDamage, Power: 50, EnergyCost: 25, Cooldown: 2, Range: 5},
		{ID: "mend", Name: "Mend", Kind: game.AbilityHeal, Power: 30, EnergyCost: 10, Range: 1},
		{
			ID: "ember", Name: "Ember", Kind: game.AbilityDamage, Power: 10, EnergyCost: 5, Range: 5,
			ComboEffects: []game.ComboEffect{{
				RequiredAbilityID: "fire_blast",
				TimeWindow:        5,
				BonusEffect:       effects.Template{Kind: effects.KindDebuff, Stat: "defense", Value: 20, Duration: 3},
			}},
		},
	}
}

func testCombatant(id string, x float64) *game.Combatant {
	return &game.Combatant{
		ID:        id,
		Name:      id,
		Health:    200,
		MaxHealth: 200,
		Energy:    100,
		MaxEnergy: 100,
		Attack:    20,
		Defense:   10,
		Position:  game.Position{X: x, Y: 0},
		Abilities: testAbilities(),
		Cooldowns: map[string]int{},
	}
}

func testDuel() *game.Duel {
	return &game.Duel{
		ID:    "d1",
		State: game.StateInProgress,
		Participants: []*game.Participant{
			{ID: "p1", Combatant: testCombatant("a", 0)},
			{ID: "p2", Combatant: testCombatant("b", 2)},
		},
		Battlefield: game.Battlefield{Width: 100, Height: 100},
	}
}

// pinnedResolver removes randomness and lets tests drive the clock.
func pinnedResolver(now *time.Time) *Resolver {
	return &Resolver{
		Roll: func() float64 { return 1.0 },
		Now:  func() time.Time { return *now },
	}
}

func TestResolveTurn_AbilityDamageUsesRatioFormula(t *testing.T) {
	now := time.Now()
	r := pinnedResolver(&now)
	d := testDuel()
	log := game.NewBattleLog(d.ID, now)

	if err := r.ResolveTurn(d, log, "a", "b", "fire_blast", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// power * attack / defense = 50 * 20 / 10 = 100
	defender := d.CombatantByID("b")
	if defender.Health != 100 {
		t.Fatalf("expected defender at 100 health, got %d", defender.Health)
	}
	attacker := d.CombatantByID("a")
	if attacker.Energy != 75 {
		t.Fatalf("expected energy 75 after 25-cost ability, got %d", attacker.Energy)
	}
	if len(log.Actions) != 1 || log.Actions[0].Damage != 100 {
		t.Fatalf("expected one logged action with damage 100, got %+v", log.Actions)
	}
}

func TestResolveTurn_BasicAttackIsSubtractive(t *testing.T) {
	now := time.Now()
	r := pinnedResolver(&now)
	d := testDuel()
	log := game.NewBattleLog(d.ID, now)

	if err := r.ResolveTurn(d, log, "a", "b", "", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// attack - defense = 20 - 10 = 10
	if got := d.CombatantByID("b").Health; got != 190 {
		t.Fatalf("expected defender at 190 health, got %d", got)
	}
}

func TestResolveTurn_InsufficientEnergyLeavesDuelUntouched(t *testing.T) {
	now := time.Now()
	r := pinnedResolver(&now)
	d := testDuel()
	log := game.NewBattleLog(d.ID, now)

	attacker := d.CombatantByID("a")
	attacker.Energy = 20
	before := attacker.Position

	err := r.ResolveTurn(d, log, "a", "b", "fire_blast", &game.Position{X: 9, Y: 9})
	if !errors.Is(err, ErrInsufficientEnergy) {
		t.Fatalf("expected ErrInsufficientEnergy, got %v", err)
	}
	if attacker.Position != before {
		t.Fatalf("rejected turn must not relocate the attacker, got %+v", attacker.Position)
	}
	if attacker.Energy != 20 {
		t.Fatalf("rejected turn must not spend energy, got %d", attacker.Energy)
	}
	if got := d.CombatantByID("b").Health; got != 200 {
		t.Fatalf("rejected turn must not touch the defender, got %d", got)
	}
	if len(log.Actions) != 0 {
		t.Fatalf("rejected turn must not be logged, got %d actions", len(log.Actions))
	}
}

func TestResolveTurn_CooldownBlocksReuse(t *testing.T) {
	now := time.Now()
	r := pinnedResolver(&now)
	d := testDuel()
	log := game.NewBattleLog(d.ID, now)

	if err := r.ResolveTurn(d, log, "a", "b", "fire_blast", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Cooldown 2 was set and already ticked once in the same turn.
	if got := d.CombatantByID("a").Cooldowns["fire_blast"]; got != 1 {
		t.Fatalf("expected cooldown 1 after first use, got %d", got)
	}

	err := r.ResolveTurn(d, log, "a", "b", "fire_blast", nil)
	if !errors.Is(err, ErrAbilityOnCooldown) {
		t.Fatalf("expected ErrAbilityOnCooldown, got %v", err)
	}

	// Any resolved turn ticks cooldowns for everyone.
	if err := r.ResolveTurn(d, log, "b", "a", "", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.ResolveTurn(d, log, "a", "b", "fire_blast", nil); err != nil {
		t.Fatalf("expected ability usable after cooldown expired, got %v", err)
	}
}

func TestResolveTurn_ComboWithinWindowGrantsBonus(t *testing.T) {
	now := time.Now()
	r := pinnedResolver(&now)
	d := testDuel()
	log := game.NewBattleLog(d.ID, now)

	if err := r.ResolveTurn(d, log, "a", "b", "fire_blast", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(3 * time.Second)
	if err := r.ResolveTurn(d, log, "a", "b", "ember", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defender := d.CombatantByID("b")
	found := false
	for _, e := range defender.StatusEffects {
		if e.Kind == effects.KindDebuff && e.Stat == "defense" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected combo bonus debuff on defender, got %+v", defender.StatusEffects)
	}
}

func TestResolveTurn_ComboOutsideWindowGrantsNothing(t *testing.T) {
	now := time.Now()
	r := pinnedResolver(&now)
	d := testDuel()
	log := game.NewBattleLog(d.ID, now)

	if err := r.ResolveTurn(d, log, "a", "b", "fire_blast", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := r.ResolveTurn(d, log, "a", "b", "ember", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := d.CombatantByID("b").StatusEffects; len(got) != 0 {
		t.Fatalf("expected no status effects outside the combo window, got %+v", got)
	}
}

func TestResolveTurn_ComboPointsBuildAndReset(t *testing.T) {
	now := time.Now()
	r := pinnedResolver(&now)
	d := testDuel()
	log := game.NewBattleLog(d.ID, now)
	attacker := d.CombatantByID("a")
	attacker.Energy = 1000

	for i := 0; i < 7; i++ {
		if err := r.ResolveTurn(d, log, "a", "b", "mend", nil); err != nil {
			t.Fatalf("unexpected error on use %d: %v", i, err)
		}
	}
	if attacker.ComboPoints != game.MaxComboPoints {
		t.Fatalf("expected combo points capped at %d, got %d", game.MaxComboPoints, attacker.ComboPoints)
	}

	if err := r.ResolveTurn(d, log, "a", "b", "", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attacker.ComboPoints != 0 {
		t.Fatalf("expected basic attack to reset combo points, got %d", attacker.ComboPoints)
	}
}

func TestResolveTurn_VictoryCompletesDuel(t *testing.T) {
	now := time.Now()
	r := pinnedResolver(&now)
	d := testDuel()
	log := game.NewBattleLog(d.ID, now)
	d.CombatantByID("b").Health = 5

	if err := r.ResolveTurn(d, log, "a", "b", "", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.State != game.StateCompleted {
		t.Fatalf("expected completed duel, got %s", d.State)
	}
	if d.WinnerID != "a" || log.WinnerID != "a" {
		t.Fatalf("expected attacker to win, got duel=%q log=%q", d.WinnerID, log.WinnerID)
	}
	if log.EndTime.IsZero() {
		t.Fatalf("expected log end time to be stamped")
	}

	// A finished duel rejects further turns.
	if err := r.ResolveTurn(d, log, "b", "a", "", nil); !errors.Is(err, ErrDuelNotActive) {
		t.Fatalf("expected ErrDuelNotActive, got %v", err)
	}
}

func TestResolveTurn_HealClampsAtMaxHealth(t *testing.T) {
	now := time.Now()
	r := pinnedResolver(&now)
	d := testDuel()
	log := game.NewBattleLog(d.ID, now)
	defender := d.CombatantByID("b")
	defender.Health = 190

	if err := r.ResolveTurn(d, log, "a", "b", "mend", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 30 * (1 + 20/100) = 36, clamped to max.
	if defender.Health != 200 {
		t.Fatalf("expected healing clamped at max health, got %d", defender.Health)
	}
	if log.Actions[0].Healing != 36 {
		t.Fatalf("expected logged healing 36, got %d", log.Actions[0].Healing)
	}
}

func TestResolveTurn_BuffsAndDebuffsScaleDamage(t *testing.T) {
	now := time.Now()
	r := pinnedResolver(&now)
	d := testDuel()
	log := game.NewBattleLog(d.ID, now)

	attacker := d.CombatantByID("a")
	defender := d.CombatantByID("b")
	attacker.StatusEffects = effects.Apply(nil, effects.Template{Kind: effects.KindBuff, Stat: "attack", Value: 50, Duration: 10}, "x", now)
	defender.StatusEffects = effects.Apply(nil, effects.Template{Kind: effects.KindDebuff, Stat: "defense", Value: 50, Duration: 10}, "x", now)

	if err := r.ResolveTurn(d, log, "a", "b", "fire_blast", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// power 50 * 1.5 = 75; defense 10 * 0.5 = 5; 75 * 20 / 5 = 300, lethal.
	if defender.Health != 0 {
		t.Fatalf("expected scaled damage to be lethal, got health %d", defender.Health)
	}
	if d.State != game.StateCompleted {
		t.Fatalf("expected duel completed, got %s", d.State)
	}
}

func TestResolveTurn_AreaOfEffectHitsTargetsInRange(t *testing.T) {
	now := time.Now()
	r := pinnedResolver(&now)
	attacker := testCombatant("a", 0)
	attacker.Abilities = append(attacker.Abilities, game.Ability{
		ID: "riptide", Name: "Riptide", Kind: game.AbilityDamage, Power: 40,
		EnergyCost: 20, Range: 5, AreaOfEffect: true,
		StatusEffects: []effects.Template{{Kind: effects.KindDoT, Value: 4, Duration: 4, TickRate: 2}},
	})
	d := &game.Duel{
		ID:    "d1",
		State: game.StateInProgress,
		Participants: []*game.Participant{
			{ID: "p1", Combatant: attacker},
			{ID: "p2", Combatant: testCombatant("b", 2)},
			{ID: "p3", Combatant: testCombatant("c", 4)},
			{ID: "p4", Combatant: testCombatant("d", 50)},
		},
		Battlefield: game.Battlefield{Width: 100, Height: 100},
	}
	log := game.NewBattleLog(d.ID, now)

	if err := r.ResolveTurn(d, log, "a", "b", "riptide", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// power * attack / defense = 40 * 20 / 10 = 80 to every target in range.
	for _, id := range []string{"b", "c"} {
		c := d.CombatantByID(id)
		if c.Health != 120 {
			t.Fatalf("expected %s at 120 health, got %d", id, c.Health)
		}
		if len(c.StatusEffects) != 1 || c.StatusEffects[0].Kind != effects.KindDoT {
			t.Fatalf("expected the dot on %s, got %+v", id, c.StatusEffects)
		}
	}
	out := d.CombatantByID("d")
	if out.Health != 200 || len(out.StatusEffects) != 0 {
		t.Fatalf("target out of range must be untouched, got health %d effects %+v", out.Health, out.StatusEffects)
	}
	if len(log.Actions) != 1 || log.Actions[0].Damage != 80 {
		t.Fatalf("expected one logged action with the primary damage, got %+v", log.Actions)
	}
}

func TestResolveTurn_LogsOnlyEffectsAppliedThisTurn(t *testing.T) {
	now := time.Now()
	r := pinnedResolver(&now)
	d := testDuel()
	log := game.NewBattleLog(d.ID, now)

	defender := d.CombatantByID("b")
	defender.StatusEffects = effects.Apply(nil, effects.Template{Kind: effects.KindBuff, Stat: "attack", Value: 10, Duration: 10}, "old", now)

	attacker := d.CombatantByID("a")
	attacker.Abilities = append(attacker.Abilities, game.Ability{
		ID: "jolt", Kind: game.AbilityDamage, Power: 10, EnergyCost: 5, Range: 5,
		StatusEffects: []effects.Template{{Kind: effects.KindDebuff, Stat: "speed", Value: 5, Duration: 1}},
	})

	if err := r.ResolveTurn(d, log, "a", "b", "jolt", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := log.Actions[0].StatusEffects
	if len(got) != 1 || got[0].Kind != effects.KindDebuff || got[0].Stat != "speed" {
		t.Fatalf("expected only the effect applied this turn in the action, got %+v", got)
	}
	// The duration-1 debuff already expired in the decay pass: the action
	// keeps it while the ledger holds only the older buff.
	if len(defender.StatusEffects) != 1 || defender.StatusEffects[0].Stat != "attack" {
		t.Fatalf("unexpected ledger after decay: %+v", defender.StatusEffects)
	}
}
