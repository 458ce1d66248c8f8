package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/frifster/yougene/internal/effects"
	"github.com/frifster/yougene/internal/game"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yougene_config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const validConfig = `{
  "creature_list": [
    {
      "name": "Emberwing",
      "element": "fire",
      "health": 120, "attack": 20, "defense": 10, "speed": 15, "energy": 100,
      "abilities": [
        {"name": "Fire Blast", "type": "damage", "power": 50, "energy_cost": 25, "cooldown": 2, "range": 5},
        {
          "name": "Ember", "type": "damage", "power": 10, "energy_cost": 5,
          "status_effects": [{"type": "dot", "value": 4, "duration": 3, "tick_rate": 1}],
          "combo_effects": [{
            "required_ability": "Fire Blast",
            "time_window": 5,
            "bonus_effect": {"type": "debuff", "stat": "defense", "value": 20, "duration": 3}
          }]
        }
      ]
    }
  ],
  "battlefield": {"width": 400, "height": 300},
  "bot": {"safe_distance": 4.5, "decision_bound_ms": 250},
  "server": {"address": ":9090"}
}`

func TestLoadConfig_BuildsKits(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Creatures) != 1 {
		t.Fatalf("expected 1 creature, got %d", len(cfg.Creatures))
	}
	kit := cfg.Creatures[0]
	if kit.Name != "Emberwing" || kit.Health != 120 {
		t.Fatalf("unexpected kit: %+v", kit)
	}
	if len(kit.Abilities) != 2 {
		t.Fatalf("expected 2 abilities, got %d", len(kit.Abilities))
	}

	blast := kit.Abilities[0]
	if blast.ID != "fire_blast" {
		t.Fatalf("expected ability ID derived from name, got %q", blast.ID)
	}
	if blast.Kind != game.AbilityDamage || blast.Range != 5 {
		t.Fatalf("unexpected ability: %+v", blast)
	}

	ember := kit.Abilities[1]
	if ember.Range != 1 {
		t.Fatalf("expected missing range to default to melee, got %v", ember.Range)
	}
	if len(ember.StatusEffects) != 1 || ember.StatusEffects[0].Kind != effects.KindDoT {
		t.Fatalf("unexpected status effects: %+v", ember.StatusEffects)
	}
	if len(ember.ComboEffects) != 1 || ember.ComboEffects[0].RequiredAbilityID != "fire_blast" {
		t.Fatalf("unexpected combo effects: %+v", ember.ComboEffects)
	}

	if cfg.Battlefield.Width != 400 || cfg.Battlefield.Height != 300 {
		t.Fatalf("unexpected battlefield: %+v", cfg.Battlefield)
	}
	if cfg.Bot.SafeDistance != 4.5 || cfg.Bot.DecisionBound != 250*time.Millisecond {
		t.Fatalf("unexpected bot settings: %+v", cfg.Bot)
	}
	if cfg.ServerAddress != ":9090" {
		t.Fatalf("unexpected server address: %q", cfg.ServerAddress)
	}
}

func TestLoadConfig_RejectsDuplicateCreatureNames(t *testing.T) {
	content := `{"creature_list": [
    {"name": "Twin", "health": 10, "abilities": [{"name": "Jab", "type": "damage", "power": 5}]},
    {"name": "twin", "health": 10, "abilities": [{"name": "Jab", "type": "damage", "power": 5}]}
  ]}`
	_, err := LoadConfig(writeConfig(t, content))
	if err == nil || !strings.Contains(err.Error(), "duplicate creature name") {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
}

func TestLoadConfig_RejectsUnknownComboPrerequisite(t *testing.T) {
	content := `{"creature_list": [
    {"name": "Lone", "health": 10, "abilities": [
      {"name": "Jab", "type": "damage", "power": 5,
       "combo_effects": [{"required_ability": "Phantom Strike", "time_window": 5,
         "bonus_effect": {"type": "buff", "stat": "attack", "value": 10, "duration": 2}}]}
    ]}
  ]}`
	_, err := LoadConfig(writeConfig(t, content))
	if err == nil || !strings.Contains(err.Error(), "combo requires unknown ability") {
		t.Fatalf("expected combo prerequisite error, got %v", err)
	}
}

func TestLoadConfig_RejectsEmptyCatalog(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{"creature_list": []}`))
	if err == nil || !strings.Contains(err.Error(), "creature_list is empty") {
		t.Fatalf("expected empty catalog error, got %v", err)
	}
}

func TestLoadConfig_RejectsOverTimeEffectWithoutTickRate(t *testing.T) {
	content := `{"creature_list": [
    {"name": "Seeper", "health": 10, "abilities": [
      {"name": "Ooze", "type": "damage", "power": 5,
       "status_effects": [{"type": "dot", "value": 3, "duration": 4}]}
    ]}
  ]}`
	_, err := LoadConfig(writeConfig(t, content))
	if err == nil || !strings.Contains(err.Error(), "tick_rate") {
		t.Fatalf("expected tick rate error, got %v", err)
	}
}

func TestResolveAddress_Precedence(t *testing.T) {
	cfg := &LoadedConfig{ServerAddress: ":7000"}

	if got := (Env{Address: ":6000"}).ResolveAddress(cfg); got != ":6000" {
		t.Fatalf("expected env address to win, got %q", got)
	}
	if got := (Env{}).ResolveAddress(cfg); got != ":7000" {
		t.Fatalf("expected config address, got %q", got)
	}
	if got := (Env{}).ResolveAddress(nil); got != ":8080" {
		t.Fatalf("expected default address, got %q", got)
	}
}
