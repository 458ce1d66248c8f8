package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/frifster/yougene/internal/effects"
	"github.com/frifster/yougene/internal/game"
	"github.com/frifster/yougene/internal/keys"
)

type statusEffectEntry struct {
	Type     string  `json:"type"`
	Stat     string  `json:"stat"`
	Value    int     `json:"value"`
	Duration float64 `json:"duration"`
	TickRate float64 `json:"tick_rate"`
}

type comboEffectEntry struct {
	RequiredAbility string            `json:"required_ability"`
	TimeWindow      float64           `json:"time_window"`
	BonusEffect     statusEffectEntry `json:"bonus_effect"`
}

type abilityEntry struct {
	Name          string              `json:"name"`
	Type          string              `json:"type"`
	Element       string              `json:"element"`
	Description   string              `json:"description"`
	Power         int                 `json:"power"`
	Accuracy      int                 `json:"accuracy"`
	EnergyCost    int                 `json:"energy_cost"`
	Cooldown      int                 `json:"cooldown"`
	Range         float64             `json:"range"`
	AreaOfEffect  bool                `json:"area_of_effect"`
	StatusEffects []statusEffectEntry `json:"status_effects"`
	ComboEffects  []comboEffectEntry  `json:"combo_effects"`
}

type creatureEntry struct {
	Name      string         `json:"name"`
	Element   string         `json:"element"`
	Health    int            `json:"health"`
	Attack    int            `json:"attack"`
	Defense   int            `json:"defense"`
	Speed     int            `json:"speed"`
	Energy    int            `json:"energy"`
	Abilities []abilityEntry `json:"abilities"`
}

type rawConfig struct {
	CreatureList []creatureEntry `json:"creature_list"`
	Battlefield  *struct {
		Width     float64         `json:"width"`
		Height    float64         `json:"height"`
		Obstacles []game.Obstacle `json:"obstacles"`
	} `json:"battlefield"`
	Bot *struct {
		SafeDistance    float64 `json:"safe_distance"`
		DecisionBoundMS int     `json:"decision_bound_ms"`
	} `json:"bot"`
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
}

// BotSettings tunes the autonomous opponent policy.
type BotSettings struct {
	SafeDistance  float64
	DecisionBound time.Duration
}

// LoadedConfig is the validated server configuration: the creature catalog,
// battlefield layout, bot tuning and the address to bind to.
type LoadedConfig struct {
	Creatures     []game.CreatureKit
	Battlefield   game.Battlefield
	Bot           BotSettings
	ServerAddress string
}

const (
	defaultFieldWidth  = 800
	defaultFieldHeight = 600
)

// LoadConfig reads the configuration file at path. It requires the key
// `creature_list` (snake_case) and validates catalog consistency: unique
// creature names, unique ability keys per kit, and combo prerequisites that
// resolve to an ability on the same kit.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.CreatureList) == 0 {
		return nil, fmt.Errorf("config file %s: creature_list is empty (provide a 'creature_list' array)", path)
	}

	nameSet := make(map[string]struct{}, len(rc.CreatureList))
	kits := make([]game.CreatureKit, 0, len(rc.CreatureList))
	for _, ce := range rc.CreatureList {
		if ce.Name == "" {
			return nil, fmt.Errorf("config file %s: creature entry missing 'name'", path)
		}
		ln := strings.ToLower(strings.TrimSpace(ce.Name))
		if _, exists := nameSet[ln]; exists {
			return nil, fmt.Errorf("config file %s: duplicate creature name '%s'", path, ce.Name)
		}
		nameSet[ln] = struct{}{}
		if ce.Health <= 0 {
			return nil, fmt.Errorf("config file %s: creature '%s' must have positive health", path, ce.Name)
		}

		kit, err := buildKit(path, ce)
		if err != nil {
			return nil, err
		}
		kits = append(kits, kit)
	}

	field := game.Battlefield{Width: defaultFieldWidth, Height: defaultFieldHeight}
	if rc.Battlefield != nil {
		field.Width = rc.Battlefield.Width
		field.Height = rc.Battlefield.Height
		field.Obstacles = rc.Battlefield.Obstacles
	}

	bot := BotSettings{SafeDistance: 3, DecisionBound: time.Second}
	if rc.Bot != nil {
		if rc.Bot.SafeDistance > 0 {
			bot.SafeDistance = rc.Bot.SafeDistance
		}
		if rc.Bot.DecisionBoundMS > 0 {
			bot.DecisionBound = time.Duration(rc.Bot.DecisionBoundMS) * time.Millisecond
		}
	}

	addr := ""
	if rc.Server != nil {
		addr = rc.Server.Address
	}

	return &LoadedConfig{
		Creatures:     kits,
		Battlefield:   field,
		Bot:           bot,
		ServerAddress: addr,
	}, nil
}

func buildKit(path string, ce creatureEntry) (game.CreatureKit, error) {
	kit := game.CreatureKit{
		Name:    ce.Name,
		Element: ce.Element,
		Health:  ce.Health,
		Attack:  ce.Attack,
		Defense: ce.Defense,
		Speed:   ce.Speed,
		Energy:  ce.Energy,
	}

	idSet := make(map[string]struct{}, len(ce.Abilities))
	for _, ae := range ce.Abilities {
		if ae.Name == "" {
			return kit, fmt.Errorf("config file %s: creature '%s' has an ability without a name", path, ce.Name)
		}
		id := keys.AbilityKeyFromName(ae.Name)
		if _, exists := idSet[id]; exists {
			return kit, fmt.Errorf("config file %s: creature '%s' has duplicate ability '%s'", path, ce.Name, ae.Name)
		}
		idSet[id] = struct{}{}

		ability := game.Ability{
			ID:           id,
			Name:         ae.Name,
			Kind:         game.AbilityKind(ae.Type),
			Element:      ae.Element,
			Description:  ae.Description,
			Power:        ae.Power,
			Accuracy:     ae.Accuracy,
			EnergyCost:   ae.EnergyCost,
			Cooldown:     ae.Cooldown,
			Range:        ae.Range,
			AreaOfEffect: ae.AreaOfEffect,
		}
		if ability.Range == 0 {
			ability.Range = 1 // melee
		}
		switch ability.Kind {
		case game.AbilityDamage, game.AbilityHeal, game.AbilityBuff, game.AbilityDebuff, game.AbilityStatus:
		default:
			return kit, fmt.Errorf("config file %s: ability '%s' has unknown type '%s'", path, ae.Name, ae.Type)
		}
		for _, se := range ae.StatusEffects {
			tpl, err := statusTemplate(path, ae.Name, se)
			if err != nil {
				return kit, err
			}
			ability.StatusEffects = append(ability.StatusEffects, tpl)
		}
		for _, combo := range ae.ComboEffects {
			tpl, err := statusTemplate(path, ae.Name, combo.BonusEffect)
			if err != nil {
				return kit, err
			}
			ability.ComboEffects = append(ability.ComboEffects, game.ComboEffect{
				RequiredAbilityID: keys.AbilityKeyFromName(combo.RequiredAbility),
				TimeWindow:        combo.TimeWindow,
				BonusEffect:       tpl,
			})
		}
		kit.Abilities = append(kit.Abilities, ability)
	}

	// Combo prerequisites must name an ability on the same kit.
	for _, a := range kit.Abilities {
		for _, combo := range a.ComboEffects {
			if _, ok := idSet[combo.RequiredAbilityID]; !ok {
				return kit, fmt.Errorf("config file %s: ability '%s' combo requires unknown ability '%s'", path, a.Name, combo.RequiredAbilityID)
			}
		}
	}
	return kit, nil
}

func statusTemplate(path, abilityName string, se statusEffectEntry) (effects.Template, error) {
	tpl := effects.Template{
		Kind:     effects.Kind(se.Type),
		Stat:     se.Stat,
		Value:    se.Value,
		Duration: se.Duration,
		TickRate: se.TickRate,
	}
	switch tpl.Kind {
	case effects.KindBuff, effects.KindDebuff, effects.KindDoT, effects.KindHoT:
	default:
		return tpl, fmt.Errorf("config file %s: ability '%s' has status effect with unknown type '%s'", path, abilityName, se.Type)
	}
	if tpl.Duration <= 0 {
		return tpl, fmt.Errorf("config file %s: ability '%s' has status effect with non-positive duration", path, abilityName)
	}
	if (tpl.Kind == effects.KindDoT || tpl.Kind == effects.KindHoT) && tpl.TickRate <= 0 {
		return tpl, fmt.Errorf("config file %s: ability '%s' over-time effect needs a positive tick_rate", path, abilityName)
	}
	return tpl, nil
}
