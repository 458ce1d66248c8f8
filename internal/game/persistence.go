package game

import (
	"time"

	"gorm.io/gorm"
)

// CreatureTemplate is the persisted row for a catalog creature. Stats are
// configured via the server config file and intentionally not persisted
// (gorm:"-") so the config stays the single source of truth.
type CreatureTemplate struct {
	gorm.Model
	Name    string `json:"name" gorm:"uniqueIndex"`
	Element string `json:"element" gorm:"-"`
	Health  int    `json:"health" gorm:"-"`
	Attack  int    `json:"attack" gorm:"-"`
	Defense int    `json:"defense" gorm:"-"`
	Speed   int    `json:"speed" gorm:"-"`
	Energy  int    `json:"energy" gorm:"-"`
}

func (CreatureTemplate) TableName() string { return "creature_templates" }

// PlayerProfile stores a participant identity and aggregate duel stats.
type PlayerProfile struct {
	gorm.Model
	PlayerID    string `json:"player_id" gorm:"uniqueIndex"`
	PlayerName  string `json:"player_name"`
	DuelsPlayed int    `json:"duels_played"`
	Wins        int    `json:"wins"`
}

func (PlayerProfile) TableName() string { return "player_profiles" }

// DuelArchive is the persisted summary of a finished duel. The full action
// log stays in memory for the session's lifetime; only the aggregate outcome
// is archived.
type DuelArchive struct {
	gorm.Model
	DuelID       string    `json:"duel_id" gorm:"uniqueIndex"`
	State        string    `json:"state"`
	WinnerID     string    `json:"winner_id"`
	VsBot        bool      `json:"vs_bot"`
	Turns        int       `json:"turns"`
	TotalDamage  int       `json:"total_damage"`
	TotalHealing int       `json:"total_healing"`
	LongestCombo int       `json:"longest_combo"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at"`
}

func (DuelArchive) TableName() string { return "duel_archives" }
