package storage

import "github.com/frifster/yougene/internal/game"

type Repository interface {
	// GetCreatures returns the selectable creature catalog with stats
	// resolved from config.
	GetCreatures() ([]game.CreatureTemplate, error)
	// GetCreatureByName returns a catalog creature by name (case-insensitive).
	GetCreatureByName(name string) (*game.CreatureTemplate, error)
	// KitByName resolves the full ability kit for a catalog creature.
	KitByName(name string) (game.CreatureKit, bool)

	// ArchiveDuel stores the aggregate outcome of a finished duel.
	ArchiveDuel(d *game.Duel, log *game.BattleLog) error
	// UpdateStatsOnDuelEnd folds a finished duel into player profiles.
	// Bot participants are skipped.
	UpdateStatsOnDuelEnd(d *game.Duel) error
	UpsertProfile(playerID, name string) error
	GetProfileByPlayerID(playerID string) (*game.PlayerProfile, error)
	// GetTopProfiles returns the top N profiles ordered by wins, then
	// duels played.
	GetTopProfiles(limit int) ([]game.PlayerProfile, error)
	GetDuelArchive(duelID string) (*game.DuelArchive, error)
}
