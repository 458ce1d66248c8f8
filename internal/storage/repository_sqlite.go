package storage

import (
	"fmt"
	"strings"

	"github.com/frifster/yougene/internal/dedupe"
	"github.com/frifster/yougene/internal/game"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
	// kitByName maps lowercase creature name -> config kit (stats, abilities).
	kitByName map[string]game.CreatureKit
}

func NewSQLiteRepository(db *gorm.DB, kits []game.CreatureKit) Repository {
	m := make(map[string]game.CreatureKit, len(kits))
	for _, k := range kits {
		m[strings.ToLower(k.Name)] = k
	}
	return &sqliteRepository{db: db, kitByName: m}
}

// applyKit overrides the persisted row with the configured stats. The DB
// keeps only the name; everything else comes from config.
func (r *sqliteRepository) applyKit(t *game.CreatureTemplate) {
	if kit, ok := r.kitByName[strings.ToLower(t.Name)]; ok {
		t.Element = kit.Element
		t.Health = kit.Health
		t.Attack = kit.Attack
		t.Defense = kit.Defense
		t.Speed = kit.Speed
		t.Energy = kit.Energy
	}
}

func (r *sqliteRepository) GetCreatures() ([]game.CreatureTemplate, error) {
	v, err, _ := dedupe.CatalogGroup.Do("creatures", func() (interface{}, error) {
		var templates []game.CreatureTemplate
		if err := r.db.Order("name").Find(&templates).Error; err != nil {
			return nil, err
		}
		for i := range templates {
			r.applyKit(&templates[i])
		}
		return templates, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]game.CreatureTemplate), nil
}

func (r *sqliteRepository) GetCreatureByName(name string) (*game.CreatureTemplate, error) {
	key := "creature:" + strings.ToLower(name)
	v, err, _ := dedupe.CatalogGroup.Do(key, func() (interface{}, error) {
		var t game.CreatureTemplate
		if err := r.db.Where("lower(name) = ?", strings.ToLower(name)).First(&t).Error; err != nil {
			return nil, err
		}
		r.applyKit(&t)
		return &t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*game.CreatureTemplate), nil
}

func (r *sqliteRepository) KitByName(name string) (game.CreatureKit, bool) {
	kit, ok := r.kitByName[strings.ToLower(name)]
	return kit, ok
}

func (r *sqliteRepository) ArchiveDuel(d *game.Duel, log *game.BattleLog) error {
	a := game.DuelArchive{
		DuelID:       d.ID,
		State:        string(d.State),
		WinnerID:     d.WinnerID,
		VsBot:        d.VsBot,
		Turns:        d.CurrentTurn,
		StartedAt:    log.StartTime,
		EndedAt:      log.EndTime,
		TotalDamage:  log.Stats.TotalDamage,
		TotalHealing: log.Stats.TotalHealing,
		LongestCombo: log.Stats.LongestCombo,
	}
	// Re-archiving the same duel (e.g. leave after completion) updates the
	// existing row instead of violating the unique index.
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "duel_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "winner_id", "turns", "total_damage", "total_healing", "longest_combo", "ended_at"}),
	}).Create(&a).Error
}

func (r *sqliteRepository) UpdateStatsOnDuelEnd(d *game.Duel) error {
	// Helper to upsert and add deltas
	bump := func(playerID, name string, played, wins int) error {
		var p game.PlayerProfile
		if err := r.db.Where("player_id = ?", playerID).First(&p).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				p = game.PlayerProfile{PlayerID: playerID, PlayerName: name}
			} else {
				return err
			}
		}
		p.PlayerName = name
		p.DuelsPlayed += played
		p.Wins += wins
		return r.db.Save(&p).Error
	}
	for _, part := range d.Participants {
		if part.IsBot {
			continue
		}
		wins := 0
		// WinnerID carries the winning combatant's ID, not the player's.
		if d.WinnerID != "" && part.Combatant != nil && part.Combatant.ID == d.WinnerID {
			wins = 1
		}
		if err := bump(part.ID, part.Name, 1, wins); err != nil {
			return err
		}
	}
	return nil
}

func (r *sqliteRepository) UpsertProfile(playerID, name string) error {
	var p game.PlayerProfile
	if err := r.db.Where("player_id = ?", playerID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			p = game.PlayerProfile{PlayerID: playerID}
		} else {
			return err
		}
	}
	p.PlayerName = name
	return r.db.Save(&p).Error
}

func (r *sqliteRepository) GetProfileByPlayerID(playerID string) (*game.PlayerProfile, error) {
	var p game.PlayerProfile
	if err := r.db.Where("player_id = ?", playerID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &game.PlayerProfile{PlayerID: playerID}, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetTopProfiles returns top N profiles ordered by Wins desc, then DuelsPlayed desc.
func (r *sqliteRepository) GetTopProfiles(limit int) ([]game.PlayerProfile, error) {
	if limit <= 0 {
		limit = 10
	}
	key := fmt.Sprintf("top:%d", limit)
	v, err, _ := dedupe.LeaderboardGroup.Do(key, func() (interface{}, error) {
		var profiles []game.PlayerProfile
		if err := r.db.Model(&game.PlayerProfile{}).
			Order("wins DESC").
			Order("duels_played DESC").
			Limit(limit).
			Find(&profiles).Error; err != nil {
			return nil, err
		}
		return profiles, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]game.PlayerProfile), nil
}

func (r *sqliteRepository) GetDuelArchive(duelID string) (*game.DuelArchive, error) {
	var a game.DuelArchive
	if err := r.db.Where("duel_id = ?", duelID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
