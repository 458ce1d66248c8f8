package storage

import (
	"os"
	"path/filepath"

	"github.com/frifster/yougene/internal/game"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the SQLite database, migrates the schema and seeds
// catalog rows for any configured creature that does not have one yet.
// Creature stats are never persisted: the config file is the source of truth
// and the DB only anchors names to stable IDs.
func OpenAndMigrate(dataSourceName string, kits []game.CreatureKit) (*gorm.DB, error) {
	if dir := filepath.Dir(dataSourceName); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&game.CreatureTemplate{}, &game.PlayerProfile{}, &game.DuelArchive{})
	if err != nil {
		return nil, err
	}

	seedCreatureTemplates(db, kits)
	return db, nil
}

func seedCreatureTemplates(db *gorm.DB, kits []game.CreatureKit) {
	var count int64
	db.Model(&game.CreatureTemplate{}).Count(&count)
	if count > 0 {
		return
	}
	templates := make([]game.CreatureTemplate, 0, len(kits))
	for _, k := range kits {
		templates = append(templates, game.CreatureTemplate{Name: k.Name})
	}
	if len(templates) > 0 {
		db.Create(&templates)
	}
}
