package main

import (
	"github.com/frifster/yougene/internal/config"
	"github.com/frifster/yougene/internal/logging"
	"github.com/frifster/yougene/internal/storage"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid yougene configuration", err, logging.Fields{"config_path": path})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string, cfg *config.LoadedConfig) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath, cfg.Creatures)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db, cfg.Creatures)
}
