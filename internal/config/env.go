package config

import (
	"github.com/caarlos0/env/v11"

	"github.com/frifster/yougene/internal/constants"
)

// Env holds the environment-provided settings. The config file path and DB
// location come from the environment; the bind address falls back to the
// config file, then to the built-in default.
type Env struct {
	ConfigPath string `env:"YOUGENE_CONFIG"`
	DBPath     string `env:"YOUGENE_DB"`
	Address    string `env:"YOUGENE_ADDR"`
}

// LoadEnv parses the process environment and applies defaults.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return e, err
	}
	if e.ConfigPath == "" {
		e.ConfigPath = constants.DefaultConfigPath
	}
	if e.DBPath == "" {
		e.DBPath = constants.DefaultDBPath
	}
	return e, nil
}

// ResolveAddress picks the bind address: env wins, then the config file,
// then the default.
func (e Env) ResolveAddress(cfg *LoadedConfig) string {
	if e.Address != "" {
		return e.Address
	}
	if cfg != nil && cfg.ServerAddress != "" {
		return cfg.ServerAddress
	}
	return constants.DefaultAddress
}
