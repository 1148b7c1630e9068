package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	defaultConfigPath = "./config.yaml"
	defaultDotEnvPath = ".env.local"
)

// Load reads configuration from a YAML file and environment variables.
//
// Priority: ENV > .env.local > YAML > env-default tags. The dotenv file
// (DOTENV_PATH, fallback ".env.local") never overrides variables already
// present in the process environment. The YAML path comes from CONFIG_PATH
// (fallback "./config.yaml"); a missing default file is fine, a missing
// explicit one is an error.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := read(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// schemaConfig is the subset of Config needed by schema tooling.
type schemaConfig struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// LoadDatabase reads only the database and log sections, from the same
// sources and with the same priority as Load. Schema tooling uses it so it
// does not need auth or broker settings.
func LoadDatabase() (DatabaseConfig, LogConfig, error) {
	if err := loadDotEnv(); err != nil {
		return DatabaseConfig{}, LogConfig{}, err
	}

	var cfg schemaConfig
	if err := read(&cfg); err != nil {
		return DatabaseConfig{}, LogConfig{}, err
	}
	return cfg.Database, cfg.Log, nil
}

// read fills dst from the YAML file (when present) and the environment.
func read(dst any) error {
	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = defaultConfigPath
	}

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, dst); err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
	case explicitPath:
		return fmt.Errorf("config: file %s: %w", path, statErr)
	default:
		if err := cleanenv.ReadEnv(dst); err != nil {
			return fmt.Errorf("config: read env: %w", err)
		}
	}
	return nil
}

func loadDotEnv() error {
	path := os.Getenv("DOTENV_PATH")
	if path == "" {
		path = defaultDotEnvPath
	}

	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("config: load %s: %w", path, err)
}
