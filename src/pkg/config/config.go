// Package config provides functionality for loading, saving, and managing
// application configuration settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"outliner/local-app/src/pkg/model"
)

// EnvPrefix prefixes every environment variable that overrides a config field.
const EnvPrefix = "OUTLINER_"

// Global variables to store the current configuration and its file path.
var (
	currentConfig *model.Config
	configPath    = "./data/config.json"
)

// SetConfigPath changes the file ConfigLoad and ConfigSave use.
// Files ending in .yaml or .yml are read and written as YAML, anything else as JSON.
func SetConfigPath(path string) {
	configPath = path
}

// ConfigPath returns the current config file path.
func ConfigPath() string {
	return configPath
}

// DefaultConfig returns the settings written on first run.
func DefaultConfig() *model.Config {
	return &model.Config{
		StoreType:      "sqlite",
		DatabaseDir:    "./data",
		DatabaseFile:   "outliner.db",
		BadgerDir:      "./data/badger",
		RedisAddr:      "localhost:6379",
		RedisPrefix:    "outliner:",
		RedisTimeoutMS: 2000,
		LogFolder:      "./logs",
		CommandLog:     "commands.log",
		AppLog:         "outliner.log",
		LogLevel:       "info",
		DefaultKey:     "root",
		HistoryFile:    "./data/history.txt",
	}
}

// ConfigLoad loads the configuration from the config file.
// If the file doesn't exist, it creates a default configuration.
// Environment overrides (and .env files) are applied on top and the result is validated.
func ConfigLoad() error {
	// Ensure the data directory exists
	dataDir := filepath.Dir(configPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := DefaultConfig()

	// Check if the config file exists, if not create a default one
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := ConfigSave(cfg); err != nil {
			return fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
		if err := unmarshal(file, cfg); err != nil {
			return fmt.Errorf("error parsing config file: %w", err)
		}
	}

	LoadEnvFiles(".env", filepath.Join(dataDir, ".env"))
	ApplyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	currentConfig = cfg
	return nil
}

// ConfigSave saves the provided configuration to the config file.
func ConfigSave(cfg *model.Config) error {
	data, err := marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// ConfigGet returns the current configuration.
func ConfigGet() *model.Config {
	return currentConfig
}

func isYAML() bool {
	ext := strings.ToLower(filepath.Ext(configPath))
	return ext == ".yaml" || ext == ".yml"
}

func marshal(cfg *model.Config) ([]byte, error) {
	if isYAML() {
		return yaml.Marshal(cfg)
	}
	return json.MarshalIndent(cfg, "", "  ")
}

func unmarshal(data []byte, cfg *model.Config) error {
	if isYAML() {
		return yaml.Unmarshal(data, cfg)
	}
	return json.Unmarshal(data, cfg)
}

// LoadEnvFiles loads the given .env files that exist. Variables already set in the
// process environment win.
func LoadEnvFiles(files ...string) []string {
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			continue
		}
		loaded = append(loaded, file)
	}
	return loaded
}

// ApplyEnv overrides config fields from OUTLINER_* environment variables.
// Numeric variables that fail to parse are ignored.
func ApplyEnv(cfg *model.Config) {
	strVars := map[string]*string{
		"STORE_TYPE":     &cfg.StoreType,
		"DATABASE_DIR":   &cfg.DatabaseDir,
		"DATABASE_FILE":  &cfg.DatabaseFile,
		"BADGER_DIR":     &cfg.BadgerDir,
		"REDIS_ADDR":     &cfg.RedisAddr,
		"REDIS_PASSWORD": &cfg.RedisPassword,
		"REDIS_PREFIX":   &cfg.RedisPrefix,
		"LOG_FOLDER":     &cfg.LogFolder,
		"COMMAND_LOG":    &cfg.CommandLog,
		"APP_LOG":        &cfg.AppLog,
		"LOG_LEVEL":      &cfg.LogLevel,
		"DEFAULT_KEY":    &cfg.DefaultKey,
		"HISTORY_FILE":   &cfg.HistoryFile,
	}
	for name, field := range strVars {
		if value := os.Getenv(EnvPrefix + name); value != "" {
			*field = value
		}
	}

	intVars := map[string]*int{
		"REDIS_DB":         &cfg.RedisDB,
		"REDIS_TIMEOUT_MS": &cfg.RedisTimeoutMS,
	}
	for name, field := range intVars {
		if value := os.Getenv(EnvPrefix + name); value != "" {
			if parsed, err := strconv.Atoi(value); err == nil {
				*field = parsed
			}
		}
	}
}

// Validate checks that the configuration can be used to start the application.
func Validate(cfg *model.Config) error {
	switch cfg.StoreType {
	case "sqlite":
		if cfg.DatabaseFile == "" {
			return fmt.Errorf("database_file is required for the sqlite store")
		}
	case "badger":
		if cfg.BadgerDir == "" {
			return fmt.Errorf("badger_dir is required for the badger store")
		}
	case "redis":
		if cfg.RedisAddr == "" {
			return fmt.Errorf("redis_addr is required for the redis store")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported store type: %s", cfg.StoreType)
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", cfg.LogLevel)
	}

	if cfg.DefaultKey == "" {
		return fmt.Errorf("default_key must not be empty")
	}
	return nil
}
