// Package config loads runtime configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DB   DBConfig   `yaml:"db"`
	Log  LogConfig  `yaml:"log"`
	Sync SyncConfig `yaml:"sync"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SyncConfig struct {
	Endpoint    string        `yaml:"-"`
	Interval    time.Duration `yaml:"-"`
	BatchSize   int           `yaml:"-"`
	BackoffBase time.Duration `yaml:"-"`
}

// UnmarshalYAML accepts durations in Go syntax ("30s", "1m"). Absent keys
// keep their defaults.
func (s *SyncConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Endpoint    string `yaml:"endpoint"`
		Interval    string `yaml:"interval"`
		BatchSize   int    `yaml:"batch_size"`
		BackoffBase string `yaml:"backoff_base"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Endpoint != "" {
		s.Endpoint = raw.Endpoint
	}
	if raw.BatchSize != 0 {
		s.BatchSize = raw.BatchSize
	}
	if raw.Interval != "" {
		interval, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return fmt.Errorf("invalid sync interval: %w", err)
		}
		s.Interval = interval
	}
	if raw.BackoffBase != "" {
		backoff, err := time.ParseDuration(raw.BackoffBase)
		if err != nil {
			return fmt.Errorf("invalid sync backoff base: %w", err)
		}
		s.BackoffBase = backoff
	}
	return nil
}

// Load reads configuration from an optional YAML file and environment
// variables. The file path comes from FIELDMAP_CONFIG; individual
// FIELDMAP_* variables override file values.
func Load() (Config, error) {
	cfg := Config{
		DB: DBConfig{
			Path: defaultDBPath(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Sync: SyncConfig{
			Interval:    30 * time.Second,
			BatchSize:   50,
			BackoffBase: time.Second,
		},
	}

	if path := os.Getenv("FIELDMAP_CONFIG"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if dbPath := os.Getenv("FIELDMAP_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("FIELDMAP_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if endpoint := os.Getenv("FIELDMAP_SYNC_ENDPOINT"); endpoint != "" {
		cfg.Sync.Endpoint = endpoint
	}
	if intervalStr := os.Getenv("FIELDMAP_SYNC_INTERVAL"); intervalStr != "" {
		interval, err := time.ParseDuration(intervalStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FIELDMAP_SYNC_INTERVAL: %w", err)
		}
		cfg.Sync.Interval = interval
	}
	if batchStr := os.Getenv("FIELDMAP_SYNC_BATCH"); batchStr != "" {
		batch, err := strconv.Atoi(batchStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FIELDMAP_SYNC_BATCH: %w", err)
		}
		cfg.Sync.BatchSize = batch
	}

	return cfg, nil
}

// LogLevel maps the configured level name to a slog level. Unknown names
// fall back to info.
func (c Config) LogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fieldmap.db"
	}
	return filepath.Join(home, ".fieldmap", "fieldmap.db")
}
