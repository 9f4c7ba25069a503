// Package config provides configuration loading and structs for cutaway.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override values from the config file.
const (
	EnvGagsDir    = "CUTAWAY_GAGS_DIR"
	EnvDebug      = "CUTAWAY_DEBUG"
	EnvServerPort = "CUTAWAY_SERVER_PORT"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool           `yaml:"debug"`
	GagsDir    string         `yaml:"gags_dir"`
	Extensions []string       `yaml:"extensions"`
	Server     ServerConfig   `yaml:"server"`
	Catalog    CatalogConfig  `yaml:"catalog"`
	Export     ExportConfig   `yaml:"export"`
	Watch      WatchConfig    `yaml:"watch"`
	Analysis   AnalysisConfig `yaml:"analysis"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CatalogConfig controls character classification and keyword extraction.
type CatalogConfig struct {
	MainCharacters   []string `yaml:"main_characters"`
	StopWords        []string `yaml:"stop_words"`
	MinKeywordLength int      `yaml:"min_keyword_length"`
}

// ExportConfig holds the export directory and per-format file names.
type ExportConfig struct {
	Dir       string `yaml:"dir"`
	JSON      string `yaml:"json"`
	CSV       string `yaml:"csv"`
	Absurdist string `yaml:"absurdist"`
	XLSX      string `yaml:"xlsx"`
	SQLite    string `yaml:"sqlite"`
}

// Path joins name onto the export directory unless name is already absolute.
func (e *ExportConfig) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(e.Dir, name)
}

// WatchConfig holds gag directory watch settings.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMs int  `yaml:"debounce_ms"`
}

// AnalysisConfig tunes the analyze and missing commands.
type AnalysisConfig struct {
	SparseSeasonThreshold int      `yaml:"sparse_season_threshold"`
	TopOwners             int      `yaml:"top_owners"`
	SingleAppearanceLimit int      `yaml:"single_appearance_limit"`
	KnownMissing          []string `yaml:"known_missing"`
}

// Load reads and parses the config file at path, expands paths, applies defaults and
// then environment overrides. A .env file next to the config is loaded first when present.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.GagsDir = expandPath(cfg.GagsDir, configDir)
	cfg.Export.Dir = expandPath(cfg.Export.Dir, configDir)

	if err := loadDotEnv(filepath.Join(configDir, ".env")); err != nil {
		return nil, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration with environment overrides applied. Paths
// stay relative to the working directory.
func Default() (*Config, error) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg from CUTAWAY_* environment variables. Empty values are ignored.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvGagsDir); v != "" {
		if abs, err := filepath.Abs(v); err == nil {
			v = abs
		}
		cfg.GagsDir = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvDebug, v, err)
		}
		cfg.Debug = debug
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid %s %q", EnvServerPort, v)
		}
		cfg.Server.Port = port
	}
	return nil
}

// loadDotEnv loads KEY=VALUE pairs from path into the process environment without
// overriding variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
