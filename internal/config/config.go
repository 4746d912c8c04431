package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Storage backends accepted by the storage key.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
	StorageMemory = "memory"
)

// Config captures everything liftoff reads from config.toml and the
// environment.
type Config struct {
	APIURL       string
	DataDir      string
	Storage      string
	PageSize     int
	LogLevel     string
	SyncInterval time.Duration
}

const (
	defaultConfigPath   = "~/.config/liftoff/config.toml"
	defaultAPIURL       = "https://api.spacexdata.com/v4"
	defaultDataDir      = "~/.local/share/liftoff"
	defaultStorage      = StorageSQLite
	defaultPageSize     = 20
	defaultLogLevel     = "info"
	defaultSyncInterval = time.Second
)

type fileConfig struct {
	APIURL         string `toml:"api_url" env:"API_URL"`
	DataDir        string `toml:"data_dir" env:"DATA_DIR"`
	Storage        string `toml:"storage" env:"STORAGE"`
	PageSize       int    `toml:"page_size" env:"PAGE_SIZE"`
	LogLevel       string `toml:"log_level" env:"LOG_LEVEL"`
	SyncIntervalMS int    `toml:"sync_interval_ms" env:"SYNC_INTERVAL_MS"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:       defaultAPIURL,
		DataDir:      mustExpand(defaultDataDir),
		Storage:      defaultStorage,
		PageSize:     defaultPageSize,
		LogLevel:     defaultLogLevel,
		SyncInterval: defaultSyncInterval,
	}
}

// Load reads the config file at path (or the default location), applies
// LIFTOFF_* environment overrides and fills in defaults. A missing file is
// not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw fileConfig
	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := ParseEnv(&raw); err != nil {
		return Config{}, err
	}
	return raw.resolve()
}

func (raw fileConfig) resolve() (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		cfg.DataDir = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.Storage)); v != "" {
		switch v {
		case StorageSQLite, StorageFile, StorageMemory:
			cfg.Storage = v
		default:
			return Config{}, fmt.Errorf("invalid storage %q: want sqlite, file or memory", raw.Storage)
		}
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if raw.SyncIntervalMS > 0 {
		cfg.SyncInterval = time.Duration(raw.SyncIntervalMS) * time.Millisecond
	}
	return cfg, nil
}

// DatabasePath returns the sqlite key-value database location.
func (c Config) DatabasePath() string {
	return filepath.Join(c.dataDir(), "liftoff.db")
}

// StoreDir returns the directory used by the file key-value backend.
func (c Config) StoreDir() string {
	return filepath.Join(c.dataDir(), "kv")
}

// LogPath returns the TUI log file location.
func (c Config) LogPath() string {
	return filepath.Join(c.dataDir(), "liftoff.log")
}

func (c Config) dataDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir)
	}
	return c.DataDir
}

// DefaultDir returns the directory holding config.toml and prefs.toml.
func DefaultDir() string {
	return filepath.Dir(mustExpand(defaultConfigPath))
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
