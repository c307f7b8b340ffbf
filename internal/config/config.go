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

// Config captures marquee's runtime settings.
type Config struct {
	DataDir         string
	LogFile         string
	LogLevel        string
	LogMaxSizeMB    int
	LogMaxBackups   int
	FetchTimeout    time.Duration
	SyncInterval    time.Duration
	FlashTimeout    time.Duration
	FlashHistoryMax int
}

const (
	defaultConfigPath      = "~/.config/marquee/config.toml"
	defaultDataDir         = "~/.local/share/marquee"
	defaultLogLevel        = "info"
	defaultLogMaxSizeMB    = 10
	defaultLogMaxBackups   = 3
	defaultFetchTimeout    = 2 * time.Second
	defaultSyncInterval    = 5 * time.Minute
	defaultFlashTimeout    = 5 * time.Second
	defaultFlashHistoryMax = 100
)

// Default returns the configuration used when no file exists.
func Default() Config {
	dataDir := mustExpand(defaultDataDir)
	return Config{
		DataDir:         dataDir,
		LogFile:         filepath.Join(dataDir, "marquee.log"),
		LogLevel:        defaultLogLevel,
		LogMaxSizeMB:    defaultLogMaxSizeMB,
		LogMaxBackups:   defaultLogMaxBackups,
		FetchTimeout:    defaultFetchTimeout,
		SyncInterval:    defaultSyncInterval,
		FlashTimeout:    defaultFlashTimeout,
		FlashHistoryMax: defaultFlashHistoryMax,
	}
}

// Load locates and parses the marquee config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		DataDir         string `toml:"data_dir"`
		LogFile         string `toml:"log_file"`
		LogLevel        string `toml:"log_level"`
		LogMaxSizeMB    int    `toml:"log_max_size_mb"`
		LogMaxBackups   int    `toml:"log_max_backups"`
		FetchTimeout    string `toml:"fetch_timeout"`
		SyncInterval    string `toml:"sync_interval"`
		FlashTimeout    string `toml:"flash_timeout"`
		FlashHistoryMax int    `toml:"flash_history_max"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if dir := strings.TrimSpace(raw.DataDir); dir != "" {
		cfg.DataDir = mustExpand(dir)
		cfg.LogFile = filepath.Join(cfg.DataDir, "marquee.log")
	}
	if file := strings.TrimSpace(raw.LogFile); file != "" {
		cfg.LogFile = mustExpand(file)
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = level
	}
	if raw.LogMaxSizeMB > 0 {
		cfg.LogMaxSizeMB = raw.LogMaxSizeMB
	}
	if raw.LogMaxBackups > 0 {
		cfg.LogMaxBackups = raw.LogMaxBackups
	}
	if raw.FlashHistoryMax > 0 {
		cfg.FlashHistoryMax = raw.FlashHistoryMax
	}

	durations := []struct {
		key   string
		value string
		dest  *time.Duration
	}{
		{"fetch_timeout", raw.FetchTimeout, &cfg.FetchTimeout},
		{"sync_interval", raw.SyncInterval, &cfg.SyncInterval},
		{"flash_timeout", raw.FlashTimeout, &cfg.FlashTimeout},
	}
	for _, d := range durations {
		value := strings.TrimSpace(d.value)
		if value == "" {
			continue
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("parse %s: must be positive", d.key)
		}
		*d.dest = parsed
	}

	return cfg, nil
}

// DBPath returns the directory of the persistent key-value store.
func (c Config) DBPath() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return filepath.Join(mustExpand(defaultDataDir), "store")
	}
	return filepath.Join(c.DataDir, "store")
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
