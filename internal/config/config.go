package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName = "karaoke"

	DefaultMprisService = "org.mpris.MediaPlayer2.spotify"
	DefaultPollInterval = 50 * time.Millisecond
	DefaultSeekStep     = 5 * time.Second
	DefaultLogLevel     = "info"

	minPollInterval = 10 * time.Millisecond
)

type Config struct {
	MprisService   string    `koanf:"mpris_service"`
	SyncOffsetMs   int64     `koanf:"sync_offset_ms"` // positive shows lyrics earlier
	HideHeader     bool      `koanf:"hide_header"`
	PollIntervalMs int       `koanf:"poll_interval_ms"`
	SeekStepMs     int       `koanf:"seek_step_ms"`
	Log            LogConfig `koanf:"log"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"` // empty means the default state file
}

func Default() *Config {
	return &Config{
		MprisService:   DefaultMprisService,
		PollIntervalMs: int(DefaultPollInterval / time.Millisecond),
		SeekStepMs:     int(DefaultSeekStep / time.Millisecond),
		Log:            LogConfig{Level: DefaultLogLevel},
	}
}

// Load reads the config files, then applies environment overrides.
func Load() (*Config, error) {
	cfg, err := LoadFiles(configPaths())
	if err != nil {
		return nil, err
	}

	applyEnv(cfg, os.Getenv)
	cfg.normalize()

	return cfg, nil
}

// LoadFiles merges the toml files that exist among paths, later files
// overriding earlier ones, on top of the defaults.
func LoadFiles(paths []string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.normalize()

	return cfg, nil
}

func configPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		"config.toml",
	}
}

// DefaultLogFile is where the viewer logs while it owns the terminal.
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}

func applyEnv(cfg *Config, getenv func(string) string) {
	cfg.MprisService = getEnvOrDefault(getenv, "MPRIS_SERVICE", cfg.MprisService)
	cfg.Log.Level = getEnvOrDefault(getenv, "KARAOKE_LOG_LEVEL", cfg.Log.Level)

	if raw := getenv("SYNC_OFFSET_MS"); raw != "" {
		if offset, err := strconv.ParseInt(strings.TrimPrefix(raw, "+"), 10, 64); err == nil {
			cfg.SyncOffsetMs = offset
		}
	}

	if raw := getenv("HIDE_HEADER"); raw != "" {
		cfg.HideHeader = raw == "1" || raw == "true" || raw == "yes"
	}
}

func (c *Config) normalize() {
	if c.MprisService == "" {
		c.MprisService = DefaultMprisService
	}
	if time.Duration(c.PollIntervalMs)*time.Millisecond < minPollInterval {
		c.PollIntervalMs = int(DefaultPollInterval / time.Millisecond)
	}
	if c.SeekStepMs <= 0 {
		c.SeekStepMs = int(DefaultSeekStep / time.Millisecond)
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	c.Log.File = expandPath(c.Log.File)
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func (c *Config) SeekStep() time.Duration {
	return time.Duration(c.SeekStepMs) * time.Millisecond
}

func getEnvOrDefault(getenv func(string) string, key string, fallback string) string {
	value := getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
