package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/adibhanna/timetracker/internal/models"
)

const (
	AppName  = "timetracker"
	FileName = "config.toml"

	JSONLName = "time_log.jsonl"
	CSVName   = "time_log.csv"
)

var ErrInvalid = errors.New("invalid config")

// Config is built once at startup and passed by value afterwards.
type Config struct {
	DataDir   string
	JSONLPath string
	CSVPath   string

	RefreshInterval time.Duration
	NoticeTimeout   time.Duration

	// LogFile receives diagnostic logs; empty discards them.
	LogFile  string
	LogLevel string

	Statuses []models.Status
}

// fileConfig mirrors config.toml. Every field is optional.
type fileConfig struct {
	DataDir         string `toml:"data_dir"`
	RefreshInterval string `toml:"refresh_interval"`
	NoticeTimeout   string `toml:"notice_timeout"`
	LogFile         string `toml:"log_file"`
	LogLevel        string `toml:"log_level"`
}

func DefaultConfig(homeDir string) Config {
	return withDataDir(Config{
		RefreshInterval: 200 * time.Millisecond,
		NoticeTimeout:   4 * time.Second,
		LogLevel:        "info",
		Statuses:        append([]models.Status(nil), models.Statuses...),
	}, Dir(homeDir))
}

// Dir is where config.toml lives. It stays fixed even when data_dir moves
// the logs elsewhere.
func Dir(homeDir string) string {
	return filepath.Join(homeDir, "."+AppName)
}

// Load returns the defaults overlaid with <home>/.timetracker/config.toml.
// A missing file is not an error.
func Load(homeDir string) (Config, error) {
	cfg := DefaultConfig(homeDir)

	data, err := os.ReadFile(filepath.Join(Dir(homeDir), FileName))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return apply(cfg, fc, homeDir)
}

func apply(cfg Config, fc fileConfig, homeDir string) (Config, error) {
	if fc.DataDir != "" {
		cfg = withDataDir(cfg, expandHome(fc.DataDir, homeDir))
	}

	if fc.RefreshInterval != "" {
		d, err := parsePositive("refresh_interval", fc.RefreshInterval)
		if err != nil {
			return Config{}, err
		}
		cfg.RefreshInterval = d
	}

	if fc.NoticeTimeout != "" {
		d, err := parsePositive("notice_timeout", fc.NoticeTimeout)
		if err != nil {
			return Config{}, err
		}
		cfg.NoticeTimeout = d
	}

	if fc.LogFile != "" {
		cfg.LogFile = expandHome(fc.LogFile, homeDir)
	}

	if fc.LogLevel != "" {
		level := strings.ToLower(strings.TrimSpace(fc.LogLevel))
		switch level {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = level
		default:
			return Config{}, fmt.Errorf("%w: log_level %q", ErrInvalid, fc.LogLevel)
		}
	}

	return cfg, nil
}

func withDataDir(cfg Config, dir string) Config {
	cfg.DataDir = dir
	cfg.JSONLPath = filepath.Join(dir, JSONLName)
	cfg.CSVPath = filepath.Join(dir, CSVName)
	return cfg
}

func parsePositive(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive", ErrInvalid, name)
	}
	return d, nil
}

func expandHome(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
