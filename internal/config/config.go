// Package config loads and saves tally's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/xolan/tally/internal/osutil"
)

const (
	// AppName is the application name used for config directory
	AppName = "tally"
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"
	// DatabaseFile is the default SQLite database file name
	DatabaseFile = "tally.db"
	// LogFile is the default log file name
	LogFile = "tally.log"
)

// Config represents the application configuration
type Config struct {
	// DatabasePath is the SQLite file. Empty means <config dir>/tally/tally.db.
	DatabasePath string `toml:"database_path"`
	// UserID is the acting user when --user is not given.
	UserID int64 `toml:"user_id"`
	// Timezone defines the timezone for time operations (IANA timezone name, e.g., "America/New_York")
	Timezone string `toml:"timezone"`
	// WeekStartDay defines which day starts the reporting week. Only monday is supported.
	WeekStartDay string `toml:"week_start_day"`
	// DeviationThreshold is the default allowed gap between expected and actual progress.
	DeviationThreshold float64 `toml:"deviation_threshold"`
	// Theme is the bubbletint theme id used by the TUI.
	Theme string `toml:"theme"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// LogFile is the rotating log file. Empty means <config dir>/tally/tally.log.
	LogFile string `toml:"log_file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserID:             1,
		Timezone:           "Local",
		WeekStartDay:       "monday",
		DeviationThreshold: 0.1,
		Theme:              "dracula",
		LogLevel:           "info",
	}
}

// AppDir returns <user config dir>/tally, creating it when missing.
func AppDir() (string, error) {
	configDir, err := osutil.Provider.UserConfigDir()
	if err != nil {
		return "", err
	}

	appDir := filepath.Join(configDir, AppName)
	if err := osutil.Provider.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}
	return appDir, nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	appDir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, ConfigFile), nil
}

// Load reads the config file at path. Missing keys keep their defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, falling back to DefaultConfig when the file does not exist.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// Save writes cfg to path as TOML.
func Save(path string, cfg Config) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Normalize lowercases enumerated values and fills empty ones with defaults.
func (c *Config) Normalize() {
	def := DefaultConfig()
	c.WeekStartDay = strings.ToLower(strings.TrimSpace(c.WeekStartDay))
	if c.WeekStartDay == "" {
		c.WeekStartDay = def.WeekStartDay
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if strings.TrimSpace(c.Timezone) == "" {
		c.Timezone = def.Timezone
	}
	if c.Theme == "" {
		c.Theme = def.Theme
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.UserID <= 0 {
		return fmt.Errorf("user_id must be positive, got %d", c.UserID)
	}
	if c.WeekStartDay != "monday" {
		return fmt.Errorf("week_start_day %q is not supported (reporting weeks start on monday)", c.WeekStartDay)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.DeviationThreshold < 0 || c.DeviationThreshold > 1 {
		return fmt.Errorf("deviation_threshold must be between 0 and 1, got %v", c.DeviationThreshold)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is invalid (use debug, info, warn or error)", c.LogLevel)
	}
	return nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ResolveDatabasePath returns DatabasePath or the default location. A
// leading "~/" is expanded and the parent directory created.
func (c Config) ResolveDatabasePath() (string, error) {
	return resolveFile(c.DatabasePath, DatabaseFile)
}

// ResolveLogFile returns LogFile or the default location, like
// ResolveDatabasePath.
func (c Config) ResolveLogFile() (string, error) {
	return resolveFile(c.LogFile, LogFile)
}

func resolveFile(configured, name string) (string, error) {
	if configured == "" {
		appDir, err := AppDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(appDir, name), nil
	}
	path, err := osutil.ExpandHome(configured)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", configured, err)
	}
	if err := osutil.EnsureParent(path); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return path, nil
}

// GenerateSampleConfig returns a commented config file with the defaults.
func GenerateSampleConfig() string {
	return `# tally configuration

# SQLite database file (default: <config dir>/tally/tally.db)
# database_path = "~/tally/tally.db"

# Acting user when --user is not given
user_id = 1

# IANA timezone name or "Local"
timezone = "Local"

# Reporting weeks run Monday to Sunday
week_start_day = "monday"

# Allowed gap between expected and actual completion ratio for 'tally check --expected'
deviation_threshold = 0.1

# TUI theme (any bubbletint id)
theme = "dracula"

# Logging: debug, info, warn or error
log_level = "info"
# log_file = "/path/to/tally.log"
`
}
