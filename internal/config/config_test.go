package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xolan/tally/internal/osutil"
)

// Helper to create a temporary config file
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	return tmpFile
}

type failingProvider struct{}

func (failingProvider) UserConfigDir() (string, error) {
	return "", errors.New("permission denied")
}

func (failingProvider) MkdirAll(string, os.FileMode) error {
	return nil
}

func (failingProvider) UserHomeDir() (string, error) {
	return "", errors.New("permission denied")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.WeekStartDay != "monday" {
		t.Errorf("DefaultConfig().WeekStartDay = %q, expected %q", cfg.WeekStartDay, "monday")
	}
	if cfg.Timezone != "Local" {
		t.Errorf("DefaultConfig().Timezone = %q, expected %q", cfg.Timezone, "Local")
	}
	if cfg.UserID != 1 {
		t.Errorf("DefaultConfig().UserID = %d, expected 1", cfg.UserID)
	}
	if cfg.DeviationThreshold != 0.1 {
		t.Errorf("DefaultConfig().DeviationThreshold = %v, expected 0.1", cfg.DeviationThreshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() should be valid, got %v", err)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
		check         func(t *testing.T, cfg Config)
	}{
		{
			name: "all fields set",
			configContent: `database_path = "/tmp/t.db"
user_id = 7
timezone = "UTC"
week_start_day = "Monday"
deviation_threshold = 0.25
theme = "nord"
log_level = "DEBUG"
log_file = "/tmp/t.log"`,
			check: func(t *testing.T, cfg Config) {
				if cfg.DatabasePath != "/tmp/t.db" || cfg.UserID != 7 || cfg.Timezone != "UTC" {
					t.Errorf("unexpected config: %+v", cfg)
				}
				if cfg.WeekStartDay != "monday" {
					t.Errorf("expected normalized week start, got %q", cfg.WeekStartDay)
				}
				if cfg.LogLevel != "debug" {
					t.Errorf("expected normalized log level, got %q", cfg.LogLevel)
				}
				if cfg.DeviationThreshold != 0.25 {
					t.Errorf("expected threshold 0.25, got %v", cfg.DeviationThreshold)
				}
			},
		},
		{
			name:          "partial config keeps defaults",
			configContent: `user_id = 3`,
			check: func(t *testing.T, cfg Config) {
				if cfg.UserID != 3 {
					t.Errorf("expected user 3, got %d", cfg.UserID)
				}
				if cfg.Timezone != "Local" || cfg.Theme != "dracula" || cfg.LogLevel != "info" {
					t.Errorf("expected defaults for unset keys, got %+v", cfg)
				}
			},
		},
		{
			name:          "empty file",
			configContent: "",
			check: func(t *testing.T, cfg Config) {
				if cfg != DefaultConfig() {
					t.Errorf("expected defaults, got %+v", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(createTempConfigFile(t, tt.configContent))
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
		contains      string
	}{
		{"bad toml", `user_id = `, "failed to parse"},
		{"unknown key", `colour = "blue"`, "unknown config keys"},
		{"sunday week", `week_start_day = "sunday"`, "not supported"},
		{"bad timezone", `timezone = "Mars/Olympus"`, "invalid timezone"},
		{"bad threshold", `deviation_threshold = 2.0`, "deviation_threshold"},
		{"bad log level", `log_level = "trace"`, "log_level"},
		{"bad user", `user_id = 0`, "user_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(createTempConfigFile(t, tt.configContent))
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Load() error = %q, expected to contain %q", err.Error(), tt.contains)
			}
		})
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() unexpected error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.UserID = 42
	cfg.Timezone = "UTC"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if loaded != cfg {
		t.Errorf("round trip mismatch: saved %+v, loaded %+v", cfg, loaded)
	}
}

func TestSave_RejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "verbose"
	if err := Save(filepath.Join(t.TempDir(), "config.toml"), cfg); err == nil {
		t.Error("Save() expected error for invalid config")
	}
}

func TestSampleConfigIsLoadable(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, GenerateSampleConfig()))
	if err != nil {
		t.Fatalf("sample config should load, got %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("sample config should match defaults, got %+v", cfg)
	}
}

func TestPaths(t *testing.T) {
	tmpDir := t.TempDir()
	osutil.SetProvider(osutil.DirProvider{Dir: tmpDir})
	defer osutil.ResetProvider()

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() unexpected error: %v", err)
	}
	if configPath != filepath.Join(tmpDir, AppName, ConfigFile) {
		t.Errorf("GetConfigPath() = %s", configPath)
	}

	cfg := DefaultConfig()
	dbPath, err := cfg.ResolveDatabasePath()
	if err != nil {
		t.Fatalf("ResolveDatabasePath() unexpected error: %v", err)
	}
	if dbPath != filepath.Join(tmpDir, AppName, DatabaseFile) {
		t.Errorf("ResolveDatabasePath() = %s", dbPath)
	}

	cfg.DatabasePath = "~/custom/tally.db"
	dbPath, err = cfg.ResolveDatabasePath()
	if err != nil {
		t.Fatalf("ResolveDatabasePath() unexpected error: %v", err)
	}
	if dbPath != filepath.Join(tmpDir, "custom", "tally.db") {
		t.Errorf("ResolveDatabasePath() should expand the home dir, got %s", dbPath)
	}
	if info, err := os.Stat(filepath.Join(tmpDir, "custom")); err != nil || !info.IsDir() {
		t.Error("ResolveDatabasePath() should create the parent directory")
	}

	logPath, err := cfg.ResolveLogFile()
	if err != nil {
		t.Fatalf("ResolveLogFile() unexpected error: %v", err)
	}
	if logPath != filepath.Join(tmpDir, AppName, LogFile) {
		t.Errorf("ResolveLogFile() = %s", logPath)
	}
}

func TestPaths_ProviderError(t *testing.T) {
	osutil.SetProvider(failingProvider{})
	defer osutil.ResetProvider()

	if _, err := GetConfigPath(); err == nil {
		t.Error("GetConfigPath() expected error")
	}
	if _, err := DefaultConfig().ResolveDatabasePath(); err == nil {
		t.Error("ResolveDatabasePath() expected error")
	}
	cfg := DefaultConfig()
	cfg.LogFile = "~/tally.log"
	if _, err := cfg.ResolveLogFile(); err == nil {
		t.Error("ResolveLogFile() expected the home dir error")
	}
}
