package service

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/xolan/tally/internal/config"
)

func newTestConfigService(t *testing.T) *ConfigService {
	t.Helper()
	return NewConfigService(filepath.Join(t.TempDir(), "tally", "config.toml"), config.DefaultConfig())
}

func TestConfigService_GetAndPath(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.UserID = 7
	svc := NewConfigService("/tmp/tally/config.toml", cfg)

	if got := svc.Get(); got.UserID != 7 || got.WeekStartDay != cfg.WeekStartDay {
		t.Errorf("Get() = %+v, want %+v", got, cfg)
	}
	if svc.GetPath() != "/tmp/tally/config.toml" {
		t.Errorf("GetPath() = %q", svc.GetPath())
	}
}

func TestConfigService_GetReturnsCopy(t *testing.T) {
	svc := newTestConfigService(t)
	cfg := svc.Get()
	cfg.Theme = "changed"
	if svc.Get().Theme == "changed" {
		t.Error("modifying the returned config must not change the service")
	}
}

func TestConfigService_Update(t *testing.T) {
	svc := newTestConfigService(t)
	if svc.Exists() {
		t.Fatal("expected no config file yet")
	}

	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	cfg.DeviationThreshold = 0.25
	if err := svc.Update(cfg); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !svc.Exists() {
		t.Fatal("expected Update to create the config file and its directory")
	}

	content, err := os.ReadFile(svc.GetPath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), `timezone = "UTC"`) {
		t.Errorf("written config lacks the timezone:\n%s", content)
	}

	if err := svc.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got := svc.Get(); got.Timezone != "UTC" || got.DeviationThreshold != 0.25 {
		t.Errorf("after reload got %+v", got)
	}
}

func TestConfigService_Update_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"week start", func(c *config.Config) { c.WeekStartDay = "sunday" }},
		{"user", func(c *config.Config) { c.UserID = 0 }},
		{"threshold", func(c *config.Config) { c.DeviationThreshold = 1.5 }},
		{"timezone", func(c *config.Config) { c.Timezone = "Mars/Olympus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestConfigService(t)
			cfg := config.DefaultConfig()
			tt.mutate(&cfg)

			err := svc.Update(cfg)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Update() error = %v, want a validation error", err)
			}
			if svc.Exists() {
				t.Error("an invalid config must not be written")
			}
			if svc.Get().UserID != config.DefaultConfig().UserID {
				t.Error("an invalid config must not become current")
			}
		})
	}
}

func TestConfigService_SetTheme(t *testing.T) {
	svc := newTestConfigService(t)
	if err := svc.SetTheme("dracula"); err != nil {
		t.Fatalf("SetTheme() error = %v", err)
	}

	reread := NewConfigService(svc.GetPath(), config.DefaultConfig())
	if err := reread.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if reread.Get().Theme != "dracula" {
		t.Errorf("saved theme = %q, want dracula", reread.Get().Theme)
	}
}

func TestConfigService_Init(t *testing.T) {
	svc := newTestConfigService(t)

	if err := svc.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := svc.Reload(); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if err := svc.Init(); !errors.Is(err, ErrConflict) {
		t.Errorf("second Init() error = %v, want a conflict", err)
	}
}

func TestConfigService_Reload_InvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("invalid toml {{{"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.UserID = 3
	svc := NewConfigService(configPath, cfg)
	if err := svc.Reload(); err == nil {
		t.Fatal("expected error for invalid config file")
	}
	if svc.Get().UserID != 3 {
		t.Error("a failed reload must keep the current config")
	}
}

func TestConfigService_WriteErrors(t *testing.T) {
	svc := NewConfigService("/nonexistent/dir/config.toml", config.DefaultConfig())

	if err := svc.Update(config.DefaultConfig()); !errors.Is(err, ErrInternal) {
		t.Errorf("Update() error = %v, want an internal error", err)
	}
	if err := svc.Init(); err == nil {
		t.Error("Init: expected error for invalid path")
	}
}

func TestConfigService_ConcurrentAccess(t *testing.T) {
	svc := newTestConfigService(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = svc.SetTheme("dracula")
		}()
		go func() {
			defer wg.Done()
			_ = svc.Get()
		}()
	}
	wg.Wait()

	if svc.Get().Theme != "dracula" {
		t.Errorf("theme = %q, want dracula", svc.Get().Theme)
	}
}
