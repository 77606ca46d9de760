package service

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/xolan/tally/internal/config"
	"github.com/xolan/tally/internal/logging"
)

// ConfigService holds the effective configuration and writes changes back
// to the config file. It is safe for concurrent use.
type ConfigService struct {
	path string
	log  *slog.Logger

	mu  sync.RWMutex
	cfg config.Config
}

// NewConfigService serves cfg, which was read from path.
func NewConfigService(path string, cfg config.Config) *ConfigService {
	return &ConfigService{path: path, cfg: cfg, log: logging.Discard()}
}

// Get returns a copy of the current configuration.
func (s *ConfigService) Get() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// GetPath returns the config file path.
func (s *ConfigService) GetPath() string {
	return s.path
}

// Exists reports whether the config file is on disk.
func (s *ConfigService) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Update validates cfg, writes it and makes it current. An invalid cfg is
// rejected with KindValidation and leaves the file untouched.
func (s *ConfigService) Update(cfg config.Config) error {
	const op = "update config"
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return &Error{Kind: KindValidation, Op: op, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureDir(); err != nil {
		return &Error{Kind: KindInternal, Op: op, Err: err}
	}
	if err := config.Save(s.path, cfg); err != nil {
		return &Error{Kind: KindInternal, Op: op, Err: err}
	}
	s.cfg = cfg
	s.log.Info("config updated", "path", s.path)
	return nil
}

// SetTheme changes only the TUI theme and saves the result.
func (s *ConfigService) SetTheme(name string) error {
	cfg := s.Get()
	cfg.Theme = name
	return s.Update(cfg)
}

// Init writes the commented sample config. It fails with KindConflict when
// a config file is already present.
func (s *ConfigService) Init() error {
	const op = "init config"
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Exists() {
		return newError(KindConflict, op, "config file already exists at %s", s.path)
	}
	if err := s.ensureDir(); err != nil {
		return &Error{Kind: KindInternal, Op: op, Err: err}
	}
	if err := os.WriteFile(s.path, []byte(config.GenerateSampleConfig()), 0o644); err != nil {
		return &Error{Kind: KindInternal, Op: op, Msg: "failed to write config file", Err: err}
	}
	return nil
}

// Reload rereads the config file, falling back to defaults when it is
// missing. The current configuration is kept when the file is invalid.
func (s *ConfigService) Reload() error {
	cfg, err := config.LoadOrDefault(s.path)
	if err != nil {
		return &Error{Kind: KindValidation, Op: "reload config", Err: err}
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}

// ensureDir creates the config directory, which does not exist before the
// first write on a fresh machine. Only the last path element is created.
func (s *ConfigService) ensureDir() error {
	dir := filepath.Dir(s.path)
	if _, err := os.Stat(filepath.Dir(dir)); errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
