// Package service provides the business logic layer for tally. It runs the
// entry lifecycle, keeps task and project totals in step with entries and
// builds the reports and notifications used by the CLI and TUI frontends.
// Every operation takes the acting user explicitly.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xolan/tally/internal/config"
	"github.com/xolan/tally/internal/logging"
	"github.com/xolan/tally/internal/storage"
)

// Services holds all service instances used by the application
type Services struct {
	Entry       *EntryService
	Project     *ProjectService
	Task        *TaskService
	Report      *ReportService
	Notify      *NotifyService
	Maintenance *MaintenanceService
	Config      *ConfigService

	db     *storage.DB
	closer io.Closer
}

// base is the state shared by all services.
type base struct {
	db   *storage.DB
	now  func() time.Time
	loc  *time.Location
	log  *slog.Logger
	auth Authorizer
}

// Option customizes the services built by NewServicesWithDB.
type Option func(*base)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(b *base) { b.log = l }
}

// WithAuthorizer replaces OwnershipAuthorizer.
func WithAuthorizer(a Authorizer) Option {
	return func(b *base) { b.auth = a }
}

// NewServices loads the user's configuration, opens the log file and the
// database, and wires every service.
func NewServices(ctx context.Context) (*Services, error) {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	logPath, err := cfg.ResolveLogFile()
	if err != nil {
		return nil, err
	}
	logger, logCloser, err := logging.NewFile(logPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dbPath, err := cfg.ResolveDatabasePath()
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}
	db, err := storage.Open(ctx, dbPath)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}

	s, err := NewServicesWithDB(db, configPath, cfg, WithLogger(logger))
	if err != nil {
		_ = db.Close()
		_ = logCloser.Close()
		return nil, err
	}
	s.closer = logCloser
	return s, nil
}

// NewServicesWithDB wires the services around an open database (useful for testing)
func NewServicesWithDB(db *storage.DB, configPath string, cfg config.Config, opts ...Option) (*Services, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	b := &base{
		db:   db,
		now:  time.Now,
		loc:  loc,
		log:  logging.Discard(),
		auth: OwnershipAuthorizer{},
	}
	for _, opt := range opts {
		opt(b)
	}

	cfgService := NewConfigService(configPath, cfg)
	cfgService.log = b.log

	return &Services{
		Entry:       &EntryService{base: b},
		Project:     &ProjectService{base: b},
		Task:        &TaskService{base: b},
		Report:      &ReportService{base: b},
		Notify:      &NotifyService{base: b, threshold: cfg.DeviationThreshold},
		Maintenance: &MaintenanceService{base: b},
		Config:      cfgService,
		db:          db,
	}, nil
}

// Close releases the database and the log file.
func (s *Services) Close() error {
	var errs []error
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	if s.closer != nil {
		errs = append(errs, s.closer.Close())
	}
	return errors.Join(errs...)
}

// clock returns the current time in the configured location.
func (b *base) clock() time.Time {
	return b.now().In(b.loc)
}

// tx runs fn in a transaction and classifies the resulting error for op.
// Unexpected failures are logged since the caller only sees the kind.
func (b *base) tx(ctx context.Context, op string, fn func(q *storage.Queries) error) error {
	err := b.db.WithTx(ctx, fn)
	if err == nil {
		return nil
	}
	err = wrap(op, err)
	if KindOf(err) == KindInternal {
		b.log.Warn("transaction rolled back", "op", op, "error", err)
	} else {
		b.log.Debug("operation rejected", "op", op, "error", err)
	}
	return err
}
