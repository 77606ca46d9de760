package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/service"
)

// ShowConfig prints the effective configuration, where it came from and the
// database in use.
func ShowConfig(deps *cli.Deps) {
	cfg := deps.Services.Config.Get()

	source := "Using defaults (no config file)"
	if deps.Services.Config.Exists() {
		source = "File exists"
	}

	rows := []struct{ key, value string }{
		{"database_path", orDefault(cfg.DatabasePath)},
		{"user_id", fmt.Sprint(cfg.UserID)},
		{"timezone", cfg.Timezone},
		{"week_start_day", cfg.WeekStartDay},
		{"deviation_threshold", fmt.Sprintf("%.2f", cfg.DeviationThreshold)},
		{"theme", cfg.Theme},
		{"log_level", cfg.LogLevel},
		{"log_file", orDefault(cfg.LogFile)},
	}

	w := deps.Stdout
	_, _ = fmt.Fprintln(w, "Configuration:")
	_, _ = fmt.Fprintln(w, strings.Repeat("=", 50))
	_, _ = fmt.Fprintf(w, "Config file: %s\n", deps.Services.Config.GetPath())
	_, _ = fmt.Fprintf(w, "Status: %s\n", source)
	_, _ = fmt.Fprintf(w, "Database: %s\n", deps.Services.Maintenance.DatabasePath())
	_, _ = fmt.Fprintf(w, "Acting user: %d\n", deps.User)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", 50))
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%-20s %s\n", r.key+":", r.value)
	}
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}

// InitConfig writes the commented sample config file.
func InitConfig(deps *cli.Deps) {
	err := deps.Services.Config.Init()
	switch {
	case errors.Is(err, service.ErrConflict):
		deps.Fail("Failed to create config file", err, "Edit the existing file or remove it first")
		return
	case err != nil:
		deps.Fail("Failed to create config file", err, "")
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Created config file: %s\n", deps.Services.Config.GetPath())
	_, _ = fmt.Fprintln(deps.Stdout, "Edit this file to customize your settings.")
}
