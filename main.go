package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/xolan/tally/cmd"
	"github.com/xolan/tally/internal/config"
)

// Version information injected by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var exitFunc = os.Exit

func main() {
	exitFunc(run())
}

// run checks that the config file is usable and executes the command line.
func run() int {
	path, err := config.GetConfigPath()
	if err == nil {
		_, err = config.LoadOrDefault(path)
	}
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: Invalid configuration\nDetails: %v\nHint: Fix or remove the config file, see 'tally config'\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
