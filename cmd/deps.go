package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xolan/tally/internal/cli"
	"github.com/xolan/tally/internal/service"
	"github.com/xolan/tally/internal/timeutil"
)

// Deps holds external dependencies for CLI commands, enabling testability.
type Deps struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Stdin    io.Reader
	Exit     func(code int)
	Services func(ctx context.Context) (*service.Services, error)
}

// DefaultDeps returns the default production dependencies.
func DefaultDeps() *Deps {
	return &Deps{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Stdin:    os.Stdin,
		Exit:     os.Exit,
		Services: service.NewServices,
	}
}

// deps is the global dependencies instance used by commands.
// In production, this is DefaultDeps(). Tests can replace it.
var deps = DefaultDeps()

// SetDeps sets the global dependencies (for testing).
func SetDeps(d *Deps) {
	deps = d
}

// ResetDeps resets dependencies to defaults (for testing cleanup).
func ResetDeps() {
	deps = DefaultDeps()
}

// bare returns handler deps without services, for failures raised before
// the database is opened.
func bare() *cli.Deps {
	return &cli.Deps{Stdout: deps.Stdout, Stderr: deps.Stderr, Stdin: deps.Stdin, Exit: deps.Exit}
}

// withServices opens the services, resolves the acting user and runs fn.
// The user comes from --user, falling back to user_id in the config file.
func withServices(cmd *cobra.Command, fn func(ctx context.Context, d *cli.Deps)) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	services, err := deps.Services(ctx)
	if err != nil {
		bare().Fail("Failed to initialize", err, "Check the config file with 'tally config' and the database path it names")
		return
	}
	defer func() { _ = services.Close() }()

	user := services.Config.Get().UserID
	if cmd.Flags().Changed("user") {
		if user, err = cmd.Flags().GetInt64("user"); err != nil {
			bare().Fail("Invalid --user", err, "")
			return
		}
	}
	if user <= 0 {
		bare().Fail("No acting user", nil, "Pass --user <id> or set user_id in the config file")
		return
	}

	d := cli.NewDeps(services, user)
	d.Stdout, d.Stderr, d.Stdin, d.Exit = deps.Stdout, deps.Stderr, deps.Stdin, deps.Exit
	fn(ctx, d)
}

// parserFor returns a date parser in the configured timezone that reads the
// service clock.
func parserFor(d *cli.Deps) *timeutil.Parser {
	p := timeutil.NewParser(d.Services.Entry.Now().Location())
	p.Now = d.Services.Entry.Now
	return p
}

// idArg parses args[i] as an id, or returns 0 when the argument is absent.
func idArg(d *cli.Deps, args []string, i int, what string) (int64, bool) {
	if len(args) <= i {
		return 0, true
	}
	id, err := cli.ParseID(args[i], what)
	if err != nil {
		d.Fail("Invalid "+what+" id", err, "")
		return 0, false
	}
	return id, true
}
