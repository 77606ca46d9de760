package cli

import (
	"io"
	"os"

	"github.com/xolan/tally/internal/service"
)

// Deps contains all dependencies for CLI operations
type Deps struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Exit   func(code int)

	Services *service.Services

	// User is the acting user for every operation.
	User int64
}

// NewDeps creates a new Deps writing to the process streams
func NewDeps(services *service.Services, user int64) *Deps {
	return &Deps{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Stdin:    os.Stdin,
		Exit:     os.Exit,
		Services: services,
		User:     user,
	}
}
