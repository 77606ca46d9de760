package cli

import (
	"fmt"

	"github.com/xolan/tally/internal/service"
)

// Fail prints summary and err as Error/Details lines followed by a hint,
// then exits with status 1. An empty hint falls back to one derived from
// the error kind.
func (d *Deps) Fail(summary string, err error, hint string) {
	_, _ = fmt.Fprintf(d.Stderr, "Error: %s\n", summary)
	if err != nil {
		_, _ = fmt.Fprintf(d.Stderr, "Details: %v\n", err)
	}
	if hint == "" {
		hint = HintFor(err)
	}
	if hint != "" {
		_, _ = fmt.Fprintf(d.Stderr, "Hint: %s\n", hint)
	}
	d.Exit(1)
}

// HintFor suggests a next step for an error kind.
func HintFor(err error) string {
	if err == nil {
		return ""
	}
	switch service.KindOf(err) {
	case service.KindNotFound:
		return "List ids with 'tally list', 'tally task list' or 'tally project list'"
	case service.KindInvalidState:
		return "Check the entry state with 'tally status'"
	case service.KindUnauthorized:
		return "Act as the owner with --user <id>"
	case service.KindConflict:
		return "Stop or pause the open entry first; 'tally status' lists open entries"
	case service.KindValidation:
		return ""
	default:
		return "Run 'tally doctor' to check the database"
	}
}
