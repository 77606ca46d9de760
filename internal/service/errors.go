package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xolan/tally/internal/model"
	"github.com/xolan/tally/internal/storage"
)

// Kind classifies service errors so callers can branch on them.
type Kind int

const (
	// KindInternal covers unexpected failures. The transaction was rolled back.
	KindInternal Kind = iota
	KindNotFound
	KindInvalidState
	KindUnauthorized
	KindConflict
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalidState:
		return "invalid state"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation failed"
	default:
		return "internal error"
	}
}

// Error is the error type returned by every service operation.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrInvalidState = &Error{Kind: KindInvalidState}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrValidation   = &Error{Kind: KindValidation}
	ErrInternal     = &Error{Kind: KindInternal}
)

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Msg != "" && e.Err != nil:
		b.WriteString(e.Msg + ": " + e.Err.Error())
	case e.Msg != "":
		b.WriteString(e.Msg)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(e.Kind.String())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a bare sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Msg != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of err. Validation errors from the model count as
// KindValidation; anything unclassified is KindInternal.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return KindValidation
	}
	if errors.Is(err, storage.ErrNotFound) {
		return KindNotFound
	}
	if errors.Is(err, storage.ErrOpenEntryExists) {
		return KindConflict
	}
	return KindInternal
}

func newError(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// wrap classifies err for op. Errors that already carry a kind keep it.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		if se.Op == "" {
			return &Error{Kind: se.Kind, Op: op, Msg: se.Msg, Err: se.Err}
		}
		return err
	}
	return &Error{Kind: KindOf(err), Op: op, Err: err}
}
