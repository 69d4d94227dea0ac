// Package errs implements the engine's single error-quit path. The core
// never lets an error cross a package boundary silently: programmer errors
// (malformed requests, capacity overflow, storage failures) are fatal and
// go through Fatal; numerical errors from an external collaborator are
// returned as plain errors so the caller can decide how to react.
package errs

import (
	"fmt"

	"github.com/relcc/tcengine/internal/logx"
)

// Kind classifies a fatal error for diagnostic reporting.
type Kind int

const (
	KindMalformed Kind = iota
	KindCapacity
	KindStorage
	KindNumerical
)

func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed request"
	case KindCapacity:
		return "capacity"
	case KindStorage:
		return "storage"
	case KindNumerical:
		return "numerical"
	default:
		return "unknown"
	}
}

// Error is a typed engine error. Errors of KindMalformed/KindCapacity/
// KindStorage are always fatal; KindNumerical errors are returned to the
// caller without aborting.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("tcengine: %s: %s", e.Kind, e.Msg)
}

// New builds a typed error.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Fatal logs the diagnostic and aborts by panicking with a fatalExit that
// carries exit code 1. It is the only path by which a malformed-request,
// capacity, or storage error leaves the engine; engine operations never
// return these as Go errors. The CLI driver turns the panic back into a
// code with Recover and exits non-zero.
var exit = func(code int) { panic(fatalExit{code}) }

// fatalExit is recovered by the top-level driver's main loop via Recover,
// so tests can exercise Fatal without terminating the test binary.
type fatalExit struct{ code int }

func Fatal(err error) {
	logx.Default().Errorf("fatal: %v", err)
	exit(1)
}

// Recover converts a panic produced by Fatal back into an error, for use
// in tests and in the CLI driver's top-level recover.
func Recover() (code int, recovered bool) {
	if r := recover(); r != nil {
		if fe, ok := r.(fatalExit); ok {
			return fe.code, true
		}
		panic(r)
	}
	return 0, false
}
