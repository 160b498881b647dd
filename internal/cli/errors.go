package cli

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitErr carries the process exit code for a failed command.
type exitErr struct {
	code int
	err  error
}

func (e *exitErr) Error() string { return e.err.Error() }
func (e *exitErr) Unwrap() error { return e.err }

// sysError marks err as an environment or storage failure (exit 2).
func sysError(format string, args ...any) error {
	return &exitErr{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// storageFailures are engine errors that exit with the system code.
var storageFailures = []error{
	types.ErrDeleteFailed,
	types.ErrStoreDetached,
}

// exitCode maps an error returned by a command to a process exit code.
// Errors not marked by sysError are user errors unless they wrap a
// storage failure.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var e *exitErr
	if errors.As(err, &e) {
		return e.code
	}
	for _, target := range storageFailures {
		if errors.Is(err, target) {
			return exitSysError
		}
	}
	return exitUserError
}
