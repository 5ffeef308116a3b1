package logistics

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation wraps input rejected before any mutation or remote call
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when the target is not in the current state
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique key is already taken
	ErrConflict = errors.New("already exists")
	// ErrInvalidCredentials is returned by Authenticate on any mismatch
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// SyncError reports a mutation whose remote write failed. Local state for
// the listed ids was left untouched; the caller may retry.
type SyncError struct {
	Op  string
	IDs []string
	Err error
}

func (e *SyncError) Error() string {
	if len(e.IDs) == 0 {
		return fmt.Sprintf("sync failed during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("sync failed during %s for [%s]: %v", e.Op, strings.Join(e.IDs, ", "), e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}
