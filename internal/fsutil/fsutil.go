// Package fsutil provides small filesystem helpers shared by the
// conversion tools.
package fsutil

import (
	"errors"
	"fmt"
	"os"
)

// State classifies the outcome of a best-effort removal.
type State int

const (
	// Deleted means the file existed and was removed.
	Deleted State = iota

	// AlreadyAbsent means there was nothing to remove.
	AlreadyAbsent

	// Failed means the file exists but could not be removed.
	Failed
)

// String returns a short name for the state.
func (s State) String() string {
	switch s {
	case Deleted:
		return "deleted"
	case AlreadyAbsent:
		return "already absent"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Result is the outcome of a Remove call.  Err is set only when State
// is Failed.
type Result struct {
	State State
	Err   error
}

// Ok reports whether the path is gone, either because it was removed
// or because it never existed.
func (r Result) Ok() bool {
	return r.State != Failed
}

// Remove deletes path if it exists.  Unlike os.Remove it distinguishes
// "nothing to delete" from a real failure instead of forcing callers to
// swallow errors.  It is idempotent and safe on cleanup paths.
func Remove(path string) Result {
	err := os.Remove(path)
	switch {
	case err == nil:
		return Result{State: Deleted}
	case errors.Is(err, os.ErrNotExist):
		return Result{State: AlreadyAbsent}
	default:
		return Result{State: Failed, Err: err}
	}
}
