package reconcile

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic checks with errors.Is.
var (
	// ErrMalformedRecord marks a row missing a required key column. The row
	// is skipped and counted, never fatal to the batch.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrOrphanRef marks a dependent operation whose root key exists nowhere.
	ErrOrphanRef = errors.New("orphan reference")

	// ErrApplyFailed marks a batch whose transaction was rolled back.
	ErrApplyFailed = errors.New("apply failed")

	// ErrMissingSnapshot marks an entity type whose snapshot file could not
	// be obtained. The run aborts for that type instead of treating the
	// absence as "delete everything".
	ErrMissingSnapshot = errors.New("missing snapshot")
)

// MalformedRecordError reports which key column was absent from a raw row.
type MalformedRecordError struct {
	Entity string
	Column string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s: malformed record: key column %q is empty", e.Entity, e.Column)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }

// ApplyError wraps the transaction failure of one entity batch.
type ApplyError struct {
	Entity string
	Err    error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("%s: batch rolled back: %v", e.Entity, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrApplyFailed) match any ApplyError.
func (e *ApplyError) Is(target error) bool { return target == ErrApplyFailed }
