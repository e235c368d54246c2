package pagination

import (
	"errors"
	"fmt"
)

// Sentinel errors for caller input validation.
var (
	// ErrInvalidSortSpec is returned when the sort spec is empty or malformed
	ErrInvalidSortSpec = errors.New("sort spec must contain at least one field")
	// ErrInvalidLimit is returned when the requested page size is not positive
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)

// InvalidCursorError is returned when a cursor token cannot be decoded or
// does not match the sort spec in effect.
type InvalidCursorError struct {
	Reason string
	Err    error
}

func (e *InvalidCursorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid cursor: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid cursor: %s", e.Reason)
}

func (e *InvalidCursorError) Unwrap() error {
	return e.Err
}

// ExecutionError wraps a driver or transport error that occurred while
// running the paginated find or count. The underlying error is preserved
// unchanged and reachable through Unwrap.
type ExecutionError struct {
	Op  string // "find" or "count"
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("pagination %s failed: %v", e.Op, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// ContractViolationError signals a broken internal invariant, e.g. an
// executor returning more rows than it was asked for. It is used as a panic
// value, never as a returned error: truncating silently would corrupt the
// has-next/has-previous computation.
type ContractViolationError struct {
	Expected int
	Actual   int
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("executor contract violation: returned %d rows, at most %d requested", e.Actual, e.Expected)
}
