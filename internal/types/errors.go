// =============================================================================
// Payment Interval Analyzer - Batch Conditions
// =============================================================================
//
// Batch-level outcomes are expected data-quality states, not programming
// faults. Each has a Condition code so the caller can render it distinctly:
//
//   MalformedBatch   - the input could not be read as tabular data
//   NoUsableRows     - rows parsed, but none survived per-row checks
//   NoMatchingPairs  - informational, zero payments had both statuses in order
//   EmptyExport      - export requested with nothing to export
//
// Row-level problems never reach this layer; see the validation package.
//
// =============================================================================

package types

import (
	"errors"
	"fmt"
)

// Condition identifies a batch-level outcome.
type Condition string

const (
	ConditionNone            Condition = ""
	ConditionMalformedBatch  Condition = "malformed_batch"
	ConditionNoUsableRows    Condition = "no_usable_rows"
	ConditionNoMatchingPairs Condition = "no_matching_pairs"
	ConditionEmptyExport     Condition = "empty_export"
)

// Sentinel errors matched with errors.Is.
var (
	ErrMalformedBatch  = &BatchError{Condition: ConditionMalformedBatch}
	ErrNoUsableRows    = &BatchError{Condition: ConditionNoUsableRows}
	ErrEmptyExport     = &BatchError{Condition: ConditionEmptyExport}
	ErrNoSuccessfulIDs = errors.New("no valid payment IDs found in the file")
)

// BatchError reports a batch-level condition with a user-facing message.
type BatchError struct {
	Condition Condition
	Message   string
	Err       error
}

// NewBatchError creates a BatchError for the given condition.
func NewBatchError(condition Condition, message string, err error) *BatchError {
	return &BatchError{Condition: condition, Message: message, Err: err}
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Condition)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *BatchError) Unwrap() error {
	return e.Err
}

// Is matches any BatchError carrying the same condition.
func (e *BatchError) Is(target error) bool {
	t, ok := target.(*BatchError)
	if !ok {
		return false
	}
	return t.Condition == e.Condition
}

// ReadError reports a failure to acquire input content.
type ReadError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ReadError) Unwrap() error {
	return e.Err
}
