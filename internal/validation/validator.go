// =============================================================================
// Payment Interval Analyzer - Row Validation
// =============================================================================
//
// This module decides whether a single event-log row is usable and records
// why it was not. A row is dropped, never fatal, when:
//   - the payment id is empty or missing
//   - neither "created at" nor "timestamp" holds a value
//   - no lifecycle status can be read from the event body
//
// ERROR HANDLING:
//   - Problems are collected in a Report, not returned as errors
//   - Each entry carries the row number, field and offending value
//   - The Report can be logged or written to a skip log for troubleshooting
//
// =============================================================================

package validation

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
)

// =============================================================================
// ROW ERROR TYPES
// =============================================================================

// Reason classifies why a row was skipped.
type Reason string

const (
	ReasonMissingPaymentID Reason = "missing_payment_id"
	ReasonMissingTimestamp Reason = "missing_timestamp"
	ReasonNoStatus         Reason = "no_status"
)

// RowError represents a single skipped row.
type RowError struct {
	// RowNumber is the 1-indexed data row (header excluded).
	RowNumber int

	// Field is the column that made the row unusable.
	Field string

	// Value is the offending value (may be empty).
	Value string

	// Reason is the machine-readable classification.
	Reason Reason

	// Message is a human-readable explanation.
	Message string
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("[WARNING] Row %d, Field '%s': %s (value: '%s')",
		e.RowNumber, e.Field, e.Message, truncate(e.Value, 80))
}

// =============================================================================
// REPORT
// =============================================================================

// Report collects row-level skips for one batch.
type Report struct {
	// RowsSeen is the number of rows inspected.
	RowsSeen int

	// RowsAccepted is the number of rows that produced an event.
	RowsAccepted int

	// Skipped contains one entry per dropped row, in row order.
	Skipped []*RowError
}

// Add records a skipped row.
func (r *Report) Add(e *RowError) {
	r.Skipped = append(r.Skipped, e)
}

// SkippedCount returns the number of dropped rows.
func (r *Report) SkippedCount() int {
	return len(r.Skipped)
}

// CountByReason groups the skipped rows by reason.
func (r *Report) CountByReason() map[Reason]int {
	counts := make(map[Reason]int)
	for _, e := range r.Skipped {
		counts[e.Reason]++
	}
	return counts
}

// =============================================================================
// ROW CHECKS
// =============================================================================

// ResolveTimestamp returns "created at", falling back to "timestamp".
func ResolveTimestamp(row types.RawRow) string {
	if v := row[types.ColumnCreatedAt]; v != "" {
		return v
	}
	return row[types.ColumnTimestamp]
}

// ValidateRow checks the identifier and timestamp of a row.
//
// PARAMETERS:
//   - row: The raw row.
//   - rowNumber: The 1-indexed data row number, for reporting.
//
// RETURNS:
//   - nil if the row can proceed to status extraction, otherwise a RowError.
func ValidateRow(row types.RawRow, rowNumber int) *RowError {
	if row[types.ColumnPaymentID] == "" {
		return &RowError{
			RowNumber: rowNumber,
			Field:     types.ColumnPaymentID,
			Reason:    ReasonMissingPaymentID,
			Message:   "payment id is missing",
		}
	}

	if ResolveTimestamp(row) == "" {
		return &RowError{
			RowNumber: rowNumber,
			Field:     types.ColumnCreatedAt,
			Reason:    ReasonMissingTimestamp,
			Message:   "neither created at nor timestamp is set",
		}
	}

	return nil
}

// NoStatus builds the RowError for an event body without a readable status.
func NoStatus(rowNumber int, body string) *RowError {
	return &RowError{
		RowNumber: rowNumber,
		Field:     types.ColumnEventBody,
		Value:     body,
		Reason:    ReasonNoStatus,
		Message:   "no status found in event body",
	}
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats the report for display or logging.
func FormatErrors(r *Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Rows inspected: %d, accepted: %d, skipped: %d\n",
		r.RowsSeen, r.RowsAccepted, r.SkippedCount())

	counts := r.CountByReason()
	reasons := make([]string, 0, len(counts))
	for reason := range counts {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(&sb, "  %s: %d\n", reason, counts[Reason(reason)])
	}

	for _, e := range r.Skipped {
		sb.WriteString(e.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// WriteErrorLog writes the report to a log file.
//
// PARAMETERS:
//   - r: The report to write.
//   - filePath: The path to the output file.
//
// RETURNS:
//   - An error if writing fails.
func WriteErrorLog(r *Report, filePath string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Skipped rows report - %s\n\n", time.Now().Format(time.RFC3339))
	sb.WriteString(FormatErrors(r))

	if err := os.WriteFile(filePath, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write skip log: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
