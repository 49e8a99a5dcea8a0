// =============================================================================
// Payment Interval Analyzer - Shared Types
// =============================================================================
//
// This package contains the data model shared by every pipeline stage. Keeping
// it in one leaf package avoids import cycles between:
//   - csvparser / xlsxparser (produce RawRow)
//   - record                 (produces NormalizedEvent)
//   - aggregator / interval  (produce IntervalResult)
//   - filter / export        (consume IntervalResult)
//
// =============================================================================

package types

// =============================================================================
// INPUT TYPES
// =============================================================================

// RawRow maps a normalized (trimmed, lower-cased) column name to its cell value.
// Rows are transient: they are discarded once the record parser has run.
type RawRow map[string]string

// Column names read from the primary event log (already normalized).
const (
	ColumnPaymentID  = "payment id"
	ColumnTerminalID = "terminal id"
	ColumnMerchantID = "merchant id"
	ColumnEvent      = "event"
	ColumnEventBody  = "event body"
	ColumnCreatedAt  = "created at"
	ColumnTimestamp  = "timestamp"
)

// ColumnSuccessfulPaymentID is the exact-case column of the allow-set file.
const ColumnSuccessfulPaymentID = "paymentId"

// =============================================================================
// EVENT TYPES
// =============================================================================

// NormalizedEvent is one usable row of the event log.
//
// PaymentID and Timestamp are never empty and Status is always resolved.
// Date is the DD/MM/YYYY rendition of Timestamp and is treated downstream as
// an opaque key.
type NormalizedEvent struct {
	PaymentID  string
	Timestamp  string
	Status     int
	TerminalID string
	MerchantID string
	Date       string

	// RowNumber is the 1-indexed data row the event came from.
	RowNumber int
}

// =============================================================================
// RESULT TYPES
// =============================================================================

// IntervalResult is the measured interval of one payment.
type IntervalResult struct {
	PaymentID      string
	FromStatusTime string
	ToStatusTime   string

	// TimeDifferenceMs is a non-negative base-10 integer carried as text.
	TimeDifferenceMs string

	TerminalID string
	MerchantID string
	Date       string
	FromStatus int
	ToStatus   int
}

// SuccessfulPaymentSet is the allow-set of payment identifiers loaded from the
// secondary input. A nil set means the "only successful" filter is inactive.
type SuccessfulPaymentSet map[string]struct{}

// NewSuccessfulPaymentSet builds a set from the given identifiers, ignoring
// empty values.
func NewSuccessfulPaymentSet(ids ...string) SuccessfulPaymentSet {
	set := make(SuccessfulPaymentSet, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Contains reports whether paymentID is in the set.
func (s SuccessfulPaymentSet) Contains(paymentID string) bool {
	_, ok := s[paymentID]
	return ok
}

// Len returns the number of identifiers in the set.
func (s SuccessfulPaymentSet) Len() int {
	return len(s)
}
