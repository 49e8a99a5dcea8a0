// =============================================================================
// Payment Interval Analyzer - Result Filter
// =============================================================================
//
// Narrows a result set with optional AND-combined predicates. Filtering never
// mutates its input: the canonical result set stays intact and callers get a
// fresh slice holding the surviving rows in their original order.
//
// PREDICATES:
//   Date            - exact match on the DD/MM/YYYY date
//   TerminalID      - case-sensitive substring of the terminal id
//   PaymentID       - case-sensitive substring of the payment id
//   TimeDifference  - interval strictly above N seconds
//   OnlySuccessful  - payment id present in the allow-set (no-op without one)
//
// =============================================================================

package filter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
)

// Criteria holds the active predicates. The zero value keeps every result.
type Criteria struct {
	Date       string
	TerminalID string
	PaymentID  string

	// TimeDifference is a threshold in whole seconds; nil disables it.
	TimeDifference *int64

	OnlySuccessful bool
}

// IsEmpty reports whether no predicate is active.
func (c Criteria) IsEmpty() bool {
	return c.Date == "" && c.TerminalID == "" && c.PaymentID == "" &&
		c.TimeDifference == nil && !c.OnlySuccessful
}

// Seconds is a convenience for building a TimeDifference threshold.
func Seconds(n int64) *int64 {
	return &n
}

// Filter returns the results matching every active predicate.
//
// PARAMETERS:
//   - results: the canonical result set (not modified)
//   - criteria: predicates to apply
//   - allow: successful payment ids; nil disables OnlySuccessful
//
// RETURNS:
//   - A new slice, never aliasing results
func Filter(results []types.IntervalResult, criteria Criteria, allow types.SuccessfulPaymentSet) []types.IntervalResult {
	filtered := make([]types.IntervalResult, 0, len(results))

	for _, r := range results {
		if matches(r, criteria, allow) {
			filtered = append(filtered, r)
		}
	}

	return filtered
}

// matches evaluates all predicates against one result.
func matches(r types.IntervalResult, c Criteria, allow types.SuccessfulPaymentSet) bool {
	if c.Date != "" && r.Date != c.Date {
		return false
	}

	if c.TerminalID != "" && !strings.Contains(r.TerminalID, c.TerminalID) {
		return false
	}

	if c.PaymentID != "" && !strings.Contains(r.PaymentID, c.PaymentID) {
		return false
	}

	if c.TimeDifference != nil {
		ms, err := strconv.ParseInt(r.TimeDifferenceMs, 10, 64)
		if err != nil || !exceedsSeconds(ms, *c.TimeDifference) {
			return false
		}
	}

	if c.OnlySuccessful && allow != nil && !allow.Contains(r.PaymentID) {
		return false
	}

	return true
}

// exceedsSeconds reports whether ms is strictly greater than seconds*1000
// without forming the product, which can overflow int64.
func exceedsSeconds(ms, seconds int64) bool {
	whole, rem := ms/1000, ms%1000
	if rem < 0 {
		whole--
		rem += 1000
	}
	return whole > seconds || (whole == seconds && rem > 0)
}

// AvailableDates returns the distinct non-empty dates in results, sorted.
func AvailableDates(results []types.IntervalResult) []string {
	seen := make(map[string]struct{})
	dates := []string{}

	for _, r := range results {
		if r.Date == "" {
			continue
		}
		if _, ok := seen[r.Date]; ok {
			continue
		}
		seen[r.Date] = struct{}{}
		dates = append(dates, r.Date)
	}

	sort.Strings(dates)
	return dates
}
