// =============================================================================
// Payment Interval Analyzer - Interval Calculator
// =============================================================================
//
// Computes, per payment, the elapsed time between the first "from" status
// event and the first "to" status event.
//
// A payment produces a result only when:
//   - both events exist (see aggregator.SelectPair)
//   - both timestamps parse
//   - the "to" timestamp is strictly after the "from" timestamp
//
// Anything else is silently excluded. Results follow the group order, which is
// first appearance of the payment id in the input.
//
// =============================================================================

package interval

import (
	"strconv"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/aggregator"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/timestamp"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
)

// Exclusion explains why a payment has no result.
type Exclusion string

const (
	ExcludedMissingStatus   Exclusion = "missing_status"
	ExcludedUnparseableTime Exclusion = "unparseable_timestamp"
	ExcludedOutOfOrder      Exclusion = "out_of_order"
)

// Stats counts how payments were disposed of in one computation.
type Stats struct {
	Payments int
	Results  int
	Excluded map[Exclusion]int
}

// Compute returns one IntervalResult per payment with both statuses in order.
func Compute(groups *aggregator.Groups, fromStatus, toStatus int) []types.IntervalResult {
	results, _ := ComputeWithStats(groups, fromStatus, toStatus)
	return results
}

// ComputeWithStats is Compute plus a breakdown of excluded payments.
func ComputeWithStats(groups *aggregator.Groups, fromStatus, toStatus int) ([]types.IntervalResult, Stats) {
	stats := Stats{Excluded: make(map[Exclusion]int)}
	results := []types.IntervalResult{}
	if groups == nil {
		return results, stats
	}
	stats.Payments = groups.Len()

	for _, paymentID := range groups.Order {
		fromEvent, toEvent, ok := aggregator.SelectPair(groups.Events[paymentID], fromStatus, toStatus)
		if !ok {
			stats.Excluded[ExcludedMissingStatus]++
			continue
		}

		result, exclusion := measure(paymentID, fromEvent, toEvent, fromStatus, toStatus)
		if exclusion != "" {
			stats.Excluded[exclusion]++
			continue
		}

		results = append(results, result)
	}

	stats.Results = len(results)
	return results, stats
}

// measure builds the result for one pair of events.
func measure(paymentID string, fromEvent, toEvent types.NormalizedEvent, fromStatus, toStatus int) (types.IntervalResult, Exclusion) {
	fromTime, err := timestamp.Parse(fromEvent.Timestamp)
	if err != nil {
		return types.IntervalResult{}, ExcludedUnparseableTime
	}
	toTime, err := timestamp.Parse(toEvent.Timestamp)
	if err != nil {
		return types.IntervalResult{}, ExcludedUnparseableTime
	}

	if !toTime.After(fromTime) {
		return types.IntervalResult{}, ExcludedOutOfOrder
	}

	diff := toTime.UnixMilli() - fromTime.UnixMilli()

	return types.IntervalResult{
		PaymentID:        paymentID,
		FromStatusTime:   fromEvent.Timestamp,
		ToStatusTime:     toEvent.Timestamp,
		TimeDifferenceMs: strconv.FormatInt(diff, 10),
		TerminalID:       fromEvent.TerminalID,
		MerchantID:       fromEvent.MerchantID,
		Date:             fromEvent.Date,
		FromStatus:       fromStatus,
		ToStatus:         toStatus,
	}, ""
}
