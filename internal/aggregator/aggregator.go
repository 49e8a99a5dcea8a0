// =============================================================================
// Payment Interval Analyzer - Payment Aggregator
// =============================================================================
//
// Groups normalized events by payment id and picks, per payment, the events
// that bound the measured interval.
//
// GROUPING:
//   All events with the same payment id belong to one group. Events keep their
//   input order inside a group, and groups are ordered by first appearance of
//   their payment id, so identical input always yields identical iteration.
//
// SELECTION:
//   The "from" event is the FIRST event in input order whose status equals the
//   from status; likewise for the "to" event. Input order wins over timestamp
//   order when a status repeats.
//
// =============================================================================

package aggregator

import (
	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
)

// Groups maps payment ids to their events.
type Groups struct {
	// Order lists payment ids by first appearance in the input.
	Order []string

	// Events holds each payment's events in input order.
	Events map[string][]types.NormalizedEvent
}

// Len returns the number of payments.
func (g *Groups) Len() int {
	return len(g.Order)
}

// Group groups events by payment id, preserving input order within each group.
func Group(events []types.NormalizedEvent) *Groups {
	groups := &Groups{
		Order:  []string{},
		Events: make(map[string][]types.NormalizedEvent),
	}

	for _, event := range events {
		if _, exists := groups.Events[event.PaymentID]; !exists {
			groups.Order = append(groups.Order, event.PaymentID)
		}
		groups.Events[event.PaymentID] = append(groups.Events[event.PaymentID], event)
	}

	return groups
}

// SelectPair returns the first event with fromStatus and the first event with
// toStatus. ok is false when either is absent.
func SelectPair(events []types.NormalizedEvent, fromStatus, toStatus int) (from, to types.NormalizedEvent, ok bool) {
	fromIdx, toIdx := -1, -1

	for i, e := range events {
		if fromIdx < 0 && e.Status == fromStatus {
			fromIdx = i
		}
		if toIdx < 0 && e.Status == toStatus {
			toIdx = i
		}
		if fromIdx >= 0 && toIdx >= 0 {
			break
		}
	}

	if fromIdx < 0 || toIdx < 0 {
		return types.NormalizedEvent{}, types.NormalizedEvent{}, false
	}
	return events[fromIdx], events[toIdx], true
}
