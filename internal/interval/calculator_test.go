package interval

import (
	"testing"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/aggregator"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/record"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
)

func event(id string, status int, ts string) types.NormalizedEvent {
	return types.NormalizedEvent{
		PaymentID:  id,
		Status:     status,
		Timestamp:  ts,
		TerminalID: "T-" + id,
		MerchantID: "M-" + id,
		Date:       "01/01/2024",
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name    string
		events  []types.NormalizedEvent
		wantIDs []string
		wantMs  []string
	}{
		{
			name: "status 2 to 8 in order",
			events: []types.NormalizedEvent{
				event("P1", 2, "2024-01-01T10:00:00Z"),
				event("P1", 8, "2024-01-01T10:00:07Z"),
			},
			wantIDs: []string{"P1"},
			wantMs:  []string{"7000"},
		},
		{
			name: "to before from",
			events: []types.NormalizedEvent{
				event("P1", 2, "2024-01-01T10:00:07Z"),
				event("P1", 8, "2024-01-01T10:00:00Z"),
			},
		},
		{
			name: "equal timestamps",
			events: []types.NormalizedEvent{
				event("P1", 2, "2024-01-01T10:00:00Z"),
				event("P1", 8, "2024-01-01T10:00:00Z"),
			},
		},
		{
			name: "missing to status",
			events: []types.NormalizedEvent{
				event("P2", 2, "2024-01-01T10:00:00Z"),
			},
		},
		{
			name: "unparseable timestamp",
			events: []types.NormalizedEvent{
				event("P3", 2, "not a time"),
				event("P3", 8, "2024-01-01T10:00:00Z"),
			},
		},
		{
			name: "millisecond precision",
			events: []types.NormalizedEvent{
				event("P4", 8, "2024-01-01T10:00:01.250Z"),
				event("P4", 2, "2024-01-01T10:00:00.125Z"),
			},
			wantIDs: []string{"P4"},
			wantMs:  []string{"1125"},
		},
		{
			name: "hour-only offsets",
			events: []types.NormalizedEvent{
				event("P5", 2, "2024-01-01 12:00:00.000+02"),
				event("P5", 8, "2024-01-01T10:00:05.500Z"),
			},
			wantIDs: []string{"P5"},
			wantMs:  []string{"5500"},
		},
		{
			name: "span of several millennia",
			events: []types.NormalizedEvent{
				event("P6", 2, "0001-01-01T00:00:00Z"),
				event("P6", 8, "9999-12-31T23:59:59Z"),
			},
			wantIDs: []string{"P6"},
			wantMs:  []string{"315537897599000"},
		},
		{
			name: "mixed payments keep first appearance order",
			events: []types.NormalizedEvent{
				event("B", 2, "2024-01-01T10:00:00Z"),
				event("A", 2, "2024-01-01T11:00:00Z"),
				event("C", 2, "2024-01-01T09:00:00Z"),
				event("A", 8, "2024-01-01T11:00:02Z"),
				event("B", 8, "2024-01-01T10:00:01Z"),
			},
			wantIDs: []string{"B", "A"},
			wantMs:  []string{"1000", "2000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := Compute(aggregator.Group(tt.events), 2, 8)

			if len(results) != len(tt.wantIDs) {
				t.Fatalf("expected %d results, got %d: %+v", len(tt.wantIDs), len(results), results)
			}
			for i, r := range results {
				if r.PaymentID != tt.wantIDs[i] {
					t.Errorf("result %d: payment %s, want %s", i, r.PaymentID, tt.wantIDs[i])
				}
				if r.TimeDifferenceMs != tt.wantMs[i] {
					t.Errorf("result %d: diff %s, want %s", i, r.TimeDifferenceMs, tt.wantMs[i])
				}
			}
		})
	}
}

func TestComputeCopiesFromEvent(t *testing.T) {
	events := []types.NormalizedEvent{
		{PaymentID: "P1", Status: 8, Timestamp: "2024-01-01T10:00:07Z", TerminalID: "T-to", MerchantID: "M-to", Date: "to-date"},
		{PaymentID: "P1", Status: 2, Timestamp: "2024-01-01T10:00:00Z", TerminalID: "T-from", MerchantID: "M-from", Date: "from-date"},
	}

	results := Compute(aggregator.Group(events), 2, 8)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	r := results[0]
	if r.TerminalID != "T-from" || r.MerchantID != "M-from" || r.Date != "from-date" {
		t.Errorf("fields not taken from the from event: %+v", r)
	}
	if r.FromStatusTime != "2024-01-01T10:00:00Z" || r.ToStatusTime != "2024-01-01T10:00:07Z" {
		t.Errorf("times not copied verbatim: %+v", r)
	}
	if r.FromStatus != 2 || r.ToStatus != 8 {
		t.Errorf("statuses: got %d->%d", r.FromStatus, r.ToStatus)
	}
}

func TestComputeWithStats(t *testing.T) {
	events := []types.NormalizedEvent{
		event("ok", 2, "2024-01-01T10:00:00Z"),
		event("ok", 8, "2024-01-01T10:00:05Z"),
		event("late", 2, "2024-01-01T10:00:05Z"),
		event("late", 8, "2024-01-01T10:00:00Z"),
		event("bad", 2, "???"),
		event("bad", 8, "2024-01-01T10:00:00Z"),
		event("half", 2, "2024-01-01T10:00:00Z"),
	}

	results, stats := ComputeWithStats(aggregator.Group(events), 2, 8)

	if len(results) != 1 || stats.Results != 1 || stats.Payments != 4 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.Excluded[ExcludedOutOfOrder] != 1 ||
		stats.Excluded[ExcludedUnparseableTime] != 1 ||
		stats.Excluded[ExcludedMissingStatus] != 1 {
		t.Errorf("unexpected exclusions: %v", stats.Excluded)
	}
}

func TestComputeFromParsedRows(t *testing.T) {
	rows := []types.RawRow{
		{
			types.ColumnPaymentID:  "P1",
			types.ColumnTerminalID: "T1",
			types.ColumnMerchantID: "M1",
			types.ColumnEventBody:  `{"status": 2}`,
			types.ColumnCreatedAt:  "2024-01-01 10:00:00.000+00",
		},
		{
			types.ColumnPaymentID:  "P1",
			types.ColumnTerminalID: "T1",
			types.ColumnMerchantID: "M1",
			types.ColumnEventBody:  `{"status": 8}`,
			types.ColumnCreatedAt:  "2024-01-01 10:00:07.000+00",
		},
	}

	events, _ := record.NewParser(nil).Parse(rows)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	results, stats := ComputeWithStats(aggregator.Group(events), 2, 8)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d (excluded %v)", len(results), stats.Excluded)
	}
	if r := results[0]; r.TimeDifferenceMs != "7000" || r.Date != "01/01/2024" {
		t.Errorf("unexpected result: %+v", r)
	}
}

func TestComputeNilGroups(t *testing.T) {
	if results := Compute(nil, 2, 8); results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", results)
	}
}
