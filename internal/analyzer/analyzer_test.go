package analyzer

import (
	"errors"
	"testing"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/interval"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
)

func row(id, body, createdAt string) types.RawRow {
	return types.RawRow{
		types.ColumnPaymentID:  id,
		types.ColumnTerminalID: "T-" + id,
		types.ColumnMerchantID: "M-" + id,
		types.ColumnEventBody:  body,
		types.ColumnCreatedAt:  createdAt,
	}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name      string
		rows      []types.RawRow
		wantIDs   []string
		wantMs    []string
		condition types.Condition
	}{
		{
			name: "single payment",
			rows: []types.RawRow{
				row("P1", `{"status": 2}`, "2024-01-01T10:00:00Z"),
				row("P1", `{"status": 8}`, "2024-01-01T10:00:07Z"),
			},
			wantIDs: []string{"P1"},
			wantMs:  []string{"7000"},
		},
		{
			name: "to precedes from",
			rows: []types.RawRow{
				row("P1", `{"status": 2}`, "2024-01-01T10:00:07Z"),
				row("P1", `{"status": 8}`, "2024-01-01T10:00:00Z"),
			},
			condition: types.ConditionNoMatchingPairs,
		},
		{
			name: "escaped body",
			rows: []types.RawRow{
				row("P1", `"{\"status\": 2}"`, "2024-01-01T10:00:00Z"),
				row("P1", `"{\"status\": 8}"`, "2024-01-01T10:00:01Z"),
			},
			wantIDs: []string{"P1"},
			wantMs:  []string{"1000"},
		},
		{
			name: "payment without to status is excluded",
			rows: []types.RawRow{
				row("P1", `{"status": 2}`, "2024-01-01T10:00:00Z"),
				row("P2", `{"status": 2}`, "2024-01-01T10:00:00Z"),
				row("P1", `{"status": 8}`, "2024-01-01T10:00:03Z"),
			},
			wantIDs: []string{"P1"},
			wantMs:  []string{"3000"},
		},
		{
			name: "bad rows are skipped",
			rows: []types.RawRow{
				row("", `{"status": 2}`, "2024-01-01T10:00:00Z"),
				row("P1", `{"status": 2}`, "2024-01-01T10:00:00Z"),
				row("P1", `not json`, "2024-01-01T10:00:01Z"),
				row("P1", `{"status": 8}`, "2024-01-01T10:00:02Z"),
			},
			wantIDs: []string{"P1"},
			wantMs:  []string{"2000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := Analyze(tt.rows, DefaultOptions())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(outcome.Results) != len(tt.wantIDs) {
				t.Fatalf("expected %d results, got %+v", len(tt.wantIDs), outcome.Results)
			}
			for i, r := range outcome.Results {
				if r.PaymentID != tt.wantIDs[i] || r.TimeDifferenceMs != tt.wantMs[i] {
					t.Errorf("result %d: got %s/%s, want %s/%s",
						i, r.PaymentID, r.TimeDifferenceMs, tt.wantIDs[i], tt.wantMs[i])
				}
				if r.FromStatus != 2 || r.ToStatus != 8 {
					t.Errorf("result %d: statuses %d->%d", i, r.FromStatus, r.ToStatus)
				}
			}

			if outcome.Summary.Condition != tt.condition {
				t.Errorf("condition: got %q, want %q", outcome.Summary.Condition, tt.condition)
			}
			if outcome.Summary.RowsRead != len(tt.rows) {
				t.Errorf("rows read: got %d, want %d", outcome.Summary.RowsRead, len(tt.rows))
			}
		})
	}
}

func TestAnalyzeNoUsableRows(t *testing.T) {
	rows := []types.RawRow{
		row("P1", `{"state": 2}`, "2024-01-01T10:00:00Z"),
		row("", `{"status": 2}`, "2024-01-01T10:00:00Z"),
	}

	outcome, err := Analyze(rows, DefaultOptions())
	if !errors.Is(err, types.ErrNoUsableRows) {
		t.Fatalf("expected ErrNoUsableRows, got %v", err)
	}
	if outcome == nil || outcome.Report.SkippedCount() != 2 {
		t.Fatalf("expected the row report to be returned, got %+v", outcome)
	}
	if len(outcome.Results) != 0 || outcome.Summary.RowsSkipped != 2 {
		t.Errorf("unexpected outcome: %+v", outcome.Summary)
	}
}

func TestAnalyzeNoMatchingPairsMessage(t *testing.T) {
	rows := []types.RawRow{row("P1", `{"status": 2}`, "2024-01-01T10:00:00Z")}

	outcome, err := Analyze(rows, Options{FromStatus: 2, ToStatus: 5})
	if err != nil {
		t.Fatalf("NoMatchingPairs must not be an error, got %v", err)
	}
	if outcome.Summary.Condition != types.ConditionNoMatchingPairs {
		t.Fatalf("expected no_matching_pairs, got %q", outcome.Summary.Condition)
	}
	want := "no payments found with both status 2 and status 5 in the correct order"
	if outcome.Summary.Message != want {
		t.Errorf("message: got %q", outcome.Summary.Message)
	}
	if outcome.Summary.Excluded[interval.ExcludedMissingStatus] != 1 {
		t.Errorf("excluded: %v", outcome.Summary.Excluded)
	}
}

func TestRecompute(t *testing.T) {
	rows := []types.RawRow{
		row("P1", `{"status": 1}`, "2024-01-01T10:00:00Z"),
		row("P1", `{"status": 2}`, "2024-01-01T10:00:04Z"),
		row("P1", `{"status": 8}`, "2024-01-01T10:00:10Z"),
	}

	a := New(nil)
	outcome, err := a.Analyze(rows, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Results[0].TimeDifferenceMs != "6000" {
		t.Fatalf("2->8: got %s", outcome.Results[0].TimeDifferenceMs)
	}

	again := a.Recompute(outcome.Events, Options{FromStatus: 1, ToStatus: 8})
	if len(again.Results) != 1 || again.Results[0].TimeDifferenceMs != "10000" {
		t.Errorf("1->8: got %+v", again.Results)
	}
	if again.Report != nil {
		t.Error("recompute should not produce a row report")
	}
	if outcome.Results[0].TimeDifferenceMs != "6000" {
		t.Error("recompute mutated the earlier outcome")
	}
}
