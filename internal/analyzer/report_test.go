package analyzer

import (
	"testing"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
)

func TestBuildReport(t *testing.T) {
	results := []types.IntervalResult{
		{PaymentID: "P3", TimeDifferenceMs: "10000"},
		{PaymentID: "P1", TimeDifferenceMs: "10001"},
		{PaymentID: "P2", TimeDifferenceMs: "500"},
		{PaymentID: "P1", TimeDifferenceMs: "20"},
	}

	report := BuildReport(results, 10)

	if report.PaymentCount != 3 || report.TransactionCount != 4 {
		t.Errorf("counts: %d payments, %d transactions", report.PaymentCount, report.TransactionCount)
	}
	if report.SlowCount != 1 || report.SlowThresholdMs != 10000 {
		t.Errorf("slow: %d above %d", report.SlowCount, report.SlowThresholdMs)
	}

	order := []string{}
	for _, p := range report.Payments {
		order = append(order, p.PaymentID)
	}
	if len(order) != 3 || order[0] != "P1" || order[1] != "P2" || order[2] != "P3" {
		t.Errorf("payments not sorted: %v", order)
	}

	p1 := report.Payments[0]
	if len(p1.Intervals) != 2 || !p1.Intervals[0].Slow || p1.Intervals[1].Slow {
		t.Errorf("unexpected P1 block: %+v", p1)
	}
	if report.Payments[2].Intervals[0].Slow {
		t.Error("an interval equal to the threshold is not slow")
	}
}

func TestIsSlow(t *testing.T) {
	tests := []struct {
		ms   string
		want bool
	}{
		{"10001", true},
		{"10000", false},
		{"", false},
		{"abc", false},
	}
	for _, tt := range tests {
		if got := IsSlow(types.IntervalResult{TimeDifferenceMs: tt.ms}, 10000); got != tt.want {
			t.Errorf("IsSlow(%q): got %v, want %v", tt.ms, got, tt.want)
		}
	}
}
