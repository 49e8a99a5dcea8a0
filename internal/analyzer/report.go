package analyzer

import (
	"sort"
	"strconv"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
)

// PaymentIntervals is one payment's block in the result report.
type PaymentIntervals struct {
	PaymentID string
	Intervals []ReportLine
}

// ReportLine is one interval with its slow marker.
type ReportLine struct {
	types.IntervalResult
	Slow bool
}

// ResultReport groups results by payment id for display.
type ResultReport struct {
	Payments         []PaymentIntervals
	PaymentCount     int
	TransactionCount int
	SlowCount        int
	SlowThresholdMs  int64
}

// BuildReport groups results by payment id, sorted ascending, and marks
// intervals strictly above slowThresholdSeconds.
func BuildReport(results []types.IntervalResult, slowThresholdSeconds int) *ResultReport {
	report := &ResultReport{
		Payments:         []PaymentIntervals{},
		TransactionCount: len(results),
		SlowThresholdMs:  int64(slowThresholdSeconds) * 1000,
	}

	index := make(map[string]int)
	for _, r := range results {
		line := ReportLine{IntervalResult: r, Slow: IsSlow(r, report.SlowThresholdMs)}
		if line.Slow {
			report.SlowCount++
		}

		i, ok := index[r.PaymentID]
		if !ok {
			i = len(report.Payments)
			index[r.PaymentID] = i
			report.Payments = append(report.Payments, PaymentIntervals{PaymentID: r.PaymentID})
		}
		report.Payments[i].Intervals = append(report.Payments[i].Intervals, line)
	}

	sort.SliceStable(report.Payments, func(a, b int) bool {
		return report.Payments[a].PaymentID < report.Payments[b].PaymentID
	})
	report.PaymentCount = len(report.Payments)

	return report
}

// IsSlow reports whether r took strictly longer than thresholdMs.
func IsSlow(r types.IntervalResult, thresholdMs int64) bool {
	ms, err := strconv.ParseInt(r.TimeDifferenceMs, 10, 64)
	return err == nil && ms > thresholdMs
}
