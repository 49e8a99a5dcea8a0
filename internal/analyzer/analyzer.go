// =============================================================================
// Payment Interval Analyzer - Analysis Pipeline
// =============================================================================
//
// This module orchestrates one analysis of an event log, from raw rows to
// interval results. It performs no I/O: callers hand in rows and get back new
// derived collections.
//
// ANALYSIS PIPELINE:
//   1. Parse rows into normalized events (row-level problems are skipped)
//   2. Group events by payment id
//   3. Compute one interval per payment with both statuses in order
//   4. Summarize the batch, flagging NoMatchingPairs when nothing matched
//
// A status pair change re-runs steps 2-4 only (see Recompute).
//
// =============================================================================

package analyzer

import (
	"fmt"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/aggregator"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/interval"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/logging"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/record"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/validation"
	"go.uber.org/zap"
)

// =============================================================================
// OPTIONS AND OUTCOME
// =============================================================================

// Options selects the lifecycle codes that bound the measured interval.
type Options struct {
	FromStatus int
	ToStatus   int
}

// DefaultOptions returns the 2 -> 8 status pair.
func DefaultOptions() Options {
	return Options{FromStatus: 2, ToStatus: 8}
}

// Summary contains statistics about one analysis.
type Summary struct {
	// RowsRead is the number of data rows handed to the parser.
	RowsRead int

	// RowsSkipped is the number of rows dropped by row-level checks.
	RowsSkipped int

	// Events is the number of normalized events.
	Events int

	// Payments is the number of distinct payment ids.
	Payments int

	// Results is the number of computed intervals.
	Results int

	// Excluded counts payments without a result, by cause.
	Excluded map[interval.Exclusion]int

	// Condition is ConditionNoMatchingPairs when events exist but no payment
	// produced a result; ConditionNone otherwise.
	Condition types.Condition

	// Message is a user-facing description of Condition.
	Message string
}

// Outcome is the result of one analysis.
type Outcome struct {
	Options Options
	Events  []types.NormalizedEvent
	Groups  *aggregator.Groups
	Report  *validation.Report
	Results []types.IntervalResult
	Summary Summary
}

// =============================================================================
// ANALYZER
// =============================================================================

// Analyzer runs the analysis pipeline.
type Analyzer struct {
	parser *record.Parser
	log    *zap.Logger
}

// New creates an Analyzer. A nil logger disables logging.
func New(log *zap.Logger, opts ...record.Option) *Analyzer {
	log = logging.OrNop(log)
	return &Analyzer{
		parser: record.NewParser(log, opts...),
		log:    log,
	}
}

// Analyze runs the pipeline with a silent logger.
func Analyze(rows []types.RawRow, opts Options) (*Outcome, error) {
	return New(nil).Analyze(rows, opts)
}

// Analyze parses rows and computes interval results.
//
// PARAMETERS:
//   - rows: Raw rows with normalized column names.
//   - opts: The status pair to measure.
//
// RETURNS:
//   - The outcome. It is non-nil even when an error is returned, so the
//     row-level report stays inspectable.
//   - types.ErrNoUsableRows if no row survives the row-level checks.
func (a *Analyzer) Analyze(rows []types.RawRow, opts Options) (*Outcome, error) {
	events, report := a.parser.Parse(rows)

	a.log.Debug("parsed rows",
		zap.Int("rows", report.RowsSeen),
		zap.Int("events", len(events)),
		zap.Int("skipped", report.SkippedCount()))

	if len(events) == 0 {
		outcome := &Outcome{
			Options: opts,
			Events:  events,
			Groups:  aggregator.Group(nil),
			Report:  report,
			Results: []types.IntervalResult{},
			Summary: Summary{
				RowsRead:    report.RowsSeen,
				RowsSkipped: report.SkippedCount(),
				Excluded:    map[interval.Exclusion]int{},
			},
		}
		return outcome, types.NewBatchError(types.ConditionNoUsableRows,
			"no valid data could be processed from the input, please check the format", nil)
	}

	outcome := a.Recompute(events, opts)
	outcome.Report = report
	outcome.Summary.RowsRead = report.RowsSeen
	outcome.Summary.RowsSkipped = report.SkippedCount()

	return outcome, nil
}

// Recompute groups already parsed events and computes intervals for opts.
// It never re-parses; the returned outcome has no row-level report.
func (a *Analyzer) Recompute(events []types.NormalizedEvent, opts Options) *Outcome {
	groups := aggregator.Group(events)
	results, stats := interval.ComputeWithStats(groups, opts.FromStatus, opts.ToStatus)

	summary := Summary{
		Events:   len(events),
		Payments: groups.Len(),
		Results:  len(results),
		Excluded: stats.Excluded,
	}

	if len(results) == 0 && len(events) > 0 {
		summary.Condition = types.ConditionNoMatchingPairs
		summary.Message = fmt.Sprintf(
			"no payments found with both status %d and status %d in the correct order",
			opts.FromStatus, opts.ToStatus)
	}

	a.log.Debug("computed intervals",
		zap.Int("from_status", opts.FromStatus),
		zap.Int("to_status", opts.ToStatus),
		zap.Int("payments", summary.Payments),
		zap.Int("results", summary.Results))

	return &Outcome{
		Options: opts,
		Events:  events,
		Groups:  groups,
		Results: results,
		Summary: summary,
	}
}
