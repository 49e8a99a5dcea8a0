// =============================================================================
// Payment Interval Analyzer - Session
// =============================================================================
//
// A Session holds the state of one interactive analysis:
//
//   primary input ──► events ──► results ──► filtered view
//                                   ▲             ▲
//             status pair ──────────┘             │
//             filter criteria + allow-set ────────┘
//
// LIFECYCLE:
//   - LoadPrimary replaces events, results and the filtered view. A failed
//     load leaves the session untouched.
//   - LoadSuccessful replaces the allow-set only; on failure the previous set
//     is kept.
//   - SetStatuses recomputes results from the retained events.
//   - ApplyFilter recomputes the filtered view from the canonical results.
//
// The canonical results are never mutated; every accessor returns a copy.
// A Session is not safe for concurrent use.
//
// =============================================================================

package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/config"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/csvparser"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/export"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/filter"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/logging"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/validation"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/xlsxparser"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/xmlwriter"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatXML = "xml"
)

// =============================================================================
// INPUT ACQUISITION
// =============================================================================

// TextAcquirer returns the full content of a named source.
type TextAcquirer interface {
	AcquireText(ctx context.Context, source string) (string, error)
}

// AcquireFunc adapts a function to TextAcquirer.
type AcquireFunc func(ctx context.Context, source string) (string, error)

// AcquireText calls f.
func (f AcquireFunc) AcquireText(ctx context.Context, source string) (string, error) {
	return f(ctx, source)
}

// =============================================================================
// SESSION
// =============================================================================

// Session tracks loaded inputs and derived results.
type Session struct {
	acquirer TextAcquirer
	input    config.InputSettings
	analyzer *Analyzer
	log      *zap.Logger

	runID    string
	opts     Options
	events   []types.NormalizedEvent
	report   *validation.Report
	summary  Summary
	results  []types.IntervalResult
	criteria filter.Criteria
	allow    types.SuccessfulPaymentSet
	filtered []types.IntervalResult
}

// NewSession creates an empty session.
//
// PARAMETERS:
//   - acquirer: Reads input sources by name.
//   - input: Delimiter and sheet settings for tabular input.
//   - opts: The initial status pair.
//   - log: The logger; nil disables logging.
func NewSession(acquirer TextAcquirer, input config.InputSettings, opts Options, log *zap.Logger) *Session {
	log = logging.OrNop(log)
	return &Session{
		acquirer: acquirer,
		input:    input,
		analyzer: New(log),
		log:      log,
		opts:     opts,
		report:   &validation.Report{},
		results:  []types.IntervalResult{},
		filtered: []types.IntervalResult{},
	}
}

// LoadPrimary reads and analyzes an event log.
//
// PARAMETERS:
//   - ctx: Passed to the acquirer.
//   - source: The event log; names ending in .xlsx or .xlsm are read as workbooks.
//
// RETURNS:
//   - The analysis summary. Summary.Condition reports NoMatchingPairs.
//   - A *types.ReadError if the source cannot be read, ErrMalformedBatch if it
//     is not tabular, or ErrNoUsableRows if no row is usable.
func (s *Session) LoadPrimary(ctx context.Context, source string) (Summary, error) {
	runID := uuid.New().String()
	log := s.log.With(zap.String("run_id", runID), zap.String("source", source))
	log.Info("loading event log")

	text, err := s.acquirer.AcquireText(ctx, source)
	if err != nil {
		return Summary{}, err
	}

	data, err := s.parseTable(source, text)
	if err != nil {
		log.Warn("event log could not be parsed", zap.Error(err))
		return Summary{}, err
	}

	if missing := data.MissingColumns(types.ColumnPaymentID, types.ColumnEventBody); len(missing) > 0 {
		log.Warn("event log is missing required columns", zap.Strings("columns", missing))
	}

	outcome, err := New(log).Analyze(data.Rows, s.opts)
	if err != nil {
		log.Warn("no usable rows", zap.Int("rows", outcome.Summary.RowsRead))
		return outcome.Summary, err
	}

	s.runID = runID
	s.events = outcome.Events
	s.report = outcome.Report
	s.summary = outcome.Summary
	s.results = outcome.Results
	s.refilter()

	log.Info("event log analyzed",
		zap.Int("rows", outcome.Summary.RowsRead),
		zap.Int("skipped", outcome.Summary.RowsSkipped),
		zap.Int("payments", outcome.Summary.Payments),
		zap.Int("results", outcome.Summary.Results))

	return s.summary, nil
}

// LoadSuccessful reads the successful-payments list used by OnlySuccessful.
//
// RETURNS:
//   - The number of payment ids loaded.
//   - types.ErrNoSuccessfulIDs if the source has none; the previous set is kept.
func (s *Session) LoadSuccessful(ctx context.Context, source string) (int, error) {
	text, err := s.acquirer.AcquireText(ctx, source)
	if err != nil {
		return 0, err
	}

	var set types.SuccessfulPaymentSet
	if xlsxparser.IsWorkbook(source) {
		set, err = xlsxparser.LoadPaymentIDs(strings.NewReader(text), s.input.Sheet)
	} else {
		set, err = csvparser.LoadPaymentIDs(strings.NewReader(text), s.input)
	}
	if err != nil {
		s.log.Warn("successful payments not loaded", zap.String("source", source), zap.Error(err))
		return 0, err
	}

	s.allow = set
	s.refilter()

	s.log.Info("successful payments loaded", zap.String("source", source), zap.Int("ids", set.Len()))
	return set.Len(), nil
}

// SetStatuses changes the measured status pair and recomputes results from
// the retained events without re-parsing.
func (s *Session) SetStatuses(fromStatus, toStatus int) Summary {
	s.opts = Options{FromStatus: fromStatus, ToStatus: toStatus}
	if len(s.events) == 0 {
		return s.summary
	}

	outcome := s.analyzer.Recompute(s.events, s.opts)
	outcome.Summary.RowsRead = s.summary.RowsRead
	outcome.Summary.RowsSkipped = s.summary.RowsSkipped

	s.summary = outcome.Summary
	s.results = outcome.Results
	s.refilter()

	return s.summary
}

// ApplyFilter sets the filter criteria and returns the filtered view.
func (s *Session) ApplyFilter(criteria filter.Criteria) []types.IntervalResult {
	s.criteria = criteria
	s.refilter()
	return s.Filtered()
}

// refilter rebuilds the filtered view from the canonical results.
func (s *Session) refilter() {
	s.filtered = filter.Filter(s.results, s.criteria, s.allow)
}

// Export renders the filtered view.
//
// RETURNS:
//   - The document in the requested format ("csv" or "xml").
//   - types.ErrEmptyExport if the filtered view is empty.
func (s *Session) Export(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatCSV:
		return export.CSV(s.filtered)
	case FormatXML:
		return xmlwriter.Generate(s.filtered)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Results returns a copy of the canonical results.
func (s *Session) Results() []types.IntervalResult {
	return append([]types.IntervalResult{}, s.results...)
}

// Filtered returns a copy of the filtered view.
func (s *Session) Filtered() []types.IntervalResult {
	return append([]types.IntervalResult{}, s.filtered...)
}

// Events returns the number of retained events.
func (s *Session) Events() int {
	return len(s.events)
}

// Summary returns the summary of the latest computation.
func (s *Session) Summary() Summary {
	return s.summary
}

// Report returns the row-level report of the loaded event log.
func (s *Session) Report() *validation.Report {
	return s.report
}

// Options returns the current status pair.
func (s *Session) Options() Options {
	return s.opts
}

// Criteria returns the active filter criteria.
func (s *Session) Criteria() filter.Criteria {
	return s.criteria
}

// Successful returns the loaded allow-set, or nil.
func (s *Session) Successful() types.SuccessfulPaymentSet {
	return s.allow
}

// RunID identifies the latest successful LoadPrimary.
func (s *Session) RunID() string {
	return s.runID
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// parseTable reads text as a workbook or as delimited text, depending on the
// source name.
func (s *Session) parseTable(source, text string) (*csvparser.Data, error) {
	if xlsxparser.IsWorkbook(source) {
		return xlsxparser.Parse(strings.NewReader(text), s.input.Sheet)
	}
	return csvparser.Parse(strings.NewReader(text), s.input)
}
