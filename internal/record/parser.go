// =============================================================================
// Payment Interval Analyzer - Record Parser
// =============================================================================
//
// The record parser turns header-keyed rows of the payment event log into
// NormalizedEvents. For each row it:
//   1. Reads payment id, terminal id, merchant id, event and event body
//   2. Resolves the timestamp from "created at", falling back to "timestamp"
//   3. Drops the row if the payment id or timestamp is empty
//   4. Extracts the lifecycle status from the event body (see status.go)
//   5. Drops the row if no status could be determined
//   6. Derives the DD/MM/YYYY display date from the timestamp
//
// A bad row is recorded in the validation report and skipped; it never aborts
// the batch. Input order is preserved in the output.
//
// =============================================================================

package record

import (
	"github.com/ginjaninja78/payment-interval-analyzer/internal/logging"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/timestamp"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/validation"
	"go.uber.org/zap"
)

// Parser converts raw rows into normalized events.
type Parser struct {
	log       *zap.Logger
	extractor StatusExtractor
}

// Option configures a Parser.
type Option func(*Parser)

// WithNormalizer replaces the event body normalization step.
func WithNormalizer(n BodyNormalizer) Option {
	return func(p *Parser) {
		p.extractor.Normalizer = n
	}
}

// NewParser creates a Parser. A nil logger disables diagnostics.
func NewParser(log *zap.Logger, opts ...Option) *Parser {
	p := &Parser{
		log:       logging.OrNop(log),
		extractor: StatusExtractor{Normalizer: DefaultNormalizer()},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse converts rows into events.
//
// PARAMETERS:
//   - rows: The raw rows, in input order.
//
// RETURNS:
//   - The usable events, in input order. len(events) <= len(rows).
//   - A report of every skipped row.
func (p *Parser) Parse(rows []types.RawRow) ([]types.NormalizedEvent, *validation.Report) {
	report := &validation.Report{RowsSeen: len(rows)}
	events := make([]types.NormalizedEvent, 0, len(rows))

	for i, row := range rows {
		rowNumber := i + 1

		if rowErr := validation.ValidateRow(row, rowNumber); rowErr != nil {
			p.skip(report, rowErr, row)
			continue
		}

		body := row[types.ColumnEventBody]
		status, ok := p.extractor.Extract(body)
		if !ok {
			p.skip(report, validation.NoStatus(rowNumber, body), row)
			continue
		}

		ts := validation.ResolveTimestamp(row)
		events = append(events, types.NormalizedEvent{
			PaymentID:  row[types.ColumnPaymentID],
			Timestamp:  ts,
			Status:     status,
			TerminalID: row[types.ColumnTerminalID],
			MerchantID: row[types.ColumnMerchantID],
			Date:       timestamp.FormatDate(ts),
			RowNumber:  rowNumber,
		})
	}

	report.RowsAccepted = len(events)

	p.log.Debug("parsed event rows",
		zap.Int("rows", report.RowsSeen),
		zap.Int("accepted", report.RowsAccepted),
		zap.Int("skipped", report.SkippedCount()))

	return events, report
}

func (p *Parser) skip(report *validation.Report, rowErr *validation.RowError, row types.RawRow) {
	report.Add(rowErr)
	p.log.Debug("skipping row",
		zap.Int("row", rowErr.RowNumber),
		zap.String("reason", string(rowErr.Reason)),
		zap.String("payment_id", row[types.ColumnPaymentID]),
		zap.String("event", row[types.ColumnEvent]))
}
