// =============================================================================
// Payment Interval Analyzer - CSV Exporter
// =============================================================================
//
// Serializes interval results back to comma-separated text.
//
// FORMAT:
//   Payment ID,From Status Time,To Status Time,Time Difference (ms),Terminal ID,Merchant ID,Date
//   P1,2024-01-01T10:00:00Z,2024-01-01T10:00:07Z,7000,T1,M1,01/01/2024
//
// QUOTING:
//   A field is wrapped in double quotes, with inner quotes doubled, if and only
//   if it contains a comma, a double quote or a newline. Every other field is
//   written as is. Every line, the last one included, ends with "\n".
//
// =============================================================================

package export

import (
	"bytes"
	"strings"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
)

// Header is the fixed header row.
var Header = []string{
	"Payment ID",
	"From Status Time",
	"To Status Time",
	"Time Difference (ms)",
	"Terminal ID",
	"Merchant ID",
	"Date",
}

// CSV renders results as delimited text.
//
// RETURNS:
//   - The encoded document
//   - types.ErrEmptyExport (via errors.Is) when results is empty
func CSV(results []types.IntervalResult) ([]byte, error) {
	if len(results) == 0 {
		return nil, types.NewBatchError(types.ConditionEmptyExport, "no results to export", nil)
	}

	var buffer bytes.Buffer
	writeRecord(&buffer, Header)

	for _, r := range results {
		writeRecord(&buffer, Record(r))
	}

	return buffer.Bytes(), nil
}

// Record returns the exported columns of one result, in header order.
func Record(r types.IntervalResult) []string {
	return []string{
		r.PaymentID,
		r.FromStatusTime,
		r.ToStatusTime,
		r.TimeDifferenceMs,
		r.TerminalID,
		r.MerchantID,
		r.Date,
	}
}

// writeRecord writes one line, terminated by a newline.
func writeRecord(buffer *bytes.Buffer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			buffer.WriteByte(',')
		}
		buffer.WriteString(quoteField(field))
	}
	buffer.WriteByte('\n')
}

// quoteField applies the quoting rule to a single field.
func quoteField(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
