// =============================================================================
// Payment Interval Analyzer - CSV Parser Module
// =============================================================================
//
// This module turns delimited text exported from the payment event log into
// header-keyed rows. It handles:
//   - Different delimiters (comma, pipe, tab, semicolon)
//   - Header names with stray whitespace or mixed case
//   - Quoted fields containing delimiters, quotes and newlines
//   - Loosely quoted fields produced by some log exporters
//   - Blank lines anywhere in the file
//
// Two header policies exist:
//   - Event log: headers are trimmed and lower-cased ("Payment ID " -> "payment id")
//   - Allow-set: headers are kept exactly as written ("paymentId")
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/config"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
)

const utf8BOM = "\ufeff"

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// Data represents a parsed tabular input.
type Data struct {
	// Headers contains the column headers after normalization.
	Headers []string

	// Rows contains the data rows as header -> value maps.
	Rows []types.RawRow

	// RowCount is the number of data rows (excluding the header and blank lines).
	RowCount int
}

// HasColumn reports whether the header row contains name.
func (d *Data) HasColumn(name string) bool {
	for _, h := range d.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the names in required that the header row lacks.
func (d *Data) MissingColumns(required ...string) []string {
	var missing []string
	for _, name := range required {
		if !d.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads an event log and returns rows keyed by normalized header.
//
// PARAMETERS:
//   - r: The delimited text.
//   - settings: Input settings (delimiter).
//
// RETURNS:
//   - A pointer to the Data struct containing the parsed rows.
//   - A MalformedBatch error if the text cannot be read as a table or has no
//     data rows.
func Parse(r io.Reader, settings config.InputSettings) (*Data, error) {
	return parse(r, settings, NormalizeHeader)
}

// ParseExact reads delimited text keeping header names exactly as written
// (apart from a leading byte order mark).
func ParseExact(r io.Reader, settings config.InputSettings) (*Data, error) {
	return parse(r, settings, func(h string) string { return h })
}

func parse(r io.Reader, settings config.InputSettings, normalize func(string) string) (*Data, error) {
	records, err := readRecords(r, settings)
	if err != nil {
		return nil, types.NewBatchError(types.ConditionMalformedBatch,
			"CSV file couldn't be parsed correctly", err)
	}

	data := FromRecords(records, normalize)
	if data.RowCount == 0 {
		return nil, types.NewBatchError(types.ConditionMalformedBatch,
			"CSV file is empty or couldn't be parsed correctly", nil)
	}

	return data, nil
}

// FromRecords converts raw records (header first) into Data. Blank records are
// skipped and short records are padded with empty values.
func FromRecords(records [][]string, normalize func(string) string) *Data {
	data := &Data{Rows: []types.RawRow{}}

	// Find the header: the first record that is not blank.
	start := 0
	for start < len(records) && isRowEmpty(records[start]) {
		start++
	}
	if start >= len(records) {
		return data
	}

	data.Headers = cleanHeaders(records[start], normalize)

	for _, record := range records[start+1:] {
		if isRowEmpty(record) {
			continue
		}

		row := make(types.RawRow, len(data.Headers))
		for colIndex, header := range data.Headers {
			if colIndex < len(record) {
				row[header] = strings.TrimSpace(record[colIndex])
			} else {
				// Column is missing in this row.
				row[header] = ""
			}
		}

		data.Rows = append(data.Rows, row)
	}

	data.RowCount = len(data.Rows)
	return data
}

// readRecords reads every record from r with a reader configured from settings.
func readRecords(r io.Reader, settings config.InputSettings) ([][]string, error) {
	csvReader := csv.NewReader(bufio.NewReader(r))
	if err := configureReader(csvReader, settings); err != nil {
		return nil, err
	}

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return records, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.InputSettings) error {
	comma, err := config.ParseDelimiter(settings.Delimiter)
	if err != nil {
		return err
	}
	reader.Comma = comma

	// Rows exported from logs do not always carry every column.
	reader.FieldsPerRecord = -1

	// Event bodies frequently contain bare quotes.
	reader.LazyQuotes = true

	reader.TrimLeadingSpace = true

	return nil
}

// NormalizeHeader trims and lower-cases a header name.
func NormalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// cleanHeaders strips the byte order mark, applies normalize, and names blank
// headers by position.
func cleanHeaders(headers []string, normalize func(string) string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, utf8BOM)
		}

		header = normalize(header)

		if strings.TrimSpace(header) == "" {
			header = fmt.Sprintf("column_%d", i+1)
		}

		cleaned[i] = header
	}

	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// ALLOW-SET LOADING
// =============================================================================

// LoadPaymentIDs reads the successful-payments file: delimited text with an
// exact-case "paymentId" column.
//
// RETURNS:
//   - The set of non-empty identifiers.
//   - ErrNoSuccessfulIDs if the file has no usable identifier, or a
//     MalformedBatch error if it cannot be read as a table.
func LoadPaymentIDs(r io.Reader, settings config.InputSettings) (types.SuccessfulPaymentSet, error) {
	data, err := ParseExact(r, settings)
	if err != nil {
		return nil, err
	}
	return PaymentIDSet(data)
}

// PaymentIDSet extracts the allow-set from already parsed exact-header data.
func PaymentIDSet(data *Data) (types.SuccessfulPaymentSet, error) {
	set := types.NewSuccessfulPaymentSet()
	for _, row := range data.Rows {
		if id := row[types.ColumnSuccessfulPaymentID]; id != "" {
			set[id] = struct{}{}
		}
	}

	if set.Len() == 0 {
		return nil, types.ErrNoSuccessfulIDs
	}
	return set, nil
}
