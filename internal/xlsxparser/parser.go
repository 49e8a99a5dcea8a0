// =============================================================================
// Payment Interval Analyzer - XLSX Parser
// =============================================================================
//
// Some operators export the event log (or the successful-payments list) as an
// Excel workbook instead of CSV. This module reads one worksheet and produces
// the same header-keyed rows as the CSV parser, so the rest of the pipeline
// does not care which format arrived.
//
// WORKSHEET STRUCTURE (Expected Layout):
//   | Row 1 | Payment ID | Terminal ID | Event Body        | Created At           |
//   | Row 2 | P1         | T1          | {"status": 2}     | 2024-01-01T10:00:00Z |
//   | ...   |            |             |                   |                      |
//
//   - The first non-blank row is the header row
//   - Blank rows are skipped
//   - Cells are read as displayed text
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/csvparser"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// IsWorkbook reports whether a source name looks like an Excel workbook.
func IsWorkbook(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// Parse reads an event log worksheet with normalized (trimmed, lower-cased)
// headers.
//
// PARAMETERS:
//   - r: The workbook content.
//   - sheet: The worksheet to read. Empty means the first sheet.
//
// RETURNS:
//   - A pointer to the Data struct containing the parsed rows.
//   - A MalformedBatch error if the workbook cannot be opened, the sheet does
//     not exist, or it has no data rows.
func Parse(r io.Reader, sheet string) (*csvparser.Data, error) {
	return parse(r, sheet, csvparser.NormalizeHeader)
}

// LoadPaymentIDs reads the successful-payments worksheet, keyed by the
// exact-case "paymentId" header.
func LoadPaymentIDs(r io.Reader, sheet string) (types.SuccessfulPaymentSet, error) {
	data, err := parse(r, sheet, func(h string) string { return h })
	if err != nil {
		return nil, err
	}
	return csvparser.PaymentIDSet(data)
}

func parse(r io.Reader, sheet string, normalize func(string) string) (*csvparser.Data, error) {
	rows, err := readSheet(r, sheet)
	if err != nil {
		return nil, types.NewBatchError(types.ConditionMalformedBatch,
			"workbook couldn't be parsed correctly", err)
	}

	data := csvparser.FromRecords(rows, normalize)
	if data.RowCount == 0 {
		return nil, types.NewBatchError(types.ConditionMalformedBatch,
			"worksheet is empty or couldn't be parsed correctly", nil)
	}

	return data, nil
}

// readSheet opens the workbook and returns every row of the selected sheet.
func readSheet(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	} else if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found (available: %s)",
			sheetName, strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return rows, nil
}
