// =============================================================================
// Payment Interval Analyzer - File Manager Utility
// =============================================================================
//
// This module is the filesystem side of the analyzer:
//   - Acquiring input content (event logs, successful-payment lists)
//   - Directory management for exports
//   - Export file naming
//   - Writing exports and run summaries
//
// The analysis core never touches the filesystem itself; it receives
// AcquireText as an injected capability so it can be tested without I/O.
//
// =============================================================================

package utils

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StdinSource is the source name that reads standard input.
const StdinSource = "-"

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the analyzer.
type FileManager struct {
	// OutputDir is the directory where exports and logs are written.
	OutputDir string

	// Stdin is read when the source is "-". Defaults to os.Stdin.
	Stdin io.Reader

	// Now returns the current time; used for file naming.
	Now func() time.Time

	log *zap.Logger
}

// NewFileManager creates a new FileManager writing into outputDir.
func NewFileManager(outputDir string, log *zap.Logger) *FileManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileManager{
		OutputDir: outputDir,
		Stdin:     os.Stdin,
		Now:       time.Now,
		log:       log,
	}
}

// =============================================================================
// INPUT ACQUISITION
// =============================================================================

// AcquireText returns the full content of source.
//
// PARAMETERS:
//   - ctx: Cancels the read before it starts.
//   - source: A file path, or "-" for standard input.
//
// RETURNS:
//   - The content. Binary inputs such as workbooks are returned unchanged.
//   - A *types.ReadError if the source cannot be read.
func (fm *FileManager) AcquireText(ctx context.Context, source string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &types.ReadError{Source: source, Err: err}
	}

	var (
		data []byte
		err  error
	)
	if source == StdinSource {
		data, err = io.ReadAll(fm.Stdin)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return "", &types.ReadError{Source: source, Err: err}
	}

	fm.log.Debug("acquired input", zap.String("source", source), zap.Int("bytes", len(data)))
	return string(data), nil
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an export file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {from}      - From status
//               {to}        - To status
//   - extension: The required extension, e.g. ".csv" or ".xml". Any other
//                extension in the formatted name is replaced.
//   - params: Extra placeholder values.
//
// EXAMPLE:
//   format: "payment_intervals_{timestamp}.csv"
//   output: "payment_intervals_20240115_143022.csv"
func (fm *FileManager) GenerateOutputFileName(format, extension string, params map[string]string) string {
	now := fm.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if extension != "" && !strings.EqualFold(filepath.Ext(result), extension) {
		result = strings.TrimSuffix(result, filepath.Ext(result)) + extension
	}

	return result
}

// StatusParams returns the {from} and {to} placeholder values.
func StatusParams(from, to int) map[string]string {
	return map[string]string{
		"from": strconv.Itoa(from),
		"to":   strconv.Itoa(to),
	}
}

// =============================================================================
// OUTPUT WRITING
// =============================================================================

// WriteOutput writes data to name inside the output directory.
//
// RETURNS:
//   - The path of the written file.
//   - An error if the directory or file cannot be written.
func (fm *FileManager) WriteOutput(name string, data []byte) (string, error) {
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	path := filepath.Join(fm.OutputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	fm.log.Info("wrote output", zap.String("path", path), zap.Int("bytes", len(data)))
	return path, nil
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary describes one analysis run for the summary log.
type RunSummary struct {
	RunID          string
	StartTime      time.Time
	EndTime        time.Time
	InputFile      string
	SuccessfulFile string
	FromStatus     int
	ToStatus       int
	RowsRead       int
	RowsSkipped    int
	Payments       int
	Results        int
	Filtered       int
	ExportFile     string
}

// WriteSummaryLog writes a run summary into the output directory.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func (fm *FileManager) WriteSummaryLog(summary RunSummary) (string, error) {
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("run_summary_%s.txt", fm.Now().Format("20060102_150405"))
	path := filepath.Join(fm.OutputDir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Payment Interval Analyzer - Run Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Input:          %s\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.InputFile)
	if summary.SuccessfulFile != "" {
		fmt.Fprintf(writer, "  Successful IDs: %s\n", summary.SuccessfulFile)
	}

	fmt.Fprintf(writer, "\nStatistics:\n"+
		"  Status Pair:    %d -> %d\n"+
		"  Rows Read:      %d\n"+
		"  Rows Skipped:   %d\n"+
		"  Payments:       %d\n"+
		"  Results:        %d\n"+
		"  After Filters:  %d\n",
		summary.FromStatus, summary.ToStatus,
		summary.RowsRead, summary.RowsSkipped,
		summary.Payments, summary.Results, summary.Filtered)
	if summary.ExportFile != "" {
		fmt.Fprintf(writer, "  Export:         %s\n", summary.ExportFile)
	}

	writer.WriteString("\n================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return path, nil
}
