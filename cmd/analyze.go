// =============================================================================
// Payment Interval Analyzer - Analyze Command
// =============================================================================
//
// This file defines the 'analyze' command, the main command of the tool. It
// runs the whole pipeline on one event log and prints the result report.
//
// COMMAND USAGE:
//   interval-analyzer analyze --input <file> [flags]
//
// FLAGS:
//   --input            : Event log (CSV or XLSX, "-" for stdin)
//   --successful       : Successful-payments list (CSV or XLSX, "paymentId" column)
//   --from / --to      : Status pair to measure (default from config, 2 -> 8)
//   --date             : Keep results on this DD/MM/YYYY date
//   --terminal         : Keep results whose terminal id contains this text
//   --payment          : Keep results whose payment id contains this text
//   --min-seconds      : Keep results strictly slower than N seconds
//   --only-successful  : Keep results listed in --successful
//   --export           : Write the filtered results to the output directory
//   --format           : Export format, csv or xml
//   --skip-log         : Write the skipped-rows report to the output directory
//   --summary          : Write a run summary to the output directory
//
// PROCESSING PIPELINE:
//   1. Resolve settings (config + flags)
//   2. Load and analyze the event log
//   3. Load the successful-payments list, if any
//   4. Apply the filters
//   5. Print the report
//   6. Export, write logs
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/analyzer"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/config"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/filter"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/validation"
	"github.com/ginjaninja78/payment-interval-analyzer/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	inputFile      string
	successfulFile string
	fromStatus     int
	toStatus       int
	filterDate     string
	filterTerminal string
	filterPayment  string
	minSeconds     int64
	onlySuccessful bool
	exportResults  bool
	exportFormat   string
	outputDir      string
	writeSkipLog   bool
	writeSummary   bool
)

// =============================================================================
// ANALYZE COMMAND DEFINITION
// =============================================================================

// analyzeCmd represents the 'analyze' command.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Measure the time between two statuses for every payment",
	Long: `The analyze command reads a payment event log, extracts the lifecycle status
of every event, and reports, per payment, the time between the first event with
the "from" status and the first event with the "to" status.

Payments missing either status, or whose "to" event is not after the "from"
event, are left out. Rows without a payment id, timestamp or readable status
are skipped and counted.

Intervals above analysis.slow_threshold_seconds are marked SLOW in the report.

Examples:
  interval-analyzer analyze --input events.csv
  interval-analyzer analyze --input events.csv --successful ok.csv --only-successful
  interval-analyzer analyze --input events.xlsx --min-seconds 10 --export --format xml`,
	RunE: runAnalyze,
}

// runAnalyze executes the analyze command.
func runAnalyze(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	cfg := resolveSettings(cmd, appConfig)
	out := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: LOAD THE EVENT LOG
	// =========================================================================

	fm := utils.NewFileManager(cfg.Output.Dir, logger)
	session := analyzer.NewSession(fm, cfg.Input, analyzer.Options{
		FromStatus: cfg.Analysis.FromStatus,
		ToStatus:   cfg.Analysis.ToStatus,
	}, logger)

	summary, err := session.LoadPrimary(cmd.Context(), inputFile)
	if err != nil {
		return describeBatchError(err)
	}

	if summary.Condition == types.ConditionNoMatchingPairs {
		fmt.Fprintf(out, "Warning: %s\n\n", summary.Message)
	}

	// =========================================================================
	// STEP 2: LOAD SUCCESSFUL PAYMENTS
	// =========================================================================
	// A bad list is reported but does not stop the analysis.

	if successfulFile != "" {
		n, err := session.LoadSuccessful(cmd.Context(), successfulFile)
		if err != nil {
			fmt.Fprintf(out, "Warning: successful payments not loaded: %v\n\n", err)
		} else {
			fmt.Fprintf(out, "Loaded %d successful payment IDs\n\n", n)
		}
	} else if onlySuccessful {
		logger.Warn("--only-successful has no effect without --successful")
	}

	// =========================================================================
	// STEP 3: FILTER AND REPORT
	// =========================================================================

	criteria := buildCriteria(cmd)
	filtered := session.ApplyFilter(criteria)

	report := analyzer.BuildReport(filtered, cfg.Analysis.SlowThresholdSeconds)
	renderSummary(out, session, summary, len(filtered))
	if err := renderReport(out, report, session.Options()); err != nil {
		return err
	}

	// =========================================================================
	// STEP 4: EXPORT AND LOGS
	// =========================================================================

	var exportPath string
	if exportResults {
		data, err := session.Export(cfg.Output.Format)
		if err != nil {
			return describeBatchError(err)
		}

		name := fm.GenerateOutputFileName(cfg.Output.FileNameFormat, "."+strings.ToLower(cfg.Output.Format),
			utils.StatusParams(cfg.Analysis.FromStatus, cfg.Analysis.ToStatus))
		exportPath, err = fm.WriteOutput(name, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nExported %d rows to %s\n", len(filtered), exportPath)
	}

	if writeSkipLog {
		if err := fm.EnsureDirectories(); err != nil {
			return err
		}
		path := filepath.Join(cfg.Output.Dir,
			fmt.Sprintf("skipped_rows_%s.txt", fm.Now().Format("20060102_150405")))
		if err := validation.WriteErrorLog(session.Report(), path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Skipped rows report written to %s\n", path)
	}

	if writeSummary {
		path, err := fm.WriteSummaryLog(utils.RunSummary{
			RunID:          session.RunID(),
			StartTime:      startTime,
			EndTime:        time.Now(),
			InputFile:      inputFile,
			SuccessfulFile: successfulFile,
			FromStatus:     cfg.Analysis.FromStatus,
			ToStatus:       cfg.Analysis.ToStatus,
			RowsRead:       summary.RowsRead,
			RowsSkipped:    summary.RowsSkipped,
			Payments:       summary.Payments,
			Results:        summary.Results,
			Filtered:       len(filtered),
			ExportFile:     exportPath,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Run summary written to %s\n", path)
	}

	logger.Debug("analysis complete",
		zap.String("run_id", session.RunID()),
		zap.Duration("elapsed", time.Since(startTime)))

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// resolveSettings applies command flags over the loaded configuration.
func resolveSettings(cmd *cobra.Command, base *config.Config) config.Config {
	cfg := *config.Default()
	if base != nil {
		cfg = *base
	}

	flags := cmd.Flags()
	if flags.Changed("from") {
		cfg.Analysis.FromStatus = fromStatus
	}
	if flags.Changed("to") {
		cfg.Analysis.ToStatus = toStatus
	}
	if flags.Changed("format") {
		cfg.Output.Format = exportFormat
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir = outputDir
	}

	return cfg
}

// buildCriteria maps the filter flags onto filter criteria.
func buildCriteria(cmd *cobra.Command) filter.Criteria {
	criteria := filter.Criteria{
		Date:           filterDate,
		TerminalID:     filterTerminal,
		PaymentID:      filterPayment,
		OnlySuccessful: onlySuccessful,
	}
	if cmd.Flags().Changed("min-seconds") {
		criteria.TimeDifference = filter.Seconds(minSeconds)
	}
	return criteria
}

// describeBatchError turns batch conditions into the messages users expect.
func describeBatchError(err error) error {
	var readErr *types.ReadError
	switch {
	case errors.As(err, &readErr):
		return fmt.Errorf("error reading input: %w", err)
	case errors.Is(err, types.ErrMalformedBatch):
		return fmt.Errorf("error parsing input: %w", err)
	case errors.Is(err, types.ErrNoUsableRows):
		return fmt.Errorf("no valid data could be processed: %w", err)
	case errors.Is(err, types.ErrEmptyExport):
		return errors.New("no data to export")
	}
	return err
}

// renderSummary prints the run counts.
func renderSummary(w io.Writer, session *analyzer.Session, summary analyzer.Summary, filtered int) {
	fmt.Fprintf(w, "Rows read: %d, skipped: %d, payments: %d, intervals: %d",
		summary.RowsRead, summary.RowsSkipped, summary.Payments, summary.Results)
	if !session.Criteria().IsEmpty() {
		fmt.Fprintf(w, ", after filters: %d", filtered)
	}
	fmt.Fprintln(w)
}

// renderReport prints the results grouped by payment id.
//
// OUTPUT:
//   Payment Intervals (status 2 -> 8)
//   Payment IDs: 1   Transactions: 1   Slow (> 10s): 0
//
//   PAYMENT ID  FROM STATUS TIME      TO STATUS TIME        TIME (ms)  TERMINAL  MERCHANT  DATE
//   P1          2024-01-01T10:00:00Z  2024-01-01T10:00:07Z  7000       T1        M1        01/01/2024
func renderReport(w io.Writer, report *analyzer.ResultReport, opts analyzer.Options) error {
	fmt.Fprintf(w, "\nPayment Intervals (status %d -> %d)\n", opts.FromStatus, opts.ToStatus)
	fmt.Fprintf(w, "Payment IDs: %d   Transactions: %d   Slow (> %ds): %d\n\n",
		report.PaymentCount, report.TransactionCount, report.SlowThresholdMs/1000, report.SlowCount)

	if report.TransactionCount == 0 {
		fmt.Fprintln(w, "No results.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PAYMENT ID\tFROM STATUS TIME\tTO STATUS TIME\tTIME (ms)\tTERMINAL\tMERCHANT\tDATE\t")

	for _, payment := range report.Payments {
		for _, line := range payment.Intervals {
			diff := line.TimeDifferenceMs
			if line.Slow {
				diff += " SLOW"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
				line.PaymentID, line.FromStatusTime, line.ToStatusTime, diff,
				line.TerminalID, line.MerchantID, line.Date)
		}
	}

	return tw.Flush()
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the analyze command and its flags.
func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Event log to analyze (CSV or XLSX, - for stdin)")
	analyzeCmd.MarkFlagRequired("input")
	analyzeCmd.Flags().StringVarP(&successfulFile, "successful", "s", "", "Successful payments list with a paymentId column")

	registerStatusFlags(analyzeCmd)

	analyzeCmd.Flags().StringVar(&filterDate, "date", "", "Keep results on this date (DD/MM/YYYY)")
	analyzeCmd.Flags().StringVar(&filterTerminal, "terminal", "", "Keep results whose terminal id contains this text")
	analyzeCmd.Flags().StringVar(&filterPayment, "payment", "", "Keep results whose payment id contains this text")
	analyzeCmd.Flags().Int64Var(&minSeconds, "min-seconds", 0, "Keep results slower than this many seconds")
	analyzeCmd.Flags().BoolVar(&onlySuccessful, "only-successful", false, "Keep only payments listed in --successful")

	analyzeCmd.Flags().BoolVarP(&exportResults, "export", "e", false, "Export the filtered results")
	analyzeCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format: csv or xml")
	analyzeCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output directory (default from config)")
	analyzeCmd.Flags().BoolVar(&writeSkipLog, "skip-log", false, "Write the skipped-rows report")
	analyzeCmd.Flags().BoolVar(&writeSummary, "summary", false, "Write a run summary file")
}

// registerStatusFlags adds --from and --to to cmd.
func registerStatusFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&fromStatus, "from", 2, "Status that starts the interval")
	cmd.Flags().IntVar(&toStatus, "to", 8, "Status that ends the interval")
}
