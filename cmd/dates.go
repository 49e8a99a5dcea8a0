// =============================================================================
// Payment Interval Analyzer - Dates Command
// =============================================================================
//
// This file defines the 'dates' command, which lists the distinct dates of the
// computed intervals. These are the values accepted by analyze --date.
//
// COMMAND USAGE:
//   interval-analyzer dates --input events.csv [--from 2 --to 8]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/analyzer"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/filter"
	"github.com/ginjaninja78/payment-interval-analyzer/pkg/utils"
	"github.com/spf13/cobra"
)

// datesCmd represents the 'dates' command.
var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List the dates present in the interval results",
	Long: `List the distinct DD/MM/YYYY dates of the computed intervals, sorted.
Use one of them with 'analyze --date'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := resolveSettings(cmd, appConfig)

		fm := utils.NewFileManager(cfg.Output.Dir, logger)
		session := analyzer.NewSession(fm, cfg.Input, analyzer.Options{
			FromStatus: cfg.Analysis.FromStatus,
			ToStatus:   cfg.Analysis.ToStatus,
		}, logger)

		if _, err := session.LoadPrimary(cmd.Context(), inputFile); err != nil {
			return describeBatchError(err)
		}

		for _, date := range filter.AvailableDates(session.Results()) {
			fmt.Fprintln(cmd.OutOrStdout(), date)
		}
		return nil
	},
}

// init registers the dates command with the root command.
func init() {
	rootCmd.AddCommand(datesCmd)

	datesCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Event log to analyze (CSV or XLSX, - for stdin)")
	datesCmd.MarkFlagRequired("input")
	registerStatusFlags(datesCmd)
}
