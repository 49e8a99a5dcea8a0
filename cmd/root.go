// =============================================================================
// Payment Interval Analyzer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (interval-analyzer)
//   ├── analyzeCmd (interval-analyzer analyze)
//   ├── datesCmd   (interval-analyzer dates)
//   ├── configCmd  (interval-analyzer config init)
//   └── versionCmd (interval-analyzer version)
//
// BOOTSTRAP:
//   Before any subcommand runs, the root command:
//   1. Loads a .env file from the working directory, if present
//   2. Loads the YAML configuration (defaults + file + INTERVAL_* variables)
//   3. Builds the zap logger from log_level and --verbose
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/config"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig is the configuration loaded by the bootstrap.
var appConfig *config.Config

// logger is the application logger built by the bootstrap.
var logger = zap.NewNop()

// skipConfigAnnotation marks commands that must run without loading the
// configuration (for example, to write a fresh one).
const skipConfigAnnotation = "skip-config"

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "interval-analyzer",

	Short: "Payment Interval Analyzer - Measure time between payment lifecycle statuses",

	Long: `Payment Interval Analyzer reads payment event logs exported as CSV or XLSX,
reconstructs each payment's status history, and measures the time between two
lifecycle statuses (by default 2 -> 8).

Key Features:
  - Tolerant parsing of escaped or double-encoded JSON event bodies
  - Heterogeneous timestamp formats
  - Filtering by date, terminal, payment, minimum interval and a
    successful-payments allow-list
  - CSV or XML export of the filtered results

Example Usage:
  interval-analyzer analyze --input events.csv
  interval-analyzer analyze --input events.xlsx --from 2 --to 8 --min-seconds 10 --export
  interval-analyzer dates --input events.csv
  interval-analyzer config init`,

	SilenceUsage: true,

	PersistentPreRunE: bootstrap,

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// BOOTSTRAP
// =============================================================================

// bootstrap loads .env, the configuration and the logger.
func bootstrap(cmd *cobra.Command, args []string) error {
	envErr := godotenv.Load()
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", envErr)
	}

	if cmd.Annotations[skipConfigAnnotation] == "true" {
		appConfig = config.Default()
	} else {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg
	}

	log, err := logging.New(appConfig.LogLevel, verbose)
	if err != nil {
		return err
	}
	logger = log

	logger.Debug("configuration loaded",
		zap.String("config", cfgFile),
		zap.Bool("dotenv", envErr == nil),
		zap.String("log_level", appConfig.LogLevel))

	return nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// --config flag: Allows the user to specify a custom configuration file.
	// A missing file falls back to the built-in defaults.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
