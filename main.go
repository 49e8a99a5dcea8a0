// =============================================================================
// Payment Interval Analyzer - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Payment Interval Analyzer CLI. It
// delegates command execution to the cmd package.
//
// USAGE:
//   interval-analyzer analyze   - Measure status intervals in an event log
//   interval-analyzer dates     - List the dates present in the results
//   interval-analyzer config    - Write a default configuration file
//   interval-analyzer version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Parsing, analysis, filtering and export
//   - pkg/           : Filesystem utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/payment-interval-analyzer/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
