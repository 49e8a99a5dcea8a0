// =============================================================================
// Payment Interval Analyzer - Config Command
// =============================================================================
//
// COMMAND USAGE:
//   interval-analyzer config init [--force]
//
// Writes the built-in configuration to the --config path (default config.yaml)
// as a starting point for local edits.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/config"
	"github.com/spf13/cobra"
)

// forceOverwrite allows config init to replace an existing file.
var forceOverwrite bool

// configCmd groups configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

// configInitCmd represents the 'config init' command.
var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a default configuration file",
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefault(cfgFile, forceOverwrite); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", cfgFile)
		return nil
	},
}

// init registers the config commands with the root command.
func init() {
	configInitCmd.Flags().BoolVarP(&forceOverwrite, "force", "f", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
