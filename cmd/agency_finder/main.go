package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/agency-finder/cmd/agency_finder/commands"
	"github.com/gcbaptista/agency-finder/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "agency_finder",
	Short: "Agency finder - match operator input against existing agency records",
	Long: `Agency finder looks up existing agency records from the few fields an
operator types (business name, suburb, state, postcode) and ranks them by
similarity, offering a pre-filled new record when nothing matches.

Examples:
  agency_finder serve                                 # Start the HTTP API
  agency_finder search "Stanford Legal" --suburb Richmond
  agency_finder import agencies.yaml                  # Seed the local backend`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return commands.Initialize(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (yaml, json or toml)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit JSON logs")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.SearchCmd)
	rootCmd.AddCommand(commands.ImportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
