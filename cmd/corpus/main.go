package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/corpus/cmd/corpus/commands"
	"github.com/teranos/corpus/config"
	"github.com/teranos/corpus/logger"
)

var jsonLogs bool

var rootCmd = &cobra.Command{
	Use:   "corpus",
	Short: "corpus - String analysis with content-addressed storage",
	Long: `corpus - Analyze strings, store them by content hash, and query them
with structured filters or plain English.

Available commands:
  serve   - Start the corpus HTTP daemon
  add     - Analyze and store strings
  get     - Fetch a stored string by value
  ls      - List stored strings with optional filters
  ask     - Query stored strings in plain English
  analyze - Compute properties without storing
  rm      - Delete a stored string by value
  db      - Manage database migrations
  config  - Inspect configuration
  version - Show build information

Examples:
  corpus add "racecar"                       # Analyze and store
  corpus ls --palindrome                     # List palindromes
  corpus ask all single word palindromes     # Plain-English query
  corpus serve                               # Start the daemon`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if verbosity == 0 {
			if cfg, err := config.Load(); err == nil {
				verbosity = cfg.Logging.Verbosity
				jsonLogs = jsonLogs || cfg.Logging.JSON
			}
		}
		if err := logger.Initialize(verbosity, jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "Emit logs as JSON")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.AddCmd)
	rootCmd.AddCommand(commands.GetCmd)
	rootCmd.AddCommand(commands.LsCmd)
	rootCmd.AddCommand(commands.AskCmd)
	rootCmd.AddCommand(commands.AnalyzeCmd)
	rootCmd.AddCommand(commands.RmCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
