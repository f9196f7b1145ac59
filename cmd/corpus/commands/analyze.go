package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/corpus/errors"
	"github.com/teranos/corpus/lex/analysis"
)

// AnalyzeCmd computes properties without storing anything
var AnalyzeCmd = &cobra.Command{
	Use:   "analyze VALUE",
	Short: "Compute string properties without storing",
	Long: `Run the analysis engine on VALUE and print the derived properties.
Nothing is persisted; no database is touched.

Examples:
  corpus analyze "racecar"
  corpus analyze "A man, a plan, a canal: Panama" --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var analyzeFormat string

func init() {
	AnalyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "table", "Output format (table/json)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if args[0] == "" {
		return errors.New("value must not be empty")
	}

	rec := analysis.NewRecord(args[0], time.Now())

	if analyzeFormat == "json" {
		return displayJSON(rec)
	}
	displayRecord(rec)
	return nil
}
