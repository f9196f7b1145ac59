package commands

import (
	"context"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/corpus/config"
	"github.com/teranos/corpus/errors"
	"github.com/teranos/corpus/lex/filter"
	"github.com/teranos/corpus/lex/parser"
	"github.com/teranos/corpus/lex/storage"
)

// AskCmd queries stored strings in plain English
var AskCmd = &cobra.Command{
	Use:   "ask QUERY...",
	Short: "Query stored strings in plain English",
	Long: `Interpret QUERY with the phrase rule table and run the resulting
filter over the stored strings.

Recognized phrases include "single word", "palindrome"/"palindromic",
"longer than N", "shorter than N", "containing the letter X", and
"first vowel". A query matching none of them is an error, not an
unfiltered listing.

Examples:
  corpus ask all single word palindromic strings
  corpus ask strings longer than 10 characters
  corpus ask strings containing the letter z`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var (
	askFormat  string
	askExplain bool
)

func init() {
	AskCmd.Flags().StringVarP(&askFormat, "format", "f", "table", "Output format (table/json)")
	AskCmd.Flags().BoolVar(&askExplain, "explain", false, "Print the rule table in application order before interpreting")
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	interp := parser.New(parser.WithFirstVowel(cfg.GetFirstVowel()))
	if askExplain {
		pterm.Info.Printf("Rule order: %s\n", strings.Join(interp.Explain(), ", "))
	}
	parsed, err := interp.Interpret(query)
	if err != nil {
		if errors.IsUninterpretableError(err) {
			return errors.Newf("could not interpret %q: no recognized phrases", query)
		}
		return errors.Wrap(err, "failed to interpret query")
	}
	if err := filter.Validate(parsed); err != nil {
		return errors.Wrap(err, "query produced an invalid filter")
	}

	database, _, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	store := storage.NewSQLStore(database, nil)
	records, err := store.List(context.Background())
	if err != nil {
		return errors.Wrap(err, "failed to list strings")
	}

	matched := filter.Apply(records, parsed)

	if askFormat == "json" {
		return displayJSON(map[string]interface{}{
			"query":          query,
			"parsed_filters": parsed,
			"data":           matched,
			"count":          len(matched),
		})
	}

	pterm.Info.Printf("Interpreted %q as filters on: %s\n", query, strings.Join(parsed.Fields(), ", "))
	return displayRecordsTable(matched)
}
