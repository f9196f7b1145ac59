package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/teranos/corpus/errors"
	"github.com/teranos/corpus/internal/util"
	"github.com/teranos/corpus/lex/filter"
	"github.com/teranos/corpus/lex/storage"
	"github.com/teranos/corpus/lex/types"
)

// LsCmd lists stored strings with optional structured filters
var LsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored strings with optional filters",
	Long: `List stored strings in creation order, optionally filtered.

All given filters must hold (logical AND). Length bounds are inclusive;
--contains is case-insensitive.

Examples:
  corpus ls                              # Everything
  corpus ls --palindrome --word-count 1  # Single-word palindromes
  corpus ls --min-length 5 --contains a  # At least 5 chars, containing 'a'`,
	RunE: runLs,
}

var (
	lsMinLength int
	lsMaxLength int
	lsWordCount int
	lsPalin     bool
	lsContains  string
	lsUnique    int
	lsLimit     int
	lsFormat    string
)

func init() {
	LsCmd.Flags().IntVar(&lsMinLength, "min-length", -1, "Minimum length (inclusive)")
	LsCmd.Flags().IntVar(&lsMaxLength, "max-length", -1, "Maximum length (inclusive)")
	LsCmd.Flags().IntVar(&lsWordCount, "word-count", -1, "Exact word count")
	LsCmd.Flags().BoolVar(&lsPalin, "palindrome", false, "Only palindromes")
	LsCmd.Flags().StringVar(&lsContains, "contains", "", "Single character the value must contain (case-insensitive)")
	LsCmd.Flags().IntVar(&lsUnique, "unique", -1, "Exact distinct-character count")
	LsCmd.Flags().IntVarP(&lsLimit, "limit", "l", 0, "Maximum number of results (0 = all)")
	LsCmd.Flags().StringVarP(&lsFormat, "format", "f", "table", "Output format (table/json)")
}

// filterFromFlags assembles the predicate from the set flags. The -1
// sentinel for int flags means "not set"; 0 stays a legal exact value for
// --word-count and --unique.
func filterFromFlags(cmd *cobra.Command) types.Filter {
	var f types.Filter
	if cmd.Flags().Changed("min-length") && lsMinLength >= 0 {
		f.MinLength = util.Ptr(lsMinLength)
	}
	if cmd.Flags().Changed("max-length") && lsMaxLength >= 0 {
		f.MaxLength = util.Ptr(lsMaxLength)
	}
	if cmd.Flags().Changed("word-count") && lsWordCount >= 0 {
		f.WordCount = util.Ptr(lsWordCount)
	}
	if cmd.Flags().Changed("palindrome") {
		f.IsPalindrome = util.Ptr(lsPalin)
	}
	if lsContains != "" {
		f.ContainsCharacter = util.Ptr(lsContains)
	}
	if cmd.Flags().Changed("unique") && lsUnique >= 0 {
		f.UniqueChars = util.Ptr(lsUnique)
	}
	return f
}

func runLs(cmd *cobra.Command, args []string) error {
	f := filterFromFlags(cmd)
	if err := filter.Validate(f); err != nil {
		return errors.Wrap(err, "invalid filter")
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

	matched := filter.Apply(records, f)
	if lsLimit > 0 && len(matched) > lsLimit {
		matched = matched[:lsLimit]
	}

	if lsFormat == "json" {
		return displayJSON(matched)
	}
	return displayRecordsTable(matched)
}
