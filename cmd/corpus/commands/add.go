package commands

import (
	"context"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/corpus/errors"
	"github.com/teranos/corpus/lex/analysis"
	"github.com/teranos/corpus/lex/storage"
)

// AddCmd analyzes and stores one or more strings
var AddCmd = &cobra.Command{
	Use:   "add VALUE...",
	Short: "Analyze and store strings",
	Long: `Analyze each VALUE and store it keyed by its content hash.

Properties are computed once at creation: length, palindrome
classification, distinct characters, word count, and the character
frequency map. Storing the same value twice is a conflict.

Examples:
  corpus add "racecar"
  corpus add "Hello World" "A man, a plan, a canal: Panama"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var addFormat string

func init() {
	AddCmd.Flags().StringVarP(&addFormat, "format", "f", "table", "Output format (table/json)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	database, _, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	store := storage.NewSQLStore(database, nil)
	ctx := context.Background()

	var failed bool
	for _, value := range args {
		if value == "" {
			pterm.Error.Println("Skipping empty value")
			failed = true
			continue
		}

		rec := analysis.NewRecord(value, time.Now())
		if err := store.Create(ctx, rec); err != nil {
			if errors.IsConflictError(err) {
				pterm.Warning.Printf("Already stored: %q (id %s)\n", value, rec.ID[:8])
			} else {
				pterm.Error.Printf("Failed to store %q: %v\n", value, err)
				failed = true
			}
			continue
		}

		if addFormat == "json" {
			if err := displayJSON(rec); err != nil {
				return err
			}
		} else {
			pterm.Success.Printf("Stored %q\n", value)
			displayRecord(rec)
		}
	}

	if failed {
		return errors.New("some values could not be stored")
	}
	return nil
}
