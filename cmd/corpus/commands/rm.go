package commands

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/corpus/errors"
	"github.com/teranos/corpus/lex/analysis"
	"github.com/teranos/corpus/lex/storage"
)

// RmCmd deletes a stored string by its exact value
var RmCmd = &cobra.Command{
	Use:     "rm VALUE",
	Aliases: []string{"delete"},
	Short:   "Delete a stored string by value",
	Long: `Delete the record for VALUE. The value is hashed to its content
address and removed by id. Deleting an absent value is an error.

Examples:
  corpus rm "racecar"`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

func runRm(cmd *cobra.Command, args []string) error {
	database, _, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	store := storage.NewSQLStore(database, nil)
	id := analysis.HashValue(args[0])

	if err := store.Delete(context.Background(), id); err != nil {
		if errors.IsNotFoundError(err) {
			return errors.Newf("no stored string with value %q", args[0])
		}
		return errors.Wrap(err, "failed to delete string")
	}

	pterm.Success.Printf("Deleted %q (id %s)\n", args[0], id[:8])
	return nil
}
