package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/teranos/corpus/errors"
	"github.com/teranos/corpus/lex/storage"
)

// GetCmd fetches a stored string by its exact value
var GetCmd = &cobra.Command{
	Use:   "get VALUE",
	Short: "Fetch a stored string by value",
	Long: `Look up the record for VALUE. The value is hashed to its content
address, so lookup cost does not depend on the stored volume.

Examples:
  corpus get "racecar"
  corpus get "Hello World" --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var getFormat string

func init() {
	GetCmd.Flags().StringVarP(&getFormat, "format", "f", "table", "Output format (table/json)")
}

func runGet(cmd *cobra.Command, args []string) error {
	database, _, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	store := storage.NewSQLStore(database, nil)

	rec, err := store.GetByValue(context.Background(), args[0])
	if err != nil {
		if errors.IsNotFoundError(err) {
			return errors.Newf("no stored string with value %q", args[0])
		}
		return errors.Wrap(err, "failed to fetch string")
	}

	if getFormat == "json" {
		return displayJSON(rec)
	}
	displayRecord(rec)
	return nil
}
