package commands

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/corpus/config"
	"github.com/teranos/corpus/db"
	"github.com/teranos/corpus/errors"
	"github.com/teranos/corpus/lex/storage"
)

// DbCmd groups database management subcommands
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the corpus database",
	Long: `Database operations: apply pending migrations and inspect the
current state.

Examples:
  corpus db migrate
  corpus db status`,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, path, err := openDatabase("")
		if err != nil {
			return err
		}
		defer database.Close()

		// openDatabase already migrated; report the resulting state
		versions, err := db.AppliedVersions(database)
		if err != nil {
			return errors.Wrap(err, "failed to read applied migrations")
		}

		pterm.Success.Printf("Database %s is at migration %s (%d applied)\n",
			path, versions[len(versions)-1], len(versions))
		return nil
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database path, migrations, and record count",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load configuration")
		}

		database, path, err := openDatabase("")
		if err != nil {
			return err
		}
		defer database.Close()

		versions, err := db.AppliedVersions(database)
		if err != nil {
			return errors.Wrap(err, "failed to read applied migrations")
		}

		store := storage.NewSQLStore(database, nil)
		count, err := store.Count(context.Background())
		if err != nil {
			return errors.Wrap(err, "failed to count strings")
		}

		pterm.Printf("Path:       %s\n", path)
		pterm.Printf("Configured: %s\n", cfg.GetDatabasePath())
		pterm.Printf("Migrations: %v\n", versions)
		pterm.Printf("Strings:    %d\n", count)
		return nil
	},
}

func init() {
	DbCmd.AddCommand(dbMigrateCmd)
	DbCmd.AddCommand(dbStatusCmd)
}
