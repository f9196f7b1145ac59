package commands

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"

	"github.com/teranos/corpus/config"
	"github.com/teranos/corpus/db"
	"github.com/teranos/corpus/errors"
	"github.com/teranos/corpus/lex/types"
)

// openDatabase opens and migrates the database at the configured path.
// An explicit pathOverride (from --db-path) wins over config.
func openDatabase(pathOverride string) (*sql.DB, string, error) {
	path := pathOverride
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, "", errors.Wrap(err, "failed to load configuration")
		}
		path = cfg.GetDatabasePath()
	}

	database, err := db.OpenWithMigrations(path, nil)
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to open database %s", path)
	}
	return database, path, nil
}

// displayJSON pretty-prints v to stdout
func displayJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal output")
	}
	fmt.Println(string(out))
	return nil
}

// displayRecord prints one record with its full property set
func displayRecord(rec types.StringRecord) {
	pterm.DefaultSection.Println(rec.Value)
	pterm.Printf("  ID:         %s\n", rec.ID)
	pterm.Printf("  Length:     %d\n", rec.Properties.Length)
	pterm.Printf("  Palindrome: %t\n", rec.Properties.IsPalindrome)
	pterm.Printf("  Unique:     %d\n", rec.Properties.UniqueChars)
	pterm.Printf("  Words:      %d\n", rec.Properties.WordCount)
	pterm.Printf("  Created:    %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05 MST"))
}

// displayRecordsTable prints records as a compact table
func displayRecordsTable(records []types.StringRecord) error {
	if len(records) == 0 {
		pterm.Info.Println("No strings found")
		return nil
	}

	data := pterm.TableData{{"Value", "Length", "Words", "Unique", "Palindrome", "ID"}}
	for _, rec := range records {
		palindrome := ""
		if rec.Properties.IsPalindrome {
			palindrome = "yes"
		}
		data = append(data, []string{
			truncateValue(rec.Value, 40),
			fmt.Sprintf("%d", rec.Properties.Length),
			fmt.Sprintf("%d", rec.Properties.WordCount),
			fmt.Sprintf("%d", rec.Properties.UniqueChars),
			palindrome,
			rec.ID[:8],
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// truncateValue shortens long values for table display
func truncateValue(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-1]) + "…"
}

