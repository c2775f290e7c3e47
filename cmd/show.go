package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-mapviz/internal/model"
	"github.com/pable/go-cs-mapviz/internal/report"
	"github.com/pable/go-cs-mapviz/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <hash-prefix>",
	Short: "Show a stored demo and its tables",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	demo, err := findDemo(db, args[0])
	if err != nil {
		return err
	}
	return showByHash(db, demo.DemoHash)
}

// findDemo resolves a hash prefix to a stored demo.
func findDemo(db *storage.DB, prefix string) (*model.MatchSummary, error) {
	demo, err := db.GetDemoByPrefix(prefix)
	if err != nil {
		return nil, fmt.Errorf("query demo: %w", err)
	}
	if demo == nil {
		return nil, fmt.Errorf("no demo found with hash prefix %q", prefix)
	}
	return demo, nil
}

func showByHash(db *storage.DB, hash string) error {
	demo, err := findDemo(db, hash)
	if err != nil {
		return err
	}
	report.PrintMatchSummary(os.Stdout, *demo)

	names, err := db.ListTables(demo.DemoHash)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	for _, name := range names {
		t, err := db.GetTable(demo.DemoHash, name, storage.AllRounds)
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		fmt.Fprintf(os.Stdout, "  %-14s %7d rows  %d columns\n", name, t.Len(), len(t.Columns()))
	}
	return nil
}
