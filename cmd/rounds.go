package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-mapviz/internal/model"
	"github.com/pable/go-cs-mapviz/internal/report"
	"github.com/pable/go-cs-mapviz/internal/storage"
)

// roundsCmd lists the rounds of one match, to pick a --round for render.
var roundsCmd = &cobra.Command{
	Use:   "rounds <hash-prefix>",
	Short: "List the rounds of a stored demo",
	Args:  cobra.ExactArgs(1),
	RunE:  runRounds,
}

func runRounds(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	demo, err := findDemo(db, args[0])
	if err != nil {
		return err
	}
	rounds, err := db.GetTable(demo.DemoHash, model.TableRounds, storage.AllRounds)
	if err != nil {
		return fmt.Errorf("load rounds: %w", err)
	}
	if rounds == nil || rounds.Len() == 0 {
		fmt.Fprintln(os.Stdout, "No rounds stored for this demo.")
		return nil
	}
	report.PrintMatchSummary(os.Stdout, *demo)
	report.PrintTable(os.Stdout, rounds, 0)
	return nil
}
