package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-mapviz/internal/parser"
	"github.com/pable/go-cs-mapviz/internal/report"
	"github.com/pable/go-cs-mapviz/internal/storage"
)

var (
	matchType     string
	frameInterval int
	parseForce    bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <demo.dem>",
	Short: "Parse a CS2 demo file and store its replay tables",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&matchType, "type", "Competitive", "match type label")
	parseCmd.Flags().IntVar(&frameInterval, "interval", parser.DefaultFrameInterval, "ticks between player position samples")
	parseCmd.Flags().BoolVarP(&parseForce, "force", "f", false, "re-store the demo even if it is already cached")
}

func runParse(cmd *cobra.Command, args []string) error {
	demoPath := args[0]

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Parsing %s...\n", demoPath)
	replay, err := parser.ParseDemo(demoPath, parser.Options{MatchType: matchType, FrameInterval: frameInterval})
	if err != nil {
		return fmt.Errorf("parse demo: %w", err)
	}
	hash := replay.Match.DemoHash

	exists, err := db.DemoExists(hash)
	if err != nil {
		return fmt.Errorf("check demo: %w", err)
	}
	if exists && !parseForce {
		cMuted.Fprintf(os.Stdout, "Demo %s already stored; use --force to replace it.\n", hash[:12])
		return showByHash(db, hash)
	}

	if err := db.InsertReplay(replay); err != nil {
		return fmt.Errorf("store replay: %w", err)
	}
	cOK.Fprintf(os.Stdout, "Stored %s\n", hash[:12])
	report.PrintMatchSummary(os.Stdout, replay.Match)
	fmt.Fprintf(os.Stdout, "frames: %d  kills: %d  damages: %d  grenades: %d\n",
		len(replay.Frames), len(replay.Kills), len(replay.Damages), len(replay.Grenades))
	return nil
}
