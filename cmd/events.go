package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-mapviz/internal/layer"
	"github.com/pable/go-cs-mapviz/internal/projection"
	"github.com/pable/go-cs-mapviz/internal/report"
	"github.com/pable/go-cs-mapviz/internal/storage"
	"github.com/pable/go-cs-mapviz/internal/table"
)

var (
	eventsRound   int
	eventsLimit   int
	eventsProject bool
	eventsMapData string
)

var eventsCmd = &cobra.Command{
	Use:   "events <hash-prefix> <layer>",
	Short: "Print a layer's long event table",
	Long: `Reshape a stored table the way a render layer does and print the result.

Layers: frames, kills, damages, grenades. With --project the x/y columns are
converted to pixel coordinates using the map calibration.`,
	Args: cobra.ExactArgs(2),
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().IntVar(&eventsRound, "round", storage.AllRounds, "only rows of this round (0 = all)")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 20, "maximum rows to print (0 = all)")
	eventsCmd.Flags().BoolVar(&eventsProject, "project", false, "project x/y to pixel coordinates")
	eventsCmd.Flags().StringVar(&eventsMapData, "map-data", cfg.MapData, "map calibration JSON (env CSMAP_MAP_DATA)")
}

func runEvents(cmd *cobra.Command, args []string) error {
	l, err := layer.Lookup(args[1])
	if err != nil {
		return err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	demo, err := findDemo(db, args[0])
	if err != nil {
		return err
	}
	stored, err := loadLayerTable(db, demo.DemoHash, l, eventsRound)
	if err != nil {
		return err
	}

	var out *table.Table
	if eventsProject {
		cal, err := lookupCalibration(eventsMapData, demo.MapName)
		if err != nil {
			return err
		}
		out, err = l.Points(stored, cal, 1)
		if err != nil {
			return err
		}
	} else {
		out, err = l.Long(stored)
		if err != nil {
			return err
		}
	}
	report.PrintTable(os.Stdout, out, eventsLimit)
	return nil
}

func loadLayerTable(db *storage.DB, hash string, l layer.Layer, round int) (*table.Table, error) {
	t, err := db.GetTable(hash, l.Table, round)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", l.Table, err)
	}
	if t == nil {
		return nil, fmt.Errorf("table %s not stored for %s; re-run parse --force", l.Table, hash[:12])
	}
	return t, nil
}

func lookupCalibration(path, mapName string) (projection.Calibration, error) {
	f, err := os.Open(path)
	if err != nil {
		return projection.Calibration{}, fmt.Errorf("open map data: %w", err)
	}
	defer f.Close()
	reg, err := projection.LoadRegistry(f)
	if err != nil {
		return projection.Calibration{}, fmt.Errorf("load map data %s: %w", path, err)
	}
	return reg.Lookup(mapName)
}
