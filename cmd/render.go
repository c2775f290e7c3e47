package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-mapviz/internal/canvas"
	"github.com/pable/go-cs-mapviz/internal/layer"
	"github.com/pable/go-cs-mapviz/internal/render"
	"github.com/pable/go-cs-mapviz/internal/report"
	"github.com/pable/go-cs-mapviz/internal/storage"
)

var (
	mapDataPath  string
	mapsDir      string
	renderRound  int
	renderEvery  int
	renderLayers []string
	renderOut    string
)

var renderCmd = &cobra.Command{
	Use:   "render <hash-prefix>",
	Short: "Draw replay layers on the map radar and write a PNG",
	Long: `Draw one or more layers of a stored demo over its map radar.

Layers are drawn in the order given and share the figure's two colorbar
slots. Player frames are thinned with --every.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&mapDataPath, "map-data", cfg.MapData, "map calibration JSON (env CSMAP_MAP_DATA)")
	renderCmd.Flags().StringVar(&mapsDir, "maps-dir", cfg.MapsDir, "directory of {map}.png radars (env CSMAP_MAPS_DIR)")
	renderCmd.Flags().IntVar(&renderRound, "round", storage.AllRounds, "only draw this round (0 = all)")
	renderCmd.Flags().IntVar(&renderEvery, "every", cfg.Every, "keep one player frame out of N (env CSMAP_EVERY)")
	renderCmd.Flags().StringSliceVar(&renderLayers, "layers", []string{layer.Frames}, "layers to draw: frames, kills, damages, grenades")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output PNG path (default {map}_{hash}.png)")
}

func runRender(cmd *cobra.Command, args []string) error {
	layers := make([]layer.Layer, 0, len(renderLayers))
	for _, name := range renderLayers {
		l, err := layer.Lookup(name)
		if err != nil {
			return err
		}
		layers = append(layers, l)
	}
	if renderEvery < 1 {
		return fmt.Errorf("--every must be at least 1, got %d", renderEvery)
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
	cal, err := lookupCalibration(mapDataPath, demo.MapName)
	if err != nil {
		return err
	}

	radar, err := canvas.LoadRadar(mapsDir, demo.MapName)
	if err != nil {
		return err
	}
	if radar == nil {
		cWarn.Fprintf(os.Stderr, "no radar for %s in %s; drawing placeholder\n", demo.MapName, mapsDir)
	}
	cv, err := canvas.New(demo.MapName, radar)
	if err != nil {
		return fmt.Errorf("new canvas: %w", err)
	}

	var sums []report.LayerSummary
	for _, l := range layers {
		stored, err := loadLayerTable(db, demo.DemoHash, l, renderRound)
		if err != nil {
			return err
		}
		sum, err := l.Draw(stored, cal, renderEvery, cv)
		var dre *render.DegenerateRangeError
		if errors.As(err, &dre) {
			cWarn.Fprintf(os.Stderr, "skipping %s: %v\n", l.Name, err)
			continue
		}
		if err != nil {
			return err
		}
		sums = append(sums, report.LayerSummary{Layer: l.Name, Summary: sum})
	}

	out := renderOut
	if out == "" {
		out = fmt.Sprintf("%s_%s.png", demo.MapName, demo.DemoHash[:12])
		if renderRound != storage.AllRounds {
			out = fmt.Sprintf("%s_%s_r%d.png", demo.MapName, demo.DemoHash[:12], renderRound)
		}
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := cv.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}

	report.PrintRenderSummary(os.Stdout, sums)
	cOK.Fprintf(os.Stdout, "Wrote %s\n", out)
	return nil
}
