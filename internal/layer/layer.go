// Package layer holds the presets that turn a stored replay table into
// points on a map: how it is reshaped, which positions are projected and
// how the points are drawn.
package layer

import (
	"fmt"
	"sort"

	"github.com/pable/go-cs-mapviz/internal/model"
	"github.com/pable/go-cs-mapviz/internal/projection"
	"github.com/pable/go-cs-mapviz/internal/render"
	"github.com/pable/go-cs-mapviz/internal/reshape"
	"github.com/pable/go-cs-mapviz/internal/table"
)

// Layer names.
const (
	Frames   = "frames"
	Kills    = "kills"
	Damages  = "damages"
	Grenades = "grenades"
)

// MultiHitColumn is stamped on damage rows that collapsed repeated hits.
const MultiHitColumn = "multi_hit"

// UnknownLayerError is returned by Lookup for an unregistered name.
type UnknownLayerError struct {
	Name string
}

func (e *UnknownLayerError) Error() string {
	return fmt.Sprintf("unknown layer %q (have %v)", e.Name, Names())
}

// Layer binds a stored table to its reshape and render settings.
type Layer struct {
	Name string
	// Table is the stored table the layer reads.
	Table string
	// Groups are the status groups of a wide table. Nil means the table is
	// already long and is used as is.
	Groups  []reshape.StatusGroup
	Reshape reshape.Options
	Render  render.Options
	// Thin applies the every-N row sampling in Points.
	Thin bool
}

var sideColormaps = []render.CategoryColormap{
	{Category: "ct", Colormap: "Blues"},
	{Category: "t", Colormap: "Reds"},
}

var presets = map[string]Layer{
	Frames: {
		Name:  Frames,
		Table: model.TablePlayerFrames,
		Render: render.Options{
			Gradient:      "tick",
			ColorBy:       reshape.SideColumn,
			ColorMaps:     sideColormaps,
			DefaultMarker: "⬤",
		},
		Thin: true,
	},
	Kills: {
		Name:  Kills,
		Table: model.TableKills,
		Groups: []reshape.StatusGroup{
			{Name: "attacker"},
			{Name: "victim"},
		},
		Reshape: reshape.Options{
			CommonColumns: []string{"tick", "round_num", "weapon", "headshot"},
			DropMissing:   []string{"x", "y"},
		},
		Render: render.Options{
			Gradient:  "tick",
			ColorBy:   reshape.SideColumn,
			ColorMaps: sideColormaps,
			MarkerBy:  reshape.StatusColumn,
			Markers:   map[string]string{"attacker": "o", "victim": "x"},
			Size:      12,
			Alpha:     0.9,
		},
	},
	Damages: {
		Name:  Damages,
		Table: model.TableDamages,
		Groups: []reshape.StatusGroup{
			{Name: "attacker"},
			{Name: "victim"},
		},
		Reshape: reshape.Options{
			CommonColumns: []string{"tick", "round_num", "weapon", "hp_damage"},
			Dedup: &reshape.DedupPolicy{
				ExclusionColumns: []string{"hp_damage"},
				Keep:             table.KeepLast,
				StampValues:      map[string]table.Value{MultiHitColumn: table.Bool(true)},
			},
			DropMissing: []string{"x", "y"},
		},
		Render: render.Options{
			Gradient:  "tick",
			ColorBy:   reshape.StatusColumn,
			ColorMaps: []render.CategoryColormap{{Category: "attacker", Colormap: "Oranges"}, {Category: "victim", Colormap: "Purples"}},
			MarkerBy:  reshape.StatusColumn,
			Markers:   map[string]string{"attacker": "o", "victim": "+"},
			Size:      8,
		},
	},
	Grenades: {
		Name:  Grenades,
		Table: model.TableGrenades,
		Groups: []reshape.StatusGroup{
			{Name: "thrower"},
			{Name: "grenade", Code: "landing"},
		},
		Reshape: reshape.Options{
			CommonColumns: []string{"tick", "round_num"},
			Rename:        map[string]string{"type": "grenade_type"},
			DropMissing:   []string{"x", "y"},
		},
		Render: render.Options{
			Gradient:  "tick",
			ColorBy:   reshape.StatusColumn,
			ColorMaps: []render.CategoryColormap{{Category: "thrower", Colormap: "Greys"}, {Category: "landing", Colormap: "Greens"}},
			MarkerBy:  reshape.StatusColumn,
			Markers:   map[string]string{"thrower": "o", "landing": "*"},
			Size:      10,
		},
	},
}

// Lookup returns the preset registered under name.
func Lookup(name string) (Layer, error) {
	l, ok := presets[name]
	if !ok {
		return Layer{}, &UnknownLayerError{Name: name}
	}
	return l, nil
}

// Names returns the registered layer names, sorted.
func Names() []string {
	out := make([]string, 0, len(presets))
	for n := range presets {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Long reshapes a stored table into the layer's long form.
func (l Layer) Long(stored *table.Table) (*table.Table, error) {
	if l.Groups == nil {
		return stored.Clone(), nil
	}
	long, err := reshape.Reshape(stored, l.Groups, l.Reshape)
	if err != nil {
		return nil, fmt.Errorf("reshape %s: %w", l.Name, err)
	}
	return long, nil
}

// Points returns the layer's rows in pixel space, ready for render.Render.
// every keeps one row out of every rows for thinned layers; values below 2
// keep everything.
func (l Layer) Points(stored *table.Table, cal projection.Calibration, every int) (*table.Table, error) {
	long, err := l.Long(stored)
	if err != nil {
		return nil, err
	}
	if l.Thin {
		long = Thin(long, every)
	}
	pts, err := projection.Project(cal, long, render.XColumn, render.YColumn)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", l.Name, err)
	}
	return pts, nil
}

// Draw projects stored onto surface with the layer's render options.
func (l Layer) Draw(stored *table.Table, cal projection.Calibration, every int, surface render.Surface) (render.Summary, error) {
	pts, err := l.Points(stored, cal, every)
	if err != nil {
		return render.Summary{}, err
	}
	sum, err := render.Render(pts, l.Render, surface)
	if err != nil {
		return sum, fmt.Errorf("render %s: %w", l.Name, err)
	}
	return sum, nil
}

// Thin keeps rows 0, every, 2*every, ... of t.
func Thin(t *table.Table, every int) *table.Table {
	if every < 2 {
		return t
	}
	return t.Filter(func(i int) bool { return i%every == 0 })
}
