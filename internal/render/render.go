// Package render draws projected replay points onto a Surface, shading each
// point by a gradient attribute with a colormap chosen per category.
package render

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pable/go-cs-mapviz/internal/colormap"
	"github.com/pable/go-cs-mapviz/internal/table"
)

// Defaults applied to zero-valued Options fields.
const (
	DefaultColorMap = "viridis"
	DefaultMarker   = "o"
	DefaultAlpha    = 0.5
	DefaultSize     = 5
)

// Pixel-space coordinate columns read from the points table.
const (
	XColumn = "x"
	YColumn = "y"
)

// DegenerateRangeError is returned when the gradient attribute has no spread.
type DegenerateRangeError struct {
	Attr  string
	Value float64
	// Empty is set when no row had a numeric gradient value.
	Empty bool
}

func (e *DegenerateRangeError) Error() string {
	if e.Empty {
		return fmt.Sprintf("gradient %q has no numeric values", e.Attr)
	}
	return fmt.Sprintf("gradient %q is constant (%v); cannot normalise", e.Attr, e.Value)
}

// CategoryColormap binds a category of the ColorBy column to a colormap.
type CategoryColormap struct {
	Category string
	Colormap string
}

// Options configures one Render call.
type Options struct {
	// Gradient is the numeric column used to shade points.
	Gradient string
	Size     float64
	Alpha    float64

	// ColorBy names the category column. ColorMaps is consulted in order,
	// both for lookup and for legend allocation.
	ColorBy         string
	ColorMaps       []CategoryColormap
	DefaultColorMap string

	MarkerBy      string
	Markers       map[string]string
	DefaultMarker string
}

func (o Options) withDefaults() Options {
	if o.DefaultColorMap == "" {
		o.DefaultColorMap = DefaultColorMap
	}
	if o.DefaultMarker == "" {
		o.DefaultMarker = DefaultMarker
	}
	if o.Alpha == 0 {
		o.Alpha = DefaultAlpha
	}
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	return o
}

// Summary reports what a Render call did.
type Summary struct {
	Drawn   int
	Skipped int // rows missing x, y or the gradient value
	// ColorFallbacks counts rows whose category was missing or unmapped and
	// reused the carried-over colormap.
	ColorFallbacks  int
	MarkerFallbacks int
	Legends         int
	Min, Max        float64
}

// ColorState is the carry-over colormap threaded through the rows.
type ColorState struct {
	Current *colormap.Colormap
}

// Next resolves the colormap for one row. A known category switches the
// current colormap; anything else keeps it. fallback reports the latter.
func (s ColorState) Next(category table.Value, byCategory map[string]*colormap.Colormap) (next ColorState, cm *colormap.Colormap, fallback bool) {
	if key, ok := categoryKey(category); ok {
		if m, found := byCategory[key]; found {
			return ColorState{Current: m}, m, false
		}
	}
	return s, s.Current, true
}

func categoryKey(v table.Value) (string, bool) {
	if v.IsMissing() {
		return "", false
	}
	return strings.ToLower(v.String()), true
}

// Render draws every row of points on surface and attaches up to
// MaxLegends-surface.LegendCount() legends. Points must carry pixel-space
// x and y columns and the gradient column.
func Render(points *table.Table, opts Options, surface Surface) (Summary, error) {
	opts = opts.withDefaults()
	var sum Summary

	required := []string{XColumn, YColumn, opts.Gradient}
	if opts.ColorBy != "" {
		required = append(required, opts.ColorBy)
	}
	if opts.MarkerBy != "" {
		required = append(required, opts.MarkerBy)
	}
	for _, c := range required {
		if !points.Has(c) {
			return sum, &table.MissingColumnError{Column: c}
		}
	}

	initial, err := colormap.Lookup(opts.DefaultColorMap)
	if err != nil {
		return sum, err
	}
	byCategory := make(map[string]*colormap.Colormap, len(opts.ColorMaps))
	legendMaps := make([]*colormap.Colormap, len(opts.ColorMaps))
	for i, cc := range opts.ColorMaps {
		m, err := colormap.Lookup(cc.Colormap)
		if err != nil {
			return sum, fmt.Errorf("category %q: %w", cc.Category, err)
		}
		legendMaps[i] = m
		key := strings.ToLower(cc.Category)
		if _, dup := byCategory[key]; !dup {
			byCategory[key] = m
		}
	}

	vmin, vmax, err := gradientRange(points, opts.Gradient)
	if err != nil {
		return sum, err
	}
	sum.Min, sum.Max = vmin, vmax

	state := ColorState{Current: initial}
	for i := 0; i < points.Len(); i++ {
		cm := initial
		if opts.ColorBy != "" {
			var fallback bool
			state, cm, fallback = state.Next(points.Get(i, opts.ColorBy), byCategory)
			if fallback {
				sum.ColorFallbacks++
			}
		}

		marker := opts.DefaultMarker
		if opts.MarkerBy != "" {
			if m, ok := opts.Markers[points.Get(i, opts.MarkerBy).String()]; ok {
				marker = m
			} else {
				sum.MarkerFallbacks++
			}
		}

		x, okX := points.Get(i, XColumn).Float()
		y, okY := points.Get(i, YColumn).Float()
		g, okG := points.Get(i, opts.Gradient).Float()
		if !okX || !okY || !okG {
			sum.Skipped++
			continue
		}

		surface.DrawGlyph(Glyph{
			X:     x,
			Y:     y,
			Text:  marker,
			Size:  opts.Size,
			Color: cm.At((g - vmin) / (vmax - vmin)),
			Alpha: opts.Alpha,
		})
		sum.Drawn++
	}

	if opts.ColorBy == "" {
		return sum, nil
	}

	// The budget is read from the surface so that layered calls share it.
	existing := surface.LegendCount()
	allowance := max(MaxLegends-existing, 0)
	title := cases.Title(language.Und).String(opts.Gradient)
	for i, cc := range opts.ColorMaps {
		if i >= allowance {
			break
		}
		err := surface.AttachLegend(Legend{
			Label:    strings.ToUpper(cc.Category) + " " + title,
			Colormap: legendMaps[i],
			Min:      vmin,
			Max:      vmax,
			Side:     Side(existing + i),
		})
		if err != nil {
			return sum, fmt.Errorf("attach legend %q: %w", cc.Category, err)
		}
		sum.Legends++
	}
	return sum, nil
}

func gradientRange(points *table.Table, col string) (vmin, vmax float64, err error) {
	vmin, vmax = math.Inf(1), math.Inf(-1)
	n := 0
	for i := 0; i < points.Len(); i++ {
		v, ok := points.Get(i, col).Float()
		if !ok || math.IsInf(v, 0) {
			continue
		}
		vmin = math.Min(vmin, v)
		vmax = math.Max(vmax, v)
		n++
	}
	if n == 0 {
		return 0, 0, &DegenerateRangeError{Attr: col, Empty: true}
	}
	if vmin == vmax {
		return 0, 0, &DegenerateRangeError{Attr: col, Value: vmin}
	}
	return vmin, vmax, nil
}
