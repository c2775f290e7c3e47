package render

import (
	"image/color"

	"github.com/pable/go-cs-mapviz/internal/colormap"
)

// MaxLegends is the number of legend slots on a surface.
const MaxLegends = 2

// Side is a legend slot.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "?"
	}
}

// Glyph is one text marker drawn at a pixel position.
type Glyph struct {
	X, Y  float64
	Text  string
	Size  float64
	Color color.RGBA
	Alpha float64
}

// Legend is a colorbar spanning [Min, Max] of the gradient attribute.
type Legend struct {
	Label    string
	Colormap *colormap.Colormap
	Min, Max float64
	Side     Side
}

// Surface is the plotting target shared by successive Render calls.
// LegendCount must reflect every legend attached so far, by any caller.
type Surface interface {
	LegendCount() int
	AttachLegend(Legend) error
	DrawGlyph(Glyph)
}
