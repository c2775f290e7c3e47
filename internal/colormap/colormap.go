// Package colormap provides the named sequential colormaps used to shade
// replay points by a gradient attribute such as tick.
package colormap

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// UnknownColormapError is returned by Lookup for an unregistered name.
type UnknownColormapError struct {
	Name string
}

func (e *UnknownColormapError) Error() string {
	return fmt.Sprintf("unknown colormap %q", e.Name)
}

// Colormap maps t in [0,1] to a colour by interpolating evenly spaced anchors.
type Colormap struct {
	name  string
	stops []colorful.Color
}

// Name returns the registered name, including any "_r" suffix.
func (c *Colormap) Name() string { return c.name }

// At evaluates the colormap. t is clamped to [0,1]; NaN yields transparent.
func (c *Colormap) At(t float64) color.RGBA {
	if math.IsNaN(t) {
		return color.RGBA{}
	}
	t = math.Max(0, math.Min(1, t))
	seg := t * float64(len(c.stops)-1)
	i := int(math.Floor(seg))
	if i >= len(c.stops)-1 {
		i = len(c.stops) - 2
	}
	mixed := c.stops[i].BlendRgb(c.stops[i+1], seg-float64(i)).Clamped()
	r, g, b := mixed.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// anchors are sampled from matplotlib's colormaps of the same name.
var anchors = map[string][]string{
	"viridis": {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"plasma":  {"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786", "#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921"},
	"magma":   {"#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f", "#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf"},
	"Blues":   {"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b"},
	"Reds":    {"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a", "#ef3b2c", "#cb181d", "#a50f15", "#67000d"},
	"Greens":  {"#f7fcf5", "#e5f5e0", "#c7e9c0", "#a1d99b", "#74c476", "#41ab5d", "#238b45", "#006d2c", "#00441b"},
	"Oranges": {"#fff5eb", "#fee6ce", "#fdd0a2", "#fdae6b", "#fd8d3c", "#f16913", "#d94801", "#a63603", "#7f2704"},
	"Purples": {"#fcfbfd", "#efedf5", "#dadaeb", "#bcbddc", "#9e9ac8", "#807dba", "#6a51a3", "#54278f", "#3f007d"},
	"Greys":   {"#ffffff", "#f0f0f0", "#d9d9d9", "#bdbdbd", "#969696", "#737373", "#525252", "#252525", "#000000"},
}

var registry = func() map[string][]colorful.Color {
	out := make(map[string][]colorful.Color, len(anchors))
	for name, hexes := range anchors {
		stops := make([]colorful.Color, len(hexes))
		for i, h := range hexes {
			c, err := colorful.Hex(h)
			if err != nil {
				panic(fmt.Sprintf("colormap %s: %v", name, err))
			}
			stops[i] = c
		}
		out[name] = stops
	}
	return out
}()

// Lookup returns the colormap registered under name. A "_r" suffix returns
// the reversed map, as in matplotlib.
func Lookup(name string) (*Colormap, error) {
	base, reversed := strings.CutSuffix(name, "_r")
	stops, ok := registry[base]
	if !ok {
		return nil, &UnknownColormapError{Name: name}
	}
	out := make([]colorful.Color, len(stops))
	copy(out, stops)
	if reversed {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return &Colormap{name: name, stops: out}, nil
}

// Names returns the registered base names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
