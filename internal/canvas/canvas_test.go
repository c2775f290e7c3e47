package canvas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pable/go-cs-mapviz/internal/colormap"
	"github.com/pable/go-cs-mapviz/internal/render"
	"github.com/pable/go-cs-mapviz/internal/table"
)

func newCanvas(t *testing.T, radar image.Image) *Canvas {
	t.Helper()
	c, err := New("de_dust2", radar)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func rgbaAt(c *Canvas, x, y float64) color.RGBA {
	px, py := c.toImage(x, y)
	return c.img.RGBAAt(int(px), int(py))
}

func TestDrawGlyph_PlotOriginIsBottomLeft(t *testing.T) {
	c := newCanvas(t, nil)
	red := color.RGBA{0xff, 0, 0, 0xff}
	c.DrawGlyph(render.Glyph{X: 100, Y: 50, Text: "⬤", Size: 20, Color: red, Alpha: 1})

	if got := rgbaAt(c, 100, 50); got != red {
		t.Errorf("pixel at glyph centre: got %v, want %v", got, red)
	}
	px, py := c.toImage(100, 50)
	if int(py) != c.plot.Max.Y-50 || int(px) != c.plot.Min.X+100 {
		t.Errorf("toImage: got (%v, %v)", px, py)
	}
}

func TestDrawGlyph_AlphaBlends(t *testing.T) {
	c := newCanvas(t, nil)
	c.DrawGlyph(render.Glyph{X: 300, Y: 300, Text: "⬤", Size: 20, Color: color.RGBA{0, 0, 0, 0xff}, Alpha: 0.5})
	got := rgbaAt(c, 300, 300)
	if got.R < 0x70 || got.R > 0x90 {
		t.Errorf("expected ~50%% grey over white, got %v", got)
	}
}

func TestAttachLegend_Slots(t *testing.T) {
	c := newCanvas(t, nil)
	cm, _ := colormap.Lookup("Blues")

	if err := c.AttachLegend(render.Legend{Label: "CT Tick", Colormap: cm, Min: 0, Max: 10, Side: render.SideLeft}); err != nil {
		t.Fatalf("AttachLegend left: %v", err)
	}
	if err := c.AttachLegend(render.Legend{Label: "X", Colormap: cm, Side: render.SideLeft}); !errors.Is(err, ErrLegendSlotTaken) {
		t.Errorf("expected ErrLegendSlotTaken, got %v", err)
	}
	if err := c.AttachLegend(render.Legend{Label: "T Tick", Colormap: cm, Side: render.SideRight}); err != nil {
		t.Fatalf("AttachLegend right: %v", err)
	}
	if err := c.AttachLegend(render.Legend{Label: "Y", Colormap: cm, Side: render.SideRight}); !errors.Is(err, ErrLegendSlotsFull) {
		t.Errorf("expected ErrLegendSlotsFull, got %v", err)
	}
	if c.LegendCount() != 2 {
		t.Errorf("LegendCount: got %d, want 2", c.LegendCount())
	}
}

// TestRenderLayers: two layered Render calls on one canvas share its two
// colorbar slots.
func TestRenderLayers(t *testing.T) {
	c := newCanvas(t, nil)
	pts := table.New("x", "y", "tick", "side")
	pts.Append(table.Number(10), table.Number(10), table.Int(0), table.String("ct"))
	pts.Append(table.Number(20), table.Number(20), table.Int(100), table.String("t"))

	opts := render.Options{
		Gradient:  "tick",
		ColorBy:   "side",
		ColorMaps: []render.CategoryColormap{{Category: "ct", Colormap: "Blues"}, {Category: "t", Colormap: "Reds"}},
	}
	for i := 0; i < 2; i++ {
		if _, err := render.Render(pts, opts, c); err != nil {
			t.Fatalf("Render %d: %v", i, err)
		}
	}
	if c.LegendCount() != 2 {
		t.Errorf("expected 2 legends after two layers, got %d", c.LegendCount())
	}
}

func TestLoadRadar(t *testing.T) {
	dir := t.TempDir()

	img, err := LoadRadar(dir, "de_nuke")
	if err != nil || img != nil {
		t.Fatalf("missing radar: got (%v, %v), want (nil, nil)", img, err)
	}

	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	draw.Draw(src, src.Bounds(), image.NewUniform(color.RGBA{0x40, 0x40, 0x40, 0xff}), image.Point{}, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "de_nuke.png"), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	img, err = LoadRadar(dir, "de_nuke")
	if err != nil {
		t.Fatalf("LoadRadar: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}

	c := newCanvas(t, img)
	if got := rgbaAt(c, 512, 512); got.R < 0x3e || got.R > 0x42 {
		t.Errorf("expected radar scaled into plot area, got %v", got)
	}
}

func TestEncodePNG(t *testing.T) {
	c := newCanvas(t, nil)
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != c.img.Bounds().Dx() || cfg.Height != c.img.Bounds().Dy() {
		t.Errorf("size %dx%d does not match canvas", cfg.Width, cfg.Height)
	}
}
