// Package canvas is the raster plotting surface: a radar image with replay
// glyphs drawn over it and up to two colorbars beside it.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pable/go-cs-mapviz/internal/projection"
	"github.com/pable/go-cs-mapviz/internal/render"
)

// Figure layout in pixels around the ImageDim x ImageDim plot area.
const (
	sideMargin = 110
	topMargin  = 40
	botMargin  = 24
	barWidth   = 16
	barShrink  = 0.6
)

var (
	// ErrLegendSlotsFull is returned when both colorbar slots are taken.
	ErrLegendSlotsFull = errors.New("canvas: no free legend slot")
	// ErrLegendSlotTaken is returned when a legend targets an occupied side.
	ErrLegendSlotTaken = errors.New("canvas: legend slot already used")
)

var (
	background = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ink        = color.RGBA{0x20, 0x20, 0x20, 0xff}
)

// Canvas implements render.Surface on an RGBA image.
type Canvas struct {
	img     *image.RGBA
	plot    image.Rectangle
	legends []render.Legend
	used    [render.MaxLegends]bool

	font  *sfnt.Font
	buf   sfnt.Buffer
	faces map[float64]font.Face
}

var _ render.Surface = (*Canvas)(nil)

// New returns a canvas titled after mapName with radar as the background.
// A nil radar draws a "Map not found" placeholder instead.
func New(mapName string, radar image.Image) (*Canvas, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	dim := int(projection.ImageDim)
	w, h := dim+2*sideMargin, dim+topMargin+botMargin
	c := &Canvas{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		plot:  image.Rect(sideMargin, topMargin, sideMargin+dim, topMargin+dim),
		font:  fnt,
		faces: make(map[float64]font.Face),
	}
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	if radar != nil {
		xdraw.CatmullRom.Scale(c.img, c.plot, radar, radar.Bounds(), draw.Over, nil)
	} else {
		msg := "Map not found: " + mapName
		mid := c.plot.Min.Add(image.Pt(dim/2, dim/2))
		c.drawCentered(c.face(14), msg, float64(mid.X), float64(mid.Y), ink)
	}

	title := cases.Title(language.Und).String(mapName)
	c.drawCentered(c.face(18), title, float64(w)/2, float64(topMargin)/2, ink)
	return c, nil
}

// LoadRadar reads {dir}/{mapName}.png. A missing file returns (nil, nil).
func LoadRadar(dir, mapName string) (image.Image, error) {
	f, err := os.Open(filepath.Join(dir, mapName+".png"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open radar: %w", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode radar %s: %w", mapName, err)
	}
	return img, nil
}

// Image returns the rendered figure.
func (c *Canvas) Image() image.Image { return c.img }

// EncodePNG writes the figure as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.img)
}

// LegendCount returns the number of colorbars attached so far.
func (c *Canvas) LegendCount() int { return len(c.legends) }

// Legends returns the attached colorbars in attachment order.
func (c *Canvas) Legends() []render.Legend {
	return append([]render.Legend(nil), c.legends...)
}

// toImage converts plot coordinates (origin bottom-left) to image pixels.
func (c *Canvas) toImage(x, y float64) (float64, float64) {
	return float64(c.plot.Min.X) + x, float64(c.plot.Max.Y) - y
}

// DrawGlyph draws g centred on its position. Glyphs the font cannot render
// are drawn as filled discs of the same size.
func (c *Canvas) DrawGlyph(g render.Glyph) {
	px, py := c.toImage(g.X, g.Y)
	col := color.NRGBA{R: g.Color.R, G: g.Color.G, B: g.Color.B, A: uint8(math.Round(g.Alpha * float64(g.Color.A)))}
	if !c.canRender(g.Text) {
		c.disc(px, py, g.Size/2, col)
		return
	}
	c.drawCentered(c.face(g.Size), g.Text, px, py, col)
}

// AttachLegend draws a vertical colorbar in the legend's side margin.
func (c *Canvas) AttachLegend(l render.Legend) error {
	if len(c.legends) >= render.MaxLegends {
		return ErrLegendSlotsFull
	}
	if l.Side < 0 || int(l.Side) >= render.MaxLegends {
		return fmt.Errorf("canvas: invalid legend side %d", l.Side)
	}
	if c.used[l.Side] {
		return fmt.Errorf("%w: %s", ErrLegendSlotTaken, l.Side)
	}
	c.used[l.Side] = true
	c.legends = append(c.legends, l)

	barH := int(float64(c.plot.Dy()) * barShrink)
	top := c.plot.Min.Y + (c.plot.Dy()-barH)/2
	x0 := c.plot.Min.X - sideMargin/2 - barWidth/2
	if l.Side == render.SideRight {
		x0 = c.plot.Max.X + sideMargin/2 - barWidth/2
	}
	for row := 0; row < barH; row++ {
		t := 1 - float64(row)/float64(barH-1)
		rect := image.Rect(x0, top+row, x0+barWidth, top+row+1)
		draw.Draw(c.img, rect, image.NewUniform(l.Colormap.At(t)), image.Point{}, draw.Src)
	}

	small := basicfont.Face7x13
	cx := float64(x0 + barWidth/2)
	c.drawCentered(small, l.Label, cx, float64(top-14), ink)
	c.drawCentered(small, formatTick(l.Max), cx, float64(top-2), ink)
	c.drawCentered(small, formatTick(l.Min), cx, float64(top+barH+10), ink)
	return nil
}

func formatTick(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e9 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func (c *Canvas) face(size float64) font.Face {
	if f, ok := c.faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(c.font, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		f = basicfont.Face7x13
	}
	c.faces[size] = f
	return f
}

func (c *Canvas) canRender(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		idx, err := c.font.GlyphIndex(&c.buf, r)
		if err != nil || idx == 0 {
			return false
		}
	}
	return true
}

// drawCentered draws s with its ink bounds centred on (x, y).
func (c *Canvas) drawCentered(face font.Face, s string, x, y float64, col color.Color) {
	bounds, _ := font.BoundString(face, s)
	midX := (bounds.Min.X + bounds.Max.X) / 2
	midY := (bounds.Min.Y + bounds.Max.Y) / 2
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x*64) - midX, Y: fixed.Int26_6(y*64) - midY},
	}
	d.DrawString(s)
}

// disc is an alpha mask for a filled circle.
type disc struct {
	cx, cy, r float64
}

func (d *disc) ColorModel() color.Model { return color.AlphaModel }

func (d *disc) Bounds() image.Rectangle {
	return image.Rect(int(math.Floor(d.cx-d.r)), int(math.Floor(d.cy-d.r)),
		int(math.Ceil(d.cx+d.r))+1, int(math.Ceil(d.cy+d.r))+1)
}

func (d *disc) At(x, y int) color.Color {
	dx, dy := float64(x)+0.5-d.cx, float64(y)+0.5-d.cy
	if dx*dx+dy*dy <= d.r*d.r {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}

func (c *Canvas) disc(x, y, r float64, col color.NRGBA) {
	if r < 1 {
		r = 1
	}
	m := &disc{cx: x, cy: y, r: r}
	draw.DrawMask(c.img, m.Bounds(), image.NewUniform(col), image.Point{}, m, m.Bounds().Min, draw.Over)
}
