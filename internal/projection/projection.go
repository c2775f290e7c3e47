// Package projection maps world-space replay coordinates onto the square
// pixel canvas of a radar image.
package projection

import (
	"fmt"
	"math"

	"github.com/pable/go-cs-mapviz/internal/table"
)

// ImageDim is the edge length in pixels of every radar image.
const ImageDim = 1024.0

// Calibration places a map's world origin and scale on the radar image.
type Calibration struct {
	PosX  float64 `json:"pos_x"`
	PosY  float64 `json:"pos_y"`
	Scale float64 `json:"scale"`
}

// InvalidCalibrationError is returned for a zero, negative or non-finite scale.
type InvalidCalibrationError struct {
	Scale float64
}

func (e *InvalidCalibrationError) Error() string {
	return fmt.Sprintf("invalid calibration: scale %v must be positive and finite", e.Scale)
}

// Validate checks that the calibration can be applied and inverted.
func (c Calibration) Validate() error {
	if c.Scale <= 0 || math.IsNaN(c.Scale) || math.IsInf(c.Scale, 0) {
		return &InvalidCalibrationError{Scale: c.Scale}
	}
	return nil
}

// Point projects a single world position to pixel space.
func (c Calibration) Point(x, y float64) (px, py float64) {
	return (x - c.PosX) / c.Scale, ImageDim - (c.PosY-y)/c.Scale
}

// Unproject maps a pixel position back to world space.
func (c Calibration) Unproject(px, py float64) (x, y float64) {
	return px*c.Scale + c.PosX, c.PosY - (ImageDim-py)*c.Scale
}

// Inverse returns the calibration whose projection undoes c.
func (c Calibration) Inverse() Calibration {
	return Calibration{
		PosX:  -c.PosX / c.Scale,
		PosY:  (ImageDim*(1+c.Scale) - c.PosY) / c.Scale,
		Scale: 1 / c.Scale,
	}
}

// Pair names the x and y columns of one position in a table.
type Pair struct {
	X, Y string
}

// StatusPairs returns the {status}_x / {status}_y pair for every status.
func StatusPairs(statuses ...string) []Pair {
	out := make([]Pair, len(statuses))
	for i, st := range statuses {
		out[i] = Pair{X: st + "_x", Y: st + "_y"}
	}
	return out
}

// Project returns a copy of tbl with the xCol and yCol cells projected to
// pixel space. Missing cells stay missing.
func Project(c Calibration, tbl *table.Table, xCol, yCol string) (*table.Table, error) {
	return ProjectMany(c, tbl, []Pair{{X: xCol, Y: yCol}})
}

// ProjectMany projects several independent coordinate pairs of each row.
// Nothing is modified unless every pair can be projected.
func ProjectMany(c Calibration, tbl *table.Table, pairs []Pair) (*table.Table, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	for _, p := range pairs {
		for _, col := range []string{p.X, p.Y} {
			if !tbl.Has(col) {
				return nil, &table.MissingColumnError{Column: col}
			}
		}
	}

	out := tbl.Clone()
	for i := 0; i < out.Len(); i++ {
		for _, p := range pairs {
			xv, yv := out.Get(i, p.X), out.Get(i, p.Y)
			if x, ok := xv.Float(); ok {
				px, _ := c.Point(x, 0)
				out.Set(i, p.X, table.Number(px))
			} else if !xv.IsMissing() {
				return nil, fmt.Errorf("row %d: column %q is not numeric", i, p.X)
			}
			if y, ok := yv.Float(); ok {
				_, py := c.Point(0, y)
				out.Set(i, p.Y, table.Number(py))
			} else if !yv.IsMissing() {
				return nil, fmt.Errorf("row %d: column %q is not numeric", i, p.Y)
			}
		}
	}
	return out, nil
}
