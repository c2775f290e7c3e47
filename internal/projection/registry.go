package projection

import (
	"fmt"
	"io"
	"sort"

	"github.com/tidwall/gjson"
)

// UnknownMapError is returned when a map has no calibration entry.
type UnknownMapError struct {
	Map string
}

func (e *UnknownMapError) Error() string {
	return fmt.Sprintf("no calibration for map %q", e.Map)
}

// Registry holds the calibration of every known map.
type Registry map[string]Calibration

// LoadRegistry reads an awpy-style map-data.json document:
//
//	{"de_dust2": {"pos_x": -2476, "pos_y": 3239, "scale": 4.4, ...}, ...}
//
// Extra fields per map are ignored.
func LoadRegistry(r io.Reader) (Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read map data: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("map data is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("map data must be a JSON object keyed by map name")
	}

	reg := make(Registry)
	var loadErr error
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		fields := []string{"pos_x", "pos_y", "scale"}
		for _, f := range fields {
			if v := value.Get(f); v.Type != gjson.Number {
				loadErr = fmt.Errorf("map %q: %s must be a number", name, f)
				return false
			}
		}
		cal := Calibration{
			PosX:  value.Get("pos_x").Float(),
			PosY:  value.Get("pos_y").Float(),
			Scale: value.Get("scale").Float(),
		}
		if err := cal.Validate(); err != nil {
			loadErr = fmt.Errorf("map %q: %w", name, err)
			return false
		}
		reg[name] = cal
		return true
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return reg, nil
}

// Lookup returns the calibration for name.
func (r Registry) Lookup(name string) (Calibration, error) {
	c, ok := r[name]
	if !ok {
		return Calibration{}, &UnknownMapError{Map: name}
	}
	return c, nil
}

// Maps returns the registered map names in sorted order.
func (r Registry) Maps() []string {
	out := make([]string, 0, len(r))
	for name := range r {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
