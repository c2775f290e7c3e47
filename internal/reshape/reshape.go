// Package reshape turns wide event tables, where each role (attacker, victim,
// thrower, ...) owns a block of prefixed columns, into long tables with one
// row per event and role.
//
// The long table holds the common columns, each group's de-prefixed and
// renamed columns, a status column naming the group and a side column
// coalesced from the per-group "{name}_side" columns.
package reshape

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pable/go-cs-mapviz/internal/table"
)

// Output columns added by Reshape.
const (
	StatusColumn = "status"
	SideColumn   = "side"
)

var (
	// ErrNoGroups is returned when Reshape is called without status groups.
	ErrNoGroups = errors.New("reshape: at least one status group is required")
	// ErrColumnConflict is returned when two selected columns map to the same
	// output name for one group.
	ErrColumnConflict = errors.New("reshape: column conflict")
)

// StatusGroup is one role whose attributes live in "{Name}_"-prefixed columns.
type StatusGroup struct {
	Name string
	// Code replaces Name in the status column when set.
	Code string
	// ExtraColumns are unprefixed columns copied into this group's rows.
	ExtraColumns []string
}

func (g StatusGroup) prefix() string { return g.Name + "_" }

// SideColumn is the wide column holding this group's side.
func (g StatusGroup) SideColumn() string { return g.Name + "_side" }

func (g StatusGroup) status() string {
	if g.Code != "" {
		return g.Code
	}
	return g.Name
}

// DedupPolicy resolves rows that are equal once ExclusionColumns are ignored.
//
// Rows flagged as duplicates under the opposite of Keep are stamped with
// StampValues; rows flagged under Keep are dropped. With Keep=first the
// surviving first row of each group carries the stamp, with Keep=last the
// surviving last row does.
type DedupPolicy struct {
	ExclusionColumns []string
	Keep             table.Keep
	StampValues      map[string]table.Value
}

// Options configures Reshape.
type Options struct {
	// CommonColumns are copied into every group's rows.
	CommonColumns []string
	// Rename maps de-prefixed column names to output names.
	Rename map[string]string
	Dedup  *DedupPolicy
	// DropMissing removes rows missing any of these output columns.
	DropMissing []string
}

type slice struct {
	group StatusGroup
	tbl   *table.Table
}

// Reshape merges the status groups of wide into one long table. The input is
// never modified.
func Reshape(wide *table.Table, groups []StatusGroup, opts Options) (*table.Table, error) {
	if len(groups) == 0 {
		return nil, ErrNoGroups
	}
	if opts.Dedup != nil {
		if err := opts.Dedup.Keep.Validate(); err != nil {
			return nil, err
		}
	}
	for _, c := range opts.CommonColumns {
		if !wide.Has(c) {
			return nil, &table.MissingColumnError{Column: c}
		}
	}
	for _, g := range groups {
		for _, c := range g.ExtraColumns {
			if !wide.Has(c) {
				return nil, &table.MissingColumnError{Column: c}
			}
		}
	}

	// Build every group's slice first so the union schema is known before
	// concatenation and does not depend on which groups have rows.
	slices := make([]slice, 0, len(groups))
	var union []string
	seen := make(map[string]bool)
	for _, g := range groups {
		st, err := groupSlice(wide, g, opts)
		if err != nil {
			return nil, err
		}
		slices = append(slices, slice{group: g, tbl: st})
		for _, c := range st.Columns() {
			if !seen[c] {
				seen[c] = true
				union = append(union, c)
			}
		}
	}

	acc := table.New(union...)
	for _, s := range slices {
		acc = acc.DropDuplicates()
		if err := acc.Concat(s.tbl.DropDuplicates().Reindex(union)); err != nil {
			return nil, fmt.Errorf("concat %s: %w", s.group.Name, err)
		}
	}

	out, err := coalesceSide(acc, groups)
	if err != nil {
		return nil, err
	}

	if opts.Dedup != nil {
		out, err = applyDedup(out, *opts.Dedup)
		if err != nil {
			return nil, err
		}
	}

	if len(opts.DropMissing) > 0 {
		for _, c := range opts.DropMissing {
			if !out.Has(c) {
				return nil, &table.MissingColumnError{Column: c}
			}
		}
		out = out.Filter(func(i int) bool {
			for _, c := range opts.DropMissing {
				if out.Get(i, c).IsMissing() {
					return false
				}
			}
			return true
		})
	}
	return out, nil
}

// groupSlice selects, renames and stamps the columns of one status group.
func groupSlice(wide *table.Table, g StatusGroup, opts Options) (*table.Table, error) {
	wanted := make(map[string]bool, len(g.ExtraColumns)+len(opts.CommonColumns))
	for _, c := range g.ExtraColumns {
		wanted[c] = true
	}
	for _, c := range opts.CommonColumns {
		wanted[c] = true
	}

	// One pass over the wide columns: a column matching both the prefix and
	// an explicit list is still selected once.
	prefix := g.prefix()
	var selected []string
	for _, c := range wide.Columns() {
		if strings.HasPrefix(c, prefix) || wanted[c] {
			selected = append(selected, c)
		}
	}

	sel, err := wide.Select(selected...)
	if err != nil {
		return nil, err
	}

	renamed := make([]string, len(selected))
	used := map[string]string{StatusColumn: StatusColumn}
	for i, c := range selected {
		name := c
		if c != g.SideColumn() {
			name = strings.TrimPrefix(c, prefix)
			if r, ok := opts.Rename[name]; ok {
				name = r
			}
		}
		if prev, dup := used[name]; dup {
			return nil, fmt.Errorf("%w: group %q maps both %q and %q to %q",
				ErrColumnConflict, g.Name, prev, c, name)
		}
		used[name] = c
		renamed[i] = name
	}

	out := table.New(append(renamed, StatusColumn)...)
	status := table.String(g.status())
	cells := make([]table.Value, len(selected)+1)
	for i := 0; i < sel.Len(); i++ {
		for j, c := range selected {
			cells[j] = sel.Get(i, c)
		}
		cells[len(selected)] = status
		if err := out.Append(cells...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// coalesceSide folds the per-group side columns, in group order, into a
// single side column and drops them.
func coalesceSide(acc *table.Table, groups []StatusGroup) (*table.Table, error) {
	var sideCols []string
	for _, g := range groups {
		if acc.Has(g.SideColumn()) {
			sideCols = append(sideCols, g.SideColumn())
		}
	}

	out := acc.Drop(sideCols...)
	if !out.Has(SideColumn) {
		if err := out.AddColumn(SideColumn, table.Missing); err != nil {
			return nil, err
		}
	}
	for i := 0; i < acc.Len(); i++ {
		side := table.Missing
		for _, c := range sideCols {
			if v := acc.Get(i, c); !v.IsMissing() {
				side = v
				break
			}
		}
		if err := out.Set(i, SideColumn, side); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func applyDedup(tbl *table.Table, p DedupPolicy) (*table.Table, error) {
	excluded := make(map[string]bool, len(p.ExclusionColumns))
	for _, c := range p.ExclusionColumns {
		excluded[c] = true
	}
	subset := make([]string, 0, len(tbl.Columns()))
	for _, c := range tbl.Columns() {
		if !excluded[c] {
			subset = append(subset, c)
		}
	}

	stamp, err := tbl.Duplicated(subset, p.Keep.Opposite())
	if err != nil {
		return nil, err
	}
	drop, err := tbl.Duplicated(subset, p.Keep)
	if err != nil {
		return nil, err
	}

	out := tbl.Clone()
	keys := make([]string, 0, len(p.StampValues))
	for k := range p.StampValues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !out.Has(k) {
			if err := out.AddColumn(k, table.Missing); err != nil {
				return nil, err
			}
		}
		for i, s := range stamp {
			if s {
				out.Set(i, k, p.StampValues[k])
			}
		}
	}
	return out.Filter(func(i int) bool { return !drop[i] }), nil
}
