// Package table holds the small named-column table used to carry replay
// events between the parser, the reshaper, the projector and the renderer.
package table

import (
	"errors"
	"fmt"
)

// MissingColumnError is returned when an operation references a column the
// table does not have.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q", e.Column)
}

// ErrInvalidKeep is returned for a keep direction other than first or last.
var ErrInvalidKeep = errors.New("keep must be \"first\" or \"last\"")

// Keep selects which occurrence of a duplicate group is treated as the original.
type Keep string

const (
	KeepFirst Keep = "first"
	KeepLast  Keep = "last"
)

// Opposite returns the other keep direction.
func (k Keep) Opposite() Keep {
	if k == KeepLast {
		return KeepFirst
	}
	return KeepLast
}

// Validate returns ErrInvalidKeep unless k is first or last.
func (k Keep) Validate() error {
	if k != KeepFirst && k != KeepLast {
		return fmt.Errorf("%w: got %q", ErrInvalidKeep, string(k))
	}
	return nil
}

// Record is a row addressed by column name.
type Record map[string]Value

// Table is an ordered set of named columns and rows of cells.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New returns an empty table with the given columns. Repeated names panic.
func New(columns ...string) *Table {
	t := &Table{
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, c := range columns {
		if _, dup := t.index[c]; dup {
			panic(fmt.Sprintf("table: duplicate column %q", c))
		}
		t.index[c] = len(t.columns)
		t.columns = append(t.columns, c)
	}
	return t
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the table has column c.
func (t *Table) Has(c string) bool {
	_, ok := t.index[c]
	return ok
}

// Append adds a row. The number of cells must match the number of columns.
func (t *Table) Append(cells ...Value) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("append: got %d cells for %d columns", len(cells), len(t.columns))
	}
	t.rows = append(t.rows, append([]Value(nil), cells...))
	return nil
}

// AppendRecord adds a row from a record. Columns absent from r are missing.
func (t *Table) AppendRecord(r Record) error {
	row := make([]Value, len(t.columns))
	for c, v := range r {
		i, ok := t.index[c]
		if !ok {
			return &MissingColumnError{Column: c}
		}
		row[i] = v
	}
	t.rows = append(t.rows, row)
	return nil
}

// Get returns the cell at row i, column c. Unknown columns read as missing.
func (t *Table) Get(i int, c string) Value {
	j, ok := t.index[c]
	if !ok {
		return Missing
	}
	return t.rows[i][j]
}

// Set overwrites the cell at row i, column c.
func (t *Table) Set(i int, c string, v Value) error {
	j, ok := t.index[c]
	if !ok {
		return &MissingColumnError{Column: c}
	}
	t.rows[i][j] = v
	return nil
}

// Record returns row i as a record.
func (t *Table) Record(i int) Record {
	r := make(Record, len(t.columns))
	for j, c := range t.columns {
		r[c] = t.rows[i][j]
	}
	return r
}

// Column returns a copy of the cells of column c.
func (t *Table) Column(c string) ([]Value, error) {
	j, ok := t.index[c]
	if !ok {
		return nil, &MissingColumnError{Column: c}
	}
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[j]
	}
	return out, nil
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	out := New(t.columns...)
	out.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		out.rows[i] = append([]Value(nil), row...)
	}
	return out
}

// AddColumn appends column c filled with v. Existing columns are an error.
func (t *Table) AddColumn(c string, v Value) error {
	if t.Has(c) {
		return fmt.Errorf("add column: %q already exists", c)
	}
	t.index[c] = len(t.columns)
	t.columns = append(t.columns, c)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], v)
	}
	return nil
}

// Select returns a new table with only the named columns, in that order.
func (t *Table) Select(columns ...string) (*Table, error) {
	idx := make([]int, len(columns))
	for k, c := range columns {
		j, ok := t.index[c]
		if !ok {
			return nil, &MissingColumnError{Column: c}
		}
		idx[k] = j
	}
	out := New(columns...)
	out.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		nr := make([]Value, len(idx))
		for k, j := range idx {
			nr[k] = row[j]
		}
		out.rows[i] = nr
	}
	return out, nil
}

// Drop returns a new table without the named columns. Unknown names are ignored.
func (t *Table) Drop(columns ...string) *Table {
	skip := make(map[string]bool, len(columns))
	for _, c := range columns {
		skip[c] = true
	}
	keep := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if !skip[c] {
			keep = append(keep, c)
		}
	}
	out, _ := t.Select(keep...)
	return out
}

// Reindex returns a new table with the given columns. Columns t lacks are
// filled with missing cells.
func (t *Table) Reindex(columns []string) *Table {
	out := New(columns...)
	out.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		nr := make([]Value, len(columns))
		for k, c := range columns {
			if j, ok := t.index[c]; ok {
				nr[k] = row[j]
			}
		}
		out.rows[i] = nr
	}
	return out
}

// Filter returns a new table with the rows for which keep returns true.
func (t *Table) Filter(keep func(i int) bool) *Table {
	out := New(t.columns...)
	for i, row := range t.rows {
		if keep(i) {
			out.rows = append(out.rows, append([]Value(nil), row...))
		}
	}
	return out
}

// Concat appends the rows of o to t. Both tables must share the same columns
// in the same order.
func (t *Table) Concat(o *Table) error {
	if len(o.columns) != len(t.columns) {
		return fmt.Errorf("concat: column count %d != %d", len(o.columns), len(t.columns))
	}
	for i, c := range o.columns {
		if t.columns[i] != c {
			return fmt.Errorf("concat: column %d is %q, want %q", i, c, t.columns[i])
		}
	}
	for _, row := range o.rows {
		t.rows = append(t.rows, append([]Value(nil), row...))
	}
	return nil
}
