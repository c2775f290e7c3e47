package table

import (
	"errors"
	"testing"
)

func buildTable(t *testing.T, cols []string, rows ...[]Value) *Table {
	t.Helper()
	tbl := New(cols...)
	for _, r := range rows {
		if err := tbl.Append(r...); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	return tbl
}

func TestDuplicated_KeepFirstAndLast(t *testing.T) {
	tbl := buildTable(t, []string{"k", "v"},
		[]Value{String("a"), Int(1)},
		[]Value{String("b"), Int(2)},
		[]Value{String("a"), Int(3)},
		[]Value{String("a"), Int(4)},
	)

	first, err := tbl.Duplicated([]string{"k"}, KeepFirst)
	if err != nil {
		t.Fatalf("Duplicated: %v", err)
	}
	wantFirst := []bool{false, false, true, true}
	for i := range wantFirst {
		if first[i] != wantFirst[i] {
			t.Errorf("keep=first row %d: got %v, want %v", i, first[i], wantFirst[i])
		}
	}

	last, err := tbl.Duplicated([]string{"k"}, KeepLast)
	if err != nil {
		t.Fatalf("Duplicated: %v", err)
	}
	wantLast := []bool{true, false, true, false}
	for i := range wantLast {
		if last[i] != wantLast[i] {
			t.Errorf("keep=last row %d: got %v, want %v", i, last[i], wantLast[i])
		}
	}
}

func TestDuplicated_MissingCellsCompareEqual(t *testing.T) {
	tbl := buildTable(t, []string{"a", "b"},
		[]Value{Missing, Int(1)},
		[]Value{Missing, Int(1)},
		[]Value{String(""), Int(1)},
	)
	dup, err := tbl.Duplicated(nil, KeepFirst)
	if err != nil {
		t.Fatalf("Duplicated: %v", err)
	}
	if dup[0] || !dup[1] || dup[2] {
		t.Errorf("got %v, want [false true false] (missing != empty string)", dup)
	}
}

func TestDuplicated_NumberAndStringDoNotCollide(t *testing.T) {
	tbl := buildTable(t, []string{"a"},
		[]Value{Int(1)},
		[]Value{String("1")},
		[]Value{Bool(true)},
	)
	dup, _ := tbl.Duplicated(nil, KeepFirst)
	for i, d := range dup {
		if d {
			t.Errorf("row %d flagged as duplicate across kinds", i)
		}
	}
}

func TestDuplicated_InvalidKeep(t *testing.T) {
	tbl := New("a")
	if _, err := tbl.Duplicated(nil, Keep("middle")); !errors.Is(err, ErrInvalidKeep) {
		t.Errorf("expected ErrInvalidKeep, got %v", err)
	}
}

func TestSelect_MissingColumn(t *testing.T) {
	tbl := New("a", "b")
	_, err := tbl.Select("a", "c")
	var mce *MissingColumnError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if mce.Column != "c" {
		t.Errorf("expected column c, got %q", mce.Column)
	}
}

func TestReindexFillsMissing(t *testing.T) {
	tbl := buildTable(t, []string{"a"}, []Value{Int(7)})
	out := tbl.Reindex([]string{"b", "a"})
	if !out.Get(0, "b").IsMissing() {
		t.Error("expected b to be missing")
	}
	if f, _ := out.Get(0, "a").Float(); f != 7 {
		t.Errorf("expected a=7, got %v", f)
	}
}

func TestDropDuplicatesKeepsOrder(t *testing.T) {
	tbl := buildTable(t, []string{"a"},
		[]Value{Int(2)}, []Value{Int(1)}, []Value{Int(2)}, []Value{Int(3)},
	)
	out := tbl.DropDuplicates()
	if out.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", out.Len())
	}
	want := []float64{2, 1, 3}
	for i, w := range want {
		if f, _ := out.Get(i, "a").Float(); f != w {
			t.Errorf("row %d: got %v, want %v", i, f, w)
		}
	}
}

func TestNumberNaNIsMissing(t *testing.T) {
	var zero float64
	if !Number(zero / zero).IsMissing() {
		t.Error("expected NaN to be stored as missing")
	}
}
