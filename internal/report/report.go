// Package report prints replay data as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-cs-mapviz/internal/model"
	"github.com/pable/go-cs-mapviz/internal/render"
	"github.com/pable/go-cs-mapviz/internal/table"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// PrintMatchSummary prints a one-line summary header for the match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	fmt.Fprintf(w, "\nMap: %s  |  Date: %s  |  Type: %s  |  Score: CT %d - T %d  |  Rounds: %d  |  Hash: %s\n\n",
		s.MapName, s.MatchDate, s.MatchType, s.CTScore, s.TScore, s.Rounds, shortHash(s.DemoHash))
}

// PrintDemos prints one row per stored demo.
func PrintDemos(w io.Writer, demos []model.MatchSummary) {
	t := newTable(w)
	t.Header("HASH", "MAP", "DATE", "TYPE", "SCORE", "ROUNDS", "TICK")
	for _, d := range demos {
		t.Append(
			shortHash(d.DemoHash),
			d.MapName,
			d.MatchDate,
			d.MatchType,
			fmt.Sprintf("%d-%d", d.CTScore, d.TScore),
			strconv.Itoa(d.Rounds),
			fmt.Sprintf("%.0f", d.Tickrate),
		)
	}
	t.Render()
}

// PrintTable prints up to limit rows of tbl; limit <= 0 prints all rows.
// Missing cells print as "-".
func PrintTable(w io.Writer, tbl *table.Table, limit int) {
	cols := tbl.Columns()
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	t := newTable(w)
	t.Header(header...)

	n := tbl.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	for i := 0; i < n; i++ {
		row := make([]any, len(cols))
		for j, c := range cols {
			v := tbl.Get(i, c)
			if v.IsMissing() {
				row[j] = "-"
			} else {
				row[j] = v.String()
			}
		}
		t.Append(row...)
	}
	t.Render()
	if n < tbl.Len() {
		fmt.Fprintf(w, "(%d of %d rows)\n", n, tbl.Len())
	} else {
		fmt.Fprintf(w, "(%d rows)\n", n)
	}
}

// LayerSummary is one render.Render result labelled with its layer.
type LayerSummary struct {
	Layer string
	render.Summary
}

// PrintRenderSummary prints what each layer drew.
func PrintRenderSummary(w io.Writer, sums []LayerSummary) {
	t := newTable(w)
	t.Header("LAYER", "DRAWN", "SKIPPED", "COLOR_FB", "MARKER_FB", "LEGENDS", "RANGE")
	for _, s := range sums {
		t.Append(
			s.Layer,
			strconv.Itoa(s.Drawn),
			strconv.Itoa(s.Skipped),
			strconv.Itoa(s.ColorFallbacks),
			strconv.Itoa(s.MarkerFallbacks),
			strconv.Itoa(s.Legends),
			fmt.Sprintf("%g..%g", s.Min, s.Max),
		)
	}
	t.Render()
}
