package storage

import (
	"fmt"
	"testing"

	"github.com/pable/go-cs-mapviz/internal/model"
	"github.com/pable/go-cs-mapviz/internal/table"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDemoInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	summary := model.MatchSummary{
		DemoHash:  "abc123",
		MapName:   "de_dust2",
		MatchDate: "2025-01-01",
		MatchType: "Competitive",
		Tickrate:  64,
		CTScore:   16,
		TScore:    10,
		Rounds:    26,
	}

	if err := db.InsertDemo(summary); err != nil {
		t.Fatalf("InsertDemo: %v", err)
	}

	exists, err := db.DemoExists("abc123")
	if err != nil {
		t.Fatalf("DemoExists: %v", err)
	}
	if !exists {
		t.Error("expected demo to exist after insert")
	}

	exists2, _ := db.DemoExists("nonexistent")
	if exists2 {
		t.Error("expected non-existent demo to not exist")
	}
}

func TestListDemos(t *testing.T) {
	db := openMemDB(t)

	summaries := []model.MatchSummary{
		{DemoHash: "h1", MapName: "de_dust2", MatchDate: "2025-01-01", MatchType: "Competitive", Tickrate: 64},
		{DemoHash: "h2", MapName: "de_mirage", MatchDate: "2025-02-01", MatchType: "Premier", Tickrate: 128},
	}
	for _, s := range summaries {
		if err := db.InsertDemo(s); err != nil {
			t.Fatalf("InsertDemo: %v", err)
		}
	}

	list, err := db.ListDemos()
	if err != nil {
		t.Fatalf("ListDemos: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 demos, got %d", len(list))
	}
	// Ordered by match_date DESC, so h2 comes first.
	if list[0].DemoHash != "h2" {
		t.Errorf("expected h2 first (newest), got %s", list[0].DemoHash)
	}
}

func TestGetDemoByPrefix(t *testing.T) {
	db := openMemDB(t)

	db.InsertDemo(model.MatchSummary{DemoHash: "deadbeef1234", MapName: "de_inferno", MatchDate: "2025-01-01", MatchType: "Wingman", Tickrate: 64})

	s, err := db.GetDemoByPrefix("deadb")
	if err != nil {
		t.Fatalf("GetDemoByPrefix: %v", err)
	}
	if s == nil {
		t.Fatal("expected match for prefix 'deadb'")
	}
	if s.DemoHash != "deadbeef1234" {
		t.Errorf("unexpected hash %s", s.DemoHash)
	}

	s2, err := db.GetDemoByPrefix("ffffffff")
	if err != nil {
		t.Fatalf("GetDemoByPrefix no-match: %v", err)
	}
	if s2 != nil {
		t.Error("expected nil for unknown prefix")
	}
}

func TestInsertIdempotency(t *testing.T) {
	db := openMemDB(t)

	s := model.MatchSummary{DemoHash: "idem1", MapName: "de_nuke", MatchDate: "2025-01-01", MatchType: "Competitive", Tickrate: 64}
	db.InsertDemo(s)
	// Second insert should not error (INSERT OR REPLACE).
	if err := db.InsertDemo(s); err != nil {
		t.Errorf("second InsertDemo should succeed (idempotent): %v", err)
	}
}

func TestInsertDemoKeepsTables(t *testing.T) {
	db := openMemDB(t)
	s := model.MatchSummary{DemoHash: "h1", MapName: "de_nuke"}
	db.InsertDemo(s)
	tbl := table.New("tick", "round_num")
	tbl.Append(table.Int(1), table.Int(1))
	if err := db.InsertTable("h1", "kills", tbl); err != nil {
		t.Fatalf("InsertTable: %v", err)
	}
	s.CTScore = 13
	if err := db.InsertDemo(s); err != nil {
		t.Fatalf("re-insert: %v", err)
	}
	got, err := db.GetTable("h1", "kills", AllRounds)
	if err != nil || got == nil || got.Len() != 1 {
		t.Fatalf("table lost after re-insert: %v %v", got, err)
	}
}

func TestTableRoundTrip(t *testing.T) {
	db := openMemDB(t)
	db.InsertDemo(model.MatchSummary{DemoHash: "h1", MapName: "de_dust2"})

	tbl := table.New("tick", "round_num", "name", "headshot", "x")
	tbl.Append(table.Int(100), table.Int(1), table.String("alice"), table.Bool(true), table.Number(-12.5))
	tbl.Append(table.Int(200), table.Int(2), table.Missing, table.Bool(false), table.Missing)
	tbl.Append(table.Int(300), table.Int(2), table.String(""), table.Missing, table.Number(0))

	if err := db.InsertTable("h1", "kills", tbl); err != nil {
		t.Fatalf("InsertTable: %v", err)
	}
	got, err := db.GetTable("h1", "kills", AllRounds)
	if err != nil {
		t.Fatalf("GetTable: %v", err)
	}
	if got == nil {
		t.Fatal("expected table")
	}
	if fmt.Sprint(got.Columns()) != fmt.Sprint(tbl.Columns()) {
		t.Errorf("columns: got %v, want %v", got.Columns(), tbl.Columns())
	}
	if got.Len() != tbl.Len() {
		t.Fatalf("rows: got %d, want %d", got.Len(), tbl.Len())
	}
	for i := 0; i < tbl.Len(); i++ {
		for _, c := range tbl.Columns() {
			if want, have := tbl.Get(i, c), got.Get(i, c); !want.Equal(have) {
				t.Errorf("row %d col %s: got %v (%v), want %v (%v)", i, c, have, have.Kind(), want, want.Kind())
			}
		}
	}
}

func TestGetTableByRound(t *testing.T) {
	db := openMemDB(t)
	db.InsertDemo(model.MatchSummary{DemoHash: "h1", MapName: "de_dust2"})

	tbl := table.New("tick", "round_num")
	for i, r := range []int{1, 1, 2, 3, 2} {
		tbl.Append(table.Int(i*10), table.Int(r))
	}
	if err := db.InsertTable("h1", "frames", tbl); err != nil {
		t.Fatalf("InsertTable: %v", err)
	}
	got, err := db.GetTable("h1", "frames", 2)
	if err != nil {
		t.Fatalf("GetTable: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("expected 2 rows in round 2, got %d", got.Len())
	}
	if f, _ := got.Get(0, "tick").Float(); f != 20 {
		t.Errorf("first round-2 tick: got %v, want 20", f)
	}
	if f, _ := got.Get(1, "tick").Float(); f != 40 {
		t.Errorf("second round-2 tick: got %v, want 40", f)
	}
}

func TestGetTableMissing(t *testing.T) {
	db := openMemDB(t)
	got, err := db.GetTable("nope", "kills", AllRounds)
	if err != nil || got != nil {
		t.Errorf("expected (nil, nil), got (%v, %v)", got, err)
	}
}

func TestInsertTableReplaces(t *testing.T) {
	db := openMemDB(t)
	db.InsertDemo(model.MatchSummary{DemoHash: "h1", MapName: "de_dust2"})

	first := table.New("a")
	first.Append(table.Int(1))
	first.Append(table.Int(2))
	second := table.New("b")
	second.Append(table.String("x"))

	db.InsertTable("h1", "t", first)
	if err := db.InsertTable("h1", "t", second); err != nil {
		t.Fatalf("InsertTable: %v", err)
	}
	got, _ := db.GetTable("h1", "t", AllRounds)
	if got.Len() != 1 || !got.Has("b") || got.Has("a") {
		t.Errorf("expected replacement table, got cols %v len %d", got.Columns(), got.Len())
	}
}

func TestInsertReplayAndDelete(t *testing.T) {
	db := openMemDB(t)
	r := &model.Replay{
		Match:  model.MatchSummary{DemoHash: "abc", MapName: "de_inferno", Rounds: 1},
		Rounds: []model.Round{{Number: 1, StartTick: 0, FreezeEndTick: 10, EndTick: 100, WinnerTeam: model.TeamT}},
		Kills: []model.RawKill{{
			Tick: 50, RoundNumber: 1, Weapon: "AK-47",
			Attacker: model.PlayerSnapshot{SteamID: 1, Name: "a", Team: model.TeamT, Pos: model.Vec3{X: 1, Y: 2}},
			Victim:   model.PlayerSnapshot{SteamID: 2, Name: "b", Team: model.TeamCT, Pos: model.Vec3{X: 3, Y: 4}},
		}},
	}
	if err := db.InsertReplay(r); err != nil {
		t.Fatalf("InsertReplay: %v", err)
	}
	names, err := db.ListTables("abc")
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	if len(names) != len(model.TableNames) {
		t.Errorf("expected %d tables, got %v", len(model.TableNames), names)
	}
	kills, _ := db.GetTable("abc", model.TableKills, 1)
	if kills.Len() != 1 || kills.Get(0, "victim_side").String() != "ct" {
		t.Errorf("unexpected kills table: len %d", kills.Len())
	}

	if err := db.DeleteDemo("abc"); err != nil {
		t.Fatalf("DeleteDemo: %v", err)
	}
	if ok, _ := db.DemoExists("abc"); ok {
		t.Error("demo still exists after delete")
	}
	if got, _ := db.GetTable("abc", model.TableKills, AllRounds); got != nil {
		t.Error("tables still exist after delete")
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	db.InsertDemo(model.MatchSummary{DemoHash: "h1", MapName: "de_dust2", CTScore: 13})

	cols, rows, err := db.QueryRaw("SELECT map_name, ct_score, NULL AS n FROM demos")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 3 || cols[0] != "map_name" {
		t.Errorf("unexpected cols %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "de_dust2" || rows[0][1] != "13" || rows[0][2] != "" {
		t.Errorf("unexpected rows %v", rows)
	}
}
