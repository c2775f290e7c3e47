package model

import (
	"testing"

	"github.com/pable/go-cs-mapviz/internal/table"
)

func sampleReplay() *Replay {
	killer := PlayerSnapshot{SteamID: 1001, Name: "ropz", Team: TeamT, Pos: Vec3{X: -500, Y: 800, Z: 64}}
	victim := PlayerSnapshot{SteamID: 1002, Name: "frozen", Team: TeamCT, Pos: Vec3{X: -420, Y: 910, Z: 64}}
	return &Replay{
		Match:  MatchSummary{DemoHash: "abc", MapName: "de_mirage"},
		Rounds: []Round{{Number: 1, StartTick: 0, FreezeEndTick: 1280, EndTick: 9000, WinnerTeam: TeamCT}},
		Frames: []PlayerFrame{{Tick: 1300, RoundNumber: 1, Player: killer, IsAlive: true}},
		Kills: []RawKill{
			{Tick: 2000, RoundNumber: 1, Attacker: killer, Victim: victim, Weapon: "AK-47", IsHeadshot: true},
			{Tick: 2100, RoundNumber: 1, Victim: killer, Weapon: "World"},
		},
		Grenades: []RawGrenade{{Tick: 1500, RoundNumber: 1, Thrower: victim, GrenadeType: "Smoke Grenade", Pos: Vec3{X: 1, Y: 2}}},
	}
}

func TestKillsTable_WideLayout(t *testing.T) {
	kills := sampleReplay().KillsTable()
	if kills.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", kills.Len())
	}
	for _, c := range []string{"attacker_x", "attacker_side", "victim_y", "victim_steam_id", "tick", "headshot"} {
		if !kills.Has(c) {
			t.Errorf("missing column %q", c)
		}
	}
	if s, _ := kills.Get(0, "attacker_side").Text(); s != "t" {
		t.Errorf("attacker_side: got %q, want t", s)
	}
	if id, _ := kills.Get(0, "victim_steam_id").Text(); id != "1002" {
		t.Errorf("victim_steam_id: got %q", id)
	}
	if hs, _ := kills.Get(0, "headshot").Truth(); !hs {
		t.Error("expected headshot=true")
	}
}

func TestKillsTable_WorldKillHasMissingAttacker(t *testing.T) {
	kills := sampleReplay().KillsTable()
	for _, c := range []string{"attacker_x", "attacker_y", "attacker_side", "attacker_steam_id"} {
		if v := kills.Get(1, c); !v.IsMissing() {
			t.Errorf("%s: expected missing for world kill, got %v", c, v)
		}
	}
}

func TestTables_AllNamed(t *testing.T) {
	tables := sampleReplay().Tables()
	for _, name := range TableNames {
		if tables[name] == nil {
			t.Errorf("table %q not produced", name)
		}
	}
	rounds := tables[TableRounds]
	if w, _ := rounds.Get(0, "winner").Text(); w != "ct" {
		t.Errorf("winner: got %q", w)
	}
	frames := tables[TablePlayerFrames]
	if x, _ := frames.Get(0, "x").Float(); x != -500 {
		t.Errorf("frame x: got %v", x)
	}
	grenades := tables[TableGrenades]
	if v := grenades.Get(0, "grenade_type"); !v.Equal(table.String("Smoke Grenade")) {
		t.Errorf("grenade_type: got %v", v)
	}
}

func TestTeamSide(t *testing.T) {
	cases := map[Team]string{TeamT: "t", TeamCT: "ct", TeamSpectators: "", TeamUnknown: ""}
	for team, want := range cases {
		if got := team.Side(); got != want {
			t.Errorf("%v.Side(): got %q, want %q", team, got, want)
		}
	}
}
