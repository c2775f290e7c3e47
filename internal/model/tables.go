package model

import (
	"strconv"

	"github.com/pable/go-cs-mapviz/internal/table"
)

// Stored table names.
const (
	TableRounds       = "rounds"
	TablePlayerFrames = "player_frames"
	TableKills        = "kills"
	TableDamages      = "damages"
	TableGrenades     = "grenades"
)

// TableNames lists every table produced by Replay.Tables, in storage order.
var TableNames = []string{TableRounds, TablePlayerFrames, TableKills, TableDamages, TableGrenades}

var playerAttrs = []string{"steam_id", "name", "side", "x", "y", "z"}

func prefixed(prefix string, attrs []string) []string {
	out := make([]string, len(attrs))
	for i, a := range attrs {
		out[i] = prefix + "_" + a
	}
	return out
}

func columns(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// playerCells renders a snapshot; an absent player (world damage) is all missing.
func playerCells(p PlayerSnapshot) []table.Value {
	if p == (PlayerSnapshot{}) {
		return make([]table.Value, len(playerAttrs))
	}
	id := table.Missing
	if p.SteamID != 0 {
		id = table.String(strconv.FormatUint(p.SteamID, 10))
	}
	side := table.Missing
	if s := p.Team.Side(); s != "" {
		side = table.String(s)
	}
	return []table.Value{
		id,
		table.String(p.Name),
		side,
		table.Number(p.Pos.X),
		table.Number(p.Pos.Y),
		table.Number(p.Pos.Z),
	}
}

func mustAppend(t *table.Table, groups ...[]table.Value) {
	var cells []table.Value
	for _, g := range groups {
		cells = append(cells, g...)
	}
	if err := t.Append(cells...); err != nil {
		panic(err)
	}
}

// RoundsTable returns one row per round.
func (r *Replay) RoundsTable() *table.Table {
	t := table.New("round_num", "start_tick", "freeze_end_tick", "end_tick", "winner")
	for _, rd := range r.Rounds {
		winner := table.Missing
		if s := rd.WinnerTeam.Side(); s != "" {
			winner = table.String(s)
		}
		mustAppend(t, []table.Value{
			table.Int(rd.Number), table.Int(rd.StartTick), table.Int(rd.FreezeEndTick), table.Int(rd.EndTick), winner,
		})
	}
	return t
}

// FramesTable returns the sampled player positions, already in long form.
func (r *Replay) FramesTable() *table.Table {
	t := table.New(columns([]string{"tick", "round_num"}, playerAttrs, []string{"is_alive"})...)
	for _, f := range r.Frames {
		mustAppend(t,
			[]table.Value{table.Int(f.Tick), table.Int(f.RoundNumber)},
			playerCells(f.Player),
			[]table.Value{table.Bool(f.IsAlive)},
		)
	}
	return t
}

// KillsTable returns one wide row per kill with attacker_* and victim_* blocks.
func (r *Replay) KillsTable() *table.Table {
	t := table.New(columns(
		[]string{"tick", "round_num", "weapon", "headshot"},
		prefixed("attacker", playerAttrs),
		prefixed("victim", playerAttrs),
	)...)
	for _, k := range r.Kills {
		mustAppend(t,
			[]table.Value{table.Int(k.Tick), table.Int(k.RoundNumber), table.String(k.Weapon), table.Bool(k.IsHeadshot)},
			playerCells(k.Attacker),
			playerCells(k.Victim),
		)
	}
	return t
}

// DamagesTable returns one wide row per damage event.
func (r *Replay) DamagesTable() *table.Table {
	t := table.New(columns(
		[]string{"tick", "round_num", "weapon", "hp_damage"},
		prefixed("attacker", playerAttrs),
		prefixed("victim", playerAttrs),
	)...)
	for _, d := range r.Damages {
		mustAppend(t,
			[]table.Value{table.Int(d.Tick), table.Int(d.RoundNumber), table.String(d.Weapon), table.Int(d.HealthDamage)},
			playerCells(d.Attacker),
			playerCells(d.Victim),
		)
	}
	return t
}

// GrenadesTable returns one wide row per grenade with thrower_* and
// grenade_* blocks. The grenade block has no side.
func (r *Replay) GrenadesTable() *table.Table {
	t := table.New(columns(
		[]string{"tick", "round_num"},
		prefixed("thrower", playerAttrs),
		[]string{"grenade_type", "grenade_x", "grenade_y", "grenade_z"},
	)...)
	for _, g := range r.Grenades {
		mustAppend(t,
			[]table.Value{table.Int(g.Tick), table.Int(g.RoundNumber)},
			playerCells(g.Thrower),
			[]table.Value{table.String(g.GrenadeType), table.Number(g.Pos.X), table.Number(g.Pos.Y), table.Number(g.Pos.Z)},
		)
	}
	return t
}

// Tables returns every table of the replay keyed by name.
func (r *Replay) Tables() map[string]*table.Table {
	return map[string]*table.Table{
		TableRounds:       r.RoundsTable(),
		TablePlayerFrames: r.FramesTable(),
		TableKills:        r.KillsTable(),
		TableDamages:      r.DamagesTable(),
		TableGrenades:     r.GrenadesTable(),
	}
}
