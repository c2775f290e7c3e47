package model

// Team represents which side a player is on.
type Team int

const (
	TeamUnknown    Team = 0
	TeamSpectators Team = 1
	TeamT          Team = 2
	TeamCT         Team = 3
)

func (t Team) String() string {
	switch t {
	case TeamT:
		return "T"
	case TeamCT:
		return "CT"
	default:
		return "?"
	}
}

// Side returns the lower-case side label used in event tables ("t" / "ct"),
// or "" when the team is not playing.
func (t Team) Side() string {
	switch t {
	case TeamT:
		return "t"
	case TeamCT:
		return "ct"
	default:
		return ""
	}
}

// Vec3 is a 3D world-space position in Hammer units.
type Vec3 struct{ X, Y, Z float64 }

// PlayerSnapshot is a player's identity and position at one tick.
type PlayerSnapshot struct {
	SteamID uint64
	Name    string
	Team    Team
	Pos     Vec3
}

// ---- Raw entities emitted by the parser ----

type Round struct {
	Number, StartTick, FreezeEndTick, EndTick int
	WinnerTeam                                Team
}

// PlayerFrame is one sampled player position.
type PlayerFrame struct {
	Tick, RoundNumber int
	Player            PlayerSnapshot
	IsAlive           bool
}

type RawKill struct {
	Tick, RoundNumber int
	Attacker, Victim  PlayerSnapshot
	Weapon            string
	IsHeadshot        bool
}

type RawDamage struct {
	Tick, RoundNumber int
	Attacker, Victim  PlayerSnapshot
	HealthDamage      int
	Weapon            string
}

// RawGrenade is a grenade detonation (or smoke/fire start). Thrower.Pos is
// the thrower's position at that tick, Pos the grenade's.
type RawGrenade struct {
	Tick, RoundNumber int
	Thrower           PlayerSnapshot
	GrenadeType       string
	Pos               Vec3
}

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	DemoHash  string
	MapName   string
	MatchDate string
	MatchType string
	Tickrate  float64
	CTScore   int
	TScore    int
	Rounds    int
}

// Replay is everything the parser extracts from one demo.
type Replay struct {
	Match    MatchSummary
	Rounds   []Round
	Frames   []PlayerFrame
	Kills    []RawKill
	Damages  []RawDamage
	Grenades []RawGrenade
}
