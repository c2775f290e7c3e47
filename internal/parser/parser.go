package parser

import (
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/golang/geo/r3"
	demoinfocs "github.com/markus-wa/demoinfocs-golang/v4/pkg/demoinfocs"
	common "github.com/markus-wa/demoinfocs-golang/v4/pkg/demoinfocs/common"
	"github.com/markus-wa/demoinfocs-golang/v4/pkg/demoinfocs/events"

	"github.com/pable/go-cs-mapviz/internal/model"
)

// DefaultFrameInterval is the number of ticks between player position samples.
const DefaultFrameInterval = 16

// Options controls what ParseDemo records.
type Options struct {
	MatchType string
	// FrameInterval is the sampling period for player positions in ticks.
	// Zero uses DefaultFrameInterval.
	FrameInterval int
}

// ParseDemo parses the demo at path and returns its replay entities. The
// demo may be compressed with zstd, bzip2 or gzip.
func ParseDemo(path string, opts Options) (*model.Replay, error) {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}

	f, cleanup, err := openDemo(path)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	// Hash file for idempotency key.
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hash demo: %w", err)
	}
	demoHash := fmt.Sprintf("%x", h.Sum(nil))

	// Seek back to start for the parser.
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek demo: %w", err)
	}

	p := demoinfocs.NewParser(f)
	defer p.Close()

	raw := &model.Replay{
		Match: model.MatchSummary{DemoHash: demoHash, MatchType: opts.MatchType},
	}

	var (
		roundNumber    int
		roundStartTick int
		freezeEndTick  int
		lastFrameTick  = -opts.FrameInterval
	)

	p.RegisterEventHandler(func(e events.RoundStart) {
		if p.GameState().IsWarmupPeriod() {
			return
		}
		roundNumber++
		roundStartTick = p.GameState().IngameTick()
		freezeEndTick = roundStartTick // updated by RoundFreezetimeEnd
	})

	p.RegisterEventHandler(func(e events.RoundFreezetimeEnd) {
		if roundNumber == 0 {
			return
		}
		freezeEndTick = p.GameState().IngameTick()
	})

	p.RegisterEventHandler(func(e events.RoundEnd) {
		if roundNumber == 0 {
			return
		}
		winner := teamFromCommon(e.Winner)
		raw.Rounds = append(raw.Rounds, model.Round{
			Number:        roundNumber,
			StartTick:     roundStartTick,
			FreezeEndTick: freezeEndTick,
			EndTick:       p.GameState().IngameTick(),
			WinnerTeam:    winner,
		})
		switch winner {
		case model.TeamCT:
			raw.Match.CTScore++
		case model.TeamT:
			raw.Match.TScore++
		}
	})

	// Sample every playing player's position once per FrameInterval ticks.
	p.RegisterEventHandler(func(e events.FrameDone) {
		if roundNumber == 0 {
			return
		}
		tick := p.GameState().IngameTick()
		if tick-lastFrameTick < opts.FrameInterval {
			return
		}
		lastFrameTick = tick
		for _, pl := range p.GameState().Participants().Playing() {
			if pl == nil || pl.SteamID64 == 0 {
				continue
			}
			raw.Frames = append(raw.Frames, model.PlayerFrame{
				Tick:        tick,
				RoundNumber: roundNumber,
				Player:      snapshot(pl),
				IsAlive:     pl.IsAlive(),
			})
		}
	})

	p.RegisterEventHandler(func(e events.Kill) {
		if roundNumber == 0 || e.Victim == nil {
			return
		}
		var weapName string
		if e.Weapon != nil {
			weapName = e.Weapon.Type.String()
		}
		raw.Kills = append(raw.Kills, model.RawKill{
			Tick:        p.GameState().IngameTick(),
			RoundNumber: roundNumber,
			Attacker:    snapshot(e.Killer), // nil for world damage
			Victim:      snapshot(e.Victim),
			Weapon:      weapName,
			IsHeadshot:  e.IsHeadshot,
		})
	})

	p.RegisterEventHandler(func(e events.PlayerHurt) {
		if roundNumber == 0 || e.Attacker == nil || e.Player == nil {
			return
		}
		if e.Attacker.SteamID64 == e.Player.SteamID64 {
			return // ignore self-damage
		}
		var weapName string
		if e.Weapon != nil {
			weapName = e.Weapon.Type.String()
		}
		raw.Damages = append(raw.Damages, model.RawDamage{
			Tick:         p.GameState().IngameTick(),
			RoundNumber:  roundNumber,
			Attacker:     snapshot(e.Attacker),
			Victim:       snapshot(e.Player),
			HealthDamage: e.HealthDamage,
			Weapon:       weapName,
		})
	})

	grenade := func(e events.GrenadeEvent) {
		if roundNumber == 0 {
			return
		}
		raw.Grenades = append(raw.Grenades, model.RawGrenade{
			Tick:        p.GameState().IngameTick(),
			RoundNumber: roundNumber,
			Thrower:     snapshot(e.Thrower),
			GrenadeType: e.GrenadeType.String(),
			Pos:         vec(e.Position),
		})
	}
	p.RegisterEventHandler(func(e events.HeExplode) { grenade(e.GrenadeEvent) })
	p.RegisterEventHandler(func(e events.FlashExplode) { grenade(e.GrenadeEvent) })
	p.RegisterEventHandler(func(e events.SmokeStart) { grenade(e.GrenadeEvent) })
	p.RegisterEventHandler(func(e events.FireGrenadeStart) { grenade(e.GrenadeEvent) })
	p.RegisterEventHandler(func(e events.DecoyStart) { grenade(e.GrenadeEvent) })

	if err := p.ParseToEnd(); err != nil {
		return nil, fmt.Errorf("parse demo: %w", err)
	}

	header := p.Header()
	raw.Match.MapName = header.MapName
	raw.Match.MatchDate = time.Now().Format("2006-01-02") // demos rarely embed wall-clock time
	raw.Match.Tickrate = p.TickRate()
	raw.Match.Rounds = len(raw.Rounds)

	return raw, nil
}

func snapshot(pl *common.Player) model.PlayerSnapshot {
	if pl == nil {
		return model.PlayerSnapshot{}
	}
	return model.PlayerSnapshot{
		SteamID: pl.SteamID64,
		Name:    pl.Name,
		Team:    teamFromCommon(pl.Team),
		Pos:     vec(pl.Position()),
	}
}

func vec(v r3.Vector) model.Vec3 {
	return model.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

func teamFromCommon(t common.Team) model.Team {
	switch t {
	case common.TeamTerrorists:
		return model.TeamT
	case common.TeamCounterTerrorists:
		return model.TeamCT
	case common.TeamSpectators:
		return model.TeamSpectators
	default:
		return model.TeamUnknown
	}
}
