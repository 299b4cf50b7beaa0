package tanks

import (
	"github.com/vovakirdan/tankduel/internal/core"
)

// VehicleView is the render state of a tank.
type VehicleView struct {
	Player core.PlayerID
	Rect   core.Rect
	Facing Direction
	Lives  int
	Dead   bool
}

// ProjectileView is the render state of a projectile.
type ProjectileView struct {
	Rect core.Rect
	Dir  Direction
}

// Snapshot is a self-contained copy of everything the presentation layer
// draws. It shares no memory with the live match.
type Snapshot struct {
	Tick        uint64
	Phase       Phase
	Winner      core.PlayerID
	MapName     string
	Bounds      core.Rect
	MaxLives    int
	Vehicles    [2]VehicleView
	Projectiles []ProjectileView
	Obstacles   []core.Rect
}

// Snapshot copies the current match state.
func (g *Game) Snapshot() Snapshot {
	a := g.arena
	snap := Snapshot{
		Tick:        g.tick,
		Phase:       g.phase,
		Winner:      g.winner,
		MapName:     g.arena.Obstacles.Name(),
		Bounds:      a.Bounds,
		MaxLives:    g.cfg.Vehicle.Lives,
		Projectiles: make([]ProjectileView, len(a.Projectiles)),
		Obstacles:   a.Obstacles.Rects(),
	}
	for i, v := range a.Vehicles {
		snap.Vehicles[i] = VehicleView{
			Player: v.Player,
			Rect:   v.Rect(),
			Facing: v.Facing,
			Lives:  v.Lives,
			Dead:   v.Dead,
		}
	}
	for i, p := range a.Projectiles {
		snap.Projectiles[i] = ProjectileView{Rect: p.Rect(), Dir: p.Dir}
	}
	return snap
}

// StatusLine returns the banner for the current phase, or empty while running.
func (s Snapshot) StatusLine() string {
	switch s.Phase {
	case PhasePaused:
		return "GAME PAUSED"
	case PhaseOver:
		if s.Winner == 0 {
			return "GAME OVER - DRAW"
		}
		return "GAME OVER - " + PlayerName(s.Winner) + " WINS"
	default:
		return ""
	}
}
