// Package tanks implements a two-player tank duel on a brick arena.
// Each tank moves on four axes, fires on a cooldown and is out after its
// lives run out. The package is pure simulation: time advances one fixed
// period per Step so matches replay identically from the same inputs.
package tanks

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tankduel/internal/config"
	"github.com/vovakirdan/tankduel/internal/core"
	"github.com/vovakirdan/tankduel/internal/maps"
)

// Phase is the match state.
type Phase int

const (
	PhaseRunning Phase = iota
	PhasePaused
	PhaseOver
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// PlayerName returns the colour name a player is known by.
func PlayerName(p core.PlayerID) string {
	switch p {
	case core.Player1:
		return "RED"
	case core.Player2:
		return "CYAN"
	default:
		return "NOBODY"
	}
}

// StepResult describes what happened during one Step.
type StepResult struct {
	Phase   Phase
	Fired   int
	Expired int
	Report  Report
	Ended   bool // The match ended on this step
}

// Game is a single match.
type Game struct {
	cfg      config.TanksConfig
	layout   maps.Layout
	arena    *Arena
	resolver Resolver
	period   time.Duration

	phase  Phase
	winner core.PlayerID // Zero for a draw or while undecided
	tick   uint64
	now    time.Time
}

// New creates a running match on the given layout.
// start seeds the match clock, which then advances one tick period per Step.
func New(cfg config.TanksConfig, layout maps.Layout, start time.Time) *Game {
	g := &Game{
		cfg:      cfg,
		layout:   layout,
		resolver: NewResolver(cfg),
		period:   cfg.Loop.TickPeriod(),
		now:      start,
	}
	g.NewGame()
	return g
}

// NewGame resets both tanks, clears projectiles and starts running.
// The clock keeps running so saved firing timers stay comparable.
func (g *Game) NewGame() {
	g.arena = NewArena(g.cfg, g.layout)
	g.phase = PhaseRunning
	g.winner = 0
	g.tick = 0
}

// TogglePause switches between running and paused. It does nothing once over.
func (g *Game) TogglePause() {
	switch g.phase {
	case PhaseRunning:
		g.phase = PhasePaused
	case PhasePaused:
		g.phase = PhaseRunning
	}
}

// Step applies held input and, while running, advances the match one tick.
func (g *Game) Step(in core.MultiInputFrame) StepResult {
	for _, p := range core.Players {
		intent, firing := intentFromFrame(in.Player(p))
		g.arena.Vehicle(p).ApplyInput(intent, firing)
	}

	res := StepResult{Phase: g.phase}
	if g.phase != PhaseRunning {
		return res
	}

	g.tick++
	g.now = g.now.Add(g.period)

	res.Fired = g.arena.TickVehicles(g.now)
	res.Expired = g.arena.TickProjectiles()
	res.Report = g.resolver.Resolve(g.arena)

	if g.checkOver() {
		res.Ended = true
	}
	res.Phase = g.phase
	return res
}

// checkOver moves to PhaseOver when a tank has died. Both dying on the
// same tick is a draw.
func (g *Game) checkOver() bool {
	d1 := g.arena.Vehicle(core.Player1).Dead
	d2 := g.arena.Vehicle(core.Player2).Dead
	if !d1 && !d2 {
		return false
	}
	g.phase = PhaseOver
	switch {
	case d1 && d2:
		g.winner = 0
	case d1:
		g.winner = core.Player2
	default:
		g.winner = core.Player1
	}
	return true
}

func intentFromFrame(f core.InputFrame) (DirSet, bool) {
	var s DirSet
	if f.Has(core.ActionUp) {
		s = s.With(Up)
	}
	if f.Has(core.ActionDown) {
		s = s.With(Down)
	}
	if f.Has(core.ActionLeft) {
		s = s.With(Left)
	}
	if f.Has(core.ActionRight) {
		s = s.With(Right)
	}
	return s, f.Has(core.ActionFire)
}

// Phase returns the current match state.
func (g *Game) Phase() Phase {
	return g.phase
}

// Winner returns the winning player, or zero for a draw or an unfinished match.
func (g *Game) Winner() core.PlayerID {
	return g.winner
}

// Tick returns the number of simulated ticks since the match started.
func (g *Game) Tick() uint64 {
	return g.tick
}

// Now returns the match clock.
func (g *Game) Now() time.Time {
	return g.now
}

// Arena exposes the live arena. Callers must not retain it across steps.
func (g *Game) Arena() *Arena {
	return g.arena
}

// MapName returns the layout the match is played on.
func (g *Game) MapName() string {
	return g.arena.Obstacles.Name()
}

// VehicleStates captures both tanks, player 1 first.
func (g *Game) VehicleStates() [2]VehicleState {
	return [2]VehicleState{
		g.arena.Vehicles[0].State(),
		g.arena.Vehicles[1].State(),
	}
}

// ErrStateMismatch is returned when restored records are not player 1 then player 2.
var ErrStateMismatch = errors.New("tanks: vehicle records out of order")

// Restore replaces both tanks with saved states, clears projectiles and
// restarts the tick count. On error nothing is changed. Firing timers ahead
// of the match clock are pulled back to it so a tank cannot be locked out
// of firing.
func (g *Game) Restore(states [2]VehicleState) error {
	for i, s := range states {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("tanks: restore: %w", err)
		}
		if s.Player != core.Players[i] {
			return fmt.Errorf("%w: record %d is %s", ErrStateMismatch, i+1, s.Player)
		}
	}

	for i, s := range states {
		if s.FiringTimer.After(g.now) {
			s.FiringTimer = g.now
		}
		g.arena.Vehicles[i].restore(s)
	}
	clear(g.arena.Projectiles)
	g.arena.Projectiles = g.arena.Projectiles[:0]
	g.tick = 0

	if g.phase == PhaseOver {
		g.phase = PhaseRunning
		g.winner = 0
	}
	g.checkOver()
	return nil
}
