// Package loop drives a tank match at a fixed rate on its own goroutine.
// The runner is the only mutator of the game. Input flags are written by
// other goroutines and read once at the start of each tick; everything
// else reaches the game through a command queue drained between ticks.
package loop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tankduel/internal/config"
	"github.com/vovakirdan/tankduel/internal/core"
	"github.com/vovakirdan/tankduel/internal/games/tanks"
	"github.com/vovakirdan/tankduel/internal/logging"
	"github.com/vovakirdan/tankduel/internal/maps"
	"github.com/vovakirdan/tankduel/internal/savegame"
)

// ErrStopped is returned by requests made after the runner has stopped.
var ErrStopped = errors.New("loop: runner stopped")

// Options configures a Runner.
type Options struct {
	Config config.TanksConfig
	Layout maps.Layout
	Source string // Recorded with match results, defaults to "local"

	Sink   Sink             // Receives a frame after every tick
	Saver  MatchResultSaver // Optional match history
	Logger *log.Logger      // Defaults to a discarding logger

	// Clock returns wall time. It seeds the match clock and measures
	// match durations. Defaults to time.Now.
	Clock func() time.Time
}

type commandKind int

const (
	cmdTogglePause commandKind = iota
	cmdNewGame
	cmdRestore
)

type command struct {
	kind   commandKind
	states [2]tanks.VehicleState
	reply  chan error
}

// Runner owns a tank match and steps it at the configured tick rate.
type Runner struct {
	mu      sync.Mutex
	game    *tanks.Game
	matchID string
	started time.Time

	input    *InputState
	commands chan command

	period time.Duration
	source string
	clock  func() time.Time
	sink   Sink
	saver  MatchResultSaver
	logger *log.Logger
	inst   *instruments

	reports sync.WaitGroup

	done     chan struct{}
	doneOnce sync.Once
}

// New creates a runner. The match starts running on the first tick.
func New(opts Options) (*Runner, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("loop: %w", err)
	}
	if err := tanks.CheckLayout(opts.Config, opts.Layout); err != nil {
		return nil, fmt.Errorf("loop: %w", err)
	}
	inst, err := newInstruments()
	if err != nil {
		return nil, fmt.Errorf("loop: %w", err)
	}

	r := &Runner{
		input:    NewInputState(),
		commands: make(chan command, 16),
		period:   opts.Config.Loop.TickPeriod(),
		source:   opts.Source,
		clock:    opts.Clock,
		sink:     opts.Sink,
		saver:    opts.Saver,
		logger:   opts.Logger,
		inst:     inst,
		done:     make(chan struct{}),
	}
	if r.source == "" {
		r.source = "local"
	}
	if r.clock == nil {
		r.clock = time.Now
	}
	if r.sink == nil {
		r.sink = SinkFunc(func(Frame) {})
	}
	if r.logger == nil {
		r.logger = logging.Discard()
	}

	r.game = tanks.New(opts.Config, opts.Layout, r.clock())
	r.beginMatch()
	return r, nil
}

// beginMatch assigns a fresh match id. Caller holds mu or owns r exclusively.
func (r *Runner) beginMatch() {
	r.matchID = uuid.NewString()
	r.started = r.clock()
}

// Run steps the match until ctx is cancelled or Stop is called.
// A tick in progress always completes before Run returns.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("match started", "match", r.MatchID(), "map", r.game.MapName(), "period", r.period)
	defer r.finish()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-r.done:
			return nil
		default:
		}

		start := time.Now()
		r.tick(ctx)
		work := time.Since(start)
		r.inst.tickDuration.Record(ctx, float64(work.Microseconds())/1000)

		wait := r.period - work
		if wait <= 0 {
			// Overran the period; carry on without catching up.
			r.inst.overruns.Add(ctx, 1)
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-r.done:
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// tick runs one iteration: read input, apply commands, step, publish.
func (r *Runner) tick(ctx context.Context) {
	frame := r.input.Frame()

	r.mu.Lock()
	r.drainCommands()
	res := r.game.Step(frame)
	snap := r.game.Snapshot()
	matchID := r.matchID
	var result MatchResult
	if res.Ended {
		result = r.resultLocked(EndReasonCompleted)
	}
	r.mu.Unlock()

	if res.Phase == tanks.PhaseRunning || res.Ended {
		r.inst.ticks.Add(ctx, 1)
	}
	if res.Fired > 0 {
		r.inst.shots.Add(ctx, int64(res.Fired))
	}
	for _, p := range res.Report.Hits {
		r.inst.hits.Add(ctx, 1, playerAttr(tanks.PlayerName(p)))
		r.logger.Debug("tank hit", "match", matchID, "player", tanks.PlayerName(p), "tick", snap.Tick)
	}
	if res.Ended {
		r.report(ctx, result)
	}

	r.sink.Send(Frame{MatchID: matchID, Snapshot: snap})
}

// drainCommands applies every queued command. Caller holds mu.
func (r *Runner) drainCommands() {
	for {
		select {
		case cmd := <-r.commands:
			r.apply(cmd)
		default:
			return
		}
	}
}

func (r *Runner) apply(cmd command) {
	switch cmd.kind {
	case cmdTogglePause:
		r.game.TogglePause()
		r.logger.Debug("pause toggled", "match", r.matchID, "phase", r.game.Phase())
	case cmdNewGame:
		if r.game.Phase() != tanks.PhaseOver && r.game.Tick() > 0 {
			r.report(context.Background(), r.resultLocked(EndReasonAbandoned))
		}
		r.game.NewGame()
		r.beginMatch()
		r.logger.Info("new game", "match", r.matchID)
	case cmdRestore:
		cmd.reply <- r.restoreLocked(cmd.states)
	}
}

// restoreLocked loads saved tanks as a new match. A match still in
// progress is recorded as abandoned first. Caller holds mu.
func (r *Runner) restoreLocked(states [2]tanks.VehicleState) error {
	live := r.game.Phase() != tanks.PhaseOver && r.game.Tick() > 0
	prev := r.resultLocked(EndReasonAbandoned)

	if err := r.game.Restore(states); err != nil {
		r.logger.Warn("restore rejected", "match", r.matchID, "error", err)
		return err
	}
	if live {
		r.report(context.Background(), prev)
	}
	r.beginMatch()
	r.logger.Info("game restored", "match", r.matchID, "phase", r.game.Phase())
	return nil
}

// resultLocked builds the current match result. Caller holds mu.
func (r *Runner) resultLocked(reason EndReason) MatchResult {
	states := r.game.VehicleStates()
	winner := r.game.Winner()
	if reason != EndReasonCompleted {
		winner = 0
	}
	return MatchResult{
		MatchID:   r.matchID,
		MapName:   r.game.MapName(),
		Source:    r.source,
		Reason:    reason,
		Winner:    winner,
		Lives:     [2]int{states[0].Lives, states[1].Lives},
		Ticks:     r.game.Tick(),
		StartedAt: r.started,
		Duration:  r.clock().Sub(r.started),
	}
}

// report logs a finished match and hands it to the saver off the tick path.
func (r *Runner) report(ctx context.Context, res MatchResult) {
	r.inst.matches.Add(ctx, 1, reasonAttr(res.Reason))
	r.logger.Info("match over",
		"match", res.MatchID,
		"reason", res.Reason,
		"winner", tanks.PlayerName(res.Winner),
		"lives", fmt.Sprintf("%d-%d", res.Lives[0], res.Lives[1]),
		"ticks", res.Ticks,
	)
	if r.saver == nil {
		return
	}

	r.reports.Add(1)
	go func() {
		defer r.reports.Done()
		if err := r.saver.SaveMatchResult(res); err != nil {
			r.logger.Error("failed to save match result", "match", res.MatchID, "error", err)
		}
	}()
}

// finish records an unfinished match and waits for pending saves.
func (r *Runner) finish() {
	r.mu.Lock()
	if r.game.Phase() != tanks.PhaseOver && r.game.Tick() > 0 {
		r.report(context.Background(), r.resultLocked(EndReasonAbandoned))
	}
	r.mu.Unlock()

	r.Stop()
	r.reports.Wait()
	r.logger.Info("runner stopped", "match", r.MatchID())
}

// Stop ends Run after the current tick. Safe to call multiple times.
func (r *Runner) Stop() {
	r.doneOnce.Do(func() {
		close(r.done)
	})
}

// Done returns a channel closed once the runner is stopping.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Press marks a direction or fire as held for a player.
func (r *Runner) Press(p core.PlayerID, a core.Action) {
	r.input.Press(p, a)
}

// Release clears a held direction or fire.
func (r *Runner) Release(p core.PlayerID, a core.Action) {
	r.input.Release(p, a)
}

// ReleaseAll clears every held key of both players.
func (r *Runner) ReleaseAll() {
	r.input.ReleaseAll()
}

// TogglePause queues a pause toggle for the next tick.
func (r *Runner) TogglePause() {
	r.enqueue(command{kind: cmdTogglePause})
}

// NewGame queues a restart for the next tick.
func (r *Runner) NewGame() {
	r.enqueue(command{kind: cmdNewGame})
}

func (r *Runner) enqueue(cmd command) bool {
	select {
	case <-r.done:
		return false
	case r.commands <- cmd:
		return true
	}
}

// Save writes both tanks to path, appending the save extension when
// missing. The state is copied under the lock and written outside it.
func (r *Runner) Save(path string) (string, error) {
	r.mu.Lock()
	states := r.game.VehicleStates()
	r.mu.Unlock()

	written, err := savegame.Save(path, states)
	if err != nil {
		r.logger.Error("save failed", "path", path, "error", err)
		return "", err
	}
	r.logger.Info("game saved", "path", written)
	return written, nil
}

// Load reads a save file and applies it at the start of the next tick.
// On any error the running match is left untouched.
func (r *Runner) Load(ctx context.Context, path string) error {
	states, err := savegame.Load(path)
	if err != nil {
		r.logger.Error("load failed", "path", path, "error", err)
		return err
	}

	reply := make(chan error, 1)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrStopped
	case r.commands <- command{kind: cmdRestore, states: states, reply: reply}:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrStopped
	case err := <-reply:
		if err != nil {
			return fmt.Errorf("loop: load %s: %w", path, err)
		}
		r.logger.Info("game loaded", "path", path)
		return nil
	}
}

// Snapshot returns a deep copy of the match for rendering.
func (r *Runner) Snapshot() tanks.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Snapshot()
}

// MatchID returns the id of the current match.
func (r *Runner) MatchID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.matchID
}

// Period returns the tick period.
func (r *Runner) Period() time.Duration {
	return r.period
}
