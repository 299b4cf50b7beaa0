package loop

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tankduel/internal/config"
	"github.com/vovakirdan/tankduel/internal/core"
	"github.com/vovakirdan/tankduel/internal/games/tanks"
	"github.com/vovakirdan/tankduel/internal/maps"
	"github.com/vovakirdan/tankduel/internal/savegame"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type recordingSaver struct {
	mu      sync.Mutex
	results []MatchResult
}

func (s *recordingSaver) SaveMatchResult(r MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

func (s *recordingSaver) all() []MatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MatchResult(nil), s.results...)
}

func newTestRunner(t *testing.T, sink Sink, saver MatchResultSaver) *Runner {
	t.Helper()
	r, err := New(Options{
		Config: config.DefaultTanksConfig(),
		Layout: maps.Layout{ID: "empty", Columns: 20, Flags: make([]bool, 400)},
		Sink:   sink,
		Saver:  saver,
		Clock:  func() time.Time { return epoch },
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestRunnerTickAppliesInput(t *testing.T) {
	sink := NewChannelSink(4)
	r := newTestRunner(t, sink, nil)
	start := r.Snapshot().Vehicles[0].Rect

	r.Press(core.Player1, core.ActionDown)
	r.tick(context.Background())

	f := <-sink.Frames()
	got := f.Snapshot.Vehicles[0].Rect
	if got.X != start.X || got.Y != start.Y+8 {
		t.Errorf("P1 = (%d, %d), expected (%d, %d)", got.X, got.Y, start.X, start.Y+8)
	}
	if f.Snapshot.Tick != 1 {
		t.Errorf("frame tick = %d, expected 1", f.Snapshot.Tick)
	}
	if f.MatchID != r.MatchID() {
		t.Errorf("frame match = %q, expected %q", f.MatchID, r.MatchID())
	}

	r.Release(core.Player1, core.ActionDown)
	r.tick(context.Background())
	f = <-sink.Frames()
	if f.Snapshot.Vehicles[0].Rect != got {
		t.Errorf("released tank moved to %+v", f.Snapshot.Vehicles[0].Rect)
	}
}

func TestRunnerPauseCommand(t *testing.T) {
	r := newTestRunner(t, nil, nil)

	r.TogglePause()
	r.Press(core.Player2, core.ActionUp)
	r.tick(context.Background())

	snap := r.Snapshot()
	if snap.Phase != tanks.PhasePaused {
		t.Fatalf("Phase = %s, expected paused", snap.Phase)
	}
	if snap.Tick != 0 {
		t.Errorf("Tick = %d, expected 0 while paused", snap.Tick)
	}

	r.TogglePause()
	r.tick(context.Background())
	if got := r.Snapshot(); got.Phase != tanks.PhaseRunning || got.Tick != 1 {
		t.Errorf("after resume phase=%s tick=%d, expected running/1", got.Phase, got.Tick)
	}
}

func TestRunnerReportsFinishedMatch(t *testing.T) {
	saver := &recordingSaver{}
	r := newTestRunner(t, nil, saver)

	r.mu.Lock()
	a := r.game.Arena()
	p1, p2 := a.Vehicle(core.Player1), a.Vehicle(core.Player2)
	p1.X, p1.Y, p1.Facing = 0, 0, tanks.Right
	p2.X, p2.Y, p2.Lives = 200, 0, 1
	r.mu.Unlock()

	r.Press(core.Player1, core.ActionFire)
	for i := 0; i < 30 && r.Snapshot().Phase != tanks.PhaseOver; i++ {
		r.tick(context.Background())
	}
	r.reports.Wait()

	snap := r.Snapshot()
	if snap.Phase != tanks.PhaseOver || snap.Winner != core.Player1 {
		t.Fatalf("phase=%s winner=%s, expected over/P1", snap.Phase, snap.Winner)
	}

	results := saver.all()
	if len(results) != 1 {
		t.Fatalf("saved %d results, expected 1", len(results))
	}
	got := results[0]
	if got.Reason != EndReasonCompleted || got.Winner != core.Player1 {
		t.Errorf("result = %s/%s, expected completed/P1", got.Reason, got.Winner)
	}
	if got.Lives != [2]int{3, 0} {
		t.Errorf("Lives = %v, expected [3 0]", got.Lives)
	}
	if got.MatchID != r.MatchID() || got.MapName != "empty" || got.Source != "local" {
		t.Errorf("result = %+v", got)
	}
	if got.Ticks != snap.Tick {
		t.Errorf("Ticks = %d, expected %d", got.Ticks, snap.Tick)
	}

	// Over is terminal: further ticks record nothing new.
	r.tick(context.Background())
	r.reports.Wait()
	if n := len(saver.all()); n != 1 {
		t.Errorf("saved %d results after game over, expected 1", n)
	}
}

func TestRunnerNewGameAbandonsMatch(t *testing.T) {
	saver := &recordingSaver{}
	r := newTestRunner(t, nil, saver)
	first := r.MatchID()

	r.tick(context.Background())
	r.NewGame()
	r.tick(context.Background())
	r.reports.Wait()

	results := saver.all()
	if len(results) != 1 {
		t.Fatalf("saved %d results, expected 1", len(results))
	}
	if results[0].Reason != EndReasonAbandoned || results[0].MatchID != first {
		t.Errorf("result = %s/%s, expected abandoned/%s", results[0].Reason, results[0].MatchID, first)
	}
	if results[0].Winner != 0 {
		t.Errorf("Winner = %s, expected none", results[0].Winner)
	}
	if r.MatchID() == first {
		t.Error("NewGame should start a new match id")
	}
	if tick := r.Snapshot().Tick; tick != 1 {
		t.Errorf("Tick = %d, expected 1", tick)
	}
}

func TestRunnerNewGameBeforeFirstTickRecordsNothing(t *testing.T) {
	saver := &recordingSaver{}
	r := newTestRunner(t, nil, saver)

	r.NewGame()
	r.tick(context.Background())
	r.reports.Wait()

	if n := len(saver.all()); n != 0 {
		t.Errorf("saved %d results, expected 0", n)
	}
}

func runInBackground(t *testing.T, r *Runner) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- r.Run(ctx)
	}()
	return cancel, errc
}

func waitRun(t *testing.T, errc <-chan error) {
	t.Helper()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestRunnerRunStops(t *testing.T) {
	t.Run("context", func(t *testing.T) {
		sink := NewChannelSink(1)
		r := newTestRunner(t, sink, nil)
		cancel, errc := runInBackground(t, r)

		select {
		case <-sink.Frames():
		case <-time.After(2 * time.Second):
			t.Fatal("no frame published")
		}
		cancel()
		waitRun(t, errc)
	})

	t.Run("stop", func(t *testing.T) {
		r := newTestRunner(t, nil, nil)
		cancel, errc := runInBackground(t, r)
		defer cancel()

		r.Stop()
		r.Stop()
		waitRun(t, errc)

		select {
		case <-r.Done():
		default:
			t.Error("Done() should be closed after Stop")
		}
	})
}

func TestRunnerRunRecordsAbandonedMatch(t *testing.T) {
	saver := &recordingSaver{}
	sink := NewChannelSink(1)
	r := newTestRunner(t, sink, saver)
	cancel, errc := runInBackground(t, r)

	<-sink.Frames()
	cancel()
	waitRun(t, errc)

	results := saver.all()
	if len(results) != 1 || results[0].Reason != EndReasonAbandoned {
		t.Errorf("results = %+v, expected one abandoned match", results)
	}
}

func TestRunnerSaveLoad(t *testing.T) {
	r := newTestRunner(t, nil, nil)
	path := filepath.Join(t.TempDir(), "duel")

	r.Press(core.Player1, core.ActionDown)
	r.Press(core.Player2, core.ActionLeft)
	for i := 0; i < 3; i++ {
		r.tick(context.Background())
	}
	r.ReleaseAll()
	saved := r.Snapshot()

	written, err := r.Save(path)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if written != path+savegame.Extension {
		t.Errorf("Save() path = %q, expected %q", written, path+savegame.Extension)
	}

	r.Press(core.Player1, core.ActionRight)
	r.Press(core.Player1, core.ActionFire)
	for i := 0; i < 3; i++ {
		r.tick(context.Background())
	}
	r.ReleaseAll()

	cancel, errc := runInBackground(t, r)
	ctx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	if err := r.Load(ctx, written); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cancel()
	waitRun(t, errc)

	got := r.Snapshot()
	for i := range got.Vehicles {
		if got.Vehicles[i].Rect != saved.Vehicles[i].Rect {
			t.Errorf("vehicle %d = %+v, expected %+v", i+1, got.Vehicles[i].Rect, saved.Vehicles[i].Rect)
		}
	}
	if len(got.Projectiles) != 0 {
		t.Errorf("%d projectiles after load, expected 0", len(got.Projectiles))
	}
}

func TestRunnerLoadErrorsLeaveStateUntouched(t *testing.T) {
	dir := t.TempDir()

	swapped := filepath.Join(dir, "swapped"+savegame.Extension)
	{
		r := newTestRunner(t, nil, nil)
		states := r.game.VehicleStates()
		states[0], states[1] = states[1], states[0]
		if _, err := savegame.Save(swapped, states); err != nil {
			t.Fatalf("savegame.Save() error = %v", err)
		}
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing extension", filepath.Join(dir, "duel.txt"), savegame.ErrExtension},
		{"records out of order", swapped, tanks.ErrStateMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRunner(t, nil, nil)
			r.Press(core.Player1, core.ActionDown)
			r.tick(context.Background())
			r.ReleaseAll()
			before := r.Snapshot()

			cancel, errc := runInBackground(t, r)
			ctx, stop := context.WithTimeout(context.Background(), 2*time.Second)
			defer stop()
			err := r.Load(ctx, tt.path)
			cancel()
			waitRun(t, errc)

			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, expected %v", err, tt.want)
			}
			after := r.Snapshot()
			if after.Vehicles != before.Vehicles {
				t.Errorf("vehicles changed after failed load: %+v", after.Vehicles)
			}
		})
	}
}

func TestRunnerLoadAfterStop(t *testing.T) {
	r := newTestRunner(t, nil, nil)
	path, err := r.Save(filepath.Join(t.TempDir(), "duel"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	r.Stop()
	if err := r.Load(context.Background(), path); !errors.Is(err, ErrStopped) {
		t.Errorf("Load() error = %v, expected %v", err, ErrStopped)
	}
}

// restoreNow applies a save file the way the loop does between ticks.
func restoreNow(t *testing.T, r *Runner, path string) error {
	t.Helper()
	states, err := savegame.Load(path)
	if err != nil {
		t.Fatalf("savegame.Load() error = %v", err)
	}
	reply := make(chan error, 1)
	r.mu.Lock()
	r.apply(command{kind: cmdRestore, states: states, reply: reply})
	r.mu.Unlock()
	return <-reply
}

func TestRunnerLoadAfterMatchOverStartsNewMatch(t *testing.T) {
	saver := &recordingSaver{}
	r := newTestRunner(t, nil, saver)

	r.mu.Lock()
	a := r.game.Arena()
	p1, p2 := a.Vehicle(core.Player1), a.Vehicle(core.Player2)
	p1.X, p1.Y, p1.Facing = 0, 0, tanks.Right
	p2.X, p2.Y, p2.Lives = 200, 0, 1
	r.mu.Unlock()

	path, err := r.Save(filepath.Join(t.TempDir(), "duel"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	finish := func() {
		for i := 0; i < 30 && r.Snapshot().Phase != tanks.PhaseOver; i++ {
			r.tick(context.Background())
		}
		r.reports.Wait()
	}

	r.Press(core.Player1, core.ActionFire)
	finish()
	firstID := r.MatchID()

	if err := restoreNow(t, r, path); err != nil {
		t.Fatalf("restore error = %v", err)
	}
	snap := r.Snapshot()
	if snap.Phase != tanks.PhaseRunning || snap.Tick != 0 {
		t.Errorf("after load phase=%s tick=%d, expected running/0", snap.Phase, snap.Tick)
	}
	if r.MatchID() == firstID {
		t.Error("load after game over should start a new match")
	}
	r.reports.Wait()
	if n := len(saver.all()); n != 1 {
		t.Fatalf("saved %d results after load, expected 1", n)
	}

	finish()

	results := saver.all()
	if len(results) != 2 {
		t.Fatalf("saved %d results, expected 2", len(results))
	}
	if results[0].MatchID != firstID || results[1].MatchID != r.MatchID() {
		t.Errorf("match ids = %q, %q, expected %q, %q", results[0].MatchID, results[1].MatchID, firstID, r.MatchID())
	}
	for i, res := range results {
		if res.Reason != EndReasonCompleted || res.Winner != core.Player1 {
			t.Errorf("result %d = %s/%s, expected completed/P1", i, res.Reason, res.Winner)
		}
	}
	if results[1].Ticks != results[0].Ticks {
		t.Errorf("reloaded match Ticks = %d, expected %d", results[1].Ticks, results[0].Ticks)
	}
}

func TestRunnerLoadMidMatchAbandonsMatch(t *testing.T) {
	saver := &recordingSaver{}
	r := newTestRunner(t, nil, saver)

	path, err := r.Save(filepath.Join(t.TempDir(), "start"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	r.Press(core.Player1, core.ActionDown)
	for i := 0; i < 3; i++ {
		r.tick(context.Background())
	}
	r.ReleaseAll()
	firstID := r.MatchID()

	swapped := filepath.Join(t.TempDir(), "swapped"+savegame.Extension)
	states := r.game.VehicleStates()
	states[0], states[1] = states[1], states[0]
	if _, err := savegame.Save(swapped, states); err != nil {
		t.Fatalf("savegame.Save() error = %v", err)
	}
	if err := restoreNow(t, r, swapped); !errors.Is(err, tanks.ErrStateMismatch) {
		t.Fatalf("restore(swapped) error = %v, expected ErrStateMismatch", err)
	}
	r.reports.Wait()
	if n := len(saver.all()); n != 0 || r.MatchID() != firstID {
		t.Fatalf("failed load recorded %d results and match %q, expected 0 and %q", n, r.MatchID(), firstID)
	}

	if err := restoreNow(t, r, path); err != nil {
		t.Fatalf("restore error = %v", err)
	}
	r.reports.Wait()

	results := saver.all()
	if len(results) != 1 {
		t.Fatalf("saved %d results, expected 1", len(results))
	}
	got := results[0]
	if got.MatchID != firstID || got.Reason != EndReasonAbandoned || got.Winner != 0 || got.Ticks != 3 {
		t.Errorf("result = %+v, expected abandoned match %q after 3 ticks", got, firstID)
	}
	if r.MatchID() == firstID || r.Snapshot().Tick != 0 {
		t.Errorf("after load match=%q tick=%d, expected a new match at tick 0", r.MatchID(), r.Snapshot().Tick)
	}
}

func TestNewRejectsLayoutColumns(t *testing.T) {
	_, err := New(Options{
		Config: config.DefaultTanksConfig(),
		Layout: maps.Layout{ID: "narrow", Columns: 10, Flags: make([]bool, 100)},
	})
	if !errors.Is(err, tanks.ErrLayoutColumns) {
		t.Errorf("New() error = %v, expected ErrLayoutColumns", err)
	}
}
