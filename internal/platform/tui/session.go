package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tankduel/internal/config"
	"github.com/vovakirdan/tankduel/internal/loop"
	"github.com/vovakirdan/tankduel/internal/maps"
	"github.com/vovakirdan/tankduel/internal/storage"
)

// frameBuffer is how many frames a slow renderer may lag behind.
const frameBuffer = 2

// SessionOptions configures a hotseat session.
type SessionOptions struct {
	Config   config.TanksConfig
	Layout   maps.Layout
	Store    *storage.Store // Optional match history
	SavePath string
	Source   string
	Logger   *log.Logger
}

// Session is one duel: a loop runner and the model displaying it.
type Session struct {
	Model  Model
	runner *loop.Runner
	sink   *loop.ChannelSink
}

// NewSession creates the runner and model. The runner is idle until Start.
func NewSession(opts SessionOptions) (*Session, error) {
	sink := loop.NewChannelSink(frameBuffer)
	lo := loop.Options{
		Config: opts.Config,
		Layout: opts.Layout,
		Source: opts.Source,
		Sink:   sink,
		Logger: opts.Logger,
	}
	if opts.Store != nil {
		lo.Saver = opts.Store
	}

	runner, err := loop.New(lo)
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	model := NewModel(runner, ModelOptions{
		Sink:        sink,
		SavePath:    opts.SavePath,
		Hold:        opts.Config.Input.Hold(),
		RepeatDelay: opts.Config.Input.RepeatDelay(),
		Interval:    runner.Period(),
	})
	return &Session{Model: model, runner: runner, sink: sink}, nil
}

// Start runs the loop until ctx is cancelled or the player quits.
// The returned channel yields the loop's exit error once it has stopped.
func (s *Session) Start(ctx context.Context) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer s.sink.Close()
		errc <- s.runner.Run(ctx)
	}()
	return errc
}

// Stop ends the loop after its current tick.
func (s *Session) Stop() {
	s.runner.Stop()
}

// Run plays a duel in the local terminal until the user quits.
func Run(ctx context.Context, opts SessionOptions) error {
	session, err := NewSession(opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := session.Start(ctx)

	p := tea.NewProgram(
		session.Model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}

	session.Stop()
	if loopErr := <-errc; err == nil {
		err = loopErr
	}
	return err
}
