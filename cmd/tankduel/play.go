package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tankduel/internal/games/tanks"
	"github.com/vovakirdan/tankduel/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a duel in this terminal",
	Long: `Start a hotseat duel: both players share this keyboard.

Controls:
  Red    Arrows  move   0/Enter  fire
  Cyan   WASD    move   Space    fire
  P/Esc          Pause
  N              New game
  Ctrl+S/Ctrl+L  Save/Load
  ?              Show all keys
  Q/Ctrl+C       Quit

Examples:
  tankduel play
  tankduel play --map open
  tankduel play --maps-dir ./maps --map arena
  tankduel play --config ./fast-tanks.yaml --save ~/duel`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("play needs an interactive terminal")
	}
	needW, needH := tanks.ScreenSize()
	needH += 2 // Status and help lines
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && (w < needW || h < needH) {
		fmt.Fprintf(os.Stderr, "Warning: terminal is %dx%d, the arena needs %dx%d\n", w, h, needW, needH)
	}

	cfg, rt, layout, err := loadGame()
	if err != nil {
		return err
	}

	logger, closer, err := newLogger("tankduel", io.Discard)
	if err != nil {
		return err
	}
	defer closer.Close()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting duel", "map", layout.ID, "tick_rate", cfg.Loop.TickRate)
	return tui.Run(ctx, tui.SessionOptions{
		Config:   cfg,
		Layout:   layout,
		Store:    store,
		SavePath: rt.SavePath,
		Source:   "local",
		Logger:   logger,
	})
}
