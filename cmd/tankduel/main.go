// tankduel is a two-player tank duel for the terminal.
//
// Usage:
//
//	tankduel play            - Duel on this keyboard
//	tankduel serve           - Host duels over SSH
//	tankduel maps            - List obstacle maps
//	tankduel history [map]   - Show finished matches
//
// Global flags:
//
//	--config <path>     - Tank tuning YAML
//	--map <id>          - Obstacle map (default: classic)
//	--maps-dir <dir>    - Extra map files
//	--fps <rate>        - Tick rate override
//	--db <path>         - Match history database (default: ~/.tankduel/history.db)
//	--save <path>       - Save file for ctrl+s / ctrl+l
//	--log-level <lvl>   - debug, info, warn, error
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vovakirdan/tankduel/internal/config"
	"github.com/vovakirdan/tankduel/internal/core"
	"github.com/vovakirdan/tankduel/internal/games/tanks"
	"github.com/vovakirdan/tankduel/internal/logging"
	"github.com/vovakirdan/tankduel/internal/maps"
	"github.com/vovakirdan/tankduel/internal/storage"
)

// settings is resolved before any subcommand runs.
var settings config.Settings

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tankduel",
	Short: "Tank Duel - two tanks, one keyboard",
	Long: `Tank Duel is a two-player tank battle in your terminal.
Red drives with the arrow keys and fires with 0 or Enter,
Cyan drives with WASD and fires with Space. Three hits and you're out.

Available commands:
  play     - Start a duel in this terminal
  serve    - Start SSH server for remote hotseat duels
  maps     - List obstacle maps
  history  - View finished matches

Examples:
  tankduel play
  tankduel play --map bunkers
  tankduel serve --ssh :2222
  tankduel history classic`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to tank tuning YAML")
	flags.String("map", "", "Obstacle map id (default from tuning config: classic)")
	flags.String("maps-dir", "", "Directory with extra map files")
	flags.Int("fps", 0, "Tick rate override (0 = tuning config, 30)")
	flags.String("db", "~/.tankduel/history.db", "Path to match history database")
	flags.String("save", core.DefaultConfig().SavePath, "Save file used by ctrl+s and ctrl+l")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-file", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadSettings merges flags, TANKDUEL_* variables and ~/.tankduel/tankduel.yaml.
func loadSettings(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	s, err := config.ReadSettings(v, config.UserDir())
	if err != nil {
		return err
	}
	settings = s
	return nil
}

// loadGame resolves the tuning config, the runtime overrides and the map.
func loadGame() (config.TanksConfig, core.RuntimeConfig, maps.Layout, error) {
	cfg, err := config.LoadTanks(settings.TanksPath)
	if err != nil {
		return config.TanksConfig{}, core.RuntimeConfig{}, maps.Layout{}, err
	}

	if settings.MapsDir != "" {
		layouts, err := maps.NewLoader(settings.MapsDir).LoadAll()
		if err != nil {
			return config.TanksConfig{}, core.RuntimeConfig{}, maps.Layout{}, err
		}
		if err := maps.RegisterAll(layouts); err != nil {
			return config.TanksConfig{}, core.RuntimeConfig{}, maps.Layout{}, err
		}
	}

	rt := settings.Runtime(cfg)
	cfg = config.ApplyRuntime(cfg, rt)
	if err := cfg.Validate(); err != nil {
		return config.TanksConfig{}, core.RuntimeConfig{}, maps.Layout{}, err
	}

	layout, err := maps.Get(rt.MapName)
	if err != nil {
		return config.TanksConfig{}, core.RuntimeConfig{}, maps.Layout{}, fmt.Errorf("%w (run 'tankduel maps' to list them)", err)
	}
	if err := tanks.CheckLayout(cfg, layout); err != nil {
		return config.TanksConfig{}, core.RuntimeConfig{}, maps.Layout{}, err
	}
	return cfg, rt, layout, nil
}

// newLogger builds the logger for a command. Without a log file, output
// goes to fallback, which may be io.Discard for full-screen modes.
func newLogger(prefix string, fallback io.Writer) (*log.Logger, io.Closer, error) {
	return logging.New(logging.Options{
		Level:  settings.LogLevel,
		File:   settings.LogFile,
		Prefix: prefix,
	}, fallback)
}

// openStore opens the match history. A failure is logged and play goes
// on without history.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(settings.DBPath)
	if err != nil {
		logger.Warn("could not open match history", "path", settings.DBPath, "error", err)
		return nil
	}
	return store
}
