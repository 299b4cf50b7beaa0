package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/vovakirdan/tankduel/internal/core"
)

// EnvPrefix prefixes environment overrides, e.g. TANKDUEL_MAPS_DIR.
const EnvPrefix = "TANKDUEL"

// Settings are the process-level options shared by every command.
// They come from flags, TANKDUEL_* variables and ~/.tankduel/tankduel.yaml,
// in that order of precedence.
type Settings struct {
	TanksPath string `mapstructure:"config"`
	Map       string `mapstructure:"map"`
	MapsDir   string `mapstructure:"maps-dir"`
	FPS       int    `mapstructure:"fps"`
	DBPath    string `mapstructure:"db"`
	SavePath  string `mapstructure:"save"`
	LogLevel  string `mapstructure:"log-level"`
	LogFile   string `mapstructure:"log-file"`
}

// SetDefaults registers the default of every setting on v.
func SetDefaults(v *viper.Viper) {
	rt := core.DefaultConfig()
	v.SetDefault("config", "")
	v.SetDefault("map", "") // Empty keeps the map of the tanks config
	v.SetDefault("maps-dir", "")
	v.SetDefault("fps", 0) // Zero keeps the tick rate of the tanks config
	v.SetDefault("db", "~/.tankduel/history.db")
	v.SetDefault("save", rt.SavePath)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-file", "")
}

// ReadSettings resolves the settings held by v. A tankduel.yaml in dir
// is read when present; a missing file is not an error.
func ReadSettings(v *viper.Viper, dir string) (Settings, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if dir != "" {
		v.SetConfigName("tankduel")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Settings{}, fmt.Errorf("error reading settings file: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding settings: %w", err)
	}
	if s.FPS < 0 {
		return Settings{}, fmt.Errorf("fps must not be negative, got %d", s.FPS)
	}
	return s, nil
}

// Runtime returns the session settings, falling back to the tanks
// config's tick rate and map when none was given.
func (s Settings) Runtime(cfg TanksConfig) core.RuntimeConfig {
	rt := core.DefaultConfig()
	rt.TickRate = cfg.Loop.TickRate
	if cfg.Obstacles.Map != "" {
		rt.MapName = cfg.Obstacles.Map
	}
	if s.FPS > 0 {
		rt.TickRate = s.FPS
	}
	if s.Map != "" {
		rt.MapName = s.Map
	}
	if s.SavePath != "" {
		rt.SavePath = s.SavePath
	}
	return rt
}

// ApplyRuntime copies the session overrides into a tanks config.
func ApplyRuntime(cfg TanksConfig, rt core.RuntimeConfig) TanksConfig {
	cfg.Loop.TickRate = rt.TickRate
	cfg.Obstacles.Map = rt.MapName
	return cfg
}
