package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultTanksConfigValid(t *testing.T) {
	if err := DefaultTanksConfig().Validate(); err != nil {
		t.Fatalf("Validate() = %v, expected nil", err)
	}
}

func TestEmbeddedMatchesHardcoded(t *testing.T) {
	cfg, err := decodeTanks(defaultTanksYAML)
	if err != nil {
		t.Fatalf("decodeTanks(embedded) error = %v", err)
	}
	if cfg != DefaultTanksConfig() {
		t.Errorf("embedded config = %+v, expected %+v", cfg, DefaultTanksConfig())
	}
}

func TestLoadTanksCustomPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tanks.yaml")
	data := "vehicle:\n  lives: 5\nloop:\n  tick_rate: 60\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTanks(path)
	if err != nil {
		t.Fatalf("LoadTanks() error = %v", err)
	}
	if cfg.Vehicle.Lives != 5 {
		t.Errorf("Vehicle.Lives = %d, expected 5", cfg.Vehicle.Lives)
	}
	if cfg.Vehicle.Speed != 8 {
		t.Errorf("Vehicle.Speed = %d, expected default 8", cfg.Vehicle.Speed)
	}
	if cfg.Loop.TickPeriod() != time.Second/60 {
		t.Errorf("TickPeriod() = %v, expected %v", cfg.Loop.TickPeriod(), time.Second/60)
	}
}

func TestLoadTanksCustomErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadTanks(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadTanks(missing) should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("vehicle:\n  speed: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadTanks(bad)
	if err == nil || !strings.Contains(err.Error(), "vehicle.speed") {
		t.Errorf("LoadTanks(bad) error = %v, expected vehicle.speed complaint", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TanksConfig)
		ok     bool
	}{
		{"defaults", func(*TanksConfig) {}, true},
		{"zero tick rate", func(c *TanksConfig) { c.Loop.TickRate = 0 }, false},
		{"negative cooldown", func(c *TanksConfig) { c.Vehicle.CooldownMs = -1 }, false},
		{"zero cooldown", func(c *TanksConfig) { c.Vehicle.CooldownMs = 0 }, true},
		{"arena too small", func(c *TanksConfig) { c.Arena.Width = 40 }, false},
		{"zero divisor", func(c *TanksConfig) { c.Collision.AxisDivisor = 0 }, false},
		{"zero hold", func(c *TanksConfig) { c.Input.HoldMs = 0 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultTanksConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tc.ok {
				t.Errorf("Validate() = %v, expected ok=%v", err, tc.ok)
			}
		})
	}
}

func TestInputRepeatDelay(t *testing.T) {
	tests := []struct {
		hold, delay int
		want        time.Duration
	}{
		{180, 520, 520 * time.Millisecond},
		{180, 0, 180 * time.Millisecond},
		{300, 200, 300 * time.Millisecond},
	}

	for _, tc := range tests {
		in := InputConfig{HoldMs: tc.hold, RepeatDelayMs: tc.delay}
		if got := in.RepeatDelay(); got != tc.want {
			t.Errorf("RepeatDelay(%d, %d) = %v, expected %v", tc.hold, tc.delay, got, tc.want)
		}
	}
}
