// Package config provides YAML-based tuning for the tank duel: arena size,
// vehicle and projectile parameters, collision corrections and loop timing.
package config

import (
	"errors"
	"fmt"
	"time"
)

// TanksConfig contains every tunable of a match.
type TanksConfig struct {
	Arena      ArenaConfig      `yaml:"arena"`
	Vehicle    VehicleConfig    `yaml:"vehicle"`
	Projectile ProjectileConfig `yaml:"projectile"`
	Obstacles  ObstacleConfig   `yaml:"obstacles"`
	Collision  CollisionConfig  `yaml:"collision"`
	Loop       LoopConfig       `yaml:"loop"`
	Input      InputConfig      `yaml:"input"`
}

// ArenaConfig defines the playfield bounds in pixels.
type ArenaConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// VehicleConfig defines tank parameters.
type VehicleConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	Speed      int `yaml:"speed"` // Pixels per tick per axis
	Lives      int `yaml:"lives"`
	CooldownMs int `yaml:"cooldown_ms"`
}

// Cooldown returns the firing cooldown as a duration.
func (v VehicleConfig) Cooldown() time.Duration {
	return time.Duration(v.CooldownMs) * time.Millisecond
}

// ProjectileConfig defines bullet parameters.
// Length runs along the travel axis, Thickness across it.
type ProjectileConfig struct {
	Length    int `yaml:"length"`
	Thickness int `yaml:"thickness"`
	Speed     int `yaml:"speed"`
}

// ObstacleConfig defines brick geometry and the layout to load.
type ObstacleConfig struct {
	Size    int    `yaml:"size"`
	Columns int    `yaml:"columns"` // Table width every map must have
	Map     string `yaml:"map"`
}

// CollisionConfig holds the correction divisors applied to the vehicle width.
type CollisionConfig struct {
	VehicleDivisor  int `yaml:"vehicle_divisor"`  // Tank vs tank
	DiagonalDivisor int `yaml:"diagonal_divisor"` // Tank vs brick, two-axis intent
	AxisDivisor     int `yaml:"axis_divisor"`     // Tank vs brick, single-axis intent
}

// LoopConfig defines simulation timing.
type LoopConfig struct {
	TickRate int `yaml:"tick_rate"`
}

// TickPeriod returns the duration of one tick.
func (l LoopConfig) TickPeriod() time.Duration {
	return time.Second / time.Duration(l.TickRate)
}

// InputConfig tunes the terminal key latch.
// Terminals report presses and repeats only, so a held key is assumed
// released once no repeat arrives within HoldMs. The first press is held
// for RepeatDelayMs to cover the terminal's autorepeat delay.
type InputConfig struct {
	HoldMs        int `yaml:"hold_ms"`
	RepeatDelayMs int `yaml:"repeat_delay_ms"`
}

// Hold returns the latch window as a duration.
func (i InputConfig) Hold() time.Duration {
	return time.Duration(i.HoldMs) * time.Millisecond
}

// RepeatDelay returns how long a fresh press is held.
// It is never shorter than Hold.
func (i InputConfig) RepeatDelay() time.Duration {
	return max(time.Duration(i.RepeatDelayMs)*time.Millisecond, i.Hold())
}

// Validate checks the values the simulation depends on.
func (c TanksConfig) Validate() error {
	var errs []error
	positive := func(name string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}

	positive("arena.width", c.Arena.Width)
	positive("arena.height", c.Arena.Height)
	positive("vehicle.width", c.Vehicle.Width)
	positive("vehicle.height", c.Vehicle.Height)
	positive("vehicle.speed", c.Vehicle.Speed)
	positive("vehicle.lives", c.Vehicle.Lives)
	positive("projectile.length", c.Projectile.Length)
	positive("projectile.thickness", c.Projectile.Thickness)
	positive("projectile.speed", c.Projectile.Speed)
	positive("obstacles.size", c.Obstacles.Size)
	positive("obstacles.columns", c.Obstacles.Columns)
	positive("collision.vehicle_divisor", c.Collision.VehicleDivisor)
	positive("collision.diagonal_divisor", c.Collision.DiagonalDivisor)
	positive("collision.axis_divisor", c.Collision.AxisDivisor)
	positive("loop.tick_rate", c.Loop.TickRate)
	positive("input.hold_ms", c.Input.HoldMs)

	if c.Vehicle.CooldownMs < 0 {
		errs = append(errs, fmt.Errorf("vehicle.cooldown_ms must not be negative, got %d", c.Vehicle.CooldownMs))
	}
	if c.Vehicle.Width*2 > c.Arena.Width || c.Vehicle.Height*2 > c.Arena.Height {
		errs = append(errs, errors.New("arena must fit two vehicles on each axis"))
	}
	return errors.Join(errs...)
}
