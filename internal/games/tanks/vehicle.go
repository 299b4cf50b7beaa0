package tanks

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tankduel/internal/config"
	"github.com/vovakirdan/tankduel/internal/core"
)

// Vehicle is a player's tank.
type Vehicle struct {
	Player core.PlayerID
	X, Y   int
	W, H   int
	Speed  int
	Facing Direction

	Intent  DirSet // Held movement keys
	Blocked DirSet // Directions refused by the last collision pass

	Firing      bool
	FiringTimer time.Time // Time of the last shot
	Cooldown    time.Duration

	Lives int
	Dead  bool

	bounds   core.Rect
	maxLives int
	ammo     config.ProjectileConfig
}

// NewVehicle creates a tank at the player's spawn point.
func NewVehicle(player core.PlayerID, cfg config.TanksConfig) *Vehicle {
	v := &Vehicle{
		Player:   player,
		W:        cfg.Vehicle.Width,
		H:        cfg.Vehicle.Height,
		Speed:    cfg.Vehicle.Speed,
		Cooldown: cfg.Vehicle.Cooldown(),
		bounds:   core.NewRect(0, 0, cfg.Arena.Width, cfg.Arena.Height),
		maxLives: cfg.Vehicle.Lives,
		ammo:     cfg.Projectile,
	}
	v.Reset()
	return v
}

// Reset puts the tank back at its spawn point with full lives.
// Player 1 starts one tank-width in from the top-left corner facing down,
// player 2 mirrored from the bottom-right corner facing up.
func (v *Vehicle) Reset() {
	switch v.Player {
	case core.Player1:
		v.X, v.Y = v.W, v.H
		v.Facing = Down
	case core.Player2:
		v.X, v.Y = v.bounds.Right()-2*v.W, v.bounds.Bottom()-2*v.H
		v.Facing = Up
	default:
		panic(fmt.Sprintf("tanks: invalid player %d", int(v.Player)))
	}
	v.Intent = 0
	v.Blocked = 0
	v.Firing = false
	v.FiringTimer = time.Time{}
	v.Lives = v.maxLives
	v.Dead = false
}

// Rect returns the tank's bounding box.
func (v *Vehicle) Rect() core.Rect {
	return core.NewRect(v.X, v.Y, v.W, v.H)
}

// ApplyInput records the held movement and fire keys. Nothing moves until Tick.
func (v *Vehicle) ApplyInput(intent DirSet, firing bool) {
	v.Intent = intent
	v.Firing = firing
}

// Tick moves the tank along each held, unblocked direction in the order
// up, down, left, right, then fires if the cooldown has elapsed.
func (v *Vehicle) Tick(now time.Time) (Projectile, bool) {
	for _, d := range Directions {
		if !v.Intent.Has(d) || v.Blocked.Has(d) {
			continue
		}
		v.Facing = d
		dx, dy := d.Vector()
		v.Shift(dx*v.Speed, dy*v.Speed)
	}

	if !v.Firing || now.Sub(v.FiringTimer) < v.Cooldown {
		return Projectile{}, false
	}
	v.FiringTimer = now
	x, y := v.Facing.Muzzle(v.Rect())
	return NewProjectile(x, y, v.Facing, v.Player, v.ammo), true
}

// Shift displaces the tank, keeping it inside the arena.
func (v *Vehicle) Shift(dx, dy int) {
	r := core.ClampInto(v.Rect().Translate(dx, dy), v.bounds)
	v.X, v.Y = r.X, r.Y
}

// Hit takes one life. Lives never drop below zero.
func (v *Vehicle) Hit() {
	if v.Lives > 0 {
		v.Lives--
	}
	if v.Lives == 0 {
		v.Dead = true
	}
}

// VehicleState is the persistent part of a tank.
type VehicleState struct {
	Player      core.PlayerID
	X, Y        int
	Facing      Direction
	Intent      DirSet
	Blocked     DirSet
	Firing      bool
	FiringTimer time.Time
	Cooldown    time.Duration
	Lives       int
	Dead        bool
}

// State captures the tank's persistent fields.
func (v *Vehicle) State() VehicleState {
	return VehicleState{
		Player:      v.Player,
		X:           v.X,
		Y:           v.Y,
		Facing:      v.Facing,
		Intent:      v.Intent,
		Blocked:     v.Blocked,
		Firing:      v.Firing,
		FiringTimer: v.FiringTimer,
		Cooldown:    v.Cooldown,
		Lives:       v.Lives,
		Dead:        v.Dead,
	}
}

// Validate checks a state before it replaces a live tank.
func (s VehicleState) Validate() error {
	if !s.Player.Valid() {
		return fmt.Errorf("invalid player %d", int(s.Player))
	}
	if !s.Facing.Valid() {
		return fmt.Errorf("%s: invalid facing %d", s.Player, uint8(s.Facing))
	}
	if !s.Intent.Valid() || !s.Blocked.Valid() {
		return fmt.Errorf("%s: invalid direction set", s.Player)
	}
	if s.Lives < 0 {
		return fmt.Errorf("%s: negative lives %d", s.Player, s.Lives)
	}
	if s.Cooldown < 0 {
		return fmt.Errorf("%s: negative cooldown %v", s.Player, s.Cooldown)
	}
	return nil
}

// restore overwrites the tank with s. The position is clamped into the
// arena and Dead is derived from Lives.
func (v *Vehicle) restore(s VehicleState) {
	v.X, v.Y = s.X, s.Y
	v.Shift(0, 0)
	v.Facing = s.Facing
	v.Intent = s.Intent
	v.Blocked = s.Blocked
	v.Firing = s.Firing
	v.FiringTimer = s.FiringTimer
	v.Cooldown = s.Cooldown
	v.Lives = s.Lives
	v.Dead = s.Lives == 0
}
