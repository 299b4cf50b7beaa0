package tanks

import (
	"github.com/vovakirdan/tankduel/internal/config"
	"github.com/vovakirdan/tankduel/internal/core"
)

// correction pushes a tank back against the intent that drove it into
// something. Rules are tried in order and only the first match applies.
type correction struct {
	intent   DirSet
	diagonal bool
	sx, sy   int // Sign of the displacement on each axis
}

var corrections = [...]correction{
	{intent: DirSetOf(Right, Down), diagonal: true, sx: -1, sy: -1},
	{intent: DirSetOf(Right, Up), diagonal: true, sx: -1, sy: 1},
	{intent: DirSetOf(Left, Down), diagonal: true, sx: 1, sy: -1},
	{intent: DirSetOf(Left, Up), diagonal: true, sx: 1, sy: 1},
	{intent: DirSetOf(Right), sx: -1},
	{intent: DirSetOf(Left), sx: 1},
	{intent: DirSetOf(Down), sy: -1},
	{intent: DirSetOf(Up), sy: 1},
}

// matchCorrection returns the first rule the intent satisfies.
func matchCorrection(intent DirSet) (correction, bool) {
	for _, c := range corrections {
		if intent.HasAll(c.intent) {
			return c, true
		}
	}
	return correction{}, false
}

// Report summarises one collision pass.
type Report struct {
	Hits        []core.PlayerID // Tanks struck, in projectile order
	Absorbed    int             // Projectiles stopped by bricks
	Corrections int             // Displacements applied to tanks
}

// Resolver applies collision rules to an arena.
type Resolver struct {
	vehicleStep  int
	diagonalStep int
	axisStep     int
}

// NewResolver derives the correction distances from the vehicle width.
func NewResolver(cfg config.TanksConfig) Resolver {
	w := cfg.Vehicle.Width
	return Resolver{
		vehicleStep:  w / cfg.Collision.VehicleDivisor,
		diagonalStep: w / cfg.Collision.DiagonalDivisor,
		axisStep:     w / cfg.Collision.AxisDivisor,
	}
}

// Resolve runs one collision pass:
//  1. clear blocked flags
//  2. projectiles against tanks
//  3. projectiles against bricks
//  4. tank against tank
//  5. tanks against every brick
//
// Steps 4 and 5 test the tank rectangles captured before any correction,
// so a tank touching several bricks is pushed once per brick.
func (r Resolver) Resolve(a *Arena) Report {
	var rep Report

	for _, v := range a.Vehicles {
		v.Blocked = 0
	}

	a.Projectiles = filterProjectiles(a.Projectiles, func(p Projectile) bool {
		pr := p.Rect()
		for _, v := range a.Vehicles {
			if pr.Intersects(v.Rect()) {
				v.Hit()
				rep.Hits = append(rep.Hits, v.Player)
				return false
			}
		}
		return true
	})

	a.Projectiles = filterProjectiles(a.Projectiles, func(p Projectile) bool {
		pr := p.Rect()
		for i := 0; i < a.Obstacles.Len(); i++ {
			if pr.Intersects(a.Obstacles.At(i).Rect()) {
				rep.Absorbed++
				return false
			}
		}
		return true
	})

	var rects [2]core.Rect
	for i, v := range a.Vehicles {
		rects[i] = v.Rect()
	}

	if rects[0].Intersects(rects[1]) {
		for _, v := range a.Vehicles {
			if r.correct(v, r.vehicleStep, r.vehicleStep) {
				rep.Corrections++
			}
		}
	}

	for i := 0; i < a.Obstacles.Len(); i++ {
		brick := a.Obstacles.At(i).Rect()
		for j, v := range a.Vehicles {
			if rects[j].Intersects(brick) && r.correct(v, r.diagonalStep, r.axisStep) {
				rep.Corrections++
			}
		}
	}

	return rep
}

// correct applies the first matching rule to v and blocks its directions.
func (r Resolver) correct(v *Vehicle, diagonal, axis int) bool {
	c, ok := matchCorrection(v.Intent)
	if !ok {
		return false
	}
	step := axis
	if c.diagonal {
		step = diagonal
	}
	v.Shift(c.sx*step, c.sy*step)
	v.Blocked |= c.intent
	return true
}

// filterProjectiles compacts ps in place, keeping those for which keep is true.
func filterProjectiles(ps []Projectile, keep func(Projectile) bool) []Projectile {
	out := ps[:0]
	for _, p := range ps {
		if keep(p) {
			out = append(out, p)
		}
	}
	clear(ps[len(out):])
	return out
}
