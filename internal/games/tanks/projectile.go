package tanks

import (
	"github.com/vovakirdan/tankduel/internal/config"
	"github.com/vovakirdan/tankduel/internal/core"
)

// Projectile is a bullet travelling in a fixed direction.
type Projectile struct {
	X, Y  int
	W, H  int
	Dir   Direction
	Speed int
	Owner core.PlayerID
}

// NewProjectile creates a projectile whose top-left corner is at (x, y).
func NewProjectile(x, y int, dir Direction, owner core.PlayerID, pc config.ProjectileConfig) Projectile {
	w, h := dir.Extent(pc.Length, pc.Thickness)
	return Projectile{
		X:     x,
		Y:     y,
		W:     w,
		H:     h,
		Dir:   dir,
		Speed: pc.Speed,
		Owner: owner,
	}
}

// Rect returns the projectile's bounding box.
func (p Projectile) Rect() core.Rect {
	return core.NewRect(p.X, p.Y, p.W, p.H)
}

// Tick advances the projectile one step and reports whether it has left
// bounds by more than its own length on the travel axis.
func (p *Projectile) Tick(bounds core.Rect) (expired bool) {
	dx, dy := p.Dir.Vector()
	p.X += dx * p.Speed
	p.Y += dy * p.Speed

	if p.Dir.Horizontal() {
		return p.X < bounds.X-p.W || p.X > bounds.Right()+p.W
	}
	return p.Y < bounds.Y-p.H || p.Y > bounds.Bottom()+p.H
}
