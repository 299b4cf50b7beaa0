package tanks

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tankduel/internal/core"
)

// The arena is drawn on a fixed character grid. Terminal cells are about
// twice as tall as wide, so a brick is two columns by one row.
const (
	ArenaCols = 40
	ArenaRows = 20

	hudRows = 1
)

// Visual characters for rendering
const (
	BrickChar      = '▒'
	HullChar       = '█'
	WreckChar      = '✖'
	ProjectileChar = '•'
	LifeChar       = '♥'
)

var turretChars = [4]rune{
	Up:    '▲',
	Down:  '▼',
	Left:  '◀',
	Right: '▶',
}

// PlayerColor returns the colour a player's tank is drawn in.
func PlayerColor(p core.PlayerID) core.Color {
	if p == core.Player1 {
		return core.ColorRed
	}
	return core.ColorCyan
}

// ScreenSize returns the character dimensions Render needs.
func ScreenSize() (w, h int) {
	return ArenaCols + 2, ArenaRows + 2 + hudRows
}

// grid maps arena pixels onto the character grid.
type grid struct {
	bounds     core.Rect
	pxW, pxH   int
	offX, offY int
}

func newGrid(bounds core.Rect) grid {
	return grid{
		bounds: bounds,
		pxW:    core.Max(1, bounds.W/ArenaCols),
		pxH:    core.Max(1, bounds.H/ArenaRows),
		offX:   1,
		offY:   hudRows + 1,
	}
}

// cells returns the inclusive character range covered by r.
func (g grid) cells(r core.Rect) (c0, r0, c1, r1 int) {
	c0 = core.FloorDiv(r.X-g.bounds.X, g.pxW)
	r0 = core.FloorDiv(r.Y-g.bounds.Y, g.pxH)
	c1 = core.FloorDiv(r.Right()-1-g.bounds.X, g.pxW)
	r1 = core.FloorDiv(r.Bottom()-1-g.bounds.Y, g.pxH)
	return c0, r0, c1, r1
}

// set draws inside the arena box only.
func (g grid) set(dst *core.Screen, col, row int, ch rune, c core.Color) {
	if col < 0 || col >= ArenaCols || row < 0 || row >= ArenaRows {
		return
	}
	dst.SetColor(g.offX+col, g.offY+row, ch, c)
}

// Render redraws dst from the snapshot. dst should be at least ScreenSize.
func (s Snapshot) Render(dst *core.Screen) {
	g := newGrid(s.Bounds)

	dst.Clear()
	s.renderHUD(dst)
	dst.DrawBox(core.NewRect(0, hudRows, ArenaCols+2, ArenaRows+2), core.ColorGray)

	for _, o := range s.Obstacles {
		c0, r0, c1, r1 := g.cells(o)
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				g.set(dst, col, row, BrickChar, core.ColorOrange)
			}
		}
	}

	for _, p := range s.Projectiles {
		cx, cy := p.Rect.Center()
		c, r, _, _ := g.cells(core.NewRect(cx, cy, 1, 1))
		g.set(dst, c, r, ProjectileChar, core.ColorYellow)
	}

	for _, v := range s.Vehicles {
		renderVehicle(dst, g, v)
	}

	if msg := s.StatusLine(); msg != "" {
		mid := g.offY + ArenaRows/2
		dst.DrawTextCentered(mid, " "+msg+" ", core.ColorWhite)
		if s.Phase == PhaseOver {
			dst.DrawTextCentered(mid+1, " N: new game ", core.ColorGray)
		}
	}
}

func renderVehicle(dst *core.Screen, g grid, v VehicleView) {
	color := PlayerColor(v.Player)
	hull := HullChar
	if v.Dead {
		color = core.ColorGray
		hull = WreckChar
	}

	c0, r0, c1, r1 := g.cells(v.Rect)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			g.set(dst, col, row, hull, color)
		}
	}
	if v.Dead {
		return
	}

	cx, cy := v.Rect.Center()
	c, r, _, _ := g.cells(core.NewRect(cx, cy, 1, 1))
	g.set(dst, c, r, turretChars[v.Facing], core.ColorWhite)
}

func (s Snapshot) renderHUD(dst *core.Screen) {
	w, _ := ScreenSize()

	p1 := s.Vehicles[core.Player1.Index()]
	left := fmt.Sprintf("%s %s", PlayerName(core.Player1), lifeBar(p1.Lives, s.MaxLives))
	dst.DrawTextColor(0, 0, left, PlayerColor(core.Player1))

	p2 := s.Vehicles[core.Player2.Index()]
	right := fmt.Sprintf("%s %s", lifeBar(p2.Lives, s.MaxLives), PlayerName(core.Player2))
	dst.DrawTextColor(w-len([]rune(right)), 0, right, PlayerColor(core.Player2))

	dst.DrawTextCentered(0, s.MapName, core.ColorGray)
}

func lifeBar(lives, total int) string {
	lives = core.Clamp(lives, 0, total)
	return strings.Repeat(string(LifeChar), lives) + strings.Repeat("·", total-lives)
}
