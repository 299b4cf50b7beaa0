package tanks

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tankduel/internal/config"
	"github.com/vovakirdan/tankduel/internal/core"
	"github.com/vovakirdan/tankduel/internal/maps"
)

// ErrLayoutColumns is returned for a layout whose table width differs
// from obstacles.columns.
var ErrLayoutColumns = errors.New("tanks: layout column count does not match config")

// CheckLayout reports whether layout can be played with cfg.
func CheckLayout(cfg config.TanksConfig, layout maps.Layout) error {
	if layout.Columns != cfg.Obstacles.Columns {
		return fmt.Errorf("%w: map %q has %d columns, obstacles.columns is %d",
			ErrLayoutColumns, layout.ID, layout.Columns, cfg.Obstacles.Columns)
	}
	return nil
}

// Obstacle is a fixed square brick.
type Obstacle struct {
	X, Y int
	Size int
}

// Rect returns the obstacle's bounding box.
func (o Obstacle) Rect() core.Rect {
	return core.NewRect(o.X, o.Y, o.Size, o.Size)
}

// ObstacleMap is the immutable set of bricks for a match.
type ObstacleMap struct {
	name  string
	items []Obstacle
}

// NewObstacleMap builds the brick set from a layout table.
func NewObstacleMap(layout maps.Layout, size int) ObstacleMap {
	bricks := layout.Bricks(size)
	items := make([]Obstacle, len(bricks))
	for i, b := range bricks {
		items[i] = Obstacle{X: b.X, Y: b.Y, Size: size}
	}
	return ObstacleMap{name: layout.ID, items: items}
}

// Name returns the layout ID the map was built from.
func (m ObstacleMap) Name() string {
	return m.name
}

// Len returns the number of obstacles.
func (m ObstacleMap) Len() int {
	return len(m.items)
}

// At returns the i-th obstacle in layout order.
func (m ObstacleMap) At(i int) Obstacle {
	return m.items[i]
}

// Rects returns a fresh slice of every obstacle's bounding box.
func (m ObstacleMap) Rects() []core.Rect {
	out := make([]core.Rect, len(m.items))
	for i, o := range m.items {
		out[i] = o.Rect()
	}
	return out
}
