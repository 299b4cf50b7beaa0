package tanks

import (
	"time"

	"github.com/vovakirdan/tankduel/internal/config"
	"github.com/vovakirdan/tankduel/internal/core"
	"github.com/vovakirdan/tankduel/internal/maps"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testConfig() config.TanksConfig {
	return config.DefaultTanksConfig()
}

func emptyLayout() maps.Layout {
	return maps.Layout{ID: "empty", Columns: 20, Flags: make([]bool, 400)}
}

// newTestArena builds an arena with hand-placed bricks.
func newTestArena(bricks ...core.Rect) *Arena {
	a := NewArena(testConfig(), emptyLayout())
	for _, b := range bricks {
		a.Obstacles.items = append(a.Obstacles.items, Obstacle{X: b.X, Y: b.Y, Size: b.W})
	}
	return a
}

func place(v *Vehicle, x, y int, intent DirSet) {
	v.X, v.Y = x, y
	v.Intent = intent
}

func inputs(p1, p2 []core.Action) core.MultiInputFrame {
	m := core.NewMultiInputFrame()
	for id, actions := range map[core.PlayerID][]core.Action{core.Player1: p1, core.Player2: p2} {
		f := core.NewInputFrame()
		for _, a := range actions {
			f.Set(a)
		}
		m.SetPlayer(id, f)
	}
	return m
}
