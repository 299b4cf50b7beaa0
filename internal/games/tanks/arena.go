package tanks

import (
	"time"

	"github.com/vovakirdan/tankduel/internal/config"
	"github.com/vovakirdan/tankduel/internal/core"
	"github.com/vovakirdan/tankduel/internal/maps"
)

// Arena owns every entity of a match.
type Arena struct {
	Bounds      core.Rect
	Vehicles    [2]*Vehicle
	Projectiles []Projectile
	Obstacles   ObstacleMap
}

// NewArena creates an arena with both tanks at their spawn points.
func NewArena(cfg config.TanksConfig, layout maps.Layout) *Arena {
	return &Arena{
		Bounds: core.NewRect(0, 0, cfg.Arena.Width, cfg.Arena.Height),
		Vehicles: [2]*Vehicle{
			NewVehicle(core.Player1, cfg),
			NewVehicle(core.Player2, cfg),
		},
		Obstacles: NewObstacleMap(layout, cfg.Obstacles.Size),
	}
}

// Vehicle returns the tank of the given player.
func (a *Arena) Vehicle(p core.PlayerID) *Vehicle {
	return a.Vehicles[p.Index()]
}

// TickVehicles moves both tanks and collects their shots.
// It returns the number of projectiles fired.
func (a *Arena) TickVehicles(now time.Time) int {
	fired := 0
	for _, v := range a.Vehicles {
		if p, ok := v.Tick(now); ok {
			a.Projectiles = append(a.Projectiles, p)
			fired++
		}
	}
	return fired
}

// TickProjectiles advances every projectile and drops expired ones.
// It returns the number dropped.
func (a *Arena) TickProjectiles() int {
	kept := a.Projectiles[:0]
	for _, p := range a.Projectiles {
		if p.Tick(a.Bounds) {
			continue
		}
		kept = append(kept, p)
	}
	expired := len(a.Projectiles) - len(kept)
	clear(a.Projectiles[len(kept):])
	a.Projectiles = kept
	return expired
}
