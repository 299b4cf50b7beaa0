package config

import (
	_ "embed"
)

//go:embed defaults/tanks.yaml
var defaultTanksYAML []byte

// DefaultTanksConfig returns the hardcoded classic configuration.
func DefaultTanksConfig() TanksConfig {
	return TanksConfig{
		Arena: ArenaConfig{
			Width:  640,
			Height: 640,
		},
		Vehicle: VehicleConfig{
			Width:      32,
			Height:     32,
			Speed:      8,
			Lives:      3,
			CooldownMs: 250,
		},
		Projectile: ProjectileConfig{
			Length:    5,
			Thickness: 2,
			Speed:     16,
		},
		Obstacles: ObstacleConfig{
			Size:    32,
			Columns: 20,
			Map:     "classic",
		},
		Collision: CollisionConfig{
			VehicleDivisor:  5,
			DiagonalDivisor: 8,
			AxisDivisor:     4,
		},
		Loop: LoopConfig{
			TickRate: 30,
		},
		Input: InputConfig{
			HoldMs:        180,
			RepeatDelayMs: 520,
		},
	}
}
