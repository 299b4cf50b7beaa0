package core

// RuntimeConfig carries process-level settings into a session.
type RuntimeConfig struct {
	TickRate int    // Simulation ticks per second
	MapName  string // Obstacle layout to load
	SavePath string // Default save file location
}

// DefaultConfig returns a RuntimeConfig with the standard 30 Hz rate.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		TickRate: 30,
		MapName:  "classic",
		SavePath: "tankduel.savedata",
	}
}

