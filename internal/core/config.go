package core

import "time"

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Steps per second
	Seed     int64 // RNG seed, 0 means pick one from the clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
// Card play is turn based, so the tick only drives the clock display.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 10,
		Seed:     0,
	}
}

// GameState is what a game reports to the platform after each step.
type GameState struct {
	Score    int
	Moves    int
	Elapsed  time.Duration
	GameOver bool // the game has been won
	Paused   bool
}

// StepResult is returned by Game.Step().
type StepResult struct {
	State GameState
	// Quit asks the platform to leave the game.
	Quit bool
}
