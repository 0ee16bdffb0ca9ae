package world

import "github.com/uts2120/game/internal/input"

// Level drives spawning and completion for one stage of the game.
type Level interface {
	Name() string
	// Initialize runs when the level becomes current.
	Initialize(g *Game)
	// Update runs once per unpaused tick before entities move.
	Update(g *Game)
	IsComplete(g *Game) bool
	// Complete runs once when IsComplete first reports true.
	Complete(g *Game)
	// NextLevel is nil for the last level.
	NextLevel() Level
	// Tilt receives every filtered accelerometer delta with the raw sample.
	Tilt(raw input.TiltSample, d input.TiltDelta)
}
