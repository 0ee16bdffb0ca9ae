package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseGameState Phase = iota // 0: screen, session, level, entities, death
	PhaseInput                  // 1: promote + dispatch buffered touch/tilt
	PhaseAI                     // 2: enemy behaviour
	PhasePhysics                // 3: tilt acceleration + collision resolution
	PhaseAnimation              // 4: advance and reap animations
	PhaseGraphics               // 5: signal the presentation layer
)

func (p Phase) String() string {
	switch p {
	case PhaseGameState:
		return "game_state"
	case PhaseInput:
		return "input"
	case PhaseAI:
		return "ai"
	case PhasePhysics:
		return "physics"
	case PhaseAnimation:
		return "animation"
	case PhaseGraphics:
		return "graphics"
	}
	return "unknown"
}

// System is the interface every loop phase implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Gated is implemented by systems that only run while gameplay is unpaused.
type Gated interface {
	GameplayOnly() bool
}
