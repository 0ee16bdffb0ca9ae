package engine

import (
	"context"

	"github.com/uts2120/game/internal/input"
	"github.com/uts2120/game/internal/world"
)

// Store persists the high score. Saves overwrite everything previously
// stored. Implementations must be safe for use from the host goroutine
// (OnPause) as well as the loop.
type Store interface {
	LoadHighScore(ctx context.Context) (int, error)
	SaveHighScore(ctx context.Context, score int) error
}

// Surface is a presenter-owned drawing target held for one frame.
type Surface any

// Presenter is the presentation collaborator. The loop only signals that a
// frame is ready; it never draws.
type Presenter interface {
	// AcquireSurface takes exclusive use of the drawing surface. A nil
	// surface with a nil error means there is nothing to draw on this frame.
	AcquireSurface() (Surface, error)
	RequestRedraw(surf Surface, snap world.Snapshot)
	ReleaseSurface(surf Surface)
}

// Sensor delivers raw accelerometer samples while attached.
type Sensor interface {
	Attach(deliver func(input.TiltSample))
	Detach()
}
