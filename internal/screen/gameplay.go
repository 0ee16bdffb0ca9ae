package screen

import (
	"github.com/uts2120/game/internal/input"
	"github.com/uts2120/game/internal/world"
)

const (
	pauseButtonWidth  = 6
	pauseButtonHeight = 3
)

// Gameplay is the default screen. A press fires the laser, or opens the
// pause menu when it lands on the pause button; dragging keeps firing.
type Gameplay struct {
	ctx         Context
	pauseButton world.Rect
}

func NewGameplay() *Gameplay {
	return &Gameplay{}
}

func (s *Gameplay) Name() string { return "gameplay" }

func (s *Gameplay) Enter(ctx Context) {
	s.ctx = ctx
	b := ctx.Ctl.Game().Bounds
	s.pauseButton = world.Rect{
		Left:   b.Right - pauseButtonWidth,
		Top:    b.Top,
		Right:  b.Right,
		Bottom: b.Top + pauseButtonHeight,
	}
}

func (s *Gameplay) Exit() {}

func (s *Gameplay) Update() {}

// Touch ignores events while the session is paused behind a dialog.
func (s *Gameplay) Touch(ev input.TouchEvent) {
	if s.ctx.Ctl == nil {
		return
	}
	g := s.ctx.Ctl.Game()
	if g.Paused {
		return
	}
	switch ev.Action {
	case input.ActionDown:
		if s.pauseButton.Contains(ev.X, ev.Y) {
			s.ctx.Ctl.PauseWithScreen(NewPauseMenu())
			return
		}
		g.Player().Fire()
	case input.ActionMove:
		g.Player().Fire()
	}
}

func (s *Gameplay) Overlay() (string, []world.Label) {
	return "", []world.Label{{Box: s.pauseButton, Text: "II", Enabled: true}}
}
