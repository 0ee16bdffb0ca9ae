package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/uts2120/game/internal/core/event"
	coresys "github.com/uts2120/game/internal/core/system"
	"github.com/uts2120/game/internal/input"
	"github.com/uts2120/game/internal/physics"
	"github.com/uts2120/game/internal/screen"
)

// gameStateSystem updates the screen, then (unpaused) the session, level,
// entities and player, and handles level completion and death.
type gameStateSystem struct {
	s *Scheduler
}

func (*gameStateSystem) Phase() coresys.Phase { return coresys.PhaseGameState }

func (sys *gameStateSystem) Update(_ time.Duration) {
	s := sys.s
	s.current.Update()
	if s.paused.Load() {
		return
	}

	g := s.g
	g.DispatchEvents()
	g.Update()

	if lvl := g.CurrentLevel(); lvl != nil {
		lvl.Update(g)
		if lvl.IsComplete(g) {
			lvl.Complete(g)
			last := lvl.NextLevel() == nil
			event.Emit(g.Bus, event.LevelCompleted{Level: lvl.Name(), Last: last})
			// Paused ticks skip dispatch, so deliver this tick's events now.
			g.DispatchEvents()
			s.log.Info("level complete",
				zap.String("level", lvl.Name()),
				zap.Bool("last", last),
				zap.Int("score", g.Score()),
			)
			if last {
				s.PauseWithScreen(screen.NewGameCompleteMenu(s.opts.DelayAfterLevel))
			} else {
				s.PauseWithScreen(screen.NewLevelCompleteMenu(s.opts.DelayAfterLevel))
			}
			return
		}
	}

	g.AddEntitiesFromPending()
	g.UpdateEntities()
	g.Player().Update()
	s.publishHighScore()

	if !g.Player().Dead {
		return
	}
	if s.framesAfterDeath == 0 {
		g.Player().Die()
	}
	s.framesAfterDeath++
	if s.framesAfterDeath > s.opts.FramesAfterDeath {
		s.framesAfterDeath = 0
		s.log.Info("game over", zap.Int("score", g.Score()), zap.Int("high_score", g.HighScore()))
		s.PauseWithScreen(screen.NewGameOverMenu())
	}
}

// inputSystem promotes the host's latest touch event and tilt sample. While
// paused only presses reach the current screen (the menus); tilt and drag
// wait until gameplay resumes.
type inputSystem struct {
	s *Scheduler
}

func (*inputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (sys *inputSystem) Update(_ time.Duration) {
	s := sys.s
	if ev, ok := s.touch.Take(); ok {
		s.touchBuf = &ev
	}
	if s.paused.Load() {
		s.dispatchTouch(true)
		return
	}

	// The tilt cell is peeked, not drained: with no new sample the tracker
	// sees the same reading again and the delta settles to zero.
	if raw, ok := s.tilt.Peek(); ok {
		d, ok := s.tracker.Observe(raw)
		s.tiltDelta = d
		if ok {
			if lvl := s.g.CurrentLevel(); lvl != nil {
				lvl.Tilt(raw, d)
			}
		}
	}
	s.dispatchTouch(false)
}

// dispatchTouch delivers the buffered event at most once: presses always,
// moves only while unpaused.
func (s *Scheduler) dispatchTouch(paused bool) {
	ev := s.touchBuf
	if ev == nil {
		return
	}
	s.touchBuf = nil
	switch ev.Action {
	case input.ActionDown:
		s.current.Touch(*ev)
	case input.ActionMove:
		if !paused {
			s.current.Touch(*ev)
		}
	}
}

type aiSystem struct {
	s *Scheduler
}

func (*aiSystem) Phase() coresys.Phase { return coresys.PhaseAI }
func (*aiSystem) GameplayOnly() bool   { return true }

func (sys *aiSystem) Update(_ time.Duration) {
	for _, e := range sys.s.g.Enemies() {
		e.AI()
	}
}

type physicsSystem struct {
	s *Scheduler
}

func (*physicsSystem) Phase() coresys.Phase { return coresys.PhasePhysics }
func (*physicsSystem) GameplayOnly() bool   { return true }

func (sys *physicsSystem) Update(_ time.Duration) {
	s := sys.s
	s.lastAccelX = physics.Resolve(s.g, s.tiltDelta.DX, s.opts.TiltSensitivity)
}

// animationSystem advances UI animations always and gameplay ones only
// while unpaused, then drops the finished ones.
type animationSystem struct {
	s *Scheduler
}

func (*animationSystem) Phase() coresys.Phase { return coresys.PhaseAnimation }

func (sys *animationSystem) Update(_ time.Duration) {
	paused := sys.s.paused.Load()
	for _, a := range sys.s.g.Animations() {
		if a.UI || !paused {
			a.Animate()
		}
	}
	sys.s.g.RemoveFinishedAnimations()
}

// graphicsSystem signals the presenter that a frame is ready. The surface is
// released on every path, including a panicking redraw.
type graphicsSystem struct {
	s *Scheduler
}

func (*graphicsSystem) Phase() coresys.Phase { return coresys.PhaseGraphics }

func (sys *graphicsSystem) Update(_ time.Duration) {
	s := sys.s
	p := s.opts.Presenter
	if p == nil {
		return
	}

	var surf Surface
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("redraw panic recovered", zap.Any("panic", rec))
		}
		if surf != nil {
			p.ReleaseSurface(surf)
		}
	}()

	var err error
	surf, err = p.AcquireSurface()
	if err != nil {
		s.log.Warn("acquire surface failed", zap.Error(err))
		return
	}
	if surf == nil {
		return
	}
	p.RequestRedraw(surf, s.snapshot())
}
