// Package engine runs the game loop: a single goroutine that ticks the phase
// systems in fixed order until stopped.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/message"

	coresys "github.com/uts2120/game/internal/core/system"
	"github.com/uts2120/game/internal/input"
	"github.com/uts2120/game/internal/screen"
	"github.com/uts2120/game/internal/world"
)

const (
	DefaultTickWait         = 30 * time.Millisecond
	DefaultTiltSensitivity  = 2.0
	DefaultFramesAfterDeath = 5
	DefaultDelayAfterLevel  = 1500 * time.Millisecond

	saveTimeout = 5 * time.Second
	postBacklog = 64
)

// Options wires the scheduler to its session and collaborators.
type Options struct {
	Game       *world.Game
	FirstLevel func() world.Level
	Store      Store     // nil disables persistence
	Presenter  Presenter // nil skips the graphics signal
	Log        *zap.Logger

	TickWait         time.Duration
	TiltSensitivity  float64
	FramesAfterDeath int
	DelayAfterLevel  time.Duration

	Prices  screen.Pricer
	Printer *message.Printer
	Clock   func() time.Time

	// OnQuit runs on the loop goroutine after Quit stops the loop.
	OnQuit func()
}

// Scheduler owns the loop goroutine. Controller methods (pause, unpause,
// level transitions) must run on that goroutine: screens call them while
// handling input, and the host reaches them through Post.
type Scheduler struct {
	opts   Options
	log    *zap.Logger
	g      *world.Game
	runner *coresys.Runner

	started   atomic.Bool
	stopping  atomic.Bool // set by RequestStop, never cleared
	running   atomic.Bool
	paused    atomic.Bool
	highScore atomic.Int64
	dropped   atomic.Uint64

	// Host-written single-slot buffers.
	touch input.Latest[input.TouchEvent]
	tilt  input.Latest[input.TiltSample]

	// Loop-owned state.
	touchBuf         *input.TouchEvent
	tracker          input.TiltTracker
	tiltDelta        input.TiltDelta
	lastAccelX       float64
	gameplay         *screen.Gameplay
	current          screen.Screen
	framesAfterDeath int

	posts chan func()
	wake  chan struct{}
	done  chan struct{}

	sensorMu sync.Mutex
	sensor   Sensor
}

// New builds a scheduler. Zero tuning values take the defaults.
func New(opts Options) (*Scheduler, error) {
	if opts.Game == nil {
		return nil, errors.New("engine: nil game")
	}
	if opts.FirstLevel == nil {
		return nil, errors.New("engine: nil first level factory")
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.TickWait <= 0 {
		opts.TickWait = DefaultTickWait
	}
	if opts.TiltSensitivity == 0 {
		opts.TiltSensitivity = DefaultTiltSensitivity
	}
	if opts.FramesAfterDeath <= 0 {
		opts.FramesAfterDeath = DefaultFramesAfterDeath
	}
	if opts.DelayAfterLevel < 0 {
		opts.DelayAfterLevel = 0
	}

	s := &Scheduler{
		opts:     opts,
		log:      opts.Log,
		g:        opts.Game,
		runner:   coresys.NewRunner(),
		gameplay: screen.NewGameplay(),
		posts:    make(chan func(), postBacklog),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	s.current = s.gameplay
	s.highScore.Store(int64(s.g.HighScore()))

	s.runner.Register(&gameStateSystem{s: s})
	s.runner.Register(&inputSystem{s: s})
	s.runner.Register(&aiSystem{s: s})
	s.runner.Register(&physicsSystem{s: s})
	s.runner.Register(&animationSystem{s: s})
	s.runner.Register(&graphicsSystem{s: s})
	return s, nil
}

// ── Lifecycle ────────────────────────────────────────────────────────

// Run initializes the session and ticks until RequestStop, Quit or ctx
// cancellation. The stop flag is checked once per tick boundary.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.New("engine: scheduler already started")
	}
	defer close(s.done)

	s.running.Store(true)
	s.initialize(ctx)
	s.log.Info("game loop started", zap.Duration("tick_wait", s.opts.TickWait))

	for !s.stopping.Load() && ctx.Err() == nil {
		s.tick()
		s.sleep(ctx)
	}
	s.running.Store(false)
	s.log.Info("game loop stopped",
		zap.Uint64("ticks", s.g.Ticks()),
		zap.Uint64("dropped_frames", s.dropped.Load()),
	)
	return nil
}

// Start runs the loop on its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		if err := s.Run(ctx); err != nil {
			s.log.Error("game loop", zap.Error(err))
		}
	}()
}

// Wait blocks until a started loop has exited.
func (s *Scheduler) Wait() {
	<-s.done
}

// Done is closed when the loop exits.
func (s *Scheduler) Done() <-chan struct{} { return s.done }

// RequestStop asks the loop to exit after the current tick. A request made
// before Run starts makes Run return after initializing.
func (s *Scheduler) RequestStop() {
	s.stopping.Store(true)
	s.running.Store(false)
	s.Interrupt()
}

// Interrupt wakes the loop from its inter-tick sleep.
func (s *Scheduler) Interrupt() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Post queues fn to run on the loop goroutine at the start of the next
// tick. It never blocks; fn is dropped when the backlog is full.
func (s *Scheduler) Post(fn func()) {
	select {
	case s.posts <- fn:
	default:
		s.log.Warn("loop call dropped, backlog full")
	}
}

func (s *Scheduler) Running() bool { return s.running.Load() }
func (s *Scheduler) Paused() bool  { return s.paused.Load() }

// HighScore is the last high score published by the loop.
func (s *Scheduler) HighScore() int { return int(s.highScore.Load()) }

// DroppedFrames counts ticks that panicked and were abandoned.
func (s *Scheduler) DroppedFrames() uint64 { return s.dropped.Load() }

// Screen returns the current screen. Loop goroutine only.
func (s *Scheduler) Screen() screen.Screen { return s.current }

// Game returns the session.
func (s *Scheduler) Game() *world.Game { return s.g }

// FramesAfterDeath reports the death counter. Loop goroutine only.
func (s *Scheduler) FramesAfterDeath() int { return s.framesAfterDeath }

func (s *Scheduler) initialize(ctx context.Context) {
	s.tracker.Reset()
	s.tilt.Clear()
	s.tiltDelta = input.TiltDelta{}
	s.loadHighScore(ctx)

	s.current = s.gameplay
	s.current.Enter(s.screenContext())

	switch {
	case !s.g.Started:
		s.log.Info("starting new game")
		s.g.GameReset()
		s.startLevel(s.opts.FirstLevel())
		s.g.Started = true
		s.Unpause()
	case s.g.Paused:
		s.log.Info("resuming paused game")
		s.PauseSilent()
	default:
		s.log.Info("resuming game")
		s.Unpause()
	}
}

func (s *Scheduler) tick() {
	s.drainPosts()
	if err := s.safeCall("tick", s.runPhases); err != nil {
		s.dropped.Add(1)
	}
}

func (s *Scheduler) runPhases() {
	s.runner.Tick(s.opts.TickWait, s.paused.Load)
}

// safeCall runs fn with panic recovery so a single bad tick or posted call
// cannot kill the loop goroutine.
func (s *Scheduler) safeCall(what string, fn func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("loop panic recovered",
				zap.String("call", what),
				zap.Uint64("tick", s.g.Ticks()),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("%s panic: %v", what, rec)
		}
	}()
	fn()
	return nil
}

// drainPosts runs queued host calls. A panicking call counts as a dropped
// frame; the rest still run.
func (s *Scheduler) drainPosts() {
	for {
		select {
		case fn := <-s.posts:
			if err := s.safeCall("posted call", fn); err != nil {
				s.dropped.Add(1)
			}
		default:
			return
		}
	}
}

func (s *Scheduler) sleep(ctx context.Context) {
	t := time.NewTimer(s.opts.TickWait)
	defer t.Stop()
	select {
	case <-t.C:
	case <-s.wake:
		s.log.Debug("tick sleep interrupted")
	case <-ctx.Done():
	}
}

func (s *Scheduler) screenContext() screen.Context {
	return screen.Context{
		Ctl:     s,
		Log:     s.log,
		Prices:  s.opts.Prices,
		Printer: s.opts.Printer,
		Now:     s.opts.Clock,
	}
}

// ── Persistence ──────────────────────────────────────────────────────

func (s *Scheduler) publishHighScore() {
	s.highScore.Store(int64(s.g.HighScore()))
}

func (s *Scheduler) loadHighScore(ctx context.Context) {
	if s.opts.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()
	hs, err := s.opts.Store.LoadHighScore(ctx)
	if err != nil {
		s.log.Warn("load high score failed", zap.Error(err))
		return
	}
	if hs > s.g.HighScore() {
		s.g.SetHighScore(hs)
	}
	s.publishHighScore()
}

// save writes the published high score. Failures are logged, never fatal.
func (s *Scheduler) save() {
	if s.opts.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	score := s.HighScore()
	if err := s.opts.Store.SaveHighScore(ctx, score); err != nil {
		s.log.Warn("save high score failed", zap.Int("high_score", score), zap.Error(err))
		return
	}
	s.log.Debug("high score saved", zap.Int("high_score", score))
}

// ── Screen transitions (screen.Controller) ───────────────────────────

func (s *Scheduler) clearInput() {
	s.touchBuf = nil
	s.touch.Clear()
}

// PauseWithScreen swaps in scr and pauses gameplay.
func (s *Scheduler) PauseWithScreen(scr screen.Screen) {
	s.g.Paused = true
	s.current.Exit()
	s.current = scr
	s.current.Enter(s.screenContext())
	s.paused.Store(true)
	s.clearInput()
	s.publishHighScore()
	s.save()
	s.log.Info("paused", zap.String("screen", scr.Name()))
}

// PauseWithMenu pauses behind a host dialog. The current screen stays.
func (s *Scheduler) PauseWithMenu(m screen.Menu) {
	s.g.Paused = true
	s.paused.Store(true)
	s.clearInput()
	s.publishHighScore()
	s.save()
	s.log.Info("paused with menu")
	m.Execute()
}

// PauseSilent pauses without persisting or changing screens.
func (s *Scheduler) PauseSilent() {
	s.g.Paused = true
	s.paused.Store(true)
	s.clearInput()
	s.log.Debug("paused silently")
}

// Unpause returns to the gameplay screen.
func (s *Scheduler) Unpause() {
	if s.current != s.gameplay {
		s.current.Exit()
		s.current = s.gameplay
		s.current.Enter(s.screenContext())
	}
	s.g.Paused = false
	s.paused.Store(false)
	s.clearInput()
	s.log.Info("unpaused")
}

// StartNextLevel leaves the completed level for its successor, or shows the
// game-complete menu when there is none.
func (s *Scheduler) StartNextLevel() {
	var next world.Level
	if cur := s.g.CurrentLevel(); cur != nil {
		next = cur.NextLevel()
	} else {
		next = s.opts.FirstLevel()
	}
	if next == nil {
		s.PauseWithScreen(screen.NewGameCompleteMenu(s.opts.DelayAfterLevel))
		return
	}
	s.g.LevelExit()
	s.startLevel(next)
	s.Unpause()
}

// RestartLevel replays the current level with a repaired ship.
func (s *Scheduler) RestartLevel() {
	s.g.LevelReset()
	s.startLevel(s.g.CurrentLevel())
	s.Unpause()
}

// NewGame throws the session away and starts from the first level.
func (s *Scheduler) NewGame() {
	s.g.GameReset()
	s.startLevel(s.opts.FirstLevel())
	s.g.Started = true
	s.Unpause()
}

// Quit saves and stops the loop.
func (s *Scheduler) Quit() {
	s.log.Info("quit requested")
	s.publishHighScore()
	s.save()
	s.RequestStop()
	if s.opts.OnQuit != nil {
		s.opts.OnQuit()
	}
}

func (s *Scheduler) startLevel(l world.Level) {
	s.framesAfterDeath = 0
	s.g.SetLevel(l)
	if l == nil {
		return
	}
	l.Initialize(s.g)
	s.log.Info("level started", zap.String("level", l.Name()))
}

// ── Host side ────────────────────────────────────────────────────────

// SetTouchInput buffers a pointer event, replacing any unconsumed one.
func (s *Scheduler) SetTouchInput(ev input.TouchEvent) {
	s.touch.Store(ev)
}

// SetTilt buffers a raw accelerometer sample, replacing the previous one.
func (s *Scheduler) SetTilt(sample input.TiltSample) {
	s.tilt.Store(sample)
}

// SetSensor replaces the accelerometer source and attaches it.
func (s *Scheduler) SetSensor(sensor Sensor) {
	s.sensorMu.Lock()
	defer s.sensorMu.Unlock()
	if s.sensor != nil {
		s.sensor.Detach()
	}
	s.sensor = sensor
	if sensor != nil {
		sensor.Attach(s.SetTilt)
	}
}

// OnPause is the host's backgrounding hook: persist and detach the sensor.
func (s *Scheduler) OnPause() {
	s.save()
	s.sensorMu.Lock()
	defer s.sensorMu.Unlock()
	if s.sensor != nil {
		s.sensor.Detach()
	}
}

// OnResume reattaches the sensor.
func (s *Scheduler) OnResume() {
	s.sensorMu.Lock()
	defer s.sensorMu.Unlock()
	if s.sensor != nil {
		s.sensor.Attach(s.SetTilt)
	}
}

// snapshot copies the registry and the current screen's overlay for the
// presenter.
func (s *Scheduler) snapshot() world.Snapshot {
	snap := s.g.Snapshot()
	snap.Paused = s.paused.Load()
	snap.Screen = s.current.Name()
	if d, ok := s.current.(screen.Drawable); ok {
		snap.Title, snap.Overlay = d.Overlay()
	}
	return snap
}

// LastAccelerationX is the tilt acceleration applied by the last physics
// pass. Loop goroutine only.
func (s *Scheduler) LastAccelerationX() float64 { return s.lastAccelX }
