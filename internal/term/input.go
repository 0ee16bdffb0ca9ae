package term

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/uts2120/game/internal/input"
	"github.com/uts2120/game/internal/screen"
	"github.com/uts2120/game/internal/world"
)

// restZ is the vertical reading of a level device.
const restZ = 9.81

// Loop is the part of the scheduler the input pump drives. Post runs fn on
// the loop goroutine; everything else is safe from any goroutine.
type Loop interface {
	SetTouchInput(ev input.TouchEvent)
	Post(fn func())
	RequestStop()
	Paused() bool
	Screen() screen.Screen
	PauseWithScreen(s screen.Screen)
	Unpause()
}

type buttonLister interface {
	Buttons() []screen.Button
}

// Input pumps terminal events into the loop. It is also the loop's
// accelerometer: arrow keys tilt a virtual device.
type Input struct {
	screen tcell.Screen
	loop   Loop
	bounds world.Rect
	step   float64
	log    *zap.Logger

	mu      sync.Mutex
	deliver func(input.TiltSample)
	tiltX   float64

	dragging bool
}

func NewInput(scr tcell.Screen, loop Loop, bounds world.Rect, tiltStep float64, log *zap.Logger) *Input {
	return &Input{screen: scr, loop: loop, bounds: bounds, step: tiltStep, log: log}
}

// Attach starts delivering virtual accelerometer samples.
func (in *Input) Attach(deliver func(input.TiltSample)) {
	in.mu.Lock()
	in.deliver = deliver
	in.mu.Unlock()
	in.emitTilt()
}

// Detach stops delivery.
func (in *Input) Detach() {
	in.mu.Lock()
	in.deliver = nil
	in.mu.Unlock()
}

// Tilt returns the current virtual X reading.
func (in *Input) Tilt() float64 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.tiltX
}

// Run polls terminal events until ctx ends or the screen is finalized.
func (in *Input) Run(ctx context.Context) {
	events := make(chan tcell.Event, 64)
	go func() {
		defer close(events)
		for {
			ev := in.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !in.Handle(ev) {
				in.loop.RequestStop()
				return
			}
		}
	}
}

// Handle processes one terminal event. It returns false when the player
// asked to quit.
func (in *Input) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return in.handleKey(ev)
	case *tcell.EventMouse:
		in.handleMouse(ev)
	case *tcell.EventResize:
		in.screen.Sync()
	}
	return true
}

func (in *Input) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		in.nudge(in.step)
	case tcell.KeyRight:
		in.nudge(-in.step)
	case tcell.KeyDown:
		in.level()
	case tcell.KeyRune:
		switch r := ev.Rune(); {
		case r == 'q':
			return false
		case r == 'p':
			in.loop.Post(in.togglePause)
		case r == ' ':
			in.loop.SetTouchInput(input.TouchEvent{
				Action: input.ActionDown,
				X:      in.bounds.CenterX(),
				Y:      in.bounds.CenterY(),
			})
		case r >= '1' && r <= '9':
			n := int(r - '1')
			in.loop.Post(func() { in.pressButton(n) })
		}
	}
	return true
}

func (in *Input) handleMouse(ev *tcell.EventMouse) {
	col, row := ev.Position()
	cols, rows := in.screen.Size()
	v := Viewport{Bounds: in.bounds, Cols: cols, Rows: rows}
	x, y := v.ToWorld(col, row)

	pressed := ev.Buttons()&tcell.Button1 != 0
	var action input.Action
	switch {
	case pressed && !in.dragging:
		in.dragging = true
		action = input.ActionDown
	case pressed:
		action = input.ActionMove
	case in.dragging:
		in.dragging = false
		action = input.ActionUp
	default:
		return
	}
	in.loop.SetTouchInput(input.TouchEvent{Action: action, X: x, Y: y})
}

// togglePause runs on the loop goroutine.
func (in *Input) togglePause() {
	if !in.loop.Paused() {
		in.loop.PauseWithScreen(screen.NewPauseMenu())
		return
	}
	if cur := in.loop.Screen(); cur != nil && cur.Name() == "pause" {
		in.loop.Unpause()
	}
}

// pressButton runs on the loop goroutine and taps the n-th button of the
// current menu like a pointer would.
func (in *Input) pressButton(n int) {
	bl, ok := in.loop.Screen().(buttonLister)
	if !ok {
		return
	}
	buttons := bl.Buttons()
	if n >= len(buttons) {
		return
	}
	box := buttons[n].Box
	in.loop.SetTouchInput(input.TouchEvent{Action: input.ActionDown, X: box.CenterX(), Y: box.CenterY()})
}

func (in *Input) nudge(dx float64) {
	in.mu.Lock()
	in.tiltX += dx
	in.mu.Unlock()
	in.emitTilt()
}

func (in *Input) level() {
	in.mu.Lock()
	in.tiltX = 0
	in.mu.Unlock()
	in.emitTilt()
}

func (in *Input) emitTilt() {
	in.mu.Lock()
	deliver, x := in.deliver, in.tiltX
	in.mu.Unlock()
	if deliver != nil {
		deliver(input.TiltSample{X: x, Z: restZ})
	}
}
