package term

import (
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/uts2120/game/internal/input"
	"github.com/uts2120/game/internal/screen"
	"github.com/uts2120/game/internal/world"
)

type cell struct {
	r     rune
	style tcell.Style
}

// MockScreen records SetContent calls.
type MockScreen struct {
	tcell.Screen
	width, height int
	cells         map[[2]int]cell
	shows, finis  int
}

func newMockScreen(w, h int) *MockScreen {
	return &MockScreen{width: w, height: h, cells: make(map[[2]int]cell)}
}

func (m *MockScreen) Size() (int, int) { return m.width, m.height }
func (m *MockScreen) Clear()           { m.cells = make(map[[2]int]cell) }
func (m *MockScreen) Show()            { m.shows++ }
func (m *MockScreen) Sync()            {}
func (m *MockScreen) Fini()            { m.finis++ }

func (m *MockScreen) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	m.cells[[2]int{x, y}] = cell{r: mainc, style: style}
}

func (m *MockScreen) row(y int) string {
	var b strings.Builder
	for x := 0; x < m.width; x++ {
		c, ok := m.cells[[2]int{x, y}]
		if !ok || c.r == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(c.r)
	}
	return b.String()
}

var testBounds = world.Rect{Right: 80, Bottom: 46}

func TestViewportRoundTrip(t *testing.T) {
	v := Viewport{Bounds: testBounds, Cols: 80, Rows: 24}

	col, row, ok := v.ToCell(40, 23)
	if !ok || col != 40 || row != 12 {
		t.Fatalf("ToCell = (%d,%d,%v), want (40,12,true)", col, row, ok)
	}
	x, y := v.ToWorld(col, row)
	if x != 40.5 || y != 23 {
		t.Fatalf("ToWorld = (%v,%v), want (40.5,23)", x, y)
	}
	if _, _, ok := v.ToCell(-1, 10); ok {
		t.Fatal("point left of the field should be off screen")
	}
	c0, r0, c1, r1 := v.CellRect(world.Rect{Left: 10, Top: 10, Right: 10.2, Bottom: 10.2})
	if c1-c0 != 1 || r1-r0 != 1 {
		t.Fatalf("tiny rect spans %dx%d cells, want 1x1", c1-c0, r1-r0)
	}
}

func TestRequestRedrawDrawsSpritesAndHUD(t *testing.T) {
	scr := newMockScreen(80, 24)
	p := NewPresenter(scr, zap.NewNop())

	snap := world.Snapshot{
		Bounds:    testBounds,
		Health:    7,
		MaxHealth: 10,
		Score:     120,
		HighScore: 500,
		Credits:   40,
		Level:     "Asteroid Belt",
		Sprites: []world.Sprite{
			{Kind: world.KindPlayer, Box: world.Rect{Left: 40, Top: 40, Right: 41, Bottom: 41}},
			{Kind: world.KindAsteroid, Box: world.Rect{Left: 10, Top: 2, Right: 11, Bottom: 3}},
			{Kind: world.KindPickUp, Label: "health", Box: world.Rect{Left: 20, Top: 2, Right: 21, Bottom: 3}},
		},
	}

	surf, err := p.AcquireSurface()
	if err != nil {
		t.Fatalf("AcquireSurface: %v", err)
	}
	p.RequestRedraw(surf, snap)
	p.ReleaseSurface(surf)

	if scr.shows != 1 {
		t.Fatalf("Show called %d times, want 1", scr.shows)
	}
	hud := scr.row(0)
	for _, want := range []string{"HP 7/10", "Score 120", "Hi 500", "Credits 40", "Asteroid Belt"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD %q missing %q", hud, want)
		}
	}
	if strings.Contains(hud, "PAUSED") {
		t.Errorf("HUD %q shows PAUSED for a running game", hud)
	}

	v := Viewport{Bounds: testBounds, Cols: 80, Rows: 24}
	for _, tc := range []struct {
		x, y float64
		want rune
	}{
		{40.5, 40.5, 'A'},
		{10.5, 2.5, '@'},
		{20.5, 2.5, '+'},
	} {
		col, row, _ := v.ToCell(tc.x, tc.y)
		if got := scr.cells[[2]int{col, row}].r; got != tc.want {
			t.Errorf("cell (%d,%d) = %q, want %q", col, row, got, tc.want)
		}
	}
}

func TestRequestRedrawOverlay(t *testing.T) {
	scr := newMockScreen(80, 24)
	p := NewPresenter(scr, zap.NewNop())

	snap := world.Snapshot{
		Bounds: testBounds,
		Paused: true,
		Screen: "pause",
		Title:  "Paused",
		Overlay: []world.Label{
			{Text: "Resume", Enabled: true, Box: world.Rect{Left: 30, Top: 20, Right: 50, Bottom: 24}},
		},
	}
	surf, _ := p.AcquireSurface()
	p.RequestRedraw(surf, snap)
	p.ReleaseSurface(surf)

	if !strings.Contains(scr.row(0), "[PAUSED]") {
		t.Fatalf("HUD %q should show [PAUSED]", scr.row(0))
	}
	var all strings.Builder
	for y := 1; y < 24; y++ {
		all.WriteString(scr.row(y))
	}
	for _, want := range []string{"Paused", "Resume"} {
		if !strings.Contains(all.String(), want) {
			t.Errorf("overlay missing %q", want)
		}
	}
}

func TestPresenterClose(t *testing.T) {
	scr := newMockScreen(80, 24)
	p := NewPresenter(scr, zap.NewNop())

	p.Close()
	p.Close()
	if scr.finis != 1 {
		t.Fatalf("Fini called %d times, want 1", scr.finis)
	}
	if _, err := p.AcquireSurface(); !errors.Is(err, ErrClosed) {
		t.Fatalf("AcquireSurface after Close = %v, want ErrClosed", err)
	}
}

// fakeLoop records what the input pump asks of the scheduler. Posted
// functions run inline.
type fakeLoop struct {
	touches []input.TouchEvent
	stopped bool
	paused  bool
	current screen.Screen
	unpause int
}

func (f *fakeLoop) SetTouchInput(ev input.TouchEvent) { f.touches = append(f.touches, ev) }
func (f *fakeLoop) Post(fn func())                    { fn() }
func (f *fakeLoop) RequestStop()                      { f.stopped = true }
func (f *fakeLoop) Paused() bool                      { return f.paused }
func (f *fakeLoop) Screen() screen.Screen             { return f.current }

func (f *fakeLoop) Unpause() {
	f.paused = false
	f.unpause++
}

func (f *fakeLoop) PauseWithScreen(s screen.Screen) {
	f.paused = true
	f.current = s
}

// gameOnly is a controller that only knows the game; menus need its bounds
// for layout.
type gameOnly struct {
	screen.Controller
	g *world.Game
}

func (c gameOnly) Game() *world.Game { return c.g }

func newInput(loop *fakeLoop) (*Input, *MockScreen) {
	scr := newMockScreen(80, 24)
	return NewInput(scr, loop, testBounds, 0.5, zap.NewNop()), scr
}

func TestQuitKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want bool
	}{
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), false},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), false},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), false},
		{"other rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, _ := newInput(&fakeLoop{})
			if got := in.Handle(tt.ev); got != tt.want {
				t.Fatalf("Handle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMouseBecomesTouch(t *testing.T) {
	loop := &fakeLoop{}
	in, _ := newInput(loop)

	in.Handle(tcell.NewEventMouse(40, 12, tcell.Button1, tcell.ModNone))
	in.Handle(tcell.NewEventMouse(41, 12, tcell.Button1, tcell.ModNone))
	in.Handle(tcell.NewEventMouse(41, 12, tcell.ButtonNone, tcell.ModNone))
	in.Handle(tcell.NewEventMouse(42, 12, tcell.ButtonNone, tcell.ModNone))

	want := []input.Action{input.ActionDown, input.ActionMove, input.ActionUp}
	if len(loop.touches) != len(want) {
		t.Fatalf("got %d touches, want %d", len(loop.touches), len(want))
	}
	for i, a := range want {
		if loop.touches[i].Action != a {
			t.Errorf("touch %d action = %v, want %v", i, loop.touches[i].Action, a)
		}
	}
	if loop.touches[0].X != 40.5 || loop.touches[0].Y != 23 {
		t.Errorf("down at (%v,%v), want world (40.5,23)", loop.touches[0].X, loop.touches[0].Y)
	}
}

func TestArrowKeysTiltVirtualSensor(t *testing.T) {
	in, _ := newInput(&fakeLoop{})

	var samples []input.TiltSample
	in.Attach(func(s input.TiltSample) { samples = append(samples, s) })
	if len(samples) != 1 || samples[0].X != 0 || samples[0].Z != restZ {
		t.Fatalf("attach should deliver a level sample, got %+v", samples)
	}

	in.Handle(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	in.Handle(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	if got := samples[len(samples)-1].X; got != -1.0 {
		t.Fatalf("after two right presses X = %v, want -1", got)
	}

	// A drop in X reads as a positive delta, so the ship drifts right.
	var tr input.TiltTracker
	tr.Observe(samples[0])
	d, ok := tr.Observe(samples[1])
	if !ok || d.DX <= 0 {
		t.Fatalf("right tilt delta = %+v (ok %v), want positive X", d, ok)
	}

	in.Handle(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	if in.Tilt() != 0 {
		t.Fatalf("down should level the device, tilt = %v", in.Tilt())
	}

	in.Detach()
	n := len(samples)
	in.Handle(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	if len(samples) != n {
		t.Fatal("detached sensor must not deliver")
	}
}

func TestPauseKeyToggles(t *testing.T) {
	loop := &fakeLoop{}
	in, _ := newInput(loop)
	p := tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone)

	in.Handle(p)
	if !loop.paused || loop.current == nil || loop.current.Name() != "pause" {
		t.Fatalf("p should open the pause menu, got paused=%v screen=%v", loop.paused, loop.current)
	}
	in.Handle(p)
	if loop.paused || loop.unpause != 1 {
		t.Fatalf("second p should resume, paused=%v unpause=%d", loop.paused, loop.unpause)
	}

	loop.paused = true
	loop.current = screen.NewGameOverMenu()
	in.Handle(p)
	if !loop.paused {
		t.Fatal("p must not dismiss the game over menu")
	}
}

func TestDigitPressesMenuButton(t *testing.T) {
	loop := &fakeLoop{}
	in, _ := newInput(loop)

	menu := screen.NewPauseMenu()
	ctl := gameOnly{g: world.NewGame(world.Options{Bounds: testBounds, Seed: 1})}
	menu.Enter(screen.Context{Ctl: ctl, Log: zap.NewNop()})
	loop.current = menu

	in.Handle(tcell.NewEventKey(tcell.KeyRune, '2', tcell.ModNone))
	if len(loop.touches) != 1 {
		t.Fatalf("got %d touches, want 1", len(loop.touches))
	}
	box := menu.Buttons()[1].Box
	if ev := loop.touches[0]; ev.Action != input.ActionDown || !box.Contains(ev.X, ev.Y) {
		t.Fatalf("touch %+v should land inside button box %+v", ev, box)
	}

	in.Handle(tcell.NewEventKey(tcell.KeyRune, '9', tcell.ModNone))
	if len(loop.touches) != 1 {
		t.Fatal("digit past the last button should do nothing")
	}
}
