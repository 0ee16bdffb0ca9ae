package screen

import (
	"time"

	"go.uber.org/zap"

	"github.com/uts2120/game/internal/input"
	"github.com/uts2120/game/internal/world"
)

const (
	buttonHeight = 4
	buttonGap    = 2
)

// Button is one menu entry. Enabled may be nil (always enabled).
type Button struct {
	Text    string
	Box     world.Rect
	Enabled func(ctx Context) bool
	OnPress func(ctx Context)
}

func (b Button) enabled(ctx Context) bool {
	return b.Enabled == nil || b.Enabled(ctx)
}

// MenuScreen is a modal screen with a column of buttons. Presses are
// ignored until delay has passed since Enter so a tap meant for the
// gameplay screen cannot pick an option by accident.
type MenuScreen struct {
	name    string
	title   string
	delay   time.Duration
	buttons []Button

	ctx    Context
	shown  time.Time
	active bool
}

// NewMenuScreen builds a menu. Button boxes are laid out on Enter.
func NewMenuScreen(name, title string, delay time.Duration, buttons ...Button) *MenuScreen {
	return &MenuScreen{name: name, title: title, delay: delay, buttons: buttons}
}

func (m *MenuScreen) Name() string { return m.name }

func (m *MenuScreen) Enter(ctx Context) {
	m.ctx = ctx
	m.shown = ctx.now()
	m.active = true
	m.layout(ctx.Ctl.Game().Bounds)
}

func (m *MenuScreen) Exit() {
	m.active = false
}

func (m *MenuScreen) Update() {}

// Ready reports whether the display delay has elapsed.
func (m *MenuScreen) Ready() bool {
	return m.active && m.ctx.now().Sub(m.shown) >= m.delay
}

// Touch presses the enabled button under a down event.
func (m *MenuScreen) Touch(ev input.TouchEvent) {
	if ev.Action != input.ActionDown || !m.Ready() {
		return
	}
	for _, b := range m.buttons {
		if !b.Box.Contains(ev.X, ev.Y) {
			continue
		}
		if !b.enabled(m.ctx) || b.OnPress == nil {
			return
		}
		m.ctx.logger().Debug("menu button pressed",
			zap.String("menu", m.name),
			zap.String("button", b.Text),
		)
		b.OnPress(m.ctx)
		return
	}
}

// Buttons returns the laid-out buttons.
func (m *MenuScreen) Buttons() []Button { return m.buttons }

func (m *MenuScreen) Overlay() (string, []world.Label) {
	labels := make([]world.Label, len(m.buttons))
	ready := m.Ready()
	for i, b := range m.buttons {
		labels[i] = world.Label{Box: b.Box, Text: b.Text, Enabled: ready && b.enabled(m.ctx)}
	}
	return m.title, labels
}

// layout stacks the buttons in a centred column half the field wide.
func (m *MenuScreen) layout(bounds world.Rect) {
	n := float64(len(m.buttons))
	total := n*buttonHeight + (n-1)*buttonGap
	top := bounds.CenterY() - total/2
	w := bounds.Width() / 2
	for i := range m.buttons {
		y := top + float64(i)*(buttonHeight+buttonGap) + buttonHeight/2
		m.buttons[i].Box = world.RectAt(bounds.CenterX(), y, w, buttonHeight)
	}
}

func unpause(ctx Context)   { ctx.Ctl.Unpause() }
func quit(ctx Context)      { ctx.Ctl.Quit() }
func nextLevel(ctx Context) { ctx.Ctl.StartNextLevel() }

// NewPauseMenu is shown from the gameplay pause button.
func NewPauseMenu() *MenuScreen {
	return NewMenuScreen("pause", "Paused", 0,
		Button{Text: "Resume", OnPress: unpause},
		Button{Text: "Quit", OnPress: quit},
	)
}

// NewLevelCompleteMenu offers the next level or the upgrade shop.
func NewLevelCompleteMenu(delay time.Duration) *MenuScreen {
	return NewMenuScreen("level_complete", "Level complete", delay,
		Button{Text: "Next level", OnPress: nextLevel},
		Button{Text: "Upgrades", OnPress: func(ctx Context) {
			ctx.Ctl.PauseWithScreen(NewUpgrade())
		}},
	)
}

// NewGameCompleteMenu is shown after the last level.
func NewGameCompleteMenu(delay time.Duration) *MenuScreen {
	return NewMenuScreen("game_complete", "You saved the system!", delay,
		Button{Text: "New game", OnPress: func(ctx Context) { ctx.Ctl.NewGame() }},
		Button{Text: "Quit", OnPress: quit},
	)
}

// NewGameOverMenu is shown once the death frames have run out.
func NewGameOverMenu() *MenuScreen {
	return NewMenuScreen("game_over", "Game over", 0,
		Button{Text: "Retry level", OnPress: func(ctx Context) { ctx.Ctl.RestartLevel() }},
		Button{Text: "Quit", OnPress: quit},
	)
}
