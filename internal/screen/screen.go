// Package screen holds the screen state machine the scheduler drives: the
// gameplay screen and the modal menus shown while the game is paused.
package screen

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/message"

	"github.com/uts2120/game/internal/input"
	"github.com/uts2120/game/internal/world"
)

// Screen is the current input/overlay owner. Enter and Exit always run in
// matched pairs around a transition.
type Screen interface {
	Name() string
	Enter(ctx Context)
	Exit()
	// Update runs every tick, paused or not.
	Update()
	Touch(ev input.TouchEvent)
}

// Drawable screens contribute a title and labels to the presented frame.
type Drawable interface {
	Overlay() (title string, labels []world.Label)
}

// Menu is a dialog presented by the host outside the screen machine. The
// current screen stays in place while it is shown.
type Menu interface {
	Execute()
}

// Controller is the scheduler as seen from a screen.
type Controller interface {
	Game() *world.Game
	Unpause()
	PauseWithScreen(s Screen)
	PauseWithMenu(m Menu)
	PauseSilent()
	StartNextLevel()
	RestartLevel()
	NewGame()
	Quit()
}

// Pricer prices an upgrade at the player's current level. Zero means not
// for sale.
type Pricer interface {
	UpgradePrice(kind string, level int) int
}

// Context is handed to a screen on Enter.
type Context struct {
	Ctl     Controller
	Log     *zap.Logger
	Prices  Pricer
	Printer *message.Printer
	Now     func() time.Time
}

func (c Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c Context) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}
