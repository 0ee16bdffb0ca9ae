package term

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/uts2120/game/internal/engine"
	"github.com/uts2120/game/internal/world"
)

// ErrClosed is returned by AcquireSurface once the screen is finalized.
var ErrClosed = errors.New("term: screen closed")

var (
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleEnemy   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleRock    = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleShot    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleHostile = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	stylePickUp  = tcell.StyleDefault.Foreground(tcell.ColorLime)
	styleBoom    = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleText    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleTitle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleButton  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	styleMuted   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Presenter draws loop snapshots onto a tcell screen. The surface lock makes
// a frame exclusive; Close waits for the frame in progress.
type Presenter struct {
	mu     sync.Mutex
	screen tcell.Screen
	closed atomic.Bool
	log    *zap.Logger
}

func NewPresenter(screen tcell.Screen, log *zap.Logger) *Presenter {
	return &Presenter{screen: screen, log: log}
}

// AcquireSurface locks the screen for one frame.
func (p *Presenter) AcquireSurface() (engine.Surface, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}
	p.mu.Lock()
	if p.closed.Load() {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	return p.screen, nil
}

func (p *Presenter) ReleaseSurface(engine.Surface) {
	p.mu.Unlock()
}

// RequestRedraw draws snap and shows it.
func (p *Presenter) RequestRedraw(surf engine.Surface, snap world.Snapshot) {
	scr, ok := surf.(tcell.Screen)
	if !ok {
		p.log.Error("unexpected surface", zap.String("type", fmt.Sprintf("%T", surf)))
		return
	}
	cols, rows := scr.Size()
	v := Viewport{Bounds: snap.Bounds, Cols: cols, Rows: rows}

	scr.Clear()
	for _, s := range snap.Sprites {
		drawSprite(scr, v, s)
	}
	drawHUD(scr, cols, snap)
	if snap.Title != "" || len(snap.Overlay) > 0 {
		drawOverlay(scr, v, snap)
	}
	scr.Show()
}

// Close finalizes the screen. Later acquisitions fail with ErrClosed.
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed.Swap(true) {
		return
	}
	p.screen.Fini()
}

func glyph(s world.Sprite) (rune, tcell.Style) {
	switch s.Kind {
	case world.KindPlayer:
		return 'A', stylePlayer
	case world.KindEnemy:
		return 'V', styleEnemy
	case world.KindAsteroid:
		return '@', styleRock
	case world.KindShot:
		return '|', styleShot
	case world.KindEnemyShot:
		return '!', styleHostile
	case world.KindPickUp:
		if s.Label == world.PickUpHealth.String() {
			return '+', stylePickUp
		}
		return '$', stylePickUp
	}
	return '*', styleBoom
}

func drawSprite(scr tcell.Screen, v Viewport, s world.Sprite) {
	if s.Kind == world.KindAnimation && s.Style != world.AnimExplosion {
		col, row, ok := v.ToCell(s.Box.CenterX(), s.Box.CenterY())
		if !ok {
			return
		}
		drawCentered(scr, col, row, s.Label, styleText)
		return
	}
	r, style := glyph(s)
	c0, r0, c1, r1 := v.CellRect(s.Box)
	for row := r0; row < r1; row++ {
		if row < hudRows || row >= v.Rows {
			continue
		}
		for col := c0; col < c1; col++ {
			if col < 0 || col >= v.Cols {
				continue
			}
			scr.SetContent(col, row, r, nil, style)
		}
	}
}

func drawHUD(scr tcell.Screen, cols int, snap world.Snapshot) {
	for x := 0; x < cols; x++ {
		scr.SetContent(x, 0, ' ', nil, styleHUD)
	}
	line := fmt.Sprintf(" HP %d/%d  Score %d  Hi %d  Credits %d  %s",
		snap.Health, snap.MaxHealth, snap.Score, snap.HighScore, snap.Credits, snap.Level)
	if snap.Paused {
		line += "  [PAUSED]"
	}
	drawText(scr, 0, 0, cols, line, styleHUD)
}

func drawOverlay(scr tcell.Screen, v Viewport, snap world.Snapshot) {
	if snap.Title != "" {
		drawCentered(scr, v.Cols/2, hudRows+(v.Rows-hudRows)/4, snap.Title, styleTitle)
	}
	for _, l := range snap.Overlay {
		style := styleButton
		if !l.Enabled {
			style = styleMuted
		}
		c0, r0, c1, r1 := v.CellRect(l.Box)
		if snap.Screen != "gameplay" {
			for row := r0; row < r1 && row < v.Rows; row++ {
				for col := max(c0, 0); col < c1 && col < v.Cols; col++ {
					scr.SetContent(col, row, ' ', nil, style)
				}
			}
		}
		drawCentered(scr, (c0+c1)/2, (r0+r1)/2, l.Text, style)
	}
}

func drawCentered(scr tcell.Screen, col, row int, text string, style tcell.Style) {
	cols, _ := scr.Size()
	drawText(scr, col-len([]rune(text))/2, row, cols, text, style)
}

func drawText(scr tcell.Screen, col, row, limit int, text string, style tcell.Style) {
	for _, r := range text {
		if col >= limit {
			return
		}
		if col >= 0 {
			scr.SetContent(col, row, r, nil, style)
		}
		col++
	}
}
