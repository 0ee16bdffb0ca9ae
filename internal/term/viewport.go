// Package term is the terminal frontend: a tcell presenter for the loop's
// frames and an input pump that turns mouse and keys into touch events and
// virtual accelerometer samples.
package term

import "github.com/uts2120/game/internal/world"

// hudRows is the number of rows above the playfield.
const hudRows = 1

// Viewport maps world units to terminal cells. Row 0 is the HUD.
type Viewport struct {
	Bounds     world.Rect
	Cols, Rows int
}

func (v Viewport) scale() (sx, sy float64) {
	fieldRows := v.Rows - hudRows
	if v.Cols <= 0 || fieldRows <= 0 || v.Bounds.Width() <= 0 || v.Bounds.Height() <= 0 {
		return 0, 0
	}
	return float64(v.Cols) / v.Bounds.Width(), float64(fieldRows) / v.Bounds.Height()
}

// ToCell converts a world point to a cell. ok is false outside the
// playfield.
func (v Viewport) ToCell(x, y float64) (col, row int, ok bool) {
	sx, sy := v.scale()
	if sx == 0 {
		return 0, 0, false
	}
	col = int((x - v.Bounds.Left) * sx)
	row = int((y-v.Bounds.Top)*sy) + hudRows
	ok = col >= 0 && col < v.Cols && row >= hudRows && row < v.Rows
	return col, row, ok
}

// ToWorld converts a cell to the world point at its centre.
func (v Viewport) ToWorld(col, row int) (x, y float64) {
	sx, sy := v.scale()
	if sx == 0 {
		return v.Bounds.CenterX(), v.Bounds.CenterY()
	}
	x = v.Bounds.Left + (float64(col)+0.5)/sx
	y = v.Bounds.Top + (float64(row-hudRows)+0.5)/sy
	return x, y
}

// CellRect returns the cell span covered by r, at least one cell.
func (v Viewport) CellRect(r world.Rect) (c0, r0, c1, r1 int) {
	sx, sy := v.scale()
	c0 = int((r.Left - v.Bounds.Left) * sx)
	c1 = int((r.Right - v.Bounds.Left) * sx)
	r0 = int((r.Top-v.Bounds.Top)*sy) + hudRows
	r1 = int((r.Bottom-v.Bounds.Top)*sy) + hudRows
	if c1 <= c0 {
		c1 = c0 + 1
	}
	if r1 <= r0 {
		r1 = r0 + 1
	}
	return c0, r0, c1, r1
}
