// Package input holds the buffers between the host's input/sensor goroutine
// and the game loop.
package input

import "sync/atomic"

// Action is the pointer action code of a touch event.
type Action int

const (
	ActionDown Action = iota
	ActionUp
	ActionMove
	ActionCancel
)

func (a Action) String() string {
	switch a {
	case ActionDown:
		return "down"
	case ActionUp:
		return "up"
	case ActionMove:
		return "move"
	case ActionCancel:
		return "cancel"
	}
	return "unknown"
}

// TouchEvent is a normalized pointer event in world coordinates.
type TouchEvent struct {
	Action Action
	X, Y   float64
}

// TiltSample is one raw 3-axis accelerometer reading.
type TiltSample struct {
	X, Y, Z float64
}

// Latest is a single-producer/single-consumer "latest value" cell.
//
// It is intentionally lossy: Store replaces whatever the consumer has not
// yet taken, so at most one value is delivered per read and older values
// are dropped. Readers must tolerate an empty cell.
type Latest[T any] struct {
	p atomic.Pointer[T]
}

// Store publishes v, overwriting any unconsumed value.
func (l *Latest[T]) Store(v T) {
	l.p.Store(&v)
}

// Take removes and returns the current value.
func (l *Latest[T]) Take() (T, bool) {
	p := l.p.Swap(nil)
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// Peek returns the current value without consuming it.
func (l *Latest[T]) Peek() (T, bool) {
	p := l.p.Load()
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// Clear empties the cell.
func (l *Latest[T]) Clear() {
	l.p.Store(nil)
}
