package input

import "math"

// Dead zones applied to each axis of a tilt delta.
const (
	TiltNoiseX = 0.05
	TiltNoiseY = 2.0
	TiltNoiseZ = 0.05
)

// TiltDelta is the filtered change between two consecutive raw samples.
type TiltDelta struct {
	DX, DY, DZ float64
}

// TiltTracker turns raw accelerometer samples into deltas. The first sample
// after Reset only records a baseline.
type TiltTracker struct {
	last        TiltSample
	initialized bool
}

// Reset forgets the baseline; the next Observe records a new one.
func (t *TiltTracker) Reset() {
	t.last = TiltSample{}
	t.initialized = false
}

// Initialized reports whether a baseline has been recorded.
func (t *TiltTracker) Initialized() bool { return t.initialized }

// Last returns the most recent raw sample.
func (t *TiltTracker) Last() TiltSample { return t.last }

// Observe computes previous − current for each axis. The x axis is reversed
// when the previous sample says the device is face down (z < 0). Readings
// inside the dead zone are zeroed. ok is false for a baseline sample.
func (t *TiltTracker) Observe(s TiltSample) (d TiltDelta, ok bool) {
	if !t.initialized {
		t.last = s
		t.initialized = true
		return TiltDelta{}, false
	}

	d.DX = t.last.X - s.X
	if t.last.Z < 0 {
		d.DX = -d.DX
	}
	d.DY = t.last.Y - s.Y
	d.DZ = t.last.Z - s.Z

	if math.Abs(d.DX) < TiltNoiseX {
		d.DX = 0
	}
	if math.Abs(d.DY) < TiltNoiseY {
		d.DY = 0
	}
	if math.Abs(d.DZ) < TiltNoiseZ {
		d.DZ = 0
	}

	t.last = s
	return d, true
}
