package input

import (
	"math"
	"sync"
	"testing"
)

func TestLatestOverwrites(t *testing.T) {
	var l Latest[TouchEvent]
	if _, ok := l.Take(); ok {
		t.Fatal("empty cell returned a value")
	}
	l.Store(TouchEvent{Action: ActionDown, X: 1})
	l.Store(TouchEvent{Action: ActionMove, X: 2})

	got, ok := l.Take()
	if !ok || got.Action != ActionMove || got.X != 2 {
		t.Fatalf("Take = %+v, %v; want newest move event", got, ok)
	}
	if _, ok := l.Take(); ok {
		t.Fatal("value delivered twice")
	}
}

func TestLatestPeekDoesNotConsume(t *testing.T) {
	var l Latest[TiltSample]
	l.Store(TiltSample{X: 1, Y: 2, Z: 3})
	for i := 0; i < 3; i++ {
		if s, ok := l.Peek(); !ok || s.Z != 3 {
			t.Fatalf("Peek %d = %+v, %v", i, s, ok)
		}
	}
	l.Clear()
	if _, ok := l.Peek(); ok {
		t.Fatal("Clear left a value")
	}
}

func TestLatestConcurrentProducer(t *testing.T) {
	var l Latest[int]
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 1000; i++ {
			l.Store(i)
		}
	}()
	last := 0
	for i := 0; i < 1000; i++ {
		if v, ok := l.Take(); ok {
			if v <= last {
				t.Fatalf("observed %d after %d", v, last)
			}
			last = v
		}
	}
	wg.Wait()
}

func TestTiltBaseline(t *testing.T) {
	var tr TiltTracker
	d, ok := tr.Observe(TiltSample{X: 3, Y: 4, Z: 9})
	if ok || d != (TiltDelta{}) {
		t.Fatalf("baseline produced %+v, %v", d, ok)
	}
	if !tr.Initialized() {
		t.Fatal("tracker not initialized after baseline")
	}
}

func TestTiltIdenticalSamplesGiveZeroDelta(t *testing.T) {
	var tr TiltTracker
	tr.Observe(TiltSample{X: 0, Y: 0, Z: 9.8})
	tr.Observe(TiltSample{X: 1, Y: 5, Z: 7})
	d, ok := tr.Observe(TiltSample{X: 1, Y: 5, Z: 7})
	if !ok || d != (TiltDelta{}) {
		t.Fatalf("repeat sample delta = %+v", d)
	}
}

func TestTiltDeadZones(t *testing.T) {
	tests := []struct {
		name string
		next TiltSample
		want TiltDelta
	}{
		{"inside all zones", TiltSample{X: 0.049, Y: 1.99, Z: 9.849}, TiltDelta{}},
		{"x at threshold", TiltSample{X: -0.05, Y: 0, Z: 9.8}, TiltDelta{DX: 0.05}},
		{"y outside", TiltSample{X: 0, Y: -2.5, Z: 9.8}, TiltDelta{DY: 2.5}},
		{"z outside", TiltSample{X: 0, Y: 0, Z: 9.0}, TiltDelta{DZ: 0.8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tr TiltTracker
			tr.Observe(TiltSample{Z: 9.8})
			d, _ := tr.Observe(tt.next)
			if !near(d.DX, tt.want.DX) || !near(d.DY, tt.want.DY) || !near(d.DZ, tt.want.DZ) {
				t.Fatalf("delta = %+v, want %+v", d, tt.want)
			}
		})
	}
}

func TestTiltDeadZoneProperty(t *testing.T) {
	for i := -49; i <= 49; i++ {
		small := float64(i) / 1000
		var tr TiltTracker
		tr.Observe(TiltSample{X: 1, Y: 1, Z: 1})
		d, _ := tr.Observe(TiltSample{X: 1 + small, Y: 1 + small*40, Z: 1 + small})
		if d != (TiltDelta{}) {
			t.Fatalf("offset %f produced %+v", small, d)
		}
	}
}

func TestTiltInversionFlipsX(t *testing.T) {
	samples := []TiltSample{{X: 2}, {X: -1.5}, {X: 0.3}, {X: 4}}
	for _, next := range samples {
		var up, down TiltTracker
		up.Observe(TiltSample{X: 1, Z: 9.8})
		down.Observe(TiltSample{X: 1, Z: -9.8})

		next.Z = 9.8
		du, _ := up.Observe(next)
		next.Z = -9.8
		dd, _ := down.Observe(next)

		if !near(du.DX, -dd.DX) {
			t.Fatalf("next %+v: upright dx %f, inverted dx %f", next, du.DX, dd.DX)
		}
	}
}

func TestTiltResetRestoresBaseline(t *testing.T) {
	var tr TiltTracker
	tr.Observe(TiltSample{X: 5})
	tr.Reset()
	if _, ok := tr.Observe(TiltSample{X: -5}); ok {
		t.Fatal("sample after Reset was not treated as a baseline")
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
