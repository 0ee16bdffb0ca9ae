package event

import "testing"

func TestEventsVisibleNextTick(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(e PlayerDamaged) { got = append(got, e.Amount) })

	Emit(b, PlayerDamaged{Amount: 3})
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatalf("event dispatched in the tick it was emitted: %v", got)
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("got %v, want [3]", got)
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 {
		t.Fatalf("event dispatched twice: %v", got)
	}
}

func TestDispatchOrderFollowsFirstEmit(t *testing.T) {
	b := NewBus()
	var order []string
	Subscribe(b, func(PlayerDied) { order = append(order, "died") })
	Subscribe(b, func(AsteroidDestroyed) { order = append(order, "asteroid") })
	Subscribe(b, func(EnemyDestroyed) { order = append(order, "enemy") })

	for i := 0; i < 20; i++ {
		order = order[:0]
		Emit(b, EnemyDestroyed{})
		Emit(b, AsteroidDestroyed{})
		Emit(b, PlayerDied{})
		b.SwapBuffers()
		b.DispatchAll()
		if len(order) != 3 || order[0] != "enemy" || order[1] != "asteroid" || order[2] != "died" {
			t.Fatalf("iteration %d dispatched %v", i, order)
		}
	}
}

func TestResetDropsQueuedEvents(t *testing.T) {
	b := NewBus()
	calls := 0
	Subscribe(b, func(LevelCompleted) { calls++ })
	Emit(b, LevelCompleted{Level: "x"})
	if b.Pending() != 1 {
		t.Fatalf("Pending = %d, want 1", b.Pending())
	}
	b.Reset()
	b.SwapBuffers()
	b.DispatchAll()
	if calls != 0 {
		t.Fatalf("handler ran %d times after Reset", calls)
	}
}
