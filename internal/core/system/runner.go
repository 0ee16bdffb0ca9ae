package system

import (
	"sort"
	"time"
)

// Runner executes systems in phase order each tick.
type Runner struct {
	systems []System
	sorted  bool
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs every registered system once. paused is consulted before each
// system, so a pause raised by an earlier phase gates the later ones.
func (r *Runner) Tick(dt time.Duration, paused func() bool) {
	r.ensureSorted()
	for _, s := range r.systems {
		if g, ok := s.(Gated); ok && g.GameplayOnly() && paused() {
			continue
		}
		s.Update(dt)
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
