package system

import (
	"sort"
	"time"
)

// Runner executes systems in phase order each tick.
type Runner struct {
	systems []System
	sorted  bool
	seq     uint64
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

// Tick advances every system once with the given clock sample and returns
// the tick context that was used.
func (r *Runner) Tick(now time.Time) Tick {
	r.ensureSorted()
	r.seq++
	t := Tick{Seq: r.seq, Now: now}
	for _, s := range r.systems {
		s.Update(t)
	}
	return t
}

// Seq returns the number of ticks run so far.
func (r *Runner) Seq() uint64 { return r.seq }

func (r *Runner) ensureSorted() {
	if !r.sorted {
		// Stable so systems sharing a phase keep registration order.
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
