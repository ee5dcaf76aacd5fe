package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain the command queue
	PhasePreUpdate               // 1: dispatch last tick's events
	PhaseMovement                // 2: unit controller
	PhaseCast                    // 3: cooldown clocks + targeting session
	PhaseEffects                 // 4: effect simulator, the only writer of structure HP
	PhaseOutput                  // 5: build the display snapshot
	PhasePersist                 // 6: hand the combat log batch to the writer
)

// Tick is the per-tick context. Now is sampled once by the Runner and reused
// by every system so cooldown and lifetime arithmetic agree within a tick.
type Tick struct {
	Seq uint64
	Now time.Time
}

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(t Tick)
}
