package system

import (
	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/persist"
	"go.uber.org/zap"
)

// BatchSubmitter accepts a combat log batch without blocking.
// *persist.Writer implements it.
type BatchSubmitter interface {
	Submit(batch []persist.CombatEvent) bool
}

// CombatLogSystem collects cast, damage and destruction events into rows
// and hands them to the writer every flushTicks ticks. Phase 6 (Persist).
type CombatLogSystem struct {
	sink       BatchSubmitter
	flushTicks uint64
	log        *zap.Logger

	pending []persist.CombatEvent
	dropped int
}

func NewCombatLogSystem(bus *event.Bus, sink BatchSubmitter, flushTicks int, log *zap.Logger) *CombatLogSystem {
	if flushTicks <= 0 {
		flushTicks = 1
	}
	s := &CombatLogSystem{sink: sink, flushTicks: uint64(flushTicks), log: log}

	event.Subscribe(bus, func(e event.CastCommitted) {
		s.pending = append(s.pending, persist.CombatEvent{
			Tick: e.Seq, Kind: persist.KindCast, Slot: e.Slot,
			X: e.Target.X, Z: e.Target.Z, At: e.At,
		})
	})
	event.Subscribe(bus, func(e event.StructureDamaged) {
		s.pending = append(s.pending, persist.CombatEvent{
			Tick: e.Seq, Kind: persist.KindDamage, Slot: e.Slot, Structure: e.Name,
			Amount: e.Amount, Remaining: e.Remaining, At: e.At,
		})
	})
	event.Subscribe(bus, func(e event.StructureDestroyed) {
		s.pending = append(s.pending, persist.CombatEvent{
			Tick: e.Seq, Kind: persist.KindDestroyed, Slot: e.Slot, Structure: e.Name, At: e.At,
		})
	})
	return s
}

func (s *CombatLogSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *CombatLogSystem) Update(t coresys.Tick) {
	if t.Seq%s.flushTicks != 0 {
		return
	}
	s.Flush()
}

// Flush hands every pending row to the writer now. A full writer queue
// drops the batch.
func (s *CombatLogSystem) Flush() {
	if len(s.pending) == 0 {
		return
	}
	batch := s.pending
	s.pending = nil
	if !s.sink.Submit(batch) {
		s.dropped += len(batch)
		s.log.Warn("combat log queue full, batch dropped",
			zap.Int("rows", len(batch)),
			zap.Int("dropped_total", s.dropped),
		)
	}
}

// Pending returns rows not yet handed to the writer.
func (s *CombatLogSystem) Pending() int { return len(s.pending) }

// Dropped returns rows lost to a full writer queue.
func (s *CombatLogSystem) Dropped() int { return s.dropped }
