package system

import (
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/geom"
	"github.com/l1jgo/arena/internal/world"
	"go.uber.org/zap"
)

// MovementSystem applies queued move orders and advances the unit one step.
// Phase 2 (Movement).
type MovementSystem struct {
	unit       *world.Unit
	structures *world.Structures
	caster     *world.Caster
	halfExtent float64
	arriveEps  float64
	log        *zap.Logger

	moves []geom.Vec3
}

func NewMovementSystem(unit *world.Unit, structures *world.Structures, caster *world.Caster, halfExtent, arriveEps float64, log *zap.Logger) *MovementSystem {
	return &MovementSystem{
		unit:       unit,
		structures: structures,
		caster:     caster,
		halfExtent: halfExtent,
		arriveEps:  arriveEps,
		log:        log,
	}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

// QueueMove is called by InputSystem. Non-finite points are dropped.
func (s *MovementSystem) QueueMove(p geom.Vec3) bool {
	if !p.IsFinite() {
		return false
	}
	s.moves = append(s.moves, p)
	return true
}

func (s *MovementSystem) Update(t coresys.Tick) {
	for _, p := range s.moves {
		// a pointer press while aiming places the marker, not the unit
		if s.caster.Session().Active {
			s.log.Debug("move ignored while aiming", zap.Uint64("tick", t.Seq))
			continue
		}
		s.unit.SetDestination(p)
	}
	s.moves = s.moves[:0]

	switch out := s.unit.Advance(s.halfExtent, s.arriveEps, s.blocked); out {
	case world.MoveOutOfBounds, world.MoveBlocked:
		s.log.Debug("move rejected",
			zap.Uint64("tick", t.Seq),
			zap.Stringer("reason", out),
			zap.Float64("x", s.unit.Pos.X),
			zap.Float64("z", s.unit.Pos.Z),
		)
	case world.MoveArrived:
		s.log.Debug("unit arrived", zap.Uint64("tick", t.Seq), zap.Float64("x", s.unit.Pos.X), zap.Float64("z", s.unit.Pos.Z))
	}
}

func (s *MovementSystem) blocked(b geom.Box) bool {
	return len(s.structures.QueryIntersecting(b)) > 0
}
