package system

import (
	"errors"

	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/geom"
	"github.com/l1jgo/arena/internal/world"
	"go.uber.org/zap"
)

// CastSystem runs the targeting state machine and ticks cooldown clocks.
// Confirmed casts spawn their effect immediately so it advances in the same
// tick. Phase 3 (Cast).
type CastSystem struct {
	caster     *world.Caster
	unit       *world.Unit
	structures *world.Structures
	effects    *world.Effects
	bus        *event.Bus
	log        *zap.Logger

	queue []Command
}

func NewCastSystem(caster *world.Caster, unit *world.Unit, structures *world.Structures, effects *world.Effects, bus *event.Bus, log *zap.Logger) *CastSystem {
	return &CastSystem{
		caster:     caster,
		unit:       unit,
		structures: structures,
		effects:    effects,
		bus:        bus,
		log:        log,
	}
}

func (s *CastSystem) Phase() coresys.Phase { return coresys.PhaseCast }

// QueueCommand is called by InputSystem for SelectAbility, AimAt, AimRay and ConfirmCast.
func (s *CastSystem) QueueCommand(c Command) {
	s.queue = append(s.queue, c)
}

func (s *CastSystem) Update(t coresys.Tick) {
	for _, cmd := range s.queue {
		switch c := cmd.(type) {
		case SelectAbility:
			s.selectAbility(t, c.Slot)
		case AimAt:
			s.aim(t, c.Point)
		case AimRay:
			s.aimRay(t, c)
		case ConfirmCast:
			s.confirm(t)
		}
	}
	s.queue = s.queue[:0]

	s.caster.Refresh(t.Now)
}

func (s *CastSystem) selectAbility(t coresys.Tick, slot int) {
	if err := s.caster.Select(slot, s.unit.Pos, t.Now); err != nil {
		fields := []zap.Field{zap.Uint64("tick", t.Seq), zap.Int("slot", slot), zap.Error(err)}
		if errors.Is(err, world.ErrOnCooldown) {
			fields = append(fields, zap.Duration("remaining", s.caster.RemainingAt(slot, t.Now)))
		}
		s.log.Debug("ability select ignored", fields...)
		return
	}
	s.log.Debug("targeting", zap.Uint64("tick", t.Seq), zap.Int("slot", slot))
}

func (s *CastSystem) aim(t coresys.Tick, raw geom.Vec3) {
	if _, err := s.caster.Aim(raw, s.unit.Pos); err != nil {
		s.log.Debug("aim ignored", zap.Uint64("tick", t.Seq), zap.Error(err))
	}
}

func (s *CastSystem) aimRay(t coresys.Tick, c AimRay) {
	if !s.caster.Session().Active {
		s.log.Debug("aim ignored", zap.Uint64("tick", t.Seq), zap.Error(world.ErrNotAiming))
		return
	}
	if !s.structures.HasTerrain() {
		s.log.Warn("no terrain registered, aim raycast disabled", zap.Uint64("tick", t.Seq))
		return
	}
	p, ok := s.structures.RaycastTerrain(c.Ray)
	if !ok {
		s.log.Debug("aim raycast missed terrain", zap.Uint64("tick", t.Seq))
		return
	}
	s.aim(t, p)
}

func (s *CastSystem) confirm(t coresys.Tick) {
	cast, err := s.caster.Confirm(s.unit.Pos, t.Now)
	if err != nil {
		s.log.Debug("confirm ignored", zap.Uint64("tick", t.Seq), zap.Error(err))
		return
	}
	fx := s.effects.Spawn(cast)

	event.Emit(s.bus, event.CastCommitted{
		Seq:    t.Seq,
		At:     t.Now,
		Slot:   cast.Ability.Slot,
		Origin: cast.Origin,
		Target: cast.Target,
	})
	event.Emit(s.bus, event.EffectSpawned{
		Seq:    t.Seq,
		Effect: fx.Base().ID,
		Kind:   fx.Kind(),
		Slot:   cast.Ability.Slot,
		At:     fx.Position(),
	})
	s.log.Info("cast",
		zap.Uint64("tick", t.Seq),
		zap.String("ability", cast.Ability.Name),
		zap.String("effect", fx.Kind()),
		zap.Float64("target_x", cast.Target.X),
		zap.Float64("target_z", cast.Target.Z),
	)
}
