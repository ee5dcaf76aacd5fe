package system

import (
	"math"

	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/scripting"
	"github.com/l1jgo/arena/internal/world"
	"go.uber.org/zap"
)

// Retire reasons carried by EffectRetired.
const (
	RetireHit         = "hit"
	RetireOutOfBounds = "out_of_bounds"
	RetireExpired     = "expired"
	RetireInvariant   = "invariant"
)

// EffectSystem advances every live effect and is the only caller of
// Structures.ApplyDamage. Phase 4 (Effects).
type EffectSystem struct {
	effects    *world.Effects
	structures *world.Structures
	scripts    *scripting.Engine // nil = catalog damage
	bus        *event.Bus
	halfExtent float64
	log        *zap.Logger
}

func NewEffectSystem(effects *world.Effects, structures *world.Structures, scripts *scripting.Engine, bus *event.Bus, halfExtent float64, log *zap.Logger) *EffectSystem {
	return &EffectSystem{
		effects:    effects,
		structures: structures,
		scripts:    scripts,
		bus:        bus,
		halfExtent: halfExtent,
		log:        log,
	}
}

func (s *EffectSystem) Phase() coresys.Phase { return coresys.PhaseEffects }

func (s *EffectSystem) Update(t coresys.Tick) {
	// Backwards so RemoveAt leaves unvisited indices in place.
	for i := s.effects.Len() - 1; i >= 0; i-- {
		fx := s.effects.At(i)
		var reason string
		switch e := fx.(type) {
		case *world.Projectile:
			reason = s.advanceProjectile(t, e)
		case *world.Beam:
			reason = s.advanceBeam(t, e)
		case *world.Cloud:
			reason = s.advanceCloud(t, e)
		default:
			s.log.Error("unknown effect variant",
				zap.String("invariant", "closed effect set"),
				zap.Stringer("effect", fx.Base().ID),
			)
			reason = RetireInvariant
		}
		if reason != "" {
			s.retire(t, i, fx, reason)
		}
	}
}

// advanceProjectile moves p one step. A projectile without velocity breaks the
// spawn invariant; rather than skipping it every tick forever it is retired
// on the tick it is found.
func (s *EffectSystem) advanceProjectile(t coresys.Tick, p *world.Projectile) string {
	if p.Vel.IsZero() || !p.Vel.IsFinite() {
		s.log.Error("projectile has no usable velocity",
			zap.String("invariant", "projectile velocity set at spawn"),
			zap.Stringer("effect", p.ID),
			zap.Int("slot", p.Slot),
		)
		return RetireInvariant
	}
	p.Pos = p.Pos.Add(p.Vel)

	if hits := s.structures.QueryIntersecting(p.Bounds()); len(hits) > 0 {
		s.damage(t, &p.EffectBase, hits[0])
		return RetireHit
	}
	// written as !(<=) so a NaN position also counts as outside
	if !(math.Abs(p.Pos.X) <= s.halfExtent) || !(math.Abs(p.Pos.Z) <= s.halfExtent) {
		return RetireOutOfBounds
	}
	return ""
}

func (s *EffectSystem) advanceBeam(t coresys.Tick, b *world.Beam) string {
	if !b.Resolved {
		b.Resolved = true
		if hits := s.structures.QueryContainingPoint(b.End); len(hits) > 0 {
			s.damage(t, &b.EffectBase, hits[0])
		}
	}
	if b.Age(t.Now) >= b.Lifetime {
		return RetireExpired
	}
	return ""
}

func (s *EffectSystem) advanceCloud(t coresys.Tick, c *world.Cloud) string {
	c.Grow()
	if c.Age(t.Now) >= c.Lifetime {
		return RetireExpired
	}
	for _, st := range s.structures.QueryWithinSphere(c.Sphere()) {
		s.damage(t, &c.EffectBase, st)
	}
	return ""
}

func (s *EffectSystem) damage(t coresys.Tick, fx *world.EffectBase, st *world.Structure) {
	amount := s.scripts.CalcEffectDamage(scripting.DamageContext{
		Slot:      fx.Slot,
		Archetype: fx.Archetype.String(),
		Base:      fx.Damage,
		TargetHP:  st.HP,
		TargetMax: st.MaxHP,
		Team:      st.Team.String(),
	})
	res := s.structures.ApplyDamage(st.ID, amount)
	if !res.Applied {
		return
	}

	event.Emit(s.bus, event.StructureDamaged{
		Seq:       t.Seq,
		At:        t.Now,
		Structure: st.ID,
		Name:      res.Name,
		Slot:      fx.Slot,
		Amount:    amount,
		Remaining: res.Remaining,
	})
	s.log.Debug("structure damaged",
		zap.Uint64("tick", t.Seq),
		zap.String("structure", res.Name),
		zap.Int("amount", amount),
		zap.Int("remaining", res.Remaining),
	)

	if res.Destroyed {
		event.Emit(s.bus, event.StructureDestroyed{
			Seq:       t.Seq,
			At:        t.Now,
			Structure: st.ID,
			Name:      res.Name,
			Slot:      fx.Slot,
		})
		s.log.Info("structure destroyed",
			zap.Uint64("tick", t.Seq),
			zap.String("structure", res.Name),
			zap.Stringer("team", st.Team),
			zap.Int("slot", fx.Slot),
		)
	}
}

func (s *EffectSystem) retire(t coresys.Tick, i int, fx world.Effect, reason string) {
	id := fx.Base().ID
	s.effects.RemoveAt(i)
	event.Emit(s.bus, event.EffectRetired{
		Seq:    t.Seq,
		Effect: id,
		Kind:   fx.Kind(),
		Reason: reason,
	})
}
