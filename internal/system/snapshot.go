package system

import (
	"fmt"
	"io"
	"time"

	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/geom"
	"github.com/l1jgo/arena/internal/world"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// Snapshot is the read-only view handed to the display each tick.
type Snapshot struct {
	Seq        uint64          `msgpack:"seq"`
	At         time.Time       `msgpack:"at"`
	Unit       UnitView        `msgpack:"unit"`
	Targeting  TargetingView   `msgpack:"targeting"`
	Cooldowns  map[int]int64   `msgpack:"cooldowns"` // slot -> ms remaining
	Effects    []EffectView    `msgpack:"effects"`
	Structures []StructureView `msgpack:"structures"`
}

type UnitView struct {
	Pos    geom.Vec3 `msgpack:"pos"`
	Dest   geom.Vec3 `msgpack:"dest"`
	Radius float64   `msgpack:"radius"`
	Moving bool      `msgpack:"moving"`
}

// TargetingView carries the aim marker and the range indicator.
type TargetingView struct {
	Active      bool      `msgpack:"active"`
	Slot        int       `msgpack:"slot"`
	Marker      geom.Vec3 `msgpack:"marker"`
	RangeCenter geom.Vec3 `msgpack:"range_center"`
	Range       float64   `msgpack:"range"`
}

type EffectView struct {
	ID     uint64    `msgpack:"id"`
	Kind   string    `msgpack:"kind"`
	Slot   int       `msgpack:"slot"`
	Color  uint32    `msgpack:"color"`
	Pos    geom.Vec3 `msgpack:"pos"`
	Start  geom.Vec3 `msgpack:"start,omitempty"`
	Mid    geom.Vec3 `msgpack:"mid,omitempty"`
	End    geom.Vec3 `msgpack:"end,omitempty"`
	Radius float64   `msgpack:"radius"`
}

type StructureView struct {
	ID      uint64   `msgpack:"id"`
	Name    string   `msgpack:"name"`
	Team    string   `msgpack:"team"`
	Terrain bool     `msgpack:"terrain"`
	Box     geom.Box `msgpack:"box"`
	HP      int      `msgpack:"hp"`
	MaxHP   int      `msgpack:"max_hp"`
}

// Encode writes s as one msgpack frame.
func (s *Snapshot) Encode(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(s)
}

// DecodeSnapshot reads one msgpack frame.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

// SnapshotSystem builds the display snapshot at the end of the simulation
// phases and forwards it to an optional frame sink. Phase 5 (Output).
type SnapshotSystem struct {
	unit       *world.Unit
	caster     *world.Caster
	effects    *world.Effects
	structures *world.Structures
	frames     io.Writer // nil = no frame log
	log        *zap.Logger

	latest Snapshot
}

func NewSnapshotSystem(unit *world.Unit, caster *world.Caster, effects *world.Effects, structures *world.Structures, frames io.Writer, log *zap.Logger) *SnapshotSystem {
	return &SnapshotSystem{
		unit:       unit,
		caster:     caster,
		effects:    effects,
		structures: structures,
		frames:     frames,
		log:        log,
	}
}

func (s *SnapshotSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

// Latest returns the snapshot built by the last tick.
func (s *SnapshotSystem) Latest() Snapshot { return s.latest }

func (s *SnapshotSystem) Update(t coresys.Tick) {
	s.latest = s.build(t)
	if s.frames == nil {
		return
	}
	if err := s.latest.Encode(s.frames); err != nil {
		s.log.Warn("frame log write failed, disabling", zap.Error(err))
		s.frames = nil
	}
}

func (s *SnapshotSystem) build(t coresys.Tick) Snapshot {
	snap := Snapshot{
		Seq: t.Seq,
		At:  t.Now,
		Unit: UnitView{
			Pos:    s.unit.Pos,
			Dest:   s.unit.Dest,
			Radius: s.unit.Radius,
			Moving: s.unit.Moving,
		},
		Cooldowns:  s.caster.CooldownMillis(),
		Effects:    make([]EffectView, 0, s.effects.Len()),
		Structures: make([]StructureView, 0, s.structures.Len()),
	}

	if sess := s.caster.Session(); sess.Active {
		snap.Targeting = TargetingView{
			Active:      true,
			Slot:        sess.Slot,
			Marker:      sess.Marker,
			RangeCenter: s.unit.Pos,
			Range:       s.caster.Abilities().Get(sess.Slot).Range,
		}
	}

	s.effects.Each(func(fx world.Effect) {
		b := fx.Base()
		v := EffectView{ID: uint64(b.ID), Kind: fx.Kind(), Slot: b.Slot, Color: b.Color, Pos: fx.Position()}
		switch e := fx.(type) {
		case *world.Projectile:
			v.Radius = e.Radius
		case *world.Beam:
			v.Start, v.Mid, v.End = e.Start, e.Mid, e.End
		case *world.Cloud:
			v.Radius = e.Radius()
		}
		snap.Effects = append(snap.Effects, v)
	})

	s.structures.Each(func(st *world.Structure) {
		snap.Structures = append(snap.Structures, StructureView{
			ID:      uint64(st.ID),
			Name:    st.Name,
			Team:    st.Team.String(),
			Terrain: st.Terrain,
			Box:     st.Footprint,
			HP:      st.HP,
			MaxHP:   st.MaxHP,
		})
	})
	return snap
}
