package event

import (
	"time"

	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/geom"
)

// StructureDamaged is emitted for every successful ApplyDamage, including the
// final blow.
type StructureDamaged struct {
	Seq       uint64
	At        time.Time
	Structure ecs.EntityID
	Name      string
	Slot      int
	Amount    int
	Remaining int
}

// StructureDestroyed follows the StructureDamaged that brought HP to zero or below.
type StructureDestroyed struct {
	Seq       uint64
	At        time.Time
	Structure ecs.EntityID
	Name      string
	Slot      int
}

type EffectSpawned struct {
	Seq    uint64
	Effect ecs.EntityID
	Kind   string
	Slot   int
	At     geom.Vec3
}

type EffectRetired struct {
	Seq    uint64
	Effect ecs.EntityID
	Kind   string
	Reason string
}

type CastCommitted struct {
	Seq    uint64
	At     time.Time
	Slot   int
	Origin geom.Vec3
	Target geom.Vec3
}
