package system

import (
	"bytes"
	"testing"
	"time"

	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/geom"
	"github.com/l1jgo/arena/internal/persist"
	"github.com/l1jgo/arena/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	structures *world.Structures
	unit       *world.Unit
	caster     *world.Caster
	effects    *world.Effects
	bus        *event.Bus
	movement   *MovementSystem
	cast       *CastSystem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tbl, err := data.LoadAbilityTable("")
	require.NoError(t, err)
	w := ecs.NewWorld()
	f := &fixture{
		structures: world.NewStructures(w, 1000),
		unit:       world.NewUnit(0, 60, 20, 2, 20),
		caster:     world.NewCaster(tbl, 1),
		effects:    world.NewEffects(w, nil),
		bus:        event.NewBus(),
	}
	log := zap.NewNop()
	f.movement = NewMovementSystem(f.unit, f.structures, f.caster, 10000, 1, log)
	f.cast = NewCastSystem(f.caster, f.unit, f.structures, f.effects, f.bus, log)
	return f
}

func TestInputRespectsPerTickLimit(t *testing.T) {
	f := newFixture(t)
	cmds := make(chan Command, 16)
	in := NewInputSystem(cmds, 2, f.movement, f.cast, zap.NewNop())

	for i := 0; i < 5; i++ {
		cmds <- MoveTo{Point: geom.V(float64(i), 0, 0)}
	}
	in.Update(coresys.Tick{Seq: 1})
	assert.Len(t, f.movement.moves, 2)
	assert.Len(t, cmds, 3)

	cmds <- ConfirmCast{}
	in.Update(coresys.Tick{Seq: 2})
	assert.Len(t, f.movement.moves, 4)
	assert.Len(t, f.cast.queue, 0, "confirm still waiting behind the backlog")
}

func TestCastQueueDrainsInOrder(t *testing.T) {
	f := newFixture(t)
	now := time.Unix(100, 0)
	f.cast.QueueCommand(SelectAbility{Slot: 1})
	f.cast.QueueCommand(AimAt{Point: geom.V(100, 20, 60)})
	f.cast.QueueCommand(ConfirmCast{})
	f.cast.Update(coresys.Tick{Seq: 1, Now: now})

	assert.Equal(t, 1, f.effects.Len())
	assert.False(t, f.caster.Session().Active)
	assert.Equal(t, 2, f.bus.Pending(), "cast committed and effect spawned")
	assert.Empty(t, f.cast.queue)
}

type fullSink struct{ calls int }

func (s *fullSink) Submit([]persist.CombatEvent) bool {
	s.calls++
	return false
}

func TestCombatLogDropsWhenWriterIsFull(t *testing.T) {
	bus := event.NewBus()
	sink := &fullSink{}
	cl := NewCombatLogSystem(bus, sink, 2, zap.NewNop())

	event.Emit(bus, event.StructureDamaged{Seq: 1, Name: "a", Amount: 5, Remaining: 5})
	event.Emit(bus, event.StructureDestroyed{Seq: 1, Name: "a"})
	bus.SwapBuffers()
	bus.DispatchAll()
	assert.Equal(t, 2, cl.Pending())

	cl.Update(coresys.Tick{Seq: 1})
	assert.Zero(t, sink.calls, "not a flush tick")
	cl.Update(coresys.Tick{Seq: 2})
	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, 2, cl.Dropped())
	assert.Zero(t, cl.Pending())
}

func TestSnapshotEncodeDecode(t *testing.T) {
	f := newFixture(t)
	_, err := f.structures.Add(data.StructurePlacement{
		Name:      "red_tower_1",
		Team:      data.TeamRed,
		Footprint: geom.BoxFromCylinder(geom.V(500, 150, 500), 60, 300),
		HP:        100,
	})
	require.NoError(t, err)
	require.NoError(t, f.caster.Select(4, f.unit.Pos, time.Unix(0, 0)))

	var buf bytes.Buffer
	snaps := NewSnapshotSystem(f.unit, f.caster, f.effects, f.structures, &buf, zap.NewNop())
	snaps.Update(coresys.Tick{Seq: 9, Now: time.Unix(5, 0)})

	got, err := DecodeSnapshot(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), got.Seq)
	assert.True(t, got.Targeting.Active)
	assert.Equal(t, 500.0, got.Targeting.Range)
	require.Len(t, got.Structures, 1)
	assert.Equal(t, "red", got.Structures[0].Team)
	assert.Equal(t, geom.V(440, 0, 440), got.Structures[0].Box.Min)
	assert.Len(t, got.Cooldowns, data.SlotCount)
}
