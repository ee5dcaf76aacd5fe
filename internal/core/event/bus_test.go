package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventsVisibleNextTick(t *testing.T) {
	b := NewBus()
	var got []StructureDestroyed
	Subscribe(b, func(e StructureDestroyed) { got = append(got, e) })

	Emit(b, StructureDestroyed{Name: "red_tower_1", Seq: 3})
	assert.Equal(t, 1, b.Pending())

	b.DispatchAll()
	assert.Empty(t, got, "emitted events wait for the swap")

	b.SwapBuffers()
	b.DispatchAll()
	assert.Len(t, got, 1)
	assert.Equal(t, "red_tower_1", got[0].Name)
	assert.Zero(t, b.Pending())

	b.SwapBuffers()
	b.DispatchAll()
	assert.Len(t, got, 1, "front buffer is cleared after the next swap")
}

func TestSubscribersOnlySeeTheirType(t *testing.T) {
	b := NewBus()
	damaged, destroyed := 0, 0
	Subscribe(b, func(StructureDamaged) { damaged++ })
	Subscribe(b, func(StructureDestroyed) { destroyed++ })

	Emit(b, StructureDamaged{Amount: 10})
	Emit(b, StructureDamaged{Amount: 10})
	Emit(b, StructureDestroyed{})
	b.SwapBuffers()
	b.DispatchAll()

	assert.Equal(t, 2, damaged)
	assert.Equal(t, 1, destroyed)
}

func TestDispatchKeepsEmitOrderAcrossTypes(t *testing.T) {
	b := NewBus()
	var order []string
	Subscribe(b, func(CastCommitted) { order = append(order, "cast") })
	Subscribe(b, func(e StructureDamaged) { order = append(order, "damaged:"+e.Name) })
	Subscribe(b, func(e StructureDestroyed) { order = append(order, "destroyed:"+e.Name) })

	Emit(b, StructureDamaged{Name: "a"})
	Emit(b, StructureDestroyed{Name: "a"})
	Emit(b, CastCommitted{Slot: 1})
	Emit(b, StructureDamaged{Name: "b"})
	b.SwapBuffers()
	b.DispatchAll()

	assert.Equal(t, []string{"damaged:a", "destroyed:a", "cast", "damaged:b"}, order)
}

func TestHandlersEmittingDuringDispatchWaitForNextSwap(t *testing.T) {
	b := NewBus()
	destroyed := 0
	Subscribe(b, func(e StructureDamaged) {
		if e.Remaining <= 0 {
			Emit(b, StructureDestroyed{Name: e.Name})
		}
	})
	Subscribe(b, func(StructureDestroyed) { destroyed++ })

	Emit(b, StructureDamaged{Name: "a", Remaining: 0})
	b.SwapBuffers()
	b.DispatchAll()
	assert.Zero(t, destroyed)
	assert.Equal(t, 1, b.Pending())

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, 1, destroyed)
}
