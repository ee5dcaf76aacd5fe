package world

import (
	"testing"

	"github.com/l1jgo/arena/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testHalfExtent = 10000
	testEps        = 1
)

func TestUnitArrives(t *testing.T) {
	u := NewUnit(0, 60, 20, 2, 20)
	u.SetDestination(geom.V(5, 999, 60))
	assert.Equal(t, 20.0, u.Dest.Y, "destination is pinned to the ground")

	assert.Equal(t, MoveStepped, u.Advance(testHalfExtent, testEps, nil))
	assert.InDelta(t, 2.0, u.Pos.X, 1e-9)
	assert.Equal(t, MoveStepped, u.Advance(testHalfExtent, testEps, nil))
	assert.Equal(t, MoveArrived, u.Advance(testHalfExtent, testEps, nil), "1 unit left snaps")
	assert.Equal(t, geom.V(5, 20, 60), u.Pos)
	assert.False(t, u.Moving)
	assert.Equal(t, MoveIdle, u.Advance(testHalfExtent, testEps, nil))
}

func TestUnitLastStepIsShort(t *testing.T) {
	u := NewUnit(0, 0, 20, 10, 5)
	u.SetDestination(geom.V(13, 0, 0))
	u.Advance(testHalfExtent, testEps, nil)
	u.Advance(testHalfExtent, testEps, nil)
	assert.Equal(t, 13.0, u.Pos.X, "step is min(speed, remaining)")
}

func TestUnitBoundaryGuard(t *testing.T) {
	u := NewUnit(975, 0, 20, 10, 20)
	u.SetDestination(geom.V(2000, 0, 0))
	blockedCalled := false
	out := u.Advance(1000, testEps, func(geom.Box) bool {
		blockedCalled = true
		return false
	})
	assert.Equal(t, MoveOutOfBounds, out)
	assert.False(t, blockedCalled, "boundary runs before collision")
	assert.Equal(t, 975.0, u.Pos.X, "no partial step")
	assert.False(t, u.Moving)
	assert.Equal(t, u.Pos, u.Dest, "destination abandoned, not clamped")
}

func TestUnitCollisionGuard(t *testing.T) {
	s, _ := newTestStructures(t, tower("wall", 100, 0, 50))
	blocked := func(b geom.Box) bool { return len(s.QueryIntersecting(b)) > 0 }

	u := NewUnit(0, 0, 20, 7, 20)
	u.SetDestination(geom.V(100, 0, 0))
	wall, _ := s.Lookup("wall")

	var last MoveOutcome
	for i := 0; i < 50 && u.Moving; i++ {
		last = u.Advance(testHalfExtent, testEps, blocked)
		require.False(t, u.BoundsAt(u.Pos).Intersects(wall.Footprint), "tick %d entered the wall", i)
	}
	assert.Equal(t, MoveBlocked, last)
	assert.False(t, u.Moving)
	assert.Less(t, u.Pos.X, 100.0)
}

func TestUnitIgnoresTerrainForCollision(t *testing.T) {
	s, _ := newTestStructures(t, floor())
	blocked := func(b geom.Box) bool { return len(s.QueryIntersecting(b)) > 0 }
	u := NewUnit(0, 0, 20, 5, 20)
	u.SetDestination(geom.V(50, 0, 0))
	assert.Equal(t, MoveStepped, u.Advance(testHalfExtent, testEps, blocked))
}

func TestUnitRepinsY(t *testing.T) {
	u := NewUnit(0, 0, 20, 5, 20)
	u.Pos.Y = 33
	u.Advance(testHalfExtent, testEps, nil)
	assert.Equal(t, 20.0, u.Pos.Y)
}
