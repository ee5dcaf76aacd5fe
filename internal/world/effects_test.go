package world

import (
	"math/rand"
	"testing"
	"time"

	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnFor(t *testing.T, slot int, target geom.Vec3) (*Effects, Effect) {
	t.Helper()
	tbl, err := data.LoadAbilityTable("")
	require.NoError(t, err)
	fx := NewEffects(ecs.NewWorld(), rand.New(rand.NewSource(1)))
	e := fx.Spawn(Cast{Ability: tbl.Get(slot), Origin: unitPos, Target: target, At: t0})
	return fx, e
}

func TestSpawnProjectile(t *testing.T) {
	fx, e := spawnFor(t, 1, geom.V(100, 20, 60))
	p, ok := e.(*Projectile)
	require.True(t, ok)
	assert.Equal(t, "direct_hit", p.Kind())
	assert.Equal(t, unitPos, p.Pos)
	assert.Equal(t, geom.V(20, 0, 0), p.Vel)
	assert.Equal(t, 10, p.Damage)
	assert.Equal(t, t0, p.CreatedAt)
	assert.False(t, p.ID.IsZero())
	assert.Equal(t, 1, fx.Len())
}

func TestSpawnBeam(t *testing.T) {
	_, e := spawnFor(t, 3, geom.V(300, 20, 60))
	b, ok := e.(*Beam)
	require.True(t, ok)
	assert.Equal(t, unitPos, b.Start)
	assert.Equal(t, geom.V(300, 20, 60), b.End)
	assert.Equal(t, 100*time.Millisecond, b.Lifetime)
	mid := unitPos.Lerp(b.End, 0.5)
	assert.InDelta(t, mid.X, b.Mid.X, 25)
	assert.InDelta(t, mid.Y, b.Mid.Y, 25)
	assert.InDelta(t, mid.Z, b.Mid.Z, 25)
	assert.False(t, b.Resolved)
}

func TestSpawnCloudGrowsToCap(t *testing.T) {
	_, e := spawnFor(t, 4, geom.V(200, 20, 60))
	c, ok := e.(*Cloud)
	require.True(t, ok)
	assert.Equal(t, geom.V(200, 20, 60), c.Center)
	assert.Equal(t, 15.0, c.Radius())
	for i := 0; i < 100; i++ {
		c.Grow()
	}
	assert.Equal(t, 2.0, c.Size)
	assert.Equal(t, 30.0, c.Sphere().Radius)
}

func TestRemoveAtWalkingBackwards(t *testing.T) {
	tbl, err := data.LoadAbilityTable("")
	require.NoError(t, err)
	w := ecs.NewWorld()
	fx := NewEffects(w, nil)
	var ids []ecs.EntityID
	for i := 0; i < 5; i++ {
		e := fx.Spawn(Cast{Ability: tbl.Get(1), Origin: unitPos, Target: geom.V(float64(i+1), 20, 60), At: t0})
		ids = append(ids, e.Base().ID)
	}
	for i := fx.Len() - 1; i >= 0; i-- {
		if i%2 == 0 {
			fx.RemoveAt(i)
		}
	}
	require.Equal(t, 2, fx.Len())
	assert.Equal(t, ids[1], fx.At(0).Base().ID)
	assert.Equal(t, ids[3], fx.At(1).Base().ID)
	assert.False(t, w.Alive(ids[0]))
	assert.True(t, w.Alive(ids[1]))
}
