package world

import (
	"math/rand"
	"time"

	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/geom"
)

// Effect is one live consequence of a cast. The set of implementations is
// closed: *Projectile, *Beam and *Cloud.
type Effect interface {
	Base() *EffectBase
	Kind() string
	Position() geom.Vec3
	isEffect()
}

// EffectBase holds the fields every variant carries.
type EffectBase struct {
	ID        ecs.EntityID
	Slot      int
	Archetype data.Archetype
	Damage    int
	CreatedAt time.Time
	Color     uint32
}

func (b *EffectBase) Base() *EffectBase { return b }

// Age returns how long the effect has been alive at now.
func (b *EffectBase) Age(now time.Time) time.Duration { return now.Sub(b.CreatedAt) }

// Projectile travels at a fixed velocity until it hits a structure or
// leaves the map. Direct-hit and generic archetypes share it.
type Projectile struct {
	EffectBase
	Pos    geom.Vec3
	Vel    geom.Vec3 // per tick
	Radius float64
}

func (p *Projectile) Kind() string        { return p.Archetype.String() }
func (p *Projectile) Position() geom.Vec3 { return p.Pos }
func (p *Projectile) isEffect()           {}

// Bounds is the projectile's collision box at its current position.
func (p *Projectile) Bounds() geom.Box { return geom.BoxFromSphere(p.Pos, p.Radius) }

// Beam is an instant strike. Damage resolves once at End; the beam then
// lingers until Lifetime elapses.
type Beam struct {
	EffectBase
	Start    geom.Vec3
	Mid      geom.Vec3 // jittered midpoint, visual only
	End      geom.Vec3
	Lifetime time.Duration
	Resolved bool
}

func (b *Beam) Kind() string        { return "beam" }
func (b *Beam) Position() geom.Vec3 { return b.End }
func (b *Beam) isEffect()           {}

// Cloud is a stationary expanding area that damages everything inside it
// every tick until it expires.
type Cloud struct {
	EffectBase
	Center     geom.Vec3
	Size       float64 // radius multiplier, starts at 1
	Growth     float64 // added to Size per tick
	MaxSize    float64
	BaseRadius float64
	Lifetime   time.Duration
}

func (c *Cloud) Kind() string        { return "cloud" }
func (c *Cloud) Position() geom.Vec3 { return c.Center }
func (c *Cloud) isEffect()           {}

// Radius is the current damage radius.
func (c *Cloud) Radius() float64 { return c.Size * c.BaseRadius }

// Grow adds one tick of growth, capped at MaxSize.
func (c *Cloud) Grow() {
	c.Size += c.Growth
	if c.Size > c.MaxSize {
		c.Size = c.MaxSize
	}
}

// Sphere returns the current damage volume.
func (c *Cloud) Sphere() geom.Sphere { return geom.Sphere{Center: c.Center, Radius: c.Radius()} }

// Effects owns the live effect list in spawn order.
type Effects struct {
	world *ecs.World
	rng   *rand.Rand
	live  []Effect
}

func NewEffects(w *ecs.World, rng *rand.Rand) *Effects {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Effects{world: w, rng: rng, live: make([]Effect, 0, 16)}
}

// Spawn creates the effect for a committed cast.
func (e *Effects) Spawn(c Cast) Effect {
	a := c.Ability
	base := EffectBase{
		ID:        e.world.CreateEntity(),
		Slot:      a.Slot,
		Archetype: a.Archetype,
		Damage:    a.Damage,
		CreatedAt: c.At,
		Color:     a.Color,
	}

	var fx Effect
	switch a.Archetype {
	case data.ArchetypeBeam:
		mid := c.Origin.Lerp(c.Target, 0.5)
		if a.BeamJitter > 0 {
			mid = mid.Add(geom.V(e.jitter(a.BeamJitter), e.jitter(a.BeamJitter), e.jitter(a.BeamJitter)))
		}
		fx = &Beam{EffectBase: base, Start: c.Origin, Mid: mid, End: c.Target, Lifetime: a.BeamLifetime}
	case data.ArchetypeCloud:
		fx = &Cloud{
			EffectBase: base,
			Center:     c.Target,
			Size:       1,
			Growth:     a.CloudGrowth,
			MaxSize:    a.CloudMaxSize,
			BaseRadius: a.CloudRadius,
			Lifetime:   a.CloudLifetime,
		}
	default:
		dir := c.Target.Sub(c.Origin).Normalize()
		fx = &Projectile{
			EffectBase: base,
			Pos:        c.Origin,
			Vel:        dir.Scale(a.ProjectileSpeed),
			Radius:     a.ProjectileRadius,
		}
	}
	e.live = append(e.live, fx)
	return fx
}

// jitter returns a uniform offset in [-width/2, width/2).
func (e *Effects) jitter(width float64) float64 {
	return (e.rng.Float64() - 0.5) * width
}

func (e *Effects) Len() int { return len(e.live) }

// At returns the i-th live effect in spawn order.
func (e *Effects) At(i int) Effect { return e.live[i] }

// RemoveAt retires the i-th effect. Safe while walking the list backwards.
func (e *Effects) RemoveAt(i int) {
	fx := e.live[i]
	e.live = append(e.live[:i], e.live[i+1:]...)
	e.world.Destroy(fx.Base().ID)
}

// Each visits live effects in spawn order.
func (e *Effects) Each(fn func(Effect)) {
	for _, fx := range e.live {
		fn(fx)
	}
}
