package world

import (
	"errors"
	"time"

	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/geom"
)

var (
	ErrUnknownSlot = errors.New("no ability in slot")
	ErrOnCooldown  = errors.New("ability on cooldown")
	ErrNotAiming   = errors.New("no targeting session")
	ErrInvalidAim  = errors.New("aim point not finite")
)

// TargetingSession is the aiming state between SelectAbility and ConfirmCast.
type TargetingSession struct {
	Active bool
	Slot   int
	Aim    geom.Vec3 // clamped to the ability's range
	Marker geom.Vec3 // Aim lifted to the marker height
}

// Cast is a committed ability use, handed to the effect simulator.
type Cast struct {
	Ability *data.AbilityInfo
	Origin  geom.Vec3
	Target  geom.Vec3
	At      time.Time
}

// Caster holds per-slot cooldown clocks and the single targeting session.
type Caster struct {
	abilities    *data.AbilityTable
	markerHeight float64

	lastCast  [data.SlotCount + 1]time.Time // zero = never cast
	remaining [data.SlotCount + 1]time.Duration
	session   TargetingSession
}

func NewCaster(abilities *data.AbilityTable, markerHeight float64) *Caster {
	return &Caster{abilities: abilities, markerHeight: markerHeight}
}

func (c *Caster) Abilities() *data.AbilityTable { return c.abilities }

// Session returns a copy of the current targeting session.
func (c *Caster) Session() TargetingSession { return c.session }

// LastCast returns when slot was last confirmed; zero if never.
func (c *Caster) LastCast(slot int) time.Time {
	if slot < 1 || slot > data.SlotCount {
		return time.Time{}
	}
	return c.lastCast[slot]
}

// RemainingAt returns max(0, cooldown - (now - lastCast)).
func (c *Caster) RemainingAt(slot int, now time.Time) time.Duration {
	a := c.abilities.Get(slot)
	if a == nil || a.Cooldown <= 0 || c.lastCast[slot].IsZero() {
		return 0
	}
	left := a.Cooldown - now.Sub(c.lastCast[slot])
	if left < 0 {
		return 0
	}
	return left
}

// Select opens a targeting session for slot, seeded at the unit position.
// An open session for another slot is replaced.
func (c *Caster) Select(slot int, unitPos geom.Vec3, now time.Time) error {
	if c.abilities.Get(slot) == nil {
		return ErrUnknownSlot
	}
	if c.RemainingAt(slot, now) > 0 {
		return ErrOnCooldown
	}
	c.session = TargetingSession{
		Active: true,
		Slot:   slot,
		Aim:    unitPos,
		Marker: c.marker(unitPos),
	}
	return nil
}

// Aim moves the aim point to raw, clamped to the ability's range from the
// unit. Returns the clamped point. A non-finite raw point leaves the session
// untouched.
func (c *Caster) Aim(raw, unitPos geom.Vec3) (geom.Vec3, error) {
	if !c.session.Active {
		return geom.Vec3{}, ErrNotAiming
	}
	if !raw.IsFinite() {
		return geom.Vec3{}, ErrInvalidAim
	}
	a := c.abilities.Get(c.session.Slot)
	p := geom.ClampDistance(unitPos, raw, a.Range)
	c.session.Aim = p
	c.session.Marker = c.marker(p)
	return p, nil
}

// Confirm commits the open session. Cooldown is not re-checked here: it was
// checked when the session opened.
func (c *Caster) Confirm(unitPos geom.Vec3, now time.Time) (Cast, error) {
	if !c.session.Active {
		return Cast{}, ErrNotAiming
	}
	a := c.abilities.Get(c.session.Slot)
	target := geom.ClampDistance(unitPos, c.session.Aim, a.Range)

	c.lastCast[a.Slot] = now
	c.remaining[a.Slot] = a.Cooldown
	c.session = TargetingSession{}
	return Cast{Ability: a, Origin: unitPos, Target: target, At: now}, nil
}

// Refresh recomputes every slot's remaining cooldown for this tick.
func (c *Caster) Refresh(now time.Time) {
	for slot := 1; slot <= data.SlotCount; slot++ {
		c.remaining[slot] = c.RemainingAt(slot, now)
	}
}

// Remaining returns the value computed by the last Refresh or Confirm.
func (c *Caster) Remaining(slot int) time.Duration {
	if slot < 1 || slot > data.SlotCount {
		return 0
	}
	return c.remaining[slot]
}

// CooldownMillis maps slot to milliseconds remaining, for the display.
func (c *Caster) CooldownMillis() map[int]int64 {
	out := make(map[int]int64, data.SlotCount)
	for slot := 1; slot <= data.SlotCount; slot++ {
		out[slot] = c.remaining[slot].Milliseconds()
	}
	return out
}

func (c *Caster) marker(p geom.Vec3) geom.Vec3 {
	return geom.V(p.X, c.markerHeight, p.Z)
}
