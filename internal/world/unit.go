package world

import (
	"math"

	"github.com/l1jgo/arena/internal/geom"
)

// MoveOutcome describes what a single Advance did.
type MoveOutcome int

const (
	MoveIdle       MoveOutcome = iota // nothing to do
	MoveStepped                       // moved one step, still travelling
	MoveArrived                       // snapped onto the destination
	MoveOutOfBounds                   // step rejected by the map boundary
	MoveBlocked                       // step rejected by a structure
)

func (o MoveOutcome) String() string {
	switch o {
	case MoveStepped:
		return "stepped"
	case MoveArrived:
		return "arrived"
	case MoveOutOfBounds:
		return "out_of_bounds"
	case MoveBlocked:
		return "blocked"
	default:
		return "idle"
	}
}

// Unit is the player-controlled actor. Motion is horizontal only; Y is pinned
// to GroundY.
type Unit struct {
	Pos     geom.Vec3
	Dest    geom.Vec3
	Speed   float64 // world units per tick
	Radius  float64
	GroundY float64
	Moving  bool
}

func NewUnit(x, z, groundY, speed, radius float64) *Unit {
	p := geom.V(x, groundY, z)
	return &Unit{Pos: p, Dest: p, Speed: speed, Radius: radius, GroundY: groundY}
}

// SetDestination starts or retargets a move. Always accepted.
func (u *Unit) SetDestination(p geom.Vec3) {
	u.Dest = geom.V(p.X, u.GroundY, p.Z)
	u.Moving = true
}

// Stop abandons the destination.
func (u *Unit) Stop() {
	u.Dest = u.Pos
	u.Moving = false
}

// BoundsAt returns the unit's collision box if it stood at p.
func (u *Unit) BoundsAt(p geom.Vec3) geom.Box {
	return geom.BoxFromSphere(p, u.Radius)
}

// Advance runs one tick of the Idle/Moving state machine. The boundary guard
// runs before blocked; a rejected step leaves Pos untouched and abandons the
// destination.
func (u *Unit) Advance(halfExtent, arriveEps float64, blocked func(geom.Box) bool) MoveOutcome {
	defer u.pin()
	if !u.Moving {
		return MoveIdle
	}

	delta := u.Dest.Sub(u.Pos).Horizontal()
	dist := delta.Len()
	if dist <= arriveEps {
		u.Pos = geom.V(u.Dest.X, u.GroundY, u.Dest.Z)
		u.Moving = false
		return MoveArrived
	}

	step := delta.Normalize().Scale(math.Min(u.Speed, dist))
	next := u.Pos.Add(step)
	next.Y = u.GroundY

	limit := halfExtent - u.Radius
	if math.Abs(next.X) > limit || math.Abs(next.Z) > limit {
		u.Stop()
		return MoveOutOfBounds
	}
	if blocked != nil && blocked(u.BoundsAt(next)) {
		u.Stop()
		return MoveBlocked
	}
	u.Pos = next
	return MoveStepped
}

func (u *Unit) pin() {
	u.Pos.Y = u.GroundY
	if !u.Moving {
		u.Dest = u.Pos
	}
}
