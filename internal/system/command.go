package system

import "github.com/l1jgo/arena/internal/geom"

// Command is a discrete input fed through the per-tick command queue.
// Implementations: MoveTo, SelectAbility, AimAt, AimRay, ConfirmCast.
type Command interface {
	commandName() string
}

// MoveTo orders the unit toward a ground point.
type MoveTo struct {
	Point geom.Vec3
}

// SelectAbility opens a targeting session for a slot (1-4).
type SelectAbility struct {
	Slot int
}

// AimAt moves the aim point to a world-space point already on the ground.
type AimAt struct {
	Point geom.Vec3
}

// AimRay moves the aim point to where the pointer ray meets the terrain.
type AimRay struct {
	Ray geom.Ray
}

// ConfirmCast commits the open targeting session.
type ConfirmCast struct{}

func (MoveTo) commandName() string        { return "move_to" }
func (SelectAbility) commandName() string { return "select_ability" }
func (AimAt) commandName() string         { return "aim_at" }
func (AimRay) commandName() string        { return "aim_ray" }
func (ConfirmCast) commandName() string   { return "confirm_cast" }

// CommandName returns the wire name of c, used in logs and command scripts.
func CommandName(c Command) string { return c.commandName() }
