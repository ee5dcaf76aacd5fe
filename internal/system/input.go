package system

import (
	coresys "github.com/l1jgo/arena/internal/core/system"
	"go.uber.org/zap"
)

// InputSystem drains the command queue and routes each command to the
// system that owns it. Phase 0 (Input).
type InputSystem struct {
	commands   <-chan Command
	maxPerTick int
	movement   *MovementSystem
	cast       *CastSystem
	log        *zap.Logger
}

func NewInputSystem(commands <-chan Command, maxPerTick int, movement *MovementSystem, cast *CastSystem, log *zap.Logger) *InputSystem {
	return &InputSystem{
		commands:   commands,
		maxPerTick: maxPerTick,
		movement:   movement,
		cast:       cast,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(t coresys.Tick) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case cmd := <-s.commands:
			s.route(cmd)
		default:
			return
		}
	}
	if n := len(s.commands); n > 0 {
		s.log.Debug("command backlog carried to next tick", zap.Uint64("tick", t.Seq), zap.Int("pending", n))
	}
}

func (s *InputSystem) route(cmd Command) {
	switch c := cmd.(type) {
	case MoveTo:
		if !s.movement.QueueMove(c.Point) {
			s.log.Debug("move ignored, destination not finite",
				zap.Float64("x", c.Point.X),
				zap.Float64("z", c.Point.Z),
			)
		}
	case SelectAbility, AimAt, AimRay, ConfirmCast:
		s.cast.QueueCommand(c)
	default:
		s.log.Debug("unknown command ignored", zap.Any("command", cmd))
	}
}
