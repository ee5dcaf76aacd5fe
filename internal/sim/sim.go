// Package sim wires the arena simulation: world state, the phased runner
// and the command queue that input producers feed.
package sim

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/l1jgo/arena/internal/config"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/scripting"
	"github.com/l1jgo/arena/internal/system"
	"github.com/l1jgo/arena/internal/world"
	"go.uber.org/zap"
)

// Options carries the optional collaborators. Zero values disable them.
type Options struct {
	Scripts   *scripting.Engine     // damage hook; nil = catalog damage
	CombatLog system.BatchSubmitter // nil = no combat log
	Frames    io.Writer             // msgpack frame log; nil = none
	Rand      *rand.Rand            // beam jitter; nil = time-seeded
}

// Simulation owns every piece of simulation state. All methods except
// Enqueue must be called from the tick goroutine.
type Simulation struct {
	cfg *config.Config
	log *zap.Logger

	world      *ecs.World
	bus        *event.Bus
	runner     *coresys.Runner
	structures *world.Structures
	unit       *world.Unit
	caster     *world.Caster
	effects    *world.Effects

	commands  chan system.Command
	snapshots *system.SnapshotSystem
	combatLog *system.CombatLogSystem
}

func New(cfg *config.Config, abilities *data.AbilityTable, layout *data.Layout, opts Options, log *zap.Logger) (*Simulation, error) {
	w := ecs.NewWorld()
	structures := world.NewStructures(w, cfg.Simulation.GridCellSize)
	if err := structures.AddLayout(layout); err != nil {
		return nil, fmt.Errorf("build arena: %w", err)
	}
	if !structures.HasTerrain() {
		log.Warn("layout has no terrain, aim raycasts will be ignored")
	}

	s := &Simulation{
		cfg:        cfg,
		log:        log,
		world:      w,
		bus:        event.NewBus(),
		runner:     coresys.NewRunner(),
		structures: structures,
		unit:       world.NewUnit(cfg.Unit.StartX, cfg.Unit.StartZ, cfg.Unit.GroundY, cfg.Unit.Speed, cfg.Unit.Radius),
		caster:     world.NewCaster(abilities, cfg.Simulation.MarkerHeight),
		effects:    world.NewEffects(w, opts.Rand),
		commands:   make(chan system.Command, cfg.Simulation.CommandQueueSize),
	}

	half := cfg.Simulation.HalfExtent
	movement := system.NewMovementSystem(s.unit, structures, s.caster, half, cfg.Unit.ArriveEpsilon, log)
	cast := system.NewCastSystem(s.caster, s.unit, structures, s.effects, s.bus, log)
	s.snapshots = system.NewSnapshotSystem(s.unit, s.caster, s.effects, structures, opts.Frames, log)

	s.runner.Register(system.NewInputSystem(s.commands, cfg.Simulation.MaxCommandsPerTick, movement, cast, log))
	s.runner.Register(system.NewEventDispatchSystem(s.bus))
	s.runner.Register(movement)
	s.runner.Register(cast)
	s.runner.Register(system.NewEffectSystem(s.effects, structures, opts.Scripts, s.bus, half, log))
	s.runner.Register(s.snapshots)
	if opts.CombatLog != nil {
		s.combatLog = system.NewCombatLogSystem(s.bus, opts.CombatLog, cfg.CombatLog.FlushTicks, log)
		s.runner.Register(s.combatLog)
	}
	return s, nil
}

// Enqueue offers a command to the next tick. Safe from any goroutine.
// Returns false if the queue is full.
func (s *Simulation) Enqueue(c system.Command) bool {
	select {
	case s.commands <- c:
		return true
	default:
		return false
	}
}

// Tick advances the simulation once using now as the tick's only clock sample.
func (s *Simulation) Tick(now time.Time) coresys.Tick {
	return s.runner.Tick(now)
}

// Snapshot returns the view built by the last tick.
func (s *Simulation) Snapshot() system.Snapshot { return s.snapshots.Latest() }

// Shutdown flushes rows still held by the combat log system.
func (s *Simulation) Shutdown() {
	if s.combatLog != nil {
		// events emitted by the final tick are still in the back buffer
		s.bus.SwapBuffers()
		s.bus.DispatchAll()
		s.combatLog.Flush()
	}
}

func (s *Simulation) Bus() *event.Bus               { return s.bus }
func (s *Simulation) Structures() *world.Structures { return s.structures }
func (s *Simulation) Unit() *world.Unit             { return s.unit }
func (s *Simulation) Caster() *world.Caster         { return s.caster }
func (s *Simulation) Effects() *world.Effects       { return s.effects }
func (s *Simulation) Seq() uint64                   { return s.runner.Seq() }
