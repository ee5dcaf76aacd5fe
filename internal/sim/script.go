package sim

import (
	"fmt"
	"os"
	"sort"

	"github.com/l1jgo/arena/internal/geom"
	"github.com/l1jgo/arena/internal/system"
	"gopkg.in/yaml.v3"
)

// ScriptStep is one scheduled command of a command script.
type ScriptStep struct {
	Tick    uint64
	Command system.Command
}

type scriptEntry struct {
	Tick uint64  `yaml:"tick"`
	Cmd  string  `yaml:"cmd"`
	Slot int     `yaml:"slot"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Z    float64 `yaml:"z"`
}

type scriptFile struct {
	Commands []scriptEntry `yaml:"commands"`
}

// LoadScript reads a YAML command script, e.g.
//
//	commands:
//	  - {tick: 1, cmd: select_ability, slot: 1}
//	  - {tick: 1, cmd: aim_at, x: 100, y: 20, z: 60}
//	  - {tick: 2, cmd: confirm_cast}
//
// aim_ray casts straight down from (x, 1000, z).
func LoadScript(path string) ([]ScriptStep, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ParseScript(raw)
}

func ParseScript(raw []byte) ([]ScriptStep, error) {
	var f scriptFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	steps := make([]ScriptStep, 0, len(f.Commands))
	for i, e := range f.Commands {
		cmd, err := e.command()
		if err != nil {
			return nil, fmt.Errorf("script entry %d: %w", i, err)
		}
		steps = append(steps, ScriptStep{Tick: e.Tick, Command: cmd})
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Tick < steps[j].Tick })
	return steps, nil
}

func (e scriptEntry) command() (system.Command, error) {
	p := geom.V(e.X, e.Y, e.Z)
	switch e.Cmd {
	case "move_to":
		return system.MoveTo{Point: p}, nil
	case "select_ability":
		return system.SelectAbility{Slot: e.Slot}, nil
	case "aim_at":
		return system.AimAt{Point: p}, nil
	case "aim_ray":
		return system.AimRay{Ray: geom.Ray{Origin: geom.V(e.X, 1000, e.Z), Dir: geom.V(0, -1, 0)}}, nil
	case "confirm_cast":
		return system.ConfirmCast{}, nil
	}
	return nil, fmt.Errorf("unknown command %q", e.Cmd)
}

// Script feeds scheduled steps into a simulation as ticks pass.
type Script struct {
	steps []ScriptStep
	next  int
}

func NewScript(steps []ScriptStep) *Script { return &Script{steps: steps} }

// Feed enqueues every step due before tick seq runs. Returns how many
// steps were rejected by a full queue.
func (s *Script) Feed(sim *Simulation, seq uint64) int {
	rejected := 0
	for s.next < len(s.steps) && s.steps[s.next].Tick <= seq {
		if !sim.Enqueue(s.steps[s.next].Command) {
			rejected++
		}
		s.next++
	}
	return rejected
}

// Done reports whether every step has been fed.
func (s *Script) Done() bool { return s.next >= len(s.steps) }
