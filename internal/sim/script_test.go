package sim

import (
	"path/filepath"
	"testing"

	"github.com/l1jgo/arena/internal/geom"
	"github.com/l1jgo/arena/internal/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScript(t *testing.T) {
	steps, err := ParseScript([]byte(`
commands:
  - {tick: 3, cmd: confirm_cast}
  - {tick: 1, cmd: select_ability, slot: 1}
  - {tick: 1, cmd: aim_at, x: 100, y: 20, z: 60}
  - {tick: 5, cmd: move_to, x: 50, z: -50}
  - {tick: 6, cmd: aim_ray, x: 7, z: 8}
`))
	require.NoError(t, err)
	require.Len(t, steps, 5)
	assert.Equal(t, system.SelectAbility{Slot: 1}, steps[0].Command)
	assert.Equal(t, system.AimAt{Point: geom.V(100, 20, 60)}, steps[1].Command)
	assert.Equal(t, system.ConfirmCast{}, steps[2].Command)
	assert.Equal(t, "move_to", system.CommandName(steps[3].Command))
	ray := steps[4].Command.(system.AimRay).Ray
	assert.Equal(t, geom.V(7, 1000, 8), ray.Origin)
}

func TestParseScriptRejectsUnknown(t *testing.T) {
	_, err := ParseScript([]byte(`commands: [{tick: 1, cmd: teleport}]`))
	assert.ErrorContains(t, err, "teleport")
}

func TestScriptDrivesFireball(t *testing.T) {
	h := newHarness(t, Options{}, nil, ground(), target("dummy", geom.V(100, 20, 60), 5, 10))
	steps, err := ParseScript([]byte(`
commands:
  - {tick: 1, cmd: select_ability, slot: 1}
  - {tick: 1, cmd: aim_at, x: 100, y: 20, z: 60}
  - {tick: 2, cmd: confirm_cast}
`))
	require.NoError(t, err)
	script := NewScript(steps)

	for !script.Done() || h.sim.Seq() < 6 {
		require.Zero(t, script.Feed(h.sim, h.sim.Seq()+1))
		h.tick()
	}
	_, alive := h.sim.Structures().Lookup("dummy")
	assert.False(t, alive)
}

func TestLoadExampleScript(t *testing.T) {
	steps, err := LoadScript(filepath.Join("..", "..", "examples", "opening.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, steps)
	assert.Equal(t, uint64(1), steps[0].Tick)
	assert.IsType(t, system.MoveTo{}, steps[0].Command)
}
