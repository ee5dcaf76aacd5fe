package data

import (
	"testing"
	"time"

	"github.com/l1jgo/arena/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAbilityCatalog(t *testing.T) {
	tbl, err := LoadAbilityTable("")
	require.NoError(t, err)
	require.Equal(t, SlotCount, tbl.Count())

	fire := tbl.Get(1)
	require.NotNil(t, fire)
	assert.Equal(t, "Fireball", fire.Name)
	assert.Equal(t, ArchetypeDirectHit, fire.Archetype)
	assert.Equal(t, 200.0, fire.Range)
	assert.Equal(t, 10, fire.Damage)
	assert.Zero(t, fire.Cooldown)
	assert.Equal(t, uint32(0xff4500), fire.Color)
	assert.Equal(t, 20.0, fire.ProjectileSpeed)

	bolt := tbl.Get(3)
	assert.Equal(t, ArchetypeBeam, bolt.Archetype)
	assert.Equal(t, 15*time.Second, bolt.Cooldown)
	assert.Equal(t, 100*time.Millisecond, bolt.BeamLifetime)

	cloud := tbl.Get(4)
	assert.Equal(t, ArchetypeCloud, cloud.Archetype)
	assert.Equal(t, 5*time.Second, cloud.CloudLifetime)
	assert.Equal(t, 0.05, cloud.CloudGrowth)
	assert.Equal(t, 2.0, cloud.CloudMaxSize)

	all := tbl.All()
	for i, a := range all {
		assert.Equal(t, i+1, a.Slot)
	}
}

func TestAbilityCatalogRejectsBadSlots(t *testing.T) {
	cases := map[string]string{
		"missing slot": `
abilities:
  - {slot: 1, name: a, archetype: fireball, range: 10, damage: 1}
  - {slot: 2, name: b, archetype: fireball, range: 10, damage: 1}
  - {slot: 3, name: c, archetype: fireball, range: 10, damage: 1}
`,
		"duplicate slot": `
abilities:
  - {slot: 1, name: a, archetype: fireball, range: 10, damage: 1}
  - {slot: 1, name: b, archetype: fireball, range: 10, damage: 1}
  - {slot: 3, name: c, archetype: fireball, range: 10, damage: 1}
  - {slot: 4, name: d, archetype: fireball, range: 10, damage: 1}
`,
		"slot out of range": `
abilities:
  - {slot: 5, name: a, archetype: fireball, range: 10, damage: 1}
`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAbilityTable([]byte(raw))
			assert.ErrorIs(t, err, ErrCatalogSlots)
		})
	}
}

func TestUnknownArchetypeIsGeneric(t *testing.T) {
	raw := `
abilities:
  - {slot: 1, name: a, archetype: arrow, range: 10, damage: 1}
  - {slot: 2, name: b, archetype: snowball, range: 10, damage: 1}
  - {slot: 3, name: c, archetype: beam, range: 10, damage: 1}
  - {slot: 4, name: d, archetype: cloud, range: 10, damage: 1, color: "0x00ff00"}
`
	tbl, err := ParseAbilityTable([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, ArchetypeGeneric, tbl.Get(1).Archetype)
	assert.Equal(t, "arrow", tbl.Get(1).Kind)
	assert.Equal(t, ArchetypeDirectHit, tbl.Get(2).Archetype)
	assert.Equal(t, uint32(0x00ff00), tbl.Get(4).Color)
}

func TestDefaultLayout(t *testing.T) {
	l, err := LoadLayout("")
	require.NoError(t, err)

	byName := map[string]StructurePlacement{}
	terrain := 0
	for _, s := range l.Structures {
		byName[s.Name] = s
		if s.Terrain {
			terrain++
		}
	}
	assert.Len(t, l.Structures, 33)
	assert.Equal(t, 7, terrain, "floor, four paths and two base discs")

	disc := byName["blue_base_terrain"]
	assert.True(t, disc.Terrain)
	assert.Equal(t, TeamBlue, disc.Team)
	assert.InDelta(t, 0.15, disc.Footprint.Max.Y, 1e-9)
	assert.Equal(t, geom.V(-10500, 0, -10500), geom.V(disc.Footprint.Min.X, 0, disc.Footprint.Min.Z))

	floor := byName["floor"]
	assert.True(t, floor.Terrain)
	assert.Equal(t, 0.0, floor.Footprint.Max.Y)

	base := byName["red_base"]
	assert.Equal(t, TeamRed, base.Team)
	assert.Equal(t, 1000, base.HP)
	assert.Equal(t, geom.V(8750, 0, 8750), base.Footprint.Min)

	assert.Equal(t, 100, byName["blue_tower_6"].HP)
	assert.Equal(t, 200, byName["blue_base_turret_A"].HP)
}

func TestLayoutDefaultsHP(t *testing.T) {
	l, err := ParseLayout([]byte(`
structures:
  - {name: hut, shape: box, x: 0, y: 10, z: 0, width: 20, height: 20, depth: 20}
`))
	require.NoError(t, err)
	assert.Equal(t, DefaultStructureHP, l.Structures[0].HP)
	assert.False(t, l.Structures[0].Terrain)
	assert.Equal(t, TeamNone, l.Structures[0].Team)
}

func TestLayoutRejectsBadEntries(t *testing.T) {
	for name, raw := range map[string]string{
		"no name":       `structures: [{shape: box, width: 1, height: 1, depth: 1}]`,
		"bad team":      `structures: [{name: a, team: green, shape: box, width: 1, height: 1, depth: 1}]`,
		"flat cylinder": `structures: [{name: a, shape: cylinder, radius: 5}]`,
		"bad shape":     `structures: [{name: a, shape: cone, height: 1}]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLayout([]byte(raw))
			assert.Error(t, err)
		})
	}
}
