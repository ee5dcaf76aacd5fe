package data

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SlotCount is the number of ability slots on the cast bar.
const SlotCount = 4

// ErrCatalogSlots is returned when a catalog does not define exactly slots 1..SlotCount.
var ErrCatalogSlots = errors.New("ability catalog must define slots 1-4 exactly once")

// Archetype selects the effect an ability spawns.
type Archetype int

const (
	ArchetypeGeneric   Archetype = iota // plain projectile, same motion as direct-hit
	ArchetypeDirectHit                  // fireball / snowball
	ArchetypeBeam                       // lightning
	ArchetypeCloud                      // poison
)

func (a Archetype) String() string {
	switch a {
	case ArchetypeDirectHit:
		return "direct_hit"
	case ArchetypeBeam:
		return "beam"
	case ArchetypeCloud:
		return "cloud"
	default:
		return "generic"
	}
}

// parseArchetype maps catalog names onto archetypes. Unknown names fall back
// to a generic projectile.
func parseArchetype(s string) Archetype {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fireball", "snowball", "direct_hit":
		return ArchetypeDirectHit
	case "lightning", "beam":
		return ArchetypeBeam
	case "poison", "cloud":
		return ArchetypeCloud
	default:
		return ArchetypeGeneric
	}
}

// AbilityInfo holds a single ability template.
type AbilityInfo struct {
	Slot      int
	Name      string
	Kind      string // catalog archetype name, e.g. "fireball"
	Archetype Archetype
	Range     float64
	Damage    int
	Cooldown  time.Duration
	Color     uint32 // 0xRRGGBB, opaque to the simulation

	ProjectileSpeed  float64 // per tick
	ProjectileRadius float64

	BeamLifetime time.Duration
	BeamJitter   float64 // full width of the midpoint offset on each axis

	CloudRadius   float64 // radius at size 1
	CloudGrowth   float64 // size added per tick
	CloudMaxSize  float64
	CloudLifetime time.Duration
}

// AbilityTable holds the catalog indexed by slot.
type AbilityTable struct {
	bySlot map[int]*AbilityInfo
}

// Get returns the ability in slot, or nil if the slot is empty.
func (t *AbilityTable) Get(slot int) *AbilityInfo {
	return t.bySlot[slot]
}

// Count returns total loaded abilities.
func (t *AbilityTable) Count() int {
	return len(t.bySlot)
}

// All returns abilities ordered by slot.
func (t *AbilityTable) All() []*AbilityInfo {
	result := make([]*AbilityInfo, 0, len(t.bySlot))
	for _, a := range t.bySlot {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Slot < result[j].Slot })
	return result
}

// --- YAML loading ---

type abilityEntry struct {
	Slot             int     `yaml:"slot"`
	Name             string  `yaml:"name"`
	Archetype        string  `yaml:"archetype"`
	Range            float64 `yaml:"range"`
	Damage           int     `yaml:"damage"`
	CooldownMs       int64   `yaml:"cooldown_ms"`
	Color            string  `yaml:"color"`
	ProjectileSpeed  float64 `yaml:"projectile_speed"`
	ProjectileRadius float64 `yaml:"projectile_radius"`
	BeamLifetimeMs   int64   `yaml:"beam_lifetime_ms"`
	BeamJitter       float64 `yaml:"beam_jitter"`
	CloudRadius      float64 `yaml:"cloud_radius"`
	CloudGrowth      float64 `yaml:"cloud_growth"`
	CloudMaxSize     float64 `yaml:"cloud_max_size"`
	CloudLifetimeMs  int64   `yaml:"cloud_lifetime_ms"`
}

type abilityListFile struct {
	Abilities []abilityEntry `yaml:"abilities"`
}

// LoadAbilityTable loads the catalog from path, or the embedded default when
// path is empty.
func LoadAbilityTable(path string) (*AbilityTable, error) {
	var (
		raw []byte
		err error
	)
	if path == "" {
		raw, err = defaultFS.ReadFile("defaults/abilities.yaml")
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read abilities: %w", err)
	}
	return ParseAbilityTable(raw)
}

// ParseAbilityTable builds a catalog from YAML bytes.
func ParseAbilityTable(raw []byte) (*AbilityTable, error) {
	var f abilityListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse abilities: %w", err)
	}
	t := &AbilityTable{bySlot: make(map[int]*AbilityInfo, len(f.Abilities))}
	for i := range f.Abilities {
		e := &f.Abilities[i]
		if e.Slot < 1 || e.Slot > SlotCount {
			return nil, fmt.Errorf("ability %q slot %d: %w", e.Name, e.Slot, ErrCatalogSlots)
		}
		if _, dup := t.bySlot[e.Slot]; dup {
			return nil, fmt.Errorf("ability %q slot %d: %w", e.Name, e.Slot, ErrCatalogSlots)
		}
		if e.Range <= 0 || e.Damage < 0 || e.CooldownMs < 0 {
			return nil, fmt.Errorf("ability %q: range must be positive, damage and cooldown non-negative", e.Name)
		}
		color, err := parseColor(e.Color)
		if err != nil {
			return nil, fmt.Errorf("ability %q: %w", e.Name, err)
		}
		t.bySlot[e.Slot] = withArchetypeDefaults(&AbilityInfo{
			Slot:             e.Slot,
			Name:             e.Name,
			Kind:             e.Archetype,
			Archetype:        parseArchetype(e.Archetype),
			Range:            e.Range,
			Damage:           e.Damage,
			Cooldown:         time.Duration(e.CooldownMs) * time.Millisecond,
			Color:            color,
			ProjectileSpeed:  e.ProjectileSpeed,
			ProjectileRadius: e.ProjectileRadius,
			BeamLifetime:     time.Duration(e.BeamLifetimeMs) * time.Millisecond,
			BeamJitter:       e.BeamJitter,
			CloudRadius:      e.CloudRadius,
			CloudGrowth:      e.CloudGrowth,
			CloudMaxSize:     e.CloudMaxSize,
			CloudLifetime:    time.Duration(e.CloudLifetimeMs) * time.Millisecond,
		})
	}
	if len(t.bySlot) != SlotCount {
		return nil, fmt.Errorf("got %d abilities: %w", len(t.bySlot), ErrCatalogSlots)
	}
	return t, nil
}

// withArchetypeDefaults fills tuning the catalog left at zero.
func withArchetypeDefaults(a *AbilityInfo) *AbilityInfo {
	if a.ProjectileSpeed <= 0 {
		a.ProjectileSpeed = 20
	}
	if a.ProjectileRadius <= 0 {
		a.ProjectileRadius = 10
	}
	if a.BeamLifetime <= 0 {
		a.BeamLifetime = 100 * time.Millisecond
	}
	if a.CloudRadius <= 0 {
		a.CloudRadius = 15
	}
	if a.CloudGrowth <= 0 {
		a.CloudGrowth = 0.05
	}
	if a.CloudMaxSize < 1 {
		a.CloudMaxSize = 2
	}
	if a.CloudLifetime <= 0 {
		a.CloudLifetime = 5 * time.Second
	}
	return a
}

func parseColor(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return 0xffffff, nil
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}
