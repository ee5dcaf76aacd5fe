package data

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/l1jgo/arena/internal/geom"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultFS embed.FS

// DefaultStructureHP is assigned to structures whose layout entry has no hp.
const DefaultStructureHP = 100

// Team affiliation of a structure.
type Team int

const (
	TeamNone Team = iota
	TeamBlue
	TeamRed
)

func (t Team) String() string {
	switch t {
	case TeamBlue:
		return "blue"
	case TeamRed:
		return "red"
	default:
		return "none"
	}
}

func ParseTeam(s string) (Team, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return TeamNone, nil
	case "blue":
		return TeamBlue, nil
	case "red":
		return TeamRed, nil
	}
	return TeamNone, fmt.Errorf("unknown team %q", s)
}

// StructurePlacement is one entry of the arena layout, already resolved to a
// world-space footprint.
type StructurePlacement struct {
	Name      string
	Team      Team
	Terrain   bool // non-collidable footprint: raycast target only
	Footprint geom.Box
	HP        int
}

// Layout is the initial battlefield handed over by scene setup.
type Layout struct {
	Structures []StructurePlacement
}

// Count returns the number of placements, terrain included.
func (l *Layout) Count() int { return len(l.Structures) }

// --- YAML loading ---

// LayoutEntry mirrors one YAML record. Exported so cmd/layoutgen writes the
// same shape the loader reads.
type LayoutEntry struct {
	Name     string  `yaml:"name"`
	Team     string  `yaml:"team,omitempty"`
	Category string  `yaml:"category,omitempty"` // "structure" (default) or "terrain"
	Shape    string  `yaml:"shape"`              // "box" or "cylinder"
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Z        float64 `yaml:"z"`
	Width    float64 `yaml:"width,omitempty"`
	Height   float64 `yaml:"height"`
	Depth    float64 `yaml:"depth,omitempty"`
	Radius   float64 `yaml:"radius,omitempty"`
	HP       int     `yaml:"hp,omitempty"`
}

type LayoutFile struct {
	Structures []LayoutEntry `yaml:"structures"`
}

// LoadLayout loads the arena from path, or the embedded default when path is empty.
func LoadLayout(path string) (*Layout, error) {
	var (
		raw []byte
		err error
	)
	if path == "" {
		raw, err = defaultFS.ReadFile("defaults/arena_layout.yaml")
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return ParseLayout(raw)
}

// ParseLayout builds a layout from YAML bytes.
func ParseLayout(raw []byte) (*Layout, error) {
	var f LayoutFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	l := &Layout{Structures: make([]StructurePlacement, 0, len(f.Structures))}
	for i := range f.Structures {
		p, err := f.Structures[i].resolve()
		if err != nil {
			return nil, fmt.Errorf("layout entry %d: %w", i, err)
		}
		l.Structures = append(l.Structures, p)
	}
	return l, nil
}

func (e *LayoutEntry) resolve() (StructurePlacement, error) {
	if e.Name == "" {
		return StructurePlacement{}, fmt.Errorf("missing name")
	}
	team, err := ParseTeam(e.Team)
	if err != nil {
		return StructurePlacement{}, fmt.Errorf("%s: %w", e.Name, err)
	}
	center := geom.V(e.X, e.Y, e.Z)
	var box geom.Box
	switch strings.ToLower(e.Shape) {
	case "cylinder":
		if e.Radius <= 0 || e.Height <= 0 {
			return StructurePlacement{}, fmt.Errorf("%s: cylinder needs radius and height", e.Name)
		}
		box = geom.BoxFromCylinder(center, e.Radius, e.Height)
	case "box", "":
		if e.Width <= 0 || e.Height <= 0 || e.Depth <= 0 {
			return StructurePlacement{}, fmt.Errorf("%s: box needs width, height and depth", e.Name)
		}
		box = geom.BoxAround(center, geom.V(e.Width/2, e.Height/2, e.Depth/2))
	default:
		return StructurePlacement{}, fmt.Errorf("%s: unknown shape %q", e.Name, e.Shape)
	}
	hp := e.HP
	if hp <= 0 {
		hp = DefaultStructureHP
	}
	return StructurePlacement{
		Name:      e.Name,
		Team:      team,
		Terrain:   strings.EqualFold(e.Category, "terrain"),
		Footprint: box,
		HP:        hp,
	}, nil
}
