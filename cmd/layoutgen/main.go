// layoutgen writes the default arena layout YAML read by data.LoadLayout.
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/l1jgo/arena/internal/data"
	"gopkg.in/yaml.v3"
)

const (
	halfExtent = 10000.0
	laneOffset = 9000.0
	laneWidth  = 800.0

	towerRadius = 60.0
	towerHeight = 300.0
	towerHP     = 100
	turretHP    = 200

	baseTerrainRadius = 1500.0

	baseRadius = 250.0
	baseHeight = 200.0
	baseHP     = 1000
)

type point struct{ X, Z float64 }

// Tower positions per team, listed lane by lane: far lane, middle, near lane.
var towers = map[string][]point{
	"blue": {
		{-4000, -9000}, {-1000, -9000}, {4000, -9000},
		{-6000, -6000}, {-4000, -4000}, {-1800, -1800},
		{-9000, -4000}, {-9000, 1000}, {-9000, 6000},
	},
	"red": {
		{4000, 9000}, {-1000, 9000}, {-6000, 9000},
		{6000, 6000}, {4000, 4000}, {1800, 1800},
		{9000, 4000}, {9000, -1000}, {9000, -6000},
	},
}

var turrets = map[string][]point{
	"blue": {{-9100, -7600}, {-8000, -7900}, {-7600, -9000}},
	"red":  {{9100, 7600}, {8000, 7900}, {7600, 9000}},
}

var bases = map[string]point{
	"blue": {-9000, -9000},
	"red":  {9000, 9000},
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: layoutgen <output.yaml>")
		os.Exit(1)
	}

	f := build()
	var buf bytes.Buffer
	buf.WriteString("# Default arena, generated by cmd/layoutgen. Terrain entries are raycast targets only.\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	enc.Close()

	// Round-trip through the loader so a bad table never reaches disk.
	layout, err := data.ParseLayout(buf.Bytes())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := os.WriteFile(os.Args[1], buf.Bytes(), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d entries to %s\n", layout.Count(), os.Args[1])
}

func build() data.LayoutFile {
	var f data.LayoutFile

	f.Structures = append(f.Structures, data.LayoutEntry{
		Name: "floor", Category: "terrain", Shape: "box",
		Y: -5, Width: 2 * halfExtent, Height: 10, Depth: 2 * halfExtent,
	})
	// Lanes sit a hair above the floor so a downward ray hits them first.
	lanes := []data.LayoutEntry{
		{Z: -laneOffset, Width: 2 * laneOffset, Depth: laneWidth},
		{X: laneOffset, Width: laneWidth, Depth: 2 * laneOffset},
		{Z: laneOffset, Width: 2 * laneOffset, Depth: laneWidth},
		{X: -laneOffset, Width: laneWidth, Depth: 2 * laneOffset},
	}
	for i, l := range lanes {
		l.Name = fmt.Sprintf("path_%d", i+1)
		l.Category = "terrain"
		l.Shape = "box"
		l.Y = -4.9
		l.Height = 10
		f.Structures = append(f.Structures, l)
	}

	teams := []string{"blue", "red"}
	// Base discs sit above the lanes; flattened to their bounding box.
	for _, team := range teams {
		b := bases[team]
		f.Structures = append(f.Structures, data.LayoutEntry{
			Name: team + "_base_terrain", Team: team, Category: "terrain", Shape: "cylinder",
			X: b.X, Y: -4.85, Z: b.Z,
			Radius: baseTerrainRadius, Height: 10,
		})
	}
	for _, team := range teams {
		b := bases[team]
		f.Structures = append(f.Structures, data.LayoutEntry{
			Name: team + "_base", Team: team, Shape: "cylinder",
			X: b.X, Y: baseHeight / 2, Z: b.Z,
			Radius: baseRadius, Height: baseHeight, HP: baseHP,
		})
	}
	for _, team := range teams {
		for i, p := range towers[team] {
			f.Structures = append(f.Structures, cylinder(fmt.Sprintf("%s_tower_%d", team, i+1), team, p, towerHP))
		}
	}
	for _, team := range teams {
		for i, p := range turrets[team] {
			f.Structures = append(f.Structures, cylinder(fmt.Sprintf("%s_base_turret_%c", team, 'A'+i), team, p, turretHP))
		}
	}
	return f
}

func cylinder(name, team string, p point, hp int) data.LayoutEntry {
	return data.LayoutEntry{
		Name: name, Team: team, Shape: "cylinder",
		X: p.X, Y: towerHeight / 2, Z: p.Z,
		Radius: towerRadius, Height: towerHeight, HP: hp,
	}
}
