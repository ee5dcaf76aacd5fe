package world

import (
	"math"

	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/geom"
)

// cellGrid is the broad phase for structure queries: a uniform grid over the
// XZ plane where every footprint is filed under each cell it overlaps.
// Accessed only from the tick goroutine, so no locks.
type cellGrid struct {
	size  float64
	cells map[cellKey]map[ecs.EntityID]struct{}
}

type cellKey struct {
	cx int32
	cz int32
}

func newCellGrid(size float64) *cellGrid {
	return &cellGrid{
		size:  size,
		cells: make(map[cellKey]map[ecs.EntityID]struct{}),
	}
}

func (g *cellGrid) coord(v float64) int32 {
	return int32(math.Floor(v / g.size))
}

// span returns the inclusive cell range covered by b on the XZ plane.
func (g *cellGrid) span(b geom.Box) (minX, minZ, maxX, maxZ int32) {
	return g.coord(b.Min.X), g.coord(b.Min.Z), g.coord(b.Max.X), g.coord(b.Max.Z)
}

func (g *cellGrid) Insert(id ecs.EntityID, b geom.Box) {
	minX, minZ, maxX, maxZ := g.span(b)
	for cx := minX; cx <= maxX; cx++ {
		for cz := minZ; cz <= maxZ; cz++ {
			k := cellKey{cx, cz}
			cell := g.cells[k]
			if cell == nil {
				cell = make(map[ecs.EntityID]struct{})
				g.cells[k] = cell
			}
			cell[id] = struct{}{}
		}
	}
}

func (g *cellGrid) Remove(id ecs.EntityID, b geom.Box) {
	minX, minZ, maxX, maxZ := g.span(b)
	for cx := minX; cx <= maxX; cx++ {
		for cz := minZ; cz <= maxZ; cz++ {
			k := cellKey{cx, cz}
			cell := g.cells[k]
			if cell == nil {
				continue
			}
			delete(cell, id)
			if len(cell) == 0 {
				delete(g.cells, k)
			}
		}
	}
}

// Candidates returns every id filed in a cell that b overlaps. The set may
// contain ids whose footprint does not actually intersect b; callers run
// the exact test.
func (g *cellGrid) Candidates(b geom.Box) map[ecs.EntityID]struct{} {
	minX, minZ, maxX, maxZ := g.span(b)
	out := make(map[ecs.EntityID]struct{})
	for cx := minX; cx <= maxX; cx++ {
		for cz := minZ; cz <= maxZ; cz++ {
			for id := range g.cells[cellKey{cx, cz}] {
				out[id] = struct{}{}
			}
		}
	}
	return out
}
