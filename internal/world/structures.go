package world

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/geom"
)

var (
	ErrDuplicateName    = errors.New("duplicate structure name")
	ErrInvalidFootprint = errors.New("invalid structure footprint")
)

// Structure is a destructible world object, or a non-collidable terrain
// footprint when Terrain is set.
type Structure struct {
	ID        ecs.EntityID
	Name      string
	Team      data.Team
	Terrain   bool
	Footprint geom.Box
	HP        int
	MaxHP     int

	seq uint64 // registration order
}

// DamageResult reports the outcome of ApplyDamage.
type DamageResult struct {
	Applied   bool // false for stale handles, terrain and non-positive amounts
	Name      string
	Remaining int
	Destroyed bool
}

// Structures is the structure registry. Owned by the tick goroutine.
type Structures struct {
	world  *ecs.World
	store  *ecs.PtrComponentStore[Structure] // registration order, terrain included
	byName map[string]ecs.EntityID
	grid   *cellGrid // collidable structures only

	terrain []ecs.EntityID
	nextSeq uint64
}

func NewStructures(w *ecs.World, cellSize float64) *Structures {
	if cellSize <= 0 {
		cellSize = 1000
	}
	store := ecs.NewPtrComponentStore[Structure]()
	w.Register(store)
	return &Structures{
		world:  w,
		store:  store,
		byName: make(map[string]ecs.EntityID, 64),
		grid:   newCellGrid(cellSize),
	}
}

// Add registers a placement. Used during scene setup only.
func (s *Structures) Add(p data.StructurePlacement) (ecs.EntityID, error) {
	if p.Name == "" {
		return 0, fmt.Errorf("structure without name: %w", ErrInvalidFootprint)
	}
	if _, dup := s.byName[p.Name]; dup {
		return 0, fmt.Errorf("%s: %w", p.Name, ErrDuplicateName)
	}
	if !p.Footprint.Valid() {
		return 0, fmt.Errorf("%s: %w", p.Name, ErrInvalidFootprint)
	}
	hp := p.HP
	if hp <= 0 {
		hp = data.DefaultStructureHP
	}

	id := s.world.CreateEntity()
	s.nextSeq++
	s.store.Set(id, &Structure{
		ID:        id,
		Name:      p.Name,
		Team:      p.Team,
		Terrain:   p.Terrain,
		Footprint: p.Footprint,
		HP:        hp,
		MaxHP:     hp,
		seq:       s.nextSeq,
	})
	s.byName[p.Name] = id
	if p.Terrain {
		s.terrain = append(s.terrain, id)
	} else {
		s.grid.Insert(id, p.Footprint)
	}
	return id, nil
}

// AddLayout registers every placement of l in order.
func (s *Structures) AddLayout(l *data.Layout) error {
	for _, p := range l.Structures {
		if _, err := s.Add(p); err != nil {
			return err
		}
	}
	return nil
}

// ApplyDamage subtracts amount from the structure's hit points and removes
// it the moment they reach zero. Calling it with a handle that no longer
// resolves is a no-op.
func (s *Structures) ApplyDamage(id ecs.EntityID, amount int) DamageResult {
	st, ok := s.store.Get(id)
	if !ok || st.Terrain || amount <= 0 {
		return DamageResult{}
	}
	st.HP -= amount
	res := DamageResult{Applied: true, Name: st.Name, Remaining: st.HP}
	if st.HP <= 0 {
		s.remove(st)
		res.Destroyed = true
	}
	return res
}

func (s *Structures) remove(st *Structure) {
	s.grid.Remove(st.ID, st.Footprint)
	delete(s.byName, st.Name)
	s.world.Destroy(st.ID)
}

// Get resolves a handle. Destroyed structures no longer resolve.
func (s *Structures) Get(id ecs.EntityID) (*Structure, bool) {
	return s.store.Get(id)
}

// Lookup resolves a structure by name.
func (s *Structures) Lookup(name string) (*Structure, bool) {
	id, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.store.Get(id)
}

// Len returns the number of registered entries, terrain included.
func (s *Structures) Len() int { return s.store.Len() }

// HasTerrain reports whether any raycast target was supplied.
func (s *Structures) HasTerrain() bool { return len(s.terrain) > 0 }

// Each visits every entry in registration order, terrain included.
func (s *Structures) Each(fn func(*Structure)) {
	s.store.Each(func(_ ecs.EntityID, st *Structure) { fn(st) })
}

// QueryIntersecting returns collidable structures whose footprint touches b.
func (s *Structures) QueryIntersecting(b geom.Box) []*Structure {
	return s.query(b, func(st *Structure) bool { return st.Footprint.Intersects(b) })
}

// QueryContainingPoint returns collidable structures whose footprint contains p.
func (s *Structures) QueryContainingPoint(p geom.Vec3) []*Structure {
	return s.query(geom.Box{Min: p, Max: p}, func(st *Structure) bool { return st.Footprint.ContainsPoint(p) })
}

// QueryWithinSphere returns collidable structures whose footprint touches sp.
func (s *Structures) QueryWithinSphere(sp geom.Sphere) []*Structure {
	return s.query(sp.Bounds(), func(st *Structure) bool { return sp.IntersectsBox(st.Footprint) })
}

// query returns a fresh slice in registration order. Callers may apply
// damage while walking it; destroyed entries stay in the slice but their
// handles stop resolving.
func (s *Structures) query(broad geom.Box, match func(*Structure) bool) []*Structure {
	var out []*Structure
	for id := range s.grid.Candidates(broad) {
		st, ok := s.store.Get(id)
		if ok && match(st) {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// RaycastTerrain returns the nearest point where r enters a terrain footprint.
func (s *Structures) RaycastTerrain(r geom.Ray) (geom.Vec3, bool) {
	if !r.Origin.IsFinite() || !r.Dir.IsFinite() {
		return geom.Vec3{}, false
	}
	best := math.Inf(1)
	hit := false
	for _, id := range s.terrain {
		st, ok := s.store.Get(id)
		if !ok {
			continue
		}
		if t, ok := r.IntersectBox(st.Footprint); ok && t < best {
			best = t
			hit = true
		}
	}
	if !hit {
		return geom.Vec3{}, false
	}
	return r.At(best), true
}
