package geom

import "math"

// Box is an axis-aligned bounding box. Every predicate treats the boundary as
// inside: touching boxes intersect and a point on a face is contained.
type Box struct {
	Min, Max Vec3
}

// BoxAround builds a box centered on c extending half in each direction.
func BoxAround(c, half Vec3) Box {
	return Box{Min: c.Sub(half), Max: c.Add(half)}
}

// BoxFromCylinder returns the bounds of an upright cylinder whose center is c.
func BoxFromCylinder(c Vec3, radius, height float64) Box {
	return BoxAround(c, Vec3{radius, height / 2, radius})
}

// BoxFromSphere returns the bounds of a sphere.
func BoxFromSphere(c Vec3, radius float64) Box {
	return BoxAround(c, Vec3{radius, radius, radius})
}

func (b Box) Center() Vec3 { return b.Min.Lerp(b.Max, 0.5) }
func (b Box) Size() Vec3   { return b.Max.Sub(b.Min) }

// Valid reports whether Min <= Max on every axis.
func (b Box) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

func (b Box) Translate(d Vec3) Box {
	return Box{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

func (b Box) Intersects(o Box) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

func (b Box) ContainsPoint(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// ClosestPoint clamps p onto the box.
func (b Box) ClosestPoint(p Vec3) Vec3 {
	return Vec3{
		X: math.Max(b.Min.X, math.Min(p.X, b.Max.X)),
		Y: math.Max(b.Min.Y, math.Min(p.Y, b.Max.Y)),
		Z: math.Max(b.Min.Z, math.Min(p.Z, b.Max.Z)),
	}
}

// Sphere is a ball used for area queries.
type Sphere struct {
	Center Vec3
	Radius float64
}

func (s Sphere) IntersectsBox(b Box) bool {
	d := b.ClosestPoint(s.Center).Sub(s.Center)
	return d.X*d.X+d.Y*d.Y+d.Z*d.Z <= s.Radius*s.Radius
}

// Bounds returns the box enclosing the sphere, used for broad-phase lookups.
func (s Sphere) Bounds() Box { return BoxFromSphere(s.Center, s.Radius) }
