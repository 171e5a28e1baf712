package core

import "math"

// Bounds3 is an axis-aligned bounding box
type Bounds3 struct {
	Min, Max Vec3
}

// EmptyBounds returns a degenerate box that any union will replace
func EmptyBounds() Bounds3 {
	return Bounds3{
		Min: Grey(math.Inf(1)),
		Max: Grey(math.Inf(-1)),
	}
}

// NewBounds3 creates a box from two corner points in any order
func NewBounds3(a, b Vec3) Bounds3 {
	return Bounds3{
		Min: Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)},
		Max: Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)},
	}
}

// Union returns the smallest box containing both boxes
func (b Bounds3) Union(other Bounds3) Bounds3 {
	return Bounds3{
		Min: Vec3{
			math.Min(b.Min.X, other.Min.X),
			math.Min(b.Min.Y, other.Min.Y),
			math.Min(b.Min.Z, other.Min.Z),
		},
		Max: Vec3{
			math.Max(b.Max.X, other.Max.X),
			math.Max(b.Max.Y, other.Max.Y),
			math.Max(b.Max.Z, other.Max.Z),
		},
	}
}

// BoundingSphere returns the center and radius of a sphere enclosing
// the box. Distant and infinite lights use it to size the world.
func (b Bounds3) BoundingSphere() (Vec3, float64) {
	center := b.Min.Add(b.Max).Multiply(0.5)
	radius := 0.0
	if b.contains(center) {
		radius = center.Subtract(b.Max).Length()
	}
	return center, radius
}

func (b Bounds3) contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
