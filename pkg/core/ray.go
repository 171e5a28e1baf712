package core

import "math"

// RayDifferential tracks how a ray's origin and direction shift under
// one-pixel offsets in screen space. Integrators propagate it through
// specular bounces so textures can be filtered downstream.
type RayDifferential struct {
	RxOrigin    Vec3
	RyOrigin    Vec3
	RxDirection Vec3
	RyDirection Vec3
}

// Ray represents a ray with an origin, direction and a parametric
// maximum distance. TMax is the only mutable field: intersection code
// may shrink it as closer hits are found, never grow it.
type Ray struct {
	Origin    Vec3
	Direction Vec3
	TMax      float64
	// Differential is nil for rays that don't carry screen-space
	// derivative information (shadow rays, occlusion probes).
	Differential *RayDifferential
}

// NewRay creates a ray with an unbounded extent
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, TMax: math.Inf(1)}
}

// NewRaySegment creates a ray limited to the parametric range [0, tMax]
func NewRaySegment(origin, direction Vec3, tMax float64) Ray {
	return Ray{Origin: origin, Direction: direction, TMax: tMax}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// ScaleDifferentials adjusts the differentials for an estimated sample
// spacing of s pixels
func (r *Ray) ScaleDifferentials(s float64) {
	if r.Differential == nil {
		return
	}
	d := r.Differential
	d.RxOrigin = r.Origin.Add(d.RxOrigin.Subtract(r.Origin).Multiply(s))
	d.RyOrigin = r.Origin.Add(d.RyOrigin.Subtract(r.Origin).Multiply(s))
	d.RxDirection = r.Direction.Add(d.RxDirection.Subtract(r.Direction).Multiply(s))
	d.RyDirection = r.Direction.Add(d.RyDirection.Subtract(r.Direction).Multiply(s))
}
