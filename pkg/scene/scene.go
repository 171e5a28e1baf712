// Package scene aggregates primitives and lights behind the
// intersection interface the integrators consume.
package scene

import (
	"github.com/spindle-render/go-spindle/pkg/core"
)

// Scene is a linear aggregate over its primitives. Construction runs
// every light's Preprocess against the finished scene; after New
// returns the scene is immutable and safe for concurrent queries.
type Scene struct {
	primitives     []core.Primitive
	lights         []core.Light
	infiniteLights []core.Light
	worldBounds    core.Bounds3
}

func New(primitives []core.Primitive, sceneLights []core.Light) *Scene {
	s := &Scene{
		primitives:  primitives,
		lights:      sceneLights,
		worldBounds: core.EmptyBounds(),
	}
	for _, p := range primitives {
		s.worldBounds = s.worldBounds.Union(p.WorldBounds())
	}
	for _, l := range sceneLights {
		l.Preprocess(s)
		if l.Flags()&core.LightInfinite != 0 {
			s.infiniteLights = append(s.infiniteLights, l)
		}
	}
	return s
}

// Intersect finds the nearest hit along the ray. ray.TMax shrinks to
// the hit distance.
func (s *Scene) Intersect(ray *core.Ray) (*core.SurfaceInteraction, bool) {
	var nearest *core.SurfaceInteraction
	for _, p := range s.primitives {
		if si, ok := p.Intersect(ray); ok {
			nearest = si
		}
	}
	return nearest, nearest != nil
}

// IntersectP reports whether anything blocks the ray, returning at the
// first hit found
func (s *Scene) IntersectP(ray *core.Ray) bool {
	for _, p := range s.primitives {
		if p.IntersectP(ray) {
			return true
		}
	}
	return false
}

func (s *Scene) WorldBounds() core.Bounds3 {
	return s.worldBounds
}

func (s *Scene) Lights() []core.Light {
	return s.lights
}

func (s *Scene) InfiniteLights() []core.Light {
	return s.infiniteLights
}
