package integrator

import (
	"github.com/spindle-render/go-spindle/pkg/core"
)

// Whitted is the classic recursive integrator: exact direct lighting
// from every light plus perfect specular reflection and refraction.
// It ignores indirect diffuse transport entirely, which makes it fast
// and deterministic enough to serve as a debugging baseline.
type Whitted struct {
	maxDepth int
}

func NewWhitted(maxDepth int) *Whitted {
	return &Whitted{maxDepth: maxDepth}
}

func (w *Whitted) Preprocess(scene core.Scene, sampler core.Sampler) {}

func (w *Whitted) Li(scene core.Scene, ray *core.Ray, sampler core.Sampler, stats *core.Stats, depth int) core.Vec3 {
	si, found := scene.Intersect(ray)
	if !found {
		l := core.Vec3{}
		for _, light := range scene.InfiniteLights() {
			l = l.Add(light.Le(ray))
		}
		return l
	}

	si.ComputeScatteringFunctions(ray, core.TransportRadiance, false)
	if si.BSDF == nil {
		// Pass-through interface: continue the ray without consuming
		// recursion depth
		next := si.SpawnRay(ray.Direction)
		next.Differential = ray.Differential
		return w.Li(scene, &next, sampler, stats, depth)
	}

	ns := si.Shading.N
	wo := si.Wo
	l := si.Le(wo)

	for _, light := range scene.Lights() {
		li, wi, pdf, vis := light.SampleLi(&si.Interaction, sampler.Get2D())
		if pdf == 0 || li.IsBlack() {
			continue
		}
		f := si.BSDF.F(wo, wi, core.BSDFAll)
		if f.IsBlack() {
			continue
		}
		stats.RecordShadowRay()
		if vis.Unoccluded(scene) {
			l = l.Add(f.MultiplyVec(li).Multiply(wi.AbsDot(ns) / pdf))
		}
	}

	if depth+1 < w.maxDepth {
		l = l.Add(SpecularReflect(w, ray, si, scene, sampler, stats, depth))
		l = l.Add(SpecularTransmit(w, ray, si, scene, sampler, stats, depth))
	}
	return l
}
