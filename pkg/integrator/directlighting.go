package integrator

import (
	"github.com/spindle-render/go-spindle/pkg/core"
	"github.com/spindle-render/go-spindle/pkg/lights"
)

// LightStrategy selects how direct lighting distributes its samples
// over the scene's lights
type LightStrategy int

const (
	// SampleAllLights takes every light's requested sample count per
	// shading point, converging fastest for few lights
	SampleAllLights LightStrategy = iota
	// SampleOneLight takes a single sample from one stochastically
	// chosen light, the right trade once lights are numerous
	SampleOneLight
)

// DirectLighting estimates direct illumination only, with specular
// chains followed up to maxDepth. Indirect diffuse light is ignored.
type DirectLighting struct {
	strategy      LightStrategy
	maxDepth      int
	nLightSamples []int
	distrib       lights.LightDistribution
}

func NewDirectLighting(strategy LightStrategy, maxDepth int) *DirectLighting {
	return &DirectLighting{strategy: strategy, maxDepth: maxDepth}
}

// Preprocess reserves the sampler arrays the sample-all strategy
// consumes at the first intersection of each camera ray
func (d *DirectLighting) Preprocess(scene core.Scene, sampler core.Sampler) {
	if d.strategy == SampleAllLights {
		d.nLightSamples = d.nLightSamples[:0]
		for _, light := range scene.Lights() {
			d.nLightSamples = append(d.nLightSamples, sampler.RoundCount(light.NumSamples()))
		}
		for _, n := range d.nLightSamples {
			sampler.Request2DArray(n)
			sampler.Request2DArray(n)
		}
	} else {
		d.distrib = lights.NewUniformLightDistribution(scene)
	}
}

func (d *DirectLighting) Li(scene core.Scene, ray *core.Ray, sampler core.Sampler, stats *core.Stats, depth int) core.Vec3 {
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
		next := si.SpawnRay(ray.Direction)
		next.Differential = ray.Differential
		return d.Li(scene, &next, sampler, stats, depth)
	}

	l := si.Le(si.Wo)
	if len(scene.Lights()) > 0 {
		if d.strategy == SampleAllLights {
			l = l.Add(UniformSampleAllLights(si, scene, sampler, d.nLightSamples, stats))
		} else {
			l = l.Add(UniformSampleOneLight(si, scene, sampler, d.distrib, stats))
		}
	}

	if depth+1 < d.maxDepth {
		l = l.Add(SpecularReflect(d, ray, si, scene, sampler, stats, depth))
		l = l.Add(SpecularTransmit(d, ray, si, scene, sampler, stats, depth))
	}
	return l
}
