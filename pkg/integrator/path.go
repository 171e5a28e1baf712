package integrator

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
	"github.com/spindle-render/go-spindle/pkg/lights"
)

// Path is the unbiased path tracer. At every bounce it takes one
// next-event estimate toward a sampled light and one BSDF sample to
// continue the path, terminating by Russian roulette once throughput
// drops. Emission found by the continuation ray itself is only added
// on camera hits and after specular bounces, where next-event
// estimation could not have counted it.
type Path struct {
	maxDepth int
	rrDepth  int
	distrib  lights.LightDistribution
}

func NewPath(maxDepth int) *Path {
	return &Path{maxDepth: maxDepth, rrDepth: 3}
}

func (p *Path) Preprocess(scene core.Scene, sampler core.Sampler) {
	p.distrib = lights.NewPowerLightDistribution(scene)
}

func (p *Path) Li(scene core.Scene, r *core.Ray, sampler core.Sampler, stats *core.Stats, depth int) core.Vec3 {
	l := core.Vec3{}
	beta := core.Grey(1)
	ray := *r
	specularBounce := false
	bounces := 0
	// etaScale undoes the radiance compression of refraction for the
	// roulette decision, so paths inside glass are not culled early
	etaScale := 1.0

	for ; ; bounces++ {
		si, found := scene.Intersect(&ray)

		// Emission the previous vertex could not have accounted for
		if bounces == 0 || specularBounce {
			if found {
				l = l.Add(beta.MultiplyVec(si.Le(ray.Direction.Negate())))
			} else {
				for _, light := range scene.InfiniteLights() {
					l = l.Add(beta.MultiplyVec(light.Le(&ray)))
				}
			}
		}

		if !found || bounces >= p.maxDepth {
			break
		}

		si.ComputeScatteringFunctions(&ray, core.TransportRadiance, true)
		if si.BSDF == nil {
			// Pass-through boundaries don't count against the bounce
			// budget
			next := si.SpawnRay(ray.Direction)
			next.Differential = ray.Differential
			ray = next
			bounces--
			continue
		}

		// Next-event estimation, unless only specular lobes exist
		if si.BSDF.NumComponents(core.BSDFAll&^core.BSDFSpecular) > 0 {
			l = l.Add(beta.MultiplyVec(
				UniformSampleOneLight(si, scene, sampler, p.distrib, stats)))
		}

		// Continue the path with a BSDF sample
		f, wi, pdf, flags := si.BSDF.SampleF(si.Wo, sampler.Get2D(), core.BSDFAll)
		if f.IsBlack() || pdf == 0 {
			break
		}
		beta = beta.MultiplyVec(f).Multiply(wi.AbsDot(si.Shading.N) / pdf)
		specularBounce = flags&core.BSDFSpecular != 0
		if flags.Contains(core.BSDFSpecular|core.BSDFTransmission) {
			eta := si.BSDF.Eta()
			if si.Wo.Dot(si.N) > 0 {
				etaScale *= eta * eta
			} else {
				etaScale *= 1 / (eta * eta)
			}
		}
		ray = si.SpawnRay(wi)

		// Russian roulette on the roulette-corrected throughput
		rrBeta := beta.Multiply(etaScale)
		if rrBeta.MaxComponent() < 1 && bounces > p.rrDepth {
			q := math.Max(0.05, 1-rrBeta.MaxComponent())
			if sampler.Get1D() < q {
				break
			}
			beta = beta.Divide(1 - q)
		}
	}
	stats.RecordPathLength(bounces)
	return l
}
