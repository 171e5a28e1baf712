package integrator

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
	"github.com/spindle-render/go-spindle/pkg/sampling"
)

// AmbientOcclusion shades each point by the cosine-weighted fraction
// of its hemisphere that is unoccluded within maxDistance. It ignores
// materials and lights entirely, making it a pure geometry probe.
type AmbientOcclusion struct {
	nSamples    int
	maxDistance float64
	cosSample   bool
}

// NewAmbientOcclusion creates the integrator with n occlusion probes
// per shading point. A non-positive maxDistance means unbounded.
func NewAmbientOcclusion(nSamples int, maxDistance float64) *AmbientOcclusion {
	if maxDistance <= 0 {
		maxDistance = math.Inf(1)
	}
	return &AmbientOcclusion{nSamples: nSamples, maxDistance: maxDistance, cosSample: true}
}

func (a *AmbientOcclusion) Preprocess(scene core.Scene, sampler core.Sampler) {
	a.nSamples = sampler.RoundCount(a.nSamples)
	sampler.Request2DArray(a.nSamples)
}

func (a *AmbientOcclusion) Li(scene core.Scene, ray *core.Ray, sampler core.Sampler, stats *core.Stats, depth int) core.Vec3 {
	si, found := scene.Intersect(ray)
	if !found {
		return core.Vec3{}
	}

	si.ComputeScatteringFunctions(ray, core.TransportRadiance, true)
	if si.BSDF == nil {
		next := si.SpawnRay(ray.Direction)
		next.Differential = ray.Differential
		return a.Li(scene, &next, sampler, stats, depth)
	}

	// Frame around the shading normal, flipped toward the ray's side
	n := core.FaceForward(si.Shading.N, si.Wo)
	s := si.Dpdu.Normalize()
	t := n.Cross(s)

	u := sampler.Get2DArray(a.nSamples)
	nSamples := a.nSamples
	if u == nil {
		nSamples = 1
	}

	unoccluded := 0.0
	for i := 0; i < nSamples; i++ {
		var uv core.Vec2
		if u != nil {
			uv = u[i]
		} else {
			uv = sampler.Get2D()
		}

		var local core.Vec3
		var pdf float64
		if a.cosSample {
			local = sampling.CosineSampleHemisphere(uv)
			pdf = sampling.CosineHemispherePdf(math.Abs(local.Z))
		} else {
			local = sampling.UniformSampleSphere(uv)
			if local.Z < 0 {
				local.Z = -local.Z
			}
			pdf = 1 / (2 * math.Pi)
		}
		if pdf == 0 {
			continue
		}
		wi := s.Multiply(local.X).Add(t.Multiply(local.Y)).Add(n.Multiply(local.Z))

		probe := si.SpawnRay(wi)
		probe.TMax = a.maxDistance
		stats.RecordShadowRay()
		if !scene.IntersectP(&probe) {
			// The estimator integrates cos(theta)/pi against the pdf;
			// with cosine sampling the two cancel exactly
			unoccluded += local.Z / (math.Pi * pdf)
		}
	}
	return core.Grey(unoccluded / float64(nSamples))
}
