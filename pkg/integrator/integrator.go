// Package integrator implements the light transport estimators:
// Whitted-style recursion, single-bounce direct lighting, the
// unbiased path tracer and an ambient occlusion probe. The direct
// lighting machinery (multiple importance sampling against light and
// BSDF strategies) is shared by all of them.
package integrator

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
	"github.com/spindle-render/go-spindle/pkg/lights"
	"github.com/spindle-render/go-spindle/pkg/sampling"
)

// UniformSampleAllLights estimates direct lighting by sampling every
// light with its requested sample count, using the sampler's reserved
// arrays when available and single fresh samples otherwise.
func UniformSampleAllLights(it *core.SurfaceInteraction, scene core.Scene, sampler core.Sampler, nLightSamples []int, stats *core.Stats) core.Vec3 {
	l := core.Vec3{}
	for j, light := range scene.Lights() {
		n := nLightSamples[j]
		uLightArray := sampler.Get2DArray(n)
		uScatteringArray := sampler.Get2DArray(n)
		if uLightArray == nil || uScatteringArray == nil {
			// Arrays are exhausted for this sample vector; fall back to
			// one fresh pair
			uLight := sampler.Get2D()
			uScattering := sampler.Get2D()
			l = l.Add(EstimateDirect(it, uScattering, light, uLight, scene, stats, false))
			continue
		}
		ld := core.Vec3{}
		for k := 0; k < n; k++ {
			ld = ld.Add(EstimateDirect(it, uScatteringArray[k], light, uLightArray[k], scene, stats, false))
		}
		l = l.Add(ld.Divide(float64(n)))
	}
	return l
}

// UniformSampleOneLight estimates direct lighting from one light
// chosen from distrib (uniformly when distrib is nil), dividing by the
// choice probability so the estimate stays unbiased
func UniformSampleOneLight(it *core.SurfaceInteraction, scene core.Scene, sampler core.Sampler, distrib lights.LightDistribution, stats *core.Stats) core.Vec3 {
	sceneLights := scene.Lights()
	nLights := len(sceneLights)
	if nLights == 0 {
		return core.Vec3{}
	}

	var lightIndex int
	var lightPdf float64
	if distrib != nil {
		lightIndex, lightPdf = distrib.Lookup(sampler.Get1D())
		if lightPdf == 0 {
			return core.Vec3{}
		}
	} else {
		lightIndex = int(math.Min(sampler.Get1D()*float64(nLights), float64(nLights-1)))
		lightPdf = 1 / float64(nLights)
	}

	light := sceneLights[lightIndex]
	uLight := sampler.Get2D()
	uScattering := sampler.Get2D()
	return EstimateDirect(it, uScattering, light, uLight, scene, stats, false).Divide(lightPdf)
}

// EstimateDirect computes one light's direct contribution at a shading
// point by multiple importance sampling: one sample from the light's
// distribution and one from the BSDF's, combined with the power
// heuristic. Delta lights skip the BSDF half since no BSDF sample can
// ever hit them.
func EstimateDirect(it *core.SurfaceInteraction, uScattering core.Vec2, light core.Light, uLight core.Vec2, scene core.Scene, stats *core.Stats, specular bool) core.Vec3 {
	bsdfFlags := core.BSDFAll
	if !specular {
		bsdfFlags = core.BSDFAll &^ core.BSDFSpecular
	}
	ld := core.Vec3{}

	// Light strategy
	li, wi, lightPdf, vis := light.SampleLi(&it.Interaction, uLight)
	scatteringPdf := 0.0
	if lightPdf > 0 && !li.IsBlack() {
		f := it.BSDF.F(it.Wo, wi, bsdfFlags).Multiply(wi.AbsDot(it.Shading.N))
		scatteringPdf = it.BSDF.Pdf(it.Wo, wi, bsdfFlags)
		if !f.IsBlack() {
			stats.RecordShadowRay()
			if vis.Unoccluded(scene) {
				if core.IsDeltaLight(light.Flags()) {
					ld = ld.Add(f.MultiplyVec(li).Divide(lightPdf))
				} else {
					weight := sampling.PowerHeuristic(1, lightPdf, 1, scatteringPdf)
					ld = ld.Add(f.MultiplyVec(li).Multiply(weight / lightPdf))
				}
			}
		}
	}

	// BSDF strategy, skipped for delta lights
	if !core.IsDeltaLight(light.Flags()) {
		f, wi, scatteringPdf, sampledType := it.BSDF.SampleF(it.Wo, uScattering, bsdfFlags)
		f = f.Multiply(wi.AbsDot(it.Shading.N))
		sampledSpecular := sampledType&core.BSDFSpecular != 0
		if !f.IsBlack() && scatteringPdf > 0 {
			weight := 1.0
			if !sampledSpecular {
				lightPdf = light.PdfLi(&it.Interaction, wi)
				if lightPdf == 0 {
					stats.RecordDirectEstimate(ld.IsBlack())
					return ld
				}
				weight = sampling.PowerHeuristic(1, scatteringPdf, 1, lightPdf)
			}

			ray := it.SpawnRay(wi)
			li := core.Vec3{}
			if lightIsect, found := scene.Intersect(&ray); found {
				if lightIsect.Primitive != nil && lightIsect.Primitive.AreaLight() == light {
					li = lightIsect.Le(wi.Negate())
				}
			} else {
				li = light.Le(&ray)
			}
			if !li.IsBlack() {
				ld = ld.Add(f.MultiplyVec(li).Multiply(weight / scatteringPdf))
			}
		}
	}

	stats.RecordDirectEstimate(ld.IsBlack())
	return ld
}

// SpecularReflect traces the mirror continuation of a ray, carrying
// the ray differentials through the reflection so downstream filtering
// stays sharp
func SpecularReflect(in core.Integrator, ray *core.Ray, si *core.SurfaceInteraction, scene core.Scene, sampler core.Sampler, stats *core.Stats, depth int) core.Vec3 {
	f, wi, pdf, _ := si.BSDF.SampleF(si.Wo, sampler.Get2D(), core.BSDFReflection|core.BSDFSpecular)
	ns := si.Shading.N
	if pdf <= 0 || f.IsBlack() || wi.AbsDot(ns) == 0 {
		return core.Vec3{}
	}

	rd := si.SpawnRay(wi)
	if ray.Differential != nil {
		rd.Differential = reflectedDifferential(ray, si, wi)
	}
	return f.MultiplyVec(in.Li(scene, &rd, sampler, stats, depth+1)).
		Multiply(wi.AbsDot(ns) / pdf)
}

// SpecularTransmit is the refracted counterpart of SpecularReflect
func SpecularTransmit(in core.Integrator, ray *core.Ray, si *core.SurfaceInteraction, scene core.Scene, sampler core.Sampler, stats *core.Stats, depth int) core.Vec3 {
	f, wi, pdf, _ := si.BSDF.SampleF(si.Wo, sampler.Get2D(), core.BSDFTransmission|core.BSDFSpecular)
	ns := si.Shading.N
	if pdf <= 0 || f.IsBlack() || wi.AbsDot(ns) == 0 {
		return core.Vec3{}
	}

	rd := si.SpawnRay(wi)
	if ray.Differential != nil {
		rd.Differential = transmittedDifferential(ray, si, wi)
	}
	return f.MultiplyVec(in.Li(scene, &rd, sampler, stats, depth+1)).
		Multiply(wi.AbsDot(ns) / pdf)
}

// reflectedDifferential shifts the incoming differentials across a
// mirror bounce
func reflectedDifferential(ray *core.Ray, si *core.SurfaceInteraction, wi core.Vec3) *core.RayDifferential {
	ns := si.Shading.N
	dndx := si.Shading.Dndu.Multiply(si.Dudx).Add(si.Shading.Dndv.Multiply(si.Dvdx))
	dndy := si.Shading.Dndu.Multiply(si.Dudy).Add(si.Shading.Dndv.Multiply(si.Dvdy))

	wo := si.Wo
	dwodx := ray.Differential.RxDirection.Negate().Subtract(wo.Negate())
	dwody := ray.Differential.RyDirection.Negate().Subtract(wo.Negate())
	dDNdx := dwodx.Dot(ns) + wo.Dot(dndx)
	dDNdy := dwody.Dot(ns) + wo.Dot(dndy)

	return &core.RayDifferential{
		RxOrigin: si.P.Add(si.Dpdx),
		RyOrigin: si.P.Add(si.Dpdy),
		RxDirection: wi.Subtract(dwodx).
			Add(dndx.Multiply(wo.Dot(ns)).Add(ns.Multiply(dDNdx)).Multiply(2)),
		RyDirection: wi.Subtract(dwody).
			Add(dndy.Multiply(wo.Dot(ns)).Add(ns.Multiply(dDNdy)).Multiply(2)),
	}
}

// transmittedDifferential shifts the differentials across a refraction
func transmittedDifferential(ray *core.Ray, si *core.SurfaceInteraction, wi core.Vec3) *core.RayDifferential {
	ns := si.Shading.N
	wo := si.Wo
	eta := 1 / si.BSDF.Eta()
	if wo.Dot(ns) < 0 {
		eta = 1 / eta
		ns = ns.Negate()
	}

	dndx := si.Shading.Dndu.Multiply(si.Dudx).Add(si.Shading.Dndv.Multiply(si.Dvdx))
	dndy := si.Shading.Dndu.Multiply(si.Dudy).Add(si.Shading.Dndv.Multiply(si.Dvdy))
	if wo.Dot(si.Shading.N) < 0 {
		dndx = dndx.Negate()
		dndy = dndy.Negate()
	}

	dwodx := ray.Differential.RxDirection.Negate().Subtract(wo.Negate())
	dwody := ray.Differential.RyDirection.Negate().Subtract(wo.Negate())
	dDNdx := dwodx.Dot(ns) + wo.Dot(dndx)
	dDNdy := dwody.Dot(ns) + wo.Dot(dndy)

	mu := eta*wo.Dot(ns) - math.Abs(wi.Dot(ns))
	dmudx := (eta - (eta*eta*wo.Dot(ns))/math.Abs(wi.Dot(ns))) * dDNdx
	dmudy := (eta - (eta*eta*wo.Dot(ns))/math.Abs(wi.Dot(ns))) * dDNdy

	return &core.RayDifferential{
		RxOrigin: si.P.Add(si.Dpdx),
		RyOrigin: si.P.Add(si.Dpdy),
		RxDirection: wi.Add(dwodx.Multiply(eta)).
			Subtract(dndx.Multiply(mu).Add(ns.Multiply(dmudx))),
		RyDirection: wi.Add(dwody.Multiply(eta)).
			Subtract(dndy.Multiply(mu).Add(ns.Multiply(dmudy))),
	}
}
