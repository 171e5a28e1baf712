package bsdf

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
)

// BSDF aggregates the lobes at a shading point and owns the
// world/local transform. The shading frame is built from the shading
// normal and the primary tangent; the geometric normal decides which
// side of the surface a world direction is on, so shading-normal
// artifacts cannot leak light through the surface.
type BSDF struct {
	eta    float64
	ns, ng core.Vec3
	ss, ts core.Vec3
	bxdfs  []BxDF
}

// New builds a BSDF from a surface interaction and the relative index
// of refraction across the interface (1 for opaque surfaces)
func New(si *core.SurfaceInteraction, eta float64) *BSDF {
	ns := si.Shading.N
	ss := si.Shading.Dpdu.Normalize()
	return &BSDF{
		eta: eta,
		ns:  ns,
		ng:  si.N,
		ss:  ss,
		ts:  ns.Cross(ss),
	}
}

// Add appends a lobe. Called only during BSDF construction.
func (b *BSDF) Add(bx BxDF) {
	b.bxdfs = append(b.bxdfs, bx)
}

func (b *BSDF) NumComponents(flags core.BxDFType) int {
	n := 0
	for _, bx := range b.bxdfs {
		if MatchesFlags(bx.Type(), flags) {
			n++
		}
	}
	return n
}

// WorldToLocal expresses a world direction in the shading frame
func (b *BSDF) WorldToLocal(v core.Vec3) core.Vec3 {
	return core.NewVec3(v.Dot(b.ss), v.Dot(b.ts), v.Dot(b.ns))
}

// LocalToWorld expresses a shading-frame direction in world space
func (b *BSDF) LocalToWorld(v core.Vec3) core.Vec3 {
	return core.NewVec3(
		b.ss.X*v.X+b.ts.X*v.Y+b.ns.X*v.Z,
		b.ss.Y*v.X+b.ts.Y*v.Y+b.ns.Y*v.Z,
		b.ss.Z*v.X+b.ts.Z*v.Y+b.ns.Z*v.Z,
	)
}

func (b *BSDF) Eta() float64 {
	return b.eta
}

func (b *BSDF) F(woW, wiW core.Vec3, flags core.BxDFType) core.Vec3 {
	wo := b.WorldToLocal(woW)
	if wo.Z == 0 {
		return core.Vec3{}
	}
	wi := b.WorldToLocal(wiW)

	// The geometric normal classifies reflection vs transmission
	reflect := wiW.Dot(b.ng)*woW.Dot(b.ng) > 0

	f := core.Vec3{}
	for _, bx := range b.bxdfs {
		if !MatchesFlags(bx.Type(), flags) {
			continue
		}
		t := bx.Type()
		if (reflect && t&core.BSDFReflection != 0) ||
			(!reflect && t&core.BSDFTransmission != 0) {
			f = f.Add(bx.F(wo, wi))
		}
	}
	return f
}

func (b *BSDF) Pdf(woW, wiW core.Vec3, flags core.BxDFType) float64 {
	if len(b.bxdfs) == 0 {
		return 0
	}
	wo := b.WorldToLocal(woW)
	if wo.Z == 0 {
		return 0
	}
	wi := b.WorldToLocal(wiW)

	pdf := 0.0
	matching := 0
	for _, bx := range b.bxdfs {
		if MatchesFlags(bx.Type(), flags) {
			matching++
			pdf += bx.Pdf(wo, wi)
		}
	}
	if matching == 0 {
		return 0
	}
	return pdf / float64(matching)
}

func (b *BSDF) SampleF(woW core.Vec3, u core.Vec2, flags core.BxDFType) (core.Vec3, core.Vec3, float64, core.BxDFType) {
	matching := b.NumComponents(flags)
	if matching == 0 {
		return core.Vec3{}, core.Vec3{}, 0, 0
	}

	// Choose a lobe uniformly among the matching ones and remap u.X so
	// the chosen lobe still sees a uniform sample
	comp := int(math.Min(math.Floor(u.X*float64(matching)), float64(matching-1)))
	var chosen BxDF
	count := comp
	for _, bx := range b.bxdfs {
		if MatchesFlags(bx.Type(), flags) {
			if count == 0 {
				chosen = bx
				break
			}
			count--
		}
	}
	uRemapped := core.NewVec2(
		math.Min(u.X*float64(matching)-float64(comp), oneMinusEpsilon),
		u.Y,
	)

	wo := b.WorldToLocal(woW)
	if wo.Z == 0 {
		return core.Vec3{}, core.Vec3{}, 0, 0
	}
	f, wi, pdf, sampledType := chosen.SampleF(wo, uRemapped)
	if pdf == 0 {
		return core.Vec3{}, core.Vec3{}, 0, sampledType
	}
	wiW := b.LocalToWorld(wi)

	// Average the PDF over the other matching non-specular lobes
	if chosen.Type()&core.BSDFSpecular == 0 && matching > 1 {
		for _, bx := range b.bxdfs {
			if bx != chosen && MatchesFlags(bx.Type(), flags) {
				pdf += bx.Pdf(wo, wi)
			}
		}
	}
	if matching > 1 {
		pdf /= float64(matching)
	}

	// Re-sum F over all matching lobes for the actual direction pair,
	// unless the sampled lobe is specular and its value stands alone
	if chosen.Type()&core.BSDFSpecular == 0 {
		reflect := wiW.Dot(b.ng)*woW.Dot(b.ng) > 0
		f = core.Vec3{}
		for _, bx := range b.bxdfs {
			if !MatchesFlags(bx.Type(), flags) {
				continue
			}
			t := bx.Type()
			if (reflect && t&core.BSDFReflection != 0) ||
				(!reflect && t&core.BSDFTransmission != 0) {
				f = f.Add(bx.F(wo, wi))
			}
		}
	}
	return f, wiW, pdf, sampledType
}
