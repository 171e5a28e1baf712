package bsdf

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
	"github.com/spindle-render/go-spindle/pkg/sampling"
)

// oneMinusEpsilon caps remapped samples just under 1
const oneMinusEpsilon = 1 - 0x1p-53

// BxDF is a single scattering lobe in the reflection frame. Directions
// passed to F, SampleF and Pdf are frame-local with the shading normal
// along +z.
type BxDF interface {
	// Type returns the lobe's classification flags
	Type() core.BxDFType

	// F evaluates the lobe for a pair of directions. Specular lobes
	// return black here since their distribution is a delta.
	F(wo, wi core.Vec3) core.Vec3

	// SampleF draws an incident direction for the given outgoing one
	// and returns the lobe value, the direction, its density and the
	// type of the sampled component
	SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, core.BxDFType)

	// Pdf returns the density SampleF uses for the direction pair
	Pdf(wo, wi core.Vec3) float64
}

// MatchesFlags reports whether a lobe of type t is selected by the
// given flags
func MatchesFlags(t, flags core.BxDFType) bool {
	return t&flags == t
}

// cosineSampleF is the default sampling strategy shared by the
// non-specular lobes: cosine-weighted hemisphere sampling, flipped to
// wo's side of the surface.
func cosineSampleF(b BxDF, wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, core.BxDFType) {
	wi := sampling.CosineSampleHemisphere(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	return b.F(wo, wi), wi, b.Pdf(wo, wi), b.Type()
}

// cosinePdf is the density matching cosineSampleF
func cosinePdf(wo, wi core.Vec3) float64 {
	if !SameHemisphere(wo, wi) {
		return 0
	}
	return AbsCosTheta(wi) / math.Pi
}
