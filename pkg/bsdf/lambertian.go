package bsdf

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
	"github.com/spindle-render/go-spindle/pkg/sampling"
)

// LambertianReflection scatters incident light equally in all
// directions of the upper hemisphere
type LambertianReflection struct {
	R core.Vec3
}

func (l *LambertianReflection) Type() core.BxDFType {
	return core.BSDFReflection | core.BSDFDiffuse
}

func (l *LambertianReflection) F(wo, wi core.Vec3) core.Vec3 {
	return l.R.Divide(math.Pi)
}

func (l *LambertianReflection) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, core.BxDFType) {
	return cosineSampleF(l, wo, u)
}

func (l *LambertianReflection) Pdf(wo, wi core.Vec3) float64 {
	return cosinePdf(wo, wi)
}

// LambertianTransmission scatters incident light equally into the
// opposite hemisphere
type LambertianTransmission struct {
	T core.Vec3
}

func (l *LambertianTransmission) Type() core.BxDFType {
	return core.BSDFTransmission | core.BSDFDiffuse
}

func (l *LambertianTransmission) F(wo, wi core.Vec3) core.Vec3 {
	return l.T.Divide(math.Pi)
}

func (l *LambertianTransmission) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, core.BxDFType) {
	wi := sampling.CosineSampleHemisphere(u)
	// Transmission flips to the far side of the surface
	if wo.Z > 0 {
		wi.Z = -wi.Z
	}
	return l.F(wo, wi), wi, l.Pdf(wo, wi), l.Type()
}

func (l *LambertianTransmission) Pdf(wo, wi core.Vec3) float64 {
	if SameHemisphere(wo, wi) {
		return 0
	}
	return AbsCosTheta(wi) / math.Pi
}
