package bsdf

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
)

// OrenNayar models diffuse reflection from rough surfaces built of
// V-shaped microfacets. With sigma=0 it degenerates to Lambertian.
type OrenNayar struct {
	R    core.Vec3
	a, b float64
}

// NewOrenNayar creates the model from a reflectance and a roughness
// standard deviation sigma given in degrees
func NewOrenNayar(r core.Vec3, sigma float64) *OrenNayar {
	sigma = sigma * math.Pi / 180
	sigma2 := sigma * sigma
	return &OrenNayar{
		R: r,
		a: 1 - (sigma2 / (2 * (sigma2 + 0.33))),
		b: 0.45 * sigma2 / (sigma2 + 0.09),
	}
}

func (o *OrenNayar) Type() core.BxDFType {
	return core.BSDFReflection | core.BSDFDiffuse
}

func (o *OrenNayar) F(wo, wi core.Vec3) core.Vec3 {
	sinThetaI := SinTheta(wi)
	sinThetaO := SinTheta(wo)

	// cos(phi_i - phi_o) expanded so the azimuths never have to be
	// recovered explicitly
	maxCos := 0.0
	if sinThetaI > 1e-4 && sinThetaO > 1e-4 {
		dCos := CosPhi(wi)*CosPhi(wo) + SinPhi(wi)*SinPhi(wo)
		maxCos = math.Max(0, dCos)
	}

	var sinAlpha, tanBeta float64
	if AbsCosTheta(wi) > AbsCosTheta(wo) {
		sinAlpha = sinThetaO
		tanBeta = sinThetaI / AbsCosTheta(wi)
	} else {
		sinAlpha = sinThetaI
		tanBeta = sinThetaO / AbsCosTheta(wo)
	}
	return o.R.Multiply((o.a + o.b*maxCos*sinAlpha*tanBeta) / math.Pi)
}

func (o *OrenNayar) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, core.BxDFType) {
	return cosineSampleF(o, wo, u)
}

func (o *OrenNayar) Pdf(wo, wi core.Vec3) float64 {
	return cosinePdf(wo, wi)
}
