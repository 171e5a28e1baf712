package bsdf

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
)

// SpecularReflection is a perfect mirror. F and Pdf are zero since the
// distribution is a delta; all its energy comes out of SampleF.
type SpecularReflection struct {
	R       core.Vec3
	Fresnel Fresnel
}

func (s *SpecularReflection) Type() core.BxDFType {
	return core.BSDFReflection | core.BSDFSpecular
}

func (s *SpecularReflection) F(wo, wi core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (s *SpecularReflection) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, core.BxDFType) {
	wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
	f := s.Fresnel.Evaluate(CosTheta(wi)).MultiplyVec(s.R).Divide(AbsCosTheta(wi))
	return f, wi, 1, s.Type()
}

func (s *SpecularReflection) Pdf(wo, wi core.Vec3) float64 {
	return 0
}

// SpecularTransmission is perfect refraction through a smooth
// dielectric boundary
type SpecularTransmission struct {
	T          core.Vec3
	EtaA, EtaB float64
	Mode       core.TransportMode
}

func (s *SpecularTransmission) Type() core.BxDFType {
	return core.BSDFTransmission | core.BSDFSpecular
}

func (s *SpecularTransmission) F(wo, wi core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (s *SpecularTransmission) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, core.BxDFType) {
	entering := CosTheta(wo) > 0
	etaI, etaT := s.EtaA, s.EtaB
	if !entering {
		etaI, etaT = s.EtaB, s.EtaA
	}

	n := core.FaceForward(core.NewVec3(0, 0, 1), wo)
	wi, ok := Refract(wo, n, etaI/etaT)
	if !ok {
		return core.Vec3{}, core.Vec3{}, 0, s.Type()
	}

	ft := s.T.Multiply(1 - FrDielectric(CosTheta(wi), s.EtaA, s.EtaB))
	// Radiance scales by eta^2 across the boundary; importance does not
	if s.Mode == core.TransportRadiance {
		ft = ft.Multiply((etaI * etaI) / (etaT * etaT))
	}
	return ft.Divide(AbsCosTheta(wi)), wi, 1, s.Type()
}

func (s *SpecularTransmission) Pdf(wo, wi core.Vec3) float64 {
	return 0
}

// FresnelSpecular couples specular reflection and transmission,
// choosing between them with probability equal to the Fresnel
// reflectance so the estimator stays unweighted
type FresnelSpecular struct {
	R, T       core.Vec3
	EtaA, EtaB float64
	Mode       core.TransportMode
}

func (s *FresnelSpecular) Type() core.BxDFType {
	return core.BSDFReflection | core.BSDFTransmission | core.BSDFSpecular
}

func (s *FresnelSpecular) F(wo, wi core.Vec3) core.Vec3 {
	return core.Vec3{}
}

func (s *FresnelSpecular) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, core.BxDFType) {
	fr := FrDielectric(CosTheta(wo), s.EtaA, s.EtaB)
	if u.X < fr {
		wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
		f := s.R.Multiply(fr / AbsCosTheta(wi))
		return f, wi, fr, core.BSDFReflection | core.BSDFSpecular
	}

	entering := CosTheta(wo) > 0
	etaI, etaT := s.EtaA, s.EtaB
	if !entering {
		etaI, etaT = s.EtaB, s.EtaA
	}
	n := core.FaceForward(core.NewVec3(0, 0, 1), wo)
	wi, ok := Refract(wo, n, etaI/etaT)
	if !ok {
		return core.Vec3{}, core.Vec3{}, 0, s.Type()
	}
	ft := s.T.Multiply(1 - fr)
	if s.Mode == core.TransportRadiance {
		ft = ft.Multiply((etaI * etaI) / (etaT * etaT))
	}
	return ft.Divide(AbsCosTheta(wi)), wi, 1 - fr, core.BSDFTransmission | core.BSDFSpecular
}

func (s *FresnelSpecular) Pdf(wo, wi core.Vec3) float64 {
	return 0
}

// FresnelBlend layers a glossy coat over a diffuse base, blending the
// two with a Schlick Fresnel approximation so the coat dominates at
// grazing angles
type FresnelBlend struct {
	Rd, Rs       core.Vec3
	Distribution MicrofacetDistribution
}

func (fb *FresnelBlend) Type() core.BxDFType {
	return core.BSDFReflection | core.BSDFGlossy
}

func (fb *FresnelBlend) schlickFresnel(cosTheta float64) core.Vec3 {
	pow5 := func(v float64) float64 { return (v * v) * (v * v) * v }
	one := core.Grey(1)
	return fb.Rs.Add(one.Subtract(fb.Rs).Multiply(pow5(1 - cosTheta)))
}

func (fb *FresnelBlend) F(wo, wi core.Vec3) core.Vec3 {
	pow5 := func(v float64) float64 { return (v * v) * (v * v) * v }
	one := core.Grey(1)
	diffuse := fb.Rd.Multiply(28 / (23 * math.Pi)).
		MultiplyVec(one.Subtract(fb.Rs)).
		Multiply((1 - pow5(1-0.5*AbsCosTheta(wi))) *
			(1 - pow5(1-0.5*AbsCosTheta(wo))))

	wh := wi.Add(wo)
	if wh.IsBlack() {
		return core.Vec3{}
	}
	wh = wh.Normalize()
	specular := fb.schlickFresnel(wi.Dot(wh)).
		Multiply(fb.Distribution.D(wh) /
			(4 * wi.AbsDot(wh) * math.Max(AbsCosTheta(wi), AbsCosTheta(wo))))
	return diffuse.Add(specular)
}

func (fb *FresnelBlend) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, core.BxDFType) {
	var wi core.Vec3
	if u.X < 0.5 {
		// Reuse the sample for the cosine hemisphere draw
		u.X = math.Min(2*u.X, oneMinusEpsilon)
		f, wi, _, typ := cosineSampleF(fb, wo, u)
		return f, wi, fb.Pdf(wo, wi), typ
	}
	u.X = math.Min(2*(u.X-0.5), oneMinusEpsilon)
	wh := fb.Distribution.SampleWh(wo, u)
	wi = Reflect(wo, wh)
	if !SameHemisphere(wo, wi) {
		return core.Vec3{}, wi, 0, fb.Type()
	}
	return fb.F(wo, wi), wi, fb.Pdf(wo, wi), fb.Type()
}

func (fb *FresnelBlend) Pdf(wo, wi core.Vec3) float64 {
	if !SameHemisphere(wo, wi) {
		return 0
	}
	wh := wo.Add(wi).Normalize()
	pdfWh := fb.Distribution.Pdf(wo, wh)
	return 0.5 * (AbsCosTheta(wi)/math.Pi + pdfWh/(4*wo.Dot(wh)))
}
