package bsdf

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
)

// MicrofacetDistribution describes the statistics of a rough
// microsurface: the density of facet normals and the masking-shadowing
// of directions against them. Sampling draws only visible facets,
// which keeps weights near one.
type MicrofacetDistribution interface {
	// D returns the differential area of facets oriented along wh
	D(wh core.Vec3) float64

	// Lambda measures invisible masked area for a direction; G1 and G
	// derive from it
	Lambda(w core.Vec3) float64

	// SampleWh draws a facet normal visible from wo
	SampleWh(wo core.Vec3, u core.Vec2) core.Vec3

	// Pdf returns the density of SampleWh for a facet normal
	Pdf(wo, wh core.Vec3) float64
}

// G1 is the fraction of facets along w that are visible
func G1(d MicrofacetDistribution, w core.Vec3) float64 {
	return 1 / (1 + d.Lambda(w))
}

// G is the joint visibility of a direction pair
func G(d MicrofacetDistribution, wo, wi core.Vec3) float64 {
	return 1 / (1 + d.Lambda(wo) + d.Lambda(wi))
}

func microfacetPdf(d MicrofacetDistribution, wo, wh core.Vec3) float64 {
	return d.D(wh) * G1(d, wo) * wo.AbsDot(wh) / AbsCosTheta(wo)
}

// RoughnessToAlpha remaps a perceptually linear roughness in (0,1] to
// a distribution width
func RoughnessToAlpha(roughness float64) float64 {
	roughness = math.Max(roughness, 1e-3)
	x := math.Log(roughness)
	return 1.62142 + 0.819955*x + 0.1734*x*x + 0.0171201*x*x*x + 0.000640711*x*x*x*x
}

// BeckmannDistribution is the classic Gaussian-slope microfacet model
type BeckmannDistribution struct {
	alphaX, alphaY float64
}

func NewBeckmannDistribution(alphaX, alphaY float64) *BeckmannDistribution {
	return &BeckmannDistribution{alphaX: math.Max(alphaX, 1e-4), alphaY: math.Max(alphaY, 1e-4)}
}

func (b *BeckmannDistribution) D(wh core.Vec3) float64 {
	tan2Theta := Tan2Theta(wh)
	if math.IsInf(tan2Theta, 0) {
		return 0
	}
	cos4Theta := Cos2Theta(wh) * Cos2Theta(wh)
	return math.Exp(-tan2Theta*(Cos2Phi(wh)/(b.alphaX*b.alphaX)+
		Sin2Phi(wh)/(b.alphaY*b.alphaY))) /
		(math.Pi * b.alphaX * b.alphaY * cos4Theta)
}

func (b *BeckmannDistribution) Lambda(w core.Vec3) float64 {
	absTanTheta := math.Abs(TanTheta(w))
	if math.IsInf(absTanTheta, 0) {
		return 0
	}
	alpha := math.Sqrt(Cos2Phi(w)*b.alphaX*b.alphaX + Sin2Phi(w)*b.alphaY*b.alphaY)
	a := 1 / (alpha * absTanTheta)
	if a >= 1.6 {
		return 0
	}
	return (1 - 1.259*a + 0.396*a*a) / (3.535*a + 2.181*a*a)
}

func (b *BeckmannDistribution) SampleWh(wo core.Vec3, u core.Vec2) core.Vec3 {
	flip := wo.Z < 0
	w := wo
	if flip {
		w = wo.Negate()
	}
	wh := beckmannSampleVisible(w, b.alphaX, b.alphaY, u)
	if flip {
		wh = wh.Negate()
	}
	return wh
}

func (b *BeckmannDistribution) Pdf(wo, wh core.Vec3) float64 {
	return microfacetPdf(b, wo, wh)
}

// beckmannSampleVisible samples the visible slope distribution in the
// stretched frame, then rotates and unstretches the result
func beckmannSampleVisible(wi core.Vec3, alphaX, alphaY float64, u core.Vec2) core.Vec3 {
	// Stretch wi so the surface has unit roughness
	wiStretched := core.NewVec3(alphaX*wi.X, alphaY*wi.Y, wi.Z).Normalize()

	slopeX, slopeY := beckmannSample11(CosTheta(wiStretched), u)

	// Rotate into wi's azimuth
	tmp := CosPhi(wiStretched)*slopeX - SinPhi(wiStretched)*slopeY
	slopeY = SinPhi(wiStretched)*slopeX + CosPhi(wiStretched)*slopeY
	slopeX = tmp

	// Unstretch
	slopeX = alphaX * slopeX
	slopeY = alphaY * slopeY

	return core.NewVec3(-slopeX, -slopeY, 1).Normalize()
}

func beckmannSample11(cosThetaI float64, u core.Vec2) (float64, float64) {
	// Normal incidence has an isotropic Gaussian slope distribution
	if cosThetaI > 0.9999 {
		r := math.Sqrt(-math.Log(1 - u.X))
		phi := 2 * math.Pi * u.Y
		return r * math.Cos(phi), r * math.Sin(phi)
	}

	sinThetaI := math.Sqrt(math.Max(0, 1-cosThetaI*cosThetaI))
	tanThetaI := sinThetaI / cosThetaI
	cotThetaI := 1 / tanThetaI

	// Invert the marginal CDF of visible slopes by bisection over the
	// reparameterized variable
	sampleX := math.Max(u.X, 1e-6)
	thetaI := math.Acos(cosThetaI)
	fit := 1 + thetaI*(-0.876+thetaI*(0.4265-0.0594*thetaI))
	bUpper := math.Erf(cotThetaI)
	b := bUpper - (1-sampleX)*(1-math.Pow(1-sampleX, fit))*(bUpper+1)

	normalization := 1 / (1 + bUpper + 1/math.Sqrt(math.Pi)*tanThetaI*math.Exp(-cotThetaI*cotThetaI))
	for it := 0; it < 10; it++ {
		if b < -1 {
			b = -1 + 1e-6
		} else if b > bUpper {
			b = bUpper - 1e-6
		}
		invErf := erfInv(b)
		value := normalization*(1+b+1/math.Sqrt(math.Pi)*tanThetaI*math.Exp(-invErf*invErf)) - sampleX
		derivative := normalization * (1 - invErf*tanThetaI)
		if math.Abs(value) < 1e-5 {
			break
		}
		b -= value / derivative
	}

	slopeX := erfInv(b)
	slopeY := erfInv(2*math.Max(u.Y, 1e-6) - 1)
	return slopeX, slopeY
}

// TrowbridgeReitzDistribution (GGX) has heavier tails than Beckmann,
// matching measured rough surfaces better
type TrowbridgeReitzDistribution struct {
	alphaX, alphaY float64
}

func NewTrowbridgeReitzDistribution(alphaX, alphaY float64) *TrowbridgeReitzDistribution {
	return &TrowbridgeReitzDistribution{alphaX: math.Max(alphaX, 1e-4), alphaY: math.Max(alphaY, 1e-4)}
}

func (t *TrowbridgeReitzDistribution) D(wh core.Vec3) float64 {
	tan2Theta := Tan2Theta(wh)
	if math.IsInf(tan2Theta, 0) {
		return 0
	}
	cos4Theta := Cos2Theta(wh) * Cos2Theta(wh)
	e := (Cos2Phi(wh)/(t.alphaX*t.alphaX) + Sin2Phi(wh)/(t.alphaY*t.alphaY)) * tan2Theta
	return 1 / (math.Pi * t.alphaX * t.alphaY * cos4Theta * (1 + e) * (1 + e))
}

func (t *TrowbridgeReitzDistribution) Lambda(w core.Vec3) float64 {
	absTanTheta := math.Abs(TanTheta(w))
	if math.IsInf(absTanTheta, 0) {
		return 0
	}
	alpha := math.Sqrt(Cos2Phi(w)*t.alphaX*t.alphaX + Sin2Phi(w)*t.alphaY*t.alphaY)
	alpha2Tan2Theta := (alpha * absTanTheta) * (alpha * absTanTheta)
	return (-1 + math.Sqrt(1+alpha2Tan2Theta)) / 2
}

func (t *TrowbridgeReitzDistribution) SampleWh(wo core.Vec3, u core.Vec2) core.Vec3 {
	flip := wo.Z < 0
	w := wo
	if flip {
		w = wo.Negate()
	}
	wh := trowbridgeReitzSampleVisible(w, t.alphaX, t.alphaY, u)
	if flip {
		wh = wh.Negate()
	}
	return wh
}

func (t *TrowbridgeReitzDistribution) Pdf(wo, wh core.Vec3) float64 {
	return microfacetPdf(t, wo, wh)
}

func trowbridgeReitzSampleVisible(wi core.Vec3, alphaX, alphaY float64, u core.Vec2) core.Vec3 {
	wiStretched := core.NewVec3(alphaX*wi.X, alphaY*wi.Y, wi.Z).Normalize()

	slopeX, slopeY := trowbridgeReitzSample11(CosTheta(wiStretched), u)

	tmp := CosPhi(wiStretched)*slopeX - SinPhi(wiStretched)*slopeY
	slopeY = SinPhi(wiStretched)*slopeX + CosPhi(wiStretched)*slopeY
	slopeX = tmp

	slopeX = alphaX * slopeX
	slopeY = alphaY * slopeY

	return core.NewVec3(-slopeX, -slopeY, 1).Normalize()
}

func trowbridgeReitzSample11(cosTheta float64, u core.Vec2) (float64, float64) {
	if cosTheta > 0.9999 {
		r := math.Sqrt(u.X / (1 - u.X))
		phi := 2 * math.Pi * u.Y
		return r * math.Cos(phi), r * math.Sin(phi)
	}

	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	tanTheta := sinTheta / cosTheta
	a := 1 / tanTheta
	g1 := 2 / (1 + math.Sqrt(1+1/(a*a)))

	// Sample slopeX
	aa := 2*u.X/g1 - 1
	tmp := 1 / (aa*aa - 1)
	if tmp > 1e10 {
		tmp = 1e10
	}
	bb := tanTheta
	d := math.Sqrt(math.Max(0, bb*bb*tmp*tmp-(aa*aa-bb*bb)*tmp))
	slopeX1 := bb*tmp - d
	slopeX2 := bb*tmp + d
	var slopeX float64
	if aa < 0 || slopeX2 > 1/tanTheta {
		slopeX = slopeX1
	} else {
		slopeX = slopeX2
	}

	// Sample slopeY
	var s, uy float64
	if u.Y > 0.5 {
		s = 1
		uy = 2 * (u.Y - 0.5)
	} else {
		s = -1
		uy = 2 * (0.5 - u.Y)
	}
	z := (uy * (uy*(uy*0.27385-0.73369) + 0.46341)) /
		(uy*(uy*(uy*0.093073+0.309420)-1.000000) + 0.597999)
	slopeY := s * z * math.Sqrt(1+slopeX*slopeX)

	return slopeX, slopeY
}

// MicrofacetReflection combines a facet distribution with a Fresnel
// term in the Torrance-Sparrow model
type MicrofacetReflection struct {
	R            core.Vec3
	Distribution MicrofacetDistribution
	Fresnel      Fresnel
}

func (m *MicrofacetReflection) Type() core.BxDFType {
	return core.BSDFReflection | core.BSDFGlossy
}

func (m *MicrofacetReflection) F(wo, wi core.Vec3) core.Vec3 {
	cosThetaO := AbsCosTheta(wo)
	cosThetaI := AbsCosTheta(wi)
	wh := wi.Add(wo)
	// Degenerate grazing or opposing directions
	if cosThetaI == 0 || cosThetaO == 0 {
		return core.Vec3{}
	}
	if wh.IsBlack() {
		return core.Vec3{}
	}
	wh = wh.Normalize()
	f := m.Fresnel.Evaluate(wi.Dot(core.FaceForward(wh, core.NewVec3(0, 0, 1))))
	return m.R.MultiplyVec(f).
		Multiply(m.Distribution.D(wh) * G(m.Distribution, wo, wi) /
			(4 * cosThetaI * cosThetaO))
}

func (m *MicrofacetReflection) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, core.BxDFType) {
	if wo.Z == 0 {
		return core.Vec3{}, core.Vec3{}, 0, m.Type()
	}
	wh := m.Distribution.SampleWh(wo, u)
	if wo.Dot(wh) < 0 {
		return core.Vec3{}, core.Vec3{}, 0, m.Type()
	}
	wi := Reflect(wo, wh)
	if !SameHemisphere(wo, wi) {
		return core.Vec3{}, wi, 0, m.Type()
	}
	// Change of variables from wh to wi
	pdf := m.Distribution.Pdf(wo, wh) / (4 * wo.Dot(wh))
	return m.F(wo, wi), wi, pdf, m.Type()
}

func (m *MicrofacetReflection) Pdf(wo, wi core.Vec3) float64 {
	if !SameHemisphere(wo, wi) {
		return 0
	}
	wh := wo.Add(wi).Normalize()
	return m.Distribution.Pdf(wo, wh) / (4 * wo.Dot(wh))
}

// MicrofacetTransmission is the rough-dielectric transmission model
type MicrofacetTransmission struct {
	T            core.Vec3
	Distribution MicrofacetDistribution
	EtaA, EtaB   float64
	Mode         core.TransportMode
}

func (m *MicrofacetTransmission) fresnel() FresnelDielectric {
	return FresnelDielectric{EtaI: m.EtaA, EtaT: m.EtaB}
}

func (m *MicrofacetTransmission) Type() core.BxDFType {
	return core.BSDFTransmission | core.BSDFGlossy
}

func (m *MicrofacetTransmission) F(wo, wi core.Vec3) core.Vec3 {
	if SameHemisphere(wo, wi) {
		return core.Vec3{}
	}

	cosThetaO := CosTheta(wo)
	cosThetaI := CosTheta(wi)
	if cosThetaI == 0 || cosThetaO == 0 {
		return core.Vec3{}
	}

	eta := m.EtaB / m.EtaA
	if cosThetaO <= 0 {
		eta = m.EtaA / m.EtaB
	}
	wh := wo.Add(wi.Multiply(eta)).Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}
	if wo.Dot(wh)*wi.Dot(wh) > 0 {
		return core.Vec3{}
	}

	f := m.fresnel().Evaluate(wo.Dot(wh))
	sqrtDenom := wo.Dot(wh) + eta*wi.Dot(wh)
	factor := 1.0
	if m.Mode == core.TransportRadiance {
		factor = 1 / eta
	}

	one := core.Grey(1)
	return one.Subtract(f).MultiplyVec(m.T).
		Multiply(math.Abs(m.Distribution.D(wh) * G(m.Distribution, wo, wi) * eta * eta *
			wi.AbsDot(wh) * wo.AbsDot(wh) * factor * factor /
			(cosThetaI * cosThetaO * sqrtDenom * sqrtDenom)))
}

func (m *MicrofacetTransmission) SampleF(wo core.Vec3, u core.Vec2) (core.Vec3, core.Vec3, float64, core.BxDFType) {
	if wo.Z == 0 {
		return core.Vec3{}, core.Vec3{}, 0, m.Type()
	}
	wh := m.Distribution.SampleWh(wo, u)
	if wo.Dot(wh) < 0 {
		return core.Vec3{}, core.Vec3{}, 0, m.Type()
	}
	eta := m.EtaA / m.EtaB
	if CosTheta(wo) <= 0 {
		eta = m.EtaB / m.EtaA
	}
	wi, ok := Refract(wo, wh, eta)
	if !ok {
		return core.Vec3{}, core.Vec3{}, 0, m.Type()
	}
	return m.F(wo, wi), wi, m.Pdf(wo, wi), m.Type()
}

func (m *MicrofacetTransmission) Pdf(wo, wi core.Vec3) float64 {
	if SameHemisphere(wo, wi) {
		return 0
	}
	eta := m.EtaB / m.EtaA
	if CosTheta(wo) <= 0 {
		eta = m.EtaA / m.EtaB
	}
	wh := wo.Add(wi.Multiply(eta)).Normalize()
	if wo.Dot(wh)*wi.Dot(wh) > 0 {
		return 0
	}
	sqrtDenom := wo.Dot(wh) + eta*wi.Dot(wh)
	dwhDwi := math.Abs((eta * eta * wi.Dot(wh)) / (sqrtDenom * sqrtDenom))
	return m.Distribution.Pdf(wo, wh) * dwhDwi
}
