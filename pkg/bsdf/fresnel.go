package bsdf

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
)

// FrDielectric evaluates the unpolarized Fresnel reflectance at a
// dielectric interface. etaI and etaT are the indices on the incident
// and transmitted sides; a negative cosThetaI means the ray arrives
// from inside the medium and the indices are swapped.
func FrDielectric(cosThetaI, etaI, etaT float64) float64 {
	cosThetaI = clamp(cosThetaI, -1, 1)
	if cosThetaI <= 0 {
		etaI, etaT = etaT, etaI
		cosThetaI = math.Abs(cosThetaI)
	}

	sinThetaI := math.Sqrt(math.Max(0, 1-cosThetaI*cosThetaI))
	sinThetaT := etaI / etaT * sinThetaI
	// Total internal reflection
	if sinThetaT >= 1 {
		return 1
	}
	cosThetaT := math.Sqrt(math.Max(0, 1-sinThetaT*sinThetaT))

	rParl := ((etaT * cosThetaI) - (etaI * cosThetaT)) /
		((etaT * cosThetaI) + (etaI * cosThetaT))
	rPerp := ((etaI * cosThetaI) - (etaT * cosThetaT)) /
		((etaI * cosThetaI) + (etaT * cosThetaT))
	return (rParl*rParl + rPerp*rPerp) / 2
}

// FrConductor evaluates the Fresnel reflectance of a conductor with
// per-channel index eta and absorption coefficient k
func FrConductor(cosThetaI float64, etaI, etaT, k core.Vec3) core.Vec3 {
	cosThetaI = clamp(cosThetaI, -1, 1)
	eta := etaT.DivideVec(etaI)
	etaK := k.DivideVec(etaI)

	cos2 := cosThetaI * cosThetaI
	sin2 := 1 - cos2
	eta2 := eta.MultiplyVec(eta)
	etaK2 := etaK.MultiplyVec(etaK)

	t0 := eta2.Subtract(etaK2).Subtract(core.Grey(sin2))
	a2plusb2 := sqrtVec(t0.MultiplyVec(t0).Add(eta2.MultiplyVec(etaK2).Multiply(4)))
	t1 := a2plusb2.Add(core.Grey(cos2))
	a := sqrtVec(a2plusb2.Add(t0).Multiply(0.5).Abs())
	t2 := a.Multiply(2 * cosThetaI)
	rs := t1.Subtract(t2).DivideVec(t1.Add(t2))

	t3 := a2plusb2.Multiply(cos2).Add(core.Grey(sin2 * sin2))
	t4 := t2.Multiply(sin2)
	rp := rs.MultiplyVec(t3.Subtract(t4).DivideVec(t3.Add(t4)))

	return rp.Add(rs).Multiply(0.5)
}

func sqrtVec(v core.Vec3) core.Vec3 {
	return core.NewVec3(math.Sqrt(v.X), math.Sqrt(v.Y), math.Sqrt(v.Z))
}

// Fresnel computes the fraction of light reflected at an interface for
// a given incident cosine
type Fresnel interface {
	Evaluate(cosThetaI float64) core.Vec3
}

// FresnelDielectric wraps FrDielectric for a fixed pair of indices
type FresnelDielectric struct {
	EtaI, EtaT float64
}

func (f FresnelDielectric) Evaluate(cosThetaI float64) core.Vec3 {
	return core.Grey(FrDielectric(cosThetaI, f.EtaI, f.EtaT))
}

// FresnelConductor wraps FrConductor for fixed material constants
type FresnelConductor struct {
	EtaI, EtaT, K core.Vec3
}

func (f FresnelConductor) Evaluate(cosThetaI float64) core.Vec3 {
	return FrConductor(math.Abs(cosThetaI), f.EtaI, f.EtaT, f.K)
}

// FresnelNoOp reflects everything, used for idealized mirrors
type FresnelNoOp struct{}

func (FresnelNoOp) Evaluate(float64) core.Vec3 {
	return core.Grey(1)
}
