// Package geometry provides the shape implementations. Intersection
// code uses interval arithmetic to derive per-hit error bounds, so
// rays spawned from hit points never self-intersect regardless of
// scene scale.
package geometry

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
	"github.com/spindle-render/go-spindle/pkg/efloat"
	"github.com/spindle-render/go-spindle/pkg/sampling"
)

// gamma bounds the relative error of n chained floating point
// operations
func gamma(n int) float64 {
	ne := float64(n) * efloat.MachineEpsilon
	return ne / (1 - ne)
}

// Sphere is a full sphere centered at C with radius R
type Sphere struct {
	C core.Vec3
	R float64
}

func NewSphere(c core.Vec3, r float64) *Sphere {
	return &Sphere{C: c, R: r}
}

// quadratic sets up and solves the intersection quadratic in the
// sphere's local frame, with error intervals threaded through every
// term
func (s *Sphere) quadratic(ray *core.Ray) (t0, t1 efloat.EFloat, ok bool) {
	ox := efloat.FromFloat(ray.Origin.X - s.C.X)
	oy := efloat.FromFloat(ray.Origin.Y - s.C.Y)
	oz := efloat.FromFloat(ray.Origin.Z - s.C.Z)
	dx := efloat.FromFloat(ray.Direction.X)
	dy := efloat.FromFloat(ray.Direction.Y)
	dz := efloat.FromFloat(ray.Direction.Z)

	a := dx.Mul(dx).Add(dy.Mul(dy)).Add(dz.Mul(dz))
	b := dx.Mul(ox).Add(dy.Mul(oy)).Add(dz.Mul(oz)).MulFloat(2)
	c := ox.Mul(ox).Add(oy.Mul(oy)).Add(oz.Mul(oz)).
		Sub(efloat.FromFloat(s.R).Mul(efloat.FromFloat(s.R)))

	return efloat.SolveQuadratic(a, b, c)
}

// acceptedT picks the nearest root whose entire error interval lies
// inside (0, tMax). A root whose interval straddles zero or tMax is
// rejected rather than trusted.
func acceptedT(t0, t1 efloat.EFloat, tMax float64) (efloat.EFloat, bool) {
	if t0.UpperBound() > tMax || t1.LowerBound() <= 0 {
		return efloat.EFloat{}, false
	}
	tHit := t0
	if tHit.LowerBound() <= 0 {
		tHit = t1
		if tHit.UpperBound() > tMax {
			return efloat.EFloat{}, false
		}
	}
	return tHit, true
}

func (s *Sphere) Intersect(ray *core.Ray) (*core.SurfaceInteraction, bool) {
	t0, t1, ok := s.quadratic(ray)
	if !ok {
		return nil, false
	}
	tHit, ok := acceptedT(t0, t1, ray.TMax)
	if !ok {
		return nil, false
	}

	pHit := ray.At(tHit.Value())
	// Reproject onto the sphere to cut the accumulated error, then
	// bound what remains
	local := pHit.Subtract(s.C)
	local = local.Multiply(s.R / local.Length())
	pHit = s.C.Add(local)
	pError := local.Abs().Multiply(gamma(5))

	// Parameterize by azimuth and polar angle
	if local.X == 0 && local.Y == 0 {
		local.X = 1e-8 * s.R
	}
	phi := math.Atan2(local.Y, local.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	theta := math.Acos(clamp(local.Z/s.R, -1, 1))
	u := phi / (2 * math.Pi)
	v := theta / math.Pi

	zRadius := math.Sqrt(local.X*local.X + local.Y*local.Y)
	invZRadius := 1 / zRadius
	cosPhi := local.X * invZRadius
	sinPhi := local.Y * invZRadius
	dpdu := core.NewVec3(-2*math.Pi*local.Y, 2*math.Pi*local.X, 0)
	dpdv := core.NewVec3(local.Z*cosPhi, local.Z*sinPhi, -s.R*math.Sin(theta)).Multiply(math.Pi)

	// For a sphere the normal derivatives are the position derivatives
	// scaled by 1/R
	dndu := dpdu.Divide(s.R)
	dndv := dpdv.Divide(s.R)

	si := core.NewSurfaceInteraction(
		pHit, pError,
		core.NewVec2(u, v),
		ray.Direction.Negate(),
		dpdu, dpdv, dndu, dndv,
		s,
	)
	ray.TMax = tHit.Value()
	return si, true
}

func (s *Sphere) IntersectP(ray *core.Ray) bool {
	t0, t1, ok := s.quadratic(ray)
	if !ok {
		return false
	}
	_, ok = acceptedT(t0, t1, ray.TMax)
	return ok
}

func (s *Sphere) Area() float64 {
	return 4 * math.Pi * s.R * s.R
}

func (s *Sphere) WorldBounds() core.Bounds3 {
	r := core.Grey(s.R)
	return core.NewBounds3(s.C.Subtract(r), s.C.Add(r))
}

// Sample picks a point uniformly over the sphere's area
func (s *Sphere) Sample(u core.Vec2) core.Interaction {
	n := sampling.UniformSampleSphere(u)
	p := s.C.Add(n.Multiply(s.R))
	// Reproject and bound the error the same way intersection does
	local := p.Subtract(s.C)
	local = local.Multiply(s.R / local.Length())
	p = s.C.Add(local)
	return core.Interaction{
		P:      p,
		PError: local.Abs().Multiply(gamma(5)),
		N:      n,
	}
}

// SampleFrom samples the cone of directions subtended by the sphere as
// seen from ref, the strategy that keeps area-light noise independent
// of distance. Reference points inside the sphere fall back to plain
// area sampling.
func (s *Sphere) SampleFrom(ref *core.Interaction, u core.Vec2) (core.Interaction, float64) {
	dc := s.C.Subtract(ref.P).Length()
	if dc <= s.R {
		it := s.Sample(u)
		wi := it.P.Subtract(ref.P)
		if wi.LengthSquared() == 0 {
			return it, 0
		}
		pdf := s.areaToSolidAngle(ref, it)
		return it, pdf
	}

	// Build a frame around the axis toward the sphere center
	wc := s.C.Subtract(ref.P).Divide(dc)
	wcX, wcY := coordinateSystem(wc)

	sinThetaMax2 := s.R * s.R / (dc * dc)
	cosThetaMax := math.Sqrt(math.Max(0, 1-sinThetaMax2))
	cosTheta := (1-u.X) + u.X*cosThetaMax
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := u.Y * 2 * math.Pi

	// Distance along the cone direction to the sphere surface, and the
	// surface normal angle it corresponds to
	ds := dc*cosTheta - math.Sqrt(math.Max(0, s.R*s.R-dc*dc*sinTheta*sinTheta))
	cosAlpha := (dc*dc + s.R*s.R - ds*ds) / (2 * dc * s.R)
	sinAlpha := math.Sqrt(math.Max(0, 1-cosAlpha*cosAlpha))

	n := wcX.Multiply(sinAlpha * math.Cos(phi)).
		Add(wcY.Multiply(sinAlpha * math.Sin(phi))).
		Add(wc.Multiply(cosAlpha)).Negate()
	p := s.C.Add(n.Multiply(s.R))

	it := core.Interaction{
		P:      p,
		PError: p.Abs().Multiply(gamma(5)),
		N:      n,
	}
	return it, sampling.UniformConePdf(cosThetaMax)
}

// PdfFrom returns the solid-angle density SampleFrom uses for wi
func (s *Sphere) PdfFrom(ref *core.Interaction, wi core.Vec3) float64 {
	dc2 := s.C.Subtract(ref.P).LengthSquared()
	if dc2 <= s.R*s.R {
		// Inside: convert the area density of the hit point
		ray := ref.SpawnRay(wi)
		it, ok := s.Intersect(&ray)
		if !ok {
			return 0
		}
		return s.areaToSolidAngle(ref, core.Interaction{P: it.P, N: it.N})
	}
	sinThetaMax2 := s.R * s.R / dc2
	cosThetaMax := math.Sqrt(math.Max(0, 1-sinThetaMax2))

	// Directions outside the cone never hit the sphere
	wc := s.C.Subtract(ref.P).Normalize()
	if wc.Dot(wi.Normalize()) < cosThetaMax {
		return 0
	}
	return sampling.UniformConePdf(cosThetaMax)
}

// areaToSolidAngle converts the uniform-area density 1/Area to a
// solid-angle density at ref
func (s *Sphere) areaToSolidAngle(ref *core.Interaction, it core.Interaction) float64 {
	d := ref.P.Subtract(it.P)
	dist2 := d.LengthSquared()
	cosTheta := it.N.AbsDot(d.Normalize())
	if cosTheta == 0 {
		return 0
	}
	return dist2 / (cosTheta * s.Area())
}

// coordinateSystem completes a unit vector to an orthonormal basis
func coordinateSystem(v core.Vec3) (core.Vec3, core.Vec3) {
	var v2 core.Vec3
	if math.Abs(v.X) > math.Abs(v.Y) {
		v2 = core.NewVec3(-v.Z, 0, v.X).Divide(math.Sqrt(v.X*v.X + v.Z*v.Z))
	} else {
		v2 = core.NewVec3(0, v.Z, -v.Y).Divide(math.Sqrt(v.Y*v.Y + v.Z*v.Z))
	}
	return v2, v.Cross(v2)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
