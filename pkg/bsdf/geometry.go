// Package bsdf implements the scattering models evaluated at surface
// intersections. Individual lobes (Lambertian, Oren-Nayar, microfacet
// and specular models) work in a local reflection frame where the
// shading normal is +z; the composite BSDF owns the world/local
// transform and aggregates lobes.
package bsdf

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
)

// Trigonometry of a direction in the reflection frame. With the normal
// along +z, cos(theta) is just the z component.

func CosTheta(w core.Vec3) float64  { return w.Z }
func Cos2Theta(w core.Vec3) float64 { return w.Z * w.Z }
func AbsCosTheta(w core.Vec3) float64 {
	return math.Abs(w.Z)
}

func Sin2Theta(w core.Vec3) float64 {
	return math.Max(0, 1-Cos2Theta(w))
}

func SinTheta(w core.Vec3) float64 {
	return math.Sqrt(Sin2Theta(w))
}

func TanTheta(w core.Vec3) float64 {
	return SinTheta(w) / CosTheta(w)
}

func Tan2Theta(w core.Vec3) float64 {
	return Sin2Theta(w) / Cos2Theta(w)
}

func CosPhi(w core.Vec3) float64 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 1
	}
	return clamp(w.X/sinTheta, -1, 1)
}

func SinPhi(w core.Vec3) float64 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 0
	}
	return clamp(w.Y/sinTheta, -1, 1)
}

func Cos2Phi(w core.Vec3) float64 {
	c := CosPhi(w)
	return c * c
}

func Sin2Phi(w core.Vec3) float64 {
	s := SinPhi(w)
	return s * s
}

// SameHemisphere reports whether two frame-local directions lie on the
// same side of the surface
func SameHemisphere(w, wp core.Vec3) bool {
	return w.Z*wp.Z > 0
}

// Reflect mirrors wo about n. Both the argument and result point away
// from the surface.
func Reflect(wo, n core.Vec3) core.Vec3 {
	return wo.Negate().Add(n.Multiply(2 * wo.Dot(n)))
}

// Refract computes the transmitted direction through an interface with
// relative index eta. Returns false under total internal reflection.
func Refract(wi core.Vec3, n core.Vec3, eta float64) (core.Vec3, bool) {
	cosThetaI := n.Dot(wi)
	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := eta * eta * sin2ThetaI
	if sin2ThetaT >= 1 {
		return core.Vec3{}, false
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	wt := wi.Negate().Multiply(eta).Add(n.Multiply(eta*cosThetaI - cosThetaT))
	return wt, true
}

// SphericalDirection converts spherical coordinates in the reflection
// frame to a unit vector
func SphericalDirection(sinTheta, cosTheta, phi float64) core.Vec3 {
	return core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
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

// erfInv approximates the inverse error function, used by the Beckmann
// visible-normal sampling routine
func erfInv(x float64) float64 {
	x = clamp(x, -0.99999, 0.99999)
	w := -math.Log((1 - x) * (1 + x))
	var p float64
	if w < 5 {
		w -= 2.5
		p = 2.81022636e-08
		p = 3.43273939e-07 + p*w
		p = -3.5233877e-06 + p*w
		p = -4.39150654e-06 + p*w
		p = 0.00021858087 + p*w
		p = -0.00125372503 + p*w
		p = -0.00417768164 + p*w
		p = 0.246640727 + p*w
		p = 1.50140941 + p*w
	} else {
		w = math.Sqrt(w) - 3
		p = -0.000200214257
		p = 0.000100950558 + p*w
		p = 0.00134934322 + p*w
		p = -0.00367342844 + p*w
		p = 0.00573950773 + p*w
		p = -0.0076224613 + p*w
		p = 0.00943887047 + p*w
		p = 1.00167406 + p*w
		p = 2.83297682 + p*w
	}
	return p * x
}
