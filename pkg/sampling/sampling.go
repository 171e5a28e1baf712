package sampling

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
)

// UniformSampleSphere maps a [0,1)^2 sample to a uniform direction on
// the unit sphere
func UniformSampleSphere(u core.Vec2) core.Vec3 {
	z := 1 - 2*u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	return core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// UniformSpherePdf is the density of UniformSampleSphere
func UniformSpherePdf() float64 {
	return 1 / (4 * math.Pi)
}

// ConcentricSampleDisk maps a [0,1)^2 sample uniformly onto the unit
// disk, preserving stratification better than polar mapping
func ConcentricSampleDisk(u core.Vec2) core.Vec2 {
	// Map uniform random numbers to [-1,1]^2
	uOffset := core.NewVec2(2*u.X-1, 2*u.Y-1)

	// Handle degeneracy at the origin
	if uOffset.X == 0 && uOffset.Y == 0 {
		return core.Vec2{}
	}

	// Apply concentric mapping to point
	var r, theta float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}
	return core.NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// CosineSampleHemisphere maps a [0,1)^2 sample to a cosine-weighted
// direction in the local frame's upper hemisphere (z >= 0)
func CosineSampleHemisphere(u core.Vec2) core.Vec3 {
	d := ConcentricSampleDisk(u)
	z := math.Sqrt(math.Max(0, 1-d.X*d.X-d.Y*d.Y))
	return core.NewVec3(d.X, d.Y, z)
}

// CosineHemispherePdf is the density of CosineSampleHemisphere for a
// direction with the given cosine to the frame normal
func CosineHemispherePdf(cosTheta float64) float64 {
	return cosTheta / math.Pi
}

// UniformSampleTriangle maps a [0,1)^2 sample to barycentric
// coordinates distributed uniformly over a triangle
func UniformSampleTriangle(u core.Vec2) core.Vec2 {
	su0 := math.Sqrt(u.X)
	return core.NewVec2(1-su0, u.Y*su0)
}

// UniformSampleCone maps a [0,1)^2 sample to a direction uniform
// within a cone around +z with the given angular extent
func UniformSampleCone(u core.Vec2, cosThetaMax float64) core.Vec3 {
	cosTheta := (1 - u.X) + u.X*cosThetaMax
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y
	return core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}

// UniformConePdf is the density of UniformSampleCone
func UniformConePdf(cosThetaMax float64) float64 {
	return 1 / (2 * math.Pi * (1 - cosThetaMax))
}

// PowerHeuristic computes the MIS weight for a sample drawn from the
// f strategy against the g strategy, with the exponent beta=2 that
// minimizes variance in practice
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	if f == 0 && g == 0 {
		return 0
	}
	return (f * f) / (f*f + g*g)
}
