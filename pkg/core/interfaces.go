package core

import "image"

// BxDFType is a bitmask classifying scattering lobes by the
// reflection/transmission hemisphere they cover and by how sharply
// they concentrate energy.
type BxDFType uint32

const (
	BSDFReflection BxDFType = 1 << iota
	BSDFTransmission
	BSDFDiffuse
	BSDFGlossy
	BSDFSpecular

	BSDFAll = BSDFReflection | BSDFTransmission | BSDFDiffuse | BSDFGlossy | BSDFSpecular
)

// Contains reports whether all bits of sub are set in t
func (t BxDFType) Contains(sub BxDFType) bool {
	return t&sub == sub
}

// TransportMode distinguishes radiance transported from lights toward
// the camera from importance transported the other way. It matters
// for non-symmetric scattering (refraction).
type TransportMode int

const (
	TransportRadiance TransportMode = iota
	TransportImportance
)

// BSDF aggregates the scattering lobes at a shading point into a
// single distribution sharing one shading frame. Implementations are
// read-only after construction and safe for concurrent use.
type BSDF interface {
	// F evaluates the composite BSDF for world-space directions,
	// restricted to lobes matching flags.
	F(woW, wiW Vec3, flags BxDFType) Vec3
	// SampleF draws an incident direction for the given outgoing
	// direction, returning the BSDF value, the world-space direction,
	// its PDF and the type of the sampled lobe.
	SampleF(woW Vec3, u Vec2, flags BxDFType) (f Vec3, wiW Vec3, pdf float64, sampledType BxDFType)
	// Pdf returns the density SampleF would have for wiW
	Pdf(woW, wiW Vec3, flags BxDFType) float64
	// NumComponents counts lobes matching flags
	NumComponents(flags BxDFType) int
	// Eta is the relative index of refraction across the interface
	Eta() float64
}

// Material computes the scattering functions at a shading point. Its
// output, the BSDF, is attached to the interaction; a nil BSDF marks
// a non-scattering interface that rays pass straight through.
type Material interface {
	ComputeScatteringFunctions(si *SurfaceInteraction, mode TransportMode, allowMultipleLobes bool)
}

// Shape is the geometric surface contract the core relies on: area
// sampling for area lights, and intersection producing a
// SurfaceInteraction while shrinking ray.TMax.
type Shape interface {
	Intersect(ray *Ray) (*SurfaceInteraction, bool)
	IntersectP(ray *Ray) bool
	Area() float64
	WorldBounds() Bounds3
	// Sample picks a point on the shape with density 1/Area
	Sample(u Vec2) Interaction
	// SampleFrom picks a point as seen from ref, returning the
	// solid-angle density of the chosen direction
	SampleFrom(ref *Interaction, u Vec2) (Interaction, float64)
	// PdfFrom returns the solid-angle density of sampling wi from ref
	PdfFrom(ref *Interaction, wi Vec3) float64
}

// Primitive binds a shape to its material and, for emitters, its area
// light.
type Primitive interface {
	Intersect(ray *Ray) (*SurfaceInteraction, bool)
	IntersectP(ray *Ray) bool
	WorldBounds() Bounds3
	Material() Material
	AreaLight() AreaLight
}

// LightFlags classifies a light's sampling domain
type LightFlags uint32

const (
	LightDeltaPosition LightFlags = 1 << iota
	LightDeltaDirection
	LightArea
	LightInfinite
)

// IsDeltaLight reports whether the light's domain has measure zero.
// Delta lights can never be hit by BSDF sampling and are excluded
// from MIS weighting.
func IsDeltaLight(flags LightFlags) bool {
	return flags&(LightDeltaPosition|LightDeltaDirection) != 0
}

// Light abstracts point, directional, area and environment emitters
type Light interface {
	// SampleLi samples an incident direction toward the light from
	// ref, returning the incident radiance, the direction, its PDF
	// and a visibility tester for the shadow ray.
	SampleLi(ref *Interaction, u Vec2) (li Vec3, wi Vec3, pdf float64, vis VisibilityTester)
	// PdfLi returns the density SampleLi would have for wi, zero for
	// delta lights.
	PdfLi(ref *Interaction, wi Vec3) float64
	// Preprocess runs once before parallel rendering starts
	Preprocess(scene Scene)
	// NumSamples is the sample count the sample-all strategy uses
	NumSamples() int
	Flags() LightFlags
	// Power approximates the light's total emitted power
	Power() Vec3
	// Le is the radiance carried by a ray that escaped the scene;
	// non-zero only for infinite lights.
	Le(ray *Ray) Vec3
}

// AreaLight is a light attached to a shape
type AreaLight interface {
	Light
	// L is the emitted radiance at a surface point in direction w
	L(it *Interaction, w Vec3) Vec3
}

// Scene is the external intersection collaborator
type Scene interface {
	Intersect(ray *Ray) (*SurfaceInteraction, bool)
	IntersectP(ray *Ray) bool
	WorldBounds() Bounds3
	Lights() []Light
	// InfiniteLights is the subset of Lights that contribute to
	// escaped rays
	InfiniteLights() []Light
}

// CameraSample holds the sampler-provided values that position one
// camera ray
type CameraSample struct {
	PFilm Vec2
	PLens Vec2
	Time  float64
}

// Sampler produces the quasi-random number stream consumed by one
// pixel sample. Implementations are stateful per pixel and owned by a
// single goroutine; use Clone to give each worker its own instance.
type Sampler interface {
	StartPixel(p image.Point)
	// StartNextSample advances to the next sample for the current
	// pixel and reports whether one is available.
	StartNextSample() bool
	Get1D() float64
	Get2D() Vec2
	GetCameraSample(pRaster image.Point) CameraSample
	// Request1DArray and Request2DArray reserve per-sample arrays.
	// They must be called before the first StartPixel.
	Request1DArray(n int)
	Request2DArray(n int)
	// RoundCount rounds an array size up to a count the sampler's
	// pattern can stratify well
	RoundCount(n int) int
	// Get1DArray and Get2DArray return the next reserved array for
	// the current sample, or nil once the reservations are exhausted.
	Get1DArray(n int) []float64
	Get2DArray(n int) []Vec2
	SamplesPerPixel() int
	Reseed(seed uint64)
	Clone(seed uint64) Sampler
}

// Integrator estimates the radiance arriving along a camera ray
type Integrator interface {
	// Preprocess runs once before rendering, e.g. to reserve sampler
	// arrays or build light distributions.
	Preprocess(scene Scene, sampler Sampler)
	Li(scene Scene, ray *Ray, sampler Sampler, stats *Stats, depth int) Vec3
}

// Logger is the logging seam accepted by the renderer
type Logger interface {
	Printf(format string, args ...interface{})
}
