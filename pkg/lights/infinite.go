package lights

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
	"github.com/spindle-render/go-spindle/pkg/sampling"
)

// InfiniteAreaLight surrounds the scene with an equirectangular
// radiance map. Directions map to (u,v) by azimuth and polar angle;
// sampling draws from a 2D distribution over the map weighted by
// luminance times sin(theta) so the pole distortion does not bias
// samples.
type InfiniteAreaLight struct {
	radiance     []core.Vec3
	width        int
	height       int
	distribution *sampling.Distribution2D

	worldCenter core.Vec3
	worldRadius float64
	nSamples    int
}

// NewInfiniteAreaLight builds the light from a row-major radiance grid
func NewInfiniteAreaLight(radiance []core.Vec3, width, height, nSamples int) *InfiniteAreaLight {
	if nSamples < 1 {
		nSamples = 1
	}
	img := make([]float64, width*height)
	for v := 0; v < height; v++ {
		sinTheta := math.Sin(math.Pi * (float64(v) + 0.5) / float64(height))
		for u := 0; u < width; u++ {
			img[v*width+u] = radiance[v*width+u].Luminance() * sinTheta
		}
	}
	return &InfiniteAreaLight{
		radiance:     radiance,
		width:        width,
		height:       height,
		distribution: sampling.NewDistribution2D(img, width, height),
		nSamples:     nSamples,
	}
}

// NewConstantInfiniteLight is the single-color special case
func NewConstantInfiniteLight(l core.Vec3, nSamples int) *InfiniteAreaLight {
	return NewInfiniteAreaLight([]core.Vec3{l}, 1, 1, nSamples)
}

func (l *InfiniteAreaLight) Preprocess(scene core.Scene) {
	l.worldCenter, l.worldRadius = scene.WorldBounds().BoundingSphere()
}

func (l *InfiniteAreaLight) lookup(u, v float64) core.Vec3 {
	x := clampInt(int(u*float64(l.width)), 0, l.width-1)
	y := clampInt(int(v*float64(l.height)), 0, l.height-1)
	return l.radiance[y*l.width+x]
}

func (l *InfiniteAreaLight) SampleLi(ref *core.Interaction, u core.Vec2) (core.Vec3, core.Vec3, float64, core.VisibilityTester) {
	uv, mapPdf := l.distribution.SampleContinuous(u)
	if mapPdf == 0 {
		return core.Vec3{}, core.Vec3{}, 0, core.VisibilityTester{}
	}

	theta := uv.Y * math.Pi
	phi := uv.X * 2 * math.Pi
	sinTheta := math.Sin(theta)
	wi := core.NewVec3(
		sinTheta*math.Cos(phi),
		sinTheta*math.Sin(phi),
		math.Cos(theta),
	)

	// Change of variables from the map to solid angle
	if sinTheta == 0 {
		return core.Vec3{}, core.Vec3{}, 0, core.VisibilityTester{}
	}
	pdf := mapPdf / (2 * math.Pi * math.Pi * sinTheta)

	pOutside := ref.P.Add(wi.Multiply(2 * l.worldRadius))
	vis := core.VisibilityTester{P0: *ref, P1: core.InteractionFromPoint(pOutside)}
	return l.lookup(uv.X, uv.Y), wi, pdf, vis
}

func (l *InfiniteAreaLight) PdfLi(ref *core.Interaction, wi core.Vec3) float64 {
	w := wi.Normalize()
	theta := sphericalTheta(w)
	phi := sphericalPhi(w)
	sinTheta := math.Sin(theta)
	if sinTheta == 0 {
		return 0
	}
	p := core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
	return l.distribution.Pdf(p) / (2 * math.Pi * math.Pi * sinTheta)
}

func (l *InfiniteAreaLight) NumSamples() int { return l.nSamples }

func (l *InfiniteAreaLight) Flags() core.LightFlags { return core.LightInfinite }

func (l *InfiniteAreaLight) Power() core.Vec3 {
	sum := core.Vec3{}
	for _, r := range l.radiance {
		sum = sum.Add(r)
	}
	avg := sum.Divide(float64(len(l.radiance)))
	return avg.Multiply(math.Pi * l.worldRadius * l.worldRadius)
}

// Le is the radiance for rays that left the scene without hitting
// anything
func (l *InfiniteAreaLight) Le(ray *core.Ray) core.Vec3 {
	w := ray.Direction.Normalize()
	u := sphericalPhi(w) / (2 * math.Pi)
	v := sphericalTheta(w) / math.Pi
	return l.lookup(u, v)
}

func sphericalTheta(v core.Vec3) float64 {
	return math.Acos(clamp(v.Z, -1, 1))
}

func sphericalPhi(v core.Vec3) float64 {
	p := math.Atan2(v.Y, v.X)
	if p < 0 {
		p += 2 * math.Pi
	}
	return p
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

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
