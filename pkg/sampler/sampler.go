// Package sampler provides the stateful per-pixel samplers consumed
// by the integrators: a plain pseudo-random sampler and a scrambled
// (0,2)-sequence low-discrepancy sampler. Array reservations must be
// made before rendering starts; once a sample's reservations are
// exhausted the Get*Array methods return nil and callers fall back to
// Get1D/Get2D.
package sampler

import (
	"image"
	"math/rand"

	"github.com/spindle-render/go-spindle/pkg/core"
)

// pixelSampler carries the bookkeeping shared by samplers that
// generate all dimensions for a pixel up front.
type pixelSampler struct {
	spp                     int
	currentPixel            image.Point
	currentPixelSampleIndex int

	sample1DArraySizes []int
	sample2DArraySizes []int
	sampleArray1D      [][]float64
	sampleArray2D      [][]core.Vec2
	array1DOffset      int
	array2DOffset      int

	rng *rand.Rand
}

func newPixelSampler(spp int, seed uint64) pixelSampler {
	return pixelSampler{
		spp: spp,
		rng: rand.New(rand.NewSource(int64(seed))),
	}
}

func (p *pixelSampler) SamplesPerPixel() int {
	return p.spp
}

func (p *pixelSampler) Request1DArray(n int) {
	p.sample1DArraySizes = append(p.sample1DArraySizes, n)
	p.sampleArray1D = append(p.sampleArray1D, make([]float64, n*p.spp))
}

func (p *pixelSampler) Request2DArray(n int) {
	p.sample2DArraySizes = append(p.sample2DArraySizes, n)
	p.sampleArray2D = append(p.sampleArray2D, make([]core.Vec2, n*p.spp))
}

func (p *pixelSampler) Get1DArray(n int) []float64 {
	if p.array1DOffset == len(p.sampleArray1D) {
		return nil
	}
	if p.sample1DArraySizes[p.array1DOffset] != n {
		return nil
	}
	start := p.currentPixelSampleIndex * n
	res := p.sampleArray1D[p.array1DOffset][start : start+n]
	p.array1DOffset++
	return res
}

func (p *pixelSampler) Get2DArray(n int) []core.Vec2 {
	if p.array2DOffset == len(p.sampleArray2D) {
		return nil
	}
	if p.sample2DArraySizes[p.array2DOffset] != n {
		return nil
	}
	start := p.currentPixelSampleIndex * n
	res := p.sampleArray2D[p.array2DOffset][start : start+n]
	p.array2DOffset++
	return res
}

func (p *pixelSampler) startPixel(pt image.Point) {
	p.currentPixel = pt
	p.currentPixelSampleIndex = 0
	p.array1DOffset = 0
	p.array2DOffset = 0
}

func (p *pixelSampler) startNextSample() bool {
	p.array1DOffset = 0
	p.array2DOffset = 0
	p.currentPixelSampleIndex++
	return p.currentPixelSampleIndex < p.spp
}

func (p *pixelSampler) Reseed(seed uint64) {
	p.rng = rand.New(rand.NewSource(int64(seed)))
}

// getCameraSample assembles a camera sample from the sampler's own
// dimension stream
func getCameraSample(s core.Sampler, pRaster image.Point) core.CameraSample {
	jitter := s.Get2D()
	return core.CameraSample{
		PFilm: core.NewVec2(float64(pRaster.X)+jitter.X, float64(pRaster.Y)+jitter.Y),
		PLens: s.Get2D(),
		Time:  s.Get1D(),
	}
}
