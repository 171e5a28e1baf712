package sampler

import (
	"image"

	"github.com/spindle-render/go-spindle/pkg/core"
)

// RandomSampler draws every dimension from a seeded pseudo-random
// generator. It fills reserved arrays with independent uniforms, so
// it provides no stratification, but it is the reference against
// which the low-discrepancy sampler's variance reduction is measured.
type RandomSampler struct {
	pixelSampler
}

// NewRandomSampler creates a random sampler with the given samples
// per pixel
func NewRandomSampler(spp int, seed uint64) *RandomSampler {
	return &RandomSampler{pixelSampler: newPixelSampler(spp, seed)}
}

func (r *RandomSampler) StartPixel(p image.Point) {
	r.startPixel(p)
	for _, arr := range r.sampleArray1D {
		for j := range arr {
			arr[j] = r.rng.Float64()
		}
	}
	for _, arr := range r.sampleArray2D {
		for j := range arr {
			arr[j] = core.NewVec2(r.rng.Float64(), r.rng.Float64())
		}
	}
}

func (r *RandomSampler) StartNextSample() bool {
	return r.startNextSample()
}

func (r *RandomSampler) Get1D() float64 {
	return r.rng.Float64()
}

func (r *RandomSampler) Get2D() core.Vec2 {
	return core.NewVec2(r.rng.Float64(), r.rng.Float64())
}

func (r *RandomSampler) GetCameraSample(pRaster image.Point) core.CameraSample {
	return getCameraSample(r, pRaster)
}

// RoundCount is the identity: independent uniforms have no stride
// requirement
func (r *RandomSampler) RoundCount(n int) int {
	return n
}

func (r *RandomSampler) Clone(seed uint64) core.Sampler {
	c := NewRandomSampler(r.spp, seed)
	for _, n := range r.sample1DArraySizes {
		c.Request1DArray(n)
	}
	for _, n := range r.sample2DArraySizes {
		c.Request2DArray(n)
	}
	return c
}
