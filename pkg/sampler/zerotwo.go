package sampler

import (
	"image"

	"github.com/spindle-render/go-spindle/pkg/core"
)

// ZeroTwoSequenceSampler generates scrambled (0,2)-sequence points.
// Every power-of-two aligned block of samples is both well distributed
// in 2D and stratified in each 1D projection, which cuts variance
// substantially over independent uniforms. Samples per pixel is
// rounded up to a power of two, and array reservations should pass
// through RoundCount first.
type ZeroTwoSequenceSampler struct {
	pixelSampler

	nSampledDimensions int
	samples1D          [][]float64
	samples2D          [][]core.Vec2
	current1DDimension int
	current2DDimension int
}

// NewZeroTwoSequenceSampler creates a (0,2)-sequence sampler with spp
// rounded up to the next power of two and the given number of
// precomputed non-array dimensions.
func NewZeroTwoSequenceSampler(spp, nSampledDimensions int, seed uint64) *ZeroTwoSequenceSampler {
	spp = nextPowerOfTwo(spp)
	s := &ZeroTwoSequenceSampler{
		pixelSampler:       newPixelSampler(spp, seed),
		nSampledDimensions: nSampledDimensions,
	}
	for i := 0; i < nSampledDimensions; i++ {
		s.samples1D = append(s.samples1D, make([]float64, spp))
		s.samples2D = append(s.samples2D, make([]core.Vec2, spp))
	}
	return s
}

func (s *ZeroTwoSequenceSampler) StartPixel(p image.Point) {
	s.startPixel(p)
	s.current1DDimension = 0
	s.current2DDimension = 0

	for i := range s.samples1D {
		vanDerCorput(1, s.spp, s.samples1D[i], s.rng)
	}
	for i := range s.samples2D {
		sobol2D(1, s.spp, s.samples2D[i], s.rng)
	}
	for i, n := range s.sample1DArraySizes {
		vanDerCorput(n, s.spp, s.sampleArray1D[i], s.rng)
	}
	for i, n := range s.sample2DArraySizes {
		sobol2D(n, s.spp, s.sampleArray2D[i], s.rng)
	}
}

func (s *ZeroTwoSequenceSampler) StartNextSample() bool {
	s.current1DDimension = 0
	s.current2DDimension = 0
	return s.startNextSample()
}

// Get1D returns the next precomputed 1D dimension, falling back to the
// pseudo-random stream once the reserved dimensions are used up
func (s *ZeroTwoSequenceSampler) Get1D() float64 {
	if s.current1DDimension < len(s.samples1D) {
		v := s.samples1D[s.current1DDimension][s.currentPixelSampleIndex]
		s.current1DDimension++
		return v
	}
	return s.rng.Float64()
}

func (s *ZeroTwoSequenceSampler) Get2D() core.Vec2 {
	if s.current2DDimension < len(s.samples2D) {
		v := s.samples2D[s.current2DDimension][s.currentPixelSampleIndex]
		s.current2DDimension++
		return v
	}
	return core.NewVec2(s.rng.Float64(), s.rng.Float64())
}

func (s *ZeroTwoSequenceSampler) GetCameraSample(pRaster image.Point) core.CameraSample {
	return getCameraSample(s, pRaster)
}

// RoundCount rounds array sizes up to a power of two, the block size
// at which (0,2)-sequence points keep their stratification guarantees
func (s *ZeroTwoSequenceSampler) RoundCount(n int) int {
	return nextPowerOfTwo(n)
}

func (s *ZeroTwoSequenceSampler) Clone(seed uint64) core.Sampler {
	c := NewZeroTwoSequenceSampler(s.spp, s.nSampledDimensions, seed)
	for _, n := range s.sample1DArraySizes {
		c.Request1DArray(n)
	}
	for _, n := range s.sample2DArraySizes {
		c.Request2DArray(n)
	}
	return c
}
