package sampler

import (
	"math/bits"
	"math/rand"

	"github.com/spindle-render/go-spindle/pkg/core"
)

// oneMinusEpsilon is the largest float64 strictly less than 1,
// clamping generated samples into [0,1)
const oneMinusEpsilon = 1 - 0x1p-53

// Generator matrix for the van der Corput sequence (identity in
// base 2)
var cVanDerCorput = func() [32]uint32 {
	var c [32]uint32
	for i := range c {
		c[i] = 1 << (31 - i)
	}
	return c
}()

// Generator matrices for the first two Sobol' dimensions
var cSobol = [2][32]uint32{
	{
		0x80000000, 0x40000000, 0x20000000, 0x10000000,
		0x8000000, 0x4000000, 0x2000000, 0x1000000,
		0x800000, 0x400000, 0x200000, 0x100000,
		0x80000, 0x40000, 0x20000, 0x10000,
		0x8000, 0x4000, 0x2000, 0x1000,
		0x800, 0x400, 0x200, 0x100,
		0x80, 0x40, 0x20, 0x10, 0x8, 0x4, 0x2, 0x1,
	},
	{
		0x80000000, 0xc0000000, 0xa0000000, 0xf0000000,
		0x88000000, 0xcc000000, 0xaa000000, 0xff000000,
		0x80800000, 0xc0c00000, 0xa0a00000, 0xf0f00000,
		0x88880000, 0xcccc0000, 0xaaaa0000, 0xffff0000,
		0x80008000, 0xc000c000, 0xa000a000, 0xf000f000,
		0x88008800, 0xcc00cc00, 0xaa00aa00, 0xff00ff00,
		0x80808080, 0xc0c0c0c0, 0xa0a0a0a0, 0xf0f0f0f0,
		0x88888888, 0xcccccccc, 0xaaaaaaaa, 0xffffffff,
	},
}

// grayCodeSample fills p with the first n points of the scrambled
// sequence defined by generator matrix c, visiting indices in Gray
// code order so each point needs one XOR.
func grayCodeSample(c *[32]uint32, n uint32, scramble uint32, p []float64) {
	v := scramble
	for i := uint32(0); i < n; i++ {
		p[i] = min(float64(v)*0x1p-32, oneMinusEpsilon)
		v ^= c[bits.TrailingZeros32(i+1)]
	}
}

func grayCodeSample2D(c0, c1 *[32]uint32, n uint32, scramble [2]uint32, p []core.Vec2) {
	v := scramble
	for i := uint32(0); i < n; i++ {
		p[i].X = min(float64(v[0])*0x1p-32, oneMinusEpsilon)
		p[i].Y = min(float64(v[1])*0x1p-32, oneMinusEpsilon)
		v[0] ^= c0[bits.TrailingZeros32(i+1)]
		v[1] ^= c1[bits.TrailingZeros32(i+1)]
	}
}

// vanDerCorput generates nSamplesPerPixelSample stratified 1D values
// for each of nPixelSamples samples, then shuffles so correlation
// between pixel samples is broken
func vanDerCorput(nSamplesPerPixelSample, nPixelSamples int, samples []float64, rng *rand.Rand) {
	scramble := rng.Uint32()
	total := uint32(nSamplesPerPixelSample * nPixelSamples)
	grayCodeSample(&cVanDerCorput, total, scramble, samples)
	for i := 0; i < nPixelSamples; i++ {
		shuffleFloats(samples[i*nSamplesPerPixelSample:(i+1)*nSamplesPerPixelSample], rng)
	}
	shuffleFloatBlocks(samples, nPixelSamples, nSamplesPerPixelSample, rng)
}

// sobol2D is the 2D counterpart of vanDerCorput using the first two
// Sobol' dimensions
func sobol2D(nSamplesPerPixelSample, nPixelSamples int, samples []core.Vec2, rng *rand.Rand) {
	scramble := [2]uint32{rng.Uint32(), rng.Uint32()}
	total := uint32(nSamplesPerPixelSample * nPixelSamples)
	grayCodeSample2D(&cSobol[0], &cSobol[1], total, scramble, samples)
	for i := 0; i < nPixelSamples; i++ {
		shuffleVecs(samples[i*nSamplesPerPixelSample:(i+1)*nSamplesPerPixelSample], rng)
	}
	shuffleVecBlocks(samples, nPixelSamples, nSamplesPerPixelSample, rng)
}

func shuffleFloats(s []float64, rng *rand.Rand) {
	for i := range s {
		j := i + rng.Intn(len(s)-i)
		s[i], s[j] = s[j], s[i]
	}
}

func shuffleVecs(s []core.Vec2, rng *rand.Rand) {
	for i := range s {
		j := i + rng.Intn(len(s)-i)
		s[i], s[j] = s[j], s[i]
	}
}

func shuffleFloatBlocks(s []float64, count, blockSize int, rng *rand.Rand) {
	for i := 0; i < count; i++ {
		other := i + rng.Intn(count-i)
		for j := 0; j < blockSize; j++ {
			s[i*blockSize+j], s[other*blockSize+j] = s[other*blockSize+j], s[i*blockSize+j]
		}
	}
}

func shuffleVecBlocks(s []core.Vec2, count, blockSize int, rng *rand.Rand) {
	for i := 0; i < count; i++ {
		other := i + rng.Intn(count-i)
		for j := 0; j < blockSize; j++ {
			s[i*blockSize+j], s[other*blockSize+j] = s[other*blockSize+j], s[i*blockSize+j]
		}
	}
}

// nextPowerOfTwo rounds n up to the nearest power of two
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
