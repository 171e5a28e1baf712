package sampler

import (
	"image"
	"math"
	"testing"

	"github.com/spindle-render/go-spindle/pkg/core"
)

func runPixel(t *testing.T, s core.Sampler, check func(sampleIndex int)) {
	t.Helper()
	s.StartPixel(image.Point{X: 2, Y: 3})
	idx := 0
	for {
		check(idx)
		idx++
		if !s.StartNextSample() {
			break
		}
	}
	if idx != s.SamplesPerPixel() {
		t.Fatalf("consumed %d samples, want %d", idx, s.SamplesPerPixel())
	}
}

func TestSamplerValuesInUnitInterval(t *testing.T) {
	samplers := map[string]core.Sampler{
		"random":  NewRandomSampler(16, 1),
		"zerotwo": NewZeroTwoSequenceSampler(16, 4, 1),
	}
	for name, s := range samplers {
		t.Run(name, func(t *testing.T) {
			runPixel(t, s, func(int) {
				for d := 0; d < 8; d++ {
					v := s.Get1D()
					if v < 0 || v >= 1 {
						t.Fatalf("Get1D = %v outside [0,1)", v)
					}
					p := s.Get2D()
					if p.X < 0 || p.X >= 1 || p.Y < 0 || p.Y >= 1 {
						t.Fatalf("Get2D = %v outside [0,1)^2", p)
					}
				}
			})
		})
	}
}

func TestSamplerArrayLifecycle(t *testing.T) {
	samplers := map[string]core.Sampler{
		"random":  NewRandomSampler(8, 7),
		"zerotwo": NewZeroTwoSequenceSampler(8, 4, 7),
	}
	for name, s := range samplers {
		t.Run(name, func(t *testing.T) {
			n1 := s.RoundCount(3)
			n2 := s.RoundCount(5)
			s.Request1DArray(n1)
			s.Request2DArray(n2)

			runPixel(t, s, func(int) {
				a := s.Get1DArray(n1)
				if len(a) != n1 {
					t.Fatalf("Get1DArray returned %d values, want %d", len(a), n1)
				}
				for _, v := range a {
					if v < 0 || v >= 1 {
						t.Fatalf("array value %v outside [0,1)", v)
					}
				}
				b := s.Get2DArray(n2)
				if len(b) != n2 {
					t.Fatalf("Get2DArray returned %d values, want %d", len(b), n2)
				}
				// Reservations are exhausted, callers fall back to Get1D/Get2D
				if s.Get1DArray(n1) != nil {
					t.Fatal("expected nil after 1D reservation exhausted")
				}
				if s.Get2DArray(n2) != nil {
					t.Fatal("expected nil after 2D reservation exhausted")
				}
			})
		})
	}
}

func TestSamplerArraySizeMismatch(t *testing.T) {
	s := NewRandomSampler(4, 3)
	s.Request2DArray(4)
	s.StartPixel(image.Point{})
	if s.Get2DArray(8) != nil {
		t.Fatal("expected nil for mismatched array size")
	}
}

func TestZeroTwoRoundsSamplesPerPixel(t *testing.T) {
	s := NewZeroTwoSequenceSampler(9, 4, 1)
	if s.SamplesPerPixel() != 16 {
		t.Fatalf("SamplesPerPixel = %d, want 16", s.SamplesPerPixel())
	}
	if got := s.RoundCount(5); got != 8 {
		t.Fatalf("RoundCount(5) = %d, want 8", got)
	}
	if got := s.RoundCount(8); got != 8 {
		t.Fatalf("RoundCount(8) = %d, want 8", got)
	}
}

// Each 1D dimension of a (0,2)-sequence pixel is stratified: over the
// whole pixel, exactly one of the spp samples lands in each 1/spp bin.
func TestZeroTwoStratification(t *testing.T) {
	const spp = 16
	s := NewZeroTwoSequenceSampler(spp, 2, 42)
	bins := make([]int, spp)
	runPixel(t, s, func(int) {
		v := s.Get1D()
		bins[int(v*spp)]++
	})
	for i, c := range bins {
		if c != 1 {
			t.Fatalf("bin %d has %d samples, want 1", i, c)
		}
	}

	// The 2D projections are stratified in each axis as well
	s2 := NewZeroTwoSequenceSampler(spp, 2, 42)
	xBins := make([]int, spp)
	yBins := make([]int, spp)
	runPixel(t, s2, func(int) {
		p := s2.Get2D()
		xBins[int(p.X*spp)]++
		yBins[int(p.Y*spp)]++
	})
	for i := 0; i < spp; i++ {
		if xBins[i] != 1 || yBins[i] != 1 {
			t.Fatalf("projection bin %d: x=%d y=%d, want 1 each", i, xBins[i], yBins[i])
		}
	}
}

func TestZeroTwoArrayStratification(t *testing.T) {
	const spp = 4
	const n = 8
	s := NewZeroTwoSequenceSampler(spp, 0, 9)
	s.Request2DArray(n)
	seen := make([]int, spp*n)
	runPixel(t, s, func(int) {
		a := s.Get2DArray(n)
		if len(a) != n {
			t.Fatalf("array length %d, want %d", len(a), n)
		}
		for _, p := range a {
			seen[int(p.X*float64(spp*n))]++
		}
	})
	// All spp*n points together form a (0,2)-sequence block, so the X
	// projection is fully stratified
	for i, c := range seen {
		if c != 1 {
			t.Fatalf("x bin %d has %d points, want 1", i, c)
		}
	}
}

func TestSamplerDeterminism(t *testing.T) {
	collect := func(s core.Sampler) []float64 {
		var vs []float64
		s.StartPixel(image.Point{X: 1, Y: 1})
		for {
			vs = append(vs, s.Get1D())
			p := s.Get2D()
			vs = append(vs, p.X, p.Y)
			if !s.StartNextSample() {
				break
			}
		}
		return vs
	}
	a := collect(NewZeroTwoSequenceSampler(8, 4, 99))
	b := collect(NewZeroTwoSequenceSampler(8, 4, 99))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at %d: %v vs %v", i, a[i], b[i])
		}
	}
	c := collect(NewZeroTwoSequenceSampler(8, 4, 100))
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical streams")
	}
}

func TestCloneIndependence(t *testing.T) {
	s := NewZeroTwoSequenceSampler(4, 2, 5)
	s.Request1DArray(s.RoundCount(2))
	c := s.Clone(6).(*ZeroTwoSequenceSampler)
	if c.SamplesPerPixel() != s.SamplesPerPixel() {
		t.Fatalf("clone spp = %d, want %d", c.SamplesPerPixel(), s.SamplesPerPixel())
	}
	if len(c.sample1DArraySizes) != len(s.sample1DArraySizes) {
		t.Fatal("clone did not carry array reservations")
	}
	s.StartPixel(image.Point{})
	c.StartPixel(image.Point{})
	if s.Get1D() == c.Get1D() {
		// A coincidental equality is possible but vanishingly unlikely
		if s.Get1D() == c.Get1D() {
			t.Fatal("clone with different seed mirrors parent stream")
		}
	}
}

func TestGetCameraSampleJitter(t *testing.T) {
	s := NewRandomSampler(4, 11)
	s.StartPixel(image.Point{X: 10, Y: 20})
	cs := s.GetCameraSample(image.Point{X: 10, Y: 20})
	if cs.PFilm.X < 10 || cs.PFilm.X >= 11 || cs.PFilm.Y < 20 || cs.PFilm.Y >= 21 {
		t.Fatalf("film sample %v outside pixel footprint", cs.PFilm)
	}
	if cs.Time < 0 || cs.Time >= 1 {
		t.Fatalf("time %v outside [0,1)", cs.Time)
	}
	if math.IsNaN(cs.PLens.X) || math.IsNaN(cs.PLens.Y) {
		t.Fatal("lens sample is NaN")
	}
}
