package sampling

import (
	"math"
	"math/rand"
	"testing"

	"github.com/spindle-render/go-spindle/pkg/core"
)

func TestDistribution1DSampleDiscrete(t *testing.T) {
	d := NewDistribution1D([]float64{0, 1, 0, 3})

	if d.Count() != 4 {
		t.Fatalf("Count() = %d, want 4", d.Count())
	}

	tests := []struct {
		u          float64
		wantIndex  int
		wantPdf    float64
	}{
		{0.0, 1, 0.25},
		{0.125, 1, 0.25},
		{0.24999, 1, 0.25},
		// The boundary at u=0.25 belongs to segment 3
		{0.25, 3, 0.75},
		{0.250001, 3, 0.75},
		{0.625, 3, 0.75},
		{0.9999999, 3, 0.75},
	}
	for _, tt := range tests {
		index, pdf := d.SampleDiscrete(tt.u)
		if index != tt.wantIndex || math.Abs(pdf-tt.wantPdf) > 1e-12 {
			t.Errorf("SampleDiscrete(%v) = (%d, %v), want (%d, %v)",
				tt.u, index, pdf, tt.wantIndex, tt.wantPdf)
		}
	}
}

func TestDistribution1DCDFInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(32)
		f := make([]float64, n)
		for i := range f {
			if rng.Float64() < 0.3 {
				f[i] = 0
			} else {
				f[i] = rng.Float64() * 10
			}
		}
		d := NewDistribution1D(f)
		if d.CDF[0] != 0 {
			t.Fatalf("CDF[0] = %v, want 0", d.CDF[0])
		}
		if math.Abs(d.CDF[n]-1) > 1e-9 {
			t.Fatalf("CDF[%d] = %v, want 1", n, d.CDF[n])
		}
		for i := 1; i <= n; i++ {
			if d.CDF[i] < d.CDF[i-1] {
				t.Fatalf("CDF not non-decreasing at %d: %v < %v", i, d.CDF[i], d.CDF[i-1])
			}
		}
	}
}

func TestDistribution1DZeroWeights(t *testing.T) {
	n := 4
	d := NewDistribution1D(make([]float64, n))
	// Degenerate input falls back to a uniform CDF
	for i := 0; i <= n; i++ {
		want := float64(i) / float64(n)
		if math.Abs(d.CDF[i]-want) > 1e-12 {
			t.Errorf("CDF[%d] = %v, want %v", i, d.CDF[i], want)
		}
	}
	x, pdf, _ := d.SampleContinuous(0.5)
	if pdf != 0 {
		t.Errorf("pdf for zero-integral distribution = %v, want 0", pdf)
	}
	if x < 0 || x >= 1 {
		t.Errorf("sample %v outside [0,1)", x)
	}
}

func TestDistribution1DSampleContinuous(t *testing.T) {
	d := NewDistribution1D([]float64{1, 1, 2})

	x, pdf, offset := d.SampleContinuous(0.0)
	if x != 0 || offset != 0 {
		t.Errorf("SampleContinuous(0) = (%v, %d), want (0, 0)", x, offset)
	}
	if math.Abs(pdf-1.0/d.FuncInt) > 1e-12 {
		t.Errorf("pdf = %v, want %v", pdf, 1.0/d.FuncInt)
	}

	// Samples must land in the segment matching the returned index,
	// and the empirical distribution must follow the weights
	rng := rand.New(rand.NewSource(5))
	counts := make([]int, 3)
	const trials = 200000
	for i := 0; i < trials; i++ {
		x, pdf, offset := d.SampleContinuous(rng.Float64())
		if offset < 0 || offset >= 3 {
			t.Fatalf("offset %d out of range", offset)
		}
		if x < float64(offset)/3 || x > float64(offset+1)/3 {
			t.Fatalf("x=%v outside segment %d", x, offset)
		}
		if pdf <= 0 {
			t.Fatalf("pdf = %v for valid sample", pdf)
		}
		counts[offset]++
	}
	wantFrac := []float64{0.25, 0.25, 0.5}
	for i, c := range counts {
		got := float64(c) / trials
		if math.Abs(got-wantFrac[i]) > 0.01 {
			t.Errorf("segment %d frequency = %v, want %v", i, got, wantFrac[i])
		}
	}
}

func TestDistribution2DCoherence(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	nu, nv := 8, 5
	f := make([]float64, nu*nv)
	for i := range f {
		f[i] = rng.Float64() * 3
	}
	d := NewDistribution2D(f, nu, nv)

	// The marginal's weights are the conditional rows' integrals
	marginalSum := 0.0
	for _, w := range d.marginal.Func {
		marginalSum += w
	}
	condSum := 0.0
	for _, c := range d.conditionalV {
		condSum += c.FuncInt
	}
	if math.Abs(marginalSum-condSum) > 1e-9 {
		t.Errorf("marginal weight sum %v != conditional integral sum %v", marginalSum, condSum)
	}

	// Sampled points stay inside [0,1)^2 and have consistent PDFs
	for i := 0; i < 10000; i++ {
		u := core.NewVec2(rng.Float64(), rng.Float64())
		p, pdf := d.SampleContinuous(u)
		if p.X < 0 || p.X >= 1 || p.Y < 0 || p.Y >= 1 {
			t.Fatalf("sampled point %v outside [0,1)^2", p)
		}
		if pdf < 0 {
			t.Fatalf("negative pdf %v", pdf)
		}
		evaluated := d.Pdf(p)
		if math.Abs(evaluated-pdf) > 1e-6*math.Max(1, pdf) {
			t.Fatalf("Pdf(%v) = %v, sample pdf = %v", p, evaluated, pdf)
		}
	}
}

func TestPowerHeuristic(t *testing.T) {
	tests := []struct {
		name     string
		nf       int
		fPdf     float64
		ng       int
		gPdf     float64
		expected float64
	}{
		{"equal pdfs", 1, 0.5, 1, 0.5, 0.5},
		{"first pdf zero", 1, 0, 1, 0.5, 0},
		{"second pdf zero", 1, 0.5, 1, 0, 1},
		{"both zero", 1, 0, 1, 0, 0},
		{"dominant first", 1, 10, 1, 0.1, 100.0 / 100.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PowerHeuristic(tt.nf, tt.fPdf, tt.ng, tt.gPdf)
			if math.Abs(got-tt.expected) > 1e-4 {
				t.Errorf("PowerHeuristic = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCosineSampleHemisphere(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	for i := 0; i < 10000; i++ {
		w := CosineSampleHemisphere(core.NewVec2(rng.Float64(), rng.Float64()))
		if w.Z < 0 {
			t.Fatalf("sampled direction below hemisphere: %v", w)
		}
		if math.Abs(w.Length()-1) > 1e-9 {
			t.Fatalf("direction not normalized: |w| = %v", w.Length())
		}
	}
}

func TestUniformSampleSphere(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	mean := core.Vec3{}
	const n = 100000
	for i := 0; i < n; i++ {
		w := UniformSampleSphere(core.NewVec2(rng.Float64(), rng.Float64()))
		if math.Abs(w.Length()-1) > 1e-9 {
			t.Fatalf("direction not normalized: %v", w)
		}
		mean = mean.Add(w)
	}
	mean = mean.Divide(n)
	if mean.Length() > 0.02 {
		t.Errorf("mean direction %v too far from zero for a uniform distribution", mean)
	}
}
