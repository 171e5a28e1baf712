package efloat

import (
	"math"
	"math/big"
	"math/rand"
	"testing"
)

const refPrecision = 200

// bigRef mirrors an EFloat computation at 200-bit precision so tests
// can check that the true value stays inside the tracked interval.
type bigRef struct {
	ef  EFloat
	ref *big.Float
}

func newRef(v float64) bigRef {
	return bigRef{ef: FromFloat(v), ref: big.NewFloat(v).SetPrec(refPrecision)}
}

func (r bigRef) contains() bool {
	low := big.NewFloat(r.ef.LowerBound()).SetPrec(refPrecision)
	high := big.NewFloat(r.ef.UpperBound()).SetPrec(refPrecision)
	return low.Cmp(r.ref) <= 0 && high.Cmp(r.ref) >= 0
}

func randomFloat(rng *rand.Rand) float64 {
	// Vary exponents widely so rounding error is exercised across
	// magnitudes
	mantissa := rng.Float64()*2 - 1
	exponent := rng.Intn(60) - 30
	return mantissa * math.Pow(2, float64(exponent))
}

func TestEFloatSoundness(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	trials := 0
	v := newRef(randomFloat(rng))

	for i := 0; i < 20000; i++ {
		if !v.contains() {
			t.Fatalf("iteration %d: true value %v outside [%v, %v] (v=%v)",
				i, v.ref, v.ef.LowerBound(), v.ef.UpperBound(), v.ef.Value())
		}
		// Periodically restart so intervals don't blow up and mask
		// precision issues
		if v.ef.AbsoluteError() > 1e-2 || !isFiniteInterval(v.ef) || trials > 40 {
			v = newRef(randomFloat(rng))
			trials = 0
		}
		trials++

		other := newRef(randomFloat(rng))
		switch rng.Intn(6) {
		case 0:
			v.ef = v.ef.Add(other.ef)
			v.ref = new(big.Float).SetPrec(refPrecision).Add(v.ref, other.ref)
		case 1:
			v.ef = v.ef.Sub(other.ef)
			v.ref = new(big.Float).SetPrec(refPrecision).Sub(v.ref, other.ref)
		case 2:
			v.ef = v.ef.Mul(other.ef)
			v.ref = new(big.Float).SetPrec(refPrecision).Mul(v.ref, other.ref)
		case 3:
			if other.ef.LowerBound() < 0 && other.ef.UpperBound() > 0 {
				continue // infinite interval; nothing to check
			}
			v.ef = v.ef.Div(other.ef)
			v.ref = new(big.Float).SetPrec(refPrecision).Quo(v.ref, other.ref)
		case 4:
			if v.ef.LowerBound() < 0 {
				continue
			}
			v.ef = v.ef.Sqrt()
			v.ref = new(big.Float).SetPrec(refPrecision).Sqrt(v.ref)
		case 5:
			v.ef = v.ef.Abs()
			v.ref = new(big.Float).SetPrec(refPrecision).Abs(v.ref)
		}
	}
}

func isFiniteInterval(e EFloat) bool {
	return !math.IsInf(e.LowerBound(), 0) && !math.IsInf(e.UpperBound(), 0) &&
		!math.IsNaN(e.LowerBound()) && !math.IsNaN(e.UpperBound())
}

func TestEFloatOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 1000; i++ {
		v := randomFloat(rng)
		err := math.Abs(randomFloat(rng)) * 1e-6
		e := New(v, err)
		if e.LowerBound() > e.Value() || e.Value() > e.UpperBound() {
			t.Fatalf("New(%v, %v): value outside bounds [%v, %v]",
				v, err, e.LowerBound(), e.UpperBound())
		}
		if err > 0 && (e.LowerBound() >= v-err || e.UpperBound() <= v+err) {
			t.Fatalf("New(%v, %v): bounds not widened conservatively", v, err)
		}
	}
}

func TestEFloatDivStraddlingZero(t *testing.T) {
	num := FromFloat(1.0)
	den := New(0.0, 0.5) // interval straddles zero
	q := num.Div(den)
	if !math.IsInf(q.LowerBound(), -1) || !math.IsInf(q.UpperBound(), 1) {
		t.Errorf("division by interval straddling zero: got [%v, %v], want [-Inf, +Inf]",
			q.LowerBound(), q.UpperBound())
	}
}

func TestEFloatAbsStraddlingZero(t *testing.T) {
	e := New(-0.25, 1.0)
	a := e.Abs()
	if a.LowerBound() != 0 {
		t.Errorf("Abs of straddling interval: lower bound = %v, want 0", a.LowerBound())
	}
	if a.UpperBound() < e.UpperBound() || a.UpperBound() < -e.LowerBound() {
		t.Errorf("Abs upper bound %v too tight", a.UpperBound())
	}
}

func TestSolveQuadratic(t *testing.T) {
	tests := []struct {
		name     string
		a, b, c  float64
		wantOK   bool
		wantT0   float64
		wantT1   float64
	}{
		{"two roots", 1, -3, 2, true, 1, 2},
		{"repeated root", 1, -2, 1, true, 1, 1},
		{"no real roots", 1, 0, 1, false, 0, 0},
		{"cancellation prone", 1, 1e8, 1, true, -1e-8, -1e8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t0, t1, ok := SolveQuadratic(FromFloat(tt.a), FromFloat(tt.b), FromFloat(tt.c))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if t0.Value() > t1.Value() {
				t.Errorf("roots not ascending: %v > %v", t0.Value(), t1.Value())
			}
			if relErr(t0.Value(), math.Min(tt.wantT0, tt.wantT1)) > 1e-9 {
				t.Errorf("t0 = %v, want %v", t0.Value(), math.Min(tt.wantT0, tt.wantT1))
			}
			if relErr(t1.Value(), math.Max(tt.wantT0, tt.wantT1)) > 1e-9 {
				t.Errorf("t1 = %v, want %v", t1.Value(), math.Max(tt.wantT0, tt.wantT1))
			}
		})
	}
}

func TestSolveQuadraticRootsBracketTrueRoots(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 2000; i++ {
		// Construct a quadratic from exactly representable roots so
		// the coefficients carry no rounding error of their own
		r0 := float64(rng.Intn(512) - 256)
		r1 := float64(rng.Intn(512) - 256)
		if r0 == r1 || r0 == 0 || r1 == 0 {
			continue
		}
		if r0 > r1 {
			r0, r1 = r1, r0
		}
		a, b, c := 1.0, -(r0 + r1), r0*r1
		t0, t1, ok := SolveQuadratic(FromFloat(a), FromFloat(b), FromFloat(c))
		if !ok {
			t.Fatalf("no roots for (x-%v)(x-%v)", r0, r1)
		}
		if t0.LowerBound() > r0 || t0.UpperBound() < r0 {
			t.Fatalf("root %v outside t0 interval [%v, %v]", r0, t0.LowerBound(), t0.UpperBound())
		}
		if t1.LowerBound() > r1 || t1.UpperBound() < r1 {
			t.Fatalf("root %v outside t1 interval [%v, %v]", r1, t1.LowerBound(), t1.UpperBound())
		}
	}
}

func relErr(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}
