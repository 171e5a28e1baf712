// Package efloat provides running-error interval arithmetic. Every
// value carries a conservative [low, high] bound around the true
// real-valued result, letting intersection code prove a candidate hit
// lies strictly beyond the ray origin without fixed epsilon biasing.
package efloat

import "math"

// MachineEpsilon is half the float64 unit of least precision at 1.0
const MachineEpsilon = 0x1p-53

// NextUp returns the smallest float64 greater than v
func NextUp(v float64) float64 {
	return math.Nextafter(v, math.Inf(1))
}

// NextDown returns the largest float64 smaller than v
func NextDown(v float64) float64 {
	return math.Nextafter(v, math.Inf(-1))
}

// EFloat is a value plus conservative error bounds. The invariant
// Low <= true value <= High holds through every operation provided it
// holds for the inputs.
type EFloat struct {
	v    float64
	low  float64
	high float64
}

// New creates an EFloat from a value and an absolute error
func New(v, err float64) EFloat {
	if err == 0 {
		return EFloat{v: v, low: v, high: v}
	}
	return EFloat{v: v, low: NextDown(v - err), high: NextUp(v + err)}
}

// FromFloat wraps an exact value with zero error
func FromFloat(v float64) EFloat {
	return EFloat{v: v, low: v, high: v}
}

// Value returns the computed value
func (e EFloat) Value() float64 { return e.v }

// LowerBound returns the conservative lower bound
func (e EFloat) LowerBound() float64 { return e.low }

// UpperBound returns the conservative upper bound
func (e EFloat) UpperBound() float64 { return e.high }

// AbsoluteError returns the width of the error interval
func (e EFloat) AbsoluteError() float64 { return e.high - e.low }

// Add returns e + f with bounds widened outward by one representable
// step to stay conservative under rounding
func (e EFloat) Add(f EFloat) EFloat {
	return EFloat{
		v:    e.v + f.v,
		low:  NextDown(e.low + f.low),
		high: NextUp(e.high + f.high),
	}
}

// Sub returns e - f
func (e EFloat) Sub(f EFloat) EFloat {
	return EFloat{
		v:    e.v - f.v,
		low:  NextDown(e.low - f.high),
		high: NextUp(e.high - f.low),
	}
}

// Mul returns e * f, taking the min/max over the four sign
// combinations of the operand bounds
func (e EFloat) Mul(f EFloat) EFloat {
	p0 := e.low * f.low
	p1 := e.high * f.low
	p2 := e.low * f.high
	p3 := e.high * f.high
	return EFloat{
		v:    e.v * f.v,
		low:  NextDown(math.Min(math.Min(p0, p1), math.Min(p2, p3))),
		high: NextUp(math.Max(math.Max(p0, p1), math.Max(p2, p3))),
	}
}

// Div returns e / f. If f's interval straddles zero the quotient can
// be anything, so the bounds become infinite.
func (e EFloat) Div(f EFloat) EFloat {
	if f.low < 0 && f.high > 0 {
		return EFloat{v: e.v / f.v, low: math.Inf(-1), high: math.Inf(1)}
	}
	d0 := e.low / f.low
	d1 := e.high / f.low
	d2 := e.low / f.high
	d3 := e.high / f.high
	return EFloat{
		v:    e.v / f.v,
		low:  NextDown(math.Min(math.Min(d0, d1), math.Min(d2, d3))),
		high: NextUp(math.Max(math.Max(d0, d1), math.Max(d2, d3))),
	}
}

// Sqrt returns the square root. The lower bound must be non-negative.
func (e EFloat) Sqrt() EFloat {
	return EFloat{
		v:    math.Sqrt(e.v),
		low:  NextDown(math.Sqrt(e.low)),
		high: NextUp(math.Sqrt(e.high)),
	}
}

// Abs returns the absolute value
func (e EFloat) Abs() EFloat {
	switch {
	case e.low >= 0:
		// The entire interval is non-negative
		return e
	case e.high <= 0:
		// The entire interval is negative
		return EFloat{v: -e.v, low: -e.high, high: -e.low}
	default:
		// The interval straddles zero
		return EFloat{v: math.Abs(e.v), low: 0, high: math.Max(-e.low, e.high)}
	}
}

// Neg returns the negation
func (e EFloat) Neg() EFloat {
	return EFloat{v: -e.v, low: -e.high, high: -e.low}
}

// MulFloat returns e scaled by an exact constant
func (e EFloat) MulFloat(f float64) EFloat {
	return e.Mul(FromFloat(f))
}

// SolveQuadratic finds the real roots of a*t^2 + b*t + c = 0, ordered
// ascending. The cancellation-prone root is recovered via c/q, where
// q's sign follows b to avoid subtracting nearly equal quantities.
func SolveQuadratic(a, b, c EFloat) (t0, t1 EFloat, ok bool) {
	discrim := b.Value()*b.Value() - 4*a.Value()*c.Value()
	if discrim < 0 {
		return EFloat{}, EFloat{}, false
	}
	rootDiscrim := math.Sqrt(discrim)
	floatRootDiscrim := New(rootDiscrim, MachineEpsilon*rootDiscrim)

	var q EFloat
	if b.Value() < 0 {
		q = b.Sub(floatRootDiscrim).MulFloat(-0.5)
	} else {
		q = b.Add(floatRootDiscrim).MulFloat(-0.5)
	}
	t0 = q.Div(a)
	t1 = c.Div(q)
	if t0.Value() > t1.Value() {
		t0, t1 = t1, t0
	}
	return t0, t1, true
}
