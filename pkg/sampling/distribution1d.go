// Package sampling provides the probability distributions and
// direction-sampling routines that drive importance sampling across
// the renderer.
package sampling

// FindInterval locates the largest index i in [0, size-2] such that
// pred(i) is true, assuming pred is monotonically true-then-false.
// Used to binary-search CDF arrays.
func FindInterval(size int, pred func(int) bool) int {
	first, length := 0, size
	for length > 0 {
		half := length >> 1
		middle := first + half
		if pred(middle) {
			first = middle + 1
			length -= half + 1
		} else {
			length = half
		}
	}
	i := first - 1
	if i < 0 {
		i = 0
	}
	if i > size-2 {
		i = size - 2
	}
	return i
}

// Distribution1D turns an array of non-negative weights into a
// sampler producing values proportional to those weights, with exact
// PDF evaluation. Immutable after construction and safe for
// concurrent use.
type Distribution1D struct {
	// Func is the weight array the distribution was built from
	Func []float64
	// CDF is the step-function CDF of length len(Func)+1, with
	// CDF[0]=0 and CDF[n]=1
	CDF []float64
	// FuncInt is the integral of the step function over [0,1)
	FuncInt float64
}

// NewDistribution1D builds the distribution in O(n). An all-zero
// weight array falls back to a uniform CDF (cdf[i] = i/n) rather
// than dividing by zero.
func NewDistribution1D(f []float64) *Distribution1D {
	n := len(f)
	d := &Distribution1D{
		Func: append([]float64(nil), f...),
		CDF:  make([]float64, n+1),
	}
	for i := 1; i < n+1; i++ {
		d.CDF[i] = d.CDF[i-1] + d.Func[i-1]/float64(n)
	}
	d.FuncInt = d.CDF[n]
	if d.FuncInt == 0 {
		for i := 1; i < n+1; i++ {
			d.CDF[i] = float64(i) / float64(n)
		}
	} else {
		for i := 1; i < n+1; i++ {
			d.CDF[i] /= d.FuncInt
		}
	}
	return d
}

// Count returns the number of weights
func (d *Distribution1D) Count() int {
	return len(d.Func)
}

// SampleContinuous maps u through the inverse CDF, returning a value
// in [0,1), the PDF at that value, and the segment index. A u exactly
// on a CDF boundary belongs to the following segment.
func (d *Distribution1D) SampleContinuous(u float64) (x float64, pdf float64, offset int) {
	offset = FindInterval(len(d.CDF), func(i int) bool { return d.CDF[i] <= u })
	du := u - d.CDF[offset]
	if d.CDF[offset+1]-d.CDF[offset] > 0 {
		du /= d.CDF[offset+1] - d.CDF[offset]
	}
	if d.FuncInt > 0 {
		pdf = d.Func[offset] / d.FuncInt
	}
	x = (float64(offset) + du) / float64(d.Count())
	return x, pdf, offset
}

// SampleDiscrete picks a segment index with probability proportional
// to its weight, returning the index and its discrete probability
func (d *Distribution1D) SampleDiscrete(u float64) (offset int, pdf float64) {
	offset = FindInterval(len(d.CDF), func(i int) bool { return d.CDF[i] <= u })
	if d.FuncInt > 0 {
		pdf = d.Func[offset] / (d.FuncInt * float64(d.Count()))
	}
	return offset, pdf
}

// DiscretePdf returns the probability of SampleDiscrete choosing index
func (d *Distribution1D) DiscretePdf(index int) float64 {
	if d.FuncInt == 0 {
		return 1.0 / float64(d.Count())
	}
	return d.Func[index] / (d.FuncInt * float64(d.Count()))
}
