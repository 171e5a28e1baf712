package sampling

import "github.com/spindle-render/go-spindle/pkg/core"

// Distribution2D importance-samples a 2D piecewise-constant function,
// such as the luminance of an environment map. Sampling is
// hierarchical: a marginal distribution over rows picks v, then the
// row's conditional distribution picks u.
type Distribution2D struct {
	conditionalV []*Distribution1D
	marginal     *Distribution1D
}

// NewDistribution2D builds the distribution from a row-major nu x nv
// grid of non-negative weights
func NewDistribution2D(f []float64, nu, nv int) *Distribution2D {
	d := &Distribution2D{
		conditionalV: make([]*Distribution1D, 0, nv),
	}
	for v := 0; v < nv; v++ {
		d.conditionalV = append(d.conditionalV, NewDistribution1D(f[v*nu:(v+1)*nu]))
	}
	marginalFunc := make([]float64, 0, nv)
	for v := 0; v < nv; v++ {
		marginalFunc = append(marginalFunc, d.conditionalV[v].FuncInt)
	}
	d.marginal = NewDistribution1D(marginalFunc)
	return d
}

// SampleContinuous maps a uniform sample to a point in [0,1)^2 with
// density proportional to the function, returning the point and its
// PDF
func (d *Distribution2D) SampleContinuous(u core.Vec2) (core.Vec2, float64) {
	d1, pdf1, v := d.marginal.SampleContinuous(u.Y)
	d0, pdf0, _ := d.conditionalV[v].SampleContinuous(u.X)
	return core.NewVec2(d0, d1), pdf0 * pdf1
}

// Pdf evaluates the sampling density at a point in [0,1)^2
func (d *Distribution2D) Pdf(p core.Vec2) float64 {
	nu := d.conditionalV[0].Count()
	nv := d.marginal.Count()
	iu := clampInt(int(p.X*float64(nu)), 0, nu-1)
	iv := clampInt(int(p.Y*float64(nv)), 0, nv-1)
	if d.marginal.FuncInt == 0 {
		return 0
	}
	return d.conditionalV[iv].Func[iu] / d.marginal.FuncInt
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
