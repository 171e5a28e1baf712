package lights

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
)

// DiffuseAreaLight attaches uniform diffuse emission to a shape. One-
// sided lights emit only from the side the geometric normal points to.
type DiffuseAreaLight struct {
	lEmit    core.Vec3
	shape    core.Shape
	twoSided bool
	area     float64
	nSamples int
}

func NewDiffuseAreaLight(lEmit core.Vec3, shape core.Shape, nSamples int, twoSided bool) *DiffuseAreaLight {
	if nSamples < 1 {
		nSamples = 1
	}
	return &DiffuseAreaLight{
		lEmit:    lEmit,
		shape:    shape,
		twoSided: twoSided,
		area:     shape.Area(),
		nSamples: nSamples,
	}
}

// L is the radiance leaving a point on the light in direction w
func (d *DiffuseAreaLight) L(it *core.Interaction, w core.Vec3) core.Vec3 {
	if d.twoSided || it.N.Dot(w) > 0 {
		return d.lEmit
	}
	return core.Vec3{}
}

func (d *DiffuseAreaLight) SampleLi(ref *core.Interaction, u core.Vec2) (core.Vec3, core.Vec3, float64, core.VisibilityTester) {
	pShape, pdf := d.shape.SampleFrom(ref, u)
	if pdf == 0 || pShape.P.Subtract(ref.P).LengthSquared() == 0 {
		return core.Vec3{}, core.Vec3{}, 0, core.VisibilityTester{}
	}
	wi := pShape.P.Subtract(ref.P).Normalize()
	li := d.L(&pShape, wi.Negate())
	vis := core.VisibilityTester{P0: *ref, P1: pShape}
	return li, wi, pdf, vis
}

func (d *DiffuseAreaLight) PdfLi(ref *core.Interaction, wi core.Vec3) float64 {
	return d.shape.PdfFrom(ref, wi)
}

func (d *DiffuseAreaLight) Preprocess(scene core.Scene) {}

func (d *DiffuseAreaLight) NumSamples() int { return d.nSamples }

func (d *DiffuseAreaLight) Flags() core.LightFlags { return core.LightArea }

func (d *DiffuseAreaLight) Power() core.Vec3 {
	sides := 1.0
	if d.twoSided {
		sides = 2
	}
	return d.lEmit.Multiply(sides * d.area * math.Pi)
}

func (d *DiffuseAreaLight) Le(ray *core.Ray) core.Vec3 { return core.Vec3{} }
