// Package lights implements the emitter models: delta lights (point,
// distant), shape-backed area lights and the infinite environment
// light, plus the distributions used to pick a light per shading
// point.
package lights

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
)

// PointLight emits intensity I isotropically from a single position.
// Its domain is a delta, so PdfLi is always zero and direct lighting
// skips the BSDF-sampling MIS half.
type PointLight struct {
	p        core.Vec3
	i        core.Vec3
	nSamples int
}

func NewPointLight(p, i core.Vec3) *PointLight {
	return &PointLight{p: p, i: i, nSamples: 1}
}

func (l *PointLight) SampleLi(ref *core.Interaction, u core.Vec2) (core.Vec3, core.Vec3, float64, core.VisibilityTester) {
	d := l.p.Subtract(ref.P)
	wi := d.Normalize()
	li := l.i.Divide(d.LengthSquared())
	vis := core.VisibilityTester{P0: *ref, P1: core.InteractionFromPoint(l.p)}
	return li, wi, 1, vis
}

func (l *PointLight) PdfLi(ref *core.Interaction, wi core.Vec3) float64 {
	return 0
}

func (l *PointLight) Preprocess(scene core.Scene) {}

func (l *PointLight) NumSamples() int { return l.nSamples }

func (l *PointLight) Flags() core.LightFlags { return core.LightDeltaPosition }

func (l *PointLight) Power() core.Vec3 {
	return l.i.Multiply(4 * math.Pi)
}

func (l *PointLight) Le(ray *core.Ray) core.Vec3 { return core.Vec3{} }
