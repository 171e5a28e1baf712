package lights

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
)

// DistantLight models an emitter so far away that its rays arrive
// parallel, carrying constant radiance L from direction wLight.
// Preprocess captures the scene's bounding sphere so shadow-ray
// endpoints can be placed outside all geometry.
type DistantLight struct {
	l           core.Vec3
	wLight      core.Vec3
	worldCenter core.Vec3
	worldRadius float64
	nSamples    int
}

// NewDistantLight creates a distant light emitting radiance l along w
// (pointing from the light toward the scene)
func NewDistantLight(l, w core.Vec3) *DistantLight {
	return &DistantLight{l: l, wLight: w.Normalize().Negate(), nSamples: 1}
}

func (d *DistantLight) Preprocess(scene core.Scene) {
	d.worldCenter, d.worldRadius = scene.WorldBounds().BoundingSphere()
}

func (d *DistantLight) SampleLi(ref *core.Interaction, u core.Vec2) (core.Vec3, core.Vec3, float64, core.VisibilityTester) {
	wi := d.wLight
	pOutside := ref.P.Add(wi.Multiply(2 * d.worldRadius))
	vis := core.VisibilityTester{P0: *ref, P1: core.InteractionFromPoint(pOutside)}
	return d.l, wi, 1, vis
}

func (d *DistantLight) PdfLi(ref *core.Interaction, wi core.Vec3) float64 {
	return 0
}

func (d *DistantLight) NumSamples() int { return d.nSamples }

func (d *DistantLight) Flags() core.LightFlags { return core.LightDeltaDirection }

func (d *DistantLight) Power() core.Vec3 {
	return d.l.Multiply(math.Pi * d.worldRadius * d.worldRadius)
}

func (d *DistantLight) Le(ray *core.Ray) core.Vec3 { return core.Vec3{} }
