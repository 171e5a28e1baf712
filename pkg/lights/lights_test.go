package lights

import (
	"math"
	"math/rand"
	"testing"

	"github.com/spindle-render/go-spindle/pkg/core"
	"github.com/spindle-render/go-spindle/pkg/geometry"
)

// stubScene provides world bounds and basic occlusion against a list
// of primitives, enough for light preprocessing and shadow rays
type stubScene struct {
	bounds     core.Bounds3
	primitives []core.Primitive
	lights     []core.Light
}

func (s *stubScene) Intersect(ray *core.Ray) (*core.SurfaceInteraction, bool) {
	var nearest *core.SurfaceInteraction
	for _, p := range s.primitives {
		if si, ok := p.Intersect(ray); ok {
			nearest = si
		}
	}
	return nearest, nearest != nil
}

func (s *stubScene) IntersectP(ray *core.Ray) bool {
	for _, p := range s.primitives {
		if p.IntersectP(ray) {
			return true
		}
	}
	return false
}

func (s *stubScene) WorldBounds() core.Bounds3    { return s.bounds }
func (s *stubScene) Lights() []core.Light         { return s.lights }
func (s *stubScene) InfiniteLights() []core.Light { return nil }

func emptyScene() *stubScene {
	return &stubScene{
		bounds: core.NewBounds3(core.Grey(-10), core.Grey(10)),
	}
}

func TestPointLightFalloff(t *testing.T) {
	l := NewPointLight(core.NewVec3(0, 5, 0), core.Grey(100))
	ref := core.InteractionFromPoint(core.NewVec3(0, 0, 0))

	li, wi, pdf, vis := l.SampleLi(&ref, core.Vec2{})
	if pdf != 1 {
		t.Errorf("pdf = %v, want 1", pdf)
	}
	// Radiance falls off with the squared distance (25 here)
	if math.Abs(li.X-4) > 1e-12 {
		t.Errorf("li = %v, want 4", li.X)
	}
	if wi.Subtract(core.NewVec3(0, 1, 0)).Length() > 1e-12 {
		t.Errorf("wi = %v, want +y", wi)
	}
	if vis.P1.P.Subtract(core.NewVec3(0, 5, 0)).Length() != 0 {
		t.Errorf("visibility endpoint %v not at the light", vis.P1.P)
	}

	if !core.IsDeltaLight(l.Flags()) {
		t.Error("point light must be delta")
	}
	if l.PdfLi(&ref, wi) != 0 {
		t.Error("delta light PdfLi must be 0")
	}
	want := core.Grey(100 * 4 * math.Pi)
	if l.Power().Subtract(want).Length() > 1e-9 {
		t.Errorf("Power = %v, want %v", l.Power(), want)
	}
}

func TestDistantLight(t *testing.T) {
	l := NewDistantLight(core.Grey(2), core.NewVec3(0, -1, 0))
	s := emptyScene()
	l.Preprocess(s)

	ref := core.InteractionFromPoint(core.Vec3{})
	li, wi, pdf, vis := l.SampleLi(&ref, core.Vec2{})
	if pdf != 1 {
		t.Errorf("pdf = %v, want 1", pdf)
	}
	if li.X != 2 {
		t.Errorf("li = %v, want 2", li.X)
	}
	// wi points toward the light, opposite the emission direction
	if wi.Subtract(core.NewVec3(0, 1, 0)).Length() > 1e-12 {
		t.Errorf("wi = %v, want +y", wi)
	}
	// The shadow endpoint must clear the scene bounds
	_, worldRadius := s.bounds.BoundingSphere()
	if vis.P1.P.Subtract(ref.P).Length() < worldRadius {
		t.Errorf("shadow endpoint %v inside the scene", vis.P1.P)
	}
	if l.Flags() != core.LightDeltaDirection {
		t.Error("wrong flags")
	}
}

func TestDiffuseAreaLightEmissionSides(t *testing.T) {
	sphere := geometry.NewSphere(core.Vec3{}, 1)
	oneSided := NewDiffuseAreaLight(core.Grey(5), sphere, 1, false)
	twoSided := NewDiffuseAreaLight(core.Grey(5), sphere, 1, true)

	it := core.Interaction{P: core.NewVec3(0, 0, 1), N: core.NewVec3(0, 0, 1)}
	out := core.NewVec3(0, 0, 1)
	in := core.NewVec3(0, 0, -1)

	if oneSided.L(&it, out).X != 5 {
		t.Error("front emission missing")
	}
	if !oneSided.L(&it, in).IsBlack() {
		t.Error("one-sided light emits backward")
	}
	if twoSided.L(&it, in).X != 5 {
		t.Error("two-sided light dark on the back")
	}
	if twoSided.Power().X != 2*oneSided.Power().X {
		t.Error("two-sided power must double")
	}
}

func TestDiffuseAreaLightSampleLi(t *testing.T) {
	sphere := geometry.NewSphere(core.NewVec3(0, 0, 5), 1)
	l := NewDiffuseAreaLight(core.Grey(3), sphere, 4, false)
	ref := core.InteractionFromPoint(core.Vec3{})
	rng := rand.New(rand.NewSource(19))

	for i := 0; i < 5000; i++ {
		u := core.NewVec2(rng.Float64(), rng.Float64())
		li, wi, pdf, vis := l.SampleLi(&ref, u)
		if pdf <= 0 {
			t.Fatalf("pdf = %v", pdf)
		}
		if li.IsBlack() {
			t.Fatal("sampled point not emitting toward ref")
		}
		// The PDF must agree with PdfLi for the same direction
		if evalPdf := l.PdfLi(&ref, wi); math.Abs(evalPdf-pdf) > 1e-6*pdf {
			t.Fatalf("PdfLi = %v, sample pdf = %v", evalPdf, pdf)
		}
		// Endpoint sits on the sphere
		if r := vis.P1.P.Subtract(core.NewVec3(0, 0, 5)).Length(); math.Abs(r-1) > 1e-6 {
			t.Fatalf("endpoint radius %v", r)
		}
	}
	if l.NumSamples() != 4 {
		t.Errorf("NumSamples = %d, want 4", l.NumSamples())
	}
	if core.IsDeltaLight(l.Flags()) {
		t.Error("area light must not be delta")
	}
}

func TestInfiniteLightConstant(t *testing.T) {
	l := NewConstantInfiniteLight(core.Grey(1), 1)
	s := emptyScene()
	l.Preprocess(s)

	ray := core.NewRay(core.Vec3{}, core.NewVec3(0.3, -0.4, 0.5).Normalize())
	if le := l.Le(&ray); le.X != 1 {
		t.Errorf("Le = %v, want 1", le.X)
	}

	// The sampling pdf must integrate to 1 over the sphere
	rng := rand.New(rand.NewSource(23))
	ref := core.InteractionFromPoint(core.Vec3{})
	sum := 0.0
	const n = 100000
	for i := 0; i < n; i++ {
		u := core.NewVec2(rng.Float64(), rng.Float64())
		li, wi, pdf, _ := l.SampleLi(&ref, u)
		if pdf == 0 {
			continue
		}
		if li.X != 1 {
			t.Fatalf("li = %v", li)
		}
		if math.Abs(wi.Length()-1) > 1e-9 {
			t.Fatalf("wi not normalized: %v", wi)
		}
		// f == pdf-weighted estimate of the sphere measure
		sum += 1 / pdf
	}
	if got := sum / n; math.Abs(got-4*math.Pi) > 0.15 {
		t.Errorf("integrated solid angle %v, want %v", got, 4*math.Pi)
	}
}

func TestInfiniteLightSamplePdfConsistency(t *testing.T) {
	// A sharply peaked map: sampling must follow the bright texel and
	// PdfLi must agree with the sampling pdf
	w, h := 8, 4
	radiance := make([]core.Vec3, w*h)
	for i := range radiance {
		radiance[i] = core.Grey(0.01)
	}
	radiance[1*w+3] = core.Grey(50)
	l := NewInfiniteAreaLight(radiance, w, h, 1)
	l.Preprocess(emptyScene())

	ref := core.InteractionFromPoint(core.Vec3{})
	rng := rand.New(rand.NewSource(31))
	bright := 0
	const n = 20000
	for i := 0; i < n; i++ {
		u := core.NewVec2(rng.Float64(), rng.Float64())
		li, wi, pdf, _ := l.SampleLi(&ref, u)
		if pdf == 0 {
			continue
		}
		if evalPdf := l.PdfLi(&ref, wi); math.Abs(evalPdf-pdf) > 1e-6*pdf {
			t.Fatalf("PdfLi = %v, sample pdf = %v", evalPdf, pdf)
		}
		if li.X > 1 {
			bright++
		}
	}
	if float64(bright)/n < 0.5 {
		t.Errorf("only %d/%d samples hit the bright texel", bright, n)
	}
}

func TestPowerLightDistribution(t *testing.T) {
	s := emptyScene()
	weak := NewPointLight(core.Vec3{}, core.Grey(1))
	strong := NewPointLight(core.NewVec3(1, 0, 0), core.Grey(99))
	s.lights = []core.Light{weak, strong}

	d := NewPowerLightDistribution(s)
	rng := rand.New(rand.NewSource(37))
	counts := [2]int{}
	const n = 100000
	for i := 0; i < n; i++ {
		idx, pdf := d.Lookup(rng.Float64())
		if pdf <= 0 {
			t.Fatalf("pdf = %v", pdf)
		}
		if math.Abs(pdf-d.Pdf(idx)) > 1e-12 {
			t.Fatalf("Lookup pdf %v != Pdf(%d) %v", pdf, idx, d.Pdf(idx))
		}
		counts[idx]++
	}
	gotStrong := float64(counts[1]) / n
	if math.Abs(gotStrong-0.99) > 0.01 {
		t.Errorf("strong light frequency %v, want 0.99", gotStrong)
	}
}

func TestUniformLightDistribution(t *testing.T) {
	s := emptyScene()
	s.lights = []core.Light{
		NewPointLight(core.Vec3{}, core.Grey(1)),
		NewPointLight(core.Vec3{}, core.Grey(2)),
		NewPointLight(core.Vec3{}, core.Grey(3)),
	}
	d := NewUniformLightDistribution(s)
	for _, u := range []float64{0, 0.2, 0.5, 0.9, 0.999999} {
		idx, pdf := d.Lookup(u)
		if idx < 0 || idx > 2 {
			t.Fatalf("index %d out of range", idx)
		}
		if math.Abs(pdf-1.0/3) > 1e-12 {
			t.Fatalf("pdf = %v, want 1/3", pdf)
		}
	}
}
