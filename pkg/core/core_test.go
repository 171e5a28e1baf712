package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestVec3Basics(t *testing.T) {
	v := NewVec3(1, 2, 3)
	if v.Dot(NewVec3(4, 5, 6)) != 32 {
		t.Errorf("Dot = %v, want 32", v.Dot(NewVec3(4, 5, 6)))
	}
	c := NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0))
	if c != NewVec3(0, 0, 1) {
		t.Errorf("Cross = %v, want +z", c)
	}
	if NewVec3(3, 4, 0).Length() != 5 {
		t.Error("Length wrong")
	}
	if !Grey(0).IsBlack() || Grey(0.1).IsBlack() {
		t.Error("IsBlack wrong")
	}
	if math.Abs(Grey(1).Luminance()-1) > 1e-12 {
		t.Errorf("Luminance(white) = %v, want 1", Grey(1).Luminance())
	}
	if NewVec3(1, 5, 2).MaxComponent() != 5 {
		t.Error("MaxComponent wrong")
	}
	if !NewVec3(math.NaN(), 0, 0).HasNaN() {
		t.Error("HasNaN missed NaN")
	}
}

func TestFaceForward(t *testing.T) {
	n := NewVec3(0, 0, 1)
	if FaceForward(n, NewVec3(0, 0, -1)) != NewVec3(0, 0, -1) {
		t.Error("FaceForward did not flip")
	}
	if FaceForward(n, NewVec3(0.1, 0, 1)) != n {
		t.Error("FaceForward flipped needlessly")
	}
}

func TestBoundsUnionAndSphere(t *testing.T) {
	b := EmptyBounds().
		Union(NewBounds3(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))).
		Union(NewBounds3(NewVec3(2, 0, 0), NewVec3(3, 1, 1)))
	if b.Min != NewVec3(-1, -1, -1) || b.Max != NewVec3(3, 1, 1) {
		t.Fatalf("union bounds %+v wrong", b)
	}
	center, radius := b.BoundingSphere()
	if center != NewVec3(1, 0, 0) {
		t.Errorf("center = %v, want (1,0,0)", center)
	}
	// The sphere must cover the corners
	if radius < b.Max.Subtract(center).Length()-1e-12 {
		t.Errorf("radius %v too small", radius)
	}
}

func TestRayScaleDifferentials(t *testing.T) {
	ray := NewRay(Vec3{}, NewVec3(0, 0, 1))
	ray.Differential = &RayDifferential{
		RxOrigin:    NewVec3(1, 0, 0),
		RyOrigin:    NewVec3(0, 1, 0),
		RxDirection: NewVec3(0.1, 0, 1),
		RyDirection: NewVec3(0, 0.1, 1),
	}
	ray.ScaleDifferentials(0.5)
	if ray.Differential.RxOrigin != NewVec3(0.5, 0, 0) {
		t.Errorf("RxOrigin = %v", ray.Differential.RxOrigin)
	}
	if ray.Differential.RxDirection != NewVec3(0.05, 0, 1) {
		t.Errorf("RxDirection = %v", ray.Differential.RxDirection)
	}
}

// OffsetRayOrigin must move the point strictly off the surface in the
// ray's hemisphere, never backward.
func TestOffsetRayOrigin(t *testing.T) {
	rng := rand.New(rand.NewSource(41))
	for i := 0; i < 10000; i++ {
		p := NewVec3(rng.Float64()*200-100, rng.Float64()*200-100, rng.Float64()*200-100)
		n := NewVec3(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1).Normalize()
		pError := Grey(1e-10).Multiply(1 + rng.Float64()*100)
		w := NewVec3(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1).Normalize()

		o := OffsetRayOrigin(p, pError, n, w)
		d := o.Subtract(p)
		// The offset goes with the ray's side of the surface
		side := 1.0
		if w.Dot(n) < 0 {
			side = -1
		}
		if d.Dot(n)*side < 0 {
			t.Fatalf("offset %v opposes the ray side", d)
		}
	}
}

type planeScene struct {
	hit bool
}

func (p *planeScene) Intersect(ray *Ray) (*SurfaceInteraction, bool) { return nil, p.hit }
func (p *planeScene) IntersectP(ray *Ray) bool                       { return p.hit }
func (p *planeScene) WorldBounds() Bounds3                           { return EmptyBounds() }
func (p *planeScene) Lights() []Light                                { return nil }
func (p *planeScene) InfiniteLights() []Light                        { return nil }

func TestVisibilityTester(t *testing.T) {
	a := InteractionFromPoint(Vec3{})
	b := InteractionFromPoint(NewVec3(0, 0, 10))
	vis := VisibilityTester{P0: a, P1: b}
	if !vis.Unoccluded(&planeScene{hit: false}) {
		t.Error("clear segment reported occluded")
	}
	if vis.Unoccluded(&planeScene{hit: true}) {
		t.Error("blocked segment reported clear")
	}
}

func TestSpawnRayToStopsShort(t *testing.T) {
	it := Interaction{P: Vec3{}, N: NewVec3(0, 0, 1)}
	ray := it.SpawnRayTo(NewVec3(0, 0, 5))
	// The segment ends just before the target so the target surface
	// itself is not reported as an occluder
	if ray.TMax >= 1 {
		t.Errorf("TMax = %v, want < 1", ray.TMax)
	}
	if ray.TMax < 0.99 {
		t.Errorf("TMax = %v trims too much", ray.TMax)
	}
}

func TestSurfaceInteractionNormalAndLe(t *testing.T) {
	si := NewSurfaceInteraction(
		NewVec3(0, 0, 0), Vec3{}, NewVec2(0.5, 0.5),
		NewVec3(0, 0, 1),
		NewVec3(1, 0, 0), NewVec3(0, 1, 0),
		Vec3{}, Vec3{}, nil,
	)
	if si.N != NewVec3(0, 0, 1) {
		t.Errorf("geometric normal %v, want +z", si.N)
	}
	if si.Shading.N != si.N {
		t.Error("shading frame must start at the geometric frame")
	}
	// No primitive attached: no emission, and scattering computation is
	// a no-op rather than a panic
	if !si.Le(NewVec3(0, 0, 1)).IsBlack() {
		t.Error("emission without a primitive")
	}
	ray := NewRay(NewVec3(0, 0, -1), NewVec3(0, 0, 1))
	si.ComputeScatteringFunctions(&ray, TransportRadiance, true)
	if si.BSDF != nil {
		t.Error("BSDF appeared without a material")
	}
}

func TestSetShadingGeometry(t *testing.T) {
	si := NewSurfaceInteraction(
		Vec3{}, Vec3{}, Vec2{},
		NewVec3(0, 0, 1),
		NewVec3(1, 0, 0), NewVec3(0, 1, 0),
		Vec3{}, Vec3{}, nil,
	)
	// A perturbed frame pointing away gets flipped back to the
	// geometric side
	si.SetShadingGeometry(NewVec3(0, 1, 0), NewVec3(1, 0, 0), Vec3{}, Vec3{}, false)
	if si.Shading.N.Dot(si.N) <= 0 {
		t.Errorf("shading normal %v on the wrong side", si.Shading.N)
	}
}
