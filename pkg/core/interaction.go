package core

import "math"

// shadowEpsilon trims the far end of shadow-ray segments so they stop
// short of the light surface itself.
const shadowEpsilon = 1e-4

// OffsetRayOrigin computes a ray origin guaranteed to lie on the
// outside of the surface the ray leaves. The offset is derived from
// the intersection's conservative error bounds rather than a fixed
// epsilon, then rounded away from the surface by one representable
// step per component.
func OffsetRayOrigin(p, pError, n, w Vec3) Vec3 {
	d := n.Abs().Dot(pError)
	offset := n.Multiply(d)
	if w.Dot(n) < 0 {
		offset = offset.Negate()
	}
	po := p.Add(offset)
	if offset.X > 0 {
		po.X = math.Nextafter(po.X, math.Inf(1))
	} else if offset.X < 0 {
		po.X = math.Nextafter(po.X, math.Inf(-1))
	}
	if offset.Y > 0 {
		po.Y = math.Nextafter(po.Y, math.Inf(1))
	} else if offset.Y < 0 {
		po.Y = math.Nextafter(po.Y, math.Inf(-1))
	}
	if offset.Z > 0 {
		po.Z = math.Nextafter(po.Z, math.Inf(1))
	} else if offset.Z < 0 {
		po.Z = math.Nextafter(po.Z, math.Inf(-1))
	}
	return po
}

// Interaction is a point on a surface (or a bare point in space, for
// light endpoints) together with the error bounds needed to spawn
// rays from it robustly.
type Interaction struct {
	// P is the point where the ray hit the surface
	P Vec3
	// PError bounds the floating-point error in P
	PError Vec3
	// Wo is the outgoing direction at the point, usually -ray.Direction
	Wo Vec3
	// N is the geometric normal; zero for bare points
	N Vec3
}

// InteractionFromPoint wraps a bare point with no surface attached
func InteractionFromPoint(p Vec3) Interaction {
	return Interaction{P: p}
}

// SpawnRay starts a ray at the interaction heading in dir, offset
// along the normal by the stored error bound
func (it *Interaction) SpawnRay(dir Vec3) Ray {
	o := OffsetRayOrigin(it.P, it.PError, it.N, dir)
	return NewRay(o, dir)
}

// SpawnRayTo starts a bounded ray from the interaction toward a point
func (it *Interaction) SpawnRayTo(p Vec3) Ray {
	d := p.Subtract(it.P)
	o := OffsetRayOrigin(it.P, it.PError, it.N, d)
	return NewRaySegment(o, d, 1-shadowEpsilon)
}

// SpawnRayToInteraction starts a bounded ray between two interactions,
// offsetting both endpoints by their error bounds
func (it *Interaction) SpawnRayToInteraction(other *Interaction) Ray {
	origin := OffsetRayOrigin(it.P, it.PError, it.N, other.P.Subtract(it.P))
	target := OffsetRayOrigin(other.P, other.PError, other.N, origin.Subtract(other.P))
	d := target.Subtract(origin)
	return NewRaySegment(origin, d, 1-shadowEpsilon)
}

// Shading holds the shading frame at a surface interaction. The
// normal starts equal to the geometric normal and may diverge after
// bump mapping.
type Shading struct {
	N    Vec3
	Dpdu Vec3
	Dpdv Vec3
	Dndu Vec3
	Dndv Vec3
}

// SurfaceInteraction describes a ray-surface hit. It is created per
// intersection query, lives for one integrator sample, and must not
// be retained beyond the Li call that produced it.
type SurfaceInteraction struct {
	Interaction
	// UV are the surface parametric coordinates
	UV Vec2
	// Dpdu and Dpdv are the partial derivatives of the hit point
	Dpdu Vec3
	Dpdv Vec3
	// Dndu and Dndv are the partial derivatives of the normal
	Dndu Vec3
	Dndv Vec3
	// Shading is the possibly bump-mapped frame used for scattering
	Shading Shading
	// Shape and Primitive are non-owning back-references valid for
	// the lifetime of one sample
	Shape     Shape
	Primitive Primitive
	// BSDF is populated lazily by ComputeScatteringFunctions; nil
	// marks a pass-through interface.
	BSDF BSDF
	// Screen-space derivatives of the hit point and UVs, filled from
	// ray differentials
	Dpdx, Dpdy Vec3
	Dudx, Dvdx float64
	Dudy, Dvdy float64
}

// NewSurfaceInteraction builds a surface interaction from the
// geometric fields produced by a shape intersection. The geometric
// normal is cross(dpdu, dpdv) normalized; the shading frame starts
// out identical to the geometric one.
func NewSurfaceInteraction(p, pError Vec3, uv Vec2, wo, dpdu, dpdv, dndu, dndv Vec3, shape Shape) *SurfaceInteraction {
	n := dpdu.Cross(dpdv).Normalize()
	return &SurfaceInteraction{
		Interaction: Interaction{P: p, PError: pError, Wo: wo.Normalize(), N: n},
		UV:          uv,
		Dpdu:        dpdu,
		Dpdv:        dpdv,
		Dndu:        dndu,
		Dndv:        dndv,
		Shading:     Shading{N: n, Dpdu: dpdu, Dpdv: dpdv, Dndu: dndu, Dndv: dndv},
		Shape:       shape,
	}
}

// SetShadingGeometry installs a perturbed shading frame, e.g. after
// bump mapping. The shading normal is oriented to the same side as
// the geometric normal unless authoritative is set.
func (si *SurfaceInteraction) SetShadingGeometry(dpdu, dpdv, dndu, dndv Vec3, authoritative bool) {
	n := dpdu.Cross(dpdv).Normalize()
	if authoritative {
		si.N = FaceForward(si.N, n)
	} else {
		n = FaceForward(n, si.N)
	}
	si.Shading = Shading{N: n, Dpdu: dpdu, Dpdv: dpdv, Dndu: dndu, Dndv: dndv}
}

// ComputeScatteringFunctions asks the hit primitive's material for the
// BSDF at this point. A nil material (or a material that declines to
// produce a BSDF) leaves si.BSDF nil, which integrators treat as a
// pass-through boundary, not as absorption.
func (si *SurfaceInteraction) ComputeScatteringFunctions(ray *Ray, mode TransportMode, allowMultipleLobes bool) {
	si.computeDifferentials(ray)
	if si.Primitive == nil {
		return
	}
	if mat := si.Primitive.Material(); mat != nil {
		mat.ComputeScatteringFunctions(si, mode, allowMultipleLobes)
	}
}

// Le returns the emitted radiance if the hit primitive is an area
// light, black otherwise
func (si *SurfaceInteraction) Le(w Vec3) Vec3 {
	if si.Primitive != nil {
		if area := si.Primitive.AreaLight(); area != nil {
			return area.L(&si.Interaction, w)
		}
	}
	return Vec3{}
}

// computeDifferentials estimates screen-space derivatives of the hit
// point and UV coordinates from the ray's differentials by
// intersecting the auxiliary rays with the tangent plane.
func (si *SurfaceInteraction) computeDifferentials(ray *Ray) {
	if ray == nil || ray.Differential == nil {
		return
	}
	diff := ray.Differential
	d := si.N.Dot(si.P)
	denomX := si.N.Dot(diff.RxDirection)
	denomY := si.N.Dot(diff.RyDirection)
	if denomX == 0 || denomY == 0 {
		return
	}
	tx := (d - si.N.Dot(diff.RxOrigin)) / denomX
	ty := (d - si.N.Dot(diff.RyOrigin)) / denomY
	px := diff.RxOrigin.Add(diff.RxDirection.Multiply(tx))
	py := diff.RyOrigin.Add(diff.RyDirection.Multiply(ty))
	si.Dpdx = px.Subtract(si.P)
	si.Dpdy = py.Subtract(si.P)

	// Solve the overdetermined dp = du*dpdu + dv*dpdv system over the
	// two dimensions where the normal is largest.
	var dim [2]int
	an := si.N.Abs()
	switch {
	case an.X > an.Y && an.X > an.Z:
		dim = [2]int{1, 2}
	case an.Y > an.Z:
		dim = [2]int{0, 2}
	default:
		dim = [2]int{0, 1}
	}
	a := [2][2]float64{
		{si.Dpdu.Component(dim[0]), si.Dpdv.Component(dim[0])},
		{si.Dpdu.Component(dim[1]), si.Dpdv.Component(dim[1])},
	}
	bx := [2]float64{si.Dpdx.Component(dim[0]), si.Dpdx.Component(dim[1])}
	by := [2]float64{si.Dpdy.Component(dim[0]), si.Dpdy.Component(dim[1])}
	si.Dudx, si.Dvdx = solveLinear2x2(a, bx)
	si.Dudy, si.Dvdy = solveLinear2x2(a, by)
}

func solveLinear2x2(a [2][2]float64, b [2]float64) (float64, float64) {
	det := a[0][0]*a[1][1] - a[0][1]*a[1][0]
	if math.Abs(det) < 1e-10 {
		return 0, 0
	}
	x0 := (a[1][1]*b[0] - a[0][1]*b[1]) / det
	x1 := (a[0][0]*b[1] - a[1][0]*b[0]) / det
	if math.IsNaN(x0) || math.IsNaN(x1) {
		return 0, 0
	}
	return x0, x1
}

// VisibilityTester is a pair of interaction endpoints whose sole
// operation is an occlusion query between them
type VisibilityTester struct {
	P0, P1 Interaction
}

// Unoccluded reports whether the segment between the two endpoints is
// free of intersections
func (v *VisibilityTester) Unoccluded(scene Scene) bool {
	ray := v.P0.SpawnRayToInteraction(&v.P1)
	return !scene.IntersectP(&ray)
}
