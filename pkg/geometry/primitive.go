package geometry

import "github.com/spindle-render/go-spindle/pkg/core"

// GeometricPrimitive binds a shape to its material and, for emitters,
// its area light
type GeometricPrimitive struct {
	shape     core.Shape
	material  core.Material
	areaLight core.AreaLight
}

func NewGeometricPrimitive(shape core.Shape, material core.Material, areaLight core.AreaLight) *GeometricPrimitive {
	return &GeometricPrimitive{shape: shape, material: material, areaLight: areaLight}
}

func (g *GeometricPrimitive) Intersect(ray *core.Ray) (*core.SurfaceInteraction, bool) {
	si, ok := g.shape.Intersect(ray)
	if !ok {
		return nil, false
	}
	si.Primitive = g
	return si, true
}

func (g *GeometricPrimitive) IntersectP(ray *core.Ray) bool {
	return g.shape.IntersectP(ray)
}

func (g *GeometricPrimitive) WorldBounds() core.Bounds3 {
	return g.shape.WorldBounds()
}

func (g *GeometricPrimitive) Material() core.Material {
	return g.material
}

func (g *GeometricPrimitive) AreaLight() core.AreaLight {
	return g.areaLight
}
