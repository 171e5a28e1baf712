package scene

import (
	"github.com/spindle-render/go-spindle/pkg/core"
	"github.com/spindle-render/go-spindle/pkg/geometry"
	"github.com/spindle-render/go-spindle/pkg/lights"
	"github.com/spindle-render/go-spindle/pkg/material"
)

// Default builds the standard test scene: a matte ground sphere, one
// sphere per material family, an emissive sphere overhead and a dim
// constant environment. Integrator tests and examples render it so
// every scattering path through the transport code gets exercised.
func Default() *Scene {
	ground := geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000)
	matte := geometry.NewSphere(core.NewVec3(-2.5, 1, 0), 1)
	plastic := geometry.NewSphere(core.NewVec3(0, 1, 0), 1)
	mirror := geometry.NewSphere(core.NewVec3(2.5, 1, 0), 1)
	glass := geometry.NewSphere(core.NewVec3(-1.2, 1, 2.2), 1)
	metal := geometry.NewSphere(core.NewVec3(1.2, 1, 2.2), 1)
	lamp := geometry.NewSphere(core.NewVec3(0, 6, 0), 0.8)

	// Gold-ish conductor indices
	goldEta := core.NewVec3(0.143, 0.375, 1.44)
	goldK := core.NewVec3(3.98, 2.39, 1.60)

	area := lights.NewDiffuseAreaLight(core.Grey(12), lamp, 1, false)

	prims := []core.Primitive{
		geometry.NewGeometricPrimitive(ground, material.NewMatte(core.Grey(0.5), 0), nil),
		geometry.NewGeometricPrimitive(matte, material.NewMatte(core.NewVec3(0.7, 0.3, 0.3), 20), nil),
		geometry.NewGeometricPrimitive(plastic, material.NewPlastic(core.NewVec3(0.2, 0.3, 0.7), core.Grey(0.4), 0.05, true), nil),
		geometry.NewGeometricPrimitive(mirror, material.NewMirror(core.Grey(0.9)), nil),
		geometry.NewGeometricPrimitive(glass, material.NewGlass(core.Grey(1), core.Grey(1), 1.5), nil),
		geometry.NewGeometricPrimitive(metal, material.NewMetal(goldEta, goldK, 0.02, true), nil),
		geometry.NewGeometricPrimitive(lamp, material.NewMatte(core.Vec3{}, 0), area),
	}
	sceneLights := []core.Light{
		area,
		lights.NewPointLight(core.NewVec3(-4, 5, 4), core.Grey(40)),
		lights.NewConstantInfiniteLight(core.Grey(0.08), 1),
	}
	return New(prims, sceneLights)
}
