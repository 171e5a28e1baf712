// Package material maps surface descriptions to scattering functions.
// Each material's ComputeScatteringFunctions builds the BSDF for one
// intersection; materials themselves are immutable and shared across
// goroutines.
package material

import (
	"github.com/spindle-render/go-spindle/pkg/bsdf"
	"github.com/spindle-render/go-spindle/pkg/core"
)

// Matte is purely diffuse: Lambertian for sigma 0, Oren-Nayar
// otherwise
type Matte struct {
	Kd    core.Vec3
	Sigma float64
}

func NewMatte(kd core.Vec3, sigma float64) *Matte {
	return &Matte{Kd: kd, Sigma: sigma}
}

func (m *Matte) ComputeScatteringFunctions(si *core.SurfaceInteraction, mode core.TransportMode, allowMultipleLobes bool) {
	b := bsdf.New(si, 1)
	if !m.Kd.IsBlack() {
		if m.Sigma == 0 {
			b.Add(&bsdf.LambertianReflection{R: m.Kd})
		} else {
			b.Add(bsdf.NewOrenNayar(m.Kd, m.Sigma))
		}
	}
	si.BSDF = b
}

// Plastic layers a glossy microfacet coat over a diffuse base
type Plastic struct {
	Kd, Ks         core.Vec3
	Roughness      float64
	RemapRoughness bool
}

func NewPlastic(kd, ks core.Vec3, roughness float64, remapRoughness bool) *Plastic {
	return &Plastic{Kd: kd, Ks: ks, Roughness: roughness, RemapRoughness: remapRoughness}
}

func (p *Plastic) ComputeScatteringFunctions(si *core.SurfaceInteraction, mode core.TransportMode, allowMultipleLobes bool) {
	b := bsdf.New(si, 1)
	if !p.Kd.IsBlack() {
		b.Add(&bsdf.LambertianReflection{R: p.Kd})
	}
	if !p.Ks.IsBlack() {
		rough := p.Roughness
		if p.RemapRoughness {
			rough = bsdf.RoughnessToAlpha(rough)
		}
		distrib := bsdf.NewTrowbridgeReitzDistribution(rough, rough)
		b.Add(&bsdf.MicrofacetReflection{
			R:            p.Ks,
			Distribution: distrib,
			Fresnel:      bsdf.FresnelDielectric{EtaI: 1.5, EtaT: 1},
		})
	}
	si.BSDF = b
}

// Mirror is a perfect specular reflector
type Mirror struct {
	Kr core.Vec3
}

func NewMirror(kr core.Vec3) *Mirror {
	return &Mirror{Kr: kr}
}

func (m *Mirror) ComputeScatteringFunctions(si *core.SurfaceInteraction, mode core.TransportMode, allowMultipleLobes bool) {
	b := bsdf.New(si, 1)
	if !m.Kr.IsBlack() {
		b.Add(&bsdf.SpecularReflection{R: m.Kr, Fresnel: bsdf.FresnelNoOp{}})
	}
	si.BSDF = b
}

// Glass is a smooth or rough dielectric with both reflection and
// transmission
type Glass struct {
	Kr, Kt         core.Vec3
	Eta            float64
	Roughness      float64
	RemapRoughness bool
}

func NewGlass(kr, kt core.Vec3, eta float64) *Glass {
	return &Glass{Kr: kr, Kt: kt, Eta: eta}
}

func (g *Glass) ComputeScatteringFunctions(si *core.SurfaceInteraction, mode core.TransportMode, allowMultipleLobes bool) {
	b := bsdf.New(si, g.Eta)
	if g.Kr.IsBlack() && g.Kt.IsBlack() {
		si.BSDF = b
		return
	}

	isSpecular := g.Roughness == 0
	if isSpecular && allowMultipleLobes {
		// The combined lobe importance-samples the Fresnel split
		b.Add(&bsdf.FresnelSpecular{
			R: g.Kr, T: g.Kt,
			EtaA: 1, EtaB: g.Eta,
			Mode: mode,
		})
		si.BSDF = b
		return
	}

	rough := g.Roughness
	if g.RemapRoughness {
		rough = bsdf.RoughnessToAlpha(rough)
	}
	if !g.Kr.IsBlack() {
		fresnel := bsdf.FresnelDielectric{EtaI: 1, EtaT: g.Eta}
		if isSpecular {
			b.Add(&bsdf.SpecularReflection{R: g.Kr, Fresnel: fresnel})
		} else {
			distrib := bsdf.NewTrowbridgeReitzDistribution(rough, rough)
			b.Add(&bsdf.MicrofacetReflection{R: g.Kr, Distribution: distrib, Fresnel: fresnel})
		}
	}
	if !g.Kt.IsBlack() {
		if isSpecular {
			b.Add(&bsdf.SpecularTransmission{T: g.Kt, EtaA: 1, EtaB: g.Eta, Mode: mode})
		} else {
			distrib := bsdf.NewTrowbridgeReitzDistribution(rough, rough)
			b.Add(&bsdf.MicrofacetTransmission{
				T: g.Kt, Distribution: distrib,
				EtaA: 1, EtaB: g.Eta, Mode: mode,
			})
		}
	}
	si.BSDF = b
}

// Metal is a rough conductor
type Metal struct {
	Eta, K         core.Vec3
	Roughness      float64
	RemapRoughness bool
}

func NewMetal(eta, k core.Vec3, roughness float64, remapRoughness bool) *Metal {
	return &Metal{Eta: eta, K: k, Roughness: roughness, RemapRoughness: remapRoughness}
}

func (m *Metal) ComputeScatteringFunctions(si *core.SurfaceInteraction, mode core.TransportMode, allowMultipleLobes bool) {
	b := bsdf.New(si, 1)
	rough := m.Roughness
	if m.RemapRoughness {
		rough = bsdf.RoughnessToAlpha(rough)
	}
	distrib := bsdf.NewTrowbridgeReitzDistribution(rough, rough)
	b.Add(&bsdf.MicrofacetReflection{
		R:            core.Grey(1),
		Distribution: distrib,
		Fresnel:      bsdf.FresnelConductor{EtaI: core.Grey(1), EtaT: m.Eta, K: m.K},
	})
	si.BSDF = b
}

// Substrate is the layered diffuse-plus-gloss model driven by a
// Schlick Fresnel blend
type Substrate struct {
	Kd, Ks         core.Vec3
	Roughness      float64
	RemapRoughness bool
}

func NewSubstrate(kd, ks core.Vec3, roughness float64, remapRoughness bool) *Substrate {
	return &Substrate{Kd: kd, Ks: ks, Roughness: roughness, RemapRoughness: remapRoughness}
}

func (s *Substrate) ComputeScatteringFunctions(si *core.SurfaceInteraction, mode core.TransportMode, allowMultipleLobes bool) {
	b := bsdf.New(si, 1)
	if !s.Kd.IsBlack() || !s.Ks.IsBlack() {
		rough := s.Roughness
		if s.RemapRoughness {
			rough = bsdf.RoughnessToAlpha(rough)
		}
		distrib := bsdf.NewTrowbridgeReitzDistribution(rough, rough)
		b.Add(&bsdf.FresnelBlend{Rd: s.Kd, Rs: s.Ks, Distribution: distrib})
	}
	si.BSDF = b
}

// None marks a pass-through interface: it leaves the interaction's
// BSDF nil so integrators continue the ray without counting a bounce
type None struct{}

func (None) ComputeScatteringFunctions(si *core.SurfaceInteraction, mode core.TransportMode, allowMultipleLobes bool) {
}
