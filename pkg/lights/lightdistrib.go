package lights

import (
	"github.com/spindle-render/go-spindle/pkg/core"
	"github.com/spindle-render/go-spindle/pkg/sampling"
)

// LightDistribution selects a light for the sample-one-light strategy.
// Lookup returns the index into scene.Lights() and the discrete
// probability of the choice.
type LightDistribution interface {
	Lookup(u float64) (int, float64)
	// Pdf is the probability of choosing the given light index
	Pdf(index int) float64
}

// UniformLightDistribution picks every light with equal probability
type UniformLightDistribution struct {
	n int
}

func NewUniformLightDistribution(scene core.Scene) *UniformLightDistribution {
	return &UniformLightDistribution{n: len(scene.Lights())}
}

func (d *UniformLightDistribution) Lookup(u float64) (int, float64) {
	if d.n == 0 {
		return 0, 0
	}
	idx := int(u * float64(d.n))
	if idx >= d.n {
		idx = d.n - 1
	}
	return idx, 1 / float64(d.n)
}

func (d *UniformLightDistribution) Pdf(index int) float64 {
	if d.n == 0 {
		return 0
	}
	return 1 / float64(d.n)
}

// PowerLightDistribution picks lights proportional to their emitted
// power, which concentrates samples on the lights that matter
type PowerLightDistribution struct {
	distrib *sampling.Distribution1D
}

func NewPowerLightDistribution(scene core.Scene) *PowerLightDistribution {
	lightsInScene := scene.Lights()
	if len(lightsInScene) == 0 {
		return &PowerLightDistribution{}
	}
	power := make([]float64, len(lightsInScene))
	for i, l := range lightsInScene {
		power[i] = l.Power().Luminance()
	}
	return &PowerLightDistribution{distrib: sampling.NewDistribution1D(power)}
}

func (d *PowerLightDistribution) Lookup(u float64) (int, float64) {
	if d.distrib == nil {
		return 0, 0
	}
	return d.distrib.SampleDiscrete(u)
}

func (d *PowerLightDistribution) Pdf(index int) float64 {
	if d.distrib == nil {
		return 0
	}
	return d.distrib.DiscretePdf(index)
}
