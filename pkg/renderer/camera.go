// Package renderer drives rendering: a perspective camera turns film
// samples into primary rays, and a tile-based worker pool walks the
// image with per-worker samplers and statistics.
package renderer

import (
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
	"github.com/spindle-render/go-spindle/pkg/sampling"
)

// PerspectiveCamera generates primary rays with differentials for one
// pixel of screen-space offset in each direction. A non-zero lens
// radius adds thin-lens depth of field.
type PerspectiveCamera struct {
	position core.Vec3
	u, v, w  core.Vec3

	width, height      int
	halfW, halfH       float64
	lensRadius         float64
	focalDistance      float64
	invFilmW, invFilmH float64
}

// CameraConfig carries the user-facing camera description
type CameraConfig struct {
	Position core.Vec3
	LookAt   core.Vec3
	Up       core.Vec3
	// VFov is the vertical field of view in degrees
	VFov          float64
	Width, Height int
	LensRadius    float64
	FocalDistance float64
}

func NewPerspectiveCamera(cfg CameraConfig) *PerspectiveCamera {
	w := cfg.Position.Subtract(cfg.LookAt).Normalize()
	up := cfg.Up
	if up.LengthSquared() == 0 {
		up = core.NewVec3(0, 1, 0)
	}
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	halfH := math.Tan(cfg.VFov * math.Pi / 360)
	halfW := halfH * float64(cfg.Width) / float64(cfg.Height)
	focal := cfg.FocalDistance
	if focal <= 0 {
		focal = 1
	}
	return &PerspectiveCamera{
		position:      cfg.Position,
		u:             u,
		v:             v,
		w:             w,
		width:         cfg.Width,
		height:        cfg.Height,
		halfW:         halfW,
		halfH:         halfH,
		lensRadius:    cfg.LensRadius,
		focalDistance: focal,
		invFilmW:      1 / float64(cfg.Width),
		invFilmH:      1 / float64(cfg.Height),
	}
}

// direction maps a film position in pixels to a world-space ray
// direction through the lens center
func (c *PerspectiveCamera) direction(px, py float64) core.Vec3 {
	// Film y grows downward, camera v grows upward
	sx := (2*px*c.invFilmW - 1) * c.halfW
	sy := (1 - 2*py*c.invFilmH) * c.halfH
	return c.u.Multiply(sx).Add(c.v.Multiply(sy)).Subtract(c.w).Normalize()
}

// GenerateRay creates the primary ray for a camera sample, with
// differentials for the neighboring pixels
func (c *PerspectiveCamera) GenerateRay(sample core.CameraSample) core.Ray {
	dir := c.direction(sample.PFilm.X, sample.PFilm.Y)
	origin := c.position

	if c.lensRadius > 0 {
		pLens := sampling.ConcentricSampleDisk(sample.PLens).Multiply(c.lensRadius)
		// Refocus the ray on the focal plane
		ft := c.focalDistance / dir.Negate().Dot(c.w)
		pFocus := origin.Add(dir.Multiply(ft))
		origin = origin.Add(c.u.Multiply(pLens.X)).Add(c.v.Multiply(pLens.Y))
		dir = pFocus.Subtract(origin).Normalize()
	}

	ray := core.NewRay(origin, dir)
	ray.Differential = &core.RayDifferential{
		RxOrigin:    origin,
		RyOrigin:    origin,
		RxDirection: c.direction(sample.PFilm.X+1, sample.PFilm.Y),
		RyDirection: c.direction(sample.PFilm.X, sample.PFilm.Y+1),
	}
	return ray
}

func (c *PerspectiveCamera) Resolution() (int, int) {
	return c.width, c.height
}
