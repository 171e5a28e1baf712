package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/spindle-render/go-spindle/pkg/core"
)

// Film accumulates radiance samples per pixel. Workers write disjoint
// tiles, so no locking is needed as long as tiles do not overlap.
type Film struct {
	width, height int
	sum           []core.Vec3
	count         []int
}

func NewFilm(width, height int) *Film {
	return &Film{
		width:  width,
		height: height,
		sum:    make([]core.Vec3, width*height),
		count:  make([]int, width*height),
	}
}

func (f *Film) AddSample(x, y int, l core.Vec3) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	// NaN samples would poison the pixel average permanently
	if l.HasNaN() {
		return
	}
	i := y*f.width + x
	f.sum[i] = f.sum[i].Add(l)
	f.count[i]++
}

// Radiance returns the averaged radiance at a pixel
func (f *Film) Radiance(x, y int) core.Vec3 {
	i := y*f.width + x
	if f.count[i] == 0 {
		return core.Vec3{}
	}
	return f.sum[i].Divide(float64(f.count[i]))
}

func (f *Film) Resolution() (int, int) {
	return f.width, f.height
}

// Image develops the film into an 8-bit sRGB image with gamma 2.2
func (f *Film) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			l := f.Radiance(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: toByte(l.X),
				G: toByte(l.Y),
				B: toByte(l.Z),
				A: 255,
			})
		}
	}
	return img
}

func toByte(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	v = math.Pow(v, 1/2.2)
	if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}
