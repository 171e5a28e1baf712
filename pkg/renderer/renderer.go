package renderer

import (
	"image"
	"runtime"
	"sync"

	"github.com/spindle-render/go-spindle/pkg/core"
)

// Options configures the tile renderer. Zero values fall back to
// sensible defaults.
type Options struct {
	// TileSize is the edge length of the square work units
	TileSize int
	// Workers is the number of render goroutines
	Workers int
	// Logger receives progress lines; nil disables logging
	Logger core.Logger
}

// Renderer walks the film in tiles, rendering each with a cloned
// sampler and a private statistics block so workers never share
// mutable state. The merged statistics are returned when the frame
// completes.
type Renderer struct {
	camera     *PerspectiveCamera
	integrator core.Integrator
	sampler    core.Sampler
	opts       Options
}

func New(camera *PerspectiveCamera, in core.Integrator, sampler core.Sampler, opts Options) *Renderer {
	if opts.TileSize <= 0 {
		opts.TileSize = 16
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Renderer{camera: camera, integrator: in, sampler: sampler, opts: opts}
}

type tile struct {
	x0, y0, x1, y1 int
	seed           uint64
}

// Render produces a frame. The integrator's Preprocess runs against
// the prototype sampler before any clones are made, so array
// reservations propagate to every worker.
func (r *Renderer) Render(s core.Scene) (*Film, *core.Stats) {
	width, height := r.camera.Resolution()
	film := NewFilm(width, height)

	r.integrator.Preprocess(s, r.sampler)

	tiles := make(chan tile)
	var wg sync.WaitGroup
	workerStats := make([]*core.Stats, r.opts.Workers)

	for w := 0; w < r.opts.Workers; w++ {
		wg.Add(1)
		stats := &core.Stats{}
		workerStats[w] = stats
		go func() {
			defer wg.Done()
			for t := range tiles {
				r.renderTile(s, film, t, stats)
			}
		}()
	}

	ts := r.opts.TileSize
	nTiles := 0
	for y0 := 0; y0 < height; y0 += ts {
		for x0 := 0; x0 < width; x0 += ts {
			tileIndex := uint64(nTiles)
			nTiles++
			tiles <- tile{
				x0: x0, y0: y0,
				x1: min(x0+ts, width),
				y1: min(y0+ts, height),
				seed: tileIndex,
			}
		}
	}
	close(tiles)
	wg.Wait()

	merged := &core.Stats{}
	for _, ws := range workerStats {
		merged.Merge(ws)
	}
	if r.opts.Logger != nil {
		r.opts.Logger.Printf("rendered %d tiles, %d shadow rays, avg path length %.2f",
			nTiles, merged.ShadowRays, merged.AveragePathLength())
	}
	return film, merged
}

func (r *Renderer) renderTile(s core.Scene, film *Film, t tile, stats *core.Stats) {
	sampler := r.sampler.Clone(t.seed)
	for y := t.y0; y < t.y1; y++ {
		for x := t.x0; x < t.x1; x++ {
			p := image.Point{X: x, Y: y}
			sampler.StartPixel(p)
			for {
				cs := sampler.GetCameraSample(p)
				ray := r.camera.GenerateRay(cs)
				l := r.integrator.Li(s, &ray, sampler, stats, 0)
				film.AddSample(x, y, l)
				if !sampler.StartNextSample() {
					break
				}
			}
		}
	}
}
