package renderer

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/shading"
)

// lineCounter hands out scanlines to workers
type lineCounter struct {
	mu    sync.Mutex
	next  int
	done  int
	total int
}

// take returns the next scanline to render, false when none are left
func (c *lineCounter) take() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.next >= c.total {
		return 0, false
	}
	line := c.next
	c.next++
	return line, true
}

// finish records a completed scanline and returns the completed fraction
func (c *lineCounter) finish() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done++
	return float64(c.done) / float64(c.total)
}

// renderRaster runs the scene's worker count of raster workers until every
// scanline is done, then merges their metrics
func (r *Raytracer) renderRaster(ctx context.Context, st *renderState) (shading.Metrics, error) {
	n := st.scene.Params.SafeThreads()
	r.logger.Debug("spawning raytrace workers", "count", n)

	workers := make([]*rasterWorker, n)
	g, ctx := errgroup.WithContext(ctx)
	for i := range workers {
		w := newRasterWorker(r.config, st)
		workers[i] = w
		g.Go(func() error { return w.run(ctx) })
	}
	err := g.Wait()

	var total shading.Metrics
	for _, w := range workers {
		total.Add(w.metrics)
	}
	return total, err
}

// rasterWorker renders whole scanlines. Everything it owns is reused from
// sample to sample, and its shader keeps its own obscuring cache.
type rasterWorker struct {
	config  Config
	st      *renderState
	shader  *shading.Shader
	metrics shading.Metrics
	hits    []geometry.SurfacePoint
	colors  []core.Color
}

func newRasterWorker(config Config, st *renderState) *rasterWorker {
	w := &rasterWorker{config: config, st: st}
	w.shader = shading.NewShader(st.env, &w.metrics)
	return w
}

func (w *rasterWorker) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		iy, ok := w.st.lines.take()
		if !ok {
			return nil
		}
		w.renderLine(iy)
		w.st.progress.update(w.st.step, w.st.lines.finish(), w.st.totalSteps, "raster")
	}
}

// renderLine casts every supersample of output row iy. Rows are counted
// from the top while view plane Y grows upward.
func (w *rasterWorker) renderLine(iy int) {
	pw, ph := float64(w.config.Width), float64(w.config.Height)
	sx, sy := w.config.SamplesX, w.config.SamplesY
	vp := w.st.viewPlane
	vw, vh := vp.Width(), vp.Height()
	pvw, pvh := vw/pw, vh/ph

	for ix := 0; ix < w.config.Width; ix++ {
		c := w.pixelCenter(ix, iy)
		vx, vy := c.X, c.Y
		for si := 0; si < sy; si++ {
			vsy := vy + pvh/2 - (float64(si)+0.5)/float64(sy)*pvh
			for sj := 0; sj < sx; sj++ {
				vsx := vx - pvw/2 + (float64(sj)+0.5)/float64(sx)*pvw
				w.renderSample(ix, iy, ix*sx+sj, iy*sy+si, core.NewVec3(vsx, vsy, w.st.viewPlaneZ))
			}
		}
	}
}

// renderSample traces the eye ray through p, a point on the view plane, and
// stores the composite color and nearest depth at raster cell (rx, ry).
// (ix, iy) is the output pixel, which addresses the backdrop.
func (w *rasterWorker) renderSample(ix, iy, rx, ry int, p core.Vec3) {
	hits := w.trace(ix, iy, p)
	if len(hits) == 0 {
		return
	}
	w.colors = w.colors[:0]
	for _, h := range hits {
		w.colors = append(w.colors, h.Color)
	}
	w.colors = append(w.colors, w.st.background)
	w.st.raster.Set(rx, ry, core.CombineColors(w.colors), hits[0].Depth())
}

// trace returns every surface the eye ray through p crosses, nearest first.
// The slice is reused by the next call.
func (w *rasterWorker) trace(ix, iy int, p core.Vec3) []geometry.SurfacePoint {
	st := w.st
	ray := core.NewHalfLine(p, p.Multiply(2))
	w.metrics.EyeRays++

	w.hits = w.hits[:0]
	for _, c := range st.index.Objects(p.X, p.Y) {
		w.metrics.EyeRayChecks++
		w.hits = c.Object.IntersectEyeRay(ray, st.env.Camera, w.shader, w.hits)
	}
	if st.backdrop != nil {
		w.hits = appendBackdrop(w.hits, st.backdrop.Color(ix, iy), st.backdrop.Depth(ix, iy), p)
	}
	// camera Z decreases away from the eye
	if len(w.hits) > 1 {
		slices.SortStableFunc(w.hits, func(a, b geometry.SurfacePoint) int {
			return cmp.Compare(b.Position.Z, a.Position.Z)
		})
	}
	return w.hits
}

// pixelCenter is the view-plane point at the middle of output pixel (ix, iy)
func (w *rasterWorker) pixelCenter(ix, iy int) core.Vec3 {
	pw, ph := float64(w.config.Width), float64(w.config.Height)
	vp := w.st.viewPlane
	return core.NewVec3(
		vp.Min.X+(float64(ix)+0.5)/pw*vp.Width(),
		vp.Min.Y+(ph-float64(iy)-0.5)/ph*vp.Height(),
		w.st.viewPlaneZ)
}

// appendBackdrop projects the backdrop pixel at depth onto the ray through
// p. Backdrops in front of the view plane are not visible.
func appendBackdrop(hits []geometry.SurfacePoint, c core.Color, depth float64, p core.Vec3) []geometry.SurfacePoint {
	z := -depth
	zf := z / p.Z
	if zf < 1 {
		return hits
	}
	return append(hits, geometry.SurfacePoint{
		Position: core.NewVec3(p.X*zf, p.Y*zf, z),
		Color:    c,
	})
}
