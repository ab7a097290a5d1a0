package renderer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/index"
	"github.com/df07/go-scanline-raytracer/pkg/raster"
	"github.com/df07/go-scanline-raytracer/pkg/scene"
	"github.com/df07/go-scanline-raytracer/pkg/shading"
)

// ErrInvalidConfig is returned for render sizes or sample counts below one
var ErrInvalidConfig = errors.New("invalid renderer configuration")

// pixelAveragingSpread is the Gaussian spread of the kernel that averages
// a pixel's supersamples
const pixelAveragingSpread = 2.0

// Config contains the output resolution and sampling of a raytracer
type Config struct {
	Width    int // output pixels
	Height   int
	SamplesX int // supersamples per pixel along X
	SamplesY int // supersamples per pixel along Y
	// DepthBlur blurs distant surfaces after the raster step
	DepthBlur bool
	// BlurParameters replace the scene's blur parameters when set. The
	// radius is in output pixels.
	BlurParameters *raster.BlurParameters
	Logger         *slog.Logger
}

// DefaultConfig returns a 1280x720 configuration without supersampling
func DefaultConfig() Config {
	return Config{Width: 1280, Height: 720, SamplesX: 1, SamplesY: 1}
}

// Validate reports impossible sizes
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("render size %dx%d: %w", c.Width, c.Height, ErrInvalidConfig)
	}
	if c.SamplesX <= 0 || c.SamplesY <= 0 {
		return fmt.Errorf("samples per pixel %dx%d: %w", c.SamplesX, c.SamplesY, ErrInvalidConfig)
	}
	return nil
}

// Raytracer renders scenes by casting one ray per supersample through the
// view plane. Lighting is flat: each hit is shaded once by the lights that
// reach it, and transparent surfaces are composited front to back.
type Raytracer struct {
	config   Config
	logger   *slog.Logger
	trackers []ProgressTracker
}

// NewRaytracer validates config and creates a raytracer
func NewRaytracer(config Config) (*Raytracer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Raytracer{config: config, logger: logger}, nil
}

// Config returns the raytracer's configuration
func (r *Raytracer) Config() Config { return r.config }

// AddProgressTracker registers t for progress callbacks of later renders
func (r *Raytracer) AddProgressTracker(t ProgressTracker) {
	r.trackers = append(r.trackers, t)
}

// renderState is the per-render state shared by the raster workers. Only
// the scanline counter is mutated concurrently; raster rows are written by
// exactly one worker each.
type renderState struct {
	scene    *scene.Scene
	env      *shading.Environment
	index    *index.ViewPlaneIndex
	raster   *raster.Buffer
	backdrop *raster.Buffer
	kernel   *raster.Kernel

	viewPlane  core.Rect2D
	viewPlaneZ float64
	background core.Color

	lines      *lineCounter
	progress   *progress
	step       int
	totalSteps int
}

// Render renders s and paints the result on every output. It blocks until
// the image is complete or ctx is done; a cancelled render paints nothing
// and returns ctx.Err(). The scene must not be modified during the call.
func (r *Raytracer) Render(ctx context.Context, s *scene.Scene, outputs ...ViewPort) (*Result, error) {
	if s == nil {
		return nil, fmt.Errorf("render: %w", scene.ErrNoCamera)
	}
	start := time.Now()
	prog := newProgress(r.trackers)

	st := r.initState(s, prog)
	prog.started(s.Name)
	for _, out := range outputs {
		out.StartRendering()
	}
	defer func() {
		for _, out := range outputs {
			out.StopRendering()
		}
	}()

	r.logger.Info("render started",
		"scene", s,
		"width", r.config.Width,
		"height", r.config.Height,
		"samples", fmt.Sprintf("%dx%d", r.config.SamplesX, r.config.SamplesY),
		"threads", s.Params.SafeThreads(),
		"viewPlane", st.viewPlane,
		"viewPlaneZ", st.viewPlaneZ)
	r.logger.Debug("view plane index", "strategy", st.index.Strategy(), "stats", st.index.Statistics().String())

	st.step++
	metrics, err := r.renderRaster(ctx, st)
	if err != nil {
		r.logger.Warn("render cancelled", "scene", s.Name, "err", err)
		return nil, err
	}

	if r.config.DepthBlur {
		st.step++
		r.applyDepthBlur(st)
	}

	st.step++
	r.paint(st, outputs)
	prog.completed(s.Name)

	result := &Result{
		Raster:         st.raster,
		Duration:       time.Since(start),
		Metrics:        metrics,
		ViewPlaneStats: st.index.Statistics(),
	}
	if st.env.Index != nil {
		stats := st.env.Index.Statistics()
		result.SpatialStats = &stats
	}
	r.logger.Info("render completed", "scene", s.Name, "duration", result.Duration, "metrics", metrics.String())
	return result, nil
}

// initState builds everything the workers share before they start
func (r *Raytracer) initState(s *scene.Scene, prog *progress) *renderState {
	cfg := r.config
	vv := s.Camera().ViewVolume()
	rw, rh := cfg.Width*cfg.SamplesX, cfg.Height*cfg.SamplesY

	s.Prepare()
	opts := index.ViewPlaneOptionsFor(rw, rh)
	opts.Logger = r.logger
	st := &renderState{
		scene:      s,
		env:        s.ShadingEnvironment(),
		index:      s.ViewPlaneIndex(opts),
		raster:     raster.NewBuffer(rw, rh, s.Params.AmbientColor),
		kernel:     raster.GaussianKernel(cfg.SamplesY, cfg.SamplesX, pixelAveragingSpread),
		viewPlane:  vv.ViewPlaneRect(),
		viewPlaneZ: vv.ViewPlaneZ(),
		background: s.Params.AmbientColor,
		lines:      &lineCounter{total: cfg.Height},
		progress:   prog,
		totalSteps: 2,
	}
	if cfg.DepthBlur {
		st.totalSteps = 3
	}
	if s.Params.BackdropEnabled && s.Backdrop != nil {
		if s.Backdrop.Width() == cfg.Width && s.Backdrop.Height() == cfg.Height {
			st.backdrop = s.Backdrop
		} else {
			r.logger.Warn("backdrop ignored, size differs from the render",
				"backdrop", fmt.Sprintf("%dx%d", s.Backdrop.Width(), s.Backdrop.Height()),
				"render", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
		}
	}
	return st
}

// applyDepthBlur blurs the full-resolution raster in place. The radius is
// configured in output pixels and scaled to supersamples.
func (r *Raytracer) applyDepthBlur(st *renderState) {
	params := st.scene.Params.DepthBlur
	if r.config.BlurParameters != nil {
		params = *r.config.BlurParameters
	}
	params.MaxBlurPixelRadius *= float64(max(r.config.SamplesX, r.config.SamplesY))
	blurred := raster.BlurByDepth(st.raster, params, func(p float64) {
		st.progress.update(st.step, p, st.totalSteps, "depth blur")
	})
	st.raster = blurred
}

// paint averages each pixel's supersamples and hands the pixels to the outputs
func (r *Raytracer) paint(st *renderState, outputs []ViewPort) {
	for _, out := range outputs {
		out.Clear()
	}
	sx, sy := r.config.SamplesX, r.config.SamplesY
	for iy := 0; iy < r.config.Height; iy++ {
		for ix := 0; ix < r.config.Width; ix++ {
			c := st.raster.Color(ix, iy)
			if sx*sy > 1 {
				c, _ = st.raster.Convolute(ix*sx, iy*sy, st.kernel, nil)
			}
			for _, out := range outputs {
				out.PaintPixel(ix, iy, c)
			}
		}
		st.progress.update(st.step, float64(iy+1)/float64(r.config.Height), st.totalSteps, "output")
	}
}

// ErrPixelOutOfRange is returned when inspecting a pixel outside the render
var ErrPixelOutOfRange = errors.New("pixel out of range")

// PixelInspection lists what the eye ray through a pixel center crosses
type PixelInspection struct {
	X, Y   int
	Layers []geometry.SurfacePoint // nearest first, the backdrop has no object
	Color  core.Color              // composite over the ambient color
}

// Inspect traces the single eye ray through the center of output pixel
// (x, y) without rendering the image
func (r *Raytracer) Inspect(s *scene.Scene, x, y int) (*PixelInspection, error) {
	if s == nil {
		return nil, fmt.Errorf("inspect: %w", scene.ErrNoCamera)
	}
	if x < 0 || y < 0 || x >= r.config.Width || y >= r.config.Height {
		return nil, fmt.Errorf("pixel %d,%d of %dx%d: %w", x, y, r.config.Width, r.config.Height, ErrPixelOutOfRange)
	}
	st := r.initState(s, newProgress(nil))
	w := newRasterWorker(r.config, st)
	hits := w.trace(x, y, w.pixelCenter(x, y))

	in := &PixelInspection{X: x, Y: y, Layers: slices.Clone(hits)}
	colors := make([]core.Color, 0, len(hits)+1)
	for _, h := range hits {
		colors = append(colors, h.Color)
	}
	in.Color = core.CombineColors(append(colors, st.background))
	return in, nil
}
