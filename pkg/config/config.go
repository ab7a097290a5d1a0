// Package config holds the render options read from TOML or YAML files and
// the environment, and turns them into a renderer and scene settings.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/raster"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
	"github.com/df07/go-scanline-raytracer/pkg/scene"
)

// ErrInvalidOptions is returned when options cannot produce a render
var ErrInvalidOptions = errors.New("invalid render options")

// Environment variables overriding file settings
const (
	EnvThreads = "RAYTRACE_THREADS"
	EnvShadows = "RAYTRACE_SHADOWS"
)

// BlurOptions are the depth blur settings, radius in output pixels
type BlurOptions struct {
	RelativeInflectionDepth    float64 `toml:"relativeInflectionDepth" yaml:"relativeInflectionDepth"`
	Smoothness                 float64 `toml:"smoothness" yaml:"smoothness"`
	MaxBlurPixelRadius         float64 `toml:"maxBlurPixelRadius" yaml:"maxBlurPixelRadius"`
	MaxRelativeDepthSimilarity float64 `toml:"maxRelativeDepthSimilarity" yaml:"maxRelativeDepthSimilarity"`
}

// RenderOptions are the user-facing settings of a render
type RenderOptions struct {
	RenderWidth      int    `toml:"renderWidth" yaml:"renderWidth"`
	RenderHeight     int    `toml:"renderHeight" yaml:"renderHeight"`
	SamplesPerPixelX int    `toml:"samplesPerPixelX" yaml:"samplesPerPixelX"`
	SamplesPerPixelY int    `toml:"samplesPerPixelY" yaml:"samplesPerPixelY"`
	ShadowsEnabled   bool   `toml:"shadowsEnabled" yaml:"shadowsEnabled"`
	BackdropEnabled  bool   `toml:"backdropEnabled" yaml:"backdropEnabled"`
	DepthBlurEnabled bool   `toml:"depthBlurEnabled" yaml:"depthBlurEnabled"`
	RenderThreads    int    `toml:"renderThreads" yaml:"renderThreads"`
	AmbientColor     string `toml:"ambientColor" yaml:"ambientColor"` // hex, empty keeps the scene's
	LogLevel         string `toml:"logLevel" yaml:"logLevel"`

	// DepthBlur replaces the scene's blur parameters when present
	DepthBlur *BlurOptions `toml:"depthBlur,omitempty" yaml:"depthBlur,omitempty"`
}

// Default returns 1280x720 without supersampling, shadows on and one thread
func Default() RenderOptions {
	return RenderOptions{
		RenderWidth:      1280,
		RenderHeight:     720,
		SamplesPerPixelX: 1,
		SamplesPerPixelY: 1,
		ShadowsEnabled:   true,
		BackdropEnabled:  true,
		RenderThreads:    1,
		LogLevel:         "info",
	}
}

// WithSupersampling sets 3x3 samples per pixel
func (o RenderOptions) WithSupersampling() RenderOptions {
	o.SamplesPerPixelX, o.SamplesPerPixelY = 3, 3
	return o
}

// Load reads options from a .toml, .yaml or .yml file over the defaults,
// then applies the environment overrides
func Load(path string) (RenderOptions, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading render options: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &opts)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &opts)
	default:
		return opts, fmt.Errorf("render options %s: unsupported format %q: %w", path, ext, ErrInvalidOptions)
	}
	if err != nil {
		return opts, fmt.Errorf("parsing render options %s: %w", path, err)
	}
	if err := opts.ApplyEnv(os.LookupEnv); err != nil {
		return opts, err
	}
	return opts, opts.Validate()
}

// ApplyEnv overrides the thread count and shadows from the environment.
// lookup is os.LookupEnv outside of tests.
func (o *RenderOptions) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvThreads); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvThreads, v, ErrInvalidOptions)
		}
		o.RenderThreads = n
	}
	if v, ok := lookup(EnvShadows); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvShadows, v, ErrInvalidOptions)
		}
		o.ShadowsEnabled = b
	}
	return nil
}

// Validate reports options no render could honor
func (o RenderOptions) Validate() error {
	switch {
	case o.RenderWidth <= 0 || o.RenderHeight <= 0:
		return fmt.Errorf("render size %dx%d: %w", o.RenderWidth, o.RenderHeight, ErrInvalidOptions)
	case o.SamplesPerPixelX <= 0 || o.SamplesPerPixelY <= 0:
		return fmt.Errorf("samples per pixel %dx%d: %w", o.SamplesPerPixelX, o.SamplesPerPixelY, ErrInvalidOptions)
	case o.RenderThreads <= 0:
		return fmt.Errorf("render threads %d: %w", o.RenderThreads, ErrInvalidOptions)
	}
	if _, err := o.ambient(); err != nil {
		return err
	}
	if _, err := o.Level(); err != nil {
		return err
	}
	if b := o.DepthBlur; b != nil {
		if b.MaxBlurPixelRadius < 0 || b.Smoothness <= 0 {
			return fmt.Errorf("depth blur radius %g smoothness %g: %w", b.MaxBlurPixelRadius, b.Smoothness, ErrInvalidOptions)
		}
		if b.RelativeInflectionDepth < 0 || b.MaxRelativeDepthSimilarity < 0 {
			return fmt.Errorf("depth blur inflection %g similarity %g: %w",
				b.RelativeInflectionDepth, b.MaxRelativeDepthSimilarity, ErrInvalidOptions)
		}
	}
	return nil
}

// Level parses LogLevel, defaulting to info
func (o RenderOptions) Level() (slog.Level, error) {
	var l slog.Level
	if o.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return l, fmt.Errorf("log level %q: %w", o.LogLevel, ErrInvalidOptions)
	}
	return l, nil
}

func (o RenderOptions) ambient() (*core.Color, error) {
	if o.AmbientColor == "" {
		return nil, nil
	}
	c, err := core.ParseHexColor(o.AmbientColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, ErrInvalidOptions)
	}
	return &c, nil
}

// ApplyTo copies the scene-level settings onto s
func (o RenderOptions) ApplyTo(s *scene.Scene) error {
	ambient, err := o.ambient()
	if err != nil {
		return err
	}
	if ambient != nil {
		s.Params.AmbientColor = *ambient
	}
	s.Params.Shadows = o.ShadowsEnabled
	s.Params.BackdropEnabled = o.BackdropEnabled
	s.Params.Threads = o.RenderThreads
	return nil
}

// RendererConfig converts the options into a raytracer configuration
func (o RenderOptions) RendererConfig(logger *slog.Logger) renderer.Config {
	cfg := renderer.Config{
		Width:     o.RenderWidth,
		Height:    o.RenderHeight,
		SamplesX:  o.SamplesPerPixelX,
		SamplesY:  o.SamplesPerPixelY,
		DepthBlur: o.DepthBlurEnabled,
		Logger:    logger,
	}
	if b := o.DepthBlur; b != nil {
		cfg.BlurParameters = &raster.BlurParameters{
			RelativeInflectionDepth:    b.RelativeInflectionDepth,
			Smoothness:                 b.Smoothness,
			MaxBlurPixelRadius:         b.MaxBlurPixelRadius,
			MaxRelativeDepthSimilarity: b.MaxRelativeDepthSimilarity,
		}
	}
	return cfg
}

// NewRenderer validates the options and creates a raytracer
func (o RenderOptions) NewRenderer(logger *slog.Logger) (*renderer.Raytracer, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return renderer.NewRaytracer(o.RendererConfig(logger))
}

// Save writes the options as TOML or YAML, chosen by the file extension
func (o RenderOptions) Save(path string) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		data, err = toml.Marshal(o)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(o)
	default:
		return fmt.Errorf("render options %s: unsupported format %q: %w", path, ext, ErrInvalidOptions)
	}
	if err != nil {
		return fmt.Errorf("encoding render options: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
