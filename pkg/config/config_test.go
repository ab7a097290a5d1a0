package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-scanline-raytracer/pkg/camera"
	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/scene"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func noEnv(string) (string, bool) { return "", false }

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "render.toml", `
renderWidth = 640
renderHeight = 360
samplesPerPixelX = 2
samplesPerPixelY = 2
shadowsEnabled = false
depthBlurEnabled = true
renderThreads = 4
ambientColor = "#ff0000"

[depthBlur]
relativeInflectionDepth = 0.3
smoothness = 0.2
maxBlurPixelRadius = 2
maxRelativeDepthSimilarity = 0.1
`)
	t.Setenv(EnvThreads, "")
	t.Setenv(EnvShadows, "")
	opts, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 640, opts.RenderWidth)
	assert.Equal(t, 360, opts.RenderHeight)
	assert.Equal(t, 2, opts.SamplesPerPixelX)
	assert.False(t, opts.ShadowsEnabled)
	assert.True(t, opts.BackdropEnabled, "missing keys keep their defaults")
	assert.Equal(t, 4, opts.RenderThreads)
	require.NotNil(t, opts.DepthBlur)
	assert.InDelta(t, 0.3, opts.DepthBlur.RelativeInflectionDepth, 1e-12)

	cfg := opts.RendererConfig(nil)
	assert.True(t, cfg.DepthBlur)
	require.NotNil(t, cfg.BlurParameters)
	assert.InDelta(t, 2, cfg.BlurParameters.MaxBlurPixelRadius, 1e-12)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "render.yaml", `
renderWidth: 320
renderHeight: 200
samplesPerPixelX: 3
samplesPerPixelY: 3
logLevel: debug
`)
	t.Setenv(EnvThreads, "")
	t.Setenv(EnvShadows, "")
	opts, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 320, opts.RenderWidth)
	assert.Equal(t, 3, opts.SamplesPerPixelY)
	assert.True(t, opts.ShadowsEnabled)
	assert.Nil(t, opts.DepthBlur)
	level, err := opts.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeFile(t, "render.toml", "renderThreads = 2\nshadowsEnabled = true\n")
	t.Setenv(EnvThreads, "8")
	t.Setenv(EnvShadows, "false")

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, opts.RenderThreads)
	assert.False(t, opts.ShadowsEnabled)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unsupported extension", "render.json", "{}"},
		{"bad size", "render.toml", "renderWidth = 0\n"},
		{"bad color", "render.yaml", "ambientColor: chartreuse\n"},
		{"bad level", "render.yaml", "logLevel: loud\n"},
		{"negative threads", "render.toml", "renderThreads = -2\n"},
		{"zero threads", "render.yaml", "renderThreads: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvThreads, "")
			t.Setenv(EnvShadows, "")
			_, err := Load(writeFile(t, tt.file, tt.content))
			assert.ErrorIs(t, err, ErrInvalidOptions)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(o *RenderOptions)
	}{
		{"zero threads", func(o *RenderOptions) { o.RenderThreads = 0 }},
		{"zero samples", func(o *RenderOptions) { o.SamplesPerPixelY = 0 }},
		{"negative blur radius", func(o *RenderOptions) {
			o.DepthBlur = &BlurOptions{Smoothness: 0.1, MaxBlurPixelRadius: -1}
		}},
		{"zero smoothness", func(o *RenderOptions) { o.DepthBlur = &BlurOptions{} }},
		{"negative inflection depth", func(o *RenderOptions) {
			o.DepthBlur = &BlurOptions{Smoothness: 0.1, RelativeInflectionDepth: -2}
		}},
		{"negative depth similarity", func(o *RenderOptions) {
			o.DepthBlur = &BlurOptions{Smoothness: 0.1, MaxRelativeDepthSimilarity: -1}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Default()
			tt.modify(&opts)
			assert.ErrorIs(t, opts.Validate(), ErrInvalidOptions)
		})
	}

	opts := Default()
	opts.DepthBlur = &BlurOptions{RelativeInflectionDepth: 0.3, Smoothness: 0.2, MaxBlurPixelRadius: 2}
	assert.NoError(t, opts.Validate())
}

func TestApplyEnv_Invalid(t *testing.T) {
	opts := Default()
	err := opts.ApplyEnv(func(k string) (string, bool) {
		if k == EnvThreads {
			return "many", true
		}
		return "", false
	})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	opts = Default()
	require.NoError(t, opts.ApplyEnv(noEnv))
	assert.Equal(t, Default(), opts)
}

func TestApplyTo(t *testing.T) {
	vv, err := camera.NewPerspectiveViewVolume(45, 1, 1, 10)
	require.NoError(t, err)
	s, err := scene.New("s", camera.New(core.Vec3{}, core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0), vv))
	require.NoError(t, err)

	opts := Default()
	opts.AmbientColor = "#000000"
	opts.ShadowsEnabled = false
	opts.RenderThreads = 6
	require.NoError(t, opts.ApplyTo(s))

	assert.True(t, core.Black.Equals(s.Params.AmbientColor, 1e-9))
	assert.False(t, s.Params.Shadows)
	assert.Equal(t, 6, s.Params.Threads)
}

func TestSaveRoundTrip(t *testing.T) {
	opts := Default().WithSupersampling()
	opts.DepthBlur = &BlurOptions{Smoothness: 0.1, MaxBlurPixelRadius: 3}
	for _, name := range []string{"out.toml", "out.yml"} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(EnvThreads, "")
			t.Setenv(EnvShadows, "")
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, opts.Save(path))
			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, opts, loaded)
		})
	}
}

func TestNewRenderer(t *testing.T) {
	r, err := Default().NewRenderer(nil)
	require.NoError(t, err)
	assert.Equal(t, 1280, r.Config().Width)

	bad := Default()
	bad.SamplesPerPixelX = 0
	_, err = bad.NewRenderer(nil)
	assert.ErrorIs(t, err, ErrInvalidOptions)
}
