package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-scanline-raytracer/pkg/scene"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RAYTRACE_THREADS", "")
	t.Setenv("RAYTRACE_SHADOWS", "")
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScenesCommand(t *testing.T) {
	out, err := runCommand(t, "scenes")
	require.NoError(t, err)
	for _, info := range scene.ListScenes() {
		assert.Contains(t, out, info.ID)
	}
}

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		sceneID string
	}{
		{"default scene", []string{"--scene", "default"}, "default"},
		{"cornell supersampled", []string{"-s", "cornell", "--samples", "2", "--threads", "2"}, "cornell"},
		{"cube grid with blur", []string{"-s", "cube-grid", "--depth-blur", "--shadows=false"}, "cube-grid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			args := append([]string{"--width", "32", "--height", "18", "-o", dir}, tt.args...)
			out, err := runCommand(t, args...)
			require.NoError(t, err, out)
			assert.Contains(t, out, "Render saved as")

			files, err := filepath.Glob(filepath.Join(dir, tt.sceneID, "render_*.png"))
			require.NoError(t, err)
			require.Len(t, files, 1)

			f, err := os.Open(files[0])
			require.NoError(t, err)
			defer f.Close()
			img, err := png.Decode(f)
			require.NoError(t, err)
			assert.Equal(t, 32, img.Bounds().Dx())
			assert.Equal(t, 18, img.Bounds().Dy())
		})
	}
}

func TestRenderCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown scene", []string{"-s", "nowhere"}, "unknown scene"},
		{"bad size", []string{"--width", "0"}, "invalid render options"},
		{"missing config", []string{"--config", "missing.toml"}, "reading render options"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, append(tt.args, "-o", t.TempDir())...)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q, output %q", err, out)
		})
	}
}

func TestRenderCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "render.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("renderWidth: 20\nrenderHeight: 10\nshadowsEnabled: false\n"), 0o644))

	out, err := runCommand(t, "--config", cfg, "-s", "textures", "-o", dir)
	require.NoError(t, err, out)
	files, err := filepath.Glob(filepath.Join(dir, "textures", "render_*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}
