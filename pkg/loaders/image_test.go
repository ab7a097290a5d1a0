package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

func writeTestPNG(t *testing.T) string {
	t.Helper()
	testFile := filepath.Join(t.TempDir(), "test.png")

	// 2x2: white, red / green, blue
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})

	f, err := os.Create(testFile)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return testFile
}

func TestLoadImage(t *testing.T) {
	img, err := LoadImage(writeTestPNG(t))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(1, 0))
}

func TestLoadTexture(t *testing.T) {
	texture, err := LoadTexture(writeTestPNG(t))
	require.NoError(t, err)
	require.Equal(t, 2, texture.Width)
	require.Equal(t, 2, texture.Height)

	// Verify colors (row-major order)
	assert.True(t, texture.SampleColor(0.5, 0.5).Equals(core.NewColor(1, 1, 1), 0.01))
	assert.True(t, texture.SampleColor(1.5, 0.5).Equals(core.NewColor(1, 0, 0), 0.01))
	assert.True(t, texture.SampleColor(0.5, 1.5).Equals(core.NewColor(0, 1, 0), 0.01))
	assert.True(t, texture.SampleColor(1.5, 1.5).Equals(core.NewColor(0, 0, 1), 0.01))
}

// TestLoadImageNotFound verifies error handling for missing files
func TestLoadImageNotFound(t *testing.T) {
	_, err := LoadImage("nonexistent.png")
	assert.Error(t, err)
	_, err = LoadTexture("nonexistent.png")
	assert.Error(t, err)
}
