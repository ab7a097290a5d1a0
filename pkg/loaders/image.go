package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	"github.com/anthonynsimon/bild/clone"

	"github.com/df07/go-scanline-raytracer/pkg/material"
)

// LoadImage loads a PNG or JPEG image as RGBA
func LoadImage(filename string) (*image.RGBA, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Decode image (auto-detects PNG/JPEG from file header)
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}
	return clone.AsRGBA(img), nil
}

// LoadTexture loads an image file as a texture map
func LoadTexture(filename string) (*material.ImageTexture, error) {
	img, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}
	return material.NewImageTextureFromImage(img), nil
}

