package scene

import (
	"errors"
	"testing"

	"github.com/df07/go-scanline-raytracer/pkg/geometry"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"cube-grid", "Cube Grid"},
		{"dragon_gold", "Dragon Gold"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestListScenes(t *testing.T) {
	scenes := ListScenes()
	if len(scenes) != len(builtins) {
		t.Fatalf("Expected %d scenes, got %d", len(builtins), len(scenes))
	}
	for i := 1; i < len(scenes); i++ {
		if scenes[i-1].ID >= scenes[i].ID {
			t.Errorf("Scenes not sorted: %q before %q", scenes[i-1].ID, scenes[i].ID)
		}
	}
	for _, s := range scenes {
		if s.DisplayName == "" || s.Description == "" {
			t.Errorf("Scene %q is missing its display name or description", s.ID)
		}
	}
}

func TestBuild(t *testing.T) {
	opts := BuildOptions{Width: 32, Height: 18}
	for _, info := range ListScenes() {
		t.Run(info.ID, func(t *testing.T) {
			s, err := Build(info.ID, opts)
			if err != nil {
				t.Fatalf("Build(%q) error: %v", info.ID, err)
			}
			if len(s.LeafObjects()) == 0 {
				t.Errorf("Scene %q has no raytraceable objects", info.ID)
			}
			if len(s.Lights()) == 0 {
				t.Errorf("Scene %q has no lights", info.ID)
			}
			if !s.BoundingBox(geometry.FrameWorld).IsValid() {
				t.Errorf("Scene %q has no bounded objects", info.ID)
			}
		})
	}
}

func TestBuild_Unknown(t *testing.T) {
	_, err := Build("no-such-scene", BuildOptions{})
	if !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestBuild_MissingTexture(t *testing.T) {
	_, err := Build("textures", BuildOptions{Width: 16, Height: 9, TexturePath: "does/not/exist.png"})
	if err == nil {
		t.Error("Expected an error for a missing texture file")
	}
}
