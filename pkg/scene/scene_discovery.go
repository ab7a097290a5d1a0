package scene

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownScene is returned when no built-in scene has the requested ID
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Description string `json:"description" yaml:"description"`
}

// Builder creates a scene for a render of the given size
type Builder func(opts BuildOptions) (*Scene, error)

type builtin struct {
	description string
	build       Builder
}

var builtins = map[string]builtin{
	"default": {
		description: "Checkered floor with a box, a pyramid and an icosahedron before a sky backdrop",
		build:       NewDefaultScene,
	},
	"cornell": {
		description: "Cornell box with two blocks, lit from under the ceiling with shadows",
		build:       NewCornellScene,
	},
	"cube-grid": {
		description: "Grid of colored cubes receding into the distance, darkened by depth",
		build: func(opts BuildOptions) (*Scene, error) {
			return NewCubeGridScene(opts, DefaultGridSize)
		},
	},
	"textures": {
		description: "Textured panels showing masks, luminance and transparency maps",
		build:       NewTextureScene,
	},
}

// ListScenes returns the built-in scenes ordered by ID
func ListScenes() []SceneInfo {
	ids := make([]string, 0, len(builtins))
	for id := range builtins {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	scenes := make([]SceneInfo, len(ids))
	for i, id := range ids {
		scenes[i] = SceneInfo{
			ID:          id,
			DisplayName: titleCase(id),
			Description: builtins[id].description,
		}
	}
	return scenes
}

// Build creates the built-in scene with the given ID
func Build(id string, opts BuildOptions) (*Scene, error) {
	b, ok := builtins[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
	}
	s, err := b.build(opts)
	if err != nil {
		return nil, fmt.Errorf("building scene %q: %w", id, err)
	}
	return s, nil
}

// titleCase converts an ID to title case, e.g. "cube-grid" -> "Cube Grid"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
