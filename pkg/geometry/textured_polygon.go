package geometry

import (
	"github.com/df07/go-scanline-raytracer/pkg/camera"
	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// TextureMap is sampled in picture coordinates
type TextureMap interface {
	SampleColor(x, y float64) core.Color
	SampleValue(x, y float64) float64
}

// Mask hides parts of a picture; masked points are not part of the surface
type Mask interface {
	IsMasked(x, y float64) bool
}

// TextureMaps are the optional maps of a textured polygon. A nil map
// contributes nothing.
type TextureMaps struct {
	Picture      TextureMap
	Luminance    TextureMap // 0.5 is neutral; 0 darkens fully and 1 brightens fully
	Transparency TextureMap // 0 is opaque and 1 fully transparent
	Mask         Mask
}

// TexturedPolygon is a square spanning [-1, 1] in the object XZ plane with
// a picture region mapped onto it. Transform it to place it in the scene.
type TexturedPolygon struct {
	Polygon
	Maps   TextureMaps
	Region core.Rect2D
}

// NewTexturedPolygon creates a textured square. color is used on both sides
// when there is no picture map; region is the picture area, in picture
// coordinates, stretched over the square.
func NewTexturedPolygon(color core.Color, shading ShadingModel, region core.Rect2D, maps TextureMaps) *TexturedPolygon {
	t := &TexturedPolygon{Maps: maps, Region: region}
	vertices := []core.Vec3{
		{X: -1, Y: 0, Z: -1},
		{X: -1, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: -1},
	}
	// canonical vertices are never degenerate
	_ = t.setup(t, color, color, shading, vertices)
	t.surface = t
	return t
}

// PicturePosition maps a camera-space point on the face to picture coordinates
func (t *TexturedPolygon) PicturePosition(p core.Vec3, cam *camera.Camera) core.Vec2 {
	world := cam.InverseViewingMatrix().TransformPoint(p)
	obj := t.ObjectToRoot().Reverse.TransformPoint(world)
	return core.Vec2{
		X: t.Region.Min.X + (obj.X+1)/2*t.Region.Width(),
		Y: t.Region.Min.Y + (obj.Z+1)/2*t.Region.Height(),
	}
}

func (t *TexturedPolygon) baseColor(p core.Vec3, cam *camera.Camera, front bool) core.Color {
	if t.Maps.Picture == nil {
		return t.Polygon.baseColor(p, cam, front)
	}
	pos := t.PicturePosition(p, cam)
	return t.Maps.Picture.SampleColor(pos.X, pos.Y)
}

func (t *TexturedPolygon) includes(p core.Vec3, cam *camera.Camera) bool {
	if t.Maps.Mask == nil {
		return true
	}
	pos := t.PicturePosition(p, cam)
	return !t.Maps.Mask.IsMasked(pos.X, pos.Y)
}

func (t *TexturedPolygon) afterShading(sp *SurfacePoint, cam *camera.Camera) {
	if t.Maps.Luminance == nil {
		return
	}
	pos := t.PicturePosition(sp.Position, cam)
	sp.Color = sp.Color.AdjustBrightness(t.Maps.Luminance.SampleValue(pos.X, pos.Y)*2 - 1)
}

func (t *TexturedPolygon) finish(sp *SurfacePoint, cam *camera.Camera) {
	if t.Maps.Transparency == nil {
		return
	}
	pos := t.PicturePosition(sp.Position, cam)
	sp.Color = sp.Color.WithTransparency(t.Maps.Transparency.SampleValue(pos.X, pos.Y))
}
