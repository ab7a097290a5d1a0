package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/geometry"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
)

// LayerInfo describes one surface crossed by an inspection ray
type LayerInfo struct {
	Object   string     `json:"object"` // Go type of the hit object, "backdrop" without one
	Point    [3]float64 `json:"point"`  // camera coordinates
	Depth    float64    `json:"depth"`
	Color    string     `json:"color"` // hex
	Opacity  float64    `json:"opacity"`
	Textured bool       `json:"textured"`
}

// InspectResponse lists the layers under a pixel, nearest first
type InspectResponse struct {
	X      int         `json:"x"`
	Y      int         `json:"y"`
	Hit    bool        `json:"hit"`
	Color  string      `json:"color"` // composite
	Layers []LayerInfo `json:"layers"`
}

// handleInspect traces the eye ray through one pixel of a scene
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}
	x, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	y, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	opts := s.options(req)
	sc, err := s.buildScene(req, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rt, err := opts.NewRenderer(s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := rt.Inspect(sc, x, y)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, inspectResponse(in))
}

func inspectResponse(in *renderer.PixelInspection) InspectResponse {
	resp := InspectResponse{
		X:      in.X,
		Y:      in.Y,
		Hit:    len(in.Layers) > 0,
		Color:  hexColor(in.Color),
		Layers: make([]LayerInfo, len(in.Layers)),
	}
	for i, l := range in.Layers {
		resp.Layers[i] = LayerInfo{
			Object:  objectName(l.Object),
			Point:   [3]float64{l.Position.X, l.Position.Y, l.Position.Z},
			Depth:   l.Depth(),
			Color:   hexColor(l.Color),
			Opacity: l.Color.A,
		}
		_, resp.Layers[i].Textured = l.Object.(*geometry.TexturedPolygon)
	}
	return resp
}

func objectName(o geometry.Raytraceable) string {
	if o == nil {
		return "backdrop"
	}
	switch o.(type) {
	case *geometry.TexturedPolygon:
		return "textured polygon"
	case *geometry.Polygon:
		return "polygon"
	default:
		return fmt.Sprintf("%T", o)
	}
}

func hexColor(c core.Color) string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
