package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-scanline-raytracer/pkg/config"
	"github.com/df07/go-scanline-raytracer/pkg/scene"
)

// Size limits of a web render
const (
	minSize    = 16
	maxSize    = 2000
	maxSamples = 5
	minScale   = 0.1
	maxScale   = 4.0
)

// Server serves scene listings, streamed renders and pixel inspection
type Server struct {
	port     int
	defaults config.RenderOptions
	texture  string
	logger   *slog.Logger
}

// NewServer creates a web server whose renders start from defaults
func NewServer(port int, defaults config.RenderOptions, texturePath string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{port: port, defaults: defaults, texture: texturePath, logger: logger}
}

// RenderRequest is the query of a render or inspect request
type RenderRequest struct {
	Scene     string  `json:"scene"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Samples   int     `json:"samples"` // per axis
	Shadows   bool    `json:"shadows"`
	DepthBlur bool    `json:"depthBlur"`
	Threads   int     `json:"threads"`
	Scale     float64 `json:"scale"` // streamed image size relative to the render
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/scenes", s.handleScenes)
	mux.HandleFunc("GET /api/render", s.handleRender)
	mux.HandleFunc("GET /api/inspect", s.handleInspect)
	return mux
}

// Start listens on the configured port until the server fails
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting web server", "url", "http://localhost"+addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.ListScenes())
}

// parseRenderRequest reads the query over the server's default options
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	q := r.URL.Query()
	req := &RenderRequest{Scene: "default"}
	if name := q.Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(q, "width", 400, minSize, maxSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(q, "height", 225, minSize, maxSize); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(q, "samples", s.defaults.SamplesPerPixelX, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.Threads, err = parseIntParam(q, "threads", max(1, s.defaults.RenderThreads), 1, 64); err != nil {
		return nil, err
	}
	if req.Scale, err = parseFloatParam(q, "scale", 1, minScale, maxScale); err != nil {
		return nil, err
	}
	if req.Shadows, err = parseBoolParam(q, "shadows", s.defaults.ShadowsEnabled); err != nil {
		return nil, err
	}
	if req.DepthBlur, err = parseBoolParam(q, "depthBlur", s.defaults.DepthBlurEnabled); err != nil {
		return nil, err
	}
	if req.Width*req.Height*req.Samples*req.Samples > 1920*1080*4 {
		s.logger.Warn("large web render requested", "width", req.Width, "height", req.Height, "samples", req.Samples)
	}
	return req, nil
}

// options merges the request into the server's defaults
func (s *Server) options(req *RenderRequest) config.RenderOptions {
	opts := s.defaults
	opts.RenderWidth, opts.RenderHeight = req.Width, req.Height
	opts.SamplesPerPixelX, opts.SamplesPerPixelY = req.Samples, req.Samples
	opts.ShadowsEnabled = req.Shadows
	opts.DepthBlurEnabled = req.DepthBlur
	opts.RenderThreads = req.Threads
	return opts
}

// buildScene creates the requested scene with the request's settings applied
func (s *Server) buildScene(req *RenderRequest, opts config.RenderOptions) (*scene.Scene, error) {
	sc, err := scene.Build(req.Scene, scene.BuildOptions{
		Width:       req.Width,
		Height:      req.Height,
		TexturePath: s.texture,
	})
	if err != nil {
		return nil, err
	}
	sc.Logger = s.logger
	if err := opts.ApplyTo(sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
