package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/df07/go-scanline-raytracer/pkg/core"
	"github.com/df07/go-scanline-raytracer/pkg/renderer"
)

// SSEEvent is one server-sent event, written by a single goroutine
type SSEEvent struct {
	Type string `json:"type"` // "console", "progress", "image", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// ProgressUpdate reports the current render step
type ProgressUpdate struct {
	Step       int     `json:"step"`
	TotalSteps int     `json:"totalSteps"`
	Label      string  `json:"label"`
	Percent    float64 `json:"percent"`
}

// ImageUpdate carries the finished image and its statistics
type ImageUpdate struct {
	ImageData    string  `json:"imageData"` // base64 PNG
	Width        int     `json:"width"`     // of the streamed image
	Height       int     `json:"height"`
	ElapsedMs    int64   `json:"elapsedMs"`
	EyeRays      int64   `json:"eyeRays"`
	ShadowRays   int64   `json:"shadowRays"`
	CacheHits    int64   `json:"cacheHits"`
	Luminance    float64 `json:"luminance"`
	IndexSummary string  `json:"indexSummary"`
}

// sseTracker turns render progress into SSE events, dropping updates when
// the client falls behind
type sseTracker struct {
	ctx    context.Context
	events chan<- SSEEvent
}

func (t *sseTracker) RenderingStarted(string) {}

func (t *sseTracker) RenderingProgressUpdate(step int, stepProgress float64, totalSteps int, label string) {
	data, err := json.Marshal(ProgressUpdate{Step: step, TotalSteps: totalSteps, Label: label, Percent: stepProgress * 100})
	if err != nil {
		return
	}
	select {
	case t.events <- SSEEvent{Type: "progress", Data: string(data)}:
	case <-t.ctx.Done():
	default:
	}
}

func (t *sseTracker) RenderingCompleted(string) {}

// handleRender renders a scene and streams console lines, progress and the
// final image via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)
	ctx := r.Context()

	events := make(chan SSEEvent, 100)
	done := make(chan struct{})
	go func() {
		defer close(done)
		writeSSEEvents(ctx, w, events)
	}()
	defer func() {
		close(events)
		<-done
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		sendEvent(ctx, events, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}
	opts := s.options(req)
	sc, err := s.buildScene(req, opts)
	if err != nil {
		sendEvent(ctx, events, "error", err.Error())
		return
	}
	rt, err := opts.NewRenderer(s.logger)
	if err != nil {
		sendEvent(ctx, events, "error", err.Error())
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	webLogger := NewWebLogger(fmt.Sprintf("render-%d", time.Now().UnixNano()), consoleChan, s.logger)
	rt.AddProgressTracker(renderer.NewLogProgressTracker(webLogger, 500*time.Millisecond))
	rt.AddProgressTracker(&sseTracker{ctx: ctx, events: events})
	forwardDone := make(chan struct{})
	go func() {
		defer close(forwardDone)
		streamConsoleMessages(ctx, consoleChan, events)
	}()

	vp := renderer.NewImageViewPort(req.Width, req.Height, core.Black)
	result, err := rt.Render(ctx, sc, vp)
	close(consoleChan)
	<-forwardDone
	if err != nil {
		sendEvent(ctx, events, "error", fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	img := vp.Image()
	preview := img
	if req.Scale != 1 {
		preview = vp.Snapshot(req.Scale)
	}
	imageData, err := imageToBase64PNG(preview)
	if err != nil {
		sendEvent(ctx, events, "error", fmt.Sprintf("Encoding image: %v", err))
		return
	}
	data, err := json.Marshal(ImageUpdate{
		ImageData:    imageData,
		Width:        preview.Bounds().Dx(),
		Height:       preview.Bounds().Dy(),
		ElapsedMs:    result.Duration.Milliseconds(),
		EyeRays:      result.Metrics.EyeRays,
		ShadowRays:   result.Metrics.ShadowTraversals,
		CacheHits:    result.Metrics.ObscuringCacheHits,
		Luminance:    renderer.CalculateAverageLuminance(img),
		IndexSummary: result.ViewPlaneStats.String(),
	})
	if err != nil {
		sendEvent(ctx, events, "error", err.Error())
		return
	}
	sendEvent(ctx, events, "image", string(data))
	sendEvent(ctx, events, "complete", "Rendering completed")
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes events until the channel closes or the client leaves
func writeSSEEvents(ctx context.Context, w http.ResponseWriter, events <-chan SSEEvent) {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		case <-ctx.Done():
			// drain so senders never block on a gone client
			for range events {
			}
			return
		}
	}
}

// streamConsoleMessages forwards console lines as SSE events until consoleChan closes
func streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, events chan<- SSEEvent) {
	for msg := range consoleChan {
		data, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		select {
		case events <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// channel full, skip
		}
	}
}

// sendEvent queues an event unless the client is gone
func sendEvent(ctx context.Context, events chan<- SSEEvent, typ, data string) {
	select {
	case events <- SSEEvent{Type: typ, Data: data}:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
