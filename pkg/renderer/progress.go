package renderer

import (
	"sync"
	"time"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// ProgressTracker is told about the phases of a render. Steps count from 1
// to totalSteps; stepProgress is the completed fraction of the current step.
// Callbacks are serialised, even when raster workers report concurrently.
type ProgressTracker interface {
	RenderingStarted(sceneName string)
	RenderingProgressUpdate(step int, stepProgress float64, totalSteps int, label string)
	RenderingCompleted(sceneName string)
}

// progress fans events out to trackers under one lock
type progress struct {
	mu       sync.Mutex
	trackers []ProgressTracker
}

func newProgress(trackers []ProgressTracker) *progress {
	return &progress{trackers: append([]ProgressTracker(nil), trackers...)}
}

func (p *progress) started(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.trackers {
		t.RenderingStarted(name)
	}
}

func (p *progress) update(step int, stepProgress float64, totalSteps int, label string) {
	if len(p.trackers) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.trackers {
		t.RenderingProgressUpdate(step, stepProgress, totalSteps, label)
	}
}

func (p *progress) completed(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.trackers {
		t.RenderingCompleted(name)
	}
}

// LogProgressTracker writes progress lines to a logger, at most one per
// interval apart from step changes and completion
type LogProgressTracker struct {
	logger   core.Logger
	interval time.Duration

	start    time.Time
	last     time.Time
	lastStep int
}

// NewLogProgressTracker creates a tracker printing through logger
func NewLogProgressTracker(logger core.Logger, interval time.Duration) *LogProgressTracker {
	return &LogProgressTracker{logger: logger, interval: interval}
}

func (l *LogProgressTracker) RenderingStarted(sceneName string) {
	l.start = time.Now()
	l.last = time.Time{}
	l.lastStep = 0
	l.logger.Printf("Rendering %s...\n", sceneName)
}

func (l *LogProgressTracker) RenderingProgressUpdate(step int, stepProgress float64, totalSteps int, label string) {
	now := time.Now()
	if step == l.lastStep && stepProgress < 1 && now.Sub(l.last) < l.interval {
		return
	}
	l.last = now
	l.lastStep = step
	l.logger.Printf("Step %d/%d %s: %.1f%%\n", step, totalSteps, label, stepProgress*100)
}

func (l *LogProgressTracker) RenderingCompleted(sceneName string) {
	l.logger.Printf("Rendered %s in %v\n", sceneName, time.Since(l.start).Round(time.Millisecond))
}
