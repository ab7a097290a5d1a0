package server

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// ConsoleMessage is a log line shown in the browser console
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by sending lines to a render's console
// channel and to the server log
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	logger      *slog.Logger
}

// NewWebLogger creates a logger for one render; consoleChan may be nil
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage, logger *slog.Logger) core.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebLogger{renderID: renderID, consoleChan: consoleChan, logger: logger}
}

// Printf implements core.Logger. It never blocks: lines are dropped while
// the console channel is full.
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	wl.logger.Info(strings.TrimRight(message, "\n"), "render", wl.renderID)

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		RenderID:  wl.renderID,
		Message:   message,
		Timestamp: time.Now(),
		Level:     "info",
	}:
	default:
	}
}
