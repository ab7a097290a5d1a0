package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

type slogLogger struct {
	l     *slog.Logger
	level slog.Level
}

// NewSlogLogger routes Printf lines to a structured logger at the given level
func NewSlogLogger(l *slog.Logger, level slog.Level) Logger {
	if l == nil {
		l = slog.Default()
	}
	return &slogLogger{l: l, level: level}
}

func (s *slogLogger) Printf(format string, args ...interface{}) {
	s.l.Log(context.Background(), s.level, strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}
