// Package telemetry wraps zerolog in a background-writer goroutine, in
// the spirit of the sibling chess engine's engine/logger.go: logging
// never blocks the search hot path, and a full queue drops entries
// (counted, and reported once at Close) rather than stalling a worker.
package telemetry

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Event is one structured log entry queued for the background writer.
type Event struct {
	Level   zerolog.Level
	Message string
	Fields  map[string]any
}

// Logger is a buffered, non-blocking structured logger.
type Logger struct {
	base    zerolog.Logger
	queue   chan Event
	done    chan struct{}
	dropped int64
}

// New creates a Logger writing to w at the given level, in either
// "console" (human-readable, zerolog.ConsoleWriter) or "json" format.
func New(w io.Writer, level zerolog.Level, format string) *Logger {
	var base zerolog.Logger
	if format == "json" {
		base = zerolog.New(w).Level(level).With().Timestamp().Logger()
	} else {
		base = zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
	}

	l := &Logger{
		base:  base,
		queue: make(chan Event, 256),
		done:  make(chan struct{}),
	}
	go l.writer()
	return l
}

// Default builds a Logger writing to stderr at info level, console
// format — the usual CLI default.
func Default() *Logger {
	return New(os.Stderr, zerolog.InfoLevel, "console")
}

// Log enqueues an event; if the queue is full the event is dropped and
// counted rather than blocking the caller.
func (l *Logger) Log(level zerolog.Level, msg string, fields map[string]any) {
	select {
	case l.queue <- Event{Level: level, Message: msg, Fields: fields}:
	default:
		atomic.AddInt64(&l.dropped, 1)
	}
}

func (l *Logger) Info(msg string, fields map[string]any)  { l.Log(zerolog.InfoLevel, msg, fields) }
func (l *Logger) Debug(msg string, fields map[string]any) { l.Log(zerolog.DebugLevel, msg, fields) }
func (l *Logger) Warn(msg string, fields map[string]any)  { l.Log(zerolog.WarnLevel, msg, fields) }
func (l *Logger) Error(msg string, fields map[string]any) { l.Log(zerolog.ErrorLevel, msg, fields) }

// Close drains the queue and stops the writer goroutine, logging the
// drop count (if any) as a final entry.
func (l *Logger) Close() {
	close(l.queue)
	<-l.done

	if dropped := atomic.LoadInt64(&l.dropped); dropped > 0 {
		l.base.Warn().Int64("dropped", dropped).Msg("log queue was full; entries dropped")
	}
}

func (l *Logger) writer() {
	for ev := range l.queue {
		event := l.base.WithLevel(ev.Level)
		for k, v := range ev.Fields {
			event = event.Interface(k, v)
		}
		event.Msg(ev.Message)
	}
	close(l.done)
}
