package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// logEntry is one captured log line.
type logEntry struct {
	time    time.Time
	level   slog.Level
	message string
}

// logRing is a fixed-size circular buffer of recent log lines that
// doubles as a slog.Handler, so installing it as the default logger
// routes everything the emulator logs into the monitor's log pane.
// Add and recent are safe to call from different goroutines.
type logRing struct {
	mu      sync.RWMutex
	entries []logEntry
	next    int
	count   int
}

func newLogRing(size int) *logRing {
	return &logRing{entries: make([]logEntry, size)}
}

func (r *logRing) add(e logEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.next] = e
	r.next = (r.next + 1) % len(r.entries)
	if r.count < len(r.entries) {
		r.count++
	}
}

// recent returns up to max entries at or above min, newest first.
func (r *logRing) recent(max int, min slog.Level) []logEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]logEntry, 0, max)
	for i := 0; i < r.count && len(out) < max; i++ {
		e := r.entries[(r.next-1-i+len(r.entries))%len(r.entries)]
		if e.level >= min {
			out = append(out, e)
		}
	}
	return out
}

// Enabled captures every standard level; filtering happens at draw
// time so lowering the filter reveals lines logged before the change.
func (r *logRing) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelDebug
}

func (r *logRing) Handle(_ context.Context, record slog.Record) error {
	message := record.Message
	record.Attrs(func(a slog.Attr) bool {
		message += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})

	r.add(logEntry{
		time:    record.Time,
		level:   record.Level,
		message: message,
	})
	return nil
}

func (r *logRing) WithAttrs(attrs []slog.Attr) slog.Handler {
	return r
}

func (r *logRing) WithGroup(name string) slog.Handler {
	return r
}

func formatEntry(e logEntry) string {
	level := "???"
	switch e.level {
	case slog.LevelDebug:
		level = "DBG"
	case slog.LevelInfo:
		level = "INF"
	case slog.LevelWarn:
		level = "WRN"
	case slog.LevelError:
		level = "ERR"
	}
	return fmt.Sprintf("%s [%s] %s", e.time.Format("15:04:05"), level, e.message)
}
