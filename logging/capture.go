package logging

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// LogEntry is one captured log record.
type LogEntry struct {
	Time       time.Time      `json:"time"`
	Level      string         `json:"level"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Capture records log entries emitted through loggers it wraps.
// It is safe for concurrent use.
type Capture struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewCapture creates an empty Capture.
func NewCapture() *Capture {
	return &Capture{}
}

// Logger returns a logger that writes to base's handler and also records every
// entry in c, whatever the base level.
func (c *Capture) Logger(base *slog.Logger) *slog.Logger {
	return slog.New(&captureHandler{next: base.Handler(), capture: c})
}

// Entries returns a copy of the captured entries in emission order.
func (c *Capture) Entries() []LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.entries)
}

func (c *Capture) add(e LogEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
}

type captureHandler struct {
	next    slog.Handler
	capture *Capture
	attrs   []slog.Attr
	group   string
}

func (h *captureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *captureHandler) Handle(ctx context.Context, r slog.Record) error {
	entry := LogEntry{
		Time:       r.Time,
		Level:      r.Level.String(),
		Message:    r.Message,
		Attributes: make(map[string]any, r.NumAttrs()+len(h.attrs)),
	}
	for _, a := range h.attrs {
		entry.Attributes[a.Key] = resolveValue(a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		entry.Attributes[h.key(a.Key)] = resolveValue(a.Value)
		return true
	})
	h.capture.add(entry)

	if !h.next.Enabled(ctx, r.Level) {
		return nil
	}
	return h.next.Handle(ctx, r)
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	qualified := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	qualified = append(qualified, h.attrs...)
	for _, a := range attrs {
		qualified = append(qualified, slog.Attr{Key: h.key(a.Key), Value: a.Value})
	}
	return &captureHandler{
		next:    h.next.WithAttrs(attrs),
		capture: h.capture,
		attrs:   qualified,
		group:   h.group,
	}
}

func (h *captureHandler) WithGroup(name string) slog.Handler {
	return &captureHandler{
		next:    h.next.WithGroup(name),
		capture: h.capture,
		attrs:   h.attrs,
		group:   h.key(name),
	}
}

// key qualifies an attribute key with the current group, dot separated.
func (h *captureHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

// resolveValue converts a slog.Value to something encoding/json can handle.
func resolveValue(v slog.Value) any {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	case slog.KindGroup:
		group := make(map[string]any)
		for _, a := range v.Group() {
			group[a.Key] = resolveValue(a.Value)
		}
		return group
	default:
		return v.Any()
	}
}
