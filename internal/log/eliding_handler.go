package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// MaxValueLen is the longest string attribute value written unchanged.
const MaxValueLen = 256

// bulkKeys are attribute keys whose values are page or document bodies.
var bulkKeys = map[string]bool{
	"text":    true,
	"content": true,
	"body":    true,
	"html":    true,
}

// ElidingHandler wraps an slog.Handler and shortens bulky attribute values
// before passing records on.
type ElidingHandler struct {
	handler slog.Handler
}

// NewElidingHandler creates an ElidingHandler wrapping handler.
// If handler is nil, slog.Default().Handler() is used.
func NewElidingHandler(handler slog.Handler) *ElidingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &ElidingHandler{handler: handler}
}

// Enabled delegates to the wrapped handler.
func (h *ElidingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's attributes and passes it on.
func (h *ElidingHandler) Handle(ctx context.Context, r slog.Record) error {
	elided := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		elided.AddAttrs(h.elideAttr(a))
		return true
	})
	return h.handler.Handle(ctx, elided)
}

// WithAttrs returns a handler with the given attributes, already elided.
func (h *ElidingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	elided := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		elided[i] = h.elideAttr(a)
	}
	return &ElidingHandler{handler: h.handler.WithAttrs(elided)}
}

// WithGroup returns a handler with the given group name.
func (h *ElidingHandler) WithGroup(name string) slog.Handler {
	return &ElidingHandler{handler: h.handler.WithGroup(name)}
}

func (h *ElidingHandler) elideAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		elided := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			elided[i] = h.elideAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(elided...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	value := a.Value.String()
	if bulkKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, fmt.Sprintf("<%d bytes>", len(value)))
	}
	if len(value) > MaxValueLen {
		return slog.String(a.Key, truncate(value, MaxValueLen)+"...")
	}
	return a
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// NewLogger creates a text logger writing to w.
// Verbose selects Debug level, otherwise only warnings and errors are written.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewElidingHandler(handler))
}
