// Package logging builds the slog logger shared by the CLI and the HTTP server.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type ctxKey struct{}

// WithRunID stores a run id on ctx; records logged with that ctx carry it.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RunID returns the run id stored on ctx, if any.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Options selects level and encoding.
type Options struct {
	// Level is a level name understood by ParseLevel.
	Level string
	// Debug forces debug level and adds source locations.
	Debug bool
	// JSON switches from the text handler to the JSON handler.
	JSON bool
}

// New returns a logger writing to w.
func New(w io.Writer, opt Options) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: ParseLevel(opt.Level)}
	if opt.Debug {
		hopts.Level = slog.LevelDebug
		hopts.AddSource = true
	}
	var h slog.Handler
	if opt.JSON {
		h = slog.NewJSONHandler(w, hopts)
	} else {
		h = slog.NewTextHandler(w, hopts)
	}
	return slog.New(&runHandler{Handler: h})
}

// ParseLevel converts a level name to slog.Level; unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard is a logger that drops everything, for tests.
func Discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// runHandler adds run_id from the context to every record.
type runHandler struct {
	slog.Handler
}

func (h *runHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RunID(ctx); id != "" {
		r.AddAttrs(slog.String("run_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *runHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &runHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *runHandler) WithGroup(name string) slog.Handler {
	return &runHandler{Handler: h.Handler.WithGroup(name)}
}
