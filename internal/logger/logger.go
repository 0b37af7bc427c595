// Package logger provides structured logging setup using slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// clientIDKey is the context key for the acting client's id.
type clientIDKey struct{}

// New creates a new structured JSON logger writing to stdout.
func New() *slog.Logger {
	return newWithWriter(os.Stdout)
}

func newWithWriter(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// NewQuiet creates a logger that only surfaces warnings and errors,
// for interactive tools that own their stdout.
func NewQuiet(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// WithClientID returns a new context carrying the acting client's id.
func WithClientID(ctx context.Context, clientID int) context.Context {
	return context.WithValue(ctx, clientIDKey{}, clientID)
}

// ClientIDFromContext extracts the client id from the context; zero when
// absent.
func ClientIDFromContext(ctx context.Context) int {
	if v := ctx.Value(clientIDKey{}); v != nil {
		return v.(int)
	}
	return 0
}

// FromContext returns a logger with context fields (client id, etc.)
// attached.
func FromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if id := ClientIDFromContext(ctx); id != 0 {
		return base.With("client_id", id)
	}
	return base
}
