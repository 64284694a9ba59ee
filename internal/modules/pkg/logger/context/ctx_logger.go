package ctxlogger

import (
	"context"
	"log/slog"
)

// key is an unexported type so no other package can collide with our context entry
type key struct{}

// SetLogger returns a new context that carries the provided request-scoped logger
func SetLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, key{}, logger)
}

// GetLogger retrieves the logger stored by SetLogger.
// Contexts without one (background jobs, tests) get slog.Default()
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(key{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}
