// Package ctxlog carries a slog.Logger through context.Context so the
// resolver and engine can log without threading a logger argument through
// every call.
package ctxlog

import (
	"context"
	"log/slog"
)

// key is an unexported type to prevent collisions with context keys from
// other packages.
type key struct{}

// With returns a new context with the provided logger embedded.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, key{}, logger)
}

// From extracts the logger from ctx, falling back to slog.Default when
// none was attached.
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(key{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
