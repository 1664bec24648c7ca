// Package logging defines the structured-logging contract the rest of the
// engine depends on, keeping the concrete backend swappable.
package logging

import "context"

// Logger logs structured key-value pairs at the usual levels. Args alternate
// key and value:
//
//	log.Warn(ctx, "rate limit exceeded", "sender", key)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given pairs on every record.
	With(args ...any) Logger
}
