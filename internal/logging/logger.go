// Package logging defines the minimal structured-logging interface used
// across the SDK. The library itself is quiet by default (see Discard);
// applications plug in a real implementation to see key-storage and
// session diagnostics.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key-value pairs, e.g.:
//
//	log.Warn(ctx, "could not store API key", "email", email, "error", err)
type Logger interface {
	// Debug logs fine-grained diagnostics such as request construction.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions,
	// e.g. the keyring fallback engaging.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}
