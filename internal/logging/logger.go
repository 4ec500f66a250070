// Package logging defines the structured logger used for diagnostics. The
// terminal belongs to the UI, so output goes to a file or nowhere.
package logging

// Logger is a structured logger. The variadic args are key-value pairs:
//
//	log.Info("entry saved", "id", entry.ID, "seconds", entry.DurationSeconds)
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}
