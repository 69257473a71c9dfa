package interfaces

import "context"

// Logger is the leveled logging contract used throughout the footnotes
// runtime. It mirrors the surface of github.com/goliatone/go-logger so host
// applications already using that package can plug it in directly.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers. Implementations may return one
// shared instance or scope children per name, typically per module.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is an optional extension for loggers that can attach
// persistent structured fields. Implementations return a new logger that
// carries the supplied fields on every entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
