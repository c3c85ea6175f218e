package mapeo

import "github.com/rs/zerolog"

// Logger receives debug traces from a Reader. Key-value pairs alternate
// between a string key and an arbitrary value.
type Logger interface {
	Debug(msg string, keyvals ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

type verboseLogger struct {
	log zerolog.Logger
}

// NewVerboseLogger returns a Logger that writes debug events to l.
func NewVerboseLogger(l zerolog.Logger) Logger {
	return &verboseLogger{log: l.With().Str("component", "mapeo").Logger()}
}

// Debug implements Logger.
func (v *verboseLogger) Debug(msg string, keyvals ...any) {
	e := v.log.Debug()
	if len(keyvals) > 0 {
		e = e.Fields(keyvals)
	}
	e.Msg(msg)
}
