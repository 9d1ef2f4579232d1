package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Field is a single structured key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Int64 creates an int64 field.
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

// Uint64 creates a uint64 field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Float64 creates a float64 field.
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Err creates a field holding an error under the "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// Logger is the logging interface used across the application. Components
// depend on it rather than on a concrete backend.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
}

// ZerologAdapter implements Logger on top of zerolog.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps an existing zerolog.Logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewConsoleLogger returns a human-readable logger writing to w.
func NewConsoleLogger(w io.Writer, level zerolog.Level, noColor bool) *ZerologAdapter {
	out := zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: time.TimeOnly}
	return NewZerologAdapter(zerolog.New(out).Level(level).With().Timestamp().Logger())
}

// NewLogger returns a JSON logger writing to w, tagging every entry with the
// given component name.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	zl := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return NewZerologAdapter(zl)
}

// WithLevel returns a copy of z that drops entries below level.
func (z *ZerologAdapter) WithLevel(level zerolog.Level) *ZerologAdapter {
	return NewZerologAdapter(z.logger.Level(level))
}

// Zerolog exposes the underlying zerolog.Logger for packages that log
// through zerolog's event API directly.
func (z *ZerologAdapter) Zerolog() zerolog.Logger {
	return z.logger
}

// Debug logs a debug-level message.
func (z *ZerologAdapter) Debug(msg string, fields ...Field) {
	applyFields(z.logger.Debug(), fields).Msg(msg)
}

// Info logs an info-level message.
func (z *ZerologAdapter) Info(msg string, fields ...Field) {
	applyFields(z.logger.Info(), fields).Msg(msg)
}

// Error logs an error-level message with the given error attached.
func (z *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	applyFields(z.logger.Error().Err(err), fields).Msg(msg)
}

func applyFields(e *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			e = e.Str(f.Key, v)
		case int:
			e = e.Int(f.Key, v)
		case int64:
			e = e.Int64(f.Key, v)
		case uint64:
			e = e.Uint64(f.Key, v)
		case float64:
			e = e.Float64(f.Key, v)
		case bool:
			e = e.Bool(f.Key, v)
		case time.Duration:
			e = e.Dur(f.Key, v)
		case error:
			e = e.AnErr(f.Key, v)
		default:
			e = e.Interface(f.Key, v)
		}
	}
	return e
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewZerologAdapter(zerolog.Nop())
}
