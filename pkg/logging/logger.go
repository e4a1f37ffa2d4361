// Package logging provides the structured JSON logger shared by every
// binary. It wraps zap behind a small surface so call sites stay free of
// encoder and core plumbing.
package logging

import (
	"context"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel is the minimum severity a logger emits.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the level name as it appears in log output.
func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a configuration string onto a level, defaulting to info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// Fields carries structured key-value pairs attached to a log line.
type Fields map[string]interface{}

// ContextKey is the type of the context keys the logger understands.
type ContextKey string

// RequestIDKey carries the per-request correlation id through contexts.
const RequestIDKey ContextKey = "request_id"

// StructuredLogger emits JSON log lines with service identity and request
// correlation attached.
type StructuredLogger struct {
	zl    *zap.Logger
	level zap.AtomicLevel
}

// NewStructuredLogger builds a logger writing JSON to stdout, stamped with
// the service name, version and hostname.
func NewStructuredLogger(service, version string, level LogLevel) *StructuredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.MessageKey = "message"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	atomic := zap.NewAtomicLevelAt(level.zapLevel())
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(os.Stdout), atomic)

	hostname, _ := os.Hostname()
	zl := zap.New(core).With(
		zap.String("service", service),
		zap.String("version", version),
		zap.String("hostname", hostname),
	)
	return &StructuredLogger{zl: zl, level: atomic}
}

// NewNop returns a logger that discards everything. Handy in tests.
func NewNop() *StructuredLogger {
	return &StructuredLogger{zl: zap.NewNop(), level: zap.NewAtomicLevel()}
}

// SetLevel changes the minimum emitted severity at runtime.
func (l *StructuredLogger) SetLevel(level LogLevel) {
	l.level.SetLevel(level.zapLevel())
}

// Sync flushes buffered log lines. Call it before process exit.
func (l *StructuredLogger) Sync() error {
	return l.zl.Sync()
}

// WithFields returns a logger that attaches the given fields to every line.
func (l *StructuredLogger) WithFields(fields Fields) *StructuredLogger {
	return &StructuredLogger{zl: l.zl.With(zapFields(nil, fields, nil)...), level: l.level}
}

// Debug logs a debug message with structured fields.
func (l *StructuredLogger) Debug(ctx context.Context, message string, fields Fields) {
	l.zl.Debug(message, zapFields(ctx, fields, nil)...)
}

// Info logs an info message with structured fields.
func (l *StructuredLogger) Info(ctx context.Context, message string, fields Fields) {
	l.zl.Info(message, zapFields(ctx, fields, nil)...)
}

// Warn logs a warning message with structured fields.
func (l *StructuredLogger) Warn(ctx context.Context, message string, fields Fields) {
	l.zl.Warn(message, zapFields(ctx, fields, nil)...)
}

// Error logs an error message with the error chain attached.
func (l *StructuredLogger) Error(ctx context.Context, message string, fields Fields, err error) {
	l.zl.Error(message, zapFields(ctx, fields, err)...)
}

// Fatal logs the message and exits the process.
func (l *StructuredLogger) Fatal(ctx context.Context, message string, fields Fields, err error) {
	l.zl.Fatal(message, zapFields(ctx, fields, err)...)
}

// zapFields flattens the field map in key order, then appends request
// correlation from the context and the error, when present.
func zapFields(ctx context.Context, fields Fields, err error) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+2)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}

	if ctx != nil {
		if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
			out = append(out, zap.String("request_id", id))
		}
	}
	if err != nil {
		out = append(out, zap.Error(err))
	}
	return out
}
