package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	CorrelatedIDKey     contextKey = "correlation_id"
	LoggerKeyForContext contextKey = "logger"
)

type Logger struct {
	*slog.Logger
}

// NewLoggerWithJSONOutput writes JSON to stdout at the level named by LOG_LEVEL
// (debug, info, warn, error; default info).
func NewLoggerWithJSONOutput() *Logger {
	return NewLogger(os.Stdout, levelFromEnv(os.Getenv("LOG_LEVEL")))
}

func NewLogger(w io.Writer, level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

// NewDiscardLogger is for tests that do not assert on log output.
func NewDiscardLogger() *Logger {
	return NewLogger(io.Discard, slog.LevelError+1)
}

func levelFromEnv(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) WithCorrelationID(ctx context.Context) *Logger {
	return &Logger{
		Logger: l.Logger.With(string(CorrelatedIDKey), GetOrGenerateCorrelationID(ctx)),
	}
}

// With returns a child logger carrying the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

func GetOrGenerateCorrelationID(ctx context.Context) string {
	if ctx != nil {
		if s, ok := ctx.Value(CorrelatedIDKey).(string); ok && s != "" {
			return s
		}
	}

	return GenerateCorrelationID()
}

func GenerateCorrelationID() string {
	return uuid.New().String()
}

// ContextWithLogger stores a request-scoped logger for GetLoggerInstanceFromContext.
func ContextWithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerKeyForContext, logger)
}

func GetLoggerInstanceFromContext(ctx context.Context, fallbackLogger *Logger) *Logger {
	if ctx == nil {
		if fallbackLogger != nil {
			return fallbackLogger
		}
		return NewLoggerWithJSONOutput()
	}

	if l, ok := ctx.Value(LoggerKeyForContext).(*Logger); ok && l != nil {
		return l
	}

	if fallbackLogger != nil {
		return fallbackLogger.WithCorrelationID(ctx)
	}
	return NewLoggerWithJSONOutput().WithCorrelationID(ctx)
}
