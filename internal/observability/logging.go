// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	GlobalLogger = NewLogger(os.Stdout, os.Getenv("APP_ENV"), "info")
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// Context keys for logging
const (
	CorrelationID LogContextKey = "correlation_id"
	SessionUserID LogContextKey = "session_user_id"
)

// ctxHandler is a slog.Handler that adds context values to the log record.
type ctxHandler struct {
	slog.Handler
}

// Handle adds context values to the record before passing it to the underlying handler.
func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ctx.Value(CorrelationID).(string); ok && id != "" {
		r.AddAttrs(slog.String("correlation_id", id))
	}
	if uid, ok := ctx.Value(SessionUserID).(string); ok && uid != "" {
		r.AddAttrs(slog.String("session_user_id", uid))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ctxHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ctxHandler) WithGroup(name string) slog.Handler {
	return &ctxHandler{h.Handler.WithGroup(name)}
}

// NewLogger builds a context-aware logger. Production writes JSON, every
// other environment writes text.
func NewLogger(w io.Writer, env, level string) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if env == "production" || env == "prod" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &Logger{Logger: slog.New(&ctxHandler{handler})}
}

// SetGlobalLogger replaces GlobalLogger and the slog default.
func SetGlobalLogger(l *Logger) {
	GlobalLogger = l
	slog.SetDefault(l.Logger)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationID, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationID).(string); ok {
		return id
	}
	return ""
}

// StoreLogger provides structured logging for one persisted store slot.
type StoreLogger struct {
	slot   string
	logger *Logger
}

// NewStoreLogger creates a new StoreLogger for the given slot.
func NewStoreLogger(slot string) *StoreLogger {
	return &StoreLogger{
		slot:   slot,
		logger: GlobalLogger,
	}
}

// LogLoad logs a rehydration of the slot.
func (l *StoreLogger) LogLoad(ctx context.Context, version int, found bool) {
	l.logger.InfoContext(ctx, "store rehydrated",
		slog.String("slot", l.slot),
		slog.Int("schema_version", version),
		slog.Bool("found", found),
	)
}

// LogSave logs a write of the slot at debug level; saves happen on every mutation.
func (l *StoreLogger) LogSave(ctx context.Context, bytes int) {
	l.logger.DebugContext(ctx, "store persisted",
		slog.String("slot", l.slot),
		slog.Int("bytes", bytes),
	)
}

// LogError logs a persistence failure for the slot.
func (l *StoreLogger) LogError(ctx context.Context, err error, operation string) {
	l.logger.ErrorContext(ctx, "store persistence error",
		slog.String("slot", l.slot),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
