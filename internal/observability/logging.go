// Package observability provides logging and metrics.
package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the global structured logger instance used throughout the application.
var Logger *slog.Logger

type contextKey string

const (
	CorrelationIDKey contextKey = "correlation_id"
	UserIDKey        contextKey = "user_id"
)

// ctxHandler is a slog.Handler that adds context values to the log record.
type ctxHandler struct {
	slog.Handler
}

// Handle adds context values to the record before passing it to the underlying handler.
func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if cid, ok := ctx.Value(CorrelationIDKey).(string); ok {
		r.AddAttrs(slog.String("correlation_id", cid))
	}
	if uid, ok := ctx.Value(UserIDKey).(uint); ok {
		r.AddAttrs(slog.Any("user_id", uid))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ctxHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ctxHandler) WithGroup(name string) slog.Handler {
	return &ctxHandler{h.Handler.WithGroup(name)}
}

func init() {
	format := "text"
	if os.Getenv("APP_ENV") == "production" {
		format = "json"
	}
	Logger = slog.New(&ctxHandler{newHandler(os.Stderr, format, slog.LevelInfo)})
}

// LogOptions controls how Setup builds the global logger.
type LogOptions struct {
	Level string
	// Format is "json" or "text"; empty picks json in production and text elsewhere.
	Format     string
	Production bool
	// Output receives log records; nil means stderr. Stdout is left to command output.
	Output io.Writer
	// File enables a size-rotated log file in addition to Output.
	File      string
	MaxSizeMB int
	MaxFiles  int
}

// Setup replaces the global Logger according to opts. The returned closer
// releases the rotating file, if any.
func Setup(opts LogOptions) (io.Closer, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	var closer io.Closer = io.NopCloser(nil)

	if opts.File != "" {
		rotating, err := newRotatingWriter(opts.File, opts.MaxSizeMB, opts.MaxFiles)
		if err != nil {
			return nil, err
		}
		out = io.MultiWriter(out, rotating)
		closer = rotating
	}

	format := opts.Format
	if format == "" {
		format = "text"
		if opts.Production {
			format = "json"
		}
	}

	Logger = slog.New(&ctxHandler{newHandler(out, format, parseLevel(opts.Level))})
	return closer, nil
}

// SetOutput points the global logger at w. Intended for tests.
func SetOutput(w io.Writer, format string) {
	Logger = slog.New(&ctxHandler{newHandler(w, format, slog.LevelDebug)})
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	if format == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func newRotatingWriter(file string, maxSizeMB, maxFiles int) (*lumberjack.Logger, error) {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	if maxFiles <= 0 {
		maxFiles = 5
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSizeMB,
		MaxBackups: maxFiles,
	}, nil
}

// GenerateCorrelationID creates a new unique correlation ID.
func GenerateCorrelationID() string {
	return uuid.NewString()
}

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return id
	}
	return ""
}

// RepoLogger provides structured logging for repository operations.
type RepoLogger struct {
	tableName string
}

// NewRepoLogger creates a new RepoLogger for the given table.
func NewRepoLogger(tableName string) *RepoLogger {
	return &RepoLogger{tableName: tableName}
}

func (l *RepoLogger) log(ctx context.Context, operation string, fields map[string]any) {
	attrs := []any{
		slog.String("table", l.tableName),
		slog.String("operation", operation),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	Logger.DebugContext(ctx, "repository "+operation, attrs...)
}

// LogCreate logs a repository create operation.
func (l *RepoLogger) LogCreate(ctx context.Context, fields map[string]any) {
	l.log(ctx, "create", fields)
}

// LogUpdate logs a repository update operation.
func (l *RepoLogger) LogUpdate(ctx context.Context, fields map[string]any) {
	l.log(ctx, "update", fields)
}

// LogDelete logs a repository delete operation.
func (l *RepoLogger) LogDelete(ctx context.Context, fields map[string]any) {
	l.log(ctx, "delete", fields)
}

// LogError logs a repository error.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	Logger.ErrorContext(ctx, "repository error",
		slog.String("table", l.tableName),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
