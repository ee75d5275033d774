// Package logging provides a structured logging (slog) wrapper with
// OpenTelemetry trace-context injection, used by the tarjan, kosaraju and
// dispatch packages for completion, duration and failure diagnostics.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"go.opentelemetry.io/otel/trace"
)

var (
	// defaultLogger is the process-wide default Logger, set up lazily.
	defaultLogger *Logger
	once          sync.Once
)

// Config configures a Logger.
type Config struct {
	Service    string
	Module     string
	Level      string
	File       string // log file path; empty means stdout only
	MaxSize    int    // max size per file, MB
	MaxBackups int    // max number of old files retained
	MaxAge     int    // max age of old files, days
	Compress   bool   // compress rotated files
}

// Logger wraps a native *slog.Logger and tags it with a service/module pair
// so the source of a log line is obvious without per-call attributes.
type Logger struct {
	*slog.Logger
	Service string
	Module  string
	level   *slog.LevelVar
}

// SetLevel adjusts the Logger's minimum level at runtime (e.g. from a
// config hot-reload), without rebuilding the underlying handler chain.
func (l *Logger) SetLevel(level string) {
	if l == nil || l.level == nil {
		return
	}
	l.level.Set(parseLevel(level))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// TraceHandler decorates a slog.Handler, injecting trace_id/span_id pulled
// from the OpenTelemetry span in ctx, when one is active.
type TraceHandler struct {
	slog.Handler
}

// Handle implements slog.Handler.
func (h *TraceHandler) Handle(ctx context.Context, r slog.Record) error {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

// NewFromConfig builds a Logger, optionally rotating to disk via lumberjack.
func NewFromConfig(cfg Config) *Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(cfg.Level))

	replaceAttr := func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			a.Key = "timestamp"
		}
		return a
	}

	opts := &slog.HandlerOptions{Level: levelVar, ReplaceAttr: replaceAttr}
	stdoutHandler := slog.NewJSONHandler(os.Stdout, opts)

	var handler slog.Handler = stdoutHandler
	if cfg.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		fileHandler := slog.NewJSONHandler(fileWriter, opts)
		// Tee to both stdout and the rotated file so a local `sccbench`
		// invocation still shows output while a long-running host process
		// keeps a rotated trail on disk.
		handler = newMultiHandler(stdoutHandler, fileHandler)
	}

	traceHandler := &TraceHandler{Handler: handler}

	logger := slog.New(traceHandler).With(
		slog.String("service", cfg.Service),
		slog.String("module", cfg.Module),
	)

	return &Logger{
		Logger:  logger,
		Service: cfg.Service,
		Module:  cfg.Module,
		level:   levelVar,
	}
}

// SetLevel adjusts the process-wide default Logger's level.
func SetLevel(level string) {
	EnsureDefaultLogger()
	defaultLogger.SetLevel(level)
}

// NewLogger builds a Logger from a service/module pair with an optional level.
func NewLogger(service, module string, level ...string) *Logger {
	lvl := "info"
	if len(level) > 0 {
		lvl = level[0]
	}
	return NewFromConfig(Config{
		Service: service,
		Module:  module,
		Level:   lvl,
	})
}

// InitLogger initializes the process-wide default Logger exactly once.
func InitLogger(service, module string, level ...string) {
	once.Do(func() {
		lvl := "info"
		if len(level) > 0 {
			lvl = level[0]
		}
		defaultLogger = NewFromConfig(Config{
			Service: service,
			Module:  module,
			Level:   lvl,
		})
		slog.SetDefault(defaultLogger.Logger)
	})
}

// EnsureDefaultLogger lazily initializes the default Logger if needed.
func EnsureDefaultLogger() {
	if defaultLogger == nil {
		InitLogger("scc", "default", "info")
	}
}

// Default returns the process-wide default Logger.
func Default() *Logger {
	EnsureDefaultLogger()
	return defaultLogger
}

// Info logs at Info level on the default Logger.
func Info(ctx context.Context, msg string, args ...any) {
	EnsureDefaultLogger()
	defaultLogger.InfoContext(ctx, msg, args...)
}

// Warn logs at Warn level on the default Logger.
func Warn(ctx context.Context, msg string, args ...any) {
	EnsureDefaultLogger()
	defaultLogger.WarnContext(ctx, msg, args...)
}

// Error logs at Error level on the default Logger.
func Error(ctx context.Context, msg string, args ...any) {
	EnsureDefaultLogger()
	defaultLogger.ErrorContext(ctx, msg, args...)
}

// Debug logs at Debug level on the default Logger.
func Debug(ctx context.Context, msg string, args ...any) {
	EnsureDefaultLogger()
	defaultLogger.DebugContext(ctx, msg, args...)
}

// LogDuration logs how long the caller's operation took when the returned
// func is invoked, typically via defer.
func LogDuration(ctx context.Context, operation string, args ...any) func() {
	start := time.Now()
	return func() {
		logArgs := append(args, "duration", time.Since(start))
		Info(ctx, fmt.Sprintf("%s finished", operation), logArgs...)
	}
}

// GetLogger returns the process-wide default Logger. If InitLogger was
// never called, it returns a new Logger with placeholder service/module
// names on each call and does not install it as the default.
func GetLogger() *Logger {
	if defaultLogger == nil {
		return NewFromConfig(Config{Service: "unknown", Module: "unknown"})
	}
	return defaultLogger
}
