// Package logger provides the structured logger used across mesh2ww.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"
)

// Logger is the common interface for logging in mesh2ww.
// It wraps slog.Logger to allow for dependency injection and testing.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// SlogLogger is a Logger implementation that wraps slog.Logger.
type SlogLogger struct {
	logger *slog.Logger
}

// New creates a new Logger with the given handler.
func New(handler slog.Handler) Logger {
	return &SlogLogger{
		logger: slog.New(handler),
	}
}

// Default creates a Logger with default text handler writing to stderr.
func Default() Logger {
	return New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Discard returns a Logger that drops everything (-q).
func Discard() Logger {
	return New(slog.DiscardHandler)
}

// Options selects the handler built by Setup.
type Options struct {
	Verbosity int    // 0 info, 1 debug, 2+ debug with source
	Quiet     bool   // overrules Verbosity
	Format    string // pretty, text or json
	Color     *bool  // nil means detect from the writer
}

// Level maps a -v count to a slog level.
func Level(verbosity int) slog.Level {
	if verbosity > 0 {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Setup builds the process logger from the command line debug flags.
func Setup(w io.Writer, opts Options) Logger {
	if opts.Quiet {
		return Discard()
	}
	hopts := &slog.HandlerOptions{
		AddSource: opts.Verbosity > 1,
		Level:     Level(opts.Verbosity),
	}
	switch opts.Format {
	case "json":
		return New(slog.NewJSONHandler(w, hopts))
	case "text":
		return New(slog.NewTextHandler(w, hopts))
	}

	color := IsTerminal(w) && os.Getenv("NO_COLOR") == ""
	if opts.Color != nil {
		color = *opts.Color
	}
	return New(NewPrettyHandler(w, &PrettyOptions{
		HandlerOptions: *hopts,
		Color:          color,
		ShowLevel:      opts.Verbosity > 0,
	}))
}

// FromContext retrieves a Logger from the context.
// If no logger is found, returns a default logger.
func FromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return logger
	}
	return Default()
}

// WithContext adds the logger to the context.
func WithContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

type loggerKey struct{}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

func (l *SlogLogger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

// log records the caller of the Logger method rather than this wrapper, so
// source locations point at the call site.
func (l *SlogLogger) log(level slog.Level, msg string, args ...any) {
	ctx := context.Background()
	if !l.logger.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // skip Callers, log and the level method
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.logger.Handler().Handle(ctx, r)
}

func (l *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{
		logger: l.logger.With(args...),
	}
}
