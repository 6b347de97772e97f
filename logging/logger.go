// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug
// any structured logger. It also offers a SwarmLogger with contextual
// helpers and domain specific logging for model calls, tool calls and
// handoffs.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the minimal logging interface for AgentSwarm. This allows
// users to provide their own logger implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// LoggerConfig configures construction of a SwarmLogger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	RunID     string
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout}
}

// SwarmLogger wraps slog.Logger adding run correlation and domain
// convenience methods. It is cheap to copy via WithRun.
type SwarmLogger struct {
	logger *slog.Logger
}

// NewLogger builds a SwarmLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *SwarmLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	logger := slog.New(handler)
	if cfg.RunID != "" {
		logger = logger.With(slog.String("run_id", cfg.RunID))
	}
	return &SwarmLogger{logger: logger}
}

// NewSlogLogger creates a SwarmLogger with the specified level and format.
func NewSlogLogger(level LogLevel, format string, addSource bool) *SwarmLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return NewLogger(cfg)
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRun attaches a run identifier to every subsequent log entry.
func (l *SwarmLogger) WithRun(runID string) *SwarmLogger {
	return &SwarmLogger{logger: l.logger.With(slog.String("run_id", runID))}
}

// WithRun derives a run-correlated logger when the implementation supports
// it; other Logger implementations pass through unchanged.
func WithRun(l Logger, runID string) Logger {
	if sl, ok := l.(*SwarmLogger); ok {
		return sl.WithRun(runID)
	}
	return l
}

// Debug logs at debug level.
func (l *SwarmLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }

// Info logs at info level.
func (l *SwarmLogger) Info(msg string, args ...any) { l.logger.Info(msg, args...) }

// Warn logs at warn level.
func (l *SwarmLogger) Warn(msg string, args ...any) { l.logger.Warn(msg, args...) }

// Error logs at error level.
func (l *SwarmLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// LogModelCall records latency and outcome of one model completion attempt.
func LogModelCall(l Logger, agent, modelName string, attempt int, dur time.Duration, err error) {
	args := []any{
		"agent", agent,
		"model", modelName,
		"attempt", attempt,
		"duration_ms", dur.Milliseconds(),
	}
	if err != nil {
		args = append(args, "error", err.Error())
		l.Error("model call failed", args...)
		return
	}
	l.Info("model call completed", args...)
}

// LogToolCall records execution details for a tool invocation.
func LogToolCall(l Logger, agent, toolName, callID string, dur time.Duration, errKind string) {
	args := []any{
		"agent", agent,
		"tool", toolName,
		"call_id", callID,
		"duration_ms", dur.Milliseconds(),
	}
	if errKind != "" {
		args = append(args, "error_kind", errKind)
		l.Error("tool execution failed", args...)
		return
	}
	l.Info("tool execution completed", args...)
}

// LogHandoff records a control transfer between agents.
func LogHandoff(l Logger, from, to string) {
	l.Info("handoff", "from", from, "to", to)
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}
