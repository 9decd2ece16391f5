package core

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides debug logging for the KaiwaDB SDK.
//
// Debug and Info are emitted only when the session's verbosity flag is on;
// Warn and Error are always emitted. Credentials and row data are never
// logged. Output goes through zap.
type Logger struct {
	sugar   *zap.SugaredLogger
	enabled bool
}

// NewLogger creates a new logger. When enabled is false only warnings and
// errors are emitted.
func NewLogger(enabled bool) *Logger {
	cfg := zap.NewDevelopmentConfig()
	if enabled {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		// Config is static; Build only fails on bad output paths.
		logger = zap.NewNop()
	}
	return &Logger{
		sugar:   logger.Sugar().Named("kaiwadb"),
		enabled: enabled,
	}
}

// NewLoggerWithZap wraps an existing zap logger, for callers that already
// run zap and want SDK output in their own sinks.
func NewLoggerWithZap(logger *zap.Logger, enabled bool) *Logger {
	return &Logger{
		sugar:   logger.Sugar().Named("kaiwadb"),
		enabled: enabled,
	}
}

// Debug logs a debug message (only if verbosity is enabled).
func (l *Logger) Debug(format string, args ...any) {
	if l.enabled {
		l.sugar.Debugf(format, args...)
	}
}

// Info logs an info message (only if verbosity is enabled).
func (l *Logger) Info(format string, args ...any) {
	if l.enabled {
		l.sugar.Infof(format, args...)
	}
}

// Warn logs a warning message (always logged).
func (l *Logger) Warn(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

// Error logs an error message (always logged).
func (l *Logger) Error(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}

// Timing logs request timing information.
func (l *Logger) Timing(method, url string, duration time.Duration) {
	if l.enabled {
		l.sugar.Debugf("%s %s completed in %dms", method, url, duration.Milliseconds())
	}
}

// Enabled returns whether verbose logging is enabled.
func (l *Logger) Enabled() bool {
	return l.enabled
}
