// Package logger provides the levelled diagnostic logger used across ag.
// Diagnostics go to stderr so they never mix with streamed answers on stdout.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the log level
type Level int

const (
	LevelDebug Level = iota // Only shown with --verbose
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger wraps a zap console logger with format-style methods.
type Logger struct {
	writer    io.Writer
	level     Level
	colorMode bool
	sugar     *zap.SugaredLogger
}

// NewLogger creates a new Logger instance
func NewLogger(w io.Writer, level Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	l := &Logger{
		writer:    w,
		level:     level,
		colorMode: true,
	}
	l.build()
	return l
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{writer: io.Discard, sugar: zap.NewNop().Sugar()}
}

// SetColorMode enables or disables coloured level names
func (l *Logger) SetColorMode(enabled bool) {
	l.colorMode = enabled
	l.build()
}

func (l *Logger) build() {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if l.colorMode {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(l.writer),
		l.level.zapLevel(),
	)

	l.sugar = zap.New(core).Sugar()
}

// Debug logs debug information (only shown in verbose mode)
func (l *Logger) Debug(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

// Info logs general information
func (l *Logger) Info(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

// Warn logs recoverable problems
func (l *Logger) Warn(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}

// With returns a child logger that attaches key/value fields to every entry.
func (l *Logger) With(keysAndValues ...any) *Logger {
	child := *l
	child.sugar = l.sugar.With(keysAndValues...)
	return &child
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
