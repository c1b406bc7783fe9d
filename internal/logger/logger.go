package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"example.com/dirserve/internal/config"
)

// LogFields carries structured key/value context for a log entry.
type LogFields map[string]interface{}

// Logger is the process-wide structured logger. It is safe for concurrent
// use; all request handlers share one instance.
type Logger struct {
	zl      zerolog.Logger
	logFile *os.File // non-nil only when logging to a file
}

// NewLogger creates a Logger honoring the configured level and target.
// Target may be "stdout", "stderr", or a file path, which is opened in
// append mode.
func NewLogger(cfg *config.LoggingConfig) (*Logger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("logging configuration cannot be nil")
	}

	var out io.Writer
	var logFile *os.File
	switch cfg.Target {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Target, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.Target, err)
		}
		out = f
		logFile = f
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, err
	}

	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &Logger{zl: zl, logFile: logFile}, nil
}

// NewDiscardLogger returns a Logger that drops everything. Intended for
// tests and as a safe fallback when a nil logger would otherwise be passed
// around.
func NewDiscardLogger() *Logger {
	return &Logger{zl: zerolog.New(io.Discard)}
}

// NewTestLogger returns a Logger writing to the given writer at debug
// level, for asserting on log output in tests.
func NewTestLogger(w io.Writer) *Logger {
	return &Logger{zl: zerolog.New(w).Level(zerolog.DebugLevel)}
}

func parseLevel(l config.LogLevel) (zerolog.Level, error) {
	switch l {
	case config.LogLevelDebug:
		return zerolog.DebugLevel, nil
	case "", config.LogLevelInfo:
		return zerolog.InfoLevel, nil
	case config.LogLevelWarning:
		return zerolog.WarnLevel, nil
	case config.LogLevelError:
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", l)
	}
}

// Debug logs at debug level with optional structured fields.
func (l *Logger) Debug(msg string, fields LogFields) {
	l.emit(l.zl.Debug(), msg, fields)
}

// Info logs at info level with optional structured fields.
func (l *Logger) Info(msg string, fields LogFields) {
	l.emit(l.zl.Info(), msg, fields)
}

// Warn logs at warning level with optional structured fields.
func (l *Logger) Warn(msg string, fields LogFields) {
	l.emit(l.zl.Warn(), msg, fields)
}

// Error logs at error level with optional structured fields.
func (l *Logger) Error(msg string, fields LogFields) {
	l.emit(l.zl.Error(), msg, fields)
}

func (l *Logger) emit(ev *zerolog.Event, msg string, fields LogFields) {
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// CloseLogFiles closes the log file if the target was a file path. Safe to
// call regardless of target.
func (l *Logger) CloseLogFiles() error {
	if l.logFile == nil {
		return nil
	}
	err := l.logFile.Close()
	l.logFile = nil
	return err
}
