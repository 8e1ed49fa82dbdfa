package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	logger *slog.Logger
	mu     sync.RWMutex
)

// ParseLogLevel converts a string log level to a slog.Level.
// Valid values are "debug", "info", "warn", "error". Unknown values map to info.
func ParseLogLevel(level string) slog.Level {
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

// InitLog initializes or reinitializes the logger. format is "json" or "text"
// (anything else is treated as text). Records are written to stderr so that
// command output on stdout stays machine readable.
func InitLog(logLevel, format string) {
	SetOutput(os.Stderr, logLevel, format)
}

// SetOutput is InitLog with an explicit writer.
func SetOutput(w io.Writer, logLevel, format string) {
	opts := &slog.HandlerOptions{Level: ParseLogLevel(logLevel)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(NewContextHandler(handler))
	slog.SetDefault(logger)
}

// GetLog returns the configured logger, creating an info level text logger
// on first use.
func GetLog() *slog.Logger {
	mu.RLock()
	if logger != nil {
		defer mu.RUnlock()
		return logger
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = slog.New(NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})))
	}
	return logger
}

// Debug logs a message at Debug level.
func Debug(msg string, args ...any) { GetLog().Debug(msg, args...) }

// Info logs a message at Info level.
func Info(msg string, args ...any) { GetLog().Info(msg, args...) }

// Warn logs a message at Warn level.
func Warn(msg string, args ...any) { GetLog().Warn(msg, args...) }

// Error logs a message at Error level.
func Error(msg string, args ...any) { GetLog().Error(msg, args...) }

// Fatalf logs a formatted message and exits.
func Fatalf(format string, args ...any) {
	GetLog().Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}

// Errorf logs the formatted message at Error level and returns it as an error.
// %w verbs are honoured.
func Errorf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	GetLog().Error(err.Error())
	return err
}
