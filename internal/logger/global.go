package logger

import (
	"os"
	"strings"
	"sync/atomic"
)

var global atomic.Pointer[Logger]

func init() {
	l := NewDefault()
	configureFromEnv(l)
	global.Store(l)
}

// configureFromEnv applies LOG_LEVEL and LOG_FORMAT to l
func configureFromEnv(l *Logger) {
	if level, ok := ParseLevel(os.Getenv("LOG_LEVEL")); ok {
		l.SetLevel(level)
	}
	if format, ok := ParseFormat(os.Getenv("LOG_FORMAT")); ok {
		l.SetFormat(format)
	}
}

// ParseLevel parses a level name case-insensitively
func ParseLevel(level string) (LogLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG, true
	case "INFO":
		return INFO, true
	case "WARN", "WARNING":
		return WARN, true
	case "ERROR":
		return ERROR, true
	case "FATAL":
		return FATAL, true
	default:
		return INFO, false
	}
}

// ParseFormat parses "json" or "text" case-insensitively
func ParseFormat(format string) (LogFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONFormat, true
	case "text":
		return TextFormat, true
	default:
		return JSONFormat, false
	}
}

// Configure applies level and format names to the global logger. Unknown names are ignored.
func Configure(level, format string) {
	l := Global()
	if lv, ok := ParseLevel(level); ok {
		l.SetLevel(lv)
	}
	if f, ok := ParseFormat(format); ok {
		l.SetFormat(f)
	}
}

// Global returns the global logger instance
func Global() *Logger {
	return global.Load()
}

// SetGlobal replaces the global logger instance
func SetGlobal(l *Logger) {
	global.Store(l)
}

// Component is shorthand for Global().WithComponent(name)
func Component(name string) *Logger {
	return Global().WithComponent(name)
}

// Debug logs a debug message using the global logger
func Debug(message string, fields ...Fields) {
	Global().log(DEBUG, message, firstFields(fields), nil)
}

// Info logs an info message using the global logger
func Info(message string, fields ...Fields) {
	Global().log(INFO, message, firstFields(fields), nil)
}

// Warn logs a warning message using the global logger
func Warn(message string, fields ...Fields) {
	Global().log(WARN, message, firstFields(fields), nil)
}

// Error logs an error message using the global logger
func Error(message string, err error, fields ...Fields) {
	Global().log(ERROR, message, firstFields(fields), err)
}

// Fatal logs a fatal message using the global logger and exits
func Fatal(message string, err error, fields ...Fields) {
	Global().log(FATAL, message, firstFields(fields), err)
}
