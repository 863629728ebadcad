package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// Level is a log severity level.
type Level int

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

var (
	mu       sync.RWMutex
	minLevel = InfoLevel
)

// ParseLevel converts a level name to a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return TraceLevel, nil
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal", "panic":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level: %s", name)
	}
}

// SetLevel sets the minimum level that will be emitted.
func SetLevel(l Level) {
	mu.Lock()
	minLevel = l
	mu.Unlock()
}

func enabled(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= minLevel
}

func output(tag, format string, v ...interface{}) {
	log.Printf("["+tag+"] "+format, v...)
}

// Trace logs at trace level.
func Trace(format string, v ...interface{}) {
	if enabled(TraceLevel) {
		output("TRACE", format, v...)
	}
}

// Debug logs at debug level.
func Debug(format string, v ...interface{}) {
	if enabled(DebugLevel) {
		output("DEBUG", format, v...)
	}
}

// Info logs at info level.
func Info(format string, v ...interface{}) {
	if enabled(InfoLevel) {
		output("INFO", format, v...)
	}
}

// Warn logs at warn level.
func Warn(format string, v ...interface{}) {
	if enabled(WarnLevel) {
		output("WARN", format, v...)
	}
}

// Error logs at error level.
func Error(format string, v ...interface{}) {
	if enabled(ErrorLevel) {
		output("ERROR", format, v...)
	}
}

// Fatal logs at fatal level and exits.
func Fatal(format string, v ...interface{}) {
	output("FATAL", format, v...)
	os.Exit(1)
}
