// Package logger is a leveled logger with caller prefixes and optional ANSI
// colors, writing to the console, a file, or both.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log message.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelColors = map[Level]string{
	DEBUG: "\033[36m",
	INFO:  "\033[32m",
	WARN:  "\033[33m",
	ERROR: "\033[31m",
	FATAL: "\033[35m",
}

var levelPrefixes = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO ",
	WARN:  "WARN ",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

// ParseLevel maps a config string to a Level. Unknown strings mean INFO.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "fatal":
		return FATAL
	default:
		return INFO
	}
}

func (l Level) String() string {
	return strings.TrimSpace(levelPrefixes[l])
}

// Logger writes leveled messages. It is safe for concurrent use, but must
// not be called from the audio callback.
type Logger struct {
	mu        sync.Mutex
	level     Level
	logger    *log.Logger
	file      *os.File
	useColors bool
	exit      func(int)
}

// New creates a console logger at the given level.
func New(level string) *Logger {
	l := &Logger{
		level:     ParseLevel(level),
		logger:    log.New(os.Stdout, "", 0),
		useColors: true,
		exit:      os.Exit,
	}
	if fi, err := os.Stdout.Stat(); err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		l.useColors = false
	}
	return l
}

// NewWithFile creates a logger that writes to the console and to path. An
// empty path yields a console-only logger.
func NewWithFile(level, path string) (*Logger, error) {
	l := New(level)
	if path == "" {
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logger: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logger: open log file: %w", err)
	}
	l.logger.SetOutput(io.MultiWriter(os.Stdout, f))
	l.file = f
	l.useColors = false
	return l, nil
}

func (l *Logger) output(level Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	}
	prefix := fmt.Sprintf("%s [%s] %s:%d:", time.Now().Format("2006/01/02 15:04:05"),
		levelPrefixes[level], filepath.Base(file), line)
	if l.useColors {
		prefix = levelColors[level] + prefix + "\033[0m"
	}
	l.logger.Println(prefix, msg)

	if level == FATAL {
		if l.file != nil {
			l.file.Close()
			l.file = nil
		}
		l.exit(1)
	}
}

// Debugf logs at DEBUG.
func (l *Logger) Debugf(format string, v ...interface{}) { l.output(DEBUG, fmt.Sprintf(format, v...)) }

// Infof logs at INFO.
func (l *Logger) Infof(format string, v ...interface{}) { l.output(INFO, fmt.Sprintf(format, v...)) }

// Warnf logs at WARN.
func (l *Logger) Warnf(format string, v ...interface{}) { l.output(WARN, fmt.Sprintf(format, v...)) }

// Errorf logs at ERROR.
func (l *Logger) Errorf(format string, v ...interface{}) { l.output(ERROR, fmt.Sprintf(format, v...)) }

// Fatalf logs at FATAL and exits the process.
func (l *Logger) Fatalf(format string, v ...interface{}) { l.output(FATAL, fmt.Sprintf(format, v...)) }

// Info logs its operands at INFO.
func (l *Logger) Info(v ...interface{}) { l.output(INFO, fmt.Sprint(v...)) }

// Warn logs its operands at WARN.
func (l *Logger) Warn(v ...interface{}) { l.output(WARN, fmt.Sprint(v...)) }

// SetLevel changes the minimum level.
func (l *Logger) SetLevel(level string) {
	l.mu.Lock()
	l.level = ParseLevel(level)
	l.mu.Unlock()
}

// Level returns the minimum level.
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetOutput redirects output and disables colors.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	l.logger.SetOutput(w)
	l.useColors = false
	l.mu.Unlock()
}

// Close closes the log file, if any.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}
