// Package logger provides leveled diagnostic logging with structured
// fields. This is operator-facing output and entirely separate from the
// pipeline's run log artifact, which is a contract of its own.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents log severity levels.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Field is a key-value pair attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// F creates a new Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger is the interface for all logger implementations.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	WithFields(fields ...Field) Logger
}

// WriterLogger writes formatted log lines to an io.Writer.
type WriterLogger struct {
	w      io.Writer
	level  Level
	fields []Field
	mu     *sync.Mutex
}

// New creates a logger writing to w at the given level.
func New(w io.Writer, level Level) *WriterLogger {
	return &WriterLogger{w: w, level: level, mu: &sync.Mutex{}}
}

// NewStderr creates a logger writing to stderr.
func NewStderr(level Level) *WriterLogger {
	return New(os.Stderr, level)
}

func (l *WriterLogger) log(level Level, msg string, fields ...Field) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	stamp := time.Now().Format("2006-01-02 15:04:05")
	fieldStr := ""
	for _, f := range append(l.fields, fields...) {
		fieldStr += fmt.Sprintf(" %s=%v", f.Key, f.Value)
	}
	fmt.Fprintf(l.w, "[%s] %s: %s%s\n", stamp, level.String(), msg, fieldStr)
}

func (l *WriterLogger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields...) }
func (l *WriterLogger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields...) }
func (l *WriterLogger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields...) }
func (l *WriterLogger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields...) }

func (l *WriterLogger) WithFields(fields ...Field) Logger {
	return &WriterLogger{
		w:      l.w,
		level:  l.level,
		fields: append(append([]Field{}, l.fields...), fields...),
		mu:     l.mu,
	}
}

// NoopLogger discards everything.
type NoopLogger struct{}

// NewNoopLogger creates a logger that discards all output.
func NewNoopLogger() *NoopLogger { return &NoopLogger{} }

func (NoopLogger) Debug(string, ...Field)       {}
func (NoopLogger) Info(string, ...Field)        {}
func (NoopLogger) Warn(string, ...Field)        {}
func (NoopLogger) Error(string, ...Field)       {}
func (n NoopLogger) WithFields(...Field) Logger { return n }
