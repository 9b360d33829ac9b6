// Package obs carries the ambient stack: a structured leveled logger
// and a set of diagnostic event counters.
package obs

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel is the severity of a log message.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// Logger provides structured, leveled, component-tagged logging.
type Logger struct {
	mu        sync.Mutex
	level     LogLevel
	component string
	output    io.Writer
}

// LoggerConfig configures a logger instance; zero-value fields fall
// back to sensible defaults in NewLogger.
type LoggerConfig struct {
	Level     LogLevel
	Component string
	Output    io.Writer
}

// NewLogger creates a new logger, applying defaults for unset fields.
func NewLogger(config LoggerConfig) *Logger {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Logger{
		level:     config.Level,
		component: config.Component,
		output:    config.Output,
	}
}

// DefaultLogger creates an INFO-level logger for component.
func DefaultLogger(component string) *Logger {
	return NewLogger(LoggerConfig{Level: INFO, Component: component})
}

// Field is a key-value pair attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

func (f Field) format() string {
	switch v := f.Value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case error:
		return fmt.Sprintf("%q", v.Error())
	default:
		return fmt.Sprintf("%v", v)
	}
}

func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }
func Uint(key string, value uint) Field     { return Field{Key: key, Value: value} }
func String(key, value string) Field        { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field     { return Field{Key: key, Value: value} }

func (l *Logger) Debug(msg string, fields ...Field) { l.log(DEBUG, msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(INFO, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(WARN, msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(ERROR, msg, fields...) }

func (l *Logger) log(level LogLevel, msg string, fields ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	var b strings.Builder
	b.WriteString("[")
	b.WriteString(time.Now().Format("15:04:05.000"))
	b.WriteString("] [")
	b.WriteString(fmt.Sprintf("%-5s", levelNames[level]))
	b.WriteString("] ")
	if l.component != "" {
		b.WriteString("[")
		b.WriteString(l.component)
		b.WriteString("] ")
	}
	b.WriteString(msg)
	for _, field := range fields {
		b.WriteString(" ")
		b.WriteString(field.Key)
		b.WriteString("=")
		b.WriteString(field.format())
	}
	b.WriteString("\n")

	l.output.Write([]byte(b.String()))
}
