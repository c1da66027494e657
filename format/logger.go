package format

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

// String returns the tag used for the level in log output.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is a small leveled logger for CLI tools. Warnings and errors go to
// the error writer, everything else to the output writer. Level tags are
// colorized when the corresponding stream is a terminal.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	err   io.Writer
	level LogLevel
}

// NewLogger returns a logger writing to out and err at LevelInfo.
func NewLogger(out, err io.Writer) *Logger {
	return &Logger{out: out, err: err, level: LevelInfo}
}

// Default returns a logger bound to process stdout/stderr.
func Default() *Logger {
	return NewLogger(os.Stdout, os.Stderr)
}

// SetLevel changes the minimum level that is emitted.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the current minimum level.
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

var levelColors = map[LogLevel]*color.Color{
	LevelDebug:   color.New(color.FgMagenta),
	LevelInfo:    color.New(color.FgCyan),
	LevelWarning: color.New(color.FgYellow),
	LevelError:   color.New(color.FgRed, color.Bold),
}

func (l *Logger) log(level LogLevel, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	w := l.out
	if level >= LevelWarning {
		w = l.err
	}
	tag := level.String()
	if c, ok := levelColors[level]; ok {
		tag = c.Sprint(tag)
	}
	fmt.Fprintf(w, "[%s] %s\n", tag, fmt.Sprintf(format, args...))
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, format, args...) }

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) { l.log(LevelInfo, format, args...) }

// Warnf logs at warning level.
func (l *Logger) Warnf(format string, args ...any) { l.log(LevelWarning, format, args...) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, format, args...) }
