package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

var levelColors = [...]string{
	"\033[36m", // DEBUG cyan
	"\033[32m", // INFO green
	"\033[33m", // WARN yellow
	"\033[31m", // ERROR red
	"\033[35m", // FATAL magenta
}

const (
	reset = "\033[0m"
	gray  = "\033[90m"
)

// ParseLevel maps a LOG_LEVEL value to a Level. Unknown values report
// false and the caller keeps its default.
func ParseLevel(s string) (Level, bool) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), true
		}
	}
	return INFO, false
}

type Logger struct {
	level     Level
	out       io.Writer
	service   string
	useColors bool
}

// New returns a logger tagged with the component name. LOG_LEVEL
// controls verbosity (default INFO) and LOG_COLORS=false disables the
// ANSI escapes for log collectors.
func New(service string) *Logger {
	level := INFO
	if parsed, ok := ParseLevel(os.Getenv("LOG_LEVEL")); ok {
		level = parsed
	}

	return &Logger{
		level:     level,
		out:       os.Stdout,
		service:   service,
		useColors: os.Getenv("LOG_COLORS") != "false",
	}
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	var buf strings.Builder

	buf.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	buf.WriteString(" ")

	if l.useColors {
		buf.WriteString(levelColors[level])
	}
	fmt.Fprintf(&buf, "%-5s", levelNames[level])
	if l.useColors {
		buf.WriteString(reset)
	}
	buf.WriteString(" ")

	if l.service != "" {
		if l.useColors {
			buf.WriteString(gray)
		}
		buf.WriteString("[")
		buf.WriteString(l.service)
		buf.WriteString("]")
		if l.useColors {
			buf.WriteString(reset)
		}
		buf.WriteString(" ")
	}

	fmt.Fprintf(&buf, format, args...)
	fmt.Fprintln(l.out, buf.String())

	if level == FATAL {
		os.Exit(1)
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log(FATAL, format, args...)
}

// SetStdLog routes the standard log package through this logger so
// third-party output shares the same format.
func (l *Logger) SetStdLog() {
	log.SetOutput(&stdLogWriter{logger: l})
	log.SetFlags(0)
}

type stdLogWriter struct {
	logger *Logger
}

func (w *stdLogWriter) Write(p []byte) (n int, err error) {
	// %s keeps literal percent signs in forwarded messages intact.
	w.logger.Info("%s", strings.TrimSpace(string(p)))
	return len(p), nil
}
