package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps "debug", "info", "warn" and "error" to a Level; anything
// else is info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

// Logger provides leveled, timestamped logging throughout the application.
type Logger struct {
	level Level
	out   *log.Logger
	err   *log.Logger
	color bool
}

// NewLogger creates a Logger writing info and below to stdout and errors to
// stderr.
func NewLogger() *Logger {
	return &Logger{
		level: LevelDebug,
		out:   log.New(os.Stdout, "", 0),
		err:   log.New(os.Stderr, "", 0),
		color: true,
	}
}

// NewLoggerTo creates an uncoloured Logger writing every level to w.
func NewLoggerTo(w io.Writer, level Level) *Logger {
	l := log.New(w, "", 0)
	return &Logger{level: level, out: l, err: l}
}

// SetLevel drops messages below level.
func (l *Logger) SetLevel(level Level) {
	l.level = level
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) write(level Level, tag, ansi, format string, args ...any) {
	if l == nil || level < l.level {
		return
	}
	if l.color {
		tag = ansi + tag + "\033[0m"
	}
	dst := l.out
	if level == LevelError {
		dst = l.err
	}
	dst.Printf("[%s] %s %s", l.timestamp(), tag, fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...any) {
	l.write(LevelInfo, "INFO ", "\033[32m", format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.write(LevelWarn, "WARN ", "\033[33m", format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.write(LevelError, "ERROR", "\033[31m", format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.write(LevelDebug, "DEBUG", "\033[36m", format, args...)
}
