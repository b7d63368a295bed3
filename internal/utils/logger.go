package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

// ParseLevel maps a config value to a Level. Unknown values fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

type Logger struct {
	file   *os.File
	logger *log.Logger
	level  Level
}

// NewLogger writes to stdout and, when dir is not empty, to a timestamped file
// under dir/<name>.
func NewLogger(name, dir, level string) (*Logger, error) {
	var out io.Writer = os.Stdout
	var file *os.File

	if dir != "" {
		sanitized := strings.ReplaceAll(strings.ToLower(name), " ", "_")

		logDir := filepath.Join(dir, sanitized)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		timestamp := time.Now().Format("2006-01-02_15-04-05")
		logPath := filepath.Join(logDir, fmt.Sprintf("%s_%s.log", sanitized, timestamp))

		f, err := os.Create(logPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		file = f
		out = io.MultiWriter(os.Stdout, f)
	}

	return NewLoggerWithWriter(out, level, file), nil
}

// NewLoggerWithWriter builds a Logger on an arbitrary writer. closer may be nil.
func NewLoggerWithWriter(w io.Writer, level string, closer *os.File) *Logger {
	return &Logger{
		file:   closer,
		logger: log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds),
		level:  ParseLevel(level),
	}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return NewLoggerWithWriter(io.Discard, "error", nil)
}

func (l *Logger) LogInfo(format string, v ...interface{}) {
	l.log(LevelInfo, "INFO", format, v...)
}

func (l *Logger) LogError(format string, v ...interface{}) {
	l.log(LevelError, "ERROR", format, v...)
}

func (l *Logger) LogDebug(format string, v ...interface{}) {
	l.log(LevelDebug, "DEBUG", format, v...)
}

func (l *Logger) log(level Level, label string, format string, v ...interface{}) {
	if l == nil || level < l.level {
		return
	}
	message := fmt.Sprintf(format, v...)
	l.logger.Printf("[%s] %s", label, message)
}

func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
