// BYZRA ⸻ internal/daemon/logger.go
// levelled logging for the daemon, the server and the cli

package daemon

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// severity of log entries
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

// parses "debug", "info", "warning"/"warn", "error"; anything else is info
func ParseLevel(s string) LogLevel {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return LevelInfo
	}
	switch lvl {
	case logrus.TraceLevel, logrus.DebugLevel:
		return LevelDebug
	case logrus.WarnLevel:
		return LevelWarning
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return LevelError
	}
	return LevelInfo
}

func (l LogLevel) toLogrus() logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarning:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	}
	return logrus.InfoLevel
}

// activity logging, to a file or a stream
type Logger struct {
	mu          sync.Mutex
	log         *logrus.Logger
	logFile     *os.File
	initialized bool
	path        string
}

func newLogrus(w io.Writer, level LogLevel) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level.toLogrus())
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

// file logger, appending; the directory is created if needed
func NewLogger(logPath string, level LogLevel) (*Logger, error) {
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		log:         newLogrus(logFile, level),
		logFile:     logFile,
		initialized: true,
		path:        logPath,
	}, nil
}

// stream logger (stderr for serve); Rotate is not available
func NewStreamLogger(w io.Writer, level LogLevel) *Logger {
	return &Logger{
		log:         newLogrus(w, level),
		initialized: true,
	}
}

// writes a message at the given level
func (l *Logger) Log(level LogLevel, message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.initialized {
		return fmt.Errorf("logger not initialized")
	}
	l.log.Log(level.toLogrus(), message)
	return nil
}

// debug logs
func (l *Logger) Debug(message string) error {
	return l.Log(LevelDebug, message)
}

// info logs
func (l *Logger) Info(message string) error {
	return l.Log(LevelInfo, message)
}

// warning logs
func (l *Logger) Warning(message string) error {
	return l.Log(LevelWarning, message)
}

// error logs
func (l *Logger) Error(message string) error {
	return l.Log(LevelError, message)
}

// close properly
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeLocked()
}

func (l *Logger) closeLocked() error {
	if !l.initialized {
		return nil
	}
	l.initialized = false
	if l.logFile == nil {
		return nil
	}
	err := l.logFile.Close()
	l.logFile = nil
	return err
}

// new log file and archives the old one
func (l *Logger) Rotate() error {
	l.mu.Lock()
	if !l.initialized || l.path == "" {
		l.mu.Unlock()
		return fmt.Errorf("logger not initialized")
	}

	if err := l.closeLocked(); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("failed to close log file: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	newPath := fmt.Sprintf("%s.%s", l.path, timestamp)
	if err := os.Rename(l.path, newPath); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	logFile, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		l.mu.Unlock()
		return fmt.Errorf("failed to create new log file: %w", err)
	}

	l.logFile = logFile
	l.log.SetOutput(logFile)
	l.initialized = true
	l.mu.Unlock()

	// log rotation
	return l.Info(fmt.Sprintf("Log rotated, previous log saved as %s", newPath))
}
