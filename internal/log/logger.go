// Package log provides the process logger (console plus log file) and the
// persisted activity journal.
package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"time"
)

// FileName is the log file created inside the log directory.
const FileName = "solvesync.log"

// Logger writes output to both console and a log file.
type Logger struct {
	file    *os.File
	writer  io.Writer
	errDest io.Writer
}

// New creates a logger that writes to console and to solvesync.log in logDir.
// A nil console keeps output in the file only, which the MCP server needs
// because stdout carries the protocol.
func New(logDir string, console io.Writer) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, FileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := &Logger{file: file, writer: file, errDest: file}
	if console != nil {
		l.writer = io.MultiWriter(console, file)
		l.errDest = io.MultiWriter(os.Stderr, file)
	}
	return l, nil
}

// Printf writes a formatted message to console and log file.
func (l *Logger) Printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(l.writer, format, args...)
}

// Println writes a message to console and log file with a newline.
func (l *Logger) Println(args ...interface{}) {
	_, _ = fmt.Fprintln(l.writer, args...)
}

// Errorf writes a timestamped error message to stderr and log file.
func (l *Logger) Errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	_, _ = fmt.Fprintf(l.errDest, "[%s] %s\n", timestamp, msg)
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

var globalLogger *Logger

// Init initializes the global logger with console output on stdout.
// Also redirects Go's standard log package to the log file, so library
// notices (rate limits, store warnings) never interleave with CLI output.
func Init(logDir string) error {
	return initWith(logDir, os.Stdout)
}

// InitFileOnly initializes the global logger without console output.
func InitFileOnly(logDir string) error {
	return initWith(logDir, nil)
}

func initWith(logDir string, console io.Writer) error {
	logger, err := New(logDir, console)
	if err != nil {
		return err
	}
	globalLogger = logger

	stdlog.SetOutput(logger.file)
	stdlog.SetFlags(stdlog.Ldate | stdlog.Ltime)

	return nil
}

// Printf uses the global logger to print formatted output.
func Printf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Printf(format, args...)
	} else {
		fmt.Printf(format, args...)
	}
}

// Println uses the global logger to print output with newline.
func Println(args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Println(args...)
	} else {
		fmt.Println(args...)
	}
}

// Errorf uses the global logger to print formatted error output.
func Errorf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Errorf(format, args...)
	} else {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// Close closes the global logger.
func Close() error {
	if globalLogger != nil {
		return globalLogger.Close()
	}
	return nil
}
