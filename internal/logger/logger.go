package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Logger handles leveled logging with optional file output
type Logger struct {
	Verbose   bool
	writer    io.Writer
	errWriter io.Writer
	mu        sync.Mutex
	fileLog   *os.File
	tags      map[string]string
}

// New creates a new Logger instance
func New(verbose bool) *Logger {
	l := &Logger{Verbose: verbose}
	l.SetOutput(os.Stdout, os.Stderr)
	return l
}

// SetOutput redirects console output. Level tags are coloured only when the
// writer is a terminal.
func (l *Logger) SetOutput(out, errOut io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.writer = out
	l.errWriter = errOut
	l.tags = levelTags(out, errOut)
}

func levelTags(out, errOut io.Writer) map[string]string {
	re := lipgloss.NewRenderer(out)
	errRe := lipgloss.NewRenderer(errOut)
	return map[string]string{
		"DEBUG": re.NewStyle().Faint(true).Render("[DEBUG]"),
		"WARN":  re.NewStyle().Foreground(lipgloss.Color("3")).Render("[WARN]"),
		"ERROR": errRe.NewStyle().Bold(true).Foreground(lipgloss.Color("1")).Render("[ERROR]"),
	}
}

// SetFileLog enables logging to a file
func (l *Logger) SetFileLog(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.fileLog = f
	return nil
}

// FileLogName returns a per-run log file name inside dir.
func FileLogName(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("music-agent-%s.log", now.Format("20060102-150405")))
}

// Close closes the log file if open
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileLog != nil {
		err := l.fileLog.Close()
		l.fileLog = nil
		return err
	}
	return nil
}

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.log("INFO", format, args...)
}

// Debug logs detailed messages only in verbose mode
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.Verbose {
		l.log("DEBUG", format, args...)
	} else {
		// Always log debug to file even in non-verbose mode
		l.logToFile("DEBUG", format, args...)
	}
}

// Error logs error messages to stderr
func (l *Logger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.errWriter, "%s %s\n", l.tags["ERROR"], msg)

	if l.fileLog != nil {
		fmt.Fprintf(l.fileLog, "[ERROR] %s\n", msg)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log("WARN", format, args...)
}

// log handles the actual logging
func (l *Logger) log(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if level == "INFO" {
		fmt.Fprintln(l.writer, msg)
	} else {
		fmt.Fprintf(l.writer, "%s %s\n", l.tags[level], msg)
	}

	// Always write to file if available
	if l.fileLog != nil {
		if level == "INFO" {
			fmt.Fprintln(l.fileLog, msg)
		} else {
			fmt.Fprintf(l.fileLog, "[%s] %s\n", level, msg)
		}
	}
}

// logToFile writes only to file
func (l *Logger) logToFile(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileLog != nil {
		fmt.Fprintf(l.fileLog, "[%s] %s\n", level, fmt.Sprintf(format, args...))
	}
}
