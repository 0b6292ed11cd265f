package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. It starts out discarding everything so
// packages can log before Init has run (tests, early command setup).
var Logger = newDiscard()

var logFile *os.File

func newDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Init configures the logger to write to path at the given level.
// The terminal belongs to the TUI, so logs never go to stdout.
func Init(level, path string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	l.SetLevel(lvl)

	if path == "" {
		l.SetOutput(io.Discard)
		Logger = l
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.SetOutput(f)
	Close()
	logFile = f
	Logger = l
	return nil
}

// Close closes the log file opened by Init, if any
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
