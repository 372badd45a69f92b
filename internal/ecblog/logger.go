// Package ecblog provides a small logger wrapper shared by the CLI and the
// build orchestrator: verbosity-gated info lines, error lines always
// printed, no structured logging library pulled in — the surface here
// (a dozen call sites, one process) never grows into something that
// needs field-based logging.
package ecblog

import (
	"fmt"
	"log"
	"os"
	"time"
)

// Logger wraps the standard library logger with a verbosity gate.
type Logger struct {
	impl              *log.Logger
	fileName          string
	verbosity         int
	duplicateToStderr bool
}

var std *Logger

// Init installs the package-level logger used by Info/Error/Debug.
// logFile == "" or "stderr" logs to stderr. verbosity gates Info/Debug;
// Error is always printed. When logFile is a real file and
// duplicateToStderr is set, Error additionally writes to stderr, so a
// failure is visible on the terminal even when the main log is a file.
func Init(logFile string, verbosity int, duplicateToStderr bool) (*Logger, error) {
	var impl *log.Logger

	if logFile != "" && logFile != "stderr" {
		out, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", logFile, err)
		}
		impl = log.New(out, "", 0)
	} else {
		impl = log.New(os.Stderr, "", 0)
	}

	l := &Logger{impl: impl, fileName: logFile, verbosity: verbosity, duplicateToStderr: duplicateToStderr}
	std = l
	return l, nil
}

func formatLine(prefix string, v ...interface{}) string {
	return fmt.Sprintf("%s %s %s", time.Now().Format("2006-01-02 15:04:05"), prefix, fmt.Sprintln(v...))
}

// Info prints v if verbosity >= level. Level 0 is the default tier.
func (l *Logger) Info(level int, v ...interface{}) {
	if l == nil || l.impl == nil || l.verbosity < level {
		return
	}
	_ = l.impl.Output(0, formatLine("INFO", v...))
}

// Error always prints, regardless of verbosity.
func (l *Logger) Error(v ...interface{}) {
	if l == nil || l.impl == nil {
		return
	}
	_ = l.impl.Output(0, formatLine("ERROR", v...))
	if l.duplicateToStderr {
		_, _ = fmt.Fprint(os.Stderr, formatLine("[ecbuild]", v...))
	}
}

// Debug prints only at verbosity >= 2.
func (l *Logger) Debug(v ...interface{}) {
	l.Info(2, v...)
}

// RotateLogFile reopens the log file at its original path, for use
// after an external log-rotation tool (e.g. logrotate) has renamed it
// out from under the open file descriptor. A no-op when logging to
// stderr.
func (l *Logger) RotateLogFile() error {
	if l == nil || l.fileName == "" || l.fileName == "stderr" {
		return nil
	}
	out, err := os.OpenFile(l.fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return fmt.Errorf("reopen log file %s: %w", l.fileName, err)
	}
	l.impl = log.New(out, "", 0)
	return nil
}

func Info(level int, v ...interface{}) { std.Info(level, v...) }
func Error(v ...interface{})           { std.Error(v...) }
func Debug(v ...interface{})           { std.Debug(v...) }
func RotateLogFile() error             { return std.RotateLogFile() }
