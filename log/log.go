package log

import (
	"fmt"
	"io"
	"os"
)

// output is a structure for std logs.
type output struct {
	std     io.Writer
	message string
}

var globalLogger *logger

// Init inits global logger.
func Init(level string, json bool) {
	globalLogger = newLogger(level, json, os.Stdout, os.Stderr)
}

// logLevel is the level of Logger.
type logLevel int

const (
	levelDebug logLevel = iota
	levelInfo
	levelWarning
	levelError
)

// Levels lists the accepted level names.
var Levels = []string{"debug", "info", "warning", "error"}

// String returns the string representation of logLevel.
func (l logLevel) String() string {
	switch l {
	case levelInfo:
		return ""
	case levelError:
		return "ERROR "
	case levelWarning:
		return "WARNING "
	case levelDebug:
		return "DEBUG "
	default:
		return "UNKNOWN "
	}
}

// levelFromString returns logLevel for given string. It
// return `levelInfo` as a default.
func levelFromString(s string) logLevel {
	switch s {
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warning":
		return levelWarning
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// logger is a structure for logging messages.
type logger struct {
	donech chan struct{}
	// outputCh is used to synchronize writes to standard output. Multi-line
	// logging is not possible if all workers print logs at the same time.
	outputCh chan output
	json     bool
	level    logLevel
	stdout   io.Writer
	stderr   io.Writer
}

// newLogger creates new logger.
func newLogger(level string, json bool, stdout, stderr io.Writer) *logger {
	logger := &logger{
		donech:   make(chan struct{}),
		outputCh: make(chan output, 10000),
		json:     json,
		level:    levelFromString(level),
		stdout:   stdout,
		stderr:   stderr,
	}
	go logger.out()
	return logger
}

// printf prints message according to the given level, message and std mode.
func (l *logger) printf(level logLevel, message Message, std io.Writer) {
	if level < l.level {
		return
	}

	if l.json {
		l.outputCh <- output{
			message: message.JSON(),
			std:     std,
		}
	} else {
		l.outputCh <- output{
			message: fmt.Sprintf("%v%v", level, message.String()),
			std:     std,
		}
	}
}

// Debug prints message in debug mode.
func Debug(msg Message) {
	if globalLogger == nil {
		return
	}
	globalLogger.printf(levelDebug, msg, globalLogger.stdout)
}

// Info prints message in info mode.
func Info(msg Message) {
	if globalLogger == nil {
		return
	}
	globalLogger.printf(levelInfo, msg, globalLogger.stdout)
}

// Stat prints execution statistics regardless of the log level.
func Stat(msg Message) {
	if globalLogger == nil {
		return
	}
	message := msg.String()
	if globalLogger.json {
		message = msg.JSON()
	}
	globalLogger.outputCh <- output{message: message, std: globalLogger.stdout}
}

// Warning prints message in warning mode.
func Warning(msg Message) {
	if globalLogger == nil {
		return
	}
	globalLogger.printf(levelWarning, msg, globalLogger.stderr)
}

// Error prints message in error mode.
func Error(msg Message) {
	if globalLogger == nil {
		return
	}
	globalLogger.printf(levelError, msg, globalLogger.stderr)
}

// out listens for outputCh and logs messages.
func (l *logger) out() {
	defer close(l.donech)

	for output := range l.outputCh {
		_, _ = fmt.Fprintln(output.std, output.message)
	}
}

// Close closes logger and waits until every queued message is written.
func Close() {
	if globalLogger == nil {
		return
	}
	close(globalLogger.outputCh)
	<-globalLogger.donech
	globalLogger = nil
}
