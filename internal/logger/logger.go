package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Level represents the severity of a log message
type Level int

const (
	// LevelDebug for detailed troubleshooting
	LevelDebug Level = iota
	// LevelInfo for general operational entries
	LevelInfo
	// LevelWarn for non-critical issues
	LevelWarn
	// LevelError for errors that should be addressed
	LevelError
)

var (
	// Default logger
	logger = newLogger(os.Stderr)
	// Written by logging/setLevel while requests are being logged
	logLevel atomic.Int32
)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Initialize sets up the logger with the specified level.
// Logs go to stderr so stdout stays free for the stdio transport.
func Initialize(level string) {
	logger = newLogger(writer())
	setLogLevel(level)
}

// writer returns the destination for log output based on configuration
func writer() io.Writer {
	val := os.Getenv("MCP_DISABLE_LOGGING")
	if strings.ToLower(val) == "true" || val == "1" {
		return io.Discard
	}
	return os.Stderr
}

// setLogLevel sets the log level from a string
func setLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		storeLevel(LevelDebug)
	case "warn", "warning":
		storeLevel(LevelWarn)
	case "error":
		storeLevel(LevelError)
	default:
		storeLevel(LevelInfo)
	}
}

func storeLevel(level Level) {
	logLevel.Store(int32(level))
	logger.SetLevel(toLogrus(level))
}

func toLogrus(level Level) logrus.Level {
	switch level {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// SetMCPLevel applies one of the MCP logging levels (debug, info, notice,
// warning, error, critical, alert, emergency) to the process logger.
// Levels more severe than error collapse onto error.
func SetMCPLevel(level string) {
	switch level {
	case "debug":
		setLogLevel("debug")
	case "info", "notice":
		setLogLevel("info")
	case "warning":
		setLogLevel("warn")
	case "error", "critical", "alert", "emergency":
		setLogLevel("error")
	}
}

// GetLevel returns the current logger level
func GetLevel() Level {
	return Level(logLevel.Load())
}

// logMessage logs a message with the given level
func logMessage(level Level, format string, v ...interface{}) {
	if level < GetLevel() {
		return
	}

	message := fmt.Sprintf(format, v...)
	switch level {
	case LevelDebug:
		logger.Debug(message)
	case LevelInfo:
		logger.Info(message)
	case LevelWarn:
		logger.Warn(message)
	case LevelError:
		logger.Error(message)
	}
}

// Debug logs a debug message
func Debug(format string, v ...interface{}) {
	logMessage(LevelDebug, format, v...)
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	logMessage(LevelInfo, format, v...)
}

// Warn logs a warning message
func Warn(format string, v ...interface{}) {
	logMessage(LevelWarn, format, v...)
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	logMessage(LevelError, format, v...)
}

// ErrorWithStack logs an error with a stack trace
func ErrorWithStack(err error) {
	if err == nil {
		return
	}
	logMessage(LevelError, "%v\n%s", err, debug.Stack())
}

// WithFields returns a logrus entry carrying structured fields
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return logger.WithFields(logrus.Fields(fields))
}

// RequestLog logs details of an HTTP request
func RequestLog(method, url, sessionID, body string) {
	Debug("HTTP Request: %s %s", method, url)
	if sessionID != "" {
		Debug("Session ID: %s", sessionID)
	}
	if body != "" {
		Debug("Request Body: %s", body)
	}
}

// ResponseLog logs details of an HTTP response
func ResponseLog(statusCode int, sessionID, body string) {
	Debug("HTTP Response: Status %d", statusCode)
	if sessionID != "" {
		Debug("Session ID: %s", sessionID)
	}
	if body != "" {
		Debug("Response Body: %s", body)
	}
}

// RequestResponseLog logs a JSON-RPC request and its response together
func RequestResponseLog(method, sessionID, request, response string) {
	if GetLevel() > LevelDebug {
		return
	}
	WithFields(map[string]interface{}{
		"method":  method,
		"session": sessionID,
	}).Debugf("request=%s response=%s", request, response)
}
