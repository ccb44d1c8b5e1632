// Package logger wraps zerolog behind a small structured-logging API shared by
// every layer of the service.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration.
type Config struct {
	Level       string // debug, info, warn, error, fatal
	Format      string // json, console
	Output      io.Writer
	EnableColor bool
}

var globalLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Initialize configures the global logger.
func Initialize(cfg Config) {
	zerolog.SetGlobalLevel(parseLogLevel(cfg.Level))

	var output io.Writer = os.Stdout
	if cfg.Output != nil {
		output = cfg.Output
	}
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
			NoColor:    !cfg.EnableColor,
		}
	}

	globalLogger = zerolog.New(output).With().Timestamp().Logger()
	log.Logger = globalLogger
}

func parseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func withFields(event *zerolog.Event, fields []map[string]interface{}) *zerolog.Event {
	if len(fields) > 0 {
		for k, v := range fields[0] {
			event = event.Interface(k, v)
		}
	}
	return event
}

// Debug logs a debug message with optional structured fields.
func Debug(msg string, fields ...map[string]interface{}) {
	withFields(globalLogger.Debug(), fields).Msg(msg)
}

// Info logs an info message with optional structured fields.
func Info(msg string, fields ...map[string]interface{}) {
	withFields(globalLogger.Info(), fields).Msg(msg)
}

// Warn logs a warning message with optional structured fields.
func Warn(msg string, fields ...map[string]interface{}) {
	withFields(globalLogger.Warn(), fields).Msg(msg)
}

// Error logs an error message with optional structured fields.
func Error(msg string, err error, fields ...map[string]interface{}) {
	withFields(globalLogger.Error().Err(err), fields).Msg(msg)
}

// Fatal logs a fatal message and exits.
func Fatal(msg string, err error, fields ...map[string]interface{}) {
	withFields(globalLogger.Fatal().Err(err), fields).Msg(msg)
}

// Logger carries context fields that are attached to every entry it emits,
// such as the request id set by the logging middleware.
type Logger struct {
	base zerolog.Logger
}

// Get returns a logger backed by the current global configuration.
func Get() *Logger {
	return &Logger{base: globalLogger}
}

// WithContext returns a child logger with the given fields attached.
func (l *Logger) WithContext(fields map[string]interface{}) *Logger {
	ctx := l.base.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{base: ctx.Logger()}
}

// WithContext returns a global-logger child with the given fields attached.
func WithContext(fields map[string]interface{}) *Logger {
	return Get().WithContext(fields)
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	withFields(l.base.Debug(), fields).Msg(msg)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	withFields(l.base.Info(), fields).Msg(msg)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	withFields(l.base.Warn(), fields).Msg(msg)
}

func (l *Logger) Error(msg string, err error, fields ...map[string]interface{}) {
	withFields(l.base.Error().Err(err), fields).Msg(msg)
}

func (l *Logger) Fatal(msg string, err error, fields ...map[string]interface{}) {
	withFields(l.base.Fatal().Err(err), fields).Msg(msg)
}
