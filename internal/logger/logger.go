// Package logger provides leveled structured logging.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var defaultLogger zerolog.Logger

func init() {
	// Usable before Init for early startup paths; Init reconfigures it.
	defaultLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Init initializes the default logger with the specified level and format.
// Format "text" writes human-readable console output, anything else JSON.
func Init(level string, format string) {
	var l zerolog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = zerolog.DebugLevel
	case "info":
		l = zerolog.InfoLevel
	case "warn":
		l = zerolog.WarnLevel
	case "error":
		l = zerolog.ErrorLevel
	default:
		l = zerolog.InfoLevel
	}

	var out zerolog.Logger
	if strings.ToLower(format) == "text" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		out = zerolog.New(os.Stderr)
	}
	defaultLogger = out.Level(l).With().Timestamp().Logger()
}

func Debug(format string, args ...interface{}) {
	defaultLogger.Debug().Msgf(format, args...)
}

func Info(format string, args ...interface{}) {
	defaultLogger.Info().Msgf(format, args...)
}

func Warn(format string, args ...interface{}) {
	defaultLogger.Warn().Msgf(format, args...)
}

func Error(format string, args ...interface{}) {
	defaultLogger.Error().Msgf(format, args...)
}

// Fatal logs the message and exits the process.
func Fatal(format string, args ...interface{}) {
	defaultLogger.Fatal().Msgf(format, args...)
}
