package voicefx

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// FXLogger wraps zerolog for structured logging
type FXLogger struct {
	logger zerolog.Logger
}

// LogConfig represents the configuration for logging
type LogConfig struct {
	Level  string
	Pretty bool
	Output io.Writer
}

// DefaultLogConfig returns a default logging configuration
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Level:  "info",
		Pretty: true,
		Output: os.Stdout,
	}
}

// NewFXLogger creates a new structured logger
func NewFXLogger(config *LogConfig) *FXLogger {
	if config == nil {
		config = DefaultLogConfig()
	}

	zerolog.TimeFieldFormat = time.RFC3339

	var logger zerolog.Logger
	if config.Pretty {
		logger = log.Output(zerolog.ConsoleWriter{
			Out:        config.Output,
			TimeFormat: time.Kitchen,
		})
	} else {
		logger = zerolog.New(config.Output)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level).With().Timestamp().Logger()

	return &FXLogger{logger: logger}
}

// WithComponent adds a component field to the logger
func (l *FXLogger) WithComponent(component string) *FXLogger {
	return &FXLogger{
		logger: l.logger.With().Str("component", component).Logger(),
	}
}

// WithField adds a field to the logger
func (l *FXLogger) WithField(key string, value interface{}) *FXLogger {
	return &FXLogger{
		logger: l.logger.With().Interface(key, value).Logger(),
	}
}

// WithFields adds multiple fields to the logger
func (l *FXLogger) WithFields(fields map[string]interface{}) *FXLogger {
	return &FXLogger{
		logger: l.logger.With().Fields(fields).Logger(),
	}
}

// WithError adds an error field to the logger
func (l *FXLogger) WithError(err error) *FXLogger {
	return &FXLogger{
		logger: l.logger.With().Err(err).Logger(),
	}
}

func (l *FXLogger) Debug(msg string) { l.logger.Debug().Msg(msg) }

func (l *FXLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

func (l *FXLogger) Info(msg string) { l.logger.Info().Msg(msg) }

func (l *FXLogger) Infof(format string, args ...interface{}) {
	l.logger.Info().Msgf(format, args...)
}

func (l *FXLogger) Warn(msg string) { l.logger.Warn().Msg(msg) }

func (l *FXLogger) Warnf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

func (l *FXLogger) Error(msg string) { l.logger.Error().Msg(msg) }

func (l *FXLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

func (l *FXLogger) Fatal(msg string) { l.logger.Fatal().Msg(msg) }

// LogFXError logs an FXError with its code and details as structured fields.
func (l *FXLogger) LogFXError(err *FXError) {
	l.logger.Error().
		Str("error_code", err.Code).
		Fields(err.Details).
		Msg(err.Message)
}

// Global logger instance
var globalLogger = NewFXLogger(DefaultLogConfig())

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *FXLogger {
	return globalLogger
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger *FXLogger) {
	globalLogger = logger
}
