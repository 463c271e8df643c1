// Package logger holds the process-wide zap logger.
package logger

import (
	"os"
	"strings"

	"github.com/cyphera/gator-permissions/internal/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the global logger. It discards everything until initialised.
var Log = zap.NewNop()

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level       string `json:"level"`
	Stage       string `json:"stage"`
	EnableJSON  bool   `json:"enable_json"`
	EnableColor bool   `json:"enable_color"`
}

var levels = map[string]zapcore.Level{
	"debug":              zapcore.DebugLevel,
	"info":               zapcore.InfoLevel,
	"warn":               zapcore.WarnLevel,
	"warning":            zapcore.WarnLevel,
	constants.ErrorLevel: zapcore.ErrorLevel,
	"fatal":              zapcore.FatalLevel,
}

// InitLogger configures the logger for stage, reading the level from LOG_LEVEL.
// prod logs JSON; every other stage logs colored console lines.
func InitLogger(stage string) {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	InitLoggerWithConfig(LoggerConfig{
		Level:       level,
		Stage:       stage,
		EnableJSON:  stage == constants.ProdEnvironment,
		EnableColor: stage != constants.ProdEnvironment,
	})
}

// InitLoggerWithConfig replaces the global logger. The test stage gets a no-op logger.
func InitLoggerWithConfig(config LoggerConfig) {
	if config.Stage == constants.TestEnvironment {
		Log = zap.NewNop()
		return
	}

	built, err := newZapConfig(config).Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	Log = built
}

func newZapConfig(config LoggerConfig) zap.Config {
	level := ParseLevel(config.Level)

	var zapConfig zap.Config
	if config.Stage == constants.ProdEnvironment || config.EnableJSON {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.TimeKey = "timestamp"
		zapConfig.EncoderConfig.MessageKey = "message"
		zapConfig.InitialFields = map[string]interface{}{
			"service": constants.ServiceName,
			"stage":   config.Stage,
		}
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		if config.EnableColor {
			zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		zapConfig.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	}

	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.DisableStacktrace = config.Stage == constants.ProdEnvironment && level > zapcore.DebugLevel
	return zapConfig
}

// ParseLevel maps a textual level to a zap level, defaulting to info
func ParseLevel(level string) zapcore.Level {
	if parsed, ok := levels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return parsed
	}
	return zapcore.InfoLevel
}

// Component returns a child logger tagged with the emitting component.
// Loggers taken before initialisation stay no-op.
func Component(name string) *zap.Logger {
	return Log.With(zap.String("component", name))
}

// Error logs at error level on the global logger
func Error(msg string, fields ...zapcore.Field) {
	Log.Error(msg, fields...)
}

// Fatal logs at fatal level and exits
func Fatal(msg string, fields ...zapcore.Field) {
	Log.Fatal(msg, fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	return Log.Sync()
}
