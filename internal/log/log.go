// Package log holds the process-wide zap logger.
package log

import (
	"io"
	"os"

	"github.com/pingcap/errors"
	pclog "github.com/pingcap/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	appLogger = Logger{zap.NewNop()}
	appLevel  = zap.NewAtomicLevel()
)

// Logger wraps the zap logger.
type Logger struct {
	*zap.Logger
}

// Zap returns the global logger.
func Zap() Logger {
	return appLogger
}

// Config serializes log related config in toml.
type Config struct {
	// One of "debug", "info", "warn", "error".
	Level string `toml:"level"`
	// One of "text" or "json".
	Format string `toml:"format"`
}

// DefaultConfig logs warnings and above as text.
func DefaultConfig() Config {
	return Config{Level: "warn", Format: "text"}
}

// InitAppLogger replaces the global logger. Output goes to w, or stderr when w
// is nil, so stdout stays free for generated code.
func InitAppLogger(cfg Config, w io.Writer) error {
	if cfg.Level == "" {
		cfg.Level = DefaultConfig().Level
	}
	if cfg.Format == "" {
		cfg.Format = DefaultConfig().Format
	}
	if w == nil {
		w = os.Stderr
	}
	sink := zapcore.AddSync(w)
	logger, props, err := pclog.InitLoggerWithWriteSyncer(&pclog.Config{
		Level:  cfg.Level,
		Format: cfg.Format,
	}, sink, sink)
	if err != nil {
		return errors.Trace(err)
	}
	appLogger = Logger{logger.WithOptions(zap.AddCallerSkip(1))}
	appLevel = props.Level
	return nil
}

// SetAppLogger installs logger directly, mostly for tests.
func SetAppLogger(logger *zap.Logger) {
	appLogger = Logger{logger}
}

// ChangeAppLogLevel changes the wrapped logger's log level.
func ChangeAppLogLevel(level zapcore.Level) {
	appLevel.SetLevel(level)
}

// Sync flushes buffered entries.
func Sync() error {
	return appLogger.Sync()
}

// Info wraps *zap.Logger's Info function.
func Info(msg string, fields ...zap.Field) {
	appLogger.Info(msg, fields...)
}

// Warn wraps *zap.Logger's Warn function.
func Warn(msg string, fields ...zap.Field) {
	appLogger.Warn(msg, fields...)
}

// Error wraps *zap.Logger's Error function.
func Error(msg string, fields ...zap.Field) {
	appLogger.Error(msg, fields...)
}

// Debug wraps *zap.Logger's Debug function.
func Debug(msg string, fields ...zap.Field) {
	appLogger.Debug(msg, fields...)
}
