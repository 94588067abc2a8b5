// Package log provides the global structured logger for docuchat.
//
// It wraps a zap.SugaredLogger behind package-level functions so that
// business code can log without threading a logger through every call.
// Init replaces the global instance; before Init a no-op-ish development
// logger is used so early failures are still visible.
package log

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	global = newDefault()
)

func newDefault() *zap.SugaredLogger {
	l, _ := zap.NewDevelopment(zap.AddCallerSkip(1))
	return l.Sugar()
}

// Config controls logger construction.
type Config struct {
	// Level is the minimum enabled level: debug, info, warn or error.
	Level string
	// Format selects the encoder: json or console.
	Format string
	// Development enables development-friendly behavior (stacktraces on
	// warnings, console defaults).
	Development bool
	// InitialFields are attached to every log entry.
	InitialFields map[string]any
}

// Init builds the global logger from cfg. It must be called once during
// startup, before any goroutines that log are started.
func Init(cfg *Config) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.Format != "" {
		zapCfg.Encoding = cfg.Format
	}
	if len(cfg.InitialFields) > 0 {
		zapCfg.InitialFields = cfg.InitialFields
	}

	l, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	mu.Lock()
	global = l.Sugar()
	mu.Unlock()
	return nil
}

// Sync flushes buffered log entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return global.Sync()
}

func l() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Debugw logs a message with key-value pairs at debug level.
func Debugw(msg string, keysAndValues ...any) { l().Debugw(msg, keysAndValues...) }

// Infow logs a message with key-value pairs at info level.
func Infow(msg string, keysAndValues ...any) { l().Infow(msg, keysAndValues...) }

// Warnw logs a message with key-value pairs at warn level.
func Warnw(msg string, keysAndValues ...any) { l().Warnw(msg, keysAndValues...) }

// Errorw logs a message with key-value pairs at error level.
func Errorw(msg string, keysAndValues ...any) { l().Errorw(msg, keysAndValues...) }

// Info logs a message at info level.
func Info(args ...any) { l().Info(args...) }

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) { l().Infof(format, args...) }

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...any) { l().Warnf(format, args...) }

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) { l().Errorf(format, args...) }
