// Package logging builds the *zap.Logger shared by internal/exec and
// cmd/skyd. The core packages (internal/core, internal/engine,
// internal/ql, internal/persist, internal/journal) never log
// directly — matching the teacher's own sparse internal logging
// (none in internal/core or internal/diff; only cmd/ and
// internal/apply write structured output) — so this package has
// exactly one entry point, New, rather than a package-level default
// logger other packages could reach for.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how verbosely New logs.
type Config struct {
	// FilePath, if non-empty, rotates JSON-encoded logs through
	// lumberjack. Empty means stderr only.
	FilePath string
	// MaxSizeMB is lumberjack's rotation threshold; ignored when
	// FilePath is empty.
	MaxSizeMB int
	// MaxBackups bounds how many rotated files lumberjack keeps.
	MaxBackups int
	// Debug enables debug-level output; otherwise the floor is info,
	// matching internal/exec's own Debug/Info split between routine
	// and error-carrying dispatch outcomes.
	Debug bool
}

// New builds a logger writing human-readable output to stderr and,
// if Config.FilePath is set, JSON-encoded rotated output to that file
// as well. The stderr sink is always present; only the file sink is
// optional, so a zero Config logs to stderr alone.
func New(cfg Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Debug {
		level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(os.Stderr),
			level,
		),
	}

	if cfg.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    maxSizeOrDefault(cfg.MaxSizeMB),
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotator),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func maxSizeOrDefault(mb int) int {
	if mb <= 0 {
		return 100
	}
	return mb
}
