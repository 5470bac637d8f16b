// Package logging builds the zap logger shared by the stores and services.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction
type Options struct {
	Level string // debug, info, warn, error; empty means warn
	File  string // optional JSON log file, teed with Console
	// Console receives human readable output, os.Stderr when nil
	Console io.Writer
}

// New builds a logger writing console-encoded entries to opts.Console and,
// when opts.File is set, JSON entries to that file as well. The returned
// close function flushes and releases the file.
func New(opts Options) (*zap.Logger, func() error, error) {
	level := zapcore.WarnLevel
	if opts.Level != "" {
		if err := level.Set(opts.Level); err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.TimeKey = ""
	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(console), level)

	if opts.File == "" {
		logger := zap.New(consoleCore)
		return logger, logger.Sync, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("log file: %w", err)
	}

	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(f), level)
	logger := zap.New(zapcore.NewTee(fileCore, consoleCore))

	closeFn := func() error {
		return multierr.Append(logger.Sync(), f.Close())
	}
	return logger, closeFn, nil
}
