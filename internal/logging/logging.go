// Package logging builds the zap loggers used by agenda.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugLogPath is the file written when --debug is set without a log file.
const DebugLogPath = "agenda-debug.log"

// Options selects where and how much to log.
type Options struct {
	Level  string // debug, info, warn, error; empty means warn
	File   string // log file path; empty disables file output
	Debug  bool   // force debug level, writing to File or DebugLogPath
	Stderr bool   // log to stderr when no file is set (CLI only, never the TUI)
}

// New builds a logger for opts. With no file and no stderr output it returns
// a no-op logger.
func New(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	path := opts.File
	if opts.Debug {
		level = zapcore.DebugLevel
		if path == "" {
			path = DebugLogPath
		}
	}

	var cfg zap.Config
	switch {
	case path != "":
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{path}
	case opts.Stderr:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.TimeKey = ""
		cfg.DisableStacktrace = true
		cfg.OutputPaths = []string{"stderr"}
	default:
		return zap.NewNop(), nil
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// ParseLevel converts a level name. Empty means warn.
func ParseLevel(s string) (zapcore.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return zapcore.WarnLevel, nil
	}
	level, err := zapcore.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zapcore.WarnLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
