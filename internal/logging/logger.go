// Package logging provides config-driven categorized logging for residue.
// Each subsystem logs through a named zap logger; categories can be switched
// off individually in the logging section of the config file.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"residue/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup, config loading
	CategoryAutomaton Category = "automaton" // Single-string matching and stepping
	CategoryBatch     Category = "batch"     // Concurrent classification runs
	CategoryFacts     Category = "facts"     // Datalog export and evaluation
	CategoryWatch     Category = "watch"     // File watching
	CategoryCLI       Category = "cli"       // Command dispatch
)

// New builds the root logger from config. verbose forces debug level.
func New(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Loggers hands out per-category children of a root logger.
type Loggers struct {
	root *zap.Logger
	cfg  config.LoggingConfig
}

// NewLoggers wraps root. A nil root behaves like zap.NewNop().
func NewLoggers(root *zap.Logger, cfg config.LoggingConfig) *Loggers {
	if root == nil {
		root = zap.NewNop()
	}
	return &Loggers{root: root, cfg: cfg}
}

// Get returns the logger for a category, or a no-op logger if the category
// is disabled.
func (l *Loggers) Get(cat Category) *zap.Logger {
	if !l.cfg.IsCategoryEnabled(string(cat)) {
		return zap.NewNop()
	}
	return l.root.Named(string(cat))
}

// Root returns the uncategorized logger.
func (l *Loggers) Root() *zap.Logger {
	return l.root
}

// Sync flushes buffered entries.
func (l *Loggers) Sync() error {
	return l.root.Sync()
}
