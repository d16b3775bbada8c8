package app

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring App construction.
type Option func(*appConfig)

type appConfig struct {
	dataDir string
	backend string
	now     func() time.Time
	logger  *slog.Logger
}

// WithDataDir overrides the platform-standard data directory.
func WithDataDir(dir string) Option {
	return func(cfg *appConfig) {
		cfg.dataDir = dir
	}
}

// WithBackend pins the task store to one backend instead of probing.
func WithBackend(name string) Option {
	return func(cfg *appConfig) {
		cfg.backend = name
	}
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(cfg *appConfig) {
		cfg.now = now
	}
}

// WithLogger sets the logger for the application.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}
