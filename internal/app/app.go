// Package app wires the task store and the preferences store into one
// explicitly constructed application handle with an Open/Close
// lifecycle. Nothing here is a package-level singleton; callers pass the
// App to whatever layer needs it.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/sandeepkv93/dayplan/internal/kvstore"
	"github.com/sandeepkv93/dayplan/internal/model"
	"github.com/sandeepkv93/dayplan/internal/prefs"
	"github.com/sandeepkv93/dayplan/internal/storage"
)

type App struct {
	Tasks *storage.Store
	Prefs *prefs.Store
	log   *slog.Logger
}

// Open builds the stores over one data directory. The task store's
// backend is not probed here; it binds lazily on the first store
// operation, so Open itself cannot fail on a broken medium.
func Open(opts ...Option) (*App, error) {
	cfg := appConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	dir := cfg.dataDir
	if dir == "" {
		resolved, err := storage.DefaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		dir = resolved
	}

	storeOpts := []storage.Option{
		storage.WithDataDir(dir),
		storage.WithLogger(cfg.logger),
	}
	if cfg.backend != "" {
		storeOpts = append(storeOpts, storage.WithBackend(cfg.backend))
	}
	if cfg.now != nil {
		storeOpts = append(storeOpts, storage.WithClock(cfg.now))
	}
	tasks := storage.NewStore(storeOpts...)

	blob := kvstore.Open(filepath.Join(dir, storage.BlobFile))
	return &App{
		Tasks: tasks,
		Prefs: prefs.New(blob, tasks.Backend),
		log:   cfg.logger,
	}, nil
}

// StartupReminderSweep is the single at-launch reminder check: today's
// unfinished tasks with a reminder time inside today's window, when the
// remindersEnabled preference is on. Storage failures are logged and
// swallowed so a transient hiccup never blocks launch.
func (a *App) StartupReminderSweep(ctx context.Context) []model.Task {
	enabled, err := a.Prefs.RemindersEnabled()
	if err != nil {
		a.log.Warn("reminder sweep: read preferences", "error", err)
		return nil
	}
	if !enabled {
		return nil
	}
	due, err := a.Tasks.TodayReminders(ctx)
	if err != nil {
		a.log.Warn("reminder sweep: load reminders", "error", err)
		return nil
	}
	return due
}

func (a *App) Close() error {
	return a.Tasks.Close()
}
