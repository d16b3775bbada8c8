package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sandeepkv93/dayplan/internal/kvstore"
	"github.com/sandeepkv93/dayplan/internal/model"
)

// Backend names, reported by Store.Backend and used as the default
// storageMethod preference.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// File names inside the data directory. The blob file also hosts the
// preference keys, so the flat-file task backend and the preferences
// store share one medium.
const (
	SQLiteFile = "dayplan.db"
	BlobFile   = "dayplan.json"
)

// Store routes the Repository contract to one physical backend. The
// backend is chosen on the first operation, exactly once, and the store
// stays bound to it for the life of the process; an init failure is
// memoized and returned from every subsequent call rather than retried.
type Store struct {
	dataDir string
	backend string // forced backend name, empty means probe
	now     func() time.Time
	log     *slog.Logger

	initOnce sync.Once
	repo     Repository
	name     string
	initErr  error
}

// Option configures a Store before its backend is bound.
type Option func(*Store)

// WithDataDir overrides the platform-standard data directory.
func WithDataDir(dir string) Option {
	return func(s *Store) { s.dataDir = dir }
}

// WithBackend pins the backend instead of probing. Hosts that know their
// platform, and tests, use this.
func WithBackend(name string) Option {
	return func(s *Store) { s.backend = name }
}

// WithClock replaces the wall clock used by the Today queries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger for backend-selection events.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		now: time.Now,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultDataDir is the platform-standard location for dayplan's data
// files, a dot directory under the user's home.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".dayplan"), nil
}

func (s *Store) init() error {
	s.initOnce.Do(func() {
		s.repo, s.name, s.initErr = s.bindBackend()
		if s.initErr == nil {
			s.log.Debug("storage backend bound", "backend", s.name)
		}
	})
	return s.initErr
}

// bindBackend resolves the data directory and picks the physical
// backend. With no forced choice it probes the relational engine first
// and falls back to the flat file when the engine cannot run, e.g. a
// build without the sqlite driver's native support.
func (s *Store) bindBackend() (Repository, string, error) {
	dir := s.dataDir
	if dir == "" {
		resolved, err := DefaultDataDir()
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		dir = resolved
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("%w: create data dir: %v", ErrStorageUnavailable, err)
	}

	switch s.backend {
	case BackendSQLite:
		repo, err := OpenSQLite(filepath.Join(dir, SQLiteFile))
		if err != nil {
			return nil, "", err
		}
		return repo, BackendSQLite, nil
	case BackendFile:
		return NewFileRepository(kvstore.Open(filepath.Join(dir, BlobFile))), BackendFile, nil
	case "":
		repo, err := OpenSQLite(filepath.Join(dir, SQLiteFile))
		if err == nil {
			return repo, BackendSQLite, nil
		}
		s.log.Warn("sqlite backend unavailable, using flat file", "error", err)
		return NewFileRepository(kvstore.Open(filepath.Join(dir, BlobFile))), BackendFile, nil
	default:
		return nil, "", fmt.Errorf("%w: unknown backend %q", ErrStorageUnavailable, s.backend)
	}
}

// Backend returns the bound backend's name, binding it first if needed.
func (s *Store) Backend() (string, error) {
	if err := s.init(); err != nil {
		return "", err
	}
	return s.name, nil
}

func (s *Store) InsertTask(ctx context.Context, in model.Task) (int64, error) {
	if err := s.init(); err != nil {
		return 0, err
	}
	return s.repo.InsertTask(ctx, in)
}

func (s *Store) UpdateTask(ctx context.Context, in model.Task) error {
	if err := s.init(); err != nil {
		return err
	}
	return s.repo.UpdateTask(ctx, in)
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	if err := s.init(); err != nil {
		return err
	}
	return s.repo.DeleteTask(ctx, id)
}

func (s *Store) ListTasks(ctx context.Context) ([]model.Task, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	return s.repo.ListTasks(ctx)
}

func (s *Store) TasksForDate(ctx context.Context, day time.Time) ([]model.Task, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	return s.repo.TasksForDate(ctx, day)
}

func (s *Store) RemindersForDate(ctx context.Context, day time.Time) ([]model.Task, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	return s.repo.RemindersForDate(ctx, day)
}

func (s *Store) DatesWithTasks(ctx context.Context, year int, month time.Month) ([]time.Time, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	return s.repo.DatesWithTasks(ctx, year, month)
}

// TodayTasks is TasksForDate for the current day.
func (s *Store) TodayTasks(ctx context.Context) ([]model.Task, error) {
	return s.TasksForDate(ctx, s.now())
}

// TodayReminders is RemindersForDate for the current day.
func (s *Store) TodayReminders(ctx context.Context) ([]model.Task, error) {
	return s.RemindersForDate(ctx, s.now())
}

// Close releases the bound backend. A store whose backend never bound,
// or failed to bind, has nothing to release.
func (s *Store) Close() error {
	if s.repo == nil {
		return nil
	}
	return s.repo.Close()
}
