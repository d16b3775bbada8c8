package storage

import (
	"context"
	"time"

	"github.com/sandeepkv93/dayplan/internal/model"
)

// Repository is the backend-agnostic task store contract. Both backends
// must produce identical observable results for identical call
// sequences: same ids assigned in the same order, same query outputs.
type Repository interface {
	// InsertTask assigns the next id (max id in current contents plus
	// one, re-derived on every insert so it survives restarts and never
	// hands out a previously seen id after a mid-sequence delete),
	// persists the record and returns the id.
	InsertTask(ctx context.Context, in model.Task) (int64, error)

	// UpdateTask replaces the stored record with the same id in full.
	// Updating an id that does not exist is a no-op, not an error.
	UpdateTask(ctx context.Context, in model.Task) error

	// DeleteTask removes the record permanently. Deleting an absent id
	// is a no-op.
	DeleteTask(ctx context.Context, id int64) error

	// ListTasks returns a snapshot of every record, ordered by id.
	ListTasks(ctx context.Context) ([]model.Task, error)

	// TasksForDate returns tasks whose due date falls on the calendar
	// day of `day`, ascending by due date.
	TasksForDate(ctx context.Context, day time.Time) ([]model.Task, error)

	// RemindersForDate returns incomplete tasks whose reminder time
	// falls on the calendar day of `day`, ascending by reminder time.
	// Tasks without a reminder never appear.
	RemindersForDate(ctx context.Context, day time.Time) ([]model.Task, error)

	// DatesWithTasks returns the distinct midnight-normalized dates in
	// the given month that have at least one task due, ascending.
	DatesWithTasks(ctx context.Context, year int, month time.Month) ([]time.Time, error)

	Close() error
}
