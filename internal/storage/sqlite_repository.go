package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/dayplan/internal/model"
)

// SQLiteRepository stores tasks in a single relational table. Timestamps
// are epoch milliseconds and is_completed is 0/1, so every date-window
// query becomes an integer range predicate pushed to the engine.
type SQLiteRepository struct {
	db  *sql.DB
	loc *time.Location
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: nil db", ErrStorageUnavailable)
	}
	return &SQLiteRepository{db: db, loc: time.Local}, nil
}

// OpenSQLite opens (or creates) the database file, verifies the engine
// actually works and applies the schema. Any failure here means the
// relational backend is unusable on this platform.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %v", ErrStorageUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping sqlite: %v", ErrStorageUnavailable, err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: set busy timeout: %v", ErrStorageUnavailable, err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return NewSQLiteRepository(db)
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) InsertTask(ctx context.Context, in model.Task) (int64, error) {
	// The id subselect re-derives max(id)+1 from current contents in the
	// same statement, so ids stay monotone across restarts without a
	// separate counter row.
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, due_date, reminder_time, is_completed)
		VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM tasks), ?, ?, ?, ?, ?)`,
		in.Title, in.Description, in.DueDate.UnixMilli(), nullMillis(in.ReminderTime), boolInt(in.IsCompleted),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: insert task: %v", ErrWriteFailed, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: insert task id: %v", ErrWriteFailed, err)
	}
	return id, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in model.Task) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, due_date = ?, reminder_time = ?, is_completed = ?
		WHERE id = ?`,
		in.Title, in.Description, in.DueDate.UnixMilli(), nullMillis(in.ReminderTime), boolInt(in.IsCompleted), in.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: update task: %v", ErrWriteFailed, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: delete task: %v", ErrWriteFailed, err)
	}
	return nil
}

func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]model.Task, error) {
	return r.queryTasks(ctx, `
		SELECT id, title, description, due_date, reminder_time, is_completed
		FROM tasks ORDER BY id ASC`)
}

func (r *SQLiteRepository) TasksForDate(ctx context.Context, day time.Time) ([]model.Task, error) {
	startMs, endMs := dayWindow(day)
	return r.queryTasks(ctx, `
		SELECT id, title, description, due_date, reminder_time, is_completed
		FROM tasks
		WHERE due_date >= ? AND due_date < ?
		ORDER BY due_date ASC, id ASC`, startMs, endMs)
}

func (r *SQLiteRepository) RemindersForDate(ctx context.Context, day time.Time) ([]model.Task, error) {
	startMs, endMs := dayWindow(day)
	return r.queryTasks(ctx, `
		SELECT id, title, description, due_date, reminder_time, is_completed
		FROM tasks
		WHERE reminder_time IS NOT NULL AND reminder_time >= ? AND reminder_time < ? AND is_completed = 0
		ORDER BY reminder_time ASC, id ASC`, startMs, endMs)
}

func (r *SQLiteRepository) DatesWithTasks(ctx context.Context, year int, month time.Month) ([]time.Time, error) {
	startMs, endMs := monthWindow(year, month, r.loc)
	rows, err := r.db.QueryContext(ctx, `
		SELECT due_date FROM tasks
		WHERE due_date >= ? AND due_date < ?
		ORDER BY due_date ASC`, startMs, endMs)
	if err != nil {
		return nil, fmt.Errorf("%w: dates with tasks: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	dues := make([]int64, 0)
	for rows.Next() {
		var ms int64
		if err := rows.Scan(&ms); err != nil {
			return nil, fmt.Errorf("%w: scan due date: %v", ErrStorageUnavailable, err)
		}
		dues = append(dues, ms)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: dates with tasks: %v", ErrStorageUnavailable, err)
	}
	return distinctDates(dues, r.loc), nil
}

func (r *SQLiteRepository) queryTasks(ctx context.Context, query string, args ...any) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query tasks: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := r.scanTask(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: scan task: %v", ErrStorageUnavailable, scanErr)
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: query tasks: %v", ErrStorageUnavailable, err)
	}
	return out, nil
}

func (r *SQLiteRepository) scanTask(rows *sql.Rows) (model.Task, error) {
	var out model.Task
	var dueMs int64
	var reminderMs sql.NullInt64
	var completed int
	if err := rows.Scan(&out.ID, &out.Title, &out.Description, &dueMs, &reminderMs, &completed); err != nil {
		return model.Task{}, err
	}
	out.DueDate = time.UnixMilli(dueMs).In(r.loc)
	if reminderMs.Valid {
		reminder := time.UnixMilli(reminderMs.Int64).In(r.loc)
		out.ReminderTime = &reminder
	}
	out.IsCompleted = completed == 1
	return out, nil
}

func nullMillis(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UnixMilli()
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
