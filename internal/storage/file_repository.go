package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sandeepkv93/dayplan/internal/kvstore"
	"github.com/sandeepkv93/dayplan/internal/model"
)

// tasksKey names the blob-store entry holding the whole task array.
const tasksKey = "tasks"

// taskRecord is the wire form of a task in the flat-file backend. Field
// names match the persisted JSON contract; timestamps are epoch
// milliseconds to mirror the relational encoding exactly.
type taskRecord struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	DueDate      int64  `json:"dueDate"`
	ReminderTime *int64 `json:"reminderTime"`
	IsCompleted  bool   `json:"isCompleted"`
}

// FileRepository keeps the entire task list as one JSON array under a
// single blob-store key. Every query deserializes the whole array and
// filters in memory; every mutation rewrites the whole array back. Two
// overlapping writers can clobber each other; the single-user app
// accepts that.
type FileRepository struct {
	blob *kvstore.File
	loc  *time.Location
}

func NewFileRepository(blob *kvstore.File) *FileRepository {
	return &FileRepository{blob: blob, loc: time.Local}
}

func (r *FileRepository) Close() error {
	return nil
}

func (r *FileRepository) InsertTask(_ context.Context, in model.Task) (int64, error) {
	records, err := r.load()
	if err != nil {
		return 0, err
	}
	var maxID int64
	for _, rec := range records {
		if rec.ID > maxID {
			maxID = rec.ID
		}
	}
	id := maxID + 1
	in.ID = id
	records = append(records, toRecord(in))
	if err := r.save(records); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *FileRepository) UpdateTask(_ context.Context, in model.Task) error {
	records, err := r.load()
	if err != nil {
		return err
	}
	for i, rec := range records {
		if rec.ID == in.ID {
			records[i] = toRecord(in)
			return r.save(records)
		}
	}
	// Unknown id: no-op by contract, and no rewrite either.
	return nil
}

func (r *FileRepository) DeleteTask(_ context.Context, id int64) error {
	records, err := r.load()
	if err != nil {
		return err
	}
	for i, rec := range records {
		if rec.ID == id {
			records = append(records[:i], records[i+1:]...)
			return r.save(records)
		}
	}
	return nil
}

func (r *FileRepository) ListTasks(_ context.Context) ([]model.Task, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0, len(records))
	for _, rec := range records {
		out = append(out, r.fromRecord(rec))
	}
	return out, nil
}

func (r *FileRepository) TasksForDate(_ context.Context, day time.Time) ([]model.Task, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}
	startMs, endMs := dayWindow(day)
	matched := make([]taskRecord, 0)
	for _, rec := range records {
		if rec.DueDate >= startMs && rec.DueDate < endMs {
			matched = append(matched, rec)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].DueDate < matched[j].DueDate
	})
	out := make([]model.Task, 0, len(matched))
	for _, rec := range matched {
		out = append(out, r.fromRecord(rec))
	}
	return out, nil
}

func (r *FileRepository) RemindersForDate(_ context.Context, day time.Time) ([]model.Task, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}
	startMs, endMs := dayWindow(day)
	matched := make([]taskRecord, 0)
	for _, rec := range records {
		if rec.ReminderTime == nil || rec.IsCompleted {
			continue
		}
		if *rec.ReminderTime >= startMs && *rec.ReminderTime < endMs {
			matched = append(matched, rec)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return *matched[i].ReminderTime < *matched[j].ReminderTime
	})
	out := make([]model.Task, 0, len(matched))
	for _, rec := range matched {
		out = append(out, r.fromRecord(rec))
	}
	return out, nil
}

func (r *FileRepository) DatesWithTasks(_ context.Context, year int, month time.Month) ([]time.Time, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}
	startMs, endMs := monthWindow(year, month, r.loc)
	dues := make([]int64, 0)
	for _, rec := range records {
		if rec.DueDate >= startMs && rec.DueDate < endMs {
			dues = append(dues, rec.DueDate)
		}
	}
	sort.Slice(dues, func(i, j int) bool { return dues[i] < dues[j] })
	return distinctDates(dues, r.loc), nil
}

func (r *FileRepository) load() ([]taskRecord, error) {
	raw, ok, err := r.blob.Get(tasksKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if !ok {
		return []taskRecord{}, nil
	}
	records := make([]taskRecord, 0)
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: decode task array: %v", ErrStorageUnavailable, err)
	}
	return records, nil
}

func (r *FileRepository) save(records []taskRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: encode task array: %v", ErrWriteFailed, err)
	}
	if err := r.blob.Set(tasksKey, raw); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

func toRecord(in model.Task) taskRecord {
	rec := taskRecord{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate.UnixMilli(),
		IsCompleted: in.IsCompleted,
	}
	if in.ReminderTime != nil {
		ms := in.ReminderTime.UnixMilli()
		rec.ReminderTime = &ms
	}
	return rec
}

func (r *FileRepository) fromRecord(rec taskRecord) model.Task {
	out := model.Task{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		DueDate:     time.UnixMilli(rec.DueDate).In(r.loc),
		IsCompleted: rec.IsCompleted,
	}
	if rec.ReminderTime != nil {
		reminder := time.UnixMilli(*rec.ReminderTime).In(r.loc)
		out.ReminderTime = &reminder
	}
	return out
}
