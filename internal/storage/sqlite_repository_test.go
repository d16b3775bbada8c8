package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/dayplan/internal/model"
)

func setupSQLiteRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "dayplan-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func taskEqual(a, b model.Task) bool {
	if a.ID != b.ID || a.Title != b.Title || a.Description != b.Description || a.IsCompleted != b.IsCompleted {
		return false
	}
	if !a.DueDate.Equal(b.DueDate) {
		return false
	}
	if (a.ReminderTime == nil) != (b.ReminderTime == nil) {
		return false
	}
	if a.ReminderTime != nil && !a.ReminderTime.Equal(*b.ReminderTime) {
		return false
	}
	return true
}

func findTask(tasks []model.Task, id int64) (model.Task, bool) {
	for _, task := range tasks {
		if task.ID == id {
			return task, true
		}
	}
	return model.Task{}, false
}

func TestSQLiteInsertRoundTrip(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	reminder := time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)
	in := model.Task{
		Title:        "Pay rent",
		Description:  "Transfer before noon",
		DueDate:      time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local),
		ReminderTime: &reminder,
	}

	id, err := repo.InsertTask(ctx, in)
	if err != nil {
		t.Fatalf("insert task: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected first id 1, got %d", id)
	}

	all, err := repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	got, ok := findTask(all, id)
	if !ok {
		t.Fatalf("inserted task not found in list: %#v", all)
	}
	want := in
	want.ID = id
	if !taskEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", got, want)
	}
}

func TestSQLiteUpdateReplacesWholeRecord(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	reminder := time.Date(2026, 3, 14, 8, 0, 0, 0, time.Local)
	id, err := repo.InsertTask(ctx, model.Task{
		Title:        "Draft report",
		Description:  "first pass",
		DueDate:      time.Date(2026, 3, 14, 17, 0, 0, 0, time.Local),
		ReminderTime: &reminder,
	})
	if err != nil {
		t.Fatalf("insert task: %v", err)
	}

	// Whole-record replace drops the reminder and flips completion.
	updated := model.Task{
		ID:          id,
		Title:       "Draft report v2",
		Description: "",
		DueDate:     time.Date(2026, 3, 15, 17, 0, 0, 0, time.Local),
		IsCompleted: true,
	}
	if err := repo.UpdateTask(ctx, updated); err != nil {
		t.Fatalf("update task: %v", err)
	}

	all, err := repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	got, ok := findTask(all, id)
	if !ok {
		t.Fatalf("updated task not found: %#v", all)
	}
	if !taskEqual(got, updated) {
		t.Fatalf("update mismatch:\n got %#v\nwant %#v", got, updated)
	}
}

func TestSQLiteUpdateAndDeleteMissingAreNoops(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	err := repo.UpdateTask(ctx, model.Task{
		ID:      42,
		Title:   "Ghost",
		DueDate: time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local),
	})
	if err != nil {
		t.Fatalf("update of missing id should be a no-op, got: %v", err)
	}
	if err := repo.DeleteTask(ctx, 42); err != nil {
		t.Fatalf("delete of missing id should be a no-op, got: %v", err)
	}

	all, err := repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty store, got: %#v", all)
	}
}

func TestSQLiteIDMonotonicityAfterDelete(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()
	due := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

	for i, title := range []string{"one", "two", "three"} {
		id, err := repo.InsertTask(ctx, model.Task{Title: title, DueDate: due})
		if err != nil {
			t.Fatalf("insert %q: %v", title, err)
		}
		if id != int64(i+1) {
			t.Fatalf("expected id %d for %q, got %d", i+1, title, id)
		}
	}

	if err := repo.DeleteTask(ctx, 2); err != nil {
		t.Fatalf("delete id 2: %v", err)
	}

	id, err := repo.InsertTask(ctx, model.Task{Title: "four", DueDate: due})
	if err != nil {
		t.Fatalf("insert after delete: %v", err)
	}
	if id != 4 {
		t.Fatalf("expected id 4 after deleting 2, got %d", id)
	}
}

func TestSQLiteTasksForDateBoundary(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	dayD := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	lastSecond := time.Date(2026, 3, 14, 23, 59, 59, 0, time.Local)
	nextMidnight := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)

	if _, err := repo.InsertTask(ctx, model.Task{Title: "late", DueDate: lastSecond}); err != nil {
		t.Fatalf("insert late task: %v", err)
	}
	if _, err := repo.InsertTask(ctx, model.Task{Title: "next day", DueDate: nextMidnight}); err != nil {
		t.Fatalf("insert next-day task: %v", err)
	}

	onD, err := repo.TasksForDate(ctx, dayD)
	if err != nil {
		t.Fatalf("tasks for day D: %v", err)
	}
	if len(onD) != 1 || onD[0].Title != "late" {
		t.Fatalf("expected only the 23:59:59 task on day D, got: %#v", onD)
	}

	onNext, err := repo.TasksForDate(ctx, nextMidnight)
	if err != nil {
		t.Fatalf("tasks for day D+1: %v", err)
	}
	if len(onNext) != 1 || onNext[0].Title != "next day" {
		t.Fatalf("expected only the midnight task on day D+1, got: %#v", onNext)
	}
}

func TestSQLiteTasksForDateOrdering(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)

	times := []time.Time{
		time.Date(2026, 3, 14, 18, 0, 0, 0, time.Local),
		time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local),
		time.Date(2026, 3, 14, 13, 0, 0, 0, time.Local),
	}
	for i, due := range times {
		if _, err := repo.InsertTask(ctx, model.Task{Title: "task", DueDate: due, Description: string(rune('a' + i))}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := repo.TasksForDate(ctx, day)
	if err != nil {
		t.Fatalf("tasks for date: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].DueDate.Before(got[i-1].DueDate) {
			t.Fatalf("tasks not ascending by due date: %#v", got)
		}
	}
}

func TestSQLiteRemindersExcludeCompletedAndUnset(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	due := time.Date(2026, 3, 14, 18, 0, 0, 0, time.Local)

	morning := time.Date(2026, 3, 14, 8, 0, 0, 0, time.Local)
	noon := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

	if _, err := repo.InsertTask(ctx, model.Task{Title: "no reminder", DueDate: due}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := repo.InsertTask(ctx, model.Task{Title: "done", DueDate: due, ReminderTime: &morning, IsCompleted: true}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := repo.InsertTask(ctx, model.Task{Title: "pending", DueDate: due, ReminderTime: &noon}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.RemindersForDate(ctx, day)
	if err != nil {
		t.Fatalf("reminders for date: %v", err)
	}
	if len(got) != 1 || got[0].Title != "pending" {
		t.Fatalf("expected only the pending reminder, got: %#v", got)
	}
}

func TestSQLiteDatesWithTasks(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	if _, err := repo.InsertTask(ctx, model.Task{
		Title:   "Read ch.3",
		DueDate: time.Date(2024, 5, 1, 18, 0, 0, 0, time.Local),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	dates, err := repo.DatesWithTasks(ctx, 2024, time.May)
	if err != nil {
		t.Fatalf("dates with tasks: %v", err)
	}
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	if len(dates) != 1 || !dates[0].Equal(want) {
		t.Fatalf("expected [%v], got: %v", want, dates)
	}

	empty, err := repo.TasksForDate(ctx, time.Date(2024, 5, 2, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("tasks for empty day: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no tasks on 2024-05-02, got: %#v", empty)
	}
}

func TestSQLiteDatesWithTasksDeduplicates(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	dues := []time.Time{
		time.Date(2024, 5, 7, 9, 0, 0, 0, time.Local),
		time.Date(2024, 5, 7, 21, 0, 0, 0, time.Local),
		time.Date(2024, 5, 20, 12, 0, 0, 0, time.Local),
		time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local), // outside month
	}
	for _, due := range dues {
		if _, err := repo.InsertTask(ctx, model.Task{Title: "task", DueDate: due}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	dates, err := repo.DatesWithTasks(ctx, 2024, time.May)
	if err != nil {
		t.Fatalf("dates with tasks: %v", err)
	}
	want := []time.Time{
		time.Date(2024, 5, 7, 0, 0, 0, 0, time.Local),
		time.Date(2024, 5, 20, 0, 0, 0, 0, time.Local),
	}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got: %v", len(want), dates)
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Fatalf("date %d mismatch: got %v want %v", i, dates[i], want[i])
		}
	}
}
