package model

import (
	"errors"
	"strings"
	"time"
)

// Task is the sole persisted entity: a single to-do item with a due date
// and an optional reminder.
type Task struct {
	ID           int64 // zero until the store assigns one on insert
	Title        string
	Description  string
	DueDate      time.Time
	ReminderTime *time.Time
	IsCompleted  bool
}

// HasReminder reports whether a reminder time has been set. Tasks without
// one never appear in reminder queries.
func (t Task) HasReminder() bool {
	return t.ReminderTime != nil
}

// Validate checks the fields a task must carry before it can be stored.
// No ordering between ReminderTime and DueDate is enforced; a reminder
// may fall before, on, or after the due date.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if t.DueDate.IsZero() {
		return errors.New("model: task due_date is required")
	}
	return nil
}
