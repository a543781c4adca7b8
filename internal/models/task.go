package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "PENDING"
	TaskStatusCompleted TaskStatus = "COMPLETED"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

// A zero ID means the task has not been saved yet.
type Task struct {
	ID          int64
	Description string
	Status      TaskStatus
	CreatedAt   time.Time
}

// NewTask returns an unsaved task with the default status.
func NewTask(description string) *Task {
	return &Task{
		Description: description,
		Status:      TaskStatusPending,
	}
}

func (t *Task) IsPersisted() bool {
	return t.ID != 0
}
