// Package service validates task input before it reaches the store.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chepyr/todo-console/internal/db"
	"github.com/chepyr/todo-console/internal/models"
)

var (
	// ErrInvalidInput is returned when caller supplied data fails a
	// precondition. The store is never called in that case.
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidStatus = fmt.Errorf("%w: invalid status, must be %s or %s",
		ErrInvalidInput, models.TaskStatusPending, models.TaskStatusCompleted)
)

type TaskService struct {
	store db.TaskStore
}

func NewTaskService(store db.TaskStore) *TaskService {
	if store == nil {
		panic("service: TaskStore implementation cannot be nil")
	}
	return &TaskService{store: store}
}

func (s *TaskService) AddTask(ctx context.Context, description string) (bool, error) {
	if strings.TrimSpace(description) == "" {
		return false, fmt.Errorf("%w: description can't be empty or blank", ErrInvalidInput)
	}
	return s.store.Add(ctx, models.NewTask(description))
}

// GetTask returns nil without an error when the task does not exist.
func (s *TaskService) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be a positive number", ErrInvalidInput)
	}
	return s.store.Get(ctx, id)
}

// UpdateTask replaces description and status of existing. ID and CreatedAt
// are always taken from existing.
func (s *TaskService) UpdateTask(ctx context.Context, existing *models.Task, description string, status models.TaskStatus) (bool, error) {
	if existing == nil {
		return false, fmt.Errorf("%w: task can't be nil", ErrInvalidInput)
	}
	if strings.TrimSpace(description) == "" {
		return false, fmt.Errorf("%w: description can't be empty or blank", ErrInvalidInput)
	}
	if !status.Valid() {
		return false, ErrInvalidStatus
	}

	updated := &models.Task{
		ID:          existing.ID,
		Description: description,
		Status:      status,
		CreatedAt:   existing.CreatedAt,
	}
	return s.store.Update(ctx, updated)
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("%w: id can't be zero or negative", ErrInvalidInput)
	}
	return s.store.Delete(ctx, id)
}

func (s *TaskService) GetAllTasks(ctx context.Context) ([]*models.Task, error) {
	return s.store.GetAll(ctx)
}

// SearchTasks returns tasks whose description contains keyword, ignoring
// case. An empty keyword matches everything.
func (s *TaskService) SearchTasks(ctx context.Context, keyword string) ([]*models.Task, error) {
	return s.store.Search(ctx, keyword)
}

// ParseStatus converts user text such as " completed " into a status.
func ParseStatus(text string) (models.TaskStatus, error) {
	status := models.TaskStatus(strings.ToUpper(strings.TrimSpace(text)))
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
