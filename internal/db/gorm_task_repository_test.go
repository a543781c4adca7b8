package db

import (
	"context"
	"errors"
	"testing"

	"github.com/chepyr/todo-console/internal/models"
)

func TestGormTaskRepository_StorageFailure(t *testing.T) {
	ctx := context.Background()
	repo := setupGormStore(t)
	sqlDB, err := repo.db.DB()
	if err != nil {
		t.Fatalf("gorm DB: %v", err)
	}
	sqlDB.Close()

	if _, err := repo.Add(ctx, models.NewTask("x")); !errors.Is(err, ErrStorage) {
		t.Errorf("Add: expected ErrStorage, got %v", err)
	}
	if _, err := repo.Get(ctx, 1); !errors.Is(err, ErrStorage) {
		t.Errorf("Get: expected ErrStorage, got %v", err)
	}
	if _, err := repo.Update(ctx, &models.Task{ID: 1, Description: "x", Status: models.TaskStatusPending}); !errors.Is(err, ErrStorage) {
		t.Errorf("Update: expected ErrStorage, got %v", err)
	}
	if _, err := repo.Delete(ctx, 1); !errors.Is(err, ErrStorage) {
		t.Errorf("Delete: expected ErrStorage, got %v", err)
	}
	if _, err := repo.Search(ctx, "x"); !errors.Is(err, ErrStorage) {
		t.Errorf("Search: expected ErrStorage, got %v", err)
	}
}

func TestGormTaskRepository_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := setupGormStore(t)
	task := addTask(t, repo, "Write report")

	ok, err := repo.Update(ctx, &models.Task{
		ID:          task.ID,
		Description: task.Description,
		Status:      models.TaskStatusCompleted,
		CreatedAt:   task.CreatedAt.AddDate(-1, 0, 0),
	})
	if err != nil || !ok {
		t.Fatalf("Update: ok=%v err=%v", ok, err)
	}

	got, err := repo.Get(ctx, task.ID)
	if err != nil || got == nil {
		t.Fatalf("Get: %v, %v", got, err)
	}
	if !got.CreatedAt.Equal(task.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", task.CreatedAt, got.CreatedAt)
	}
	if got.Status != models.TaskStatusCompleted {
		t.Errorf("status not updated: %s", got.Status)
	}
}
