package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/chepyr/todo-console/internal/models"
)

// TaskRepository is the database/sql task store. Each call takes its own
// connection from the provider and gives it back before returning.
type TaskRepository struct {
	conns ConnProvider
}

func NewTaskRepository(conns ConnProvider) *TaskRepository {
	return &TaskRepository{conns: conns}
}

// Add inserts the task and fills in the generated ID and CreatedAt.
func (r *TaskRepository) Add(ctx context.Context, task *models.Task) (bool, error) {
	conn, err := r.conns.Conn(ctx)
	if err != nil {
		return false, storageError("add task", err)
	}
	defer release(conn)

	status := task.Status
	if status == "" {
		status = models.TaskStatusPending
	}
	createdAt := time.Now().UTC()

	query := `INSERT INTO tasks (description, status, created_at) VALUES ($1, $2, $3) RETURNING id`
	var id int64
	if err := conn.QueryRowContext(ctx, query, task.Description, status, createdAt).Scan(&id); err != nil {
		return false, storageError("add task", err)
	}

	task.ID = id
	task.Status = status
	task.CreatedAt = createdAt
	return true, nil
}

// Get returns nil without an error when no task has the given id.
func (r *TaskRepository) Get(ctx context.Context, id int64) (*models.Task, error) {
	conn, err := r.conns.Conn(ctx)
	if err != nil {
		return nil, storageError("get task", err)
	}
	defer release(conn)

	query := `SELECT id, description, status, created_at FROM tasks WHERE id = $1`
	task := &models.Task{}
	err = conn.QueryRowContext(ctx, query, id).Scan(
		&task.ID, &task.Description, &task.Status, &task.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("get task", err)
	}
	return task, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) (bool, error) {
	conn, err := r.conns.Conn(ctx)
	if err != nil {
		return false, storageError("update task", err)
	}
	defer release(conn)

	query := `UPDATE tasks SET description = $1, status = $2 WHERE id = $3`
	res, err := conn.ExecContext(ctx, query, task.Description, task.Status, task.ID)
	if err != nil {
		return false, storageError("update task", err)
	}
	return affectedOne("update task", res)
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	conn, err := r.conns.Conn(ctx)
	if err != nil {
		return false, storageError("delete task", err)
	}
	defer release(conn)

	res, err := conn.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, storageError("delete task", err)
	}
	return affectedOne("delete task", res)
}

// GetAll returns every task in insertion order.
func (r *TaskRepository) GetAll(ctx context.Context) ([]*models.Task, error) {
	conn, err := r.conns.Conn(ctx)
	if err != nil {
		return nil, storageError("list tasks", err)
	}
	defer release(conn)

	query := `SELECT id, description, status, created_at FROM tasks ORDER BY id`
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, storageError("list tasks", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(&task.ID, &task.Description, &task.Status, &task.CreatedAt); err != nil {
			return nil, storageError("list tasks", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list tasks", err)
	}
	return tasks, nil
}

// Search loads all tasks and keeps those whose description contains
// substring, ignoring case.
// TODO: push the match into SQL once LIKE escaping is sorted out per dialect.
func (r *TaskRepository) Search(ctx context.Context, substring string) ([]*models.Task, error) {
	tasks, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterByDescription(tasks, substring), nil
}

func affectedOne(op string, res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageError(op, err)
	}
	return n == 1, nil
}

func filterByDescription(tasks []*models.Task, substring string) []*models.Task {
	needle := strings.ToLower(substring)
	var found []*models.Task
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Description), needle) {
			found = append(found, task)
		}
	}
	return found
}
