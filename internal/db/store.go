package db

import (
	"context"
	"fmt"

	"github.com/chepyr/todo-console/internal/config"
	"github.com/chepyr/todo-console/internal/models"
)

// TaskStore defines durable CRUD and search over tasks. Implementations
// trust their input; validation belongs to the service layer.
//
// Failures of the backend are returned wrapped in ErrStorage. A statement
// that matches nothing is not a failure: Get returns a nil task, Update and
// Delete return false.
type TaskStore interface {
	Add(ctx context.Context, task *models.Task) (bool, error)
	Get(ctx context.Context, id int64) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetAll(ctx context.Context) ([]*models.Task, error)
	Search(ctx context.Context, substring string) ([]*models.Task, error)
}

var (
	_ TaskStore = (*TaskRepository)(nil)
	_ TaskStore = (*GormTaskRepository)(nil)
)

// OpenStore connects to the configured database, makes sure the tasks
// table exists and returns the store for the configured backend together
// with a func that closes the underlying pool.
func OpenStore(ctx context.Context, cfg *config.Config) (TaskStore, func() error, error) {
	switch cfg.Backend {
	case config.BackendSQL:
		return openSQLStore(ctx, cfg.Driver, cfg.DSN)
	case config.BackendGorm:
		return openGormStore(ctx, cfg.Driver, cfg.DSN)
	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}

func openSQLStore(ctx context.Context, driverName, dsn string) (TaskStore, func() error, error) {
	dialect, err := DialectFor(driverName)
	if err != nil {
		return nil, nil, err
	}
	dbConn, err := Connect(driverName, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := EnsureSchema(ctx, dbConn, dialect); err != nil {
		dbConn.Close()
		return nil, nil, err
	}
	return NewTaskRepository(dbConn), dbConn.Close, nil
}

func openGormStore(ctx context.Context, driverName, dsn string) (TaskStore, func() error, error) {
	gdb, err := ConnectGorm(driverName, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, nil, err
	}

	repo := NewGormTaskRepository(gdb)
	if err := repo.Migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	return repo, sqlDB.Close, nil
}
