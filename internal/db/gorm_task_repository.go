package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chepyr/todo-console/internal/models"
)

// taskRecord is the gorm mapping of the tasks table.
type taskRecord struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Description string    `gorm:"type:text;not null"`
	Status      string    `gorm:"type:text;not null;default:PENDING"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (taskRecord) TableName() string {
	return "tasks"
}

func (rec *taskRecord) toModel() *models.Task {
	return &models.Task{
		ID:          rec.ID,
		Description: rec.Description,
		Status:      models.TaskStatus(rec.Status),
		CreatedAt:   rec.CreatedAt,
	}
}

// GormTaskRepository is the gorm task store. Every call runs inside
// gorm.DB.Connection so it holds exactly one pooled connection.
type GormTaskRepository struct {
	db *gorm.DB
}

func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// ConnectGorm opens a gorm handle for one of the supported drivers.
func ConnectGorm(driverName, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driverName {
	case "sqlite3":
		dialector = sqlite.Open(dsn)
	case "sqlite":
		dialector = sqlite.Dialector{DriverName: "sqlite", DSN: DriverDSN(driverName, dsn)}
	case "postgres", "pgx":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driverName)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if IsMemoryDSN(dsn) {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
	}
	return gdb, nil
}

// Migrate creates the tasks table if it does not exist yet. A table created
// by EnsureSchema is left as it is.
func (r *GormTaskRepository) Migrate(ctx context.Context) error {
	tx := r.db.WithContext(ctx)
	if tx.Migrator().HasTable(&taskRecord{}) {
		return nil
	}
	if err := tx.AutoMigrate(&taskRecord{}); err != nil {
		return storageError("migrate tasks", err)
	}
	return nil
}

func (r *GormTaskRepository) Add(ctx context.Context, task *models.Task) (bool, error) {
	status := task.Status
	if status == "" {
		status = models.TaskStatusPending
	}
	rec := &taskRecord{
		Description: task.Description,
		Status:      string(status),
		CreatedAt:   time.Now().UTC(),
	}

	var created int64
	err := r.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		result := tx.Create(rec)
		created = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, storageError("add task", err)
	}
	if created != 1 {
		return false, nil
	}

	task.ID = rec.ID
	task.Status = status
	task.CreatedAt = rec.CreatedAt
	return true, nil
}

func (r *GormTaskRepository) Get(ctx context.Context, id int64) (*models.Task, error) {
	var rec taskRecord
	err := r.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return tx.First(&rec, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("get task", err)
	}
	return rec.toModel(), nil
}

func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) (bool, error) {
	var affected int64
	err := r.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		result := tx.Model(&taskRecord{}).Where("id = ?", task.ID).Updates(map[string]any{
			"description": task.Description,
			"status":      string(task.Status),
		})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, storageError("update task", err)
	}
	return affected == 1, nil
}

func (r *GormTaskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := r.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		result := tx.Delete(&taskRecord{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, storageError("delete task", err)
	}
	return affected == 1, nil
}

func (r *GormTaskRepository) GetAll(ctx context.Context) ([]*models.Task, error) {
	var recs []taskRecord
	err := r.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return tx.Order("id").Find(&recs).Error
	})
	if err != nil {
		return nil, storageError("list tasks", err)
	}

	tasks := make([]*models.Task, 0, len(recs))
	for i := range recs {
		tasks = append(tasks, recs[i].toModel())
	}
	return tasks, nil
}

// Search matches the same way as TaskRepository.Search.
func (r *GormTaskRepository) Search(ctx context.Context, substring string) ([]*models.Task, error) {
	tasks, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterByDescription(tasks, substring), nil
}
