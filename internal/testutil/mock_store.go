// Package testutil provides an in-memory TaskStore for tests.
package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/chepyr/todo-console/internal/models"
)

// MockTaskStore keeps tasks in memory and records how often each
// operation was called. The *Err fields inject failures.
type MockTaskStore struct {
	mutex  sync.Mutex
	tasks  []*models.Task
	nextID int64
	Calls  map[string]int

	AddErr    error
	GetErr    error
	UpdateErr error
	DeleteErr error
	GetAllErr error
	SearchErr error
}

func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{nextID: 1, Calls: make(map[string]int)}
}

// Seed stores tasks with the given descriptions and returns them.
func (m *MockTaskStore) Seed(descriptions ...string) []*models.Task {
	seeded := make([]*models.Task, 0, len(descriptions))
	for _, d := range descriptions {
		task := models.NewTask(d)
		m.insert(task)
		seeded = append(seeded, cloneTask(task))
	}
	return seeded
}

// TotalCalls is the number of store operations made so far.
func (m *MockTaskStore) TotalCalls() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	total := 0
	for _, n := range m.Calls {
		total += n
	}
	return total
}

func (m *MockTaskStore) insert(task *models.Task) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	task.ID = m.nextID
	task.CreatedAt = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(m.nextID) * time.Minute)
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	m.nextID++
	m.tasks = append(m.tasks, cloneTask(task))
}

func (m *MockTaskStore) Add(ctx context.Context, task *models.Task) (bool, error) {
	m.record("Add")
	if m.AddErr != nil {
		return false, m.AddErr
	}
	m.insert(task)
	return true, nil
}

func (m *MockTaskStore) Get(ctx context.Context, id int64) (*models.Task, error) {
	m.record("Get")
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if i := m.indexOf(id); i >= 0 {
		return cloneTask(m.tasks[i]), nil
	}
	return nil, nil
}

func (m *MockTaskStore) Update(ctx context.Context, task *models.Task) (bool, error) {
	m.record("Update")
	if m.UpdateErr != nil {
		return false, m.UpdateErr
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	i := m.indexOf(task.ID)
	if i < 0 {
		return false, nil
	}
	m.tasks[i].Description = task.Description
	m.tasks[i].Status = task.Status
	return true, nil
}

func (m *MockTaskStore) Delete(ctx context.Context, id int64) (bool, error) {
	m.record("Delete")
	if m.DeleteErr != nil {
		return false, m.DeleteErr
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return false, nil
	}
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
	return true, nil
}

func (m *MockTaskStore) GetAll(ctx context.Context) ([]*models.Task, error) {
	m.record("GetAll")
	if m.GetAllErr != nil {
		return nil, m.GetAllErr
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	tasks := make([]*models.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		tasks = append(tasks, cloneTask(task))
	}
	return tasks, nil
}

func (m *MockTaskStore) Search(ctx context.Context, substring string) ([]*models.Task, error) {
	m.record("Search")
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	needle := strings.ToLower(substring)
	var found []*models.Task
	for _, task := range m.tasks {
		if strings.Contains(strings.ToLower(task.Description), needle) {
			found = append(found, cloneTask(task))
		}
	}
	return found, nil
}

func (m *MockTaskStore) record(op string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.Calls[op]++
}

// indexOf expects the mutex to be held.
func (m *MockTaskStore) indexOf(id int64) int {
	for i, task := range m.tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

func cloneTask(task *models.Task) *models.Task {
	c := *task
	return &c
}
