// ABOUTME: In-memory mock implementation of the store interfaces for tests
// ABOUTME: Mirrors SQLiteStore semantics including uniqueness and cascade delete

package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockStore is an in-memory Store implementation for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu         sync.Mutex
	users      map[int64]*User
	tasks      map[int64]*Task
	nextUserID int64
	nextTaskID int64

	// ForcedErr, when set, is returned by every method. Lets tests
	// exercise the unclassified-failure path.
	ForcedErr error
}

// Ensure MockStore implements the combined interface.
var _ Store = (*MockStore)(nil)

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		users:      make(map[int64]*User),
		tasks:      make(map[int64]*Task),
		nextUserID: 1,
		nextTaskID: 1,
	}
}

func copyUser(u *User) *User {
	c := *u
	return &c
}

func copyTask(t *Task) *Task {
	c := *t
	return &c
}

// CreateUser inserts a user, enforcing username/email uniqueness.
func (m *MockStore) CreateUser(ctx context.Context, user *User) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return ErrUsernameExists
		}
		if u.Email == user.Email {
			return ErrEmailExists
		}
	}

	user.ID = m.nextUserID
	m.nextUserID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	m.users[user.ID] = copyUser(user)
	return nil
}

// GetUser returns the user with the given id.
func (m *MockStore) GetUser(ctx context.Context, id int64) (*User, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

// GetUserByUsername returns the user with the given username.
func (m *MockStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

// GetUserByEmail returns the user with the given email.
func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

// ListUsers returns all users ordered by id.
func (m *MockStore) ListUsers(ctx context.Context) ([]*User, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// UpdateUser replaces the stored user fields.
func (m *MockStore) UpdateUser(ctx context.Context, user *User) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	for _, u := range m.users {
		if u.ID == user.ID {
			continue
		}
		if u.Username == user.Username {
			return ErrUsernameExists
		}
		if u.Email == user.Email {
			return ErrEmailExists
		}
	}
	updated := copyUser(user)
	updated.CreatedAt = existing.CreatedAt
	m.users[user.ID] = updated
	return nil
}

// DeleteUser removes a user and cascades to their tasks.
func (m *MockStore) DeleteUser(ctx context.Context, id int64) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	for tid, t := range m.tasks {
		if t.UserID == id {
			delete(m.tasks, tid)
		}
	}
	return nil
}

// UserExists reports whether a user with the given id exists.
func (m *MockStore) UserExists(ctx context.Context, id int64) (bool, error) {
	if m.ForcedErr != nil {
		return false, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.users[id]
	return ok, nil
}

// CreateTask inserts a task.
func (m *MockStore) CreateTask(ctx context.Context, task *Task) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	task.ID = m.nextTaskID
	m.nextTaskID++
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now
	m.tasks[task.ID] = copyTask(task)
	return nil
}

// GetTask returns the task with the given id.
func (m *MockStore) GetTask(ctx context.Context, id int64) (*Task, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyTask(t), nil
}

// ListTasks returns all tasks ordered by id.
func (m *MockStore) ListTasks(ctx context.Context) ([]*Task, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sortedTasks(func(*Task) bool { return true }), nil
}

// ListTasksByUser returns all tasks owned by the given user.
func (m *MockStore) ListTasksByUser(ctx context.Context, userID int64) ([]*Task, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sortedTasks(func(t *Task) bool { return t.UserID == userID }), nil
}

// ListTasksPaged returns one page of the given user's tasks.
func (m *MockStore) ListTasksPaged(ctx context.Context, userID int64, filter TaskFilter) (*TaskPage, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := m.sortedTasks(func(t *Task) bool {
		if t.UserID != userID {
			return false
		}
		if filter.Completed != nil && t.Completed != *filter.Completed {
			return false
		}
		return true
	})

	desc := strings.EqualFold(filter.Order, "desc")
	sort.SliceStable(matched, func(i, j int) bool {
		var less bool
		switch filter.SortBy {
		case "title":
			less = matched[i].Title < matched[j].Title
		case "completed":
			less = !matched[i].Completed && matched[j].Completed
		case "id":
			less = matched[i].ID < matched[j].ID
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if desc {
			return !less
		}
		return less
	})

	page := filter.Page
	if page < 0 {
		page = 0
	}
	size := filter.Size
	if size <= 0 {
		size = defaultPageSize
	}

	total := int64(len(matched))
	start := page * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	return &TaskPage{
		Tasks:      matched[start:end],
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}, nil
}

// UpdateTask replaces mutable task fields.
func (m *MockStore) UpdateTask(ctx context.Context, task *Task) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.tasks[task.ID]
	if !ok {
		return ErrNotFound
	}
	updated := copyTask(task)
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	m.tasks[task.ID] = updated
	return nil
}

// DeleteTask removes a task.
func (m *MockStore) DeleteTask(ctx context.Context, id int64) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

// Close is a no-op for the mock store.
func (m *MockStore) Close() error {
	return nil
}

// sortedTasks returns copies of all tasks matching the predicate, ordered
// by id. Callers must hold the lock.
func (m *MockStore) sortedTasks(match func(*Task) bool) []*Task {
	tasks := make([]*Task, 0)
	for _, t := range m.tasks {
		if match(t) {
			tasks = append(tasks, copyTask(t))
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks
}
