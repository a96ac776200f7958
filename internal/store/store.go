// ABOUTME: Store interfaces and data types for taskhive persistence
// ABOUTME: Defines User, Task structs and the UserStore/TaskStore interfaces

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when creating or renaming a user to a
// username that is already taken (exact, case-sensitive match)
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned when creating or updating a user with an
// email that is already taken
var ErrEmailExists = errors.New("email already exists")

// Role represents an authorization role assigned to a user
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ValidRoles lists all valid role names
var ValidRoles = []Role{RoleUser, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// User represents a registered account. PasswordHash is a bcrypt hash and
// must never be returned to clients.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Task represents a single task owned by a user
type Task struct {
	ID          int64
	Title       string
	Description string
	Completed   bool
	UserID      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter controls paged task queries. Page is zero-based. A nil
// Completed means no completion filter.
type TaskFilter struct {
	Page      int
	Size      int
	Completed *bool
	SortBy    string // created_at | title | completed (default created_at)
	Order     string // asc | desc (default asc)
}

// TaskPage is one page of task results together with paging metadata
type TaskPage struct {
	Tasks      []*Task
	Page       int
	Size       int
	TotalItems int64
	TotalPages int
}

// UserStore defines the interface for user persistence
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id int64) error
	UserExists(ctx context.Context, id int64) (bool, error)
}

// TaskStore defines the interface for task persistence
type TaskStore interface {
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id int64) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	ListTasksByUser(ctx context.Context, userID int64) ([]*Task, error)
	ListTasksPaged(ctx context.Context, userID int64, filter TaskFilter) (*TaskPage, error)
	UpdateTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, id int64) error
}

// Store combines all persistence interfaces
type Store interface {
	UserStore
	TaskStore
	Close() error
}
