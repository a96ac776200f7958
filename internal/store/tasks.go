// ABOUTME: Task entity store methods on SQLiteStore
// ABOUTME: Includes paged queries with completion filter and sort whitelist

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Default page size for paged task queries.
const defaultPageSize = 10

// taskSortColumns whitelists sortable columns. Anything else falls back
// to created_at.
var taskSortColumns = map[string]string{
	"created_at": "created_at",
	"title":      "title",
	"completed":  "completed",
	"id":         "id",
}

// CreateTask inserts a new task and fills in the generated ID.
func (s *SQLiteStore) CreateTask(ctx context.Context, task *Task) error {
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	query := `
		INSERT INTO tasks (title, description, completed, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.Completed,
		task.UserID,
		task.CreatedAt.UTC().Format(time.RFC3339),
		task.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading task id: %w", err)
	}
	task.ID = id

	s.logger.Debug("created task", "id", task.ID, "user_id", task.UserID)
	return nil
}

// GetTask returns the task with the given id, or ErrNotFound.
func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (*Task, error) {
	query := `
		SELECT id, title, description, completed, user_id, created_at, updated_at
		FROM tasks
		WHERE id = ?
	`

	row := s.db.QueryRowContext(ctx, query, id)
	task, err := scanTask(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return task, nil
}

// ListTasks returns all tasks ordered by id.
func (s *SQLiteStore) ListTasks(ctx context.Context) ([]*Task, error) {
	query := `
		SELECT id, title, description, completed, user_id, created_at, updated_at
		FROM tasks
		ORDER BY id
	`
	return s.queryTasks(ctx, query)
}

// ListTasksByUser returns all tasks owned by the given user, ordered by id.
func (s *SQLiteStore) ListTasksByUser(ctx context.Context, userID int64) ([]*Task, error) {
	query := `
		SELECT id, title, description, completed, user_id, created_at, updated_at
		FROM tasks
		WHERE user_id = ?
		ORDER BY id
	`
	return s.queryTasks(ctx, query, userID)
}

// ListTasksPaged returns one page of the given user's tasks, optionally
// filtered by completion status and sorted by a whitelisted column.
func (s *SQLiteStore) ListTasksPaged(ctx context.Context, userID int64, filter TaskFilter) (*TaskPage, error) {
	page := filter.Page
	if page < 0 {
		page = 0
	}
	size := filter.Size
	if size <= 0 {
		size = defaultPageSize
	}

	sortCol, ok := taskSortColumns[filter.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	order := "ASC"
	if strings.EqualFold(filter.Order, "desc") {
		order = "DESC"
	}

	where := "WHERE user_id = ?"
	args := []any{userID}
	if filter.Completed != nil {
		where += " AND completed = ?"
		args = append(args, *filter.Completed)
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM tasks " + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting tasks: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, title, description, completed, user_id, created_at, updated_at
		FROM tasks
		%s
		ORDER BY %s %s
		LIMIT ? OFFSET ?
	`, where, sortCol, order)
	args = append(args, size, page*size)

	tasks, err := s.queryTasks(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &TaskPage{
		Tasks:      tasks,
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// UpdateTask updates title, description, and completion of an existing
// task. Ownership never changes after creation. Returns ErrNotFound if
// the task does not exist.
func (s *SQLiteStore) UpdateTask(ctx context.Context, task *Task) error {
	task.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE tasks
		SET title = ?, description = ?, completed = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.Completed,
		task.UpdatedAt.UTC().Format(time.RFC3339),
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated task", "id", task.ID)
	return nil
}

// DeleteTask removes a task. Returns ErrNotFound if it does not exist.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted task", "id", id)
	return nil
}

// queryTasks runs a task query and scans all rows.
func (s *SQLiteStore) queryTasks(ctx context.Context, query string, args ...any) ([]*Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*Task, 0)
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// scanTask scans a single task row using the given scan function.
func scanTask(scan func(...any) error) (*Task, error) {
	var task Task
	var createdAtStr, updatedAtStr string

	err := scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.UserID,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	task.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	task.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &task, nil
}
