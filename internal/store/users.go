// ABOUTME: User entity store methods on SQLiteStore
// ABOUTME: Handles uniqueness of usernames and emails via constraint mapping

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CreateUser inserts a new user and fills in the generated ID.
// Returns ErrUsernameExists or ErrEmailExists on uniqueness conflicts.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO users (username, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err, "users.username") {
			return ErrUsernameExists
		}
		if isUniqueConstraintError(err, "users.email") {
			return ErrEmailExists
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}
	user.ID = id

	s.logger.Debug("created user", "id", user.ID, "username", user.Username, "role", user.Role)
	return nil
}

// GetUser returns the user with the given id, or ErrNotFound.
func (s *SQLiteStore) GetUser(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, role, created_at
		FROM users
		WHERE id = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByUsername returns the user with the given username (exact,
// case-sensitive match), or ErrNotFound.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, role, created_at
		FROM users
		WHERE username = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

// GetUserByEmail returns the user with the given email, or ErrNotFound.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, role, created_at
		FROM users
		WHERE email = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

// ListUsers returns all users ordered by id.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*User, error) {
	query := `
		SELECT id, username, email, password_hash, role, created_at
		FROM users
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		var user User
		var createdAtStr string
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&createdAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		user.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

// UpdateUser updates username, email, password hash, and role of an
// existing user. Returns ErrNotFound if the user does not exist.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET username = ?, email = ?, password_hash = ?, role = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err, "users.username") {
			return ErrUsernameExists
		}
		if isUniqueConstraintError(err, "users.email") {
			return ErrEmailExists
		}
		return fmt.Errorf("updating user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated user", "id", user.ID, "username", user.Username)
	return nil
}

// DeleteUser removes a user and, via the foreign key cascade, their
// tasks. Returns ErrNotFound if the user does not exist.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted user", "id", id)
	return nil
}

// UserExists reports whether a user with the given id exists.
func (s *SQLiteStore) UserExists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking user existence: %w", err)
	}
	return true, nil
}

// scanUser scans a single user row, translating sql.ErrNoRows to ErrNotFound.
func (s *SQLiteStore) scanUser(row *sql.Row) (*User, error) {
	var user User
	var createdAtStr string

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	user.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &user, nil
}
