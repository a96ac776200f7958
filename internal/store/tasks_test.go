// ABOUTME: Tests for task store methods against a real SQLite database
// ABOUTME: Covers CRUD, per-user scoping, and paged queries with filters

package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTaskOwner(t *testing.T, s *SQLiteStore, username string) *User {
	t.Helper()
	user := testUser(username, username+"@example.com", RoleUser)
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func TestCreateTask_AndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createTaskOwner(t, s, "alice")

	task := &Task{
		Title:       "write report",
		Description: "quarterly numbers",
		UserID:      owner.ID,
	}
	require.NoError(t, s.CreateTask(ctx, task))
	assert.NotZero(t, task.ID)

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "write report", got.Title)
	assert.Equal(t, "quarterly numbers", got.Description)
	assert.False(t, got.Completed)
	assert.Equal(t, owner.ID, got.UserID)
}

func TestGetTask_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetTask(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateTask_UnknownOwner(t *testing.T) {
	s := newTestStore(t)

	// Foreign key constraint rejects tasks with no owning user
	err := s.CreateTask(context.Background(), &Task{Title: "orphan", UserID: 999})
	require.Error(t, err)
}

func TestListTasksByUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := createTaskOwner(t, s, "alice")
	bob := createTaskOwner(t, s, "bob")

	require.NoError(t, s.CreateTask(ctx, &Task{Title: "a1", UserID: alice.ID}))
	require.NoError(t, s.CreateTask(ctx, &Task{Title: "b1", UserID: bob.ID}))
	require.NoError(t, s.CreateTask(ctx, &Task{Title: "a2", UserID: alice.ID}))

	all, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	aliceTasks, err := s.ListTasksByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceTasks, 2)
	assert.Equal(t, "a1", aliceTasks[0].Title)
	assert.Equal(t, "a2", aliceTasks[1].Title)
}

func TestUpdateTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createTaskOwner(t, s, "alice")

	task := &Task{Title: "draft", UserID: owner.ID}
	require.NoError(t, s.CreateTask(ctx, task))

	task.Title = "final"
	task.Completed = true
	require.NoError(t, s.UpdateTask(ctx, task))

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	assert.True(t, got.Completed)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestUpdateTask_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateTask(context.Background(), &Task{ID: 999, Title: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createTaskOwner(t, s, "alice")

	task := &Task{Title: "temp", UserID: owner.ID}
	require.NoError(t, s.CreateTask(ctx, task))

	require.NoError(t, s.DeleteTask(ctx, task.ID))
	assert.ErrorIs(t, s.DeleteTask(ctx, task.ID), ErrNotFound)
}

func TestListTasksPaged(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createTaskOwner(t, s, "alice")
	other := createTaskOwner(t, s, "bob")

	for i := 0; i < 25; i++ {
		require.NoError(t, s.CreateTask(ctx, &Task{
			Title:     fmt.Sprintf("task-%02d", i),
			Completed: i%2 == 0,
			UserID:    owner.ID,
		}))
	}
	// Another user's task must never leak into the page
	require.NoError(t, s.CreateTask(ctx, &Task{Title: "other", UserID: other.ID}))

	page, err := s.ListTasksPaged(ctx, owner.ID, TaskFilter{Page: 0, Size: 10})
	require.NoError(t, err)
	assert.Len(t, page.Tasks, 10)
	assert.Equal(t, int64(25), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)

	last, err := s.ListTasksPaged(ctx, owner.ID, TaskFilter{Page: 2, Size: 10})
	require.NoError(t, err)
	assert.Len(t, last.Tasks, 5)
}

func TestListTasksPaged_CompletedFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createTaskOwner(t, s, "alice")

	for i := 0; i < 6; i++ {
		require.NoError(t, s.CreateTask(ctx, &Task{
			Title:     fmt.Sprintf("task-%d", i),
			Completed: i < 2,
			UserID:    owner.ID,
		}))
	}

	completed := true
	page, err := s.ListTasksPaged(ctx, owner.ID, TaskFilter{Completed: &completed})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalItems)
	for _, task := range page.Tasks {
		assert.True(t, task.Completed)
	}

	pending := false
	page, err = s.ListTasksPaged(ctx, owner.ID, TaskFilter{Completed: &pending})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.TotalItems)
}

func TestListTasksPaged_Sorting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createTaskOwner(t, s, "alice")

	for _, title := range []string{"banana", "apple", "cherry"} {
		require.NoError(t, s.CreateTask(ctx, &Task{Title: title, UserID: owner.ID}))
	}

	page, err := s.ListTasksPaged(ctx, owner.ID, TaskFilter{SortBy: "title", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 3)
	assert.Equal(t, "apple", page.Tasks[0].Title)
	assert.Equal(t, "cherry", page.Tasks[2].Title)

	page, err = s.ListTasksPaged(ctx, owner.ID, TaskFilter{SortBy: "title", Order: "desc"})
	require.NoError(t, err)
	assert.Equal(t, "cherry", page.Tasks[0].Title)
}

func TestListTasksPaged_UnknownSortFallsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := createTaskOwner(t, s, "alice")

	require.NoError(t, s.CreateTask(ctx, &Task{Title: "only", UserID: owner.ID}))

	// A hostile sort_by must not reach the SQL string
	page, err := s.ListTasksPaged(ctx, owner.ID, TaskFilter{SortBy: "title; DROP TABLE tasks"})
	require.NoError(t, err)
	assert.Len(t, page.Tasks, 1)
}
