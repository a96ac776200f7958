// ABOUTME: Task CRUD and paged listing endpoints
// ABOUTME: Mutations are admin-only; reads are scoped to the calling identity

package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/store"
)

type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

func (r taskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(3, 100)),
		validation.Field(&r.Description, validation.Length(0, 500)),
	)
}

type taskResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	UserID      int64  `json:"user_id"`
	CreatedAt   string `json:"created_at"`
}

func toTaskResponse(t *store.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toTaskResponses(tasks []*store.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

// pathID parses the {id} segment. A non-numeric id reads as 400.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	var (
		tasks []*store.Task
		err   error
	)
	if identity.IsAdmin() {
		tasks, err = s.store.ListTasks(r.Context())
	} else {
		tasks, err = s.store.ListTasksByUser(r.Context(), identity.ID)
	}
	if err != nil {
		respondDomainError(w, s.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Tasks retrieved successfully!", toTaskResponses(tasks))
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if !identity.IsAdmin() {
		respondError(w, http.StatusForbidden, "Only ADMIN can create task!")
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(w, err)
		return
	}

	// The optional user_id parameter assigns the task to another user.
	ownerID := identity.ID
	if param := r.URL.Query().Get("user_id"); param != "" {
		id, err := strconv.ParseInt(param, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, http.StatusBadRequest, "invalid user_id parameter")
			return
		}
		if _, err := s.store.GetUser(r.Context(), id); err != nil {
			respondDomainError(w, s.logger, err)
			return
		}
		ownerID = id
	}

	task := &store.Task{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		UserID:      ownerID,
	}
	if err := s.store.CreateTask(r.Context(), task); err != nil {
		respondDomainError(w, s.logger, err)
		return
	}

	s.logger.Info("task created", "task_id", task.ID, "owner_id", ownerID, "by", identity.Username)
	respondSuccess(w, http.StatusOK, "Task created successfully!", toTaskResponse(task))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		respondDomainError(w, s.logger, err)
		return
	}

	identity := auth.IdentityFromContext(r.Context())
	if !identity.CanViewTask(task) {
		respondError(w, http.StatusForbidden, "You don't have permission to view this task!")
		return
	}

	respondSuccess(w, http.StatusOK, "Task retrieved successfully!", toTaskResponse(task))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if !identity.IsAdmin() {
		respondError(w, http.StatusForbidden, "Only ADMIN can update task!")
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(w, err)
		return
	}

	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		respondDomainError(w, s.logger, err)
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.Completed = req.Completed
	if err := s.store.UpdateTask(r.Context(), task); err != nil {
		respondDomainError(w, s.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Task updated successfully!", toTaskResponse(task))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if !identity.IsAdmin() {
		respondError(w, http.StatusForbidden, "Only ADMIN can delete task!")
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := s.store.DeleteTask(r.Context(), id); err != nil {
		respondDomainError(w, s.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Task deleted successfully!", nil)
}

// handleListTasksPaged serves the caller's own tasks with paging,
// filtering, and sorting. Unlike the plain listing, admins also see only
// their own tasks here.
func (s *Server) handleListTasksPaged(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	query := r.URL.Query()

	filter := store.TaskFilter{
		SortBy: query.Get("sort_by"),
		Order:  query.Get("order"),
	}
	if v := query.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 0 {
			respondError(w, http.StatusBadRequest, "invalid page parameter")
			return
		}
		filter.Page = page
	}
	if v := query.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			respondError(w, http.StatusBadRequest, "invalid size parameter")
			return
		}
		filter.Size = size
	}
	switch status := query.Get("status"); {
	case status == "":
	case strings.EqualFold(status, "completed"):
		completed := true
		filter.Completed = &completed
	case strings.EqualFold(status, "pending"):
		completed := false
		filter.Completed = &completed
	default:
		respondError(w, http.StatusBadRequest, "status must be completed or pending")
		return
	}

	page, err := s.store.ListTasksPaged(r.Context(), identity.ID, filter)
	if err != nil {
		respondDomainError(w, s.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Tasks retrieved successfully!", map[string]any{
		"tasks":       toTaskResponses(page.Tasks),
		"page":        page.Page,
		"size":        page.Size,
		"total_items": page.TotalItems,
		"total_pages": page.TotalPages,
	})
}
