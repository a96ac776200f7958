// ABOUTME: Admin-only user management endpoints
// ABOUTME: Uniqueness re-checks on update, password re-hash only when provided

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/store"
)

type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
}

func (r userRequest) validateCreate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

// validateUpdate allows an empty password, meaning "keep the current one".
func (r userRequest) validateUpdate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Length(6, 100)),
	)
}

// resolveRole applies the USER default and upcasing shared with
// registration.
func resolveRole(requested string) (store.Role, error) {
	if requested == "" {
		return store.RoleUser, nil
	}
	role := store.Role(strings.ToUpper(requested))
	if !role.Valid() {
		return "", auth.ErrInvalidRole
	}
	return role, nil
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.validateCreate(); err != nil {
		respondValidationError(w, err)
		return
	}

	role, err := resolveRole(req.Role)
	if err != nil {
		respondDomainError(w, s.logger, err)
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondDomainError(w, s.logger, err)
		return
	}

	user := &store.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		respondDomainError(w, s.logger, err)
		return
	}

	s.logger.Info("user created by admin", "username", user.Username, "role", role)
	respondSuccess(w, http.StatusOK, "User created successfully!", toUserResponse(user))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		respondDomainError(w, s.logger, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	respondSuccess(w, http.StatusOK, "Users retrieved successfully!", out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		respondDomainError(w, s.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, "User retrieved successfully!", toUserResponse(user))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.validateUpdate(); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		respondDomainError(w, s.logger, err)
		return
	}

	// Uniqueness is only re-checked for fields that actually change, so
	// an update keeping the same username or email always passes.
	if req.Username != user.Username {
		if _, err := s.store.GetUserByUsername(r.Context(), req.Username); err == nil {
			respondDomainError(w, s.logger, auth.ErrDuplicateUsername)
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			respondDomainError(w, s.logger, err)
			return
		}
		user.Username = req.Username
	}
	if req.Email != user.Email {
		if _, err := s.store.GetUserByEmail(r.Context(), req.Email); err == nil {
			respondDomainError(w, s.logger, auth.ErrDuplicateEmail)
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			respondDomainError(w, s.logger, err)
			return
		}
		user.Email = req.Email
	}

	if req.Role != "" {
		role, err := resolveRole(req.Role)
		if err != nil {
			respondDomainError(w, s.logger, err)
			return
		}
		user.Role = role
	}

	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondDomainError(w, s.logger, err)
			return
		}
		user.PasswordHash = hash
	}

	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		respondDomainError(w, s.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, "User updated successfully!", toUserResponse(user))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := s.store.DeleteUser(r.Context(), id); err != nil {
		respondDomainError(w, s.logger, err)
		return
	}

	s.logger.Info("user deleted", "user_id", id)
	respondSuccess(w, http.StatusOK, "User deleted successfully!", nil)
}
