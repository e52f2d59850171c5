package handler

import (
	"net/http"

	"github.com/pkordes/timetable/backend/internal/domain"
	"github.com/pkordes/timetable/backend/internal/service"
)

type userRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=admin user"`
}

// ListUsers handles GET /users (admin only).
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// CreateUser handles POST /users (admin only). Unlike sign-up, the role is
// chosen by the caller.
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	user, err := s.users.Create(r.Context(), service.UserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}
