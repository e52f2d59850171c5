package handler

import (
	"net/http"
	"strconv"

	"github.com/pkordes/timetable/backend/internal/domain"
	"github.com/pkordes/timetable/backend/internal/middleware"
	"github.com/pkordes/timetable/backend/internal/service"
)

type signUpRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// SignUp handles POST /auth/sign-up. Self-registered accounts always get the
// regular user role; admins are created through POST /users.
func (s *Server) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	user, err := s.users.Create(r.Context(), service.UserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      domain.RoleUser,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	// Log the fresh account straight in so the client gets a token without a
	// second round trip.
	user, token, err := s.auth.Login(r.Context(), user.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	s.setAuthCookie(w, token)
	writeJSON(w, http.StatusCreated, loginResponse{Token: token, User: user})
}

// Login handles POST /auth/login. The token is returned in the body for API
// clients and set as an httpOnly cookie for browsers.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	user, token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	s.setAuthCookie(w, token)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout handles POST /auth/logout by expiring the auth cookie. The token
// itself stays valid until its TTL runs out; there is no server-side session.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Profile handles GET /auth/profile and GET /users/me for the authenticated
// user.
func (s *Server) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.cookieTTL.Seconds()),
	})
}
