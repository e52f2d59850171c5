// Package handler implements the HTTP handlers for the timetable API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pkordes/timetable/backend/internal/domain"
	"github.com/pkordes/timetable/backend/internal/middleware"
	"github.com/pkordes/timetable/backend/internal/service"
	"github.com/pkordes/timetable/backend/internal/timetable"
)

// StationServicer defines the business operations the station handlers
// depend on. Defining the interface here (in the consumer package) follows
// the Go convention: "accept interfaces, return concrete types". It lets
// handler tests inject a mock without touching the database or service layer.
type StationServicer interface {
	Create(ctx context.Context, code, name string) (domain.Station, error)
	List(ctx context.Context) ([]domain.Station, error)
	Delete(ctx context.Context, id int64) error
}

// TripServicer defines the business operations the trip handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, in service.TripInput) (int64, error)
	GetByID(ctx context.Context, id int64) (domain.TripSnapshot, error)
	List(ctx context.Context, q domain.TripListQuery) ([]domain.TripListItem, int64, error)
	Replace(ctx context.Context, id int64, in service.TripInput) error
	Patch(ctx context.Context, id int64, p timetable.Patch) (domain.TripSnapshot, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, p service.SearchParams) ([]domain.Segment, error)
}

// UserServicer defines the business operations the user handlers depend on.
type UserServicer interface {
	Create(ctx context.Context, in service.UserInput) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// AuthServicer defines the credential check the auth handlers depend on.
type AuthServicer interface {
	Login(ctx context.Context, email, password string) (domain.User, string, error)
}

// Server holds the handler dependencies. Wire it in main.go via Routes.
type Server struct {
	stations StationServicer
	trips    TripServicer
	users    UserServicer
	auth     AuthServicer

	validate  *validator.Validate
	env       string
	cookieTTL time.Duration
	startedAt time.Time
}

// NewServer constructs the Server with all its dependencies. env names the
// deployment environment reported by the health endpoint. cookieTTL is
// the lifetime of the auth cookie set on login; keep it equal to the token
// TTL so the cookie does not outlive the token.
func NewServer(stations StationServicer, trips TripServicer, users UserServicer, auth AuthServicer, env string, cookieTTL time.Duration) *Server {
	return &Server{
		stations:  stations,
		trips:     trips,
		users:     users,
		auth:      auth,
		validate:  validator.New(),
		env:       env,
		cookieTTL: cookieTTL,
		startedAt: time.Now(),
	}
}

// Routes assembles the API router. authenticate is the token-checking
// middleware; the admin subtree additionally requires the admin role.
func (s *Server) Routes(authenticate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/stations", s.ListStations)
	r.Get("/trips", s.ListTrips)
	r.Get("/trips/search", s.SearchTrips)
	r.Get("/trips/{tripID}", s.GetTrip)
	r.Post("/auth/sign-up", s.SignUp)
	r.Post("/auth/login", s.Login)
	r.Post("/auth/logout", s.Logout)

	r.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/auth/profile", s.Profile)
		r.Get("/users/me", s.Profile)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdmin))
			r.Post("/stations", s.CreateStation)
			r.Delete("/stations/{stationID}", s.DeleteStation)
			r.Post("/trips", s.CreateTrip)
			r.Put("/trips/{tripID}", s.ReplaceTrip)
			r.Patch("/trips/{tripID}", s.PatchTrip)
			r.Delete("/trips/{tripID}", s.DeleteTrip)
			r.Get("/users", s.ListUsers)
			r.Post("/users", s.CreateUser)
		})
	})

	return r
}
