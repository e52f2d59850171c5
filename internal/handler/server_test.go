package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/timetable/backend/internal/auth"
	"github.com/pkordes/timetable/backend/internal/domain"
	"github.com/pkordes/timetable/backend/internal/handler"
	"github.com/pkordes/timetable/backend/internal/middleware"
	"github.com/pkordes/timetable/backend/internal/service"
	"github.com/pkordes/timetable/backend/internal/timetable"
)

// Function-field mocks for the servicer interfaces. Handlers only ever see
// these interfaces, so tests need neither a database nor the real services.

type mockStationService struct {
	create func(ctx context.Context, code, name string) (domain.Station, error)
	list   func(ctx context.Context) ([]domain.Station, error)
	delete func(ctx context.Context, id int64) error
}

func (m *mockStationService) Create(ctx context.Context, code, name string) (domain.Station, error) {
	return m.create(ctx, code, name)
}
func (m *mockStationService) List(ctx context.Context) ([]domain.Station, error) {
	return m.list(ctx)
}
func (m *mockStationService) Delete(ctx context.Context, id int64) error { return m.delete(ctx, id) }

type mockTripService struct {
	create  func(ctx context.Context, in service.TripInput) (int64, error)
	getByID func(ctx context.Context, id int64) (domain.TripSnapshot, error)
	list    func(ctx context.Context, q domain.TripListQuery) ([]domain.TripListItem, int64, error)
	replace func(ctx context.Context, id int64, in service.TripInput) error
	patch   func(ctx context.Context, id int64, p timetable.Patch) (domain.TripSnapshot, error)
	delete  func(ctx context.Context, id int64) error
	search  func(ctx context.Context, p service.SearchParams) ([]domain.Segment, error)
}

func (m *mockTripService) Create(ctx context.Context, in service.TripInput) (int64, error) {
	return m.create(ctx, in)
}
func (m *mockTripService) GetByID(ctx context.Context, id int64) (domain.TripSnapshot, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripService) List(ctx context.Context, q domain.TripListQuery) ([]domain.TripListItem, int64, error) {
	return m.list(ctx, q)
}
func (m *mockTripService) Replace(ctx context.Context, id int64, in service.TripInput) error {
	return m.replace(ctx, id, in)
}
func (m *mockTripService) Patch(ctx context.Context, id int64, p timetable.Patch) (domain.TripSnapshot, error) {
	return m.patch(ctx, id, p)
}
func (m *mockTripService) Delete(ctx context.Context, id int64) error { return m.delete(ctx, id) }
func (m *mockTripService) Search(ctx context.Context, p service.SearchParams) ([]domain.Segment, error) {
	return m.search(ctx, p)
}

type mockUserService struct {
	create  func(ctx context.Context, in service.UserInput) (domain.User, error)
	getByID func(ctx context.Context, id int64) (domain.User, error)
	list    func(ctx context.Context) ([]domain.User, error)
}

func (m *mockUserService) Create(ctx context.Context, in service.UserInput) (domain.User, error) {
	return m.create(ctx, in)
}
func (m *mockUserService) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserService) List(ctx context.Context) ([]domain.User, error) { return m.list(ctx) }

type mockAuthService struct {
	login func(ctx context.Context, email, password string) (domain.User, string, error)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	return m.login(ctx, email, password)
}

var (
	_ handler.StationServicer = (*mockStationService)(nil)
	_ handler.TripServicer    = (*mockTripService)(nil)
	_ handler.UserServicer    = (*mockUserService)(nil)
	_ handler.AuthServicer    = (*mockAuthService)(nil)
)

// ---- test server -----------------------------------------------------------

type testDeps struct {
	stations *mockStationService
	trips    *mockTripService
	users    *mockUserService
	auth     *mockAuthService
}

var testIssuer = auth.NewTokenIssuer("handler-test-secret", time.Hour)

// newTestRouter assembles a full router with a real authenticator so the
// auth and role guards are exercised exactly as in production.
func newTestRouter(d testDeps) http.Handler {
	if d.stations == nil {
		d.stations = &mockStationService{}
	}
	if d.trips == nil {
		d.trips = &mockTripService{}
	}
	if d.users == nil {
		d.users = &mockUserService{}
	}
	if d.auth == nil {
		d.auth = &mockAuthService{}
	}
	srv := handler.NewServer(d.stations, d.trips, d.users, d.auth, "test", time.Hour)
	return srv.Routes(middleware.NewAuthenticator(testIssuer))
}

func tokenFor(t *testing.T, role domain.Role) string {
	t.Helper()
	token, err := testIssuer.Sign(domain.User{ID: 1, Email: "x@example.com", Role: role})
	require.NoError(t, err)
	return token
}

// doRequest performs one request against the router. A non-empty token goes
// into the Authorization header.
func doRequest(h http.Handler, method, target, token string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(s string) io.Reader { return strings.NewReader(s) }
