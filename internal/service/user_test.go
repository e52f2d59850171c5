package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/timetable/backend/internal/auth"
	"github.com/pkordes/timetable/backend/internal/domain"
	"github.com/pkordes/timetable/backend/internal/repo"
	"github.com/pkordes/timetable/backend/internal/service"
)

// mockUserRepo is a hand-written test double for repo.UserRepo.
type mockUserRepo struct {
	create          func(ctx context.Context, u domain.User) (domain.User, error)
	getByID         func(ctx context.Context, id int64) (domain.User, error)
	getByEmail      func(ctx context.Context, email string) (domain.User, error)
	list            func(ctx context.Context) ([]domain.User, error)
	updateLastLogin func(ctx context.Context, id int64, at time.Time) error
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	return m.list(ctx)
}
func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return m.updateLastLogin(ctx, id, at)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

func validUserInput() service.UserInput {
	return service.UserInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com",
		Password:  "analytical-engine",
		Role:      domain.RoleUser,
	}
}

func echoUserRepo(captured *domain.User) *mockUserRepo {
	return &mockUserRepo{
		create: func(_ context.Context, u domain.User) (domain.User, error) {
			if captured != nil {
				*captured = u
			}
			u.ID = 1
			return u, nil
		},
	}
}

// ---- Create tests ----------------------------------------------------------

func TestUserService_Create_Valid(t *testing.T) {
	var captured domain.User
	svc := service.NewUserService(echoUserRepo(&captured))

	got, err := svc.Create(context.Background(), validUserInput())

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email, "email is normalized to lowercase")
	assert.NotEmpty(t, captured.PasswordSalt)
	// The stored hash must verify against the original password.
	assert.True(t, auth.VerifyPassword("analytical-engine", captured.PasswordSalt, captured.PasswordHash))
	assert.False(t, auth.VerifyPassword("wrong", captured.PasswordSalt, captured.PasswordHash))
}

func TestUserService_Create_MissingName(t *testing.T) {
	svc := service.NewUserService(echoUserRepo(nil))

	in := validUserInput()
	in.FirstName = "  "

	_, err := svc.Create(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_Create_BadEmail(t *testing.T) {
	svc := service.NewUserService(echoUserRepo(nil))

	for _, email := range []string{"", "not-an-email", "a@b", "two words@example.com"} {
		in := validUserInput()
		in.Email = email
		_, err := svc.Create(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrValidation, "email %q", email)
	}
}

func TestUserService_Create_ShortPassword(t *testing.T) {
	svc := service.NewUserService(echoUserRepo(nil))

	in := validUserInput()
	in.Password = "short"

	_, err := svc.Create(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_Create_BadRole(t *testing.T) {
	svc := service.NewUserService(echoUserRepo(nil))

	in := validUserInput()
	in.Role = "superadmin"

	_, err := svc.Create(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	users := &mockUserRepo{
		create: func(_ context.Context, _ domain.User) (domain.User, error) {
			return domain.User{}, domain.ErrConflict
		},
	}
	svc := service.NewUserService(users)

	_, err := svc.Create(context.Background(), validUserInput())

	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ---- EnsureAdmin tests -----------------------------------------------------

func TestUserService_EnsureAdmin_CreatesWhenMissing(t *testing.T) {
	var captured domain.User
	users := echoUserRepo(&captured)
	users.getByEmail = func(_ context.Context, _ string) (domain.User, error) {
		return domain.User{}, domain.ErrNotFound
	}
	svc := service.NewUserService(users)

	in := validUserInput()
	in.Role = "" // the caller never picks the role

	got, created, err := svc.EnsureAdmin(context.Background(), in)

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.RoleAdmin, got.Role, "seeded account is always an admin")
	assert.Equal(t, "ada@example.com", captured.Email)
	assert.True(t, auth.VerifyPassword("analytical-engine", captured.PasswordSalt, captured.PasswordHash))
}

func TestUserService_EnsureAdmin_ExistingAccountUntouched(t *testing.T) {
	existing := domain.User{ID: 7, Email: "ada@example.com", Role: domain.RoleUser}
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, email string) (domain.User, error) {
			assert.Equal(t, "ada@example.com", email, "lookup is lowercased")
			return existing, nil
		},
		create: func(_ context.Context, _ domain.User) (domain.User, error) {
			t.Fatal("create must not be called when the email is taken")
			return domain.User{}, nil
		},
	}
	svc := service.NewUserService(users)

	in := validUserInput()
	in.Email = " Ada@Example.com "

	got, created, err := svc.EnsureAdmin(context.Background(), in)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing, got, "existing account comes back as-is, role included")
}

func TestUserService_EnsureAdmin_LookupError(t *testing.T) {
	users := &mockUserRepo{
		getByEmail: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{}, assert.AnError
		},
	}
	svc := service.NewUserService(users)

	_, created, err := svc.EnsureAdmin(context.Background(), validUserInput())

	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, created)
}

// ---- GetByID / List tests --------------------------------------------------

func TestUserService_GetByID_NotFound(t *testing.T) {
	users := &mockUserRepo{
		getByID: func(_ context.Context, _ int64) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	}
	svc := service.NewUserService(users)

	_, err := svc.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_List_Empty(t *testing.T) {
	users := &mockUserRepo{
		list: func(_ context.Context) ([]domain.User, error) { return nil, nil },
	}
	svc := service.NewUserService(users)

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
