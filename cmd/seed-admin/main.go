// Package main seeds the first admin account. Sign-up only creates regular
// users and user management requires an admin, so a fresh deployment runs
// this once (or on every deploy; it is idempotent on the email) to bootstrap
// access.
//
// Required env: DATABASE_URL, ADMIN_EMAIL, ADMIN_PASSWORD.
// Optional: ADMIN_FIRST_NAME (default "Admin"), ADMIN_LAST_NAME (default "User").
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/timetable/backend/internal/repo"
	"github.com/pkordes/timetable/backend/internal/service"
	"github.com/pkordes/timetable/backend/migrations"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	dsn := mustEnv("DATABASE_URL")
	email := mustEnv("ADMIN_EMAIL")
	password := mustEnv("ADMIN_PASSWORD")

	in := service.UserInput{
		FirstName: getEnv("ADMIN_FIRST_NAME", "Admin"),
		LastName:  getEnv("ADMIN_LAST_NAME", "User"),
		Email:     email,
		Password:  password,
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// The seed may run before the API server has ever booted, so make sure
	// the users table exists. goose is a no-op on a current schema.
	if err := runMigrations(pool); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	users := service.NewUserService(repo.NewUserRepo(pool))

	admin, created, err := users.EnsureAdmin(ctx, in)
	if err != nil {
		slog.Error("failed to seed admin", "error", err)
		os.Exit(1)
	}

	if created {
		slog.Info("admin created", "email", admin.Email, "id", admin.ID)
	} else {
		slog.Info("admin already exists", "email", admin.Email, "id", admin.ID)
	}
}

// runMigrations applies the embedded goose migrations through a database/sql
// view of the pool.
func runMigrations(pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close() //nolint:errcheck // closes the sql.DB wrapper, not the pool

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		slog.Error("required environment variable not set", "name", key)
		os.Exit(1)
	}
	return v
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
