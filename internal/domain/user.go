package domain

import "time"

// Role controls access to the admin endpoints (station and trip mutation,
// user management).
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is an account that can authenticate against the API.
// The password secret (hash + salt) never leaves the server: both fields are
// excluded from JSON serialization.
type User struct {
	ID           int64      `json:"id"`
	LastName     string     `json:"lastName"`
	FirstName    string     `json:"firstName"`
	Email        string     `json:"email"`
	Role         Role       `json:"role"`
	PasswordHash string     `json:"-"`
	PasswordSalt string     `json:"-"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}
