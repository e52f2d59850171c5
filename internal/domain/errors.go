package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. a malformed time, a non-contiguous stop sequence).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a uniqueness rule would be violated
// (e.g. registering an email or station code that is already taken).
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned when credentials are missing or wrong.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")
