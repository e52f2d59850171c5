// Package domain contains the core data types for the timetable API.
// This package has zero external dependencies and is imported by every other
// internal package (timetable, repo, service, handler).
package domain

// Station is a place a trip can call at. Codes are stored lowercase so that
// uniqueness is case-insensitive; lookups lowercase their input before
// hitting the database.
type Station struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
