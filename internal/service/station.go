package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkordes/timetable/backend/internal/domain"
	"github.com/pkordes/timetable/backend/internal/repo"
)

// Station codes are short slugs: letters, digits, hyphen, underscore.
var stationCodeRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const (
	stationCodeMaxLen = 50
	stationNameMaxLen = 200
)

// StationService implements business logic for Station operations.
type StationService struct {
	stations repo.StationRepo
}

// NewStationService constructs a StationService backed by the provided repo.
func NewStationService(stations repo.StationRepo) *StationService {
	return &StationService{stations: stations}
}

// Create validates and persists a new station. The code is normalized to
// lowercase; a duplicate code yields domain.ErrConflict.
func (s *StationService) Create(ctx context.Context, code, name string) (domain.Station, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	name = strings.TrimSpace(name)

	if code == "" || len(code) > stationCodeMaxLen || !stationCodeRe.MatchString(code) {
		return domain.Station{}, fmt.Errorf("service.StationService.Create: code must be 1-%d slug characters: %w",
			stationCodeMaxLen, domain.ErrValidation)
	}
	if name == "" || len(name) > stationNameMaxLen {
		return domain.Station{}, fmt.Errorf("service.StationService.Create: name must be 1-%d characters: %w",
			stationNameMaxLen, domain.ErrValidation)
	}

	station, err := s.stations.Create(ctx, code, name)
	if err != nil {
		return domain.Station{}, fmt.Errorf("service.StationService.Create: %w", err)
	}
	return station, nil
}

// List returns all stations ordered by code. Always returns a non-nil slice.
func (s *StationService) List(ctx context.Context) ([]domain.Station, error) {
	stations, err := s.stations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.StationService.List: %w", err)
	}
	if stations == nil {
		stations = []domain.Station{}
	}
	return stations, nil
}

// Delete removes a station by ID. A station still referenced by stop times
// cannot be deleted and yields domain.ErrConflict.
func (s *StationService) Delete(ctx context.Context, id int64) error {
	if _, err := s.stations.GetByID(ctx, id); err != nil {
		return fmt.Errorf("service.StationService.Delete: %w", err)
	}
	refs, err := s.stations.CountStopTimes(ctx, id)
	if err != nil {
		return fmt.Errorf("service.StationService.Delete: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("service.StationService.Delete: station is referenced by %d stop times: %w",
			refs, domain.ErrConflict)
	}
	if err := s.stations.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.StationService.Delete: %w", err)
	}
	return nil
}
