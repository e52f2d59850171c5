// Package service contains the business logic for the timetable API.
// Services validate inputs, run the timetable engine, and orchestrate repo
// calls. No SQL lives here; services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pkordes/timetable/backend/internal/domain"
	"github.com/pkordes/timetable/backend/internal/repo"
	"github.com/pkordes/timetable/backend/internal/timetable"
)

// TripInput is the caller-facing shape of a trip create/replace: stops are
// referenced by station code, and their list order is the intended order.
// Sequence numbers are assigned here, not by the caller.
type TripInput struct {
	TrainNo   *string
	Days      []int
	StartDate string
	EndDate   string
	Stops     []domain.StopTime
}

// SearchParams is the caller-facing shape of a departure search.
type SearchParams struct {
	From  string
	To    string
	Date  string
	Time  string
	Limit *int
}

// Search limit bounds: a missing or out-of-range limit is clamped rather
// than rejected.
const (
	searchLimitDefault = 50
	searchLimitMax     = 200
)

// TripService implements business logic for Trip operations. It holds the
// station repo because stop station codes resolve to IDs before persistence.
type TripService struct {
	trips    repo.TripRepo
	stations repo.StationRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, stations repo.StationRepo) *TripService {
	return &TripService{trips: trips, stations: stations}
}

// Create validates and persists a new trip, returning its ID.
// Returns a timetable error (wrapping domain.ErrValidation) when the
// snapshot violates an invariant or references an unknown station.
func (s *TripService) Create(ctx context.Context, in TripInput) (int64, error) {
	snapshot := snapshotOf(in)
	if err := timetable.ValidateTrip(snapshot); err != nil {
		return 0, fmt.Errorf("service.TripService.Create: %w", err)
	}
	resolved, err := s.resolveStops(ctx, snapshot.Stops)
	if err != nil {
		return 0, fmt.Errorf("service.TripService.Create: %w", err)
	}

	id, err := s.trips.Create(ctx, repo.TripInput{
		TrainNo:   snapshot.TrainNo,
		Days:      snapshot.Days,
		StartDate: snapshot.StartDate,
		EndDate:   snapshot.EndDate,
		Stops:     resolved,
	})
	if err != nil {
		return 0, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return id, nil
}

// GetByID returns the full snapshot of one trip.
func (s *TripService) GetByID(ctx context.Context, id int64) (domain.TripSnapshot, error) {
	snapshot, err := s.trips.GetSnapshot(ctx, id)
	if err != nil {
		return domain.TripSnapshot{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return snapshot, nil
}

// List returns one page of trips plus the total match count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context, q domain.TripListQuery) ([]domain.TripListItem, int64, error) {
	if q.ActiveOnDate != "" && !timetable.IsValidDate(q.ActiveOnDate) {
		return nil, 0, fmt.Errorf("service.TripService.List: activeOnDate must be YYYY-MM-DD: %w", domain.ErrValidation)
	}
	items, total, err := s.trips.List(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	if items == nil {
		items = []domain.TripListItem{}
	}
	return items, total, nil
}

// Replace validates and persists a full replacement of an existing trip.
// The same invariants as Create are re-checked from scratch.
func (s *TripService) Replace(ctx context.Context, id int64, in TripInput) error {
	snapshot := snapshotOf(in)
	if err := timetable.ValidateTrip(snapshot); err != nil {
		return fmt.Errorf("service.TripService.Replace: %w", err)
	}
	resolved, err := s.resolveStops(ctx, snapshot.Stops)
	if err != nil {
		return fmt.Errorf("service.TripService.Replace: %w", err)
	}

	err = s.trips.Replace(ctx, id, repo.TripInput{
		TrainNo:   snapshot.TrainNo,
		Days:      snapshot.Days,
		StartDate: snapshot.StartDate,
		EndDate:   snapshot.EndDate,
		Stops:     resolved,
	})
	if err != nil {
		return fmt.Errorf("service.TripService.Replace: %w", err)
	}
	return nil
}

// Patch loads the current snapshot, applies one timetable edit command, and
// persists the re-validated result. All-or-nothing: any failure leaves the
// stored trip untouched. Returns the fresh snapshot on success.
func (s *TripService) Patch(ctx context.Context, id int64, p timetable.Patch) (domain.TripSnapshot, error) {
	current, err := s.trips.GetSnapshot(ctx, id)
	if err != nil {
		return domain.TripSnapshot{}, fmt.Errorf("service.TripService.Patch: %w", err)
	}

	next, err := timetable.Apply(current, p)
	if err != nil {
		return domain.TripSnapshot{}, fmt.Errorf("service.TripService.Patch: %w", err)
	}

	resolved, err := s.resolveStops(ctx, next.Stops)
	if err != nil {
		return domain.TripSnapshot{}, fmt.Errorf("service.TripService.Patch: %w", err)
	}

	err = s.trips.Replace(ctx, id, repo.TripInput{
		TrainNo:   next.TrainNo,
		Days:      next.Days,
		StartDate: next.StartDate,
		EndDate:   next.EndDate,
		Stops:     resolved,
	})
	if err != nil {
		return domain.TripSnapshot{}, fmt.Errorf("service.TripService.Patch: %w", err)
	}

	updated, err := s.trips.GetSnapshot(ctx, id)
	if err != nil {
		return domain.TripSnapshot{}, fmt.Errorf("service.TripService.Patch: %w", err)
	}
	return updated, nil
}

// Delete removes a trip by ID.
func (s *TripService) Delete(ctx context.Context, id int64) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Search finds trip segments from one station to another on a date, at or
// after a time, ordered by departure and truncated to the (clamped) limit.
// Always returns a non-nil slice.
func (s *TripService) Search(ctx context.Context, p SearchParams) ([]domain.Segment, error) {
	from := strings.ToLower(strings.TrimSpace(p.From))
	to := strings.ToLower(strings.TrimSpace(p.To))
	if from == to {
		return nil, fmt.Errorf("service.TripService.Search: from and to must be different: %w", domain.ErrValidation)
	}
	if !timetable.IsValidDate(p.Date) {
		return nil, fmt.Errorf("service.TripService.Search: date must be YYYY-MM-DD: %w", domain.ErrValidation)
	}
	if !timetable.IsValidTime(p.Time) {
		return nil, fmt.Errorf("service.TripService.Search: time must be HH:MM: %w", domain.ErrValidation)
	}

	fromStation, err := s.lookupStation(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.Search: %w", err)
	}
	toStation, err := s.lookupStation(ctx, to)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.Search: %w", err)
	}

	limit := searchLimitDefault
	if p.Limit != nil {
		limit = *p.Limit
		if limit < 1 {
			limit = 1
		}
		if limit > searchLimitMax {
			limit = searchLimitMax
		}
	}

	candidates, err := s.trips.FindConnecting(ctx, fromStation.ID, toStation.ID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.Search: %w", err)
	}

	return timetable.SearchDepartures(candidates, timetable.SearchQuery{
		FromStationID: fromStation.ID,
		ToStationID:   toStation.ID,
		Date:          p.Date,
		Time:          p.Time,
		Limit:         limit,
	}), nil
}

// resolveStops maps each stop's station code to its ID via the station
// lookup. An unknown code aborts with an unknown_station timetable error,
// distinguishable from structural validation failures but still a 400 for
// handlers.
func (s *TripService) resolveStops(ctx context.Context, stops []domain.StopTime) ([]domain.StopTime, error) {
	resolved := make([]domain.StopTime, len(stops))
	for i, st := range stops {
		station, err := s.lookupStation(ctx, st.StationCode)
		if err != nil {
			return nil, err
		}
		st.StationID = station.ID
		st.StationCode = station.Code
		resolved[i] = st
	}
	return resolved, nil
}

func (s *TripService) lookupStation(ctx context.Context, code string) (domain.Station, error) {
	station, err := s.stations.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Station{}, timetable.NewError(timetable.KindUnknownStation, "unknown stationCode: %s", code)
		}
		return domain.Station{}, err
	}
	return station, nil
}

// snapshotOf turns a caller-facing input into a snapshot with sequence
// numbers assigned from list order.
func snapshotOf(in TripInput) domain.TripSnapshot {
	stops := make([]domain.StopTime, len(in.Stops))
	copy(stops, in.Stops)
	for i := range stops {
		stops[i].Seq = i + 1
	}
	return domain.TripSnapshot{
		TrainNo:   in.TrainNo,
		Days:      in.Days,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Stops:     stops,
	}
}
