package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/timetable/backend/internal/domain"
)

// StationRepo defines the persistence operations for Stations.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type StationRepo interface {
	// Create inserts a new station and returns the persisted record.
	// Codes are stored lowercase; returns domain.ErrConflict when the code
	// is already taken (case-insensitively).
	Create(ctx context.Context, code, name string) (domain.Station, error)

	// GetByID retrieves a station by primary key.
	// Returns domain.ErrNotFound if no station with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Station, error)

	// GetByCode retrieves a station by its code, case-insensitively.
	// Returns domain.ErrNotFound if no station with that code exists.
	GetByCode(ctx context.Context, code string) (domain.Station, error)

	// List returns all stations ordered by code ascending.
	List(ctx context.Context) ([]domain.Station, error)

	// Delete removes a station by ID. Returns domain.ErrNotFound if it does
	// not exist. Deleting a station that is still referenced by stop_times
	// fails at the database level; callers check CountStopTimes first.
	Delete(ctx context.Context, id int64) error

	// CountStopTimes returns how many stop_times rows reference the station.
	CountStopTimes(ctx context.Context, stationID int64) (int64, error)
}

// pgStationRepo is the Postgres implementation of StationRepo.
type pgStationRepo struct {
	db db
}

// NewStationRepo constructs a StationRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStationRepo(db db) StationRepo {
	return &pgStationRepo{db: db}
}

func (r *pgStationRepo) Create(ctx context.Context, code, name string) (domain.Station, error) {
	const q = `
		INSERT INTO stations (code, name)
		VALUES (@code, @name)
		RETURNING id, code, name`

	args := pgx.NamedArgs{
		"code": strings.ToLower(strings.TrimSpace(code)),
		"name": strings.TrimSpace(name),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanStation(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Station{}, fmt.Errorf("repo.StationRepo.Create: code taken: %w", domain.ErrConflict)
		}
		return domain.Station{}, fmt.Errorf("repo.StationRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgStationRepo) GetByID(ctx context.Context, id int64) (domain.Station, error) {
	const q = `SELECT id, code, name FROM stations WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanStation(row)
	if err != nil {
		return domain.Station{}, fmt.Errorf("repo.StationRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgStationRepo) GetByCode(ctx context.Context, code string) (domain.Station, error) {
	const q = `SELECT id, code, name FROM stations WHERE code = @code`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"code": strings.ToLower(strings.TrimSpace(code))})
	result, err := scanStation(row)
	if err != nil {
		return domain.Station{}, fmt.Errorf("repo.StationRepo.GetByCode: %w", err)
	}
	return result, nil
}

func (r *pgStationRepo) List(ctx context.Context) ([]domain.Station, error) {
	const q = `SELECT id, code, name FROM stations ORDER BY code ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.StationRepo.List: %w", err)
	}
	defer rows.Close()

	var stations []domain.Station
	for rows.Next() {
		s, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.StationRepo.List: scan: %w", err)
		}
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StationRepo.List: rows: %w", err)
	}

	return stations, nil
}

func (r *pgStationRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM stations WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.StationRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.StationRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgStationRepo) CountStopTimes(ctx context.Context, stationID int64) (int64, error) {
	const q = `SELECT count(*) FROM stop_times WHERE station_id = @station_id`

	var count int64
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"station_id": stationID}).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("repo.StationRepo.CountStopTimes: %w", err)
	}
	return count, nil
}

// scanStation maps a single database row into a domain.Station.
func scanStation(s scanner) (domain.Station, error) {
	var st domain.Station
	if err := s.Scan(&st.ID, &st.Code, &st.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Station{}, domain.ErrNotFound
		}
		return domain.Station{}, err
	}
	return st, nil
}
