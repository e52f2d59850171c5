package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/timetable/backend/internal/domain"
	"github.com/pkordes/timetable/backend/internal/timetable"
)

// TripInput is a fully-formed trip write: calendar fields plus the resolved
// stop list (station IDs filled in, seq already 1..N). The repo never writes
// partial trips; create and replace both take the whole thing.
type TripInput struct {
	TrainNo   *string
	Days      []int
	StartDate string
	EndDate   string
	Stops     []domain.StopTime
}

// TripRepo defines the persistence operations for Trips and their stop times.
type TripRepo interface {
	// Create inserts a trip and its stops in one transaction and returns the
	// new trip ID.
	Create(ctx context.Context, in TripInput) (int64, error)

	// GetSnapshot loads a trip with its ordered stop list (station codes
	// joined in). Returns domain.ErrNotFound if the trip does not exist.
	GetSnapshot(ctx context.Context, id int64) (domain.TripSnapshot, error)

	// List returns one page of trips matching the query plus the total
	// number of matches. Stops are loaded only when q.Details is set.
	List(ctx context.Context, q domain.TripListQuery) ([]domain.TripListItem, int64, error)

	// Replace overwrites the trip's calendar and swaps its entire stop list
	// in one transaction. Returns domain.ErrNotFound if the trip does not
	// exist.
	Replace(ctx context.Context, id int64, in TripInput) error

	// Delete removes a trip; its stop_times go with it (FK cascade).
	// Returns domain.ErrNotFound if the trip does not exist.
	Delete(ctx context.Context, id int64) error

	// FindConnecting returns the snapshots of all trips that call at the
	// origin station and later (by seq) at the destination station, ordered
	// by trip ID. Date/time filtering is left to the timetable engine.
	FindConnecting(ctx context.Context, fromStationID, toStationID int64) ([]domain.TripSnapshot, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

func (r *pgTripRepo) Create(ctx context.Context, in TripInput) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repo.TripRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	const q = `
		INSERT INTO trips (train_no, days, start_date, end_date)
		VALUES (@train_no, @days, @start_date, @end_date)
		RETURNING id`

	var id int64
	err = tx.QueryRow(ctx, q, pgx.NamedArgs{
		"train_no":   in.TrainNo,
		"days":       in.Days,
		"start_date": in.StartDate,
		"end_date":   in.EndDate,
	}).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}

	if err := insertStops(ctx, tx, id, in.Stops); err != nil {
		return 0, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repo.TripRepo.Create: commit: %w", err)
	}
	return id, nil
}

func (r *pgTripRepo) GetSnapshot(ctx context.Context, id int64) (domain.TripSnapshot, error) {
	const q = `
		SELECT id, train_no, days, start_date, end_date
		FROM trips
		WHERE id = @id`

	snapshot, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.TripSnapshot{}, fmt.Errorf("repo.TripRepo.GetSnapshot: %w", err)
	}

	snapshot.Stops, err = r.loadStops(ctx, id)
	if err != nil {
		return domain.TripSnapshot{}, fmt.Errorf("repo.TripRepo.GetSnapshot: %w", err)
	}
	return snapshot, nil
}

func (r *pgTripRepo) List(ctx context.Context, q domain.TripListQuery) ([]domain.TripListItem, int64, error) {
	where, args := tripListFilter(q)

	countSQL := `SELECT count(*) FROM trips t` + where
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: count: %w", err)
	}

	orderBy := ` ORDER BY t.train_no ASC NULLS LAST, t.id ASC`
	join := ""
	if q.Sort == "firstDeparture" {
		join = ` LEFT JOIN stop_times fst ON fst.trip_id = t.id AND fst.seq = 1`
		orderBy = ` ORDER BY fst.departure ASC NULLS LAST, t.id ASC`
	}

	pageSQL := `
		SELECT t.id, t.train_no, t.days, t.start_date, t.end_date,
		       (SELECT count(*) FROM stop_times st WHERE st.trip_id = t.id) AS stops_count
		FROM trips t` + join + where + orderBy + ` LIMIT @limit OFFSET @offset`
	args["limit"] = q.Page.PageSize
	args["offset"] = q.Page.Offset()

	rows, err := r.db.Query(ctx, pageSQL, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	items := []domain.TripListItem{}
	for rows.Next() {
		var (
			item      domain.TripListItem
			days      []int32
			startDate pgtype.Date
			endDate   pgtype.Date
		)
		err := rows.Scan(&item.ID, &item.TrainNo, &days, &startDate, &endDate, &item.StopsCount)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		item.Days = toIntSlice(days)
		item.StartDate = startDate.Time.Format("2006-01-02")
		item.EndDate = endDate.Time.Format("2006-01-02")
		item.Stops = []domain.StopTime{}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}

	if q.Details {
		for i := range items {
			stops, err := r.loadStops(ctx, items[i].ID)
			if err != nil {
				return nil, 0, fmt.Errorf("repo.TripRepo.List: %w", err)
			}
			items[i].Stops = stops
		}
	}

	return items, total, nil
}

func (r *pgTripRepo) Replace(ctx context.Context, id int64, in TripInput) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Replace: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	const q = `
		UPDATE trips
		SET train_no   = @train_no,
		    days       = @days,
		    start_date = @start_date,
		    end_date   = @end_date,
		    updated_at = now()
		WHERE id = @id`

	tag, err := tx.Exec(ctx, q, pgx.NamedArgs{
		"id":         id,
		"train_no":   in.TrainNo,
		"days":       in.Days,
		"start_date": in.StartDate,
		"end_date":   in.EndDate,
	})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Replace: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Replace: %w", domain.ErrNotFound)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM stop_times WHERE trip_id = @trip_id`, pgx.NamedArgs{"trip_id": id}); err != nil {
		return fmt.Errorf("repo.TripRepo.Replace: clear stops: %w", err)
	}
	if err := insertStops(ctx, tx, id, in.Stops); err != nil {
		return fmt.Errorf("repo.TripRepo.Replace: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.TripRepo.Replace: commit: %w", err)
	}
	return nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) FindConnecting(ctx context.Context, fromStationID, toStationID int64) ([]domain.TripSnapshot, error) {
	const q = `
		SELECT DISTINCT t.id
		FROM trips t
		JOIN stop_times a ON a.trip_id = t.id AND a.station_id = @from_id
		JOIN stop_times b ON b.trip_id = t.id AND b.station_id = @to_id AND b.seq > a.seq
		ORDER BY t.id ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"from_id": fromStationID, "to_id": toStationID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.FindConnecting: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("repo.TripRepo.FindConnecting: scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.FindConnecting: rows: %w", err)
	}

	trips := make([]domain.TripSnapshot, 0, len(ids))
	for _, id := range ids {
		snapshot, err := r.GetSnapshot(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.FindConnecting: %w", err)
		}
		trips = append(trips, snapshot)
	}
	return trips, nil
}

// loadStops returns a trip's stops ordered by seq, with station codes joined in.
func (r *pgTripRepo) loadStops(ctx context.Context, tripID int64) ([]domain.StopTime, error) {
	const q = `
		SELECT st.station_id, s.code, st.seq, st.arrival, st.departure, st.platform
		FROM stop_times st
		JOIN stations s ON s.id = st.station_id
		WHERE st.trip_id = @trip_id
		ORDER BY st.seq ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("load stops: %w", err)
	}
	defer rows.Close()

	stops := []domain.StopTime{}
	for rows.Next() {
		var st domain.StopTime
		err := rows.Scan(&st.StationID, &st.StationCode, &st.Seq, &st.Arrival, &st.Departure, &st.Platform)
		if err != nil {
			return nil, fmt.Errorf("load stops: scan: %w", err)
		}
		stops = append(stops, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load stops: rows: %w", err)
	}
	return stops, nil
}

// insertStops writes a trip's full stop list inside the caller's transaction.
func insertStops(ctx context.Context, tx pgx.Tx, tripID int64, stops []domain.StopTime) error {
	const q = `
		INSERT INTO stop_times (trip_id, station_id, seq, arrival, departure, platform)
		VALUES (@trip_id, @station_id, @seq, @arrival, @departure, @platform)`

	for _, st := range stops {
		_, err := tx.Exec(ctx, q, pgx.NamedArgs{
			"trip_id":    tripID,
			"station_id": st.StationID,
			"seq":        st.Seq,
			"arrival":    st.Arrival,
			"departure":  st.Departure,
			"platform":   st.Platform,
		})
		if err != nil {
			return fmt.Errorf("insert stop %d: %w", st.Seq, err)
		}
	}
	return nil
}

// tripListFilter builds the WHERE clause and named args for List.
func tripListFilter(q domain.TripListQuery) (string, pgx.NamedArgs) {
	var conds []string
	args := pgx.NamedArgs{}

	if q.TrainNo != "" {
		conds = append(conds, `t.train_no ILIKE @train_no`)
		args["train_no"] = "%" + q.TrainNo + "%"
	}
	if q.StationCode != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM stop_times st
			JOIN stations s ON s.id = st.station_id
			WHERE st.trip_id = t.id AND s.code = @station_code)`)
		args["station_code"] = strings.ToLower(strings.TrimSpace(q.StationCode))
	}
	if q.ActiveOnDate != "" {
		conds = append(conds, `t.start_date <= @active_on AND t.end_date >= @active_on`)
		conds = append(conds, `@dow = ANY(t.days)`)
		args["active_on"] = q.ActiveOnDate
		args["dow"] = timetable.Weekday(q.ActiveOnDate)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// scanTrip maps a trips row (without stops) into a domain.TripSnapshot.
func scanTrip(s scanner) (domain.TripSnapshot, error) {
	var (
		t         domain.TripSnapshot
		days      []int32
		startDate pgtype.Date
		endDate   pgtype.Date
	)
	err := s.Scan(&t.ID, &t.TrainNo, &days, &startDate, &endDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripSnapshot{}, domain.ErrNotFound
		}
		return domain.TripSnapshot{}, err
	}
	t.Days = toIntSlice(days)
	t.StartDate = startDate.Time.Format("2006-01-02")
	t.EndDate = endDate.Time.Format("2006-01-02")
	return t, nil
}

func toIntSlice(in []int32) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}
