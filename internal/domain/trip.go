package domain

// StopTime is one station call within a trip. Arrival and departure are
// "HH:MM" wall-clock strings; either may be absent (nil), subject to the
// invariants enforced by the timetable package. Seq is the 1-based position
// of the stop within its trip and is always contiguous in a persisted trip.
//
// StationCode is the domain-boundary reference; StationID is filled in once
// the code has been resolved against the stations table.
type StopTime struct {
	StationID   int64   `json:"stationId,omitempty"`
	StationCode string  `json:"stationCode"`
	Seq         int     `json:"seq"`
	Arrival     *string `json:"arrival"`
	Departure   *string `json:"departure"`
	Platform    *string `json:"platform,omitempty"`
}

// TripSnapshot is the full state of one trip: its calendar (operating days
// plus an inclusive date range) and its ordered stop list. Dates are
// "YYYY-MM-DD" strings, days are 1..7 with Monday=1. Snapshots are plain
// values; the timetable package transforms them copy-on-write.
type TripSnapshot struct {
	ID        int64      `json:"id"`
	TrainNo   *string    `json:"trainNo"`
	Days      []int      `json:"days"`
	StartDate string     `json:"startDate"`
	EndDate   string     `json:"endDate"`
	Stops     []StopTime `json:"stops"`
}

// Clone returns a deep copy of the snapshot. Days and Stops get fresh
// backing arrays; the *string time fields are shared, which is safe because
// they are never written through; edits replace the pointer.
func (t TripSnapshot) Clone() TripSnapshot {
	out := t
	out.Days = append([]int(nil), t.Days...)
	out.Stops = append([]StopTime(nil), t.Stops...)
	return out
}

// TripListItem is one row of a paged trip listing. Stops is populated only
// when the caller asked for details; StopsCount is always set.
type TripListItem struct {
	ID         int64      `json:"id"`
	TrainNo    *string    `json:"trainNo"`
	Days       []int      `json:"days"`
	StartDate  string     `json:"startDate"`
	EndDate    string     `json:"endDate"`
	StopsCount int        `json:"stopsCount"`
	Stops      []StopTime `json:"stations"`
}

// TripListQuery collects the optional filters of GET /trips.
type TripListQuery struct {
	Page PaginationParams
	// Details switches the listing from compact rows to full snapshots.
	Details bool
	// TrainNo filters by case-insensitive substring match on the train number.
	TrainNo string
	// StationCode keeps only trips that call at the given station.
	StationCode string
	// ActiveOnDate keeps only trips whose date range covers the date and
	// whose operating days include the date's weekday. "YYYY-MM-DD".
	ActiveOnDate string
	// Sort is "trainNo" (default) or "firstDeparture".
	Sort string
}
