package timetable

import (
	"sort"

	"github.com/pkordes/timetable/backend/internal/domain"
)

// SearchQuery parameterises a departure search. The caller layer has already
// resolved the station codes to IDs, checked the formats, and clamped Limit
// into [1,200].
type SearchQuery struct {
	FromStationID int64
	ToStationID   int64
	Date          string // "YYYY-MM-DD"
	Time          string // "HH:MM" departure floor
	Limit         int
}

// SearchDepartures scans candidate trip snapshots for segments from the
// query's origin station to its destination. A segment qualifies when the
// trip operates on the date (date range covers it and its weekday, Monday=1,
// is in the operating days), the origin stop precedes the destination stop
// in sequence order, and the origin departure is at or after the time floor.
//
// Results are ordered by origin departure ascending, ties broken by trip ID
// for determinism, and truncated to the limit. Sequence order is the
// authoritative direction; a trip calling at the same station twice yields
// one segment per qualifying stop pair.
func SearchDepartures(trips []domain.TripSnapshot, q SearchQuery) []domain.Segment {
	segments := []domain.Segment{}
	dow := Weekday(q.Date)
	floor := Minutes(q.Time)

	for _, trip := range trips {
		if !operatesOn(trip, q.Date, dow) {
			continue
		}
		for pi, from := range trip.Stops {
			if from.StationID != q.FromStationID || from.Departure == nil {
				continue
			}
			if Minutes(*from.Departure) < floor {
				continue
			}
			for _, to := range trip.Stops[pi+1:] {
				if to.StationID != q.ToStationID || to.Arrival == nil {
					continue
				}
				segments = append(segments, domain.Segment{
					TripID:  trip.ID,
					TrainNo: trip.TrainNo,
					From: domain.SegmentFrom{
						StationID:   from.StationID,
						StationCode: from.StationCode,
						Departure:   *from.Departure,
					},
					To: domain.SegmentTo{
						StationID:   to.StationID,
						StationCode: to.StationCode,
						Arrival:     *to.Arrival,
					},
					// Same-day arithmetic: a leg spanning midnight comes out
					// negative and is reported as-is.
					DurationMinutes: Minutes(*to.Arrival) - Minutes(*from.Departure),
				})
			}
		}
	}

	sort.SliceStable(segments, func(i, j int) bool {
		di, dj := Minutes(segments[i].From.Departure), Minutes(segments[j].From.Departure)
		if di != dj {
			return di < dj
		}
		return segments[i].TripID < segments[j].TripID
	})

	if q.Limit > 0 && len(segments) > q.Limit {
		segments = segments[:q.Limit]
	}
	return segments
}

// operatesOn reports whether the trip runs on the given date: the inclusive
// start/end range covers it and its weekday is in the operating-day set.
func operatesOn(trip domain.TripSnapshot, date string, dow int) bool {
	if date < trip.StartDate || date > trip.EndDate {
		return false
	}
	for _, d := range trip.Days {
		if d == dow {
			return true
		}
	}
	return false
}
