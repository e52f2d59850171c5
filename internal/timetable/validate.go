// Package timetable is the invariant-enforcement and query engine of the
// API. Everything here is a pure function over domain snapshots: validation
// of a trip's calendar and stop sequence, the patch command engine, and the
// departure search. The package never touches storage or transport: callers
// load a snapshot, run it through here, and persist the result.
package timetable

import (
	"strings"

	"github.com/pkordes/timetable/backend/internal/domain"
)

// ValidateCalendar checks the operating-day set and date range of a trip.
// Days must be a non-empty duplicate-free set of 1..7 (Monday=1), both dates
// must be strict "YYYY-MM-DD" calendar dates, and startDate must not be
// after endDate.
func ValidateCalendar(days []int, startDate, endDate string) error {
	if len(days) == 0 {
		return NewError(KindEmptyDays, "days must be a non-empty list")
	}
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d < 1 || d > 7 {
			return NewError(KindDayOutOfRange, "days must contain 1..7 (1=Mon..7=Sun), got %d", d)
		}
		if seen[d] {
			return NewError(KindDuplicateDay, "days must not contain duplicates, got %d twice", d)
		}
		seen[d] = true
	}
	if !IsValidDate(startDate) || !IsValidDate(endDate) {
		return NewError(KindInvalidDateFormat, "dates must be YYYY-MM-DD")
	}
	// Lexicographic order equals chronological order for YYYY-MM-DD.
	if startDate > endDate {
		return NewError(KindDateRangeInverted, "startDate must be <= endDate")
	}
	return nil
}

// ValidateStops checks a trip's ordered stop list in a single left-to-right
// pass after the structural checks:
//
//   - at least 2 stops
//   - seq values read in list order are exactly 1..N (list order is the
//     intended order; seq is never sorted independently)
//   - the first stop departs, the last stop arrives
//   - every present time is a valid "HH:MM"; where a stop has both times,
//     arrival <= departure
//   - between neighbours, time never goes backward: the next stop's arrival
//     must be at or after the previous stop's departure (or arrival when it
//     has no departure)
//
// Comparisons are same-day minutes; an overnight leg fails time_goes_backward.
func ValidateStops(stops []domain.StopTime) error {
	if len(stops) < 2 {
		return NewError(KindTooFewStops, "stops must contain at least 2 elements")
	}
	for i, s := range stops {
		if s.Seq != i+1 {
			return NewError(KindSequenceNotContiguous, "seq must be 1..N contiguous, stop[%d] has seq %d", i, s.Seq)
		}
	}

	if stops[0].Departure == nil {
		return NewError(KindFirstStopMissingDeparture, "first stop must have a departure")
	}
	if stops[len(stops)-1].Arrival == nil {
		return NewError(KindLastStopMissingArrival, "last stop must have an arrival")
	}

	for i, s := range stops {
		if strings.TrimSpace(s.StationCode) == "" {
			return NewError(KindMissingStationCode, "stop[%d] stationCode required", i)
		}
		if s.Arrival != nil && !IsValidTime(*s.Arrival) {
			return NewError(KindInvalidTimeFormat, "stop[%d] arrival must be HH:MM", i)
		}
		if s.Departure != nil && !IsValidTime(*s.Departure) {
			return NewError(KindInvalidTimeFormat, "stop[%d] departure must be HH:MM", i)
		}
		if s.Arrival != nil && s.Departure != nil && Minutes(*s.Arrival) > Minutes(*s.Departure) {
			return NewError(KindArrivalAfterDeparture, "stop[%d] arrival must be <= departure", i)
		}
	}

	for i := 0; i < len(stops)-1; i++ {
		prev, next := stops[i], stops[i+1]

		last := prev.Departure
		if last == nil {
			last = prev.Arrival
		}
		if last == nil {
			return NewError(KindStopHasNoTime, "stop[%d] has no time", i)
		}
		if next.Arrival == nil {
			return NewError(KindMissingArrivalAtStop, "stop[%d] arrival required", i+1)
		}
		if Minutes(*next.Arrival) < Minutes(*last) {
			return NewError(KindTimeGoesBackward, "arrival at stop[%d] must be >= previous time", i+1)
		}
		if next.Departure != nil && Minutes(*next.Departure) < Minutes(*next.Arrival) {
			return NewError(KindArrivalAfterDeparture, "departure at stop[%d] must be >= arrival", i+1)
		}
	}
	return nil
}

// ValidateTrip is the single entry point run before create/replace and after
// every patch command. It composes the calendar and stop-sequence checks.
func ValidateTrip(t domain.TripSnapshot) error {
	if err := ValidateCalendar(t.Days, t.StartDate, t.EndDate); err != nil {
		return err
	}
	return ValidateStops(t.Stops)
}
