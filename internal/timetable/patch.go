package timetable

import (
	"strings"

	"github.com/pkordes/timetable/backend/internal/domain"
)

// Op tags a Patch with one of the five supported edit commands.
type Op string

const (
	OpUpdateCalendar Op = "updateCalendar"
	OpUpdateStop     Op = "updateStop"
	OpRemoveStop     Op = "removeStop"
	OpAddStop        Op = "addStop"
	OpMoveStop       Op = "moveStop"
)

// Patch is one atomic edit command against a trip snapshot. Which fields are
// meaningful depends on Op; pointer fields distinguish "provided" from
// "keep the previous value".
type Patch struct {
	Op Op `json:"op"`

	// updateCalendar: overwrite only the provided calendar fields.
	TrainNo   *string `json:"trainNo,omitempty"`
	Days      []int   `json:"days,omitempty"`
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`

	// addStop: insert after the stop at position AfterSeq (0 = new first stop).
	AfterSeq    *int    `json:"afterSeq,omitempty"`
	StationCode *string `json:"stationCode,omitempty"`
	Arrival     *string `json:"arrival,omitempty"`
	Departure   *string `json:"departure,omitempty"`
	Platform    *string `json:"platform,omitempty"`

	// removeStop
	Seq *int `json:"seq,omitempty"`

	// moveStop
	FromSeq *int `json:"fromSeq,omitempty"`
	ToSeq   *int `json:"toSeq,omitempty"`

	// updateStop: overwrite only the provided fields of the stop at TargetSeq.
	TargetSeq    *int    `json:"targetSeq,omitempty"`
	NewArrival   *string `json:"newArrival,omitempty"`
	NewDeparture *string `json:"newDeparture,omitempty"`
	NewPlatform  *string `json:"newPlatform,omitempty"`
}

// Apply runs one patch command against a snapshot and returns the resulting
// candidate, fully re-validated. The input snapshot is never mutated: the
// command is all-or-nothing, and on any error the caller still holds the
// unchanged original.
func Apply(current domain.TripSnapshot, p Patch) (domain.TripSnapshot, error) {
	next := current.Clone()

	switch p.Op {
	case OpUpdateCalendar:
		if p.TrainNo != nil {
			next.TrainNo = p.TrainNo
		}
		if p.Days != nil {
			next.Days = append([]int(nil), p.Days...)
		}
		if p.StartDate != nil {
			next.StartDate = *p.StartDate
		}
		if p.EndDate != nil {
			next.EndDate = *p.EndDate
		}

	case OpUpdateStop:
		if p.TargetSeq == nil {
			return domain.TripSnapshot{}, NewError(KindSeqNotFound, "targetSeq required")
		}
		idx := indexOfSeq(next.Stops, *p.TargetSeq)
		if idx < 0 {
			return domain.TripSnapshot{}, NewError(KindSeqNotFound, "targetSeq %d not found", *p.TargetSeq)
		}
		if p.NewArrival != nil {
			next.Stops[idx].Arrival = p.NewArrival
		}
		if p.NewDeparture != nil {
			next.Stops[idx].Departure = p.NewDeparture
		}
		if p.NewPlatform != nil {
			next.Stops[idx].Platform = p.NewPlatform
		}

	case OpRemoveStop:
		if len(next.Stops) <= 2 {
			return domain.TripSnapshot{}, NewError(KindMinimumStopsViolation, "cannot remove: at least 2 stops required")
		}
		if p.Seq == nil {
			return domain.TripSnapshot{}, NewError(KindSeqNotFound, "seq required")
		}
		idx := indexOfSeq(next.Stops, *p.Seq)
		if idx < 0 {
			return domain.TripSnapshot{}, NewError(KindSeqNotFound, "seq %d not found", *p.Seq)
		}
		next.Stops = append(next.Stops[:idx], next.Stops[idx+1:]...)
		renumber(next.Stops)

	case OpAddStop:
		after := 0
		if p.AfterSeq != nil {
			after = *p.AfterSeq
		}
		if after < 0 || after > len(next.Stops)-1 {
			return domain.TripSnapshot{}, NewError(KindAfterSeqOutOfRange, "afterSeq %d out of range", after)
		}
		if p.StationCode == nil || strings.TrimSpace(*p.StationCode) == "" {
			return domain.TripSnapshot{}, NewError(KindStationCodeRequired, "stationCode required")
		}
		stop := domain.StopTime{
			StationCode: *p.StationCode,
			Arrival:     p.Arrival,
			Departure:   p.Departure,
			Platform:    p.Platform,
		}
		// afterSeq is a 0-based list position: insert immediately after
		// stops[after]. afterSeq 1 on [A,B,C] puts the new stop between B
		// and C; afterSeq len-1 appends (and then fails validation unless
		// the new stop arrives).
		insertAt := after + 1
		next.Stops = append(next.Stops, domain.StopTime{})
		copy(next.Stops[insertAt+1:], next.Stops[insertAt:])
		next.Stops[insertAt] = stop
		renumber(next.Stops)

	case OpMoveStop:
		if p.FromSeq == nil || p.ToSeq == nil {
			return domain.TripSnapshot{}, NewError(KindSeqNotFound, "fromSeq/toSeq required")
		}
		fromIdx := indexOfSeq(next.Stops, *p.FromSeq)
		toIdx := indexOfSeq(next.Stops, *p.ToSeq)
		if fromIdx < 0 || toIdx < 0 {
			return domain.TripSnapshot{}, NewError(KindSeqNotFound, "fromSeq/toSeq not found")
		}
		moved := next.Stops[fromIdx]
		next.Stops = append(next.Stops[:fromIdx], next.Stops[fromIdx+1:]...)
		// Re-locate the destination by its original seq value in the reduced
		// list and reinsert before it. This is deliberately order-sensitive:
		// moving forward and backward land on different sides of the target,
		// and a no-op move (fromSeq == toSeq) reduces to reinsertion at the
		// old position.
		insertAt := indexOfSeq(next.Stops, *p.ToSeq)
		if insertAt < 0 {
			insertAt = fromIdx
		}
		next.Stops = append(next.Stops, domain.StopTime{})
		copy(next.Stops[insertAt+1:], next.Stops[insertAt:])
		next.Stops[insertAt] = moved
		renumber(next.Stops)

	default:
		return domain.TripSnapshot{}, NewError(KindUnsupportedOperation, "unsupported op %q", p.Op)
	}

	if err := ValidateTrip(next); err != nil {
		return domain.TripSnapshot{}, err
	}
	return next, nil
}

// indexOfSeq returns the list index of the stop whose current seq equals
// seq, or -1.
func indexOfSeq(stops []domain.StopTime, seq int) int {
	for i, s := range stops {
		if s.Seq == seq {
			return i
		}
	}
	return -1
}

// renumber rewrites seq to 1..N following list order.
func renumber(stops []domain.StopTime) {
	for i := range stops {
		stops[i].Seq = i + 1
	}
}
