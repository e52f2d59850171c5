package timetable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/timetable/backend/internal/domain"
	"github.com/pkordes/timetable/backend/internal/timetable"
)

func intp(i int) *int { return &i }

// codes flattens a stop list to its station codes for order assertions.
func codes(stops []domain.StopTime) []string {
	out := make([]string, len(stops))
	for i, s := range stops {
		out[i] = s.StationCode
	}
	return out
}

func requireContiguous(t *testing.T, stops []domain.StopTime) {
	t.Helper()
	for i, s := range stops {
		require.Equal(t, i+1, s.Seq, "stop %d renumbered wrong", i)
	}
}

// ---- updateCalendar ---------------------------------------------------------

func TestApply_UpdateCalendar_PartialOverwrite(t *testing.T) {
	trip := weekdayTrip()

	got, err := timetable.Apply(trip, timetable.Patch{
		Op:      timetable.OpUpdateCalendar,
		TrainNo: str("ICE 702"),
		EndDate: str("2024-02-29"),
	})

	require.NoError(t, err)
	assert.Equal(t, "ICE 702", *got.TrainNo)
	assert.Equal(t, "2024-02-29", got.EndDate)
	// Untouched fields keep their prior values.
	assert.Equal(t, "2024-01-01", got.StartDate)
	assert.Equal(t, []int{1, 3, 5}, got.Days)
}

func TestApply_UpdateCalendar_ReplacesDays(t *testing.T) {
	got, err := timetable.Apply(weekdayTrip(), timetable.Patch{
		Op:   timetable.OpUpdateCalendar,
		Days: []int{6, 7},
	})

	require.NoError(t, err)
	assert.Equal(t, []int{6, 7}, got.Days)
}

func TestApply_UpdateCalendar_EmptyDaysRejected(t *testing.T) {
	// An explicitly provided empty list replaces the set and then fails
	// validation; it does not mean "keep the old days".
	_, err := timetable.Apply(weekdayTrip(), timetable.Patch{
		Op:   timetable.OpUpdateCalendar,
		Days: []int{},
	})

	assert.Equal(t, timetable.KindEmptyDays, kindOf(t, err))
}

func TestApply_UpdateCalendar_InvertedRangeRejected(t *testing.T) {
	_, err := timetable.Apply(weekdayTrip(), timetable.Patch{
		Op:        timetable.OpUpdateCalendar,
		StartDate: str("2024-03-01"),
	})

	assert.Equal(t, timetable.KindDateRangeInverted, kindOf(t, err))
}

// ---- updateStop -------------------------------------------------------------

func TestApply_UpdateStop_OverwritesOnlyProvidedFields(t *testing.T) {
	got, err := timetable.Apply(weekdayTrip(), timetable.Patch{
		Op:          timetable.OpUpdateStop,
		TargetSeq:   intp(2),
		NewArrival:  str("08:31"),
		NewPlatform: str("4b"),
	})

	require.NoError(t, err)
	assert.Equal(t, "08:31", *got.Stops[1].Arrival)
	assert.Equal(t, "08:32", *got.Stops[1].Departure, "departure untouched")
	assert.Equal(t, "4b", *got.Stops[1].Platform)
}

func TestApply_UpdateStop_SeqNotFound(t *testing.T) {
	_, err := timetable.Apply(weekdayTrip(), timetable.Patch{
		Op:         timetable.OpUpdateStop,
		TargetSeq:  intp(9),
		NewArrival: str("08:31"),
	})

	assert.Equal(t, timetable.KindSeqNotFound, kindOf(t, err))
}

func TestApply_UpdateStop_RevalidationCatchesBadTime(t *testing.T) {
	_, err := timetable.Apply(weekdayTrip(), timetable.Patch{
		Op:         timetable.OpUpdateStop,
		TargetSeq:  intp(2),
		NewArrival: str("08:40"), // after its own 08:32 departure
	})

	assert.Equal(t, timetable.KindArrivalAfterDeparture, kindOf(t, err))
}

// ---- removeStop -------------------------------------------------------------

func TestApply_RemoveStop_RenumbersRemainder(t *testing.T) {
	// Removing the middle stop must keep the neighbours valid: a departs
	// 08:00, c arrives 09:00.
	got, err := timetable.Apply(weekdayTrip(), timetable.Patch{
		Op:  timetable.OpRemoveStop,
		Seq: intp(2),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, codes(got.Stops))
	requireContiguous(t, got.Stops)
}

func TestApply_RemoveStop_TwoStopTripAlwaysFails(t *testing.T) {
	trip := weekdayTrip()
	trip.Stops = []domain.StopTime{
		{StationCode: "a", Seq: 1, Departure: str("08:00")},
		{StationCode: "c", Seq: 2, Arrival: str("09:00")},
	}

	_, err := timetable.Apply(trip, timetable.Patch{
		Op:  timetable.OpRemoveStop,
		Seq: intp(1),
	})

	assert.Equal(t, timetable.KindMinimumStopsViolation, kindOf(t, err))
}

func TestApply_RemoveStop_SeqNotFound(t *testing.T) {
	_, err := timetable.Apply(weekdayTrip(), timetable.Patch{
		Op:  timetable.OpRemoveStop,
		Seq: intp(7),
	})

	assert.Equal(t, timetable.KindSeqNotFound, kindOf(t, err))
}

// ---- addStop ----------------------------------------------------------------

func TestApply_AddStop_InsertsAfterPosition(t *testing.T) {
	// afterSeq 1 on [a,b,c] lands the new stop between b and c; the re-run
	// validation checks its times against both neighbours.
	got, err := timetable.Apply(weekdayTrip(), timetable.Patch{
		Op:          timetable.OpAddStop,
		AfterSeq:    intp(1),
		StationCode: str("d"),
		Arrival:     str("08:45"),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "d", "c"}, codes(got.Stops))
	requireContiguous(t, got.Stops)
}

func TestApply_AddStop_TimeConflictWithNeighboursRejected(t *testing.T) {
	_, err := timetable.Apply(weekdayTrip(), timetable.Patch{
		Op:          timetable.OpAddStop,
		AfterSeq:    intp(1),
		StationCode: str("d"),
		Arrival:     str("08:20"), // before b's 08:32 departure
	})

	assert.Equal(t, timetable.KindTimeGoesBackward, kindOf(t, err))
}

func TestApply_AddStop_AfterSeqOutOfRange(t *testing.T) {
	for _, after := range []int{-1, 3, 99} {
		_, err := timetable.Apply(weekdayTrip(), timetable.Patch{
			Op:          timetable.OpAddStop,
			AfterSeq:    intp(after),
			StationCode: str("d"),
			Arrival:     str("08:45"),
		})

		assert.Equal(t, timetable.KindAfterSeqOutOfRange, kindOf(t, err), "afterSeq=%d", after)
	}
}

func TestApply_AddStop_StationCodeRequired(t *testing.T) {
	_, err := timetable.Apply(weekdayTrip(), timetable.Patch{
		Op:       timetable.OpAddStop,
		AfterSeq: intp(1),
		Arrival:  str("08:45"),
	})

	assert.Equal(t, timetable.KindStationCodeRequired, kindOf(t, err))
}

func TestApply_RemoveThenAddRoundTrips(t *testing.T) {
	trip := weekdayTrip()

	removed, err := timetable.Apply(trip, timetable.Patch{
		Op:  timetable.OpRemoveStop,
		Seq: intp(2),
	})
	require.NoError(t, err)

	restored, err := timetable.Apply(removed, timetable.Patch{
		Op:          timetable.OpAddStop,
		AfterSeq:    intp(0),
		StationCode: str("b"),
		Arrival:     str("08:30"),
		Departure:   str("08:32"),
	})
	require.NoError(t, err)

	require.Equal(t, codes(trip.Stops), codes(restored.Stops))
	for i := range trip.Stops {
		assert.Equal(t, trip.Stops[i].Arrival, restored.Stops[i].Arrival, "stop %d arrival", i)
		assert.Equal(t, trip.Stops[i].Departure, restored.Stops[i].Departure, "stop %d departure", i)
	}
}

// ---- moveStop ---------------------------------------------------------------

func TestApply_MoveStop_NoOpKeepsOrder(t *testing.T) {
	trip := weekdayTrip()

	got, err := timetable.Apply(trip, timetable.Patch{
		Op:      timetable.OpMoveStop,
		FromSeq: intp(2),
		ToSeq:   intp(2),
	})

	require.NoError(t, err)
	assert.Equal(t, codes(trip.Stops), codes(got.Stops))
	requireContiguous(t, got.Stops)
}

func TestApply_MoveStop_BackwardInsertsBeforeTarget(t *testing.T) {
	// Four stops at the same times keep every order valid, isolating the
	// reordering semantics from the time rules.
	trip := flatTrip("a", "b", "c", "d")

	got, err := timetable.Apply(trip, timetable.Patch{
		Op:      timetable.OpMoveStop,
		FromSeq: intp(3),
		ToSeq:   intp(1),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b", "d"}, codes(got.Stops))
	requireContiguous(t, got.Stops)
}

func TestApply_MoveStop_ForwardInsertsBeforeShiftedTarget(t *testing.T) {
	trip := flatTrip("a", "b", "c", "d")

	// Remove b, then reinsert before the stop that originally held seq 4
	// (d). The target is located by its old seq value in the reduced list,
	// that re-lookup is what makes forward moves land before the target.
	got, err := timetable.Apply(trip, timetable.Patch{
		Op:      timetable.OpMoveStop,
		FromSeq: intp(2),
		ToSeq:   intp(4),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b", "d"}, codes(got.Stops))
	requireContiguous(t, got.Stops)
}

func TestApply_MoveStop_SeqNotFound(t *testing.T) {
	_, err := timetable.Apply(weekdayTrip(), timetable.Patch{
		Op:      timetable.OpMoveStop,
		FromSeq: intp(1),
		ToSeq:   intp(9),
	})

	assert.Equal(t, timetable.KindSeqNotFound, kindOf(t, err))
}

// ---- misc -------------------------------------------------------------------

func TestApply_UnsupportedOp(t *testing.T) {
	_, err := timetable.Apply(weekdayTrip(), timetable.Patch{Op: "renameTrip"})

	assert.Equal(t, timetable.KindUnsupportedOperation, kindOf(t, err))
}

func TestApply_FailureLeavesOriginalUntouched(t *testing.T) {
	trip := weekdayTrip()

	_, err := timetable.Apply(trip, timetable.Patch{
		Op:         timetable.OpUpdateStop,
		TargetSeq:  intp(2),
		NewArrival: str("25:00"),
	})

	require.Error(t, err)
	// All-or-nothing: the source snapshot still validates and still carries
	// its original times.
	assert.NoError(t, timetable.ValidateTrip(trip))
	assert.Equal(t, "08:30", *trip.Stops[1].Arrival)
}

func TestApply_SuccessLeavesOriginalUntouched(t *testing.T) {
	trip := weekdayTrip()

	got, err := timetable.Apply(trip, timetable.Patch{
		Op:  timetable.OpRemoveStop,
		Seq: intp(2),
	})

	require.NoError(t, err)
	assert.Len(t, got.Stops, 2)
	assert.Len(t, trip.Stops, 3, "input snapshot must not be mutated")
}

// flatTrip builds a trip whose stops all share one timestamp, so any
// reordering of them revalidates cleanly.
func flatTrip(stationCodes ...string) domain.TripSnapshot {
	trip := weekdayTrip()
	trip.Stops = nil
	for i, code := range stationCodes {
		trip.Stops = append(trip.Stops, domain.StopTime{
			StationCode: code,
			Seq:         i + 1,
			Arrival:     str("08:00"),
			Departure:   str("08:00"),
		})
	}
	return trip
}
