package timetable

import (
	"fmt"

	"github.com/pkordes/timetable/backend/internal/domain"
)

// ErrorKind identifies the exact rule a snapshot or command violated.
// The values double as machine-readable error codes in HTTP responses, so
// callers can branch on kind without string-matching messages.
type ErrorKind string

const (
	// calendar rules
	KindEmptyDays         ErrorKind = "empty_days"
	KindDayOutOfRange     ErrorKind = "day_out_of_range"
	KindDuplicateDay      ErrorKind = "duplicate_day"
	KindInvalidDateFormat ErrorKind = "invalid_date_format"
	KindDateRangeInverted ErrorKind = "date_range_inverted"

	// stop-sequence rules
	KindTooFewStops              ErrorKind = "too_few_stops"
	KindSequenceNotContiguous    ErrorKind = "sequence_not_contiguous"
	KindFirstStopMissingDeparture ErrorKind = "first_stop_missing_departure"
	KindLastStopMissingArrival   ErrorKind = "last_stop_missing_arrival"
	KindMissingStationCode       ErrorKind = "missing_station_code"
	KindInvalidTimeFormat        ErrorKind = "invalid_time_format"
	KindArrivalAfterDeparture    ErrorKind = "arrival_after_departure"
	KindStopHasNoTime            ErrorKind = "stop_has_no_time"
	KindMissingArrivalAtStop     ErrorKind = "missing_arrival_at_stop"
	KindTimeGoesBackward         ErrorKind = "time_goes_backward"

	// patch rules
	KindSeqNotFound           ErrorKind = "seq_not_found"
	KindMinimumStopsViolation ErrorKind = "minimum_stops_violation"
	KindAfterSeqOutOfRange    ErrorKind = "after_seq_out_of_range"
	KindStationCodeRequired   ErrorKind = "station_code_required"
	KindUnsupportedOperation  ErrorKind = "unsupported_operation"

	// station-code resolution (raised by the service layer's lookup)
	KindUnknownStation ErrorKind = "unknown_station"
)

// Error is a timetable rule violation. It unwraps to domain.ErrValidation so
// handlers can keep using errors.Is for status mapping while callers that
// care about the precise rule use errors.As and inspect Kind.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return domain.ErrValidation }

// NewError builds a timetable error with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
