package domain

// SegmentFrom is the boarding end of a searched trip segment.
type SegmentFrom struct {
	StationID   int64  `json:"stationId"`
	StationCode string `json:"stationCode"`
	Departure   string `json:"departure"`
}

// SegmentTo is the alighting end of a searched trip segment.
type SegmentTo struct {
	StationID   int64  `json:"stationId"`
	StationCode string `json:"stationCode"`
	Arrival     string `json:"arrival"`
}

// Segment is one departure-search result: a sub-journey of a single trip
// between two of its stops. DurationMinutes is arrival minus departure in
// same-day minutes and is reported as-is, so data that spans midnight shows
// up as a negative duration rather than being clamped.
type Segment struct {
	TripID          int64       `json:"tripId"`
	TrainNo         *string     `json:"trainNo"`
	From            SegmentFrom `json:"from"`
	To              SegmentTo   `json:"to"`
	DurationMinutes int         `json:"durationMinutes"`
}
