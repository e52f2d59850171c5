package handler

import (
	"net/http"
	"strconv"

	"github.com/pkordes/timetable/backend/internal/domain"
	"github.com/pkordes/timetable/backend/internal/service"
	"github.com/pkordes/timetable/backend/internal/timetable"
)

// stopRequest and tripRequest carry trip bodies. They have no validate tags
// on purpose: the timetable engine checks every rule itself and reports a
// precise error kind, which a generic "required" tag would mask.
type stopRequest struct {
	StationCode string  `json:"stationCode"`
	Arrival     *string `json:"arrival"`
	Departure   *string `json:"departure"`
	Platform    *string `json:"platform"`
}

type tripRequest struct {
	TrainNo   *string       `json:"trainNo"`
	Days      []int         `json:"days"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Stops     []stopRequest `json:"stops"`
}

func (req tripRequest) toInput() service.TripInput {
	stops := make([]domain.StopTime, len(req.Stops))
	for i, st := range req.Stops {
		stops[i] = domain.StopTime{
			StationCode: st.StationCode,
			Arrival:     st.Arrival,
			Departure:   st.Departure,
			Platform:    st.Platform,
		}
	}
	return service.TripInput{
		TrainNo:   req.TrainNo,
		Days:      req.Days,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Stops:     stops,
	}
}

type tripListResponse struct {
	Items    []domain.TripListItem `json:"items"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
	Total    int64                 `json:"total"`
}

// ListTrips handles GET /trips.
// Supports ?page=, ?pageSize= (default 20, max 100), ?details=, ?trainNo=,
// ?stationCode=, ?activeOnDate= and ?sort= (trainNo | firstDeparture).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	page, ok := optionalInt(w, qs.Get("page"), "page")
	if !ok {
		return
	}
	pageSize, ok := optionalInt(w, qs.Get("pageSize"), "pageSize")
	if !ok {
		return
	}

	q := domain.TripListQuery{
		Page:         domain.NewPaginationParams(page, pageSize),
		Details:      qs.Get("details") == "true" || qs.Get("details") == "1",
		TrainNo:      qs.Get("trainNo"),
		StationCode:  qs.Get("stationCode"),
		ActiveOnDate: qs.Get("activeOnDate"),
		Sort:         qs.Get("sort"),
	}
	if q.Sort != "" && q.Sort != "trainNo" && q.Sort != "firstDeparture" {
		writeError(w, http.StatusBadRequest, "validation_error", "sort must be trainNo or firstDeparture")
		return
	}

	items, total, err := s.trips.List(r.Context(), q)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripListResponse{
		Items:    items,
		Page:     q.Page.Page,
		PageSize: q.Page.PageSize,
		Total:    total,
	})
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "tripID")
	if !ok {
		return
	}
	snapshot, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	id, err := s.trips.Create(r.Context(), req.toInput())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// ReplaceTrip handles PUT /trips/{tripID}.
func (s *Server) ReplaceTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "tripID")
	if !ok {
		return
	}
	var req tripRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := s.trips.Replace(r.Context(), id, req.toInput()); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PatchTrip handles PATCH /trips/{tripID}: one edit command per request,
// applied all-or-nothing. Responds with the updated snapshot.
func (s *Server) PatchTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "tripID")
	if !ok {
		return
	}
	var patch timetable.Patch
	if !s.decodeBody(w, r, &patch) {
		return
	}
	snapshot, err := s.trips.Patch(r.Context(), id, patch)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// DeleteTrip handles DELETE /trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "tripID")
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchTrips handles GET /trips/search.
func (s *Server) SearchTrips(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	params := service.SearchParams{
		From: qs.Get("from"),
		To:   qs.Get("to"),
		Date: qs.Get("date"),
		Time: qs.Get("time"),
	}
	if params.From == "" || params.To == "" || params.Date == "" || params.Time == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "from, to, date and time are required")
		return
	}
	limit, ok := optionalInt(w, qs.Get("limit"), "limit")
	if !ok {
		return
	}
	params.Limit = limit

	segments, err := s.trips.Search(r.Context(), params)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, segments)
}

// optionalInt parses an optional integer query parameter, writing a 400 on
// garbage. Absent values come back as nil.
func optionalInt(w http.ResponseWriter, raw, name string) (*int, bool) {
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", name+" must be an integer")
		return nil, false
	}
	return &n, true
}
