package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type stationRequest struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// ListStations handles GET /stations.
func (s *Server) ListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := s.stations.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stations)
}

// CreateStation handles POST /stations.
func (s *Server) CreateStation(w http.ResponseWriter, r *http.Request) {
	var req stationRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	station, err := s.stations.Create(r.Context(), req.Code, req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, station)
}

// DeleteStation handles DELETE /stations/{stationID}.
func (s *Server) DeleteStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "stationID")
	if !ok {
		return
	}
	if err := s.stations.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses a positive int64 path parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid_id", name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
