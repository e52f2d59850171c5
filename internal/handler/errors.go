package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/timetable/backend/internal/domain"
	"github.com/pkordes/timetable/backend/internal/timetable"
)

// errorDetail is the machine-readable part of an error response. Code is a
// stable snake_case identifier; for timetable rule violations it is the
// rule kind itself.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

// writeJSON serializes v with the right Content-Type. Encoding errors at
// this point mean the response is already underway, so they are dropped.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// respondError maps a service error onto an HTTP status and error body.
// Timetable rule violations keep their kind as the error code so clients can
// branch without string-matching messages.
func respondError(w http.ResponseWriter, err error) {
	var te *timetable.Error
	switch {
	case errors.As(err, &te):
		writeError(w, http.StatusBadRequest, string(te.Kind), te.Message)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", messageOf(err))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", messageOf(err))
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", messageOf(err))
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
	default:
		// Never leak internals to the client; the slog middleware has the
		// request ID for correlation.
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// layerPrefixRe matches the "layer.Type.Method: " prefixes added as errors
// travel up the stack.
var layerPrefixRe = regexp.MustCompile(`^([a-z]+\.[A-Za-z]+\.[A-Za-z]+: )+`)

// messageOf extracts the human-readable part from a wrapped sentinel error,
// e.g. "service.StationService.Create: name must be 1-200 characters:
// validation error" becomes "name must be 1-200 characters".
func messageOf(err error) string {
	if err == nil {
		return ""
	}
	msg := layerPrefixRe.ReplaceAllString(err.Error(), "")
	for _, sentinel := range []error{domain.ErrValidation, domain.ErrNotFound, domain.ErrConflict} {
		msg = strings.TrimSuffix(msg, ": "+sentinel.Error())
	}
	return msg
}

// decodeBody decodes and tag-validates a JSON request body into dst. On
// failure it writes the error response and returns false; handlers just
// return early.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "malformed_body", "request body is not valid JSON")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			f := fieldErrs[0]
			writeError(w, http.StatusBadRequest, "validation_error",
				"field "+f.Field()+" failed on the "+f.Tag()+" rule")
			return false
		}
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return false
	}
	return true
}
