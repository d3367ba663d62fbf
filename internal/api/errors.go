package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/signalsfoundry/geomag-engine/core"
)

// errorResponse is the JSON body returned for every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusForError maps the engine's error taxonomy onto HTTP status codes and
// a stable machine-readable code for clients and metrics labels.
func statusForError(err error) (int, string) {
	var invalidDate *core.InvalidDateError
	var outOfRange *core.PositionOutOfRangeError
	var expired *core.OutOfValidityRangeError

	switch {
	case errors.As(err, &invalidDate):
		return http.StatusBadRequest, "invalid_date"
	case errors.As(err, &outOfRange):
		return http.StatusBadRequest, "position_out_of_range"
	case errors.As(err, &expired):
		return http.StatusUnprocessableEntity, "out_of_validity_range"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, err error) string {
	status, code := statusForError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error(), Code: code})
	return code
}

func writeBadRequest(w http.ResponseWriter, msg string) string {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg, Code: "bad_request"})
	return "bad_request"
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
