package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/teranos/corpus/errors"
	"github.com/teranos/corpus/lex/types"
)

// ListResponse is the envelope for list/filter results. FiltersApplied
// echoes the effective filter with only its set fields.
type ListResponse struct {
	Data           []types.StringRecord `json:"data"`
	Count          int                  `json:"count"`
	FiltersApplied types.Filter         `json:"filters_applied"`
}

// InterpretedQuery echoes what the interpreter made of a natural-language
// query
type InterpretedQuery struct {
	Original      string       `json:"original"`
	ParsedFilters types.Filter `json:"parsed_filters"`
}

// NLResponse is the envelope for natural-language query results
type NLResponse struct {
	Data             []types.StringRecord `json:"data"`
	Count            int                  `json:"count"`
	InterpretedQuery InterpretedQuery     `json:"interpreted_query"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeTaxonomyError maps an error from the core onto its HTTP status via
// the shared sentinels. Anything outside the taxonomy is an internal
// failure: logged with context, surfaced as a bare 500.
func writeTaxonomyError(w http.ResponseWriter, log *zap.SugaredLogger, err error, operation string) {
	switch {
	case errors.IsInvalidRequestError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.IsUninterpretableError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.IsNotFoundError(err):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.IsConflictError(err):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Errorw("Request failed",
			"operation", operation,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// shortID truncates an ID to 8 characters for logging
func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
