package server

// String record handlers: analyze-and-create, value-keyed fetch and delete,
// and list with structured filtering. GET and DELETE key by the exact value
// in the URL path; the handler derives the content hash and hits the store
// by id, riding the content-address invariant.

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/teranos/corpus/errors"
	"github.com/teranos/corpus/internal/util"
	"github.com/teranos/corpus/lex/analysis"
	"github.com/teranos/corpus/lex/filter"
	"github.com/teranos/corpus/lex/types"
)

// HandleCreateString analyzes and persists a new string.
// POST /api/strings with body {"value": s}.
func (s *CorpusServer) HandleCreateString(w http.ResponseWriter, r *http.Request) {
	// *string distinguishes a missing field (400) from a field of the
	// wrong JSON type, which fails decoding (422)
	var req struct {
		Value *string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "malformed request body: "+err.Error())
		return
	}
	if req.Value == nil || *req.Value == "" {
		writeError(w, http.StatusBadRequest, "value must not be empty")
		return
	}

	rec := analysis.NewRecord(*req.Value, time.Now())
	if err := s.store.Create(r.Context(), rec); err != nil {
		writeTaxonomyError(w, s.logger, err, "create string")
		return
	}

	s.logger.Infow("String created",
		"id", shortID(rec.ID),
		"length", rec.Properties.Length,
		"word_count", rec.Properties.WordCount,
	)

	s.PublishStringCreated(rec)
	writeJSON(w, http.StatusCreated, rec)
}

// HandleGetString fetches a record by its exact value.
// GET /api/strings/{value} (URL-escaped value).
func (s *CorpusServer) HandleGetString(w http.ResponseWriter, r *http.Request) {
	value := r.PathValue("value")

	rec, err := s.store.GetByValue(r.Context(), value)
	if err != nil {
		writeTaxonomyError(w, s.logger, err, "get string")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// HandleDeleteString removes a record by its exact value.
// DELETE /api/strings/{value}. Responds 204 on success.
func (s *CorpusServer) HandleDeleteString(w http.ResponseWriter, r *http.Request) {
	value := r.PathValue("value")
	id := analysis.HashValue(value)

	if err := s.store.Delete(r.Context(), id); err != nil {
		writeTaxonomyError(w, s.logger, err, "delete string")
		return
	}

	s.logger.Infow("String deleted", "id", shortID(id))

	s.PublishStringDeleted(id, value)
	w.WriteHeader(http.StatusNoContent)
}

// HandleListStrings lists records, optionally filtered by query parameters
// in the predicate vocabulary. GET /api/strings.
func (s *CorpusServer) HandleListStrings(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		// Type-shape violation: a parameter that is not the right kind
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := filter.Validate(f); err != nil {
		writeTaxonomyError(w, s.logger, err, "validate filter")
		return
	}

	records, err := s.store.List(r.Context())
	if err != nil {
		writeTaxonomyError(w, s.logger, err, "list strings")
		return
	}

	matched := filter.Apply(records, f)
	writeJSON(w, http.StatusOK, ListResponse{
		Data:           matched,
		Count:          len(matched),
		FiltersApplied: f,
	})
}

// filterFromQuery builds a Filter from the request's query parameters.
// Unknown parameters are ignored; a present parameter that fails to parse
// as its type is an error.
func filterFromQuery(r *http.Request) (types.Filter, error) {
	var f types.Filter
	q := r.URL.Query()

	intParams := []struct {
		name string
		dest **int
	}{
		{"min_length", &f.MinLength},
		{"max_length", &f.MaxLength},
		{"word_count", &f.WordCount},
		{"unique_characters", &f.UniqueChars},
	}
	for _, p := range intParams {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return types.Filter{}, errors.Newf("%s must be an integer, got %q", p.name, raw)
		}
		*p.dest = util.Ptr(n)
	}

	if raw := q.Get("is_palindrome"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return types.Filter{}, errors.Newf("is_palindrome must be true or false, got %q", raw)
		}
		f.IsPalindrome = util.Ptr(b)
	}

	if raw := q.Get("contains_character"); raw != "" {
		// Shape constraint on the parameter itself, checked here so the
		// violation surfaces as 422 like any other malformed parameter
		if utf8.RuneCountInString(raw) != 1 {
			return types.Filter{}, errors.Newf("contains_character must be exactly one character, got %q", raw)
		}
		f.ContainsCharacter = util.Ptr(raw)
	}

	return f, nil
}
