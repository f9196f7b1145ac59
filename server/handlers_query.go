package server

// Natural-language query handler: interpret, validate, then filter exactly
// as a structured list request would.

import (
	"net/http"

	"github.com/teranos/corpus/lex/filter"
)

// HandleNaturalLanguageQuery runs the interpreter pipeline end to end.
// GET /api/strings/filter-by-natural-language?query=...
func (s *CorpusServer) HandleNaturalLanguageQuery(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter must not be empty")
		return
	}

	parsed, err := s.currentInterpreter().Interpret(query)
	if err != nil {
		writeTaxonomyError(w, s.logger, err, "interpret query")
		return
	}

	// The interpreter emits raw fragments; malformed ones ("shorter than
	// 0" yields max_length = -1) are rejected here like any other filter
	if err := filter.Validate(parsed); err != nil {
		writeTaxonomyError(w, s.logger, err, "validate interpreted filter")
		return
	}

	records, err := s.store.List(r.Context())
	if err != nil {
		writeTaxonomyError(w, s.logger, err, "list strings")
		return
	}

	matched := filter.Apply(records, parsed)

	s.logger.Debugw("Natural-language query served",
		"query", query,
		"fields", parsed.Fields(),
		"matched", len(matched),
	)

	writeJSON(w, http.StatusOK, NLResponse{
		Data:  matched,
		Count: len(matched),
		InterpretedQuery: InterpretedQuery{
			Original:      query,
			ParsedFilters: parsed,
		},
	})
}
