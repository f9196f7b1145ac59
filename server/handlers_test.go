package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/corpus/config"
	corpustesting "github.com/teranos/corpus/internal/testing"
	"github.com/teranos/corpus/lex/analysis"
	"github.com/teranos/corpus/lex/parser"
	"github.com/teranos/corpus/lex/storage"
	"github.com/teranos/corpus/lex/types"
)

// newTestServer builds a server over an in-memory migrated database,
// without the HTTP listener or config watcher.
func newTestServer(t *testing.T) *CorpusServer {
	t.Helper()

	database := corpustesting.CreateMigratedTestDB(t)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:           config.DefaultServerHost,
			Port:           config.DefaultServerPort,
			RateLimitRPS:   1000,
			RateLimitBurst: 1000,
		},
		Database: config.DatabaseConfig{Path: ":memory:"},
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s := &CorpusServer{
		db:          database,
		dbPath:      ":memory:",
		store:       storage.NewSQLStore(database, nil),
		interpreter: parser.New(),
		cfg:         cfg,
		clients:     make(map[*Client]bool),
		broadcast:   make(chan Event, EventQueueSize),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		limiters:    make(map[string]*rate.Limiter),
		logger:      zap.NewNop().Sugar(),
		startedAt:   time.Now(),
		ctx:         ctx,
		cancel:      cancel,
	}
	s.state.Store(int32(ServerStateRunning))
	return s
}

func createString(t *testing.T, handler http.Handler, value string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"value": value})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/strings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestCreateString(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	rr := createString(t, handler, "racecar")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var rec types.StringRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.Equal(t, analysis.HashValue("racecar"), rec.ID)
	assert.Equal(t, "racecar", rec.Value)
	assert.Equal(t, 7, rec.Properties.Length)
	assert.True(t, rec.Properties.IsPalindrome)
	assert.Equal(t, 4, rec.Properties.UniqueChars)
	assert.Equal(t, 1, rec.Properties.WordCount)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestCreateStringRejectsEmptyValue(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	rr := createString(t, handler, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateStringRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json at all"},
		{"wrong value type", `{"value": 42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/strings", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		})
	}
}

func TestCreateStringDuplicateConflict(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	require.Equal(t, http.StatusCreated, createString(t, handler, "abc").Code)
	assert.Equal(t, http.StatusConflict, createString(t, handler, "abc").Code)

	// The original record is untouched
	count, err := s.store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetStringByValue(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	require.Equal(t, http.StatusCreated, createString(t, handler, "Hello World").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/strings/"+url.PathEscape("Hello World"), nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var rec types.StringRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.Equal(t, "Hello World", rec.Value)
	assert.Equal(t, 11, rec.Properties.Length)
	assert.False(t, rec.Properties.IsPalindrome)
	assert.Equal(t, 8, rec.Properties.UniqueChars)
	assert.Equal(t, 2, rec.Properties.WordCount)
}

func TestGetStringNotFound(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	req := httptest.NewRequest(http.MethodGet, "/api/strings/missing", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteString(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	require.Equal(t, http.StatusCreated, createString(t, handler, "abc").Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/strings/abc", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// Deleted record is gone
	req = httptest.NewRequest(http.MethodGet, "/api/strings/abc", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Deleting again is a 404
	req = httptest.NewRequest(http.MethodDelete, "/api/strings/abc", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListStrings(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	for _, v := range []string{"racecar", "Hello World", "level"} {
		require.Equal(t, http.StatusCreated, createString(t, handler, v).Code)
	}

	t.Run("no filter returns all in creation order", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/strings", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp ListResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Count)
		values := []string{resp.Data[0].Value, resp.Data[1].Value, resp.Data[2].Value}
		assert.Equal(t, []string{"racecar", "Hello World", "level"}, values)
		assert.True(t, resp.FiltersApplied.IsEmpty())
	})

	t.Run("palindrome filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/strings?is_palindrome=true", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp ListResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Count)
	})

	t.Run("bounds filter echoes applied fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/strings?min_length=6&max_length=10", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp ListResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
		assert.Equal(t, "racecar", resp.Data[0].Value)
		require.NotNil(t, resp.FiltersApplied.MinLength)
		assert.Equal(t, 6, *resp.FiltersApplied.MinLength)
	})

	t.Run("non-integer bound is a type-shape error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/strings?min_length=six", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("inverted bounds are a semantic error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/strings?min_length=10&max_length=5", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("multi-character contains_character is a type-shape error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/strings?contains_character=ab", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestNaturalLanguageQuery(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	for _, v := range []string{"racecar", "Hello World", "A man, a plan, a canal: Panama"} {
		require.Equal(t, http.StatusCreated, createString(t, handler, v).Code)
	}

	t.Run("single word palindromes", func(t *testing.T) {
		query := url.QueryEscape("all single word palindromic strings")
		req := httptest.NewRequest(http.MethodGet, "/api/strings/filter-by-natural-language?query="+query, nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var resp NLResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "racecar", resp.Data[0].Value)
		assert.Equal(t, "all single word palindromic strings", resp.InterpretedQuery.Original)
		require.NotNil(t, resp.InterpretedQuery.ParsedFilters.WordCount)
		assert.Equal(t, 1, *resp.InterpretedQuery.ParsedFilters.WordCount)
		require.NotNil(t, resp.InterpretedQuery.ParsedFilters.IsPalindrome)
		assert.True(t, *resp.InterpretedQuery.ParsedFilters.IsPalindrome)
	})

	t.Run("longer than", func(t *testing.T) {
		query := url.QueryEscape("strings longer than 10 characters")
		req := httptest.NewRequest(http.MethodGet, "/api/strings/filter-by-natural-language?query="+query, nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp NLResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.NotNil(t, resp.InterpretedQuery.ParsedFilters.MinLength)
		assert.Equal(t, 11, *resp.InterpretedQuery.ParsedFilters.MinLength)
		assert.Equal(t, 2, resp.Count)
	})

	t.Run("uninterpretable query is a 400", func(t *testing.T) {
		query := url.QueryEscape("show me something nice")
		req := httptest.NewRequest(http.MethodGet, "/api/strings/filter-by-natural-language?query="+query, nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing query parameter is a 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/strings/filter-by-natural-language", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed fragment rejected at the boundary", func(t *testing.T) {
		query := url.QueryEscape("strings shorter than 0 characters")
		req := httptest.NewRequest(http.MethodGet, "/api/strings/filter-by-natural-language?query="+query, nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		// "shorter than 0" parses to max_length = -1, a validation error
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "corpus", health["name"])
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	require.Equal(t, http.StatusCreated, createString(t, handler, "abc").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, float64(1), status["record_count"])
	assert.Equal(t, "running", status["state"])
}

func TestHandleConfig(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var cfg map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cfg))
	assert.Equal(t, float64(config.DefaultServerPort), cfg["server"]["port"])
}

func TestRateLimitMiddleware(t *testing.T) {
	s := newTestServer(t)
	s.cfg.Server.RateLimitRPS = 0.001
	s.cfg.Server.RateLimitBurst = 2
	handler := s.routes()

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/strings", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		last = rr.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)

	// A different client IP has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/api/strings", nil)
	req.RemoteAddr = "10.0.0.2:12345"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Health bypasses the limiter entirely
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	s := newTestServer(t)
	handler := s.routes()

	req := httptest.NewRequest(http.MethodOptions, "/api/strings", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestFilterFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/strings?min_length=%d&is_palindrome=true&contains_character=a", 3), nil)

	f, err := filterFromQuery(req)
	require.NoError(t, err)
	require.NotNil(t, f.MinLength)
	assert.Equal(t, 3, *f.MinLength)
	require.NotNil(t, f.IsPalindrome)
	assert.True(t, *f.IsPalindrome)
	require.NotNil(t, f.ContainsCharacter)
	assert.Equal(t, "a", *f.ContainsCharacter)
	assert.Nil(t, f.MaxLength)
	assert.Nil(t, f.WordCount)
	assert.Nil(t, f.UniqueChars)
}
