package wire_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/wire"
	"movie-catalog/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{
			Name:           "movie-catalog",
			RequestTimeout: 5 * time.Second,
			CORSOrigins:    []string{"*"},
			MetricsEnabled: true,
		},
		Database: utils.DatabaseConfig{Driver: utils.DriverMemory},
	}
}

func setupApp(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	app := wire.Wiring(repository.NewMemoryRepository(logger), testConfig(), logger)
	return app.Handler
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var obj map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &obj)
	return w, obj
}

func createMovie(t *testing.T, h http.Handler, body string) map[string]any {
	t.Helper()
	w, resp := do(t, h, http.MethodPost, "/movies", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	movie, ok := resp["movie"].(map[string]any)
	require.True(t, ok)
	return movie
}

func TestCreateThenReadAll(t *testing.T) {
	h := setupApp(t)

	w, resp := do(t, h, http.MethodPost, "/movies", `{"title":"X","director":"D","genre":"G"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Movie added successfully.", resp["message"])
	movie := resp["movie"].(map[string]any)
	id, _ := movie["_id"].(string)
	require.NotEmpty(t, id)

	w, _ = do(t, h, http.MethodGet, "/movies", "")
	require.Equal(t, http.StatusOK, w.Code)

	var movies []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &movies))
	require.Len(t, movies, 1)
	assert.Equal(t, id, movies[0]["_id"])
}

func TestRoundTripByTitle(t *testing.T) {
	h := setupApp(t)
	created := createMovie(t, h, `{"title":"X","director":"D","genre":"G","year":1999}`)

	w, movie := do(t, h, http.MethodGet, "/movies/X", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, created["_id"], movie["_id"])
	assert.Equal(t, "X", movie["title"])
	assert.Equal(t, "D", movie["director"])
	assert.Equal(t, "G", movie["genre"])
	assert.Equal(t, float64(1999), movie["year"])
	assert.Contains(t, movie, "createdAt")
}

func TestReadByTitleNotFound(t *testing.T) {
	h := setupApp(t)

	w, resp := do(t, h, http.MethodGet, "/movies/Nope", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Movie not found.", resp["error"])
}

func TestReadAllEmptyIsNotFound(t *testing.T) {
	h := setupApp(t)

	w, resp := do(t, h, http.MethodGet, "/movies", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No movies found.", resp["error"])
}

func TestReadByDirectorAndGenre(t *testing.T) {
	h := setupApp(t)
	createMovie(t, h, `{"title":"Heat","director":"Michael Mann","genre":"Crime"}`)
	createMovie(t, h, `{"title":"Collateral","director":"Michael Mann","genre":"Thriller"}`)
	createMovie(t, h, `{"title":"Alien","director":"Ridley Scott","genre":"Horror"}`)

	w, _ := do(t, h, http.MethodGet, "/movies/director/Michael%20Mann", "")
	require.Equal(t, http.StatusOK, w.Code)
	var byDirector []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &byDirector))
	assert.Len(t, byDirector, 2)

	w, _ = do(t, h, http.MethodGet, "/movies/genres/Horror", "")
	require.Equal(t, http.StatusOK, w.Code)
	var byGenre []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &byGenre))
	require.Len(t, byGenre, 1)
	assert.Equal(t, "Alien", byGenre[0]["title"])

	w, resp := do(t, h, http.MethodGet, "/movies/genres/Western", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No movies found.", resp["error"])

	w, _ = do(t, h, http.MethodGet, "/movies/director/Nobody", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdate(t *testing.T) {
	h := setupApp(t)
	created := createMovie(t, h, `{"title":"X","director":"D","genre":"G"}`)
	id := created["_id"].(string)

	w, resp := do(t, h, http.MethodPost, "/movies/"+id, `{"genre":"Noir","_id":"hijack"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Movie updated successfully.", resp["message"])

	movie := resp["movie"].(map[string]any)
	assert.Equal(t, id, movie["_id"])
	assert.Equal(t, "X", movie["title"])
	assert.Equal(t, "D", movie["director"])
	assert.Equal(t, "Noir", movie["genre"])
	assert.Equal(t, created["createdAt"], movie["createdAt"])
}

func TestUpdateNotFound(t *testing.T) {
	h := setupApp(t)

	w, resp := do(t, h, http.MethodPost, "/movies/"+uuid.NewString(), `{"genre":"Noir"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Movie not found.", resp["error"])
}

func TestDelete(t *testing.T) {
	h := setupApp(t)
	created := createMovie(t, h, `{"title":"X"}`)
	id := created["_id"].(string)

	w, resp := do(t, h, http.MethodDelete, "/movies/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Movie deleted successfully.", resp["message"])

	// a second delete finds nothing and answers instead of hanging
	w, resp = do(t, h, http.MethodDelete, "/movies/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Movie not found.", resp["error"])
}

func TestMalformedIdentifierIsServerError(t *testing.T) {
	h := setupApp(t)

	w, resp := do(t, h, http.MethodDelete, "/movies/not-an-id", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to delete a movie.", resp["error"])

	w, resp = do(t, h, http.MethodPost, "/movies/not-an-id", `{"genre":"Noir"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to update a movie.", resp["error"])
}

func TestInvalidBody(t *testing.T) {
	h := setupApp(t)

	w, resp := do(t, h, http.MethodPost, "/movies", `[1,2,3]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body.", resp["error"])

	w, _ = do(t, h, http.MethodPost, "/movies", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAcceptsNonStringFields(t *testing.T) {
	h := setupApp(t)

	movie := createMovie(t, h, `{"title":1917,"director":"Sam Mendes","genre":"War"}`)
	assert.Equal(t, "1917", movie["title"])

	w, found := do(t, h, http.MethodGet, "/movies/1917", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, movie["_id"], found["_id"])

	movie = createMovie(t, h, `{"title":"X","genre":["Drama","War"]}`)
	assert.Equal(t, []any{"Drama", "War"}, movie["genre"])

	w, _ = do(t, h, http.MethodGet, "/movies", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateKeepsEmptyField(t *testing.T) {
	h := setupApp(t)

	movie := createMovie(t, h, `{"title":"","director":"D"}`)
	assert.Contains(t, movie, "title")
	assert.Equal(t, "", movie["title"])

	w, _ := do(t, h, http.MethodGet, "/movies/director/D", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "", list[0]["title"])
}

func TestLookupWithEncodedSlash(t *testing.T) {
	h := setupApp(t)
	created := createMovie(t, h, `{"title":"Face/Off","director":"John Woo","genre":"Action/Thriller"}`)

	w, movie := do(t, h, http.MethodGet, "/movies/Face%2FOff", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, created["_id"], movie["_id"])

	w, _ = do(t, h, http.MethodGet, "/movies/genres/Action%2FThriller", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, h, http.MethodGet, "/movies/100%25", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStrictSchema(t *testing.T) {
	logger := zap.NewNop()
	config := testConfig()
	config.App.StrictSchema = true
	h := wire.Wiring(repository.NewMemoryRepository(logger), config, logger).Handler

	w, resp := do(t, h, http.MethodPost, "/movies", `{"title":"X","director":"D"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields, ok := resp["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "Genre")
}

func TestCORSAndHealth(t *testing.T) {
	h := setupApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/movies", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w, _ = do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h := setupApp(t)
	do(t, h, http.MethodGet, "/movies", "")

	w, _ := do(t, h, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "movie_catalog_http_requests_total")
}
