package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/slovosled/internal/game"
	"github.com/robalobadob/slovosled/internal/solver"
)

type fakeStatus struct {
	progress solver.Progress
	found    []string
	pool     []string
	best     *solver.Result
}

func (f *fakeStatus) Snapshot() solver.Progress     { return f.progress }
func (f *fakeStatus) Words() (found, pool []string) { return f.found, f.pool }
func (f *fakeStatus) Best() *solver.Result          { return f.best }

func newStatus() *fakeStatus {
	return &fakeStatus{
		progress: solver.Progress{Phase: solver.PhasePlaying, Current: 1250, Total: 2520, Percent: 49, Games: 40000, BestScore: 80},
		found:    []string{"LUPA", "ŠUPA"},
		pool:     []string{"LUPA", "ŠUPA"},
		best: &solver.Result{
			Score:      80,
			Words:      []string{"ŠUPA", "LUPA"},
			Indices:    []int{1, 0},
			Selections: []game.Selection{{7, 4, 6, 9}, {3, 8, 6, 9}},
		},
	}
}

func get(t *testing.T, s *Server, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutes(t *testing.T) {
	s := New(newStatus(), "")
	rec := get(t, s, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = get(t, s, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"service":"slovosled"`)

	rec = get(t, s, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found","path":"/nope"}`, rec.Body.String())
}

func TestNotFoundEscapesPath(t *testing.T) {
	s := New(newStatus(), "")
	rec := get(t, s, `/a%22b%5C`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	assert.Equal(t, `/a"b\`, body["path"])
}

func TestStatusRoutes(t *testing.T) {
	s := New(newStatus(), "")

	rec := get(t, s, "/progress", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "playing", p["phase"])
	assert.Equal(t, float64(49), p["percent"])
	assert.Equal(t, "1,250", p["currentHuman"])
	assert.Equal(t, "40,000", p["gamesHuman"])

	rec = get(t, s, "/words", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"found":["LUPA","ŠUPA"],"pool":["LUPA","ŠUPA"]}`, rec.Body.String())

	rec = get(t, s, "/best", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"score":80,"words":["ŠUPA","LUPA"],"indices":[1,0],"selections":[[7,4,6,9],[3,8,6,9]]}`, rec.Body.String())
}

func TestStatusBeforeResults(t *testing.T) {
	s := New(&fakeStatus{progress: solver.Progress{Phase: solver.PhaseCracking}}, "")

	rec := get(t, s, "/best", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, s, "/words", "")
	assert.JSONEq(t, `{"found":[],"pool":[]}`, rec.Body.String())
}

func TestTokenRequired(t *testing.T) {
	const secret = "s3cret"
	s := New(newStatus(), secret)

	assert.Equal(t, http.StatusOK, get(t, s, "/health", "").Code, "health stays public")
	assert.Equal(t, http.StatusUnauthorized, get(t, s, "/progress", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, s, "/debug/fgprof", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, s, "/best", "garbage").Code)

	tok, exp, err := SignToken(secret, "ops", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)
	assert.Equal(t, http.StatusOK, get(t, s, "/progress", tok).Code)
	assert.Equal(t, http.StatusOK, get(t, s, "/best", tok).Code)

	other, _, err := SignToken("other", "ops", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(t, s, "/progress", other).Code)

	expired, _, err := SignToken(secret, "ops", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(t, s, "/progress", expired).Code)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(t, s, "/progress", noSubject).Code)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ops"}).SignedString([]byte(secret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(t, s, "/progress", noExpiry).Code)
}

func TestSignTokenWithoutSecret(t *testing.T) {
	_, _, err := SignToken("", "ops", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestStartAfterShutdown(t *testing.T) {
	s := New(newStatus(), "")
	require.NoError(t, s.Shutdown(context.Background()))
	assert.NoError(t, s.Start("127.0.0.1:0"))
}
