package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placematch/internal/config"
	"github.com/placematch/internal/match"
	"github.com/placematch/internal/normalize"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	buildings := []*match.Building{{
		ID:    "b1",
		Names: normalize.NameRecord{Primary: "Joe's Pizza"},
		Polygon: orb.Polygon{orb.Ring{
			{0, 0}, {0.0001, 0}, {0.0001, 0.0001}, {0, 0.0001}, {0, 0},
		}},
	}}
	engine, err := match.NewEngine(config.DefaultMatchConfig(), buildings)
	require.NoError(t, err)

	return NewServer(engine, "127.0.0.1", 0)
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["buildings"])
}

func TestHandleConfig(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 50.0, body["distance_threshold_meters"])
	assert.Contains(t, body, "name_weights")
	assert.Contains(t, body, "composite_weights")
}

func TestHandleStats(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["indexed_buildings"])
	assert.Equal(t, float64(0), body["rejected_buildings"])
}

func TestHandleMatch(t *testing.T) {
	s := testServer(t)

	payload := `{
		"id": "p1",
		"names": {"primary": "Joe's Pizza"},
		"point": [0.00005, 0.00005]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/match", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result match.MatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "p1", result.PlaceID)
	require.True(t, result.Matched())
	assert.Equal(t, "b1", *result.BuildingID)
	assert.Equal(t, match.TierExcellent, result.QualityTier)
}

func TestHandleMatchBadRequests(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name    string
		payload string
	}{
		{"invalid json", `{not json`},
		{"missing id", `{"names": {"primary": "Joe's Pizza"}, "point": [0, 0]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/match", strings.NewReader(tt.payload))
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
