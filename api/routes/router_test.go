package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/oharrington/thirdline-backend/pkg/config"
	"github.com/oharrington/thirdline-backend/pkg/logger"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{App: config.AppConfig{Env: "test", Port: "0"}}
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	return NewRouter(cfg, logg, stubPinger{}, stubPinger{}, nil, nil)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "test", rec.Header().Get("X-Thirdline-Env"))
	require.Contains(t, rec.Body.String(), `"status":"live"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ready"`)
}

func TestWorkflowEndpointsRejectBadPayloads(t *testing.T) {
	router := newTestRouter(t)

	paths := []string{
		"/v1/workflows/profiles/start",
		"/v1/workflows/profiles/approval",
		"/v1/workflows/questionnaires/submitted",
		"/v1/workflows/scorecards/submitted",
		"/v1/workflows/cases/review",
		"/v1/workflows/invitations/manual-send",
		"/v1/workflows/batch-review/launch",
	}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{"))
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, "path %s", path)
		require.Contains(t, rec.Body.String(), "VALIDATION_ERROR", "path %s", path)
	}
}

func TestBatchAvailabilityRequiresIDs(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/workflows/batch-review/availability", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
