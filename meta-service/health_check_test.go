package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-dtos"
)

func statusServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runCheck(t *testing.T, targets ...string) (int, dtos.HealthCheckResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	newHealthChecker(targets, time.Second).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var body dtos.HealthCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealthChecker_AllHealthy(t *testing.T) {
	a := statusServer(t, http.StatusOK)
	b := statusServer(t, http.StatusOK)

	code, body := runCheck(t, a.URL, b.URL)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "OK", body.Status)
	require.Equal(t, map[string]string{a.URL: "OK", b.URL: "OK"}, body.Checks)
}

func TestHealthChecker_OneUnhealthy(t *testing.T) {
	ok := statusServer(t, http.StatusOK)
	down := statusServer(t, http.StatusServiceUnavailable)

	code, body := runCheck(t, ok.URL, down.URL)
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, "Unhealthy", body.Status)
	require.Equal(t, "OK", body.Checks[ok.URL])
	require.Equal(t, http.StatusText(http.StatusServiceUnavailable), body.Checks[down.URL])
}

func TestHealthChecker_Unreachable(t *testing.T) {
	srv := statusServer(t, http.StatusOK)
	url := srv.URL
	srv.Close()

	code, body := runCheck(t, url)
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.NotEqual(t, "OK", body.Checks[url])
}

func TestSplitTargets(t *testing.T) {
	require.Equal(t, []string{"http://a/health", "http://b/health"}, splitTargets(" http://a/health, ,http://b/health "))
}
