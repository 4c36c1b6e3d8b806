package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storewatch/storewatch/internal/contract"
	"github.com/storewatch/storewatch/internal/jobrunner"
	"github.com/storewatch/storewatch/internal/storedb"
	"github.com/storewatch/storewatch/schema"
)

func testServer(t *testing.T, status *storedb.MemStatusStore, reports *storedb.MemReportStore) (*Server, *jobrunner.Runner) {
	t.Helper()
	cfg := &contract.Config{Workers: 2, ReportsDir: t.TempDir()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	runner := jobrunner.New(cfg, status, reports, logger)
	return New(":0", runner, logger), runner
}

func seededStatusStore() *storedb.MemStatusStore {
	now := time.Date(2025, 1, 25, 10, 0, 0, 0, time.UTC)
	store := storedb.NewMemStatusStore()
	store.Observations["s1"] = []schema.Observation{
		{Timestamp: now, Status: schema.ActiveStatus},
	}
	return store
}

// TestTriggerAndGetReport tests the trigger/poll round trip through the router.
func TestTriggerAndGetReport(t *testing.T) {
	server, runner := testServer(t, seededStatusStore(), storedb.NewMemReportStore())
	handler := server.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/trigger_report", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)

	var triggered map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &triggered))
	reportID := triggered["report_id"]
	require.NotEmpty(t, reportID)

	// Wait for the background job to settle before polling for the artifact.
	runner.Close()

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get_report?report_id="+reportID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), reportID)

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(schema.ReportHeader, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "s1,"))
}

// TestGetReportStates tests the running and failed response shapes against
// pre-seeded job records.
func TestGetReportStates(t *testing.T) {
	ctx := context.Background()
	reports := storedb.NewMemReportStore()
	require.NoError(t, reports.CreateReport(ctx, "job-running", schema.ReportRunning, time.Now()))
	require.NoError(t, reports.CreateReport(ctx, "job-failed", schema.ReportFailed, time.Now()))
	require.NoError(t, reports.UpdateReportState(ctx, "job-failed", schema.ReportFailed, "boom", nil))

	server, runner := testServer(t, seededStatusStore(), reports)
	defer runner.Close()
	handler := server.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get_report?report_id=job-running", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "Running", status["status"])

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get_report?report_id=job-failed", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")
}

// TestGetReportErrors tests the error responses.
func TestGetReportErrors(t *testing.T) {
	server, runner := testServer(t, seededStatusStore(), storedb.NewMemReportStore())
	defer runner.Close()
	handler := server.Handler()

	tests := []struct {
		name     string
		target   string
		expected int
	}{
		{name: "missing id", target: "/get_report", expected: http.StatusBadRequest},
		{name: "unknown id", target: "/get_report?report_id=nope", expected: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}
