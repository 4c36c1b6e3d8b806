// Package httpapi exposes report jobs over HTTP: trigger a report, then poll
// it until the CSV artifact is ready.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/storewatch/storewatch/internal/jobrunner"
	"github.com/storewatch/storewatch/internal/storedb"
	"github.com/storewatch/storewatch/schema"
)

// Server serves the report trigger/poll API.
type Server struct {
	logger *slog.Logger
	runner *jobrunner.Runner
	server *http.Server
}

// New builds a Server listening on addr.
func New(addr string, runner *jobrunner.Runner, logger *slog.Logger) *Server {
	s := &Server{
		logger: logger,
		runner: runner,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/trigger_report", s.TriggerReport)
	r.Get("/get_report", s.GetReport)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown drains the HTTP server and cancels in-flight report jobs.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.runner.Close()
	return err
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// TriggerReport starts a new report job and returns its report id.
func (s *Server) TriggerReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := s.runner.Trigger(r.Context())
	if err != nil {
		s.logger.Error("Failed to trigger report", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"report_id": reportID})
}

// GetReport polls a report job. While the job runs it returns a JSON status;
// once complete it serves the CSV artifact.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	reportID := r.URL.Query().Get("report_id")
	if reportID == "" {
		http.Error(w, "missing report_id parameter", http.StatusBadRequest)
		return
	}

	record, err := s.runner.Poll(r.Context(), reportID)
	if err != nil {
		if errors.Is(err, storedb.ErrReportNotFound) {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		s.logger.Error("Failed to poll report", "report_id", reportID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	switch record.State {
	case schema.ReportQueued, schema.ReportRunning:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "Running"})
	case schema.ReportFailed:
		s.logger.Warn("Report job failed", "report_id", reportID, "reason", record.Reason)
		http.Error(w, fmt.Sprintf("report failed: %s", record.Reason), http.StatusInternalServerError)
	case schema.ReportComplete:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportID+".csv"))
		http.ServeFile(w, r, s.runner.ArtifactPath(reportID))
	default:
		http.Error(w, "unknown report state", http.StatusInternalServerError)
	}
}
