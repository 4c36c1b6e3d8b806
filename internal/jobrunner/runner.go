// Package jobrunner drives report job lifecycles: a triggered job moves
// through running to complete or failed, with the CSV artifact published only
// on success.
package jobrunner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storewatch/storewatch/core"
	"github.com/storewatch/storewatch/internal/contract"
	"github.com/storewatch/storewatch/internal/outwriter"
	"github.com/storewatch/storewatch/schema"
)

// Runner owns report job execution. Jobs run on background goroutines; state
// transitions are monotonic and persisted through the ReportStore. Shutting
// the runner down cancels in-flight jobs, which then land in the failed state.
type Runner struct {
	cfg     *contract.Config
	store   contract.StatusStore
	reports contract.ReportStore
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a Runner. Call Close to cancel outstanding jobs and wait for
// them to settle.
func New(cfg *contract.Config, store contract.StatusStore, reports contract.ReportStore, logger *slog.Logger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		cfg:     cfg,
		store:   store,
		reports: reports,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Trigger creates a new report job in the running state and starts computing
// it in the background. Returns the job's report id.
func (r *Runner) Trigger(ctx context.Context) (string, error) {
	reportID := uuid.NewString()
	if err := r.reports.CreateReport(ctx, reportID, schema.ReportRunning, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("failed to create report job: %w", err)
	}

	r.logger.Info("report job triggered", "report_id", reportID)
	r.wg.Add(1)
	go r.run(reportID)
	return reportID, nil
}

// Poll returns the current job record for a report id.
func (r *Runner) Poll(ctx context.Context, reportID string) (schema.ReportRecord, error) {
	return r.reports.GetReport(ctx, reportID)
}

// ArtifactPath is where a completed report's CSV artifact lives.
func (r *Runner) ArtifactPath(reportID string) string {
	return filepath.Join(r.cfg.ReportsDir, reportID+".csv")
}

// Close cancels in-flight jobs and waits for them to settle.
func (r *Runner) Close() {
	r.cancel()
	r.wg.Wait()
}

// run executes one report job end to end. The report is all-or-nothing: any
// unrecovered error fails the job and removes partial output.
func (r *Runner) run(reportID string) {
	defer r.wg.Done()
	start := time.Now()

	anchor, err := core.ResolveAnchor(r.ctx, r.cfg, r.store)
	if err != nil {
		r.fail(reportID, fmt.Errorf("failed to resolve report anchor: %w", err))
		return
	}

	report, err := core.GenerateReport(r.ctx, r.cfg, r.store, anchor)
	if err != nil {
		r.fail(reportID, err)
		return
	}

	if err := os.MkdirAll(r.cfg.ReportsDir, 0o755); err != nil {
		r.fail(reportID, fmt.Errorf("failed to create reports directory: %w", err))
		return
	}
	path := r.ArtifactPath(reportID)
	if err := outwriter.WriteReportCSVFile(report, path); err != nil {
		_ = os.Remove(path)
		r.fail(reportID, fmt.Errorf("failed to write report artifact: %w", err))
		return
	}

	completed := time.Now().UTC()
	if err := r.reports.UpdateReportState(r.ctx, reportID, schema.ReportComplete, "", &completed); err != nil {
		r.logger.Error("failed to mark report complete", "report_id", reportID, "error", err)
		return
	}
	r.logger.Info("report job complete",
		"report_id", reportID, "stores", len(report.Rows), "skipped", len(report.Skipped),
		"duration", time.Since(start))
}

// fail transitions a job to the failed state with a reason.
func (r *Runner) fail(reportID string, cause error) {
	r.logger.Error("report job failed", "report_id", reportID, "error", cause)
	completed := time.Now().UTC()
	// Use a fresh context: the job context may already be cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.reports.UpdateReportState(ctx, reportID, schema.ReportFailed, cause.Error(), &completed); err != nil {
		r.logger.Error("failed to mark report failed", "report_id", reportID, "error", err)
	}
}
