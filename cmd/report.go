package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/storewatch/storewatch/core"
	"github.com/storewatch/storewatch/internal/contract"
	"github.com/storewatch/storewatch/internal/outwriter"
)

// reportCmd generates one uptime report and writes it out.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate an uptime report for every store.",
	Long: `Compute business-hours uptime and downtime for every store over the
last hour, day, and week, anchored at the latest observation.

For each store, observations are interpolated across its business hours
to estimate how long it was active and inactive within each window.

Examples:
  # Write the report as CSV to stdout
  storewatch report

  # Render a summary table in the terminal
  storewatch report --output text

  # Export findings for a fixed point in time
  storewatch report --at 2025-01-25T10:00:00Z --output parquet --output-file report.parquet`,
	Args:     cobra.NoArgs,
	PreRunE:  sharedSetup,
	PostRunE: closeStore,
	Run: func(_ *cobra.Command, _ []string) {
		start := time.Now()
		anchor, err := core.ResolveAnchor(rootCtx, cfg, store)
		if err != nil {
			contract.LogFatal("Cannot resolve report anchor", err)
		}
		report, err := core.GenerateReport(rootCtx, cfg, store, anchor)
		if err != nil {
			contract.LogFatal("Cannot generate report", err)
		}
		if err := outwriter.WriteReport(report, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write report", err)
		}
	},
}
