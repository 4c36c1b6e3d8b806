package cmd

import (
	"github.com/spf13/cobra"

	"github.com/storewatch/storewatch/internal/contract"
)

// loadCmd ingests the source CSV files into the status store.
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load source CSV files into the status store.",
	Long: `Ingest store observations, business hours, and timezones from CSV.

Looks for three files under --data-dir:
- store_status.csv  (store_id, timestamp_utc, status)
- menu_hours.csv    (store_id, day_of_week, start_time_local, end_time_local)
- timezones.csv     (store_id, timezone_str)

Tables that already hold data are left untouched, so reruns are safe.
Malformed rows are logged and skipped.

Examples:
  # Load from the current directory into the default SQLite store
  storewatch load

  # Load into MySQL from a data drop
  storewatch load --data-dir /srv/data --db-backend mysql --db-connect "user:pass@tcp(host:3306)/storewatch"`,
	Args:     cobra.NoArgs,
	PreRunE:  sharedSetup,
	PostRunE: closeStore,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.LoadAll(rootCtx, cfg.DataDir); err != nil {
			contract.LogFatal("Cannot load CSV data", err)
		}
	},
}
