package cmd

import (
	"github.com/spf13/cobra"

	"github.com/storewatch/storewatch/internal/contract"
	"github.com/storewatch/storewatch/internal/storedb"
)

// statusCmd shows status store contents.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display status store statistics and connection details",
	Long: `Show detailed information about the status store.

Displays:
- Backend type and connection status
- Number of stores and observations
- Latest and oldest observation timestamps
- Per-table row counts

Use this to:
- Verify the store is reachable after load
- Check what anchor time a report would use
- Debug ingestion issues

Examples:
  # Check status of the default SQLite store
  storewatch status`,
	Args:     cobra.NoArgs,
	PreRunE:  sharedSetup,
	PostRunE: closeStore,
	Run: func(_ *cobra.Command, _ []string) {
		summary, err := store.Summary(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		storedb.PrintStoreStatus(summary)
	},
}
