package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/storewatch/storewatch/internal/contract"
	"github.com/storewatch/storewatch/internal/storedb"
)

// migrateCmd applies schema migrations to the status store.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations.",
	Long: `Bring the status store schema to the target version.

By default migrates up to the latest version. A target of 0 tears the
schema down; a positive target migrates to that exact version.

Examples:
  # Migrate the default SQLite store to the latest version
  storewatch migrate

  # Roll the schema back entirely
  storewatch migrate --target 0`,
	Args:    cobra.NoArgs,
	PreRunE: migrateSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		target := viper.GetInt("target")
		if err := storedb.Migrate(cfg.DBBackend, cfg.DBConnect, target); err != nil {
			contract.LogFatal("Cannot run migrations", err)
		}
		var desc string
		switch {
		case target < 0:
			desc = "latest"
		case target == 0:
			desc = "down"
		default:
			desc = fmt.Sprintf("version %d", target)
		}
		cmd.Printf("Migrated %s schema to %s\n", cfg.DBBackend, desc)
	},
}
