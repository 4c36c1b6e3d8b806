// Package cmd defines the command-line interface for storewatch.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/storewatch/storewatch/internal/contract"
	"github.com/storewatch/storewatch/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Database backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().String("output", string(schema.CSVOut), "Output format: csv or text or json or parquet")
	reportCmd.Flags().String("output-file", "", "Optional path to write output to")
	reportCmd.Flags().Int("precision", contract.DefaultPrecision, "Decimal precision for the availability percentage (0-6)")
	reportCmd.Flags().String("at", "", "Anchor time in RFC3339 (default: latest observation)")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("listen", contract.DefaultListenAddr, "Address for the HTTP API to listen on")
	serveCmd.Flags().String("reports-dir", contract.DefaultReportsDir, "Directory for completed report artifacts")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of loadCmd to Viper
	loadCmd.Flags().String("data-dir", ".", "Directory holding store_status.csv, menu_hours.csv, timezones.csv")
	if err := viper.BindPFlags(loadCmd.Flags()); err != nil {
		contract.LogFatal("Error binding load flags", err)
	}

	// Bind all flags of migrateCmd to Viper
	migrateCmd.Flags().Int("target", -1, "Target migration version (-1 = latest, 0 = down)")
	if err := viper.BindPFlags(migrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding migrate flags", err)
	}
}
