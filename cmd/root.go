package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/storewatch/storewatch/internal/contract"
	"github.com/storewatch/storewatch/internal/storedb"
	"github.com/storewatch/storewatch/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// store is the status store opened by sharedSetup.
var store *storedb.Store

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "storewatch",
	Short:              "Estimate store uptime and downtime within business hours.",
	Long:               `Storewatch turns sparse store status observations into business-hours uptime reports.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".storewatch") // Name of config file (without extension)
		viper.SetConfigType("yaml")        // We'll use YAML format
		viper.AddConfigPath(".")           // Look in the current directory
		viper.AddConfigPath("$HOME")       // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("STOREWATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("db-backend", schema.SQLiteBackend)
	viper.SetDefault("db-connect", "")
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.CSVOut)
	viper.SetDefault("reports-dir", contract.DefaultReportsDir)
	viper.SetDefault("listen", contract.DefaultListenAddr)
	viper.SetDefault("data-dir", ".")
	viper.SetDefault("color", "yes")
}

// sharedSetup unmarshals config, runs validation, and opens the status store.
func sharedSetup(_ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 4. Open the status store with validated config.
	var err error
	store, err = storedb.NewStore(cfg.DBBackend, cfg.DBConnect)
	if err != nil {
		return fmt.Errorf("failed to open status store: %w", err)
	}

	return nil
}

// migrateSetup loads minimal configuration for migrate operations.
// It does NOT open the store, allowing migrations to run on a fresh database.
func migrateSetup(_ *cobra.Command, _ []string) error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("db-backend")))
	connStr := viper.GetString("db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.DBBackend = backend
	cfg.DBConnect = connStr
	return nil
}

// closeStore is the PostRunE counterpart of sharedSetup.
func closeStore(_ *cobra.Command, _ []string) error {
	if store == nil {
		return nil
	}
	return store.Close()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
