// Package outwriter has output and writer logic for report artifacts.
package outwriter

import (
	"fmt"
	"time"

	"github.com/storewatch/storewatch/internal/contract"
	"github.com/storewatch/storewatch/internal/parquet"
	"github.com/storewatch/storewatch/schema"
)

// WriteReport writes a generated report in the configured output mode.
// Text goes to stdout unless an output file is set; parquet requires a file.
func WriteReport(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.CSVOut:
		return writeReportCSV(report, cfg.OutputFile)
	case schema.JSONOut:
		return writeReportJSON(report, cfg.OutputFile)
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires --output-file")
		}
		return parquet.WriteReportParquet(report, cfg.OutputFile)
	case schema.TextOut:
		return writeReportTable(report, cfg, duration)
	default:
		return fmt.Errorf("unsupported output mode: %s", cfg.Output)
	}
}

// WriteReportCSVFile writes the canonical CSV artifact to a specific path.
// This is the format the report job publishes and the HTTP layer serves.
func WriteReportCSVFile(report *schema.Report, path string) error {
	return writeReportCSV(report, path)
}
