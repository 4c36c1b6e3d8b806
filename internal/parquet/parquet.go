// Package parquet exports report rows to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/storewatch/storewatch/schema"
)

// ReportRow maps a schema.ReportRow onto a Parquet row schema.
type ReportRow struct {
	// StoreID is the store identifier from the status feed
	StoreID string `parquet:"store_id,snappy"`

	// GeneratedAt is the report anchor instant
	GeneratedAt time.Time `parquet:"generated_at,snappy"`

	// Uptime/downtime magnitudes, all integer minutes
	UptimeLastHour   int64 `parquet:"uptime_last_hour,snappy"`
	UptimeLastDay    int64 `parquet:"uptime_last_day,snappy"`
	UptimeLastWeek   int64 `parquet:"uptime_last_week,snappy"`
	DowntimeLastHour int64 `parquet:"downtime_last_hour,snappy"`
	DowntimeLastDay  int64 `parquet:"downtime_last_day,snappy"`
	DowntimeLastWeek int64 `parquet:"downtime_last_week,snappy"`
}

// WriteReportParquet writes the report rows to a Parquet file.
func WriteReportParquet(report *schema.Report, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	rows := make([]ReportRow, 0, len(report.Rows))
	for _, r := range report.Rows {
		rows = append(rows, ReportRow{
			StoreID:          r.StoreID,
			GeneratedAt:      report.GeneratedAt,
			UptimeLastHour:   r.UptimeLastHour,
			UptimeLastDay:    r.UptimeLastDay,
			UptimeLastWeek:   r.UptimeLastWeek,
			DowntimeLastHour: r.DowntimeLastHour,
			DowntimeLastDay:  r.DowntimeLastDay,
			DowntimeLastWeek: r.DowntimeLastWeek,
		})
	}

	writer := parquet.NewGenericWriter[ReportRow](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
