package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storewatch/storewatch/internal/contract"
	"github.com/storewatch/storewatch/schema"
)

func sampleReport() *schema.Report {
	return &schema.Report{
		GeneratedAt: time.Date(2025, 1, 25, 10, 0, 0, 0, time.UTC),
		Rows: []schema.ReportRow{
			{
				StoreID:        "s1",
				UptimeLastHour: 60, UptimeLastDay: 1380, UptimeLastWeek: 9900,
				DowntimeLastHour: 0, DowntimeLastDay: 60, DowntimeLastWeek: 180,
			},
			{
				StoreID:        "s2",
				UptimeLastHour: 0, UptimeLastDay: 0, UptimeLastWeek: 0,
				DowntimeLastHour: 60, DowntimeLastDay: 1440, DowntimeLastWeek: 10080,
				Flags: []string{"no observations on record, presumed active"},
			},
		},
		Skipped: []string{"s3"},
	}
}

// TestWriteReportCSV tests the canonical artifact layout.
func TestWriteReportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, WriteReportCSVFile(sampleReport(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, schema.ReportHeader, records[0])
	assert.Equal(t, []string{"s1", "60", "1380", "9900", "0", "60", "180"}, records[1])
	assert.Equal(t, []string{"s2", "0", "0", "0", "60", "1440", "10080"}, records[2])
}

// TestWriteReportJSON tests the JSON rendition round trip.
func TestWriteReportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
	require.NoError(t, WriteReport(sampleReport(), cfg, time.Second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded schema.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Rows, 2)
	assert.Equal(t, "s1", decoded.Rows[0].StoreID)
	assert.Equal(t, int64(9900), decoded.Rows[0].UptimeLastWeek)
	assert.Equal(t, []string{"s3"}, decoded.Skipped)
}

// TestWriteReportTable tests the human-readable rendition.
func TestWriteReportTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	cfg := &contract.Config{
		Output:     schema.TextOut,
		OutputFile: path,
		Workers:    4,
		Precision:  2,
		DBBackend:  schema.SQLiteBackend,
	}
	require.NoError(t, WriteReport(sampleReport(), cfg, time.Second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "s1")
	assert.Contains(t, out, contract.HealthyValue)
	assert.Contains(t, out, contract.OutageValue)
	assert.Contains(t, out, "98.21%") // 9900 of 10080 minutes, at precision 2
	assert.Contains(t, out, "0.00%")
	assert.Contains(t, out, "Report over 2 stores")
	assert.Contains(t, out, "(1 skipped)")
}

// TestWriteReportParquetRequiresFile tests the parquet file requirement.
func TestWriteReportParquetRequiresFile(t *testing.T) {
	cfg := &contract.Config{Output: schema.ParquetOut}
	err := WriteReport(sampleReport(), cfg, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output-file")
}

// TestWeekUptimeRatio tests the label ratio including the zero-total case.
func TestWeekUptimeRatio(t *testing.T) {
	assert.Equal(t, 1.0, weekUptimeRatio(schema.ReportRow{}))
	assert.InDelta(t, 0.75, weekUptimeRatio(schema.ReportRow{UptimeLastWeek: 75, DowntimeLastWeek: 25}), 0.001)
}

// TestTruncateStoreID tests ellipsis-prefix truncation.
func TestTruncateStoreID(t *testing.T) {
	assert.Equal(t, "short", truncateStoreID("short", 12))

	long := strings.Repeat("a", 30) + "-tail"
	got := truncateStoreID(long, 12)
	assert.Len(t, got, 12)
	assert.True(t, strings.HasPrefix(got, "..."))
	assert.True(t, strings.HasSuffix(got, "-tail"))
}
