package schema

import "time"

// Custom string types for type safety.
type (
	// Status represents the polled state of a store.
	Status string

	// OutputMode represents the format of the report output.
	OutputMode string

	// DatabaseBackend represents the SQL backend for the status store.
	DatabaseBackend string

	// ReportState represents the lifecycle state of a report job.
	ReportState string

	// Window represents one of the trailing report periods.
	Window string
)

// All observation statuses supported.
const (
	ActiveStatus   Status = "active"
	InactiveStatus Status = "inactive"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv" // default, the canonical artifact format
	TextOut    OutputMode = "text"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
)

// Report job states. Transitions are monotonic:
// queued -> running -> complete | failed.
const (
	ReportQueued   ReportState = "queued"
	ReportRunning  ReportState = "running"
	ReportComplete ReportState = "complete"
	ReportFailed   ReportState = "failed"
)

// The three trailing report windows.
const (
	LastHour Window = "last_hour"
	LastDay  Window = "last_day"
	LastWeek Window = "last_week"
)

// WindowSpans maps each report window to its trailing duration.
var WindowSpans = map[Window]time.Duration{
	LastHour: time.Hour,
	LastDay:  24 * time.Hour,
	LastWeek: 7 * 24 * time.Hour,
}

// AllWindows lists report windows from narrowest to widest.
var AllWindows = []Window{LastHour, LastDay, LastWeek}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidBackends lists all valid database backends.
var ValidBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// DefaultTimezone is assumed for stores without a timezone record.
const DefaultTimezone = "America/Chicago"

// ReportHeader is the exact column order of the report artifact.
var ReportHeader = []string{
	"store_id",
	"uptime_last_hour",
	"uptime_last_day",
	"uptime_last_week",
	"downtime_last_hour",
	"downtime_last_day",
	"downtime_last_week",
}
