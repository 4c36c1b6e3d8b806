package schema

import "time"

// ReportRecord is a report job row from the report_status table.
type ReportRecord struct {
	ReportID    string      `json:"report_id"`
	State       ReportState `json:"state"`
	Reason      string      `json:"reason,omitempty"` // Populated when State is failed
	CreatedAt   time.Time   `json:"created_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

// StoreStatusSummary describes the contents of the status store, used by the
// status subcommand.
type StoreStatusSummary struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	StoreCount       int64            `json:"store_count"`
	ObservationCount int64            `json:"observation_count"`
	LatestTimestamp  time.Time        `json:"latest_timestamp"`
	OldestTimestamp  time.Time        `json:"oldest_timestamp"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
