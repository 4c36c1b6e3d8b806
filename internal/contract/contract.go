// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/storewatch/storewatch/schema"
)

// StatusStore defines the storage collaborator consumed by the estimation
// pipeline. This allows the core logic to be tested without a real database.
type StatusStore interface {
	// ListStoreIDs returns the distinct store ids present in the status feed.
	ListStoreIDs(ctx context.Context) ([]string, error)

	// GetBusinessHours returns the business-hours rules for a store, ordered
	// by day of week then start time. An empty result means the store is
	// open around the clock.
	GetBusinessHours(ctx context.Context, storeID string) ([]schema.BusinessHoursRule, error)

	// GetTimezone returns the IANA timezone name for a store and whether a
	// record exists. Callers fall back to schema.DefaultTimezone when absent.
	GetTimezone(ctx context.Context, storeID string) (string, bool, error)

	// GetObservations returns observations for a store within [from, to],
	// ascending by timestamp. When they exist, the single observation
	// immediately before from and the one immediately after to are included
	// so callers can interpolate across window boundaries.
	GetObservations(ctx context.Context, storeID string, from, to time.Time) ([]schema.Observation, error)

	// MaxObservationTime returns the most recent observation timestamp across
	// all stores, used as the report anchor.
	MaxObservationTime(ctx context.Context) (time.Time, error)

	// Close closes the underlying connection.
	Close() error
}

// ReportStore tracks report job lifecycle records.
type ReportStore interface {
	// CreateReport inserts a new job record in the given state.
	CreateReport(ctx context.Context, reportID string, state schema.ReportState, createdAt time.Time) error

	// UpdateReportState transitions a job. Reason is only meaningful for the
	// failed state; completedAt is only set for terminal states.
	UpdateReportState(ctx context.Context, reportID string, state schema.ReportState, reason string, completedAt *time.Time) error

	// GetReport fetches a job record by id.
	GetReport(ctx context.Context, reportID string) (schema.ReportRecord, error)
}
