// Package schema has configs, models and shared constants for all parts of storewatch.
package schema

import "time"

// Observation is a single point-in-time status poll for a store.
// Observations are immutable and always consumed in ascending timestamp order.
type Observation struct {
	StoreID   string    // Store identifier from the status feed
	Timestamp time.Time // Poll instant in UTC
	Status    Status    // active or inactive
}

// BusinessHoursRule is one local open interval for one weekday.
// A store may carry zero, one, or several rules per weekday; zero rules for a
// store means the store is open around the clock.
type BusinessHoursRule struct {
	StoreID    string
	DayOfWeek  int       // 0=Monday .. 6=Sunday (dataset convention)
	StartLocal TimeOfDay // Local wall-clock open time
	EndLocal   TimeOfDay // Local wall-clock close time
}

// TimeOfDay is a wall-clock time expressed as seconds since local midnight.
type TimeOfDay int

// Clock breaks a TimeOfDay into hour, minute and second components.
func (t TimeOfDay) Clock() (hour, minute, sec int) {
	return int(t) / 3600, int(t) % 3600 / 60, int(t) % 60
}

// Interval is a half-open [Start, End) UTC time range, the atomic unit the
// estimation pipeline reasons about. Zero-length intervals are dropped at
// construction sites, so Start < End holds everywhere downstream.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the interval.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Contains reports whether t falls inside the half-open interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Clamp intersects the interval with bounds and reports whether any overlap
// remains.
func (iv Interval) Clamp(bounds Interval) (Interval, bool) {
	out := iv
	if out.Start.Before(bounds.Start) {
		out.Start = bounds.Start
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	if !out.Start.Before(out.End) {
		return Interval{}, false
	}
	return out, true
}

// ReportRow is the per-store result of one report run. All six durations are
// integer minutes; for each window uptime+downtime equals the rounded
// business-hours duration of that window.
type ReportRow struct {
	StoreID          string `json:"store_id"`
	UptimeLastHour   int64  `json:"uptime_last_hour"`
	UptimeLastDay    int64  `json:"uptime_last_day"`
	UptimeLastWeek   int64  `json:"uptime_last_week"`
	DowntimeLastHour int64  `json:"downtime_last_hour"`
	DowntimeLastDay  int64  `json:"downtime_last_day"`
	DowntimeLastWeek int64  `json:"downtime_last_week"`

	// Flags carries non-fatal data quality and configuration notes gathered
	// while computing this row. Not part of the CSV artifact.
	Flags []string `json:"flags,omitempty"`
}

// Report is the assembled output of one full report run.
type Report struct {
	GeneratedAt time.Time   `json:"generated_at"` // Anchor instant used as "now"
	Rows        []ReportRow `json:"rows"`
	Skipped     []string    `json:"skipped,omitempty"` // Store ids dropped due to invalid input
}
