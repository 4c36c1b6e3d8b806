// Package core has the estimation pipeline for store uptime reports: trailing
// window construction, business-hours resolution, timeline partitioning,
// duration estimation and per-store aggregation.
package core

import (
	"context"
	"time"

	"github.com/storewatch/storewatch/internal/contract"
)

// ResolveAnchor picks the instant the report windows trail from. An explicit
// override wins; otherwise the latest observation in the store anchors the
// report, falling back to wall-clock time for an empty store.
func ResolveAnchor(ctx context.Context, cfg *contract.Config, store contract.StatusStore) (time.Time, error) {
	if !cfg.At.IsZero() {
		return cfg.At, nil
	}
	latest, err := store.MaxObservationTime(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if latest.IsZero() {
		return time.Now().UTC(), nil
	}
	return latest.UTC(), nil
}

// mondayIndexed converts Go's Sunday-first weekday to the dataset's
// Monday-first convention (0=Monday .. 6=Sunday).
func mondayIndexed(w time.Weekday) int {
	return (int(w) + 6) % 7
}
