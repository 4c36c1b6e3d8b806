package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/storewatch/storewatch/internal/contract"
	"github.com/storewatch/storewatch/schema"
)

// storeOutcome carries one store's result through the worker pool.
type storeOutcome struct {
	row  schema.ReportRow
	skip bool   // Store dropped due to an InvalidInputError
	why  string // Skip reason
	err  error  // Unrecoverable fetch failure; fails the whole report
}

// GenerateReport runs the full pipeline once per monitored store and
// assembles the tabular report. Per-store work is shared-nothing and runs on
// cfg.Workers goroutines; no row depends on another.
//
// Stores whose inputs violate pipeline preconditions are skipped with a
// warning and listed in Report.Skipped. Storage failures abort the report.
func GenerateReport(ctx context.Context, cfg *contract.Config, store contract.StatusStore, now time.Time) (*schema.Report, error) {
	ids, err := store.ListStoreIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	now = now.UTC()
	storeCh := make(chan string, len(ids))
	outcomeCh := make(chan storeOutcome, len(ids))
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Go(func() {
			for id := range storeCh {
				outcomeCh <- computeStoreRow(ctx, store, id, now)
			}
		})
	}

	for _, id := range ids {
		storeCh <- id
	}
	close(storeCh)
	wg.Wait()
	close(outcomeCh)

	report := &schema.Report{GeneratedAt: now, Rows: make([]schema.ReportRow, 0, len(ids))}
	for outcome := range outcomeCh {
		switch {
		case outcome.err != nil:
			return nil, outcome.err
		case outcome.skip:
			contract.LogWarn("Skipping store "+outcome.row.StoreID, errors.New(outcome.why))
			report.Skipped = append(report.Skipped, outcome.row.StoreID)
		default:
			report.Rows = append(report.Rows, outcome.row)
		}
	}

	// Processing order across stores is unspecified; sort for a stable artifact.
	sort.Slice(report.Rows, func(i, j int) bool { return report.Rows[i].StoreID < report.Rows[j].StoreID })
	sort.Strings(report.Skipped)

	return report, nil
}

// computeStoreRow runs resolve -> partition -> estimate for each of the three
// windows of a single store.
func computeStoreRow(ctx context.Context, store contract.StatusStore, id string, now time.Time) storeOutcome {
	outcome := storeOutcome{row: schema.ReportRow{StoreID: id}}

	tz, found, err := store.GetTimezone(ctx, id)
	if err != nil {
		outcome.err = fmt.Errorf("failed to get timezone for store %s: %w", id, err)
		return outcome
	}
	if !found {
		tz = schema.DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		// Bad timezone names degrade to the default rather than losing the row.
		outcome.row.Flags = append(outcome.row.Flags, fmt.Sprintf("unknown timezone %q, using %s", tz, schema.DefaultTimezone))
		loc, _ = time.LoadLocation(schema.DefaultTimezone)
	}

	rules, err := store.GetBusinessHours(ctx, id)
	if err != nil {
		outcome.err = fmt.Errorf("failed to get business hours for store %s: %w", id, err)
		return outcome
	}

	// One fetch covers the widest window; the store includes one observation
	// on either side of the range for boundary interpolation.
	observations, err := store.GetObservations(ctx, id, now.Add(-schema.WindowSpans[schema.LastWeek]), now)
	if err != nil {
		outcome.err = fmt.Errorf("failed to get observations for store %s: %w", id, err)
		return outcome
	}
	if len(observations) == 0 {
		outcome.row.Flags = append(outcome.row.Flags, "no observations on record, presumed active")
	}

	for w, window := range ReportWindows(now) {
		subs, warnings := ResolveBusinessHours(loc, rules, window)
		outcome.row.Flags = append(outcome.row.Flags, warnings...)

		segments, err := PartitionTimeline(subs, observations)
		if err != nil {
			outcome.skip = true
			outcome.why = err.Error()
			return outcome
		}

		est := EstimateUptime(segments)
		if est.Flagged {
			outcome.row.Flags = append(outcome.row.Flags, fmt.Sprintf("no evidence within %s business hours, presumed active", w))
		}

		upMin, downMin := est.Minutes()
		switch w {
		case schema.LastHour:
			outcome.row.UptimeLastHour, outcome.row.DowntimeLastHour = upMin, downMin
		case schema.LastDay:
			outcome.row.UptimeLastDay, outcome.row.DowntimeLastDay = upMin, downMin
		case schema.LastWeek:
			outcome.row.UptimeLastWeek, outcome.row.DowntimeLastWeek = upMin, downMin
		}
	}

	sort.Strings(outcome.row.Flags)
	return outcome
}
