package core

import (
	"math"
	"time"

	"github.com/storewatch/storewatch/schema"
)

// WindowEstimate is the continuous-time uptime/downtime estimate for one
// store and one window, before minute rounding.
type WindowEstimate struct {
	Uptime       time.Duration
	Downtime     time.Duration
	BusinessTime time.Duration
	Flagged      bool // True when the zero-evidence default was applied
}

// EstimateUptime walks a partitioned timeline and converts point observations
// plus gaps into a duration-weighted active/inactive estimate.
//
// Interpolation policy:
//   - Between two consecutive observations the earlier status is held until
//     the midpoint, then switches (step interpolation at the midpoint).
//   - Before the first observation and after the last, the nearest single
//     observation's status is extrapolated to the segment boundary.
//   - A segment with no observation evidence at all is assumed active and
//     flagged; a store with zero polling history is presumed up.
func EstimateUptime(segments []Segment) WindowEstimate {
	var est WindowEstimate
	for i := range segments {
		up, down, flagged := estimateSegment(&segments[i])
		est.Uptime += up
		est.Downtime += down
		est.BusinessTime += segments[i].Interval.Duration()
		est.Flagged = est.Flagged || flagged
	}
	return est
}

// estimateSegment classifies every instant of one business-hours segment.
func estimateSegment(seg *Segment) (up, down time.Duration, flagged bool) {
	if !seg.HasEvidence() {
		return seg.Interval.Duration(), 0, true
	}

	evidence := make([]schema.Observation, 0, len(seg.Inside)+2)
	if seg.Before != nil {
		evidence = append(evidence, *seg.Before)
	}
	evidence = append(evidence, seg.Inside...)
	if seg.After != nil {
		evidence = append(evidence, *seg.After)
	}

	cursor := seg.Interval.Start
	account := func(until time.Time, status schema.Status) {
		if !until.After(cursor) {
			return
		}
		d := until.Sub(cursor)
		if status == schema.ActiveStatus {
			up += d
		} else {
			down += d
		}
		cursor = until
	}

	for k := 0; k+1 < len(evidence); k++ {
		a, b := evidence[k], evidence[k+1]
		mid := a.Timestamp.Add(b.Timestamp.Sub(a.Timestamp) / 2)
		account(clampTime(mid, seg.Interval), a.Status)
	}
	account(seg.Interval.End, evidence[len(evidence)-1].Status)

	return up, down, false
}

// Minutes rounds the estimate to whole minutes, reconciled so that
// uptime+downtime equals the rounded business-hours duration. The at-most-one
// minute of rounding slack goes to the bucket with the larger fractional part;
// ties favor uptime. The reconciliation invariant is load-bearing, the
// tie-break is a documented policy choice.
func (e WindowEstimate) Minutes() (upMin, downMin int64) {
	up := e.Uptime.Minutes()
	down := e.Downtime.Minutes()
	total := math.Round(up + down)
	upR := math.Round(up)
	downR := math.Round(down)

	if diff := total - (upR + downR); diff != 0 {
		if fracOf(up) >= fracOf(down) {
			upR += diff
		} else {
			downR += diff
		}
	}
	return int64(upR), int64(downR)
}

func fracOf(v float64) float64 {
	return v - math.Floor(v)
}

func clampTime(t time.Time, bounds schema.Interval) time.Time {
	if t.Before(bounds.Start) {
		return bounds.Start
	}
	if t.After(bounds.End) {
		return bounds.End
	}
	return t
}
