package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/storewatch/storewatch/schema"
)

// endOfDay marks a close time of local midnight at the end of the day.
const endOfDay = schema.TimeOfDay(24 * 3600)

// lastSecondOfDay is 23:59:59. Close times at or past this instant are
// normalized to end-of-day so that a "00:00:00-23:59:59" rule covers the
// whole day, matching the always-open default.
const lastSecondOfDay = schema.TimeOfDay(23*3600 + 59*60 + 59)

// ResolveBusinessHours clips a UTC window down to the sub-intervals that fall
// inside the store's local business hours. The returned sub-intervals are
// sorted ascending, mutually disjoint, and contiguous runs are merged.
//
// Rules apply to local wall-clock time and are converted to UTC afterwards,
// so a window spanning a DST transition gains or loses the offset change on
// the transition day. An empty rule set means the store is open 24/7.
// Malformed rules are skipped and reported as warnings, never as errors; if no
// valid rule remains the always-open default applies.
func ResolveBusinessHours(loc *time.Location, rules []schema.BusinessHoursRule, window schema.Interval) ([]schema.Interval, []string) {
	if !window.Start.Before(window.End) {
		return nil, nil
	}

	var warnings []string
	byDay := make(map[int][]schema.BusinessHoursRule, 7)
	valid := 0
	for _, r := range rules {
		if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
			warnings = append(warnings, fmt.Sprintf("rule with day_of_week %d out of range; skipped", r.DayOfWeek))
			continue
		}
		end := r.EndLocal
		if end >= lastSecondOfDay {
			end = endOfDay
		}
		if r.StartLocal >= end {
			warnings = append(warnings, fmt.Sprintf(
				"rule for day %d has start %s >= end %s; skipped", r.DayOfWeek,
				formatTimeOfDay(r.StartLocal), formatTimeOfDay(r.EndLocal)))
			continue
		}
		byDay[r.DayOfWeek] = append(byDay[r.DayOfWeek], schema.BusinessHoursRule{
			StoreID: r.StoreID, DayOfWeek: r.DayOfWeek, StartLocal: r.StartLocal, EndLocal: end,
		})
		valid++
	}

	alwaysOpen := valid == 0
	if alwaysOpen && len(rules) > 0 {
		warnings = append(warnings, "no valid business hours rules remain; treating store as open 24/7")
	}

	localEnd := window.End.In(loc)
	day := midnightOf(window.Start.In(loc))

	var subs []schema.Interval
	for day.Before(localEnd) {
		nextDay := midnightAfter(day)
		open := byDay[mondayIndexed(day.Weekday())]
		if alwaysOpen {
			open = []schema.BusinessHoursRule{{StartLocal: 0, EndLocal: endOfDay}}
		}
		for _, r := range open {
			openAt := localClock(day, r.StartLocal, loc)
			closeAt := nextDay
			if r.EndLocal < endOfDay {
				closeAt = localClock(day, r.EndLocal, loc)
			}
			sub := schema.Interval{Start: openAt.UTC(), End: closeAt.UTC()}
			if clamped, ok := sub.Clamp(window); ok {
				subs = append(subs, clamped)
			}
		}
		day = nextDay
	}

	return mergeIntervals(subs), warnings
}

// localClock maps a wall-clock time of day onto a local calendar day.
// time.Date normalizes through DST gaps, which keeps open/close instants
// anchored to the wall clock rather than to a fixed UTC offset.
func localClock(day time.Time, tod schema.TimeOfDay, loc *time.Location) time.Time {
	h, m, s := tod.Clock()
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, s, 0, loc)
}

// midnightOf returns local midnight of t's calendar day.
func midnightOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// midnightAfter returns local midnight of the day after.
// The day may be 23 or 25 hours long around a DST transition.
func midnightAfter(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, day.Location())
}

// mergeIntervals sorts intervals and coalesces overlapping or abutting ones,
// so redundant rules and day-boundary seams collapse into maximal runs.
func mergeIntervals(intervals []schema.Interval) []schema.Interval {
	if len(intervals) <= 1 {
		return intervals
	}
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start.Before(intervals[j].Start)
	})
	merged := intervals[:1]
	for _, iv := range intervals[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// formatTimeOfDay renders a TimeOfDay as HH:MM:SS for warnings.
func formatTimeOfDay(t schema.TimeOfDay) string {
	h, m, s := t.Clock()
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
