package core

import (
	"github.com/storewatch/storewatch/internal/contract"
	"github.com/storewatch/storewatch/schema"
)

// Segment is one business-hours sub-interval annotated with the observation
// evidence relevant to it: the observations inside it, plus the nearest
// observation on either side. Before and After may lie outside the reporting
// window entirely; they exist only to anchor boundary interpolation.
type Segment struct {
	Interval schema.Interval
	Inside   []schema.Observation
	Before   *schema.Observation // Last observation strictly before Interval.Start, nil if none
	After    *schema.Observation // First observation at or after Interval.End, nil if none
}

// HasEvidence reports whether any observation bears on this segment.
func (s *Segment) HasEvidence() bool {
	return len(s.Inside) > 0 || s.Before != nil || s.After != nil
}

// PartitionTimeline merge-walks sorted business-hours sub-intervals against a
// sorted observation sequence in a single linear pass, producing one Segment
// per sub-interval. Duplicate observations at the same instant keep the
// last-seen value.
//
// Precondition violations (unsorted observations, inverted or unsorted
// intervals) return an InvalidInputError; the caller is responsible for
// upstream validation and decides how far the failure propagates.
func PartitionTimeline(intervals []schema.Interval, observations []schema.Observation) ([]Segment, error) {
	for i, iv := range intervals {
		if !iv.Start.Before(iv.End) {
			return nil, contract.NewInvalidInput("interval %d is inverted or empty", i)
		}
		if i > 0 && iv.Start.Before(intervals[i-1].End) {
			return nil, contract.NewInvalidInput("interval %d overlaps or precedes interval %d", i, i-1)
		}
	}
	for i := 1; i < len(observations); i++ {
		if observations[i].Timestamp.Before(observations[i-1].Timestamp) {
			return nil, contract.NewInvalidInput("observation %d out of order", i)
		}
	}

	obs := dedupeObservations(observations)

	segments := make([]Segment, 0, len(intervals))
	var before *schema.Observation
	i := 0
	for _, iv := range intervals {
		for i < len(obs) && obs[i].Timestamp.Before(iv.Start) {
			before = &obs[i]
			i++
		}

		seg := Segment{Interval: iv, Before: before}
		for i < len(obs) && obs[i].Timestamp.Before(iv.End) {
			seg.Inside = append(seg.Inside, obs[i])
			i++
		}
		if i < len(obs) {
			seg.After = &obs[i]
		}
		if n := len(seg.Inside); n > 0 {
			before = &seg.Inside[n-1]
		}
		segments = append(segments, seg)
	}

	return segments, nil
}

// dedupeObservations collapses runs of equal timestamps, keeping the
// last-seen value for each instant.
func dedupeObservations(observations []schema.Observation) []schema.Observation {
	if len(observations) < 2 {
		return observations
	}
	out := make([]schema.Observation, 0, len(observations))
	for _, o := range observations {
		if n := len(out); n > 0 && out[n-1].Timestamp.Equal(o.Timestamp) {
			out[n-1] = o
			continue
		}
		out = append(out, o)
	}
	return out
}
