package core

import (
	"time"

	"github.com/storewatch/storewatch/schema"
)

// ReportWindows computes the three trailing absolute UTC time ranges for the
// given anchor instant. Pure function of now.
func ReportWindows(now time.Time) map[schema.Window]schema.Interval {
	now = now.UTC()
	windows := make(map[schema.Window]schema.Interval, len(schema.AllWindows))
	for _, w := range schema.AllWindows {
		windows[w] = schema.Interval{Start: now.Add(-schema.WindowSpans[w]), End: now}
	}
	return windows
}
