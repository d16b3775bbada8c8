package storage

import "time"

// dayWindow returns the epoch-millisecond half-open window [start, end)
// covering the calendar day of t in t's location. 23:59:59 of a day is
// inside its window; midnight of the next day is not.
func dayWindow(t time.Time) (startMs, endMs int64) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start.UnixMilli(), start.AddDate(0, 0, 1).UnixMilli()
}

// monthWindow returns the epoch-millisecond half-open window covering
// the whole calendar month in loc.
func monthWindow(year int, month time.Month, loc *time.Location) (startMs, endMs int64) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start.UnixMilli(), start.AddDate(0, 1, 0).UnixMilli()
}

// dateOnly maps an epoch-millisecond timestamp to midnight of its
// calendar day in loc, the granularity DatesWithTasks reports.
func dateOnly(ms int64, loc *time.Location) time.Time {
	t := time.UnixMilli(ms).In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// distinctDates deduplicates an ascending list of due-date timestamps
// into their calendar days.
func distinctDates(sortedMs []int64, loc *time.Location) []time.Time {
	out := make([]time.Time, 0, len(sortedMs))
	for _, ms := range sortedMs {
		day := dateOnly(ms, loc)
		if len(out) > 0 && out[len(out)-1].Equal(day) {
			continue
		}
		out = append(out, day)
	}
	return out
}
