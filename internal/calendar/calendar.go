package calendar

import "time"

// GridCells is the fixed size of a month grid: six full Monday-start weeks.
const GridCells = 42

// DefaultWindowDays is the agenda lookahead used by the "next 7 days" view.
const DefaultWindowDays = 7

// Span is anything carrying an optional start/end instant pair. Items with a
// single instant are zero-length; items with neither are skipped entirely.
type Span interface {
	SpanStart() *time.Time
	SpanEnd() *time.Time
}

// DayKey renders a bucket key at calendar-day granularity.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthGrid returns the 42 consecutive days backing the month view of
// anchor's month. The grid starts at the Monday on or before the 1st and pads
// into adjacent months so every week row is complete. Only the year and month
// of anchor matter.
func MonthGrid(anchor time.Time) []time.Time {
	year, month, _ := anchor.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, anchor.Location())

	// time.Weekday is Sunday-based; shift so Monday == 0.
	offset := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -offset)

	grid := make([]time.Time, GridCells)
	for i := range grid {
		grid[i] = start.AddDate(0, 0, i)
	}

	return grid
}

// BucketByDay places each item into the bucket of every day its interval
// covers, inclusive on both ends at day granularity. Items without usable
// timestamps are silently dropped; upstream schedules are hand-entered and
// not schema-validated before they reach this point.
func BucketByDay[T Span](items []T, days []time.Time) map[string][]T {
	buckets := make(map[string][]T, len(days))

	for _, day := range days {
		d := startOfDay(day)

		for _, item := range items {
			start, end, ok := interval(item)
			if !ok {
				continue
			}

			if !d.Before(startOfDay(start)) && !d.After(startOfDay(end)) {
				buckets[DayKey(d)] = append(buckets[DayKey(d)], item)
			}
		}
	}

	return buckets
}

// InWindow reports whether the item's interval overlaps the rolling window
// [start of today, end of today+days-1], inclusive on both ends.
func InWindow(item Span, today time.Time, days int) bool {
	if days <= 0 {
		days = DefaultWindowDays
	}

	start, end, ok := interval(item)
	if !ok {
		return false
	}

	windowStart := startOfDay(today)
	windowEnd := windowStart.AddDate(0, 0, days).Add(-time.Nanosecond)

	return !start.After(windowEnd) && !end.Before(windowStart)
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func interval(item Span) (time.Time, time.Time, bool) {
	start := item.SpanStart()
	end := item.SpanEnd()

	switch {
	case start == nil && end == nil:
		return time.Time{}, time.Time{}, false
	case start == nil:
		return *end, *end, true
	case end == nil:
		return *start, *start, true
	default:
		return *start, *end, true
	}
}
