package view

import (
	"time"
)

type Timeframe int

const (
	TimeframeAll       Timeframe = 0
	TimeframeThisWeek  Timeframe = 1
	TimeframeThisMonth Timeframe = 2
	TimeframeLastMonth Timeframe = 3

	timeframeCount = 4
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeAll:
		return "All Time"
	case TimeframeThisWeek:
		return "This Week"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	}

	return "Unknown"
}

func (t Timeframe) Next() Timeframe {
	return (t + 1) % timeframeCount
}

// DateRange returns the inclusive bounds of tf relative to now. ok is false for TimeframeAll.
func (t Timeframe) DateRange(now time.Time) (start, end time.Time, ok bool) {
	switch t {
	case TimeframeThisWeek:
		// ISO week starts Monday.
		offset := int(now.Weekday())
		if offset == 0 {
			offset = 7
		}

		start = now.AddDate(0, 0, -offset+1)
		end = now
	case TimeframeThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = now
	case TimeframeLastMonth:
		lastMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		start = lastMonth
		end = lastMonth.AddDate(0, 1, -1)
	default:
		return time.Time{}, time.Time{}, false
	}

	start, end = normalizeDateRange(start, end)

	return start, end, true
}

func normalizeDateRange(start, end time.Time) (time.Time, time.Time) {
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()),
		time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())
}
