package domain

import "time"

// Period is a symbolic dashboard time window.
type Period string

const (
	PeriodCurrentMonth Period = "current_month"
	PeriodLastQuarter  Period = "last_quarter"
	PeriodCurrentYear  Period = "current_year"
)

// ResolvePeriodRange maps a symbolic period to a concrete [start, end]
// date range. Dates are truncated to day precision in UTC; end is
// always "today". Unknown selectors are an error, never a silent
// default.
func ResolvePeriodRange(p Period, now time.Time) (start, end time.Time, err error) {
	end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch p {
	case PeriodCurrentMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	case PeriodLastQuarter:
		// First day of the month three months back. time.Date
		// normalizes month underflow across year boundaries.
		start = time.Date(now.Year(), now.Month()-3, 1, 0, 0, 0, 0, time.UTC)
	case PeriodCurrentYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}, time.Time{}, &ErrInvalidArgument{
			Field:   "period",
			Message: "unknown period selector: " + string(p),
		}
	}
	return start, end, nil
}

// DaysInRange counts the days covered by [start, end], inclusive.
// Feeds the average-daily-spend divisor.
func DaysInRange(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
