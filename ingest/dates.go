package ingest

import (
	"fmt"
	"time"
)

// ParseDay parses a YYYY-MM-DD calendar day into a UTC midnight time.
// A malformed value is a configuration error and must abort the run
// before any network or storage I/O happens
func ParseDay(value string) (time.Time, error) {
	day, err := time.ParseInLocation(time.DateOnly, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start date %q: %w", value, err)
	}

	return day, nil
}

// Day truncates the given time to its UTC midnight calendar day
func Day(t time.Time) time.Time {
	t = t.UTC()

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateRange materializes every calendar day from from through to,
// inclusive on both ends, ascending, with no gaps. A from after to
// yields an empty range
func DateRange(from, to time.Time) []time.Time {
	from = Day(from)
	to = Day(to)

	if from.After(to) {
		return nil
	}

	days := make([]time.Time, 0, int(to.Sub(from).Hours()/24)+1)

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}

	return days
}
