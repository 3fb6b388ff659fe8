package ingest

import (
	"time"

	"github.com/dane-analizy/kursy-walut/storage/types"
)

// dayJob is a single pending calendar day fetch
type dayJob struct {
	day time.Time
}

// Less is utilized to order pending days ascending (earliest == first)
func (a dayJob) Less(b dayJob) bool {
	return a.day.Before(b.day)
}

// dayResult is the fetch worker response for one day
type dayResult struct {
	err    error          // encountered fetch error, if any
	quotes []*types.Quote // the fetched, filtered quotes
	day    time.Time
}
