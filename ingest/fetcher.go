package ingest

import (
	"context"
	"time"

	"github.com/dane-analizy/kursy-walut/storage/types"
)

// Fetcher retrieves the published quotes for a single calendar day
type Fetcher interface {
	// Name returns the human-readable name of the rate source
	Name() string

	// FetchDay yields the filtered quotes for the given day.
	// A day with no published data returns an empty result, not an
	// error; an error marks a failed (skipped) day
	FetchDay(context.Context, time.Time) ([]*types.Quote, error)
}
