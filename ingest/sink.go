package ingest

import (
	"context"

	"github.com/dane-analizy/kursy-walut/storage/types"
)

// Sink is a single persistence destination for fetched quotes.
// Sinks are invoked independently per quote: one sink's failure never
// blocks another sink's write
type Sink interface {
	// Name returns the human-readable name of the sink
	Name() string

	// SaveRate persists one quote. Returning storage.ErrDuplicateRate
	// marks an expected, harmless skip
	SaveRate(context.Context, *types.Quote) error
}
