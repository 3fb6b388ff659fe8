package storage

import (
	"context"
	"errors"
	"time"

	"github.com/dane-analizy/kursy-walut/storage/types"
)

// ErrDuplicateRate is returned when a (date, currency) pair is already
// stored. Re-runs over overlapping date ranges depend on this rejection
// being harmless.
var ErrDuplicateRate = errors.New("rate already stored for date and currency")

// Storage is an abstraction over persisted exchange rate data
type Storage interface {
	// SaveRate stores the given quote. Returns ErrDuplicateRate if a
	// quote for the same (date, currency) pair is already present
	SaveRate(context.Context, *types.Quote) error

	// ListCurrencies lists the distinct currency codes present,
	// ascending
	ListCurrencies(context.Context) ([]types.Currency, error)

	// LoadRates fetches all (date, rate) pairs for the given currency
	// within the inclusive [from, to] range, ascending by date
	LoadRates(context.Context, types.Currency, time.Time, time.Time) ([]*types.RatePoint, error)
}
