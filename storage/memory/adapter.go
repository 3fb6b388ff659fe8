package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dane-analizy/kursy-walut/storage"
	"github.com/dane-analizy/kursy-walut/storage/types"
)

type key struct {
	day  string // YYYY-MM-DD
	code string
}

// Storage is an in-memory rate store with the same reject-on-duplicate
// semantics as the table adapters
type Storage struct {
	data map[key]types.Quote

	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		data: make(map[key]types.Quote),
	}
}

// Name returns the name of the store, for sink logging
func (s *Storage) Name() string {
	return "memory"
}

func (s *Storage) SaveRate(_ context.Context, quote *types.Quote) error {
	k := key{
		day:  quote.Date.Format(time.DateOnly),
		code: quote.Code.String(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[k]; ok {
		return fmt.Errorf(
			"%w: %s %s",
			storage.ErrDuplicateRate,
			k.day,
			k.code,
		)
	}

	s.data[k] = *quote

	return nil
}

func (s *Storage) ListCurrencies(_ context.Context) ([]types.Currency, error) {
	s.mu.RLock()

	seen := make(map[string]struct{})

	for k := range s.data {
		seen[k.code] = struct{}{}
	}

	s.mu.RUnlock()

	out := make([]types.Currency, 0, len(seen))

	for code := range seen {
		out = append(out, types.Currency(code))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})

	return out, nil
}

func (s *Storage) LoadRates(
	_ context.Context,
	code types.Currency,
	from time.Time,
	to time.Time,
) ([]*types.RatePoint, error) {
	var (
		want = types.NormalizeCurrency(code.String()).String()

		lo = from.Format(time.DateOnly)
		hi = to.Format(time.DateOnly)
	)

	s.mu.RLock()

	var out []*types.RatePoint

	for k, v := range s.data {
		if k.code != want {
			continue
		}

		// ISO day strings order lexically
		if k.day < lo || k.day > hi {
			continue
		}

		out = append(out, &types.RatePoint{
			Date: v.Date,
			Rate: v.Mid,
		})
	}

	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	return out, nil
}
