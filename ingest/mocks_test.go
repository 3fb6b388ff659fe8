package ingest

import (
	"context"
	"time"

	"github.com/dane-analizy/kursy-walut/storage/types"
)

type (
	nameDelegate     func() string
	fetchDayDelegate func(context.Context, time.Time) ([]*types.Quote, error)
	saveRateDelegate func(context.Context, *types.Quote) error
)

type mockFetcher struct {
	nameFn     nameDelegate
	fetchDayFn fetchDayDelegate
}

func (m *mockFetcher) Name() string {
	if m.nameFn != nil {
		return m.nameFn()
	}

	return "mock-fetcher"
}

func (m *mockFetcher) FetchDay(ctx context.Context, day time.Time) ([]*types.Quote, error) {
	if m.fetchDayFn != nil {
		return m.fetchDayFn(ctx, day)
	}

	return nil, nil
}

type mockSink struct {
	nameFn     nameDelegate
	saveRateFn saveRateDelegate
}

func (m *mockSink) Name() string {
	if m.nameFn != nil {
		return m.nameFn()
	}

	return "mock-sink"
}

func (m *mockSink) SaveRate(ctx context.Context, quote *types.Quote) error {
	if m.saveRateFn != nil {
		return m.saveRateFn(ctx, quote)
	}

	return nil
}
