package mock

import (
	"context"
	"time"

	"github.com/dane-analizy/kursy-walut/storage/types"
)

type (
	SaveRateDelegate       func(context.Context, *types.Quote) error
	ListCurrenciesDelegate func(context.Context) ([]types.Currency, error)
	LoadRatesDelegate      func(context.Context, types.Currency, time.Time, time.Time) ([]*types.RatePoint, error)
)

type Storage struct {
	SaveRateFn       SaveRateDelegate
	ListCurrenciesFn ListCurrenciesDelegate
	LoadRatesFn      LoadRatesDelegate
}

func (m *Storage) SaveRate(ctx context.Context, quote *types.Quote) error {
	if m.SaveRateFn != nil {
		return m.SaveRateFn(ctx, quote)
	}

	return nil
}

func (m *Storage) ListCurrencies(ctx context.Context) ([]types.Currency, error) {
	if m.ListCurrenciesFn != nil {
		return m.ListCurrenciesFn(ctx)
	}

	return nil, nil
}

func (m *Storage) LoadRates(
	ctx context.Context,
	code types.Currency,
	from time.Time,
	to time.Time,
) ([]*types.RatePoint, error) {
	if m.LoadRatesFn != nil {
		return m.LoadRatesFn(ctx, code, from, to)
	}

	return nil, nil
}
