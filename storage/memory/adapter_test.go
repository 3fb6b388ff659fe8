package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dane-analizy/kursy-walut/storage"
	"github.com/dane-analizy/kursy-walut/storage/types"
)

func day(value string) time.Time {
	parsed, err := time.ParseInLocation(time.DateOnly, value, time.UTC)
	if err != nil {
		panic(err)
	}

	return parsed
}

func TestMemory_SaveRate(t *testing.T) {
	t.Parallel()

	t.Run("duplicate pair is rejected", func(t *testing.T) {
		t.Parallel()

		var (
			s = NewStorage()

			quote = &types.Quote{
				Date: day("2024-03-01"),
				Code: "EUR",
				Mid:  4.30,
			}
		)

		require.NoError(t, s.SaveRate(context.Background(), quote))

		// The second insert is rejected without touching the first
		err := s.SaveRate(context.Background(), quote)
		assert.ErrorIs(t, err, storage.ErrDuplicateRate)

		points, err := s.LoadRates(
			context.Background(),
			"EUR",
			day("2024-03-01"),
			day("2024-03-01"),
		)
		require.NoError(t, err)

		require.Len(t, points, 1)
		assert.Equal(t, 4.30, points[0].Rate)
	})

	t.Run("same day, different currencies", func(t *testing.T) {
		t.Parallel()

		s := NewStorage()

		for _, code := range []types.Currency{"EUR", "USD"} {
			require.NoError(t, s.SaveRate(context.Background(), &types.Quote{
				Date: day("2024-03-01"),
				Code: code,
				Mid:  4.0,
			}))
		}

		currencies, err := s.ListCurrencies(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []types.Currency{"EUR", "USD"}, currencies)
	})
}

func TestMemory_ListCurrencies(t *testing.T) {
	t.Parallel()

	t.Run("empty store", func(t *testing.T) {
		t.Parallel()

		s := NewStorage()

		currencies, err := s.ListCurrencies(context.Background())

		require.NoError(t, err)
		assert.Empty(t, currencies)
	})

	t.Run("ascending codes", func(t *testing.T) {
		t.Parallel()

		s := NewStorage()

		for _, code := range []types.Currency{"USD", "CHF", "GBP", "EUR"} {
			require.NoError(t, s.SaveRate(context.Background(), &types.Quote{
				Date: day("2024-03-01"),
				Code: code,
				Mid:  1,
			}))
		}

		currencies, err := s.ListCurrencies(context.Background())
		require.NoError(t, err)

		assert.Equal(
			t,
			[]types.Currency{"CHF", "EUR", "GBP", "USD"},
			currencies,
		)
	})
}

func TestMemory_LoadRates(t *testing.T) {
	t.Parallel()

	newPopulated := func(t *testing.T) *Storage {
		t.Helper()

		s := NewStorage()

		for i, value := range []string{
			"2024-03-01",
			"2024-03-02",
			"2024-03-03",
			"2024-03-04",
		} {
			require.NoError(t, s.SaveRate(context.Background(), &types.Quote{
				Date: day(value),
				Code: "EUR",
				Mid:  4.30 + float64(i)/100,
			}))
		}

		return s
	}

	t.Run("inclusive ascending range", func(t *testing.T) {
		t.Parallel()

		s := newPopulated(t)

		points, err := s.LoadRates(
			context.Background(),
			"EUR",
			day("2024-03-02"),
			day("2024-03-03"),
		)
		require.NoError(t, err)

		require.Len(t, points, 2)
		assert.Equal(t, 4.31, points[0].Rate)
		assert.Equal(t, 4.32, points[1].Rate)
		assert.True(t, points[0].Date.Before(points[1].Date))
	})

	t.Run("lower-case lookup", func(t *testing.T) {
		t.Parallel()

		s := newPopulated(t)

		points, err := s.LoadRates(
			context.Background(),
			"eur",
			day("2024-03-01"),
			day("2024-03-04"),
		)
		require.NoError(t, err)

		assert.Len(t, points, 4)
	})

	t.Run("empty matching range", func(t *testing.T) {
		t.Parallel()

		s := newPopulated(t)

		points, err := s.LoadRates(
			context.Background(),
			"EUR",
			day("2020-01-01"),
			day("2020-12-31"),
		)

		require.NoError(t, err)
		assert.Empty(t, points)
	})

	t.Run("unknown currency", func(t *testing.T) {
		t.Parallel()

		s := newPopulated(t)

		points, err := s.LoadRates(
			context.Background(),
			"JPY",
			day("2024-03-01"),
			day("2024-03-04"),
		)

		require.NoError(t, err)
		assert.Empty(t, points)
	})
}
