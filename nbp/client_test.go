package nbp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dane-analizy/kursy-walut/storage/types"
)

const testTablePayload = `[
	{
		"table": "A",
		"no": "042/A/NBP/2024",
		"effectiveDate": "2024-02-29",
		"rates": [
			{"currency": "euro", "code": "EUR", "mid": 4.3143},
			{"currency": "dolar amerykański", "code": "USD", "mid": 3.9850},
			{"currency": "funt szterling", "code": "GBP", "mid": 5.0421}
		]
	}
]`

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return srv
}

func TestClient_FetchDay(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("request shape", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/exchangerates/tables/A/2024-03-01/", r.URL.Path)
			assert.Equal(t, "json", r.URL.Query().Get("format"))

			_, _ = w.Write([]byte(testTablePayload))
		})

		c := NewClient(srv.URL, DefaultTable, []string{"EUR"}, time.Second)

		quotes, err := c.FetchDay(context.Background(), day)
		require.NoError(t, err)

		require.Len(t, quotes, 1)
	})

	t.Run("filtering is case-insensitive", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(testTablePayload))
		})

		var (
			lower = NewClient(srv.URL, DefaultTable, []string{"eur", "usd"}, time.Second)
			upper = NewClient(srv.URL, DefaultTable, []string{"EUR", "USD"}, time.Second)
		)

		lowerQuotes, err := lower.FetchDay(context.Background(), day)
		require.NoError(t, err)

		upperQuotes, err := upper.FetchDay(context.Background(), day)
		require.NoError(t, err)

		// Identical results regardless of the expected set's casing
		assert.Equal(t, lowerQuotes, upperQuotes)

		require.Len(t, lowerQuotes, 2)
		assert.Equal(t, types.Currency("EUR"), lowerQuotes[0].Code)
		assert.Equal(t, types.Currency("USD"), lowerQuotes[1].Code)
	})

	t.Run("unexpected currencies are dropped", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(testTablePayload))
		})

		c := NewClient(srv.URL, DefaultTable, []string{"EUR"}, time.Second)

		quotes, err := c.FetchDay(context.Background(), day)
		require.NoError(t, err)

		require.Len(t, quotes, 1)
		assert.Equal(t, types.Currency("EUR"), quotes[0].Code)
		assert.Equal(t, "euro", quotes[0].Name)
		assert.Equal(t, 4.3143, quotes[0].Mid)
	})

	t.Run("quotes carry the requested date", func(t *testing.T) {
		t.Parallel()

		// The payload's effectiveDate (2024-02-29) deliberately differs
		// from the requested day
		srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(testTablePayload))
		})

		c := NewClient(srv.URL, DefaultTable, []string{"EUR"}, time.Second)

		quotes, err := c.FetchDay(context.Background(), day)
		require.NoError(t, err)

		require.Len(t, quotes, 1)
		assert.True(t, quotes[0].Date.Equal(day))
	})

	t.Run("non-success status means no data", func(t *testing.T) {
		t.Parallel()

		for _, status := range []int{
			http.StatusNotFound,
			http.StatusBadRequest,
			http.StatusInternalServerError,
		} {
			srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
			})

			c := NewClient(srv.URL, DefaultTable, []string{"EUR"}, time.Second)

			quotes, err := c.FetchDay(context.Background(), day)

			require.NoError(t, err)
			assert.Empty(t, quotes)
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})

		c := NewClient(srv.URL, DefaultTable, []string{"EUR"}, time.Second)

		quotes, err := c.FetchDay(context.Background(), day)

		require.NoError(t, err)
		assert.Empty(t, quotes)
	})

	t.Run("malformed payload", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		})

		c := NewClient(srv.URL, DefaultTable, []string{"EUR"}, time.Second)

		_, err := c.FetchDay(context.Background(), day)

		assert.Error(t, err)
	})

	t.Run("lower-case response codes are canonicalized", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[
				{"rates": [{"currency": "euro", "code": "eur", "mid": 4.31}]}
			]`))
		})

		c := NewClient(srv.URL, DefaultTable, []string{"EUR"}, time.Second)

		quotes, err := c.FetchDay(context.Background(), day)
		require.NoError(t, err)

		require.Len(t, quotes, 1)
		assert.Equal(t, types.Currency("EUR"), quotes[0].Code)
	})
}
