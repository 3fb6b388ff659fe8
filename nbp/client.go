package nbp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dane-analizy/kursy-walut/storage/types"
)

const (
	// DefaultURL is the public NBP API base URL
	DefaultURL = "https://api.nbp.pl"

	// DefaultTable is the standard mid-rate table category
	DefaultTable = "A"
)

// tableResponse mirrors one element of the NBP tables payload
type tableResponse struct {
	Table         string         `json:"table"`
	No            string         `json:"no"`
	EffectiveDate string         `json:"effectiveDate"`
	Rates         []rateResponse `json:"rates"`
}

type rateResponse struct {
	Currency string  `json:"currency"`
	Code     string  `json:"code"`
	Mid      float64 `json:"mid"`
}

// Client fetches and filters daily NBP exchange rate tables
type Client struct {
	client *http.Client

	baseURL string
	table   string

	// expected holds the lower-cased currency codes to keep
	expected map[string]struct{}
}

// NewClient creates a new NBP table client for the given currency set
func NewClient(
	baseURL string,
	table string,
	currencies []string,
	timeout time.Duration,
) *Client {
	expected := make(map[string]struct{}, len(currencies))

	for _, code := range currencies {
		expected[strings.ToLower(strings.TrimSpace(code))] = struct{}{}
	}

	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:  strings.TrimRight(baseURL, "/"),
		table:    table,
		expected: expected,
	}
}

// Name returns the human-readable name of the rate source
func (c *Client) Name() string {
	return "NBP"
}

// FetchDay fetches the rate table for the given day and returns the
// quotes for the expected currencies, annotated with the requested day.
// A non-2xx response means no table was published for that day and
// yields an empty result with no error
func (c *Client) FetchDay(ctx context.Context, day time.Time) ([]*types.Quote, error) {
	url := fmt.Sprintf(
		"%s/api/exchangerates/tables/%s/%s/?format=json",
		c.baseURL,
		c.table,
		day.Format(time.DateOnly),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("unable to create new GET request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// No table published for this day (holiday / weekend)
		return nil, nil
	}

	var tables []tableResponse

	if err := json.NewDecoder(resp.Body).Decode(&tables); err != nil {
		return nil, fmt.Errorf("unable to decode rate table: %w", err)
	}

	if len(tables) == 0 {
		return nil, nil
	}

	var (
		requested = normalizeDay(day)

		quotes = make([]*types.Quote, 0, len(c.expected))
	)

	for _, rate := range tables[0].Rates {
		if _, ok := c.expected[strings.ToLower(rate.Code)]; !ok {
			continue
		}

		quotes = append(quotes, &types.Quote{
			Date: requested,
			Code: types.NormalizeCurrency(rate.Code),
			Name: rate.Currency,
			Mid:  rate.Mid,
		})
	}

	return quotes, nil
}

// normalizeDay truncates the given time to a UTC midnight calendar day
func normalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
