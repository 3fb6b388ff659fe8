package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dane-analizy/kursy-walut/storage/types"
)

var (
	errInvalidCurrency = errors.New("invalid currency (must be 3 letters A-Z)")
	errInvalidFrom     = errors.New("invalid from (must be YYYY-MM-DD)")
	errInvalidTo       = errors.New("invalid to (must be YYYY-MM-DD)")
)

// Currencies lists the distinct currency codes present in the store,
// ascending. A failing query degrades to an empty result set
func (s *Server) Currencies(w http.ResponseWriter, r *http.Request) {
	items, err := s.storage.ListCurrencies(r.Context())
	if err != nil {
		s.logger.Error(
			"unable to fetch currencies",
			"err", err,
		)

		items = nil
	}

	if items == nil {
		items = make([]types.Currency, 0)
	}

	writeJSON(w, http.StatusOK, &CurrenciesResponse{
		Results: items,
	})
}

// RatesForCurrency lists the stored (date, rate) pairs for one currency
// within an inclusive date range, ascending. The range defaults to
// everything up to today. A failing query degrades to an empty result set
func (s *Server) RatesForCurrency(w http.ResponseWriter, r *http.Request) {
	var (
		codeParam = chi.URLParam(r, "code")

		fromParam = r.URL.Query().Get("from")
		toParam   = r.URL.Query().Get("to")
	)

	// Parse the currency code
	code, err := parseCurrencySymbol(codeParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	// Parse the range bounds
	from, err := parseDayParam(fromParam, time.Time{}, errInvalidFrom)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	to, err := parseDayParam(toParam, time.Now().UTC(), errInvalidTo)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	points, err := s.storage.LoadRates(r.Context(), code, from, to)
	if err != nil {
		s.logger.Error(
			"unable to fetch rates",
			"code", code,
			"err", err,
		)

		points = nil
	}

	results := make([]RatePayload, 0, len(points))

	for _, point := range points {
		results = append(results, RatePayload{
			Date: point.Date.Format(time.DateOnly),
			Rate: point.Rate,
		})
	}

	writeJSON(w, http.StatusOK, &RatesResponse{
		Code:    code,
		Results: results,
	})
}

// parseDayParam parses an optional YYYY-MM-DD query value, falling back
// to the given default when absent
func parseDayParam(raw string, fallback time.Time, invalidErr error) (time.Time, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return fallback, nil
	}

	day, err := time.ParseInLocation(time.DateOnly, v, time.UTC)
	if err != nil {
		return time.Time{}, invalidErr
	}

	return day, nil
}

func parseCurrencySymbol(v string) (types.Currency, error) {
	s := strings.ToUpper(strings.TrimSpace(v))
	if len(s) != 3 {
		return "", errInvalidCurrency
	}

	for i := 0; i < 3; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return "", errInvalidCurrency
		}
	}

	return types.Currency(s), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}
