package server

import "github.com/dane-analizy/kursy-walut/storage/types"

// RatePayload is one (date, rate) pair, with the date rendered as a
// plain YYYY-MM-DD string
type RatePayload struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

type RatesResponse struct {
	Code    types.Currency `json:"code"`
	Results []RatePayload  `json:"results"`
}

type CurrenciesResponse struct {
	Results []types.Currency `json:"results"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
