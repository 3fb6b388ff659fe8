package types

import (
	"strings"
	"time"
)

// Currency is an upper-case ISO-4217 currency code
type Currency string

// NormalizeCurrency canonicalizes a currency code to its upper-case form
func NormalizeCurrency(code string) Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(code)))
}

func (c Currency) String() string {
	return string(c)
}

// Lower returns the lower-case form of the code, used for file paths
// and case-insensitive comparisons
func (c Currency) Lower() string {
	return strings.ToLower(string(c))
}

// Quote is a single mid-market exchange rate observation for one
// currency on one trade date
type Quote struct {
	Date time.Time `json:"data"` // the requested trade date, UTC midnight
	Code Currency  `json:"code"`
	Name string    `json:"currency"` // human-readable currency name
	Mid  float64   `json:"mid"`
}

// RatePoint is a stored (date, rate) pair for one currency
type RatePoint struct {
	Date time.Time `json:"date"`
	Rate float64   `json:"rate"`
}
