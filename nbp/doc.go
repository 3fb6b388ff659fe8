// Package nbp fetches daily exchange rate tables published by
// Narodowy Bank Polski.
//
// Source: https://api.nbp.pl/api/exchangerates/tables/{table}/{date}/
//
// The client requests one table per calendar day and keeps only the
// configured currency codes (matched case-insensitively). Days without a
// published table (weekends, holidays) answer with a non-2xx status,
// which the client reports as an empty result rather than an error.
//
// Returned quotes always carry the requested date, not the table's
// effectiveDate, so stored rates stay aligned with the run's date range.
package nbp
