package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dane-analizy/kursy-walut/storage"
	"github.com/dane-analizy/kursy-walut/storage/types"
)

const createTableQuery = `
	CREATE TABLE IF NOT EXISTS rates (
		data          DATE NOT NULL,
		currency_code TEXT NOT NULL,
		exchange_rate REAL NOT NULL,
		PRIMARY KEY (data, currency_code)
	)
`

const (
	insertRateQuery = `
		INSERT INTO rates (data, currency_code, exchange_rate)
		VALUES (?, ?, ?)
	`

	listCurrenciesQuery = `
		SELECT DISTINCT currency_code
		FROM rates
		ORDER BY currency_code ASC
	`

	loadRatesQuery = `
		SELECT data, exchange_rate
		FROM rates
		WHERE currency_code = ? AND data >= ? AND data <= ?
		ORDER BY data ASC
	`
)

// Open opens (creating if needed) the sqlite database at the given path.
// In-memory databases are per-connection, so they are limited to a
// single connection to keep all statements on the same data
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

type Storage struct {
	db *sql.DB
}

// NewStorage creates a new sqlite-backed rate store
func NewStorage(db *sql.DB) *Storage {
	return &Storage{
		db: db,
	}
}

// Name returns the name of the store, for sink logging
func (s *Storage) Name() string {
	return "sqlite"
}

// EnsureSchema creates the rates table if absent. Safe on every run
func (s *Storage) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableQuery); err != nil {
		return fmt.Errorf("unable to create rates table: %w", err)
	}

	return nil
}

func (s *Storage) SaveRate(ctx context.Context, quote *types.Quote) error {
	_, err := s.db.ExecContext(
		ctx,
		insertRateQuery,
		quote.Date.Format(time.DateOnly),
		quote.Code.String(),
		quote.Mid,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf(
				"%w: %s %s",
				storage.ErrDuplicateRate,
				quote.Date.Format(time.DateOnly),
				quote.Code,
			)
		}

		return fmt.Errorf("unable to save rate: %w", err)
	}

	return nil
}

func (s *Storage) ListCurrencies(ctx context.Context) ([]types.Currency, error) {
	rows, err := s.db.QueryContext(ctx, listCurrenciesQuery)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch currencies: %w", err)
	}
	defer rows.Close()

	var out []types.Currency

	for rows.Next() {
		var code string

		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("unable to scan currency: %w", err)
		}

		out = append(out, types.Currency(code))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to fetch currencies: %w", err)
	}

	return out, nil
}

func (s *Storage) LoadRates(
	ctx context.Context,
	code types.Currency,
	from time.Time,
	to time.Time,
) ([]*types.RatePoint, error) {
	rows, err := s.db.QueryContext(
		ctx,
		loadRatesQuery,
		types.NormalizeCurrency(code.String()).String(),
		from.Format(time.DateOnly),
		to.Format(time.DateOnly),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch rates: %w", err)
	}
	defer rows.Close()

	var out []*types.RatePoint

	for rows.Next() {
		var (
			day  string
			rate float64
		)

		if err := rows.Scan(&day, &rate); err != nil {
			return nil, fmt.Errorf("unable to scan rate: %w", err)
		}

		date, err := time.ParseInLocation(time.DateOnly, day, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("unable to parse stored date %q: %w", day, err)
		}

		out = append(out, &types.RatePoint{
			Date: date,
			Rate: rate,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to fetch rates: %w", err)
	}

	return out, nil
}

// isConstraintViolation reports whether the sqlite error is a unique /
// primary key constraint rejection
func isConstraintViolation(err error) bool {
	var sqlErr *sqlitedrv.Error
	if !errors.As(err, &sqlErr) {
		return false
	}

	switch sqlErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	default:
		return false
	}
}
