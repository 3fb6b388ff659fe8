package sql

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dane-analizy/kursy-walut/storage"
	"github.com/dane-analizy/kursy-walut/storage/types"
)

// uniqueViolation is the SQLSTATE code for a unique / primary key
// constraint rejection
const uniqueViolation = "23505"

const (
	insertRateQuery = `
		INSERT INTO rates (data, currency_code, exchange_rate)
		VALUES ($1, $2, $3)
	`

	listCurrenciesQuery = `
		SELECT DISTINCT currency_code
		FROM rates
		ORDER BY currency_code ASC
	`

	loadRatesQuery = `
		SELECT data, exchange_rate
		FROM rates
		WHERE currency_code = $1 AND data >= $2 AND data <= $3
		ORDER BY data ASC
	`
)

// Querier is the subset of pgx connection methods used by the adapter.
// Satisfied by *pgx.Conn and *pgxpool.Pool alike
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Storage struct {
	db Querier
}

// NewStorage creates a new Postgres-backed rate store
func NewStorage(db Querier) *Storage {
	return &Storage{
		db: db,
	}
}

// Name returns the name of the store, for sink logging
func (s *Storage) Name() string {
	return "sql"
}

// EnsureSchema applies the embedded schema files, in order.
// All statements are create-if-absent, so this is safe on every run
func (s *Storage) EnsureSchema(ctx context.Context) error {
	names, err := fs.Glob(SchemaFS, "schema/*.sql")
	if err != nil {
		return fmt.Errorf("unable to read embedded schema: %w", err)
	}

	sort.Strings(names)

	for _, name := range names {
		raw, err := SchemaFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("unable to read schema %q: %w", name, err)
		}

		if _, err := s.db.Exec(ctx, string(raw)); err != nil {
			return fmt.Errorf("unable to apply schema %q: %w", name, err)
		}
	}

	return nil
}

func (s *Storage) SaveRate(ctx context.Context, quote *types.Quote) error {
	_, err := s.db.Exec(
		ctx,
		insertRateQuery,
		quote.Date,
		quote.Code.String(),
		quote.Mid,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
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
	rows, err := s.db.Query(ctx, listCurrenciesQuery)
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
	rows, err := s.db.Query(
		ctx,
		loadRatesQuery,
		types.NormalizeCurrency(code.String()).String(),
		from,
		to,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch rates: %w", err)
	}
	defer rows.Close()

	var out []*types.RatePoint

	for rows.Next() {
		var point types.RatePoint

		if err := rows.Scan(&point.Date, &point.Rate); err != nil {
			return nil, fmt.Errorf("unable to scan rate: %w", err)
		}

		out = append(out, &point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to fetch rates: %w", err)
	}

	return out, nil
}
