package postgres

import (
	"context"
	"errors"
	"fmt"
	"fxhistory/internal/domain"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type RateRepository struct {
	pool *pgxpool.Pool
}

func (r *RateRepository) Exists(ctx context.Context, source string, target string, date time.Time) (bool, error) {
	const q = `
		select exists (
		  select 1
		  from exchange_rates er
		    join currencies s on s.id = er.source_currency_id
		    join currencies t on t.id = er.exchanged_currency_id
		  where s.code = $1 and t.code = $2 and er.valuation_date = $3
		);
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, q, source, target, domain.Day(date)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check rate %q/%q on %s: %w", source, target, date.Format(domain.DateLayout), err)
	}
	return exists, nil
}

// Insert stores a new rate. A row already present for the same triple is left untouched
// and domain.ErrRateExists is returned.
func (r *RateRepository) Insert(ctx context.Context, source string, target string, date time.Time, value decimal.Decimal) (domain.ExchangeRate, error) {
	const q = `
		insert into exchange_rates (source_currency_id, exchanged_currency_id, valuation_date, rate_value)
		select s.id, t.id, $3, $4::numeric
		from currencies s, currencies t
		where s.code = $1 and t.code = $2
		on conflict (source_currency_id, exchanged_currency_id, valuation_date) do nothing
		returning id, valuation_date, rate_value::text;
	`

	day := domain.Day(date)
	rate := domain.ExchangeRate{Source: source, Target: target}
	var raw string
	err := r.pool.QueryRow(ctx, q, source, target, day, value.StringFixed(domain.RateScale)).Scan(&rate.ID, &rate.ValuationDate, &raw)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.ExchangeRate{}, fmt.Errorf("failed to insert rate %q/%q on %s: %w", source, target, day.Format(domain.DateLayout), err)
		}
		// nothing inserted: either the triple is taken or a currency is unknown
		exists, existsErr := r.Exists(ctx, source, target, day)
		if existsErr != nil {
			return domain.ExchangeRate{}, existsErr
		}
		if exists {
			return domain.ExchangeRate{}, domain.ErrRateExists
		}
		return domain.ExchangeRate{}, domain.ErrCurrencyNotFound
	}

	if rate.Value, err = decimal.NewFromString(raw); err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("failed to parse stored rate %q: %w", raw, err)
	}
	return rate, nil
}

func (r *RateRepository) Get(ctx context.Context, source string, target string, date time.Time) (domain.ExchangeRate, error) {
	const q = `
		select er.id, s.code, t.code, er.valuation_date, er.rate_value::text
		from exchange_rates er
		  join currencies s on s.id = er.source_currency_id
		  join currencies t on t.id = er.exchanged_currency_id
		where s.code = $1 and t.code = $2 and er.valuation_date = $3;
	`

	rate, err := scanRate(r.pool.QueryRow(ctx, q, source, target, domain.Day(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ExchangeRate{}, domain.ErrRateNotFound
		}
		return domain.ExchangeRate{}, fmt.Errorf("failed to select rate %q/%q on %s: %w", source, target, date.Format(domain.DateLayout), err)
	}
	return rate, nil
}

// ListBySource returns the rates of one source currency with valuation dates in [from, to].
func (r *RateRepository) ListBySource(ctx context.Context, source string, from time.Time, to time.Time) ([]domain.ExchangeRate, error) {
	const q = `
		select er.id, s.code, t.code, er.valuation_date, er.rate_value::text
		from exchange_rates er
		  join currencies s on s.id = er.source_currency_id
		  join currencies t on t.id = er.exchanged_currency_id
		where s.code = $1 and er.valuation_date between $2 and $3
		order by er.valuation_date, t.code;
	`

	rows, err := r.pool.Query(ctx, q, source, domain.Day(from), domain.Day(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query rates for %q: %w", source, err)
	}
	defer rows.Close()

	rates := make([]domain.ExchangeRate, 0, 64)
	for rows.Next() {
		rate, scanErr := scanRate(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", scanErr)
		}
		rates = append(rates, rate)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rates: %w", err)
	}
	return rates, nil
}

func scanRate(row pgx.Row) (domain.ExchangeRate, error) {
	var rate domain.ExchangeRate
	var raw string
	if err := row.Scan(&rate.ID, &rate.Source, &rate.Target, &rate.ValuationDate, &raw); err != nil {
		return domain.ExchangeRate{}, err
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("failed to parse stored rate %q: %w", raw, err)
	}
	rate.Value = value
	return rate, nil
}

func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}
