package postgres

import (
	"context"
	"errors"
	"fmt"
	"fxhistory/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CurrencyRepository struct {
	pool *pgxpool.Pool
}

func (r *CurrencyRepository) List(ctx context.Context) ([]domain.Currency, error) {
	rows, err := r.pool.Query(ctx, `select id, code, name, symbol from currencies order by code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	currencies := make([]domain.Currency, 0, 16)
	for rows.Next() {
		var c domain.Currency
		if err = rows.Scan(&c.ID, &c.Code, &c.Name, &c.Symbol); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currencies: %w", err)
	}
	return currencies, nil
}

func (r *CurrencyRepository) GetByCode(ctx context.Context, code string) (domain.Currency, error) {
	var c domain.Currency
	err := r.pool.QueryRow(ctx, `select id, code, name, symbol from currencies where code = $1`, code).
		Scan(&c.ID, &c.Code, &c.Name, &c.Symbol)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Currency{}, domain.ErrCurrencyNotFound
		}
		return domain.Currency{}, fmt.Errorf("failed to select currency %q: %w", code, err)
	}
	return c, nil
}

func NewCurrencyRepository(pool *pgxpool.Pool) *CurrencyRepository {
	return &CurrencyRepository{pool: pool}
}
