package postgres

import (
	"context"
	"errors"
	"fmt"
	"fxhistory/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProviderConfigRepository struct {
	pool *pgxpool.Pool
}

// ListActive returns active provider configs ordered by priority, then by creation order.
func (r *ProviderConfigRepository) ListActive(ctx context.Context) ([]domain.ProviderConfig, error) {
	const q = `
		select name, priority, active
		from exchange_rate_providers
		where active
		order by priority, id;
	`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query active providers: %w", err)
	}
	defer rows.Close()

	configs := make([]domain.ProviderConfig, 0, 4)
	for rows.Next() {
		var c domain.ProviderConfig
		if err = rows.Scan(&c.Name, &c.Priority, &c.Active); err != nil {
			return nil, fmt.Errorf("failed to scan provider config: %w", err)
		}
		configs = append(configs, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating provider configs: %w", err)
	}
	return configs, nil
}

func (r *ProviderConfigRepository) GetActiveByName(ctx context.Context, name string) (domain.ProviderConfig, error) {
	const q = `select name, priority, active from exchange_rate_providers where name = $1 and active;`

	var c domain.ProviderConfig
	if err := r.pool.QueryRow(ctx, q, name).Scan(&c.Name, &c.Priority, &c.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ProviderConfig{}, fmt.Errorf("provider %q: %w", name, domain.ErrProviderUnavailable)
		}
		return domain.ProviderConfig{}, fmt.Errorf("failed to select provider %q: %w", name, err)
	}
	return c, nil
}

func NewProviderConfigRepository(pool *pgxpool.Pool) *ProviderConfigRepository {
	return &ProviderConfigRepository{pool: pool}
}
