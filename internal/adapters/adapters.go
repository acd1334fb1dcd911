package adapters

import (
	"context"
	"fxhistory/internal/domain"
	"time"

	"github.com/shopspring/decimal"
)

// RateProvider is implemented once per external rate source.
type RateProvider interface {
	GetRate(ctx context.Context, source string, target string, date time.Time) (decimal.Decimal, error)
}

// RateResolver resolves a rate through the provider fallback chain.
type RateResolver interface {
	Resolve(ctx context.Context, source string, target string, date time.Time, providerName string) (decimal.Decimal, error)
}

// RateStore is the part of rate storage the backfill engine depends on.
type RateStore interface {
	Exists(ctx context.Context, source string, target string, date time.Time) (bool, error)
	Insert(ctx context.Context, source string, target string, date time.Time, value decimal.Decimal) (domain.ExchangeRate, error)
}

type RateRepository interface {
	RateStore
	Get(ctx context.Context, source string, target string, date time.Time) (domain.ExchangeRate, error)
	ListBySource(ctx context.Context, source string, from time.Time, to time.Time) ([]domain.ExchangeRate, error)
}

type CurrencyRepository interface {
	List(ctx context.Context) ([]domain.Currency, error)
	GetByCode(ctx context.Context, code string) (domain.Currency, error)
}

type ProviderConfigRepository interface {
	ListActive(ctx context.Context) ([]domain.ProviderConfig, error)
	GetActiveByName(ctx context.Context, name string) (domain.ProviderConfig, error)
}

type RateCache interface {
	Get(triple domain.Triple) (domain.ExchangeRate, bool)
	Set(rate domain.ExchangeRate)
}
