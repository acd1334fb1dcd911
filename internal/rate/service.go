package rate

import (
	"context"
	"errors"
	"fmt"
	"fxhistory/internal/adapters"
	"fxhistory/internal/domain"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Service struct {
	currencies adapters.CurrencyRepository
	rates      adapters.RateRepository
	resolver   adapters.RateResolver
	cache      adapters.RateCache
	now        func() time.Time
}

// Convert converts amount with today's rate, fetching and storing it first when it is missing.
func (s *Service) Convert(ctx context.Context, source string, target string, amount decimal.Decimal) (Conversion, error) {
	if _, err := s.currencies.GetByCode(ctx, source); err != nil {
		return Conversion{}, err
	}
	if _, err := s.currencies.GetByCode(ctx, target); err != nil {
		return Conversion{}, err
	}

	rate, err := s.todayRate(ctx, source, target)
	if err != nil {
		return Conversion{}, err
	}

	return Conversion{
		Source:        source,
		Target:        target,
		Amount:        amount,
		Rate:          rate.Value,
		Converted:     amount.Mul(rate.Value).Round(domain.RateScale),
		ValuationDate: rate.ValuationDate,
	}, nil
}

func (s *Service) todayRate(ctx context.Context, source string, target string) (domain.ExchangeRate, error) {
	today := domain.Day(s.now())
	triple := domain.Triple{Source: source, Target: target, Date: today}

	if rate, ok := s.cache.Get(triple); ok {
		return rate, nil
	}

	rate, err := s.rates.Get(ctx, source, target, today)
	if err == nil {
		s.cache.Set(rate)
		return rate, nil
	}
	if !errors.Is(err, domain.ErrRateNotFound) {
		return domain.ExchangeRate{}, err
	}

	value, err := s.resolver.Resolve(ctx, source, target, today, "")
	if err != nil {
		return domain.ExchangeRate{}, err
	}

	rate, err = s.rates.Insert(ctx, source, target, today, value)
	if errors.Is(err, domain.ErrRateExists) {
		// a concurrent writer won; the stored row is authoritative
		logrus.Debugf("Rate %s stored concurrently, re-reading", triple)
		rate, err = s.rates.Get(ctx, source, target, today)
	}
	if err != nil {
		return domain.ExchangeRate{}, err
	}

	s.cache.Set(rate)
	return rate, nil
}

// ListRates returns stored rates of source over the inclusive range [from, to].
func (s *Service) ListRates(ctx context.Context, source string, from time.Time, to time.Time) ([]domain.ExchangeRate, error) {
	if domain.Day(to).Before(domain.Day(from)) {
		return nil, fmt.Errorf("%w: date_from is after date_to", domain.ErrInvalidDateRange)
	}
	if _, err := s.currencies.GetByCode(ctx, source); err != nil {
		return nil, err
	}
	return s.rates.ListBySource(ctx, source, domain.Day(from), domain.Day(to))
}

func (s *Service) Currencies(ctx context.Context) ([]domain.Currency, error) {
	return s.currencies.List(ctx)
}

func NewService(currencies adapters.CurrencyRepository, rates adapters.RateRepository, resolver adapters.RateResolver, cache adapters.RateCache) *Service {
	return &Service{
		currencies: currencies,
		rates:      rates,
		resolver:   resolver,
		cache:      cache,
		now:        time.Now,
	}
}
