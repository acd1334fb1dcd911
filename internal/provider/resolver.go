package provider

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"fxhistory/internal/adapters"
	"fxhistory/internal/domain"
	"fxhistory/internal/metrics"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var errNothingAttempted = errors.New("failed to retrieve exchange rate data")

// Resolver walks the priority-ordered fallback chain of configured providers.
type Resolver struct {
	configs  adapters.ProviderConfigRepository
	registry *Registry
	metrics  *metrics.Metrics
}

// Resolve returns the rate of the first provider in the chain that succeeds.
// With a non-empty providerName only that provider is consulted.
func (r *Resolver) Resolve(ctx context.Context, source string, target string, date time.Time, providerName string) (decimal.Decimal, error) {
	tryList, err := r.tryList(ctx, providerName)
	if err != nil {
		return decimal.Zero, err
	}

	var lastErr error
	for _, cfg := range tryList {
		p, ok := r.registry.Lookup(cfg.Name)
		if !ok {
			logrus.Debugf("Provider '%s' is configured but not registered, skipping", cfg.Name)
			r.metrics.ProviderAttempt(cfg.Name, metrics.OutcomeSkipped)
			continue
		}

		rate, getErr := p.GetRate(ctx, source, target, date)
		if getErr == nil && !rate.IsPositive() {
			getErr = &domain.ProviderError{Provider: cfg.Name, Err: fmt.Errorf("non-positive rate %s", rate)}
		}
		if getErr != nil {
			logrus.WithError(getErr).WithFields(logrus.Fields{
				"provider": cfg.Name,
				"source":   source,
				"target":   target,
				"date":     date.Format(domain.DateLayout),
			}).Warn("provider failed, trying next one")
			r.metrics.ProviderAttempt(cfg.Name, metrics.OutcomeFailure)
			lastErr = getErr
			continue
		}

		r.metrics.ProviderAttempt(cfg.Name, metrics.OutcomeSuccess)
		return rate, nil
	}

	if lastErr != nil {
		return decimal.Zero, lastErr
	}
	return decimal.Zero, &domain.ProviderError{Err: errNothingAttempted}
}

func (r *Resolver) tryList(ctx context.Context, providerName string) ([]domain.ProviderConfig, error) {
	if providerName != "" {
		cfg, err := r.configs.GetActiveByName(ctx, providerName)
		if err != nil {
			return nil, err
		}
		if !cfg.Active {
			return nil, fmt.Errorf("provider %q: %w", providerName, domain.ErrProviderUnavailable)
		}
		return []domain.ProviderConfig{cfg}, nil
	}

	configs, err := r.configs.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active providers: %w", err)
	}
	configs = slices.DeleteFunc(slices.Clone(configs), func(c domain.ProviderConfig) bool { return !c.Active })
	if len(configs) == 0 {
		return nil, domain.ErrNoActiveProviders
	}
	slices.SortStableFunc(configs, func(a, b domain.ProviderConfig) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	return configs, nil
}

func NewResolver(configs adapters.ProviderConfigRepository, registry *Registry, m *metrics.Metrics) *Resolver {
	return &Resolver{configs: configs, registry: registry, metrics: m}
}
