package mockprovider

import (
	"context"
	"errors"
	"fxhistory/internal/domain"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
)

const Name = "Mock"

var (
	minRate = decimal.NewFromFloat(0.5)
	errFail = errors.New("mock provider configured to fail")
)

// Provider generates pseudo-random rates in [0.5, 1.5] with 6 fractional digits.
type Provider struct {
	fail bool
}

type Option func(*Provider)

// WithFailure makes every GetRate call fail.
func WithFailure() Option {
	return func(p *Provider) { p.fail = true }
}

func (p *Provider) GetRate(ctx context.Context, _ string, _ string, _ time.Time) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, &domain.ProviderError{Provider: Name, Err: err}
	}
	if p.fail {
		return decimal.Zero, &domain.ProviderError{Provider: Name, Err: errFail}
	}
	return minRate.Add(decimal.NewFromFloat(rand.Float64())).Round(domain.RateScale), nil
}

func New(opts ...Option) *Provider {
	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
