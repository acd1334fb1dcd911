package mockprovider

import (
	"context"
	"testing"
	"time"

	"fxhistory/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestProvider_RateWithinRangeAndScale(t *testing.T) {
	p := New()
	lo := decimal.RequireFromString("0.5")
	hi := decimal.RequireFromString("1.5")

	for i := 0; i < 500; i++ {
		rate, err := p.GetRate(context.Background(), "USD", "EUR", time.Now())
		require.NoError(t, err)
		require.True(t, rate.GreaterThanOrEqual(lo), rate.String())
		require.True(t, rate.LessThanOrEqual(hi), rate.String())
		require.True(t, rate.Equal(rate.Round(domain.RateScale)))
	}
}

func TestProvider_WithFailure(t *testing.T) {
	p := New(WithFailure())

	_, err := p.GetRate(context.Background(), "USD", "EUR", time.Now())
	var pErr *domain.ProviderError
	require.ErrorAs(t, err, &pErr)
	require.Equal(t, Name, pErr.Provider)
}

func TestProvider_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().GetRate(ctx, "USD", "EUR", time.Now())
	require.ErrorIs(t, err, context.Canceled)
}
