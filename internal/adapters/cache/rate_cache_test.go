package cache

import (
	"testing"
	"time"

	"fxhistory/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRateCache_SetAndGet(t *testing.T) {
	c, err := NewRateCache(128)
	require.NoError(t, err)
	defer c.Close()

	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	rate := domain.ExchangeRate{ID: 7, Source: "USD", Target: "EUR", ValuationDate: day, Value: decimal.RequireFromString("0.923100")}

	c.Set(rate)
	c.cache.Wait()

	got, ok := c.Get(domain.Triple{Source: "USD", Target: "EUR", Date: day})
	require.True(t, ok)
	require.Equal(t, int64(7), got.ID)
	require.True(t, rate.Value.Equal(got.Value))
}

func TestRateCache_GetMissWhenEmpty(t *testing.T) {
	c, err := NewRateCache(64)
	require.NoError(t, err)
	defer c.Close()

	got, ok := c.Get(domain.Triple{Source: "EUR", Target: "USD", Date: time.Now()})
	require.False(t, ok)
	require.Equal(t, domain.ExchangeRate{}, got)
}

func TestRateCache_KeyIncludesDateAndDirection(t *testing.T) {
	c, err := NewRateCache(256)
	require.NoError(t, err)
	defer c.Close()

	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	c.Set(domain.ExchangeRate{Source: "USD", Target: "EUR", ValuationDate: day, Value: decimal.RequireFromString("0.9")})
	c.cache.Wait()

	_, ok := c.Get(domain.Triple{Source: "EUR", Target: "USD", Date: day})
	require.False(t, ok)
	_, ok = c.Get(domain.Triple{Source: "USD", Target: "EUR", Date: day.AddDate(0, 0, 1)})
	require.False(t, ok)
	_, ok = c.Get(domain.Triple{Source: "USD", Target: "EUR", Date: day})
	require.True(t, ok)
}

func TestNewRateCache_DefaultsNonPositiveSize(t *testing.T) {
	c, err := NewRateCache(0)
	require.NoError(t, err)
	defer c.Close()

	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	c.Set(domain.ExchangeRate{ID: 1, Source: "CHF", Target: "GBP", ValuationDate: day, Value: decimal.RequireFromString("0.9")})
	c.cache.Wait()

	_, ok := c.Get(domain.Triple{Source: "CHF", Target: "GBP", Date: day})
	require.True(t, ok)
}
