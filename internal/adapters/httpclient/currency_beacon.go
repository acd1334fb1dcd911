package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fxhistory/internal/domain"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const CurrencyBeaconName = "CurrencyBeacon"

type CurrencyBeaconClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

type beaconResponse struct {
	Rates map[string]json.Number `json:"rates"`
}

// GetRate requests a single source/target rate for the given valuation date.
func (c *CurrencyBeaconClient) GetRate(ctx context.Context, source string, target string, date time.Time) (decimal.Decimal, error) {
	rate, err := c.getRate(ctx, source, target, date)
	if err != nil {
		return decimal.Zero, &domain.ProviderError{Provider: CurrencyBeaconName, Err: err}
	}
	return rate, nil
}

func (c *CurrencyBeaconClient) getRate(ctx context.Context, source string, target string, date time.Time) (decimal.Decimal, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/latest"
	q := u.Query()
	q.Set("api_key", c.apiKey)
	q.Set("base", source)
	q.Set("symbols", target)
	q.Set("date", date.Format(domain.DateLayout))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request for pair %q/%q: %w", source, target, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to execute request for pair %q/%q: %w", source, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decimal.Zero, fmt.Errorf("unexpected status code %d for pair %q/%q: %s", resp.StatusCode, source, target, resp.Status)
	}

	var body beaconResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err = dec.Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode response for pair %q/%q: %w", source, target, err)
	}

	raw, ok := body.Rates[target]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate data returned for pair %q/%q", source, target)
	}
	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed rate %q for pair %q/%q: %w", raw, source, target, err)
	}
	rate = rate.Round(domain.RateScale)
	if !rate.IsPositive() {
		return decimal.Zero, errors.New("non-positive rate " + rate.String() + " for pair " + source + "/" + target)
	}
	return rate, nil
}

func NewCurrencyBeaconClient(httpClient *http.Client, baseURL string, apiKey string) *CurrencyBeaconClient {
	return &CurrencyBeaconClient{http: httpClient, baseURL: baseURL, apiKey: apiKey}
}
