package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fxhistory/internal/domain"
	"fxhistory/internal/rate"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct{ mock.Mock }

func (m *MockService) Convert(ctx context.Context, source string, target string, amount decimal.Decimal) (rate.Conversion, error) {
	args := m.Called(ctx, source, target, amount)
	c, _ := args.Get(0).(rate.Conversion)
	return c, args.Error(1)
}

func (m *MockService) ListRates(ctx context.Context, source string, from time.Time, to time.Time) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, source, from, to)
	list, _ := args.Get(0).([]domain.ExchangeRate)
	return list, args.Error(1)
}

func (m *MockService) Currencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.Currency)
	return list, args.Error(1)
}

type MockBackfillStarter struct{ mock.Mock }

func (m *MockBackfillStarter) Start(ctx context.Context, start time.Time, end time.Time) (string, error) {
	args := m.Called(ctx, start, end)
	return args.String(0), args.Error(1)
}

type errorJSON struct {
	Error string `json:"error"`
}

func newTestHandler() (*Handler, *MockService, *MockBackfillStarter) {
	svc := new(MockService)
	starter := new(MockBackfillStarter)
	return NewRateHandler(rate.NewValidator(), svc, starter), svc, starter
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var ej errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	return ej.Error
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// --- GetCurrencies ---

func TestHandler_GetCurrencies_Success(t *testing.T) {
	h, svc, _ := newTestHandler()
	svc.On("Currencies", mock.Anything).Return([]domain.Currency{
		{ID: 1, Code: "EUR", Name: "Euro", Symbol: "€"},
		{ID: 2, Code: "USD", Name: "US Dollar", Symbol: "$"},
	}, nil).Once()

	rr := httptest.NewRecorder()
	h.GetCurrencies(rr, httptest.NewRequest(http.MethodGet, "/api/v1/currencies", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var got []CurrencyResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, []CurrencyResponse{
		{Code: "EUR", Name: "Euro", Symbol: "€"},
		{Code: "USD", Name: "US Dollar", Symbol: "$"},
	}, got)
	svc.AssertExpectations(t)
}

func TestHandler_GetCurrencies_Error(t *testing.T) {
	h, svc, _ := newTestHandler()
	svc.On("Currencies", mock.Anything).Return(nil, errors.New("db down")).Once()

	rr := httptest.NewRecorder()
	h.GetCurrencies(rr, httptest.NewRequest(http.MethodGet, "/api/v1/currencies", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "ups, couldn't list currencies this time", decodeError(t, rr))
}

// --- GetRates ---

func TestHandler_GetRates_Success(t *testing.T) {
	h, svc, _ := newTestHandler()
	from, to := date(2025, 1, 1), date(2025, 1, 2)
	svc.On("ListRates", mock.Anything, "EUR", from, to).Return([]domain.ExchangeRate{
		{ID: 7, Source: "EUR", Target: "USD", ValuationDate: from, Value: decimal.RequireFromString("1.035")},
	}, nil).Once()

	rr := httptest.NewRecorder()
	h.GetRates(rr, httptest.NewRequest(http.MethodGet, "/api/v1/rates?source_currency=eur&date_from=2025-01-01&date_to=2025-01-02", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "EUR", got[0]["source_currency"])
	require.Equal(t, "USD", got[0]["exchanged_currency"])
	require.Equal(t, "2025-01-01", got[0]["valuation_date"])
	require.Equal(t, "1.035", got[0]["rate_value"])
	svc.AssertExpectations(t)
}

func TestHandler_GetRates_BadRequests(t *testing.T) {
	cases := []struct {
		name    string
		query   string
		wantMsg string
	}{
		{name: "missing source", query: "date_from=2025-01-01&date_to=2025-01-02", wantMsg: "missing parameters"},
		{name: "missing date_to", query: "source_currency=EUR&date_from=2025-01-01", wantMsg: "missing parameters"},
		{name: "bad date", query: "source_currency=EUR&date_from=2025-13-01&date_to=2025-01-02", wantMsg: "invalid date format, use YYYY-MM-DD"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, svc, _ := newTestHandler()
			rr := httptest.NewRecorder()
			h.GetRates(rr, httptest.NewRequest(http.MethodGet, "/api/v1/rates?"+tc.query, nil))

			require.Equal(t, http.StatusBadRequest, rr.Code)
			require.Equal(t, tc.wantMsg, decodeError(t, rr))
			svc.AssertNotCalled(t, "ListRates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_GetRates_ServiceErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "inverted range", err: domain.ErrInvalidDateRange, wantCode: http.StatusBadRequest},
		{name: "unknown source", err: domain.ErrCurrencyNotFound, wantCode: http.StatusNotFound},
		{name: "internal", err: errors.New("db down"), wantCode: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, svc, _ := newTestHandler()
			svc.On("ListRates", mock.Anything, "XYZ", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			rr := httptest.NewRecorder()
			h.GetRates(rr, httptest.NewRequest(http.MethodGet, "/api/v1/rates?source_currency=XYZ&date_from=2025-01-01&date_to=2025-01-02", nil))

			require.Equal(t, tc.wantCode, rr.Code)
			require.NotEmpty(t, decodeError(t, rr))
			svc.AssertExpectations(t)
		})
	}
}

// --- Convert ---

func TestHandler_Convert_Success(t *testing.T) {
	h, svc, _ := newTestHandler()
	amount := decimal.RequireFromString("100")
	svc.On("Convert", mock.Anything, "EUR", "USD", mock.MatchedBy(amount.Equal)).Return(rate.Conversion{
		Source:        "EUR",
		Target:        "USD",
		Amount:        amount,
		Rate:          decimal.RequireFromString("1.035"),
		Converted:     decimal.RequireFromString("103.5"),
		ValuationDate: date(2025, 5, 20),
	}, nil).Once()

	rr := httptest.NewRecorder()
	h.Convert(rr, httptest.NewRequest(http.MethodGet, "/api/v1/convert?source_currency=eur&exchanged_currency=usd&amount=100", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, "EUR", got["source_currency"])
	require.Equal(t, "USD", got["exchanged_currency"])
	require.Equal(t, "1.035", got["rate"])
	require.Equal(t, "103.5", got["converted_amount"])
	require.Equal(t, "2025-05-20", got["valuation_date"])
	svc.AssertExpectations(t)
}

func TestHandler_Convert_BadRequests(t *testing.T) {
	cases := []struct {
		name    string
		query   string
		wantMsg string
	}{
		{name: "missing amount", query: "source_currency=EUR&exchanged_currency=USD", wantMsg: "missing parameters"},
		{name: "missing target", query: "source_currency=EUR&amount=1", wantMsg: "missing parameters"},
		{name: "bad amount", query: "source_currency=EUR&exchanged_currency=USD&amount=abc", wantMsg: "invalid amount"},
		{name: "same codes", query: "source_currency=EUR&exchanged_currency=eur&amount=1", wantMsg: rate.ErrSameCodes.Error()},
		{name: "malformed code", query: "source_currency=EURO&exchanged_currency=USD&amount=1", wantMsg: rate.ErrInvalidCode.Error()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, svc, _ := newTestHandler()
			rr := httptest.NewRecorder()
			h.Convert(rr, httptest.NewRequest(http.MethodGet, "/api/v1/convert?"+tc.query, nil))

			require.Equal(t, http.StatusBadRequest, rr.Code)
			require.Equal(t, tc.wantMsg, decodeError(t, rr))
			svc.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_Convert_NotFound(t *testing.T) {
	h, svc, _ := newTestHandler()
	svc.On("Convert", mock.Anything, "EUR", "XYZ", mock.Anything).Return(rate.Conversion{}, domain.ErrCurrencyNotFound).Once()

	rr := httptest.NewRecorder()
	h.Convert(rr, httptest.NewRequest(http.MethodGet, "/api/v1/convert?source_currency=EUR&exchanged_currency=XYZ&amount=1", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "currency not found", decodeError(t, rr))
}

func TestHandler_Convert_ResolutionFailure(t *testing.T) {
	h, svc, _ := newTestHandler()
	provErr := &domain.ProviderError{Provider: "Mock", Err: errors.New("down")}
	svc.On("Convert", mock.Anything, "EUR", "USD", mock.Anything).Return(rate.Conversion{}, provErr).Once()

	rr := httptest.NewRecorder()
	h.Convert(rr, httptest.NewRequest(http.MethodGet, "/api/v1/convert?source_currency=EUR&exchanged_currency=USD&amount=1", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, provErr.Error(), decodeError(t, rr))
}

// --- StartBackfill ---

func TestHandler_StartBackfill_Accepted(t *testing.T) {
	h, _, starter := newTestHandler()
	starter.On("Start", mock.Anything, date(2025, 1, 1), date(2025, 1, 31)).Return("run-1", nil).Once()

	body := bytes.NewBufferString(`{"start":"2025-01-01","end":"2025-01-31"}`)
	rr := httptest.NewRecorder()
	h.StartBackfill(rr, httptest.NewRequest(http.MethodPost, "/api/v1/backfill", body))

	require.Equal(t, http.StatusAccepted, rr.Code)
	var got StartBackfillResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, "run-1", got.RunID)
	starter.AssertExpectations(t)
}

func TestHandler_StartBackfill_RunOutlivesRequest(t *testing.T) {
	h, _, starter := newTestHandler()
	var runCtx context.Context
	starter.On("Start", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { runCtx = args.Get(0).(context.Context) }).
		Return("run-2", nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/backfill", bytes.NewBufferString(`{"start":"2025-01-01","end":"2025-01-01"}`)).WithContext(ctx)
	rr := httptest.NewRecorder()
	h.StartBackfill(rr, req)
	cancel()

	require.Equal(t, http.StatusAccepted, rr.Code)
	require.NoError(t, runCtx.Err())
}

func TestHandler_StartBackfill_BadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "not json", body: `start=2025-01-01`},
		{name: "unknown field", body: `{"start":"2025-01-01","end":"2025-01-02","extra":1}`},
		{name: "missing end", body: `{"start":"2025-01-01"}`},
		{name: "bad format", body: `{"start":"01/01/2025","end":"2025-01-02"}`},
		{name: "inverted", body: `{"start":"2025-02-01","end":"2025-01-01"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, _, starter := newTestHandler()
			rr := httptest.NewRecorder()
			h.StartBackfill(rr, httptest.NewRequest(http.MethodPost, "/api/v1/backfill", bytes.NewBufferString(tc.body)))

			require.Equal(t, http.StatusBadRequest, rr.Code)
			require.NotEmpty(t, decodeError(t, rr))
			starter.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_StartBackfill_Conflict(t *testing.T) {
	h, _, starter := newTestHandler()
	starter.On("Start", mock.Anything, mock.Anything, mock.Anything).Return("", domain.ErrBackfillRunning).Once()

	rr := httptest.NewRecorder()
	h.StartBackfill(rr, httptest.NewRequest(http.MethodPost, "/api/v1/backfill", bytes.NewBufferString(`{"start":"2025-01-01","end":"2025-01-02"}`)))

	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, domain.ErrBackfillRunning.Error(), decodeError(t, rr))
}
