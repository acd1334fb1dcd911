package handler

import (
	"context"
	"encoding/json"
	"fxhistory/internal/domain"
	"fxhistory/internal/rate"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type RateService interface {
	Convert(ctx context.Context, source string, target string, amount decimal.Decimal) (rate.Conversion, error)
	ListRates(ctx context.Context, source string, from time.Time, to time.Time) ([]domain.ExchangeRate, error)
	Currencies(ctx context.Context) ([]domain.Currency, error)
}

// BackfillStarter launches a backfill run in the background and returns its id.
type BackfillStarter interface {
	Start(ctx context.Context, start time.Time, end time.Time) (string, error)
}

type Handler struct {
	validator *rate.Validator
	service   RateService
	backfill  BackfillStarter
}

func NewRateHandler(validator *rate.Validator, service RateService, backfill BackfillStarter) *Handler {
	return &Handler{validator: validator, service: service, backfill: backfill}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{
		Error: errorMsg,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
