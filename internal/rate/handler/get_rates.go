package handler

import (
	"errors"
	"fxhistory/internal/domain"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ratesQuery struct {
	SourceCurrency string `validate:"required"`
	DateFrom       string `validate:"required"`
	DateTo         string `validate:"required"`
}

type RateResponse struct {
	ID                int64           `json:"id" example:"1"`
	SourceCurrency    string          `json:"source_currency" example:"EUR"`
	ExchangedCurrency string          `json:"exchanged_currency" example:"USD"`
	ValuationDate     string          `json:"valuation_date" example:"2025-01-01"`
	RateValue         decimal.Decimal `json:"rate_value" swaggertype:"string" example:"1.035000"`
}

// GetRates godoc
// @Summary Rate time series
// @Description Stored exchange rates of a source currency over an inclusive date range
// @Tags Rates
// @Produce json
// @Param source_currency query string true "Source currency code" example(EUR)
// @Param date_from query string true "First valuation date, YYYY-MM-DD"
// @Param date_to query string true "Last valuation date, YYYY-MM-DD"
// @Success 200 {array} RateResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /rates [get]
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := ratesQuery{
		SourceCurrency: strings.ToUpper(strings.TrimSpace(q.Get("source_currency"))),
		DateFrom:       strings.TrimSpace(q.Get("date_from")),
		DateTo:         strings.TrimSpace(q.Get("date_to")),
	}
	if err := h.validator.Struct(query); err != nil {
		writeError(w, http.StatusBadRequest, "missing parameters")
		return
	}

	from, fromErr := domain.ParseDate(query.DateFrom)
	to, toErr := domain.ParseDate(query.DateTo)
	if fromErr != nil || toErr != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
		return
	}

	rates, err := h.service.ListRates(r.Context(), query.SourceCurrency, from, to)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidDateRange):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrCurrencyNotFound):
			writeError(w, http.StatusNotFound, "source currency not found")
		default:
			msg := "ups, couldn't get rates this time"
			logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetRates", "source": query.SourceCurrency}).Error(msg)
			writeError(w, http.StatusInternalServerError, msg)
		}
		return
	}

	res := make([]RateResponse, 0, len(rates))
	for _, rt := range rates {
		res = append(res, RateResponse{
			ID:                rt.ID,
			SourceCurrency:    rt.Source,
			ExchangedCurrency: rt.Target,
			ValuationDate:     rt.ValuationDate.Format(domain.DateLayout),
			RateValue:         rt.Value,
		})
	}
	writeJSON(w, http.StatusOK, res)
}
