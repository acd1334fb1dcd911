package handler

import (
	"errors"
	"fxhistory/internal/domain"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type convertQuery struct {
	SourceCurrency    string `validate:"required"`
	ExchangedCurrency string `validate:"required"`
	Amount            string `validate:"required"`
}

type ConvertResponse struct {
	SourceCurrency    string          `json:"source_currency" example:"EUR"`
	ExchangedCurrency string          `json:"exchanged_currency" example:"USD"`
	Amount            decimal.Decimal `json:"amount" swaggertype:"string" example:"100"`
	Rate              decimal.Decimal `json:"rate" swaggertype:"string" example:"1.035"`
	ConvertedAmount   decimal.Decimal `json:"converted_amount" swaggertype:"string" example:"103.5"`
	ValuationDate     string          `json:"valuation_date" example:"2025-01-01"`
}

// Convert godoc
// @Summary Convert an amount
// @Description Convert an amount with today's rate, fetching it from the providers when it is not stored yet
// @Tags Rates
// @Produce json
// @Param source_currency query string true "Source currency code" example(EUR)
// @Param exchanged_currency query string true "Target currency code" example(USD)
// @Param amount query string true "Amount to convert" example(100)
// @Success 200 {object} ConvertResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /convert [get]
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := convertQuery{
		SourceCurrency:    strings.ToUpper(strings.TrimSpace(q.Get("source_currency"))),
		ExchangedCurrency: strings.ToUpper(strings.TrimSpace(q.Get("exchanged_currency"))),
		Amount:            strings.TrimSpace(q.Get("amount")),
	}
	if err := h.validator.Struct(query); err != nil {
		writeError(w, http.StatusBadRequest, "missing parameters")
		return
	}

	amount, err := decimal.NewFromString(query.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	if err = h.validator.ValidateCodes(query.SourceCurrency, query.ExchangedCurrency); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.service.Convert(r.Context(), query.SourceCurrency, query.ExchangedCurrency, amount)
	if err != nil {
		if errors.Is(err, domain.ErrCurrencyNotFound) {
			writeError(w, http.StatusNotFound, "currency not found")
			return
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"handler": "Convert",
			"source":  query.SourceCurrency,
			"target":  query.ExchangedCurrency,
		}).Error("conversion failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ConvertResponse{
		SourceCurrency:    conv.Source,
		ExchangedCurrency: conv.Target,
		Amount:            conv.Amount,
		Rate:              conv.Rate,
		ConvertedAmount:   conv.Converted,
		ValuationDate:     conv.ValuationDate.Format(domain.DateLayout),
	})
}
