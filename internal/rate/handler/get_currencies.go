package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

type CurrencyResponse struct {
	Code   string `json:"code" example:"EUR"`
	Name   string `json:"name" example:"Euro"`
	Symbol string `json:"symbol" example:"€"`
}

// GetCurrencies godoc
// @Summary List currencies
// @Description Retrieve all known currencies
// @Tags Currencies
// @Produce json
// @Success 200 {array} CurrencyResponse
// @Failure 500 {object} errorResponse
// @Router /currencies [get]
func (h *Handler) GetCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.service.Currencies(r.Context())
	if err != nil {
		msg := "ups, couldn't list currencies this time"
		logrus.WithError(err).WithField("handler", "GetCurrencies").Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	res := make([]CurrencyResponse, 0, len(currencies))
	for _, c := range currencies {
		res = append(res, CurrencyResponse{Code: c.Code, Name: c.Name, Symbol: c.Symbol})
	}
	writeJSON(w, http.StatusOK, res)
}
