package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fxhistory/internal/backfill"
	"fxhistory/internal/domain"
	"net/http"

	"github.com/sirupsen/logrus"
)

type StartBackfillRequest struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02" example:"2025-01-01"`
	End   string `json:"end" validate:"required,datetime=2006-01-02" example:"2025-01-31"`
}

type StartBackfillResponse struct {
	RunID string `json:"run_id" example:"8f14e45f-ceea-4e6b-a5b0-52f1c2e2d7a3"`
}

// StartBackfill godoc
// @Summary Start a historical backfill
// @Description Fetch and store every missing rate between start and end. The run continues in the background.
// @Tags Backfill
// @Accept json
// @Produce json
// @Param request body StartBackfillRequest true "Date range"
// @Success 202 {object} StartBackfillResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /backfill [post]
func (h *Handler) StartBackfill(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 256)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req StartBackfillRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start, end, err := backfill.ParseRange(req.Start, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// the run outlives the request
	runID, err := h.backfill.Start(context.WithoutCancel(r.Context()), start, end)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBackfillRunning):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, domain.ErrInvalidDateRange):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			logrus.WithError(err).WithFields(logrus.Fields{"handler": "StartBackfill", "start": req.Start, "end": req.End}).Error("backfill wasn't started")
			writeError(w, http.StatusInternalServerError, "failed to start backfill")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, StartBackfillResponse{RunID: runID})
}
