package handler

import (
	"fxsync/internal/domain"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type HistoryPoint struct {
	Date string          `json:"date" example:"2024-03-08"`
	Rate decimal.Decimal `json:"rate" swaggertype:"string" example:"1312.5"`
}

type HistoryResponse struct {
	Code   string         `json:"code" example:"USD"`
	From   string         `json:"from" example:"2024-02-07"`
	To     string         `json:"to" example:"2024-03-08"`
	Points []HistoryPoint `json:"points"`
}

// GetHistoryByCode godoc
// @Summary Get rate history
// @Description Recorded daily rates for one currency, oldest first. Defaults to the last 30 days.
// @Tags Rates
// @Produce json
// @Param code path string true "Currency code, e.g. USD or JPY(100)"
// @Param from query string false "First date, YYYY-MM-DD"
// @Param to query string false "Last date, YYYY-MM-DD"
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /rates/history/{code} [get]
func (h *Handler) GetHistoryByCode(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))

	if err := h.validator.ValidateCode(code); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, to, err := h.validator.ValidateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	history, err := h.service.GetHistory(r.Context(), code, from, to)
	if err != nil {
		msg := "ups, couldn't get rate history this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetHistoryByCode", "code": code}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	res := HistoryResponse{
		Code:   code,
		From:   from.Format(domain.DateLayout),
		To:     to.Format(domain.DateLayout),
		Points: make([]HistoryPoint, 0, len(history)),
	}
	for _, p := range history {
		res.Points = append(res.Points, HistoryPoint{Date: p.RecordDate.Format(domain.DateLayout), Rate: p.Rate})
	}
	writeJSON(w, http.StatusOK, res)
}
