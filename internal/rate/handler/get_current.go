package handler

import (
	"errors"
	"fxsync/internal/domain"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CurrentRateResponse struct {
	Code      string          `json:"code" example:"USD"`
	Rate      decimal.Decimal `json:"rate" swaggertype:"string" example:"1312.5"`
	AsOf      string          `json:"as_of" example:"2024-03-08"`
	WrittenAt time.Time       `json:"written_at" example:"2024-03-08T14:30:00+09:00"`
}

type ListCurrentResponse struct {
	Rates []CurrentRateResponse `json:"rates"`
}

func toCurrentResponse(r domain.CurrentRate) CurrentRateResponse {
	return CurrentRateResponse{
		Code:      r.CurrencyCode,
		Rate:      r.Rate,
		AsOf:      r.AsOf.Format(domain.DateLayout),
		WrittenAt: r.WrittenAt,
	}
}

// ListCurrent godoc
// @Summary List current rates
// @Description Latest stored rate of every currency, as synced from Korea Eximbank
// @Tags Rates
// @Produce json
// @Success 200 {object} ListCurrentResponse
// @Failure 500 {object} errorResponse
// @Router /rates/current [get]
func (h *Handler) ListCurrent(w http.ResponseWriter, r *http.Request) {
	rates, err := h.service.ListCurrent(r.Context())
	if err != nil {
		msg := "ups, couldn't list current rates this time"
		logrus.WithError(err).WithField("handler", "ListCurrent").Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	res := ListCurrentResponse{Rates: make([]CurrentRateResponse, 0, len(rates))}
	for _, rate := range rates {
		res.Rates = append(res.Rates, toCurrentResponse(rate))
	}
	writeJSON(w, http.StatusOK, res)
}

// GetCurrentByCode godoc
// @Summary Get current rate
// @Description Latest stored rate for one currency code
// @Tags Rates
// @Produce json
// @Param code path string true "Currency code, e.g. USD or JPY(100)"
// @Success 200 {object} CurrentRateResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /rates/current/{code} [get]
func (h *Handler) GetCurrentByCode(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))

	if err := h.validator.ValidateCode(code); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rate, err := h.service.GetCurrent(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrRateNotFound) {
			writeError(w, http.StatusNotFound, "rate not found")
			return
		}
		msg := "ups, couldn't get current rate this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetCurrentByCode", "code": code}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, toCurrentResponse(rate))
}
