package handler

import (
	"context"
	"encoding/json"
	"fxsync/internal/domain"
	"net/http"
	"time"
)

type Validator interface {
	ValidateCode(code string) error
	ValidateRange(rawFrom, rawTo string) (time.Time, time.Time, error)
}

type Service interface {
	ListCurrent(ctx context.Context) ([]domain.CurrentRate, error)
	GetCurrent(ctx context.Context, code string) (domain.CurrentRate, error)
	GetHistory(ctx context.Context, code string, from, to time.Time) ([]domain.HistoricalRate, error)
}

type Handler struct {
	validator Validator
	service   Service
}

func NewRateHandler(validator Validator, service Service) *Handler {
	return &Handler{validator: validator, service: service}
}

type errorResponse struct {
	Error string `json:"error" example:"rate not found"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{Error: errorMsg})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
