package api

import (
	_ "fxsync/docs"
	"fxsync/internal/rate/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(rateHandler *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	router.Route("/api/v1/rates", func(r chi.Router) {
		r.Get("/current", rateHandler.ListCurrent)
		r.Get("/current/{code}", rateHandler.GetCurrentByCode)
		r.Get("/history/{code}", rateHandler.GetHistoryByCode)
	})
	return router
}
