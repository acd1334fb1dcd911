package api

import (
	"net/http"

	_ "fxhistory/docs"
	"fxhistory/internal/rate/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(rateHandler *handler.Handler, metricsHandler http.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	router.Handle("/metrics", metricsHandler)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/currencies", rateHandler.GetCurrencies)
		r.Get("/rates", rateHandler.GetRates)
		r.Get("/convert", rateHandler.Convert)
		r.Post("/backfill", rateHandler.StartBackfill)
	})
	return router
}
