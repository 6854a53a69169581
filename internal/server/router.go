package server

import (
	"net/http"

	"github.com/clearsight-ai/reportforge/internal/api"
	"github.com/clearsight-ai/reportforge/internal/api/handlers"
	"github.com/clearsight-ai/reportforge/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

// StoreTyper reports which vector index variant the service is running on.
type StoreTyper interface {
	StoreType() string
}

type RouterConfig struct {
	APIToken      string
	CorpusHandler *handlers.CorpusHandler
	ReportHandler *handlers.ReportHandler
	Store         StoreTyper
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		if cfg.Store != nil {
			status["store_type"] = cfg.Store.StoreType()
		}
		api.Success(w, http.StatusOK, status)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.BearerAuth(cfg.APIToken))

		r.Post("/corpus", cfg.CorpusHandler.Ingest)
		r.Post("/retrieve", cfg.CorpusHandler.Retrieve)

		r.Route("/reports", func(r chi.Router) {
			r.Post("/", cfg.ReportHandler.Generate)
			r.Get("/", cfg.ReportHandler.List)
			r.Get("/{id}", cfg.ReportHandler.Get)
		})

		r.Post("/gaps", cfg.ReportHandler.Gaps)
	})

	return r
}
