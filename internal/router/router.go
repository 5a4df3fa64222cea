package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/actuallystonmai/watchlist-service/internal/handler"
)

func Setup(h *handler.Handler, logger *logrus.Logger, timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	// Routes
	r.Get("/health", healthCheck)

	r.Route("/watchlist", func(r chi.Router) {
		r.Get("/", h.ListEntries)
		r.Post("/", h.AddEntry)
		r.Route("/{entryID}", func(r chi.Router) {
			r.Get("/", h.GetEntry)
			r.Delete("/", h.DeleteEntry)
			r.Post("/watched", h.MarkWatched)
			r.Get("/providers", h.GetProviders)
		})
	})

	r.Get("/catalog/search", h.SearchCatalog)

	return r
}

func requestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
			}).Info("request")
		})
	}
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
