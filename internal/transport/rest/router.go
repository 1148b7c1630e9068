package rest

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/novelnest-inventory/internal/transport/middleware"
)

const banner = "NovelNest Inventory Service is running!"

// RouterDeps holds everything the HTTP surface is assembled from.
type RouterDeps struct {
	Books     *BookHandler
	Health    *HealthHandler
	Logger    *slog.Logger
	CORS      middleware.Middleware
	Auth      middleware.Middleware
	RateLimit middleware.Middleware // nil disables throttling
}

// NewRouter builds the service's HTTP handler. Health checks and metrics sit
// outside auth and rate limiting; the book API sits behind both.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(banner))
	})
	mux.HandleFunc("GET /live", d.Health.Live)
	mux.HandleFunc("GET /ready", d.Health.Ready)
	mux.HandleFunc("GET /health", d.Health.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	api := []middleware.Middleware{d.Auth}
	if d.RateLimit != nil {
		api = append([]middleware.Middleware{d.RateLimit}, api...)
	}
	protect := middleware.Chain(api...)

	mux.Handle("POST /api/books", protect(http.HandlerFunc(d.Books.Create)))
	mux.Handle("GET /api/books/{id}", protect(http.HandlerFunc(d.Books.Get)))
	mux.Handle("PUT /api/books/{id}", protect(http.HandlerFunc(d.Books.Update)))
	mux.Handle("DELETE /api/books/{id}", protect(http.HandlerFunc(d.Books.Delete)))

	return middleware.Chain(
		middleware.Recovery(d.Logger),
		middleware.RequestID,
		middleware.Logger(d.Logger),
		d.CORS,
	)(mux)
}
