package api

import (
	"log/slog"
	"net/http"
	"strconv"

	logging "github.com/adamanr/org_registry/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRequestCounter counts served requests by route pattern, method and status.
func NewRequestCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
}

// Metrics uses the matched route pattern as the path label so that keys in
// the URL do not create new series.
func Metrics(requests *prometheus.CounterVec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}
			requests.WithLabelValues(path, r.Method, strconv.Itoa(ww.Status())).Inc()
		})
	}
}

// NewRouter wires the registry server, request logging and metrics exported
// from gatherer on /metrics.
func NewRouter(server *Server, logger *slog.Logger, requests *prometheus.CounterVec, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(logging.Middleware(logger))
	r.Use(Metrics(requests))
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	server.Routes(r)

	return r
}
