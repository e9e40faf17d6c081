// Package httptransport assembles the chi router: the shared middleware
// chain, the authentication gate, and the mounted feature handlers.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cataloghandler "biblio/internal/catalog/handler"
	identityhandler "biblio/internal/identity/handler"
	"biblio/internal/platform/metrics"
	"biblio/internal/platform/middleware"
	"biblio/internal/web"
)

// Deps carries everything the router needs; main builds it once.
type Deps struct {
	Identity *identityhandler.Handler
	Catalog  *cataloghandler.Handler
	Resolver middleware.SessionResolver
	Renderer *web.Renderer
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
	Timeout  time.Duration
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Timeout(d.Timeout))
	r.Use(middleware.Latency(d.Metrics))
	r.Use(middleware.RequireSession(d.Resolver, d.Logger, d.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	r.Handle("/static/*", web.StaticHandler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/catalog", http.StatusMovedPermanently)
	})
	r.Mount("/users", d.Identity.Routes())
	r.Mount("/catalog", d.Catalog.Routes())

	r.NotFound(d.Renderer.NotFound)
	return r
}
