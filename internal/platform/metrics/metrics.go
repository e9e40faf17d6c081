package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus instruments for the application.
type Metrics struct {
	RegistrationsTotal prometheus.Counter
	LoginsTotal        *prometheus.CounterVec
	GateRedirectsTotal prometheus.Counter
	CatalogWritesTotal *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// New creates and registers all instruments on reg. Pass a fresh registry in
// tests to avoid duplicate-registration panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RegistrationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "biblio_registrations_total",
			Help: "Total number of successful user registrations.",
		}),
		LoginsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "biblio_logins_total",
			Help: "Total number of login attempts by outcome.",
		}, []string{"outcome"}),
		GateRedirectsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "biblio_gate_redirects_total",
			Help: "Requests redirected to login by the authentication gate.",
		}),
		CatalogWritesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "biblio_catalog_writes_total",
			Help: "Catalog mutations by entity and operation.",
		}, []string{"entity", "op"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "biblio_http_request_duration_seconds",
			Help:    "HTTP request latency by method and status class.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}

func (m *Metrics) LoginSucceeded() { m.LoginsTotal.WithLabelValues("success").Inc() }
func (m *Metrics) LoginFailed()    { m.LoginsTotal.WithLabelValues("failure").Inc() }

// CatalogWrite records a create/update/delete against a catalog entity.
func (m *Metrics) CatalogWrite(entity, op string) {
	m.CatalogWritesTotal.WithLabelValues(entity, op).Inc()
}
