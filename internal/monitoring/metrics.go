package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every stockroom collector. It is separate from the
// client library's default registry so tests and embedders start clean.
var Registry = prometheus.NewRegistry()

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockroom_http_requests_total",
			Help: "Total number of HTTP requests by method, route pattern and status code.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockroom_http_request_duration_seconds",
			Help:    "Latency of HTTP request handling in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	productMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockroom_product_mutations_total",
			Help: "Total number of product create, update and delete attempts by result.",
		},
		[]string{"operation", "result"},
	)

	authEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockroom_auth_events_total",
			Help: "Total number of registration, login and logout attempts by result.",
		},
		[]string{"event", "result"},
	)

	lowStockProducts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stockroom_inventory_low_stock_products",
			Help: "Number of products below the low-stock threshold at the last full listing.",
		},
	)
)

func init() {
	Registry.MustRegister(Collectors()...)
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Collectors returns all stockroom metric collectors. This is useful for
// testing that metrics are properly registered.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		httpRequestsTotal,
		httpRequestDuration,
		productMutationsTotal,
		authEventsTotal,
		lowStockProducts,
	}
}

// Handler serves Registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
