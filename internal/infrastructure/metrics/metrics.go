// Package metrics expone las métricas Prometheus del proceso.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/datasync"
)

var _ datasync.Metrics = (*Collector)(nil)

// Collector implementación Prometheus de datasync.Metrics más métricas HTTP.
type Collector struct {
	loads        *prometheus.CounterVec
	writeFails   *prometheus.CounterVec
	reverts      *prometheus.CounterVec
	httpStatus   *prometheus.CounterVec
	httpDuration prometheus.Histogram
}

// NewCollector crea el colector y registra sus métricas en reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autotrack_collection_loads_total",
			Help: "Cargas de colección por origen adoptado",
		}, []string{"collection", "source"}),
		writeFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autotrack_remote_write_failures_total",
			Help: "Escrituras remotas fallidas por operación",
		}, []string{"collection", "op"}),
		reverts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autotrack_edits_reverted_total",
			Help: "Ediciones optimistas revertidas por recarga",
		}, []string{"collection"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autotrack_http_responses_total",
			Help: "Respuestas HTTP por código de estado",
		}, []string{"status_code"}),
		httpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "autotrack_http_request_duration_seconds",
			Help:    "Latencia de las peticiones HTTP (segundos)",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.loads, c.writeFails, c.reverts, c.httpStatus, c.httpDuration)
	return c
}

// CollectionLoaded implementa datasync.Metrics.
func (c *Collector) CollectionLoaded(collection string, source datasync.Source) {
	c.loads.WithLabelValues(collection, string(source)).Inc()
}

// RemoteWriteFailed implementa datasync.Metrics.
func (c *Collector) RemoteWriteFailed(collection, op string) {
	c.writeFails.WithLabelValues(collection, op).Inc()
}

// EditReverted implementa datasync.Metrics.
func (c *Collector) EditReverted(collection string) {
	c.reverts.WithLabelValues(collection).Inc()
}

// RecordHTTP registra código y latencia de una petición.
func (c *Collector) RecordHTTP(statusCode int, duration time.Duration) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.httpDuration.Observe(duration.Seconds())
}

// Handler devuelve el handler de scrape de Prometheus.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
