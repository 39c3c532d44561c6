// Package metrics expone métricas Prometheus de la API y de los casos de uso.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/liga-formativa-api/internal/application/ports"
)

var _ ports.Metrics = (*Collector)(nil)

// Collector implementa ports.Metrics y registra además las peticiones HTTP.
type Collector struct {
	photos       *prometheus.CounterVec
	photoLatency prometheus.Histogram
	saves        *prometheus.CounterVec
	logins       *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// NewCollector crea las métricas y las registra en reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		photos: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "liga_photos_processed_total",
			Help: "Fotos procesadas por resultado",
		}, []string{"outcome"}),
		photoLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "liga_photo_processing_seconds",
			Help:    "Duración del pipeline de fotos (incluye la subida)",
			Buckets: prometheus.DefBuckets,
		}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "liga_records_saved_total",
			Help: "Escrituras por colección, operación y resultado",
		}, []string{"collection", "op", "outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "liga_login_attempts_total",
			Help: "Intentos de login por resultado",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "liga_http_requests_total",
			Help: "Peticiones HTTP por método, ruta y estado",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "liga_http_request_seconds",
			Help:    "Latencia de las peticiones HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(c.photos, c.photoLatency, c.saves, c.logins, c.httpRequests, c.httpLatency)
	return c
}

func (c *Collector) PhotoProcessed(outcome string, elapsed time.Duration) {
	c.photos.WithLabelValues(outcome).Inc()
	c.photoLatency.Observe(elapsed.Seconds())
}

func (c *Collector) RecordSaved(collection, op, outcome string) {
	c.saves.WithLabelValues(collection, op, outcome).Inc()
}

func (c *Collector) LoginAttempt(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// RecordHTTP route es el patrón registrado (/api/players/:id), no la URL concreta.
func (c *Collector) RecordHTTP(method, route string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler handler de scrape para gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
