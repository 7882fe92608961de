// Package observability expone métricas Prometheus del proceso: peticiones
// al backend de métricas y sesiones abiertas.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/sites-hotels-dashboard/internal/application/metrics"
)

var _ metrics.Recorder = (*Collectors)(nil)

// Collectors métricas de la BFF registradas en un registry propio.
type Collectors struct {
	registry *prometheus.Registry
	inFlight prometheus.Gauge
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollectors crea y registra los collectors. sessions se consulta en cada
// scrape para el gauge de sesiones abiertas; puede ser nil.
func NewCollectors(namespace string, sessions func() int) *Collectors {
	reg := prometheus.NewRegistry()
	c := &Collectors{
		registry: reg,
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backend_requests_in_flight",
			Help:      "Peticiones de métricas al backend en curso.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Peticiones de métricas al backend por resultado (success, failure, stale).",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Duración de las peticiones de métricas al backend.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		c.inFlight, c.requests, c.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if sessions != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_open",
			Help:      "Sesiones de tablero abiertas.",
		}, func() float64 { return float64(sessions()) }))
	}
	return c
}

func (c *Collectors) RequestStarted() { c.inFlight.Inc() }

func (c *Collectors) RequestFinished(outcome string, elapsed time.Duration) {
	c.inFlight.Dec()
	c.requests.WithLabelValues(outcome).Inc()
	c.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// Handler endpoint /metrics en formato de exposición de Prometheus.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry registry subyacente (tests).
func (c *Collectors) Registry() *prometheus.Registry { return c.registry }
