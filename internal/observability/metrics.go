// Package observability exposes Prometheus metrics for the API.
package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	RecipesCreatedTotal  prometheus.Counter
	LikeTogglesTotal     *prometheus.CounterVec
	UsersRegisteredTotal prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics on a fresh
// registry, together with the Go and process collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recetario_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recetario_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		RecipesCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recetario_recipes_created_total",
			Help: "Total number of recipes created",
		}),
		LikeTogglesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recetario_like_toggles_total",
				Help: "Like toggles by resulting state",
			},
			[]string{"result"},
		),
		UsersRegisteredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recetario_users_registered_total",
			Help: "Total number of registered users",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RecipesCreatedTotal,
		m.LikeTogglesTotal,
		m.UsersRegisteredTotal,
	)
	return m
}

// ObserveLike records the outcome of a like toggle.
func (m *Metrics) ObserveLike(liked bool) {
	if m == nil {
		return
	}
	result := "unliked"
	if liked {
		result = "liked"
	}
	m.LikeTogglesTotal.WithLabelValues(result).Inc()
}

// ObserveRecipeCreated counts a created recipe.
func (m *Metrics) ObserveRecipeCreated() {
	if m == nil {
		return
	}
	m.RecipesCreatedTotal.Inc()
}

// ObserveRegistration counts a new user.
func (m *Metrics) ObserveRegistration() {
	if m == nil {
		return
	}
	m.UsersRegisteredTotal.Inc()
}

// Middleware records request count and latency. The route template is used
// as the path label so ids do not explode cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
