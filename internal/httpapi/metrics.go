package httpapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// metrics holds the server's Prometheus instruments on a private
// registry, so multiple servers (tests included) never collide.
type metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	chatMessages    prometheus.Counter
	projectsCreated prometheus.Counter
	outlineLocks    prometheus.Counter
	assemblies      prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "architectd_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"method", "path", "status"}),
		chatMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "architectd_chat_messages_total",
			Help: "Total chat messages processed.",
		}),
		projectsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "architectd_projects_created_total",
			Help: "Total projects created.",
		}),
		outlineLocks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "architectd_outline_locks_total",
			Help: "Total outline lock operations.",
		}),
		assemblies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "architectd_assemblies_total",
			Help: "Total successful document assemblies.",
		}),
	}

	m.registry.MustRegister(
		m.requestDuration,
		m.chatMessages,
		m.projectsCreated,
		m.outlineLocks,
		m.assemblies,
		collectors.NewGoCollector(),
	)
	return m
}

// middleware records a duration observation per request, labeled by the
// route pattern rather than the raw URI to keep cardinality bounded.
func (m *metrics) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := c.Response().Status
		if httpErr, ok := err.(*echo.HTTPError); ok {
			status = httpErr.Code
		}
		m.requestDuration.WithLabelValues(
			c.Request().Method,
			c.Path(),
			strconv.Itoa(status),
		).Observe(time.Since(start).Seconds())
		return err
	}
}
