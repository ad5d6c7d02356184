// Package metrics exposes the Prometheus counters the service updates.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mani1234567sk/Frin-Backend/internal/apperr"
)

type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	GateBlocked      prometheus.Counter
	GateLookupErrors prometheus.Counter
	Dispatches       *prometheus.CounterVec
	DispatchedUnits  prometheus.Counter
	Notifications    *prometheus.CounterVec
	RemindersFired   *prometheus.CounterVec
}

// New registers every collector on a fresh registry, so tests can build as
// many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		GateBlocked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "maintenance_gate_blocked_total",
			Help: "Requests rejected because maintenance mode is active.",
		}),
		GateLookupErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "maintenance_gate_lookup_errors_total",
			Help: "Maintenance state lookups that failed and let the request through.",
		}),
		Dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_orders_total",
			Help: "Dispatch attempts by outcome.",
		}, []string{"outcome"}),
		DispatchedUnits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_units_total",
			Help: "Inventory units consumed by successful dispatches.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "maintenance_notifications_total",
			Help: "Maintenance emails by kind and result.",
		}, []string{"kind", "result"}),
		RemindersFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "maintenance_reminders_fired_total",
			Help: "Reminder timers that fired, split by whether they were late.",
		}, []string{"late"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.GateBlocked,
		m.GateLookupErrors,
		m.Dispatches,
		m.DispatchedUnits,
		m.Notifications,
		m.RemindersFired,
	)
	return m
}

// Middleware counts requests by their matched route pattern.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status, _ = apperr.Status(err)
		}

		route := c.Route().Path
		m.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

func result(ok bool) string {
	if ok {
		return "sent"
	}
	return "failed"
}

// NotificationSent records the outcome of one maintenance email.
func (m *Metrics) NotificationSent(kind string, ok bool) {
	m.Notifications.WithLabelValues(kind, result(ok)).Inc()
}
