package listing

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "formbuilder"

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rows     *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "listing",
			Name:      "requests_total",
			Help:      "Listing requests by route and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "listing",
			Name:      "request_duration_seconds",
			Help:      "Listing request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		rows: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "listing",
			Name:      "page_rows",
			Help:      "Rows returned per listing page.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}, []string{"route"}),
	}
	if reg == nil {
		return m
	}
	m.requests = register(reg, m.requests)
	m.duration = register(reg, m.duration)
	m.rows = register(reg, m.rows)
	return m
}

// register adds c to reg, reusing the collector already registered under the
// same name so several listings can share one registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

func (m *metrics) observe(route string, code int, rows int, started time.Time) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(route).Observe(time.Since(started).Seconds())
	if code == 200 {
		m.rows.WithLabelValues(route).Observe(float64(rows))
	}
}
