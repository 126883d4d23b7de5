package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core"
)

type metrics struct {
	outcomes        *prometheus.CounterVec
	syntheses       *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		outcomes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forge_install_outcomes_total",
				Help: "Installation outcomes by item kind and status",
			},
			[]string{"kind", "status"},
		),
		syntheses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forge_syntheses_total",
				Help: "Configuration synthesis runs by result",
			},
			[]string{"result"}, // written, unchanged, error
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forge_http_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"method", "route", "code"},
		),
	}
}

func (m *metrics) observeRequest(method, route string, code int, d time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(code)).Observe(d.Seconds())
}

func (m *metrics) observeApply(res *core.ApplyResult, err error) {
	switch {
	case err != nil:
		m.syntheses.WithLabelValues("error").Inc()
		return
	case res.Synthesis != nil && res.Synthesis.Unchanged:
		m.syntheses.WithLabelValues("unchanged").Inc()
	default:
		m.syntheses.WithLabelValues("written").Inc()
	}
	for _, o := range res.Outcomes {
		m.outcomes.WithLabelValues(string(o.Kind), string(o.Status)).Inc()
	}
}
