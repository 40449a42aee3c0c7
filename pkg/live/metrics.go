package live

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the Prometheus metrics of one server.
type metrics struct {
	activeSessions prometheus.Gauge
	sessionsTotal  prometheus.Counter
	eventsTotal    *prometheus.CounterVec
	eventDuration  *prometheus.HistogramVec
	rendersTotal   prometheus.Counter
	diagnostics    *prometheus.CounterVec
	wsErrors       *prometheus.CounterVec
	reloadsTotal   prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vbind",
			Name:      "active_sessions",
			Help:      "Number of open live sessions",
		}),

		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vbind",
			Name:      "sessions_total",
			Help:      "Total number of live sessions started",
		}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vbind",
			Name:      "events_total",
			Help:      "Total number of client events processed",
		}, []string{"event", "status"}),

		eventDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vbind",
			Name:      "event_duration_seconds",
			Help:      "Time from receiving an event to sending the render",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event"}),

		rendersTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vbind",
			Name:      "renders_total",
			Help:      "Total number of renders sent to clients",
		}),

		diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vbind",
			Name:      "diagnostics_total",
			Help:      "Binding and runtime diagnostics by error code",
		}, []string{"code"}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vbind",
			Name:      "websocket_errors_total",
			Help:      "Total WebSocket errors by type",
		}, []string{"type"}),

		reloadsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vbind",
			Name:      "reloads_total",
			Help:      "Total number of accepted template reloads",
		}),
	}
}
