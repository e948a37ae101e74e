package websocket

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/wricardo/mcp-training/guessgame/game/service"
)

// Metrics holds the Prometheus collectors for the guess socket
type Metrics struct {
	connectionsTotal  prometheus.Counter
	activeConnections prometheus.Gauge
	repliesTotal      *prometheus.CounterVec
	messageDuration   prometheus.Histogram
	errorsTotal       *prometheus.CounterVec
}

// NewMetrics registers collectors on reg. A nil reg yields unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		connectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "guessgame",
			Name:      "connections_total",
			Help:      "Total number of accepted guess connections",
		}),
		activeConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "guessgame",
			Name:      "active_connections",
			Help:      "Number of open guess connections",
		}),
		repliesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guessgame",
			Name:      "replies_total",
			Help:      "Replies sent to clients by outcome",
		}, []string{"outcome"}),
		messageDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "guessgame",
			Name:      "message_duration_seconds",
			Help:      "Time spent handling one client message",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guessgame",
			Name:      "websocket_errors_total",
			Help:      "WebSocket errors by type",
		}, []string{"type"}),
	}
}

func (m *Metrics) opened() {
	m.connectionsTotal.Inc()
	m.activeConnections.Inc()
}

func (m *Metrics) closed() {
	m.activeConnections.Dec()
}

func (m *Metrics) reply(outcome service.Outcome) {
	m.repliesTotal.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) fail(kind string) {
	m.errorsTotal.WithLabelValues(kind).Inc()
}
