package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebSocketConnections tracks the number of open websocket connections per hub.
	WebSocketConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of open websocket connections",
		},
		[]string{"hub"},
	)

	// WebSocketBackpressureDrops counts messages dropped because a client's
	// send buffer was full or its channel closed.
	WebSocketBackpressureDrops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_backpressure_drops_total",
			Help: "Total messages dropped due to client backpressure",
		},
		[]string{"hub", "reason"},
	)
)
