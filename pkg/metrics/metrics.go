package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics records cart activity and realtime channel health for the
// running client process.
type ClientMetrics struct {
	cartMutations  *prometheus.CounterVec
	realtimeEvents *prometheus.CounterVec
	realtimeState  prometheus.Gauge
}

// NewClientMetrics registers the client metrics on the provided registerer.
// A nil registerer yields a no-op instance, which keeps tests quiet.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	if reg == nil {
		return &ClientMetrics{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart store mutations by operation.",
	}, []string{"op"})
	realtimeEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_events_total",
		Help: "Realtime events received by event name.",
	}, []string{"event"})
	realtimeState := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "realtime_connected",
		Help: "Whether the realtime channel is currently connected.",
	})
	reg.MustRegister(cartMutations, realtimeEvents, realtimeState)
	return &ClientMetrics{
		cartMutations:  cartMutations,
		realtimeEvents: realtimeEvents,
		realtimeState:  realtimeState,
	}
}

// IncCartMutation increments the counter for the named cart operation.
func (m *ClientMetrics) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncRealtimeEvent increments the counter for the named event.
func (m *ClientMetrics) IncRealtimeEvent(event string) {
	if m == nil || m.realtimeEvents == nil {
		return
	}
	m.realtimeEvents.WithLabelValues(normalizeLabel(event)).Inc()
}

// SetRealtimeConnected flips the connection gauge.
func (m *ClientMetrics) SetRealtimeConnected(connected bool) {
	if m == nil || m.realtimeState == nil {
		return
	}
	if connected {
		m.realtimeState.Set(1)
		return
	}
	m.realtimeState.Set(0)
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
