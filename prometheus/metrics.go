// Package prometheus provides a Prometheus implementation of the
// cloudberry.Metrics interface.
//
// All metrics use the configured namespace prefix (default: "cloudberry").
//
// # Counters
//
//	cloudberry_handshakes_total{direction="outbound|inbound",result="success|version_mismatch|self_connection|malformed|connection_error"}
//	cloudberry_nonces_generated_total
//	cloudberry_self_connections_detected_total
//	cloudberry_addresses_corrected_total
//
// # Histograms
//
//	cloudberry_handshake_duration_seconds{direction="outbound|inbound"}
//
// # Example Usage
//
//	import (
//	    "github.com/blockberries/cloudberry"
//	    prommetrics "github.com/blockberries/cloudberry/prometheus"
//	    "github.com/prometheus/client_golang/prometheus/promhttp"
//	)
//
//	func main() {
//	    metrics := prommetrics.NewMetrics("mynode")
//
//	    hs, err := cloudberry.New(cloudberry.NewConfig(
//	        cloudberry.WithMetrics(metrics),
//	    ))
//	    // ...
//
//	    http.Handle("/metrics", promhttp.Handler())
//	    http.ListenAndServe(":9090", nil)
//	}
package prometheus

import (
	"github.com/blockberries/cloudberry"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace is the default namespace for all metrics.
const DefaultNamespace = "cloudberry"

// Metrics implements the cloudberry.Metrics interface using Prometheus
// metrics.
//
// Metrics is safe for concurrent use.
type Metrics struct {
	handshakes        *prometheus.CounterVec
	handshakeDuration *prometheus.HistogramVec
	noncesGenerated   prometheus.Counter
	selfConnections   prometheus.Counter
	addrCorrections   prometheus.Counter
}

// Ensure Metrics implements cloudberry.Metrics.
var _ cloudberry.Metrics = (*Metrics)(nil)

// NewMetrics creates a new Prometheus metrics collector with the given
// namespace. If namespace is empty, DefaultNamespace ("cloudberry") is used.
//
// All metrics are registered with the default Prometheus registry; if
// registration fails (e.g. metrics already registered), this function
// panics. Use NewMetricsWithRegisterer with a custom registry to avoid
// panics.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWithRegisterer(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWithRegisterer creates a new Prometheus metrics collector with
// the given namespace and registerer. If registerer is nil, metrics are
// not registered automatically.
func NewMetricsWithRegisterer(namespace string, registerer prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m := &Metrics{
		handshakes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "handshakes_total",
				Help:      "Total number of handshake attempts by direction and result",
			},
			[]string{"direction", "result"},
		),
		handshakeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "handshake_duration_seconds",
				Help:      "Histogram of successful handshake durations",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"direction"},
		),
		noncesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nonces_generated_total",
			Help:      "Total number of nonces issued for outbound handshakes",
		}),
		selfConnections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "self_connections_detected_total",
			Help:      "Total number of inbound handshakes rejected as reflected self-dials",
		}),
		addrCorrections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "addresses_corrected_total",
			Help:      "Total number of advertised peer addresses corrected from the observed transport address",
		}),
	}

	if registerer != nil {
		registerer.MustRegister(
			m.handshakes,
			m.handshakeDuration,
			m.noncesGenerated,
			m.selfConnections,
			m.addrCorrections,
		)
	}

	return m
}

// HandshakeResult implements cloudberry.Metrics.HandshakeResult.
func (m *Metrics) HandshakeResult(direction, result string) {
	m.handshakes.WithLabelValues(direction, result).Inc()
}

// HandshakeDuration implements cloudberry.Metrics.HandshakeDuration.
func (m *Metrics) HandshakeDuration(direction string, seconds float64) {
	m.handshakeDuration.WithLabelValues(direction).Observe(seconds)
}

// NonceGenerated implements cloudberry.Metrics.NonceGenerated.
func (m *Metrics) NonceGenerated() {
	m.noncesGenerated.Inc()
}

// SelfConnectionDetected implements cloudberry.Metrics.SelfConnectionDetected.
func (m *Metrics) SelfConnectionDetected() {
	m.selfConnections.Inc()
}

// AddressCorrected implements cloudberry.Metrics.AddressCorrected.
func (m *Metrics) AddressCorrected() {
	m.addrCorrections.Inc()
}
