package cloudberry

// Metrics defines the metrics collection interface for Cloudberry.
// It is designed to be compatible with Prometheus and other metrics
// systems; see the prometheus subpackage for a ready-made implementation.
//
// Implementations must be safe for concurrent use.
//
// Metric naming convention:
//   - Counters: <name>_total (e.g., handshakes_total)
//   - Histograms: <name>_seconds (e.g., handshake_duration_seconds)
type Metrics interface {
	// HandshakeResult records the outcome of a handshake attempt.
	// Labels: direction (outbound, inbound), result (success,
	// version_mismatch, self_connection, malformed, connection_error)
	HandshakeResult(direction, result string)

	// HandshakeDuration records the duration of a successful handshake.
	HandshakeDuration(direction string, seconds float64)

	// NonceGenerated increments when an outbound attempt registers a
	// fresh nonce.
	NonceGenerated()

	// SelfConnectionDetected increments when an inbound Hand reflects one
	// of our own nonces.
	SelfConnectionDetected()

	// AddressCorrected increments when the responder replaces a
	// loopback or unspecified advertised IP with the observed one.
	AddressCorrected()
}

// Handshake result label values reported through Metrics.
const (
	ResultSuccess         = "success"
	ResultVersionMismatch = "version_mismatch"
	ResultSelfConnection  = "self_connection"
	ResultMalformed       = "malformed"
	ResultConnectionError = "connection_error"
)

// Direction label values reported through Metrics.
const (
	DirectionOutbound = "outbound"
	DirectionInbound  = "inbound"
)

// NopMetrics is a no-op metrics implementation that discards all metrics.
// It is the default when no metrics collector is configured.
type NopMetrics struct{}

// Ensure NopMetrics implements Metrics.
var _ Metrics = NopMetrics{}

// HandshakeResult implements Metrics.HandshakeResult (no-op).
func (NopMetrics) HandshakeResult(direction, result string) {}

// HandshakeDuration implements Metrics.HandshakeDuration (no-op).
func (NopMetrics) HandshakeDuration(direction string, seconds float64) {}

// NonceGenerated implements Metrics.NonceGenerated (no-op).
func (NopMetrics) NonceGenerated() {}

// SelfConnectionDetected implements Metrics.SelfConnectionDetected (no-op).
func (NopMetrics) SelfConnectionDetected() {}

// AddressCorrected implements Metrics.AddressCorrected (no-op).
func (NopMetrics) AddressCorrected() {}
