package cloudberry

import (
	"net/netip"
	"sync"
	"testing"

	"github.com/blockberries/cloudberry/pkg/wire"
)

// recordingMetrics captures every metrics call for assertions.
type recordingMetrics struct {
	mu              sync.Mutex
	results         map[string]int // direction + "/" + result
	durations       int
	nonces          int
	selfConnections int
	corrections     int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{results: make(map[string]int)}
}

var _ Metrics = (*recordingMetrics)(nil)

func (m *recordingMetrics) HandshakeResult(direction, result string) {
	m.mu.Lock()
	m.results[direction+"/"+result]++
	m.mu.Unlock()
}

func (m *recordingMetrics) HandshakeDuration(direction string, seconds float64) {
	m.mu.Lock()
	m.durations++
	m.mu.Unlock()
}

func (m *recordingMetrics) NonceGenerated() {
	m.mu.Lock()
	m.nonces++
	m.mu.Unlock()
}

func (m *recordingMetrics) SelfConnectionDetected() {
	m.mu.Lock()
	m.selfConnections++
	m.mu.Unlock()
}

func (m *recordingMetrics) AddressCorrected() {
	m.mu.Lock()
	m.corrections++
	m.mu.Unlock()
}

func (m *recordingMetrics) result(direction, result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results[direction+"/"+result]
}

func TestMetrics_SuccessfulHandshake(t *testing.T) {
	mA := newRecordingMetrics()
	mB := newRecordingMetrics()

	initiator := newTestHandshake(t, WithMetrics(mA))
	responder := newTestHandshake(t, WithMetrics(mB))

	connA, connB := newTestPair()
	res := connectAsync(initiator, 0, 100, netip.MustParseAddrPort("0.0.0.0:13414"), connA)

	if _, err := responder.Accept(0, 100, connB); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if r := <-res; r.err != nil {
		t.Fatalf("Connect: %v", r.err)
	}

	if got := mA.result(DirectionOutbound, ResultSuccess); got != 1 {
		t.Errorf("outbound success count = %d, want 1", got)
	}
	if mA.nonces != 1 {
		t.Errorf("nonce count = %d, want 1", mA.nonces)
	}
	if mA.durations != 1 {
		t.Errorf("duration observations = %d, want 1", mA.durations)
	}

	if got := mB.result(DirectionInbound, ResultSuccess); got != 1 {
		t.Errorf("inbound success count = %d, want 1", got)
	}
	// The unspecified advertised IP was corrected.
	if mB.corrections != 1 {
		t.Errorf("address corrections = %d, want 1", mB.corrections)
	}
}

func TestMetrics_SelfConnection(t *testing.T) {
	m := newRecordingMetrics()
	node := newTestHandshake(t, WithMetrics(m))

	n := node.nonces.GenerateAndRegister()

	connA, connB := newTestPair()
	hand := wire.Hand{Version: ProtocolVersion, Nonce: n, UserAgent: "alice/1.0"}
	hand.SetSenderAddr(initiatorAddr)
	if err := wire.NewMessageStream(connA).Send(&hand); err != nil {
		t.Fatalf("send hand: %v", err)
	}

	if _, err := node.Accept(0, 100, connB); err == nil {
		t.Fatal("Accept succeeded on a reflected nonce")
	}

	if m.selfConnections != 1 {
		t.Errorf("self connection count = %d, want 1", m.selfConnections)
	}
	if got := m.result(DirectionInbound, ResultSelfConnection); got != 1 {
		t.Errorf("inbound self_connection count = %d, want 1", got)
	}
}
