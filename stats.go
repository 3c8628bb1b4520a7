package cloudberry

import (
	"sync"
	"time"
)

// Stats is a point-in-time snapshot of a Handshake's counters. It gives
// callers that do not run a metrics backend a cheap view of handshake
// health.
type Stats struct {
	// Initiated is the number of outbound attempts started.
	Initiated int64

	// Accepted is the number of inbound attempts started.
	Accepted int64

	// Succeeded is the number of attempts that produced a Session.
	Succeeded int64

	// Failed is the number of attempts that returned an error.
	Failed int64

	// VersionMismatches counts failures caused by protocol version
	// disagreement, in either direction.
	VersionMismatches int64

	// SelfConnections counts inbound Hands rejected as reflected
	// self-dials.
	SelfConnections int64

	// LastSuccessAt is when a handshake last succeeded.
	LastSuccessAt time.Time
}

// statsCollector accumulates handshake counters under a mutex.
type statsCollector struct {
	mu    sync.Mutex
	stats Stats
}

func (s *statsCollector) initiated() {
	s.mu.Lock()
	s.stats.Initiated++
	s.mu.Unlock()
}

func (s *statsCollector) accepted() {
	s.mu.Lock()
	s.stats.Accepted++
	s.mu.Unlock()
}

func (s *statsCollector) succeeded() {
	s.mu.Lock()
	s.stats.Succeeded++
	s.stats.LastSuccessAt = time.Now()
	s.mu.Unlock()
}

func (s *statsCollector) failed(code ErrorCode) {
	s.mu.Lock()
	s.stats.Failed++
	switch code {
	case ErrCodeVersionMismatch:
		s.stats.VersionMismatches++
	case ErrCodeSelfConnection:
		s.stats.SelfConnections++
	}
	s.mu.Unlock()
}

// snapshot returns a copy of the current counters.
func (s *statsCollector) snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
