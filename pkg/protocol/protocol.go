// Package protocol selects the application protocol that runs on a
// connection once the handshake has negotiated a version.
//
// Today exactly one version exists, so the registry holds a single entry.
// When a second protocol version ships, its constructor is registered here
// and the handshake keeps choosing by negotiated version — no other code
// branches on the version value.
package protocol

import (
	"errors"
	"fmt"
	"sync"
)

// Protocol is the application-level message protocol spoken after a
// successful handshake. Cloudberry only selects it; driving it is the
// caller's job.
type Protocol interface {
	// Version returns the wire protocol version this implementation speaks.
	Version() uint32

	// Name returns a human-readable protocol name for logs.
	Name() string
}

// Constructor creates a fresh Protocol instance for one connection.
type Constructor func() Protocol

// Sentinel errors for registry operations.
var (
	// ErrUnsupportedVersion indicates no protocol is registered for the
	// requested version.
	ErrUnsupportedVersion = errors.New("unsupported protocol version")

	// ErrVersionRegistered indicates a constructor is already registered
	// for the version.
	ErrVersionRegistered = errors.New("protocol version already registered")
)

// Registry maps negotiated protocol versions to protocol constructors.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	ctors map[uint32]Constructor
}

// NewRegistry creates a registry pre-populated with the V1 protocol.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	r.ctors[VersionV1] = func() Protocol { return NewV1() }
	return r
}

// NewEmptyRegistry creates a registry with no protocols. Callers building
// a custom version stack register every constructor themselves.
func NewEmptyRegistry() *Registry {
	return &Registry{ctors: make(map[uint32]Constructor)}
}

// Register adds a constructor for a protocol version.
func (r *Registry) Register(version uint32, ctor Constructor) error {
	if ctor == nil {
		return fmt.Errorf("nil constructor for version %d", version)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ctors[version]; ok {
		return fmt.Errorf("%w: %d", ErrVersionRegistered, version)
	}
	r.ctors[version] = ctor
	return nil
}

// New constructs a protocol instance for the negotiated version. The
// handshake calls this exactly once per successful negotiation.
func (r *Registry) New(version uint32) (Protocol, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[version]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	return ctor(), nil
}

// Supports reports whether a constructor is registered for the version.
func (r *Registry) Supports(version uint32) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ctors[version]
	return ok
}
