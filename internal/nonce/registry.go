// Package nonce provides the process-wide registry of handshake nonces
// used to detect a node connecting to itself.
package nonce

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"sync"
)

// Capacity is the maximum number of nonces the registry retains.
// Once full, each insertion evicts the oldest entry.
const Capacity = 100

// Registry is a bounded FIFO set of recently issued handshake nonces.
// One Registry is shared by every outbound handshake attempt of a node;
// an inbound Hand carrying a nonce still present in the registry can only
// be the node's own outbound attempt looped back to itself.
//
// All methods are safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	ring []uint64
	rng  io.Reader
}

// NewRegistry creates a registry drawing nonces from crypto/rand.
func NewRegistry() *Registry {
	return NewRegistryWithSource(rand.Reader)
}

// NewRegistryWithSource creates a registry drawing nonces from the given
// source. Tests use this to inject a deterministic sequence.
func NewRegistryWithSource(src io.Reader) *Registry {
	if src == nil {
		src = rand.Reader
	}
	return &Registry{
		ring: make([]uint64, 0, Capacity),
		rng:  src,
	}
}

// GenerateAndRegister draws a fresh random 64-bit nonce, appends it to the
// registry, and evicts the oldest entry if the registry exceeds Capacity.
// The nonce is never removed on handshake failure; entries age out purely
// through eviction.
func (r *Registry) GenerateAndRegister() uint64 {
	var buf [8]byte
	// crypto/rand.Read never fails on supported platforms; a short read
	// would leave zeroed high bytes, which is still a usable nonce.
	_, _ = io.ReadFull(r.rng, buf[:])
	n := binary.LittleEndian.Uint64(buf[:])

	r.mu.Lock()
	r.ring = append(r.ring, n)
	if len(r.ring) > Capacity {
		r.ring = r.ring[1:]
	}
	r.mu.Unlock()

	return n
}

// Contains reports whether the nonce is currently held. A call racing with
// an in-flight insertion may or may not observe it; the registry is a
// best-effort self-dial suppressor, not an ordering oracle.
func (r *Registry) Contains(n uint64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.ring {
		if v == n {
			return true
		}
	}
	return false
}

// Len returns the number of nonces currently held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ring)
}
