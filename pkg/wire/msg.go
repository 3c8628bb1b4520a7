// Package wire defines the handshake wire messages and their framing
// for Cloudberry peer negotiation.
//
// Messages are serialized with Cramberry and exchanged as length-delimited
// frames. The package treats capabilities and difficulty as opaque values:
// they are carried and stored, never interpreted.
package wire

import (
	"fmt"
	"net/netip"
)

// Capabilities is an opaque bit-set describing the features a peer
// supports. The handshake transmits and stores it without interpreting
// any bit; the helpers below exist for applications.
type Capabilities uint32

// Has reports whether every bit of other is set in c.
func (c Capabilities) Has(other Capabilities) bool {
	return c&other == other
}

// String returns the bit-set in hexadecimal form.
func (c Capabilities) String() string {
	return fmt.Sprintf("0x%08x", uint32(c))
}

// Difficulty is a peer's advertised cumulative chain work. It is an
// opaque, totally-ordered value from the handshake's point of view.
type Difficulty uint64

// Cmp compares two difficulties: -1 if d < other, 0 if equal, 1 if greater.
func (d Difficulty) Cmp(other Difficulty) int {
	switch {
	case d < other:
		return -1
	case d > other:
		return 1
	default:
		return 0
	}
}

// Hand is the first handshake message, sent by the connection initiator.
// Socket addresses are flattened into IP-bytes/port field pairs; use the
// accessor methods rather than touching the raw fields.
type Hand struct {
	Version         uint32       `cramberry:"1,required"`
	Capabilities    Capabilities `cramberry:"2"`
	Nonce           uint64       `cramberry:"3"`
	TotalDifficulty Difficulty   `cramberry:"4"`
	SenderIP        []byte       `cramberry:"5"`
	SenderPort      uint32       `cramberry:"6"`
	ReceiverIP      []byte       `cramberry:"7"`
	ReceiverPort    uint32       `cramberry:"8"`
	UserAgent       string       `cramberry:"9"`
}

// Shake is the handshake reply, sent by the responder.
type Shake struct {
	Version         uint32       `cramberry:"1,required"`
	Capabilities    Capabilities `cramberry:"2"`
	TotalDifficulty Difficulty   `cramberry:"3"`
	UserAgent       string       `cramberry:"4"`
}

// SetSenderAddr stores addr in the sender IP/port fields.
func (h *Hand) SetSenderAddr(addr netip.AddrPort) {
	h.SenderIP, h.SenderPort = encodeAddr(addr)
}

// SetReceiverAddr stores addr in the receiver IP/port fields.
func (h *Hand) SetReceiverAddr(addr netip.AddrPort) {
	h.ReceiverIP, h.ReceiverPort = encodeAddr(addr)
}

// SenderAddr returns the advertised sender address.
func (h *Hand) SenderAddr() (netip.AddrPort, error) {
	return decodeAddr(h.SenderIP, h.SenderPort)
}

// ReceiverAddr returns the advertised receiver address.
func (h *Hand) ReceiverAddr() (netip.AddrPort, error) {
	return decodeAddr(h.ReceiverIP, h.ReceiverPort)
}

func encodeAddr(addr netip.AddrPort) ([]byte, uint32) {
	ip := addr.Addr().AsSlice()
	return ip, uint32(addr.Port())
}

func decodeAddr(ip []byte, port uint32) (netip.AddrPort, error) {
	a, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.AddrPort{}, fmt.Errorf("invalid IP length %d", len(ip))
	}
	if port > 0xffff {
		return netip.AddrPort{}, fmt.Errorf("port %d out of range", port)
	}
	return netip.AddrPortFrom(a.Unmap(), uint16(port)), nil
}
