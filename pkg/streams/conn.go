// Package streams defines the connection seam between the handshake and
// the transport layer that owns the sockets.
package streams

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/netip"
)

// Conn is the minimal surface the handshake needs from an established
// connection: a bidirectional byte stream plus the transport-observed
// remote address. *net.TCPConn and every other net.Conn satisfy it.
//
// The handshake never closes a Conn and never sets deadlines on it; both
// remain the caller's responsibility.
type Conn interface {
	io.Reader
	io.Writer

	// RemoteAddr returns the transport-observed address of the remote end.
	RemoteAddr() net.Addr
}

// ErrNoRemoteAddr indicates the connection could not report a usable
// remote transport address.
var ErrNoRemoteAddr = errors.New("connection has no usable remote address")

// RemoteAddrPort extracts the remote transport address of conn as a
// netip.AddrPort. TCP and UDP addresses convert directly; any other
// net.Addr is parsed from its string form.
func RemoteAddrPort(conn Conn) (netip.AddrPort, error) {
	addr := conn.RemoteAddr()
	if addr == nil {
		return netip.AddrPort{}, ErrNoRemoteAddr
	}

	switch a := addr.(type) {
	case *net.TCPAddr:
		return unmapAddrPort(a.AddrPort()), nil
	case *net.UDPAddr:
		return unmapAddrPort(a.AddrPort()), nil
	}

	ap, err := netip.ParseAddrPort(addr.String())
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("%w: %q: %v", ErrNoRemoteAddr, addr.String(), err)
	}
	return unmapAddrPort(ap), nil
}

// unmapAddrPort strips any IPv4-mapped IPv6 prefix from the address part.
func unmapAddrPort(ap netip.AddrPort) netip.AddrPort {
	return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
}
