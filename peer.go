package cloudberry

import (
	"net/netip"

	"github.com/blockberries/cloudberry/pkg/protocol"
	"github.com/blockberries/cloudberry/pkg/streams"
	"github.com/blockberries/cloudberry/pkg/wire"
)

// PeerInfo is the durable descriptor of a successfully handshaken peer,
// handed to the rest of the node. It is constructed once per handshake
// and not mutated afterward.
type PeerInfo struct {
	// Capabilities is the peer's advertised feature bit-set, opaque to
	// the handshake.
	Capabilities wire.Capabilities

	// UserAgent is the peer's client identifier string.
	UserAgent string

	// Addr is the peer's resolved network address. On the initiator side
	// it is the transport-observed address of the connection; on the
	// responder side it is the ExtractIP-corrected advertised address.
	Addr netip.AddrPort

	// Version is the negotiated protocol version.
	Version uint32

	// TotalDifficulty is the peer's advertised cumulative chain work.
	TotalDifficulty wire.Difficulty
}

// Session is the product of a successful handshake: the connection (ready
// for application traffic), the protocol handler selected for the
// negotiated version, and the peer descriptor.
type Session struct {
	// Conn is the connection the handshake ran on. Application messages
	// flow over it next.
	Conn streams.Conn

	// Protocol is the handler selected for the negotiated version.
	Protocol protocol.Protocol

	// Peer describes the remote node.
	Peer PeerInfo
}
