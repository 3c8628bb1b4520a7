package streams

import (
	"net"

	"github.com/libp2p/go-libp2p/core/network"
	"github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"
)

// libp2pConn adapts a libp2p network.Stream to the Conn seam so a libp2p
// host can run the handshake without a separate socket.
type libp2pConn struct {
	network.Stream
}

// WrapStream adapts a libp2p stream into a handshake Conn. The remote
// address is derived from the stream's remote multiaddr; multiaddrs
// without an IP transport (e.g. relay circuits) yield a nil RemoteAddr,
// which the handshake reports as a connection error.
func WrapStream(s network.Stream) Conn {
	return &libp2pConn{Stream: s}
}

// RemoteAddr converts the remote multiaddr to a net.Addr.
func (c *libp2pConn) RemoteAddr() net.Addr {
	return multiaddrToNetAddr(c.Stream.Conn().RemoteMultiaddr())
}

func multiaddrToNetAddr(ma multiaddr.Multiaddr) net.Addr {
	if ma == nil {
		return nil
	}
	addr, err := manet.ToNetAddr(ma)
	if err != nil {
		return nil
	}
	return addr
}
