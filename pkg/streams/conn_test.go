package streams

import (
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn implements Conn with a configurable remote address.
type fakeConn struct {
	remote net.Addr
}

func (fakeConn) Read([]byte) (int, error)    { return 0, nil }
func (fakeConn) Write(b []byte) (int, error) { return len(b), nil }
func (c fakeConn) RemoteAddr() net.Addr      { return c.remote }

// strAddr is a net.Addr with an arbitrary string form.
type strAddr string

func (strAddr) Network() string  { return "test" }
func (a strAddr) String() string { return string(a) }

func TestRemoteAddrPort_TCP(t *testing.T) {
	conn := fakeConn{remote: &net.TCPAddr{IP: net.ParseIP("198.51.100.7"), Port: 13414}}

	got, err := RemoteAddrPort(conn)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddrPort("198.51.100.7:13414"), got)
}

func TestRemoteAddrPort_TCPMappedV4(t *testing.T) {
	// net.ParseIP stores IPv4 in 16-byte form; the result must unmap to
	// plain IPv4 so address comparisons work.
	conn := fakeConn{remote: &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 9}}

	got, err := RemoteAddrPort(conn)
	require.NoError(t, err)
	assert.True(t, got.Addr().Is4(), "address not unmapped: %v", got)
}

func TestRemoteAddrPort_UDP(t *testing.T) {
	conn := fakeConn{remote: &net.UDPAddr{IP: net.ParseIP("2001:db8::1"), Port: 13414}}

	got, err := RemoteAddrPort(conn)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddrPort("[2001:db8::1]:13414"), got)
}

func TestRemoteAddrPort_GenericAddr(t *testing.T) {
	conn := fakeConn{remote: strAddr("203.0.113.5:7000")}

	got, err := RemoteAddrPort(conn)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddrPort("203.0.113.5:7000"), got)
}

func TestRemoteAddrPort_NilAddr(t *testing.T) {
	_, err := RemoteAddrPort(fakeConn{})
	assert.ErrorIs(t, err, ErrNoRemoteAddr)
}

func TestRemoteAddrPort_UnparseableAddr(t *testing.T) {
	_, err := RemoteAddrPort(fakeConn{remote: strAddr("/p2p-circuit")})
	assert.ErrorIs(t, err, ErrNoRemoteAddr)
}

func TestConnSatisfiedByNetConn(t *testing.T) {
	// *net.TCPConn must satisfy the seam without adapters.
	var _ Conn = (*net.TCPConn)(nil)
}
