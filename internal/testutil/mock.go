// Package testutil provides in-memory connections for testing handshake
// flows without real sockets.
package testutil

import (
	"bytes"
	"io"
	"net"
	"sync"
)

// MockConn is an in-memory implementation of the handshake's Conn seam.
// It reads from one pipe, writes to another, reports a configurable fake
// remote address, records everything written, and supports error
// injection.
type MockConn struct {
	mu sync.Mutex

	reader io.Reader
	writer io.Writer

	remote net.Addr

	written bytes.Buffer

	readErr  error
	writeErr error
}

// NewPair creates two connected MockConns: everything written to one side
// is readable on the other. remoteA is the address the A side reports for
// its peer, remoteB likewise for the B side.
func NewPair(remoteA, remoteB net.Addr) (*MockConn, *MockConn) {
	aToB := newPipe()
	bToA := newPipe()

	a := &MockConn{reader: bToA, writer: aToB, remote: remoteA}
	b := &MockConn{reader: aToB, writer: bToA, remote: remoteB}
	return a, b
}

// NewConnFromBytes creates a MockConn whose read side yields exactly data
// and then EOF. Writes are recorded and discarded. Used to replay captured
// or fuzzed wire bytes into one handshake side.
func NewConnFromBytes(data []byte, remote net.Addr) *MockConn {
	return &MockConn{
		reader: bytes.NewReader(data),
		writer: io.Discard,
		remote: remote,
	}
}

// Read implements io.Reader with optional error injection.
func (c *MockConn) Read(p []byte) (int, error) {
	c.mu.Lock()
	err := c.readErr
	c.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return c.reader.Read(p)
}

// Write implements io.Writer, recording the bytes for later inspection.
func (c *MockConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	err := c.writeErr
	c.mu.Unlock()
	if err != nil {
		return 0, err
	}

	n, werr := c.writer.Write(p)

	c.mu.Lock()
	c.written.Write(p[:n])
	c.mu.Unlock()

	return n, werr
}

// RemoteAddr returns the configured fake remote address.
func (c *MockConn) RemoteAddr() net.Addr {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remote
}

// SetRemoteAddr changes the reported remote address. Setting nil makes the
// conn report no usable remote address.
func (c *MockConn) SetRemoteAddr(addr net.Addr) {
	c.mu.Lock()
	c.remote = addr
	c.mu.Unlock()
}

// SetReadError makes subsequent Reads fail with err.
func (c *MockConn) SetReadError(err error) {
	c.mu.Lock()
	c.readErr = err
	c.mu.Unlock()
}

// SetWriteError makes subsequent Writes fail with err.
func (c *MockConn) SetWriteError(err error) {
	c.mu.Lock()
	c.writeErr = err
	c.mu.Unlock()
}

// Written returns a copy of every byte written through this conn.
func (c *MockConn) Written() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, c.written.Len())
	copy(out, c.written.Bytes())
	return out
}

// TCPAddr builds a *net.TCPAddr for tests, panicking on bad input.
func TCPAddr(ip string, port int) *net.TCPAddr {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		panic("testutil: invalid IP " + ip)
	}
	return &net.TCPAddr{IP: parsed, Port: port}
}

// pipe is an unbounded in-memory byte queue. Unlike io.Pipe it never
// blocks writers, so a single goroutine can complete a whole send/receive
// round against itself.
type pipe struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    bytes.Buffer
	closed bool
}

func newPipe() *pipe {
	p := &pipe{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

func (p *pipe) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	n, _ := p.buf.Write(b)
	p.cond.Broadcast()
	return n, nil
}

func (p *pipe) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.buf.Len() == 0 && !p.closed {
		p.cond.Wait()
	}
	if p.buf.Len() == 0 {
		return 0, io.EOF
	}
	return p.buf.Read(b)
}

// Close ends the stream: pending and future reads see EOF once the buffer
// drains, writes fail immediately.
func (p *pipe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.cond.Broadcast()
	return nil
}

// CloseRead closes the read side of a MockConn's incoming pipe, if the
// reader is a pipe. Readers blocked in Read are released with EOF.
func (c *MockConn) CloseRead() {
	if p, ok := c.reader.(*pipe); ok {
		_ = p.Close()
	}
}
