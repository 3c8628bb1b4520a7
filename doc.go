/*
Package cloudberry negotiates the connection-establishment handshake
between blockchain peers.

Cloudberry turns a raw bidirectional byte stream into an agreed protocol
version, exchanged capability sets, a chain-difficulty advertisement, and
a validated peer descriptor — before any application message flows. The
transport that produced the stream, the retry policy around it, and the
protocol spoken afterwards all stay with the caller.

# The exchange

The handshake is two messages. The dialing node sends a Hand: protocol
version, capability bit-set, a fresh random nonce, its cumulative chain
difficulty, its own advertised address, the address it observed for the
peer, and a user agent string. The accepting node validates it, replies
with a Shake carrying its own version, capabilities, difficulty, and user
agent, and both sides emerge with a PeerInfo describing the other.

Two defenses run on the accepting side:

  - Self-connection detection. Every outbound Hand registers its nonce in
    a bounded process-wide registry. An inbound Hand whose nonce is still
    registered can only be this node's own dial looped back via loopback
    routing or NAT hairpinning, and is dropped without a reply.
  - Address correction. A peer advertising a loopback or all-zero IP gets
    the transport-observed IP substituted, keeping the advertised port,
    which recovers a dialable address for NATed and misconfigured hosts.

Suspicious and malformed inbound handshakes are answered with silence
rather than an explicit rejection, so probing peers learn nothing from
the failure mode.

# Quick Start

Create one Handshake per node and share it across all connections:

	hs, err := cloudberry.New(cloudberry.NewConfig(
		cloudberry.WithUserAgent("mynode/1.4.0"),
	))
	if err != nil {
		// Handle error
	}

Outbound, after dialing:

	conn, _ := net.Dial("tcp", peerAddr)
	conn.SetDeadline(time.Now().Add(10 * time.Second))

	sess, err := hs.Connect(capabilities, totalDifficulty, selfAddr, conn)
	if err != nil {
		conn.Close() // the caller owns the connection on failure
		return err
	}

Inbound, after accepting:

	conn, _ := listener.Accept()
	conn.SetDeadline(time.Now().Add(10 * time.Second))

	sess, err := hs.Accept(capabilities, totalDifficulty, conn)
	if err != nil {
		conn.Close()
		return err
	}

	fmt.Println("peer:", sess.Peer.Addr, sess.Peer.UserAgent)

A libp2p stream works the same way via the streams adapter:

	sess, err := hs.Accept(capabilities, totalDifficulty, streams.WrapStream(s))

# Timeouts and cancellation

Cloudberry applies no timeouts, retries, or backoff of its own. Arm
deadlines on the connection before calling Connect or Accept, and close
the connection to abort a stuck handshake; the registered nonce is not
retracted — registry entries age out by capacity eviction alone.

# Errors

All failures are terminal for the attempt and typed: inspect the
ErrorCode (or compare against the sentinel errors with errors.Is) to
distinguish transport failures, version mismatches, reflected
self-connections, and malformed input. Version mismatches carry the
expected and received version bytes; self-connection and malformed
errors deliberately carry no payload.

# Observability

Pass a Logger to see one debug line per completed handshake, and a
Metrics implementation to count results and durations; the prometheus
subpackage provides one. The otel subpackage traces handshake spans for
applications that want distributed tracing around their dial paths.

# Dependencies

  - github.com/blockberries/cramberry - Binary wire serialization
  - github.com/libp2p/go-libp2p - Optional stream adapter
  - github.com/prometheus/client_golang - Optional metrics adapter
  - go.opentelemetry.io/otel - Optional tracing adapter

# See Also

  - examples/basic - Two nodes handshaking over TCP loopback
*/
package cloudberry
