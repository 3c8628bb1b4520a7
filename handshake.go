package cloudberry

import (
	"net/netip"
	"time"

	"github.com/blockberries/cloudberry/internal/handshake"
	"github.com/blockberries/cloudberry/internal/nonce"
	"github.com/blockberries/cloudberry/pkg/streams"
	"github.com/blockberries/cloudberry/pkg/wire"
)

// Handshake negotiates protocol version, capabilities, and chain
// difficulty when two peers connect, and decides which protocol the
// connection will speak.
//
// One Handshake is created per node and shared by every connection
// attempt: the nonce registry it owns is what lets a node recognize its
// own outbound Hand coming back at it through loopback routing or NAT
// hairpinning, without requiring a stable node identifier.
//
// Connect and Accept are safe for concurrent use from any number of
// goroutines, one call per connection. Neither applies timeouts or
// retries; arm deadlines on the connection before calling, and close the
// connection yourself when a handshake returns an error.
type Handshake struct {
	cfg    *Config
	nonces *nonce.Registry
	stats  statsCollector
}

// New creates a Handshake with the given configuration.
// A nil cfg is equivalent to NewConfig().
func New(cfg *Config) (*Handshake, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &Handshake{
		cfg:    cfg,
		nonces: nonce.NewRegistry(),
	}, nil
}

// Stats returns a snapshot of the handshake counters.
func (h *Handshake) Stats() Stats {
	return h.stats.snapshot()
}

// Connect drives the outbound side of the handshake on an established
// connection: it sends a Hand advertising capab, totalDifficulty, and
// selfAddr (the address this node believes peers can reach it at), awaits
// the Shake reply, and validates the negotiated version.
//
// On success the returned Session carries the connection, a protocol
// handler for the negotiated version, and the peer's descriptor; the
// peer's address in it is the transport-observed one. On failure the
// connection is left open for the caller to close, and the nonce
// registered for the attempt stays in the registry — it exists for
// detection, not accounting.
func (h *Handshake) Connect(
	capab wire.Capabilities,
	totalDifficulty wire.Difficulty,
	selfAddr netip.AddrPort,
	conn streams.Conn,
) (*Session, error) {
	tracker := handshake.NewTracker()
	h.stats.initiated()

	peerAddr, err := streams.RemoteAddrPort(conn)
	if err != nil {
		return nil, h.fail(tracker, DirectionOutbound,
			NewErrorWithCause(ErrCodeConnection, "determine remote address", err))
	}

	n := h.nonces.GenerateAndRegister()
	h.cfg.Metrics.NonceGenerated()

	h.cfg.Logger.Debug("starting outbound handshake",
		"nonce", n,
		"sender", selfAddr,
		"receiver", peerAddr,
	)

	hand := wire.Hand{
		Version:         ProtocolVersion,
		Capabilities:    capab,
		Nonce:           n,
		TotalDifficulty: totalDifficulty,
		UserAgent:       h.cfg.UserAgent,
	}
	hand.SetSenderAddr(selfAddr)
	hand.SetReceiverAddr(peerAddr)

	ms := wire.NewMessageStream(conn)
	if err := ms.Send(&hand); err != nil {
		return nil, h.fail(tracker, DirectionOutbound,
			connError("send hand", peerAddr, err))
	}
	_ = tracker.Transition(handshake.StateHandSent)

	var shake wire.Shake
	if err := ms.Receive(&shake); err != nil {
		return nil, h.fail(tracker, DirectionOutbound,
			connError("receive shake", peerAddr, err))
	}
	_ = tracker.Transition(handshake.StateShakeReceived)

	if shake.Version != ProtocolVersion {
		return nil, h.fail(tracker, DirectionOutbound,
			newVersionMismatch(ProtocolVersion, shake.Version, peerAddr))
	}

	if err := ValidateUserAgent(shake.UserAgent, h.cfg.MaxUserAgentLength); err != nil {
		return nil, h.fail(tracker, DirectionOutbound,
			&Error{Code: ErrCodeMalformed, Message: "invalid shake", Addr: peerAddr, Cause: err})
	}

	peer := PeerInfo{
		Capabilities:    shake.Capabilities,
		UserAgent:       shake.UserAgent,
		Addr:            peerAddr,
		Version:         shake.Version,
		TotalDifficulty: shake.TotalDifficulty,
	}

	return h.complete(tracker, DirectionOutbound, conn, peer)
}

// Accept drives the inbound side of the handshake: it awaits the peer's
// Hand, validates the version, rejects reflected self-connections via the
// nonce registry, corrects the peer's advertised address against the
// transport-observed one, and replies with a Shake advertising capab and
// totalDifficulty.
//
// Failures before the reply send nothing: a peer probing with a bad
// version or a reflected nonce observes only a dropped connection. The
// caller owns closing it.
func (h *Handshake) Accept(
	capab wire.Capabilities,
	totalDifficulty wire.Difficulty,
	conn streams.Conn,
) (*Session, error) {
	tracker := handshake.NewTracker()
	h.stats.accepted()

	// The observed address is unavailable on some transports; correction
	// is skipped then and the advertised address is taken as-is.
	observed, observedErr := streams.RemoteAddrPort(conn)

	ms := wire.NewMessageStream(conn)

	var hand wire.Hand
	if err := ms.Receive(&hand); err != nil {
		return nil, h.fail(tracker, DirectionInbound,
			connError("receive hand", observed, err))
	}
	_ = tracker.Transition(handshake.StateHandReceived)

	if hand.Version != ProtocolVersion {
		return nil, h.fail(tracker, DirectionInbound,
			newVersionMismatch(ProtocolVersion, hand.Version, observed))
	}

	// A Hand carrying one of our own recent nonces can only be our own
	// outbound attempt routed back to us.
	if h.nonces.Contains(hand.Nonce) {
		h.cfg.Metrics.SelfConnectionDetected()
		return nil, h.fail(tracker, DirectionInbound,
			&Error{Code: ErrCodeSelfConnection, Message: "nonce reflected, connected to self", Addr: observed})
	}

	if err := ValidateUserAgent(hand.UserAgent, h.cfg.MaxUserAgentLength); err != nil {
		return nil, h.fail(tracker, DirectionInbound,
			&Error{Code: ErrCodeMalformed, Message: "invalid hand", Addr: observed, Cause: err})
	}

	advertised, err := hand.SenderAddr()
	if err != nil {
		return nil, h.fail(tracker, DirectionInbound,
			&Error{Code: ErrCodeMalformed, Message: "invalid hand", Addr: observed, Cause: err})
	}

	addr := advertised
	if observedErr == nil {
		addr = ExtractIP(advertised, observed)
		if addr != advertised {
			h.cfg.Metrics.AddressCorrected()
			h.cfg.Logger.Debug("corrected advertised peer address",
				"advertised", advertised,
				"observed", observed,
				"resolved", addr,
			)
		}
	}

	peer := PeerInfo{
		Capabilities:    hand.Capabilities,
		UserAgent:       hand.UserAgent,
		Addr:            addr,
		Version:         hand.Version,
		TotalDifficulty: hand.TotalDifficulty,
	}

	shake := wire.Shake{
		Version:         ProtocolVersion,
		Capabilities:    capab,
		TotalDifficulty: totalDifficulty,
		UserAgent:       h.cfg.UserAgent,
	}
	if err := ms.Send(&shake); err != nil {
		return nil, h.fail(tracker, DirectionInbound,
			connError("send shake", observed, err))
	}
	_ = tracker.Transition(handshake.StateShakeSent)

	return h.complete(tracker, DirectionInbound, conn, peer)
}

// complete selects the protocol handler for the negotiated version — the
// one place a version ever picks code — and finishes the attempt.
func (h *Handshake) complete(
	tracker *handshake.Tracker,
	direction string,
	conn streams.Conn,
	peer PeerInfo,
) (*Session, error) {
	proto, err := h.cfg.Handlers.New(peer.Version)
	if err != nil {
		return nil, h.fail(tracker, direction,
			&Error{Code: ErrCodeUnsupportedVersion, Message: "no handler for negotiated version", Addr: peer.Addr, Cause: err})
	}

	_ = tracker.Transition(handshake.StateComplete)
	h.stats.succeeded()
	h.cfg.Metrics.HandshakeResult(direction, ResultSuccess)
	h.cfg.Metrics.HandshakeDuration(direction, tracker.Duration().Seconds())

	h.cfg.Logger.Debug("handshake complete",
		"peer", peer.Addr,
		"version", peer.Version,
		"user_agent", peer.UserAgent,
		"capabilities", peer.Capabilities,
		"total_difficulty", uint64(peer.TotalDifficulty),
		"duration", tracker.Duration().Round(time.Microsecond),
	)

	return &Session{
		Conn:     conn,
		Protocol: proto,
		Peer:     peer,
	}, nil
}

// fail records a terminal handshake error. The connection is left to the
// caller; nonces registered by the attempt stay registered.
func (h *Handshake) fail(tracker *handshake.Tracker, direction string, err *Error) error {
	tracker.Fail(err)
	h.stats.failed(err.Code)
	h.cfg.Metrics.HandshakeResult(direction, resultLabel(err.Code))
	return err
}

func connError(op string, addr netip.AddrPort, cause error) *Error {
	return &Error{
		Code:    ErrCodeConnection,
		Message: op,
		Addr:    addr,
		Cause:   cause,
	}
}

// resultLabel maps an error code to its metrics label.
func resultLabel(code ErrorCode) string {
	switch code {
	case ErrCodeVersionMismatch:
		return ResultVersionMismatch
	case ErrCodeSelfConnection:
		return ResultSelfConnection
	case ErrCodeMalformed:
		return ResultMalformed
	case ErrCodeConnection:
		return ResultConnectionError
	default:
		return "error"
	}
}
