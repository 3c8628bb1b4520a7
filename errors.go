// Package cloudberry negotiates the connection-establishment handshake
// between blockchain peers: protocol version agreement, capability and
// chain-difficulty exchange, and self-connection detection.
package cloudberry

import (
	"errors"
	"fmt"
	"net/netip"
)

// ErrorCode identifies the type of error for programmatic handling.
type ErrorCode int

const (
	// ErrCodeUnknown indicates an unknown or unclassified error.
	ErrCodeUnknown ErrorCode = iota

	// ErrCodeConnection indicates a transport-level I/O failure, including
	// inability to determine the remote address of the connection.
	ErrCodeConnection

	// ErrCodeVersionMismatch indicates the peer reported a protocol
	// version we do not speak.
	ErrCodeVersionMismatch

	// ErrCodeSelfConnection indicates the inbound Hand carried one of our
	// own recently issued nonces: we dialed ourselves.
	ErrCodeSelfConnection

	// ErrCodeMalformed indicates an inbound message failed validation.
	ErrCodeMalformed

	// ErrCodeUnsupportedVersion indicates no protocol handler is
	// registered for an otherwise agreed version.
	ErrCodeUnsupportedVersion

	// ErrCodeInvalidConfig indicates the configuration is invalid.
	ErrCodeInvalidConfig
)

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeUnknown:
		return "Unknown"
	case ErrCodeConnection:
		return "Connection"
	case ErrCodeVersionMismatch:
		return "VersionMismatch"
	case ErrCodeSelfConnection:
		return "SelfConnection"
	case ErrCodeMalformed:
		return "Malformed"
	case ErrCodeUnsupportedVersion:
		return "UnsupportedVersion"
	case ErrCodeInvalidConfig:
		return "InvalidConfig"
	default:
		return fmt.Sprintf("ErrorCode(%d)", c)
	}
}

// Error represents a Cloudberry handshake error with structured context.
//
// Every handshake error is terminal for its connection attempt: the
// library performs no retries, and the caller owns closing the connection.
// Self-connection and malformed-input failures deliberately share one
// externally observable behavior (the connection is dropped without a
// reply and Expected/Received stay empty) so a probing peer learns
// nothing; the Code field keeps them distinguishable locally.
type Error struct {
	// Code identifies the type of error.
	Code ErrorCode

	// Message is a human-readable description of the error.
	Message string

	// Addr is the remote transport address, when known.
	Addr netip.AddrPort

	// Expected and Received carry the wire-level payload of a mismatch.
	// For version mismatches each holds a single byte: the supported
	// version and the reported version. For self-connection and malformed
	// input both are empty.
	Expected []byte
	Received []byte

	// Cause is the underlying error, if any.
	Cause error
}

// Error returns a human-readable error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cloudberry: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cloudberry: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two Cloudberry errors are
// considered equal if they have the same error code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new Cloudberry Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NewErrorWithCause creates a new Cloudberry Error with the given code,
// message, and cause.
func NewErrorWithCause(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// newVersionMismatch builds the version-mismatch error. Expected and
// received are carried as single-byte sequences, matching the wire-level
// granularity of the version check.
func newVersionMismatch(expected, received uint32, addr netip.AddrPort) *Error {
	return &Error{
		Code:     ErrCodeVersionMismatch,
		Message:  fmt.Sprintf("protocol version mismatch: expected %d, peer reported %d", expected, received),
		Addr:     addr,
		Expected: []byte{byte(expected)},
		Received: []byte{byte(received)},
	}
}

// IsCode reports whether err is a Cloudberry Error carrying the code.
func IsCode(err error, code ErrorCode) bool {
	var cErr *Error
	if errors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}

// Sentinel errors for handshake outcomes. These compare by code against
// the rich *Error values via errors.Is.
var (
	// ErrVersionMismatch indicates incompatible protocol versions.
	ErrVersionMismatch = NewError(ErrCodeVersionMismatch, "protocol version mismatch")

	// ErrSelfConnection indicates an outbound attempt answered by the
	// node itself.
	ErrSelfConnection = NewError(ErrCodeSelfConnection, "connected to self")

	// ErrMalformedMessage indicates an inbound message failed validation.
	ErrMalformedMessage = NewError(ErrCodeMalformed, "malformed handshake message")

	// ErrConnection indicates a transport-level failure.
	ErrConnection = NewError(ErrCodeConnection, "connection failure")
)

// Sentinel errors for configuration.
var (
	// ErrInvalidConfig indicates the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUserAgentTooLong indicates the configured user agent exceeds the
	// wire limit.
	ErrUserAgentTooLong = errors.New("user agent exceeds maximum length")
)
