package cloudberry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"strings"
	"testing"
)

func TestErrorCodeString(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeUnknown, "Unknown"},
		{ErrCodeConnection, "Connection"},
		{ErrCodeVersionMismatch, "VersionMismatch"},
		{ErrCodeSelfConnection, "SelfConnection"},
		{ErrCodeMalformed, "Malformed"},
		{ErrCodeUnsupportedVersion, "UnsupportedVersion"},
		{ErrCodeInvalidConfig, "InvalidConfig"},
		{ErrorCode(99), "ErrorCode(99)"},
	}

	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestError_Message(t *testing.T) {
	err := NewError(ErrCodeConnection, "send hand")
	if got := err.Error(); got != "cloudberry: send hand" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := NewErrorWithCause(ErrCodeConnection, "send hand", io.ErrClosedPipe)
	if got := wrapped.Error(); !strings.Contains(got, io.ErrClosedPipe.Error()) {
		t.Errorf("Error() = %q, want cause included", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewErrorWithCause(ErrCodeConnection, "send hand", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	mismatch := newVersionMismatch(1, 9, netip.MustParseAddrPort("203.0.113.5:7000"))

	if !errors.Is(mismatch, ErrVersionMismatch) {
		t.Error("version mismatch does not match ErrVersionMismatch sentinel")
	}
	if errors.Is(mismatch, ErrSelfConnection) {
		t.Error("version mismatch matches ErrSelfConnection sentinel")
	}
	if errors.Is(mismatch, errors.New("protocol version mismatch")) {
		t.Error("*Error matched a plain error")
	}

	// Wrapping preserves code matching.
	wrapped := fmt.Errorf("dial peer: %w", mismatch)
	if !errors.Is(wrapped, ErrVersionMismatch) {
		t.Error("wrapped mismatch does not match sentinel")
	}
}

func TestIsCode(t *testing.T) {
	err := NewError(ErrCodeSelfConnection, "connected to self")

	if !IsCode(err, ErrCodeSelfConnection) {
		t.Error("IsCode(err, ErrCodeSelfConnection) = false")
	}
	if IsCode(err, ErrCodeConnection) {
		t.Error("IsCode(err, ErrCodeConnection) = true")
	}
	if IsCode(errors.New("plain"), ErrCodeSelfConnection) {
		t.Error("IsCode matched a plain error")
	}
	if IsCode(nil, ErrCodeSelfConnection) {
		t.Error("IsCode matched nil")
	}

	wrapped := fmt.Errorf("accept: %w", err)
	if !IsCode(wrapped, ErrCodeSelfConnection) {
		t.Error("IsCode did not see through wrapping")
	}
}

func TestNewVersionMismatch_Payload(t *testing.T) {
	addr := netip.MustParseAddrPort("203.0.113.5:7000")
	err := newVersionMismatch(1, 3, addr)

	if !bytes.Equal(err.Expected, []byte{1}) {
		t.Errorf("Expected = %v, want [1]", err.Expected)
	}
	if !bytes.Equal(err.Received, []byte{3}) {
		t.Errorf("Received = %v, want [3]", err.Received)
	}
	if err.Addr != addr {
		t.Errorf("Addr = %v, want %v", err.Addr, addr)
	}
}

func TestSelfConnectionError_EmptyPayload(t *testing.T) {
	// Self-connection and malformed failures are indistinguishable on the
	// wire; their payloads must stay empty.
	for _, sentinel := range []*Error{ErrSelfConnection, ErrMalformedMessage} {
		if len(sentinel.Expected) != 0 || len(sentinel.Received) != 0 {
			t.Errorf("%v carries payload Expected=%v Received=%v",
				sentinel.Code, sentinel.Expected, sentinel.Received)
		}
	}
}

func TestResultLabel(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeVersionMismatch, ResultVersionMismatch},
		{ErrCodeSelfConnection, ResultSelfConnection},
		{ErrCodeMalformed, ResultMalformed},
		{ErrCodeConnection, ResultConnectionError},
		{ErrCodeUnknown, "error"},
	}
	for _, tt := range tests {
		if got := resultLabel(tt.code); got != tt.want {
			t.Errorf("resultLabel(%v) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
