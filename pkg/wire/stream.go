package wire

import (
	"fmt"
	"io"

	"github.com/blockberries/cramberry/pkg/cramberry"
)

// MessageStream frames Cramberry messages over a raw byte stream. It is
// the handshake's only view of the connection: one writer for outgoing
// frames, one iterator for incoming frames.
//
// MessageStream carries no timeout of its own. The caller owns deadline
// and cancellation policy and should arm deadlines on the underlying
// connection before handing it over.
//
// MessageStream is NOT safe for concurrent use.
type MessageStream struct {
	reader *cramberry.MessageIterator
	writer *cramberry.StreamWriter
}

// NewMessageStream creates a message stream over rw.
func NewMessageStream(rw io.ReadWriter) *MessageStream {
	return &MessageStream{
		reader: cramberry.NewMessageIterator(rw),
		writer: cramberry.NewStreamWriter(rw),
	}
}

// Send serializes msg and writes it as one delimited frame, flushing so
// the frame is on the wire before Send returns.
func (ms *MessageStream) Send(msg any) error {
	if err := ms.writer.WriteDelimited(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := ms.writer.Flush(); err != nil {
		return fmt.Errorf("flush message: %w", err)
	}
	return nil
}

// Receive blocks until one complete frame arrives and deserializes it
// into msg, which must be a pointer. EOF before a complete frame is an
// error.
func (ms *MessageStream) Receive(msg any) error {
	if !ms.reader.Next(msg) {
		if err := ms.reader.Err(); err != nil {
			return fmt.Errorf("read message: %w", err)
		}
		return io.ErrUnexpectedEOF
	}
	return nil
}
