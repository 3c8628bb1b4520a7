// Package otel provides OpenTelemetry tracing integration for Cloudberry.
//
// Cloudberry itself does not create spans; applications wrap their dial
// and accept paths with this tracer to get handshake visibility in their
// traces.
//
// # Span Hierarchy
//
//	cloudberry.connect            (outbound handshakes)
//	cloudberry.accept             (inbound handshakes)
//
// # Attributes
//
// Common span attributes include:
//   - peer.addr: The remote transport address
//   - handshake.version: The negotiated protocol version
//   - handshake.result: "success" or the failure kind
//
// # Example Usage
//
//	import (
//	    "github.com/blockberries/cloudberry"
//	    cloudberryotel "github.com/blockberries/cloudberry/otel"
//	    "go.opentelemetry.io/otel"
//	)
//
//	func dial(hs *cloudberry.Handshake, conn net.Conn) error {
//	    tracer := cloudberryotel.NewTracer(otel.GetTracerProvider())
//
//	    ctx, span := tracer.StartConnect(context.Background(), conn.RemoteAddr().String())
//	    sess, err := hs.Connect(capab, difficulty, selfAddr, conn)
//	    tracer.RecordSession(span, sess, err)
//	    span.End()
//	    _ = ctx
//	    return err
//	}
package otel

import (
	"context"

	"github.com/blockberries/cloudberry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	// TracerName is the name used for the OpenTelemetry tracer.
	TracerName = "github.com/blockberries/cloudberry"

	// Span names
	SpanConnect = "cloudberry.connect"
	SpanAccept  = "cloudberry.accept"

	// Attribute keys
	AttrPeerAddr        = "peer.addr"
	AttrVersion         = "handshake.version"
	AttrUserAgent       = "handshake.user_agent"
	AttrTotalDifficulty = "handshake.total_difficulty"
	AttrResult          = "handshake.result"
	AttrErrorMessage    = "error.message"
)

// Tracer creates spans around Cloudberry handshake operations.
//
// Tracer is safe for concurrent use.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a new Tracer using the given TracerProvider.
// If provider is nil, a no-op tracer is used.
func NewTracer(provider trace.TracerProvider) *Tracer {
	if provider == nil {
		return &Tracer{tracer: noop.NewTracerProvider().Tracer(TracerName)}
	}
	return &Tracer{tracer: provider.Tracer(TracerName)}
}

// StartConnect starts a span for an outbound handshake.
func (t *Tracer) StartConnect(ctx context.Context, peerAddr string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanConnect,
		trace.WithAttributes(
			attribute.String(AttrPeerAddr, peerAddr),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// StartAccept starts a span for an inbound handshake.
func (t *Tracer) StartAccept(ctx context.Context, peerAddr string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanAccept,
		trace.WithAttributes(
			attribute.String(AttrPeerAddr, peerAddr),
		),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// RecordSession records the outcome of a handshake on the given span:
// negotiated peer attributes on success, error status on failure.
func (t *Tracer) RecordSession(span trace.Span, sess *cloudberry.Session, err error) {
	if err != nil {
		span.SetAttributes(attribute.String(AttrResult, resultOf(err)))
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
		return
	}

	span.SetAttributes(
		attribute.String(AttrResult, "success"),
		attribute.Int64(AttrVersion, int64(sess.Peer.Version)),
		attribute.String(AttrUserAgent, sess.Peer.UserAgent),
		attribute.Int64(AttrTotalDifficulty, int64(sess.Peer.TotalDifficulty)),
		attribute.String(AttrPeerAddr, sess.Peer.Addr.String()),
	)
	span.SetStatus(codes.Ok, "")
}

// RecordError records an error on the given span.
func (t *Tracer) RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// EndSpan ends a span, optionally recording an error.
func (t *Tracer) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// resultOf maps a handshake error to its span result attribute.
func resultOf(err error) string {
	switch {
	case cloudberry.IsCode(err, cloudberry.ErrCodeVersionMismatch):
		return cloudberry.ResultVersionMismatch
	case cloudberry.IsCode(err, cloudberry.ErrCodeSelfConnection):
		return cloudberry.ResultSelfConnection
	case cloudberry.IsCode(err, cloudberry.ErrCodeMalformed):
		return cloudberry.ResultMalformed
	case cloudberry.IsCode(err, cloudberry.ErrCodeConnection):
		return cloudberry.ResultConnectionError
	default:
		return "error"
	}
}

// NopTracer is a no-op tracer that does nothing.
// It is used when tracing is disabled.
type NopTracer struct {
	*Tracer
}

// NewNopTracer creates a new no-op tracer.
func NewNopTracer() *NopTracer {
	return &NopTracer{
		Tracer: NewTracer(nil),
	}
}
