package protocol

// VersionV1 is the wire version of the first protocol generation.
const VersionV1 uint32 = 1

// V1 is the first-generation application protocol. The handshake hands a
// fresh V1 to the caller together with the negotiated PeerInfo; the
// caller's message loop drives it from there.
type V1 struct{}

// Ensure V1 implements Protocol.
var _ Protocol = (*V1)(nil)

// NewV1 creates a V1 protocol instance.
func NewV1() *V1 {
	return &V1{}
}

// Version implements Protocol.Version.
func (*V1) Version() uint32 { return VersionV1 }

// Name implements Protocol.Name.
func (*V1) Name() string { return "cloudberry/1" }
