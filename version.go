package cloudberry

import "fmt"

// ProtocolVersion is the single wire protocol version this build speaks.
// Both sides must report exactly this value during the handshake; the
// pkg/protocol registry is the seam for offering more versions later.
const ProtocolVersion uint32 = 1

// Library version constants, advertised through the default user agent.
const (
	// VersionMajor is the major library version.
	VersionMajor = 0

	// VersionMinor is the minor library version.
	VersionMinor = 3

	// VersionPatch is the patch library version.
	VersionPatch = 1
)

// Version returns the library version as a semantic version string.
func Version() string {
	return fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}

// DefaultUserAgent identifies this client implementation on the wire.
// Override it per node with WithUserAgent.
var DefaultUserAgent = "cloudberry/" + Version()
