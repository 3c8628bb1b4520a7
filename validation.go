package cloudberry

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// ValidateUserAgent checks a user agent string received from or advertised
// to a peer. User agents must:
//   - Be valid UTF-8
//   - Contain only printable characters (spaces allowed)
//   - Not exceed the maximum length in bytes (if maxLength > 0)
//
// An empty user agent is allowed; some clients do not identify themselves.
// Returns nil if valid, or an error describing the validation failure.
func ValidateUserAgent(ua string, maxLength int) error {
	if maxLength > 0 && len(ua) > maxLength {
		return fmt.Errorf("%w: %d bytes exceeds maximum of %d", ErrUserAgentTooLong, len(ua), maxLength)
	}

	if !utf8.ValidString(ua) {
		return fmt.Errorf("user agent is not valid UTF-8")
	}

	for i, r := range ua {
		if !isPrintable(r) {
			return fmt.Errorf("user agent contains non-printable character %q at position %d", r, i)
		}
	}

	return nil
}

// isPrintable returns true if the rune may appear in a user agent.
func isPrintable(r rune) bool {
	return r == ' ' || unicode.IsPrint(r)
}
