package cloudberry

import (
	"fmt"

	"github.com/blockberries/cloudberry/pkg/protocol"
)

// Default configuration values.
const (
	// DefaultMaxUserAgentLength bounds the user agent accepted from peers
	// and advertised by this node.
	DefaultMaxUserAgentLength = 128
)

// Config holds the configuration for a Handshake.
type Config struct {
	// UserAgent is the client identifier advertised to peers.
	// Defaults to DefaultUserAgent.
	UserAgent string

	// MaxUserAgentLength bounds user agents in both directions. Inbound
	// messages exceeding it are treated as malformed.
	MaxUserAgentLength int

	// Handlers maps negotiated protocol versions to protocol
	// constructors. Defaults to a registry holding only V1.
	Handlers *protocol.Registry

	// Logger is the logger for the handshake. If nil, a NopLogger is used.
	// The logger must be safe for concurrent use.
	Logger Logger

	// Metrics is the metrics collector. If nil, a NopMetrics is used.
	// The metrics collector must be safe for concurrent use.
	Metrics Metrics
}

// Validate checks that the configuration is valid and returns an error
// describing any problems found.
func (c *Config) Validate() error {
	if c.MaxUserAgentLength < 0 {
		return fmt.Errorf("%w: max user agent length cannot be negative", ErrInvalidConfig)
	}
	maxLen := c.MaxUserAgentLength
	if maxLen == 0 {
		maxLen = DefaultMaxUserAgentLength
	}
	if len(c.UserAgent) > maxLen {
		return fmt.Errorf("%w: %d bytes exceeds maximum of %d", ErrUserAgentTooLong, len(c.UserAgent), maxLen)
	}
	if c.Handlers != nil && !c.Handlers.Supports(ProtocolVersion) {
		return fmt.Errorf("%w: handler registry has no entry for version %d", ErrInvalidConfig, ProtocolVersion)
	}
	return nil
}

// applyDefaults sets default values for any unset optional fields.
func (c *Config) applyDefaults() {
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.MaxUserAgentLength == 0 {
		c.MaxUserAgentLength = DefaultMaxUserAgentLength
	}
	if c.Handlers == nil {
		c.Handlers = protocol.NewRegistry()
	}
	if c.Logger == nil {
		c.Logger = NopLogger{}
	}
	if c.Metrics == nil {
		c.Metrics = NopMetrics{}
	}
}

// Option is a functional option for configuring a Handshake.
type Option func(*Config)

// WithUserAgent sets the advertised client identifier.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithMaxUserAgentLength sets the user agent length bound.
func WithMaxUserAgentLength(n int) Option {
	return func(c *Config) {
		c.MaxUserAgentLength = n
	}
}

// WithHandlers sets the protocol handler registry.
func WithHandlers(r *protocol.Registry) Option {
	return func(c *Config) {
		c.Handlers = r
	}
}

// WithLogger sets the logger for the handshake.
// The logger must be safe for concurrent use.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithMetrics sets the metrics collector for the handshake.
// The metrics collector must be safe for concurrent use.
func WithMetrics(m Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// NewConfig creates a new Config and applies any provided options.
// It applies defaults for unset optional fields but does not validate
// the configuration.
func NewConfig(opts ...Option) *Config {
	c := &Config{}
	for _, opt := range opts {
		opt(c)
	}
	c.applyDefaults()
	return c
}
