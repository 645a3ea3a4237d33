package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultDevHost               = "127.0.0.1:8000"
	DefaultReconnectInitialDelay = 1 * time.Second
	DefaultReconnectMaxDelay     = 30 * time.Second
	DefaultMaxReconnectAttempts  = 10
	DefaultHandshakeTimeout      = 10 * time.Second
	DefaultWriteTimeout          = 5 * time.Second
	DefaultFrameBufferSize       = 256
	DefaultAPITimeout            = 15 * time.Second
)

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultDevHost
		c.Server.TLS = false
	}

	if c.Connection.ReconnectInitialDelay == 0 {
		c.Connection.ReconnectInitialDelay = DefaultReconnectInitialDelay
	}
	if c.Connection.ReconnectMaxDelay == 0 {
		c.Connection.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if c.Connection.MaxReconnectAttempts == 0 {
		c.Connection.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	if c.Connection.HandshakeTimeout == 0 {
		c.Connection.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Connection.WriteTimeout == 0 {
		c.Connection.WriteTimeout = DefaultWriteTimeout
	}
	if c.Connection.FrameBufferSize == 0 {
		c.Connection.FrameBufferSize = DefaultFrameBufferSize
	}

	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
}
