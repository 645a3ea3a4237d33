package config

import "errors"

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host is required")
	}

	if c.Connection.ReconnectInitialDelay <= 0 {
		return errors.New("connection.reconnect_initial_delay must be positive")
	}
	if c.Connection.ReconnectMaxDelay < c.Connection.ReconnectInitialDelay {
		return errors.New("connection.reconnect_max_delay must be >= reconnect_initial_delay")
	}
	if c.Connection.MaxReconnectAttempts < 1 {
		return errors.New("connection.max_reconnect_attempts must be >= 1")
	}
	if c.Connection.FrameBufferSize < 1 {
		return errors.New("connection.frame_buffer_size must be >= 1")
	}

	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}

	return nil
}
