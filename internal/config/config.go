package config

import "time"

// Config is the root configuration for the notification client.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Auth       AuthConfig       `yaml:"auth"`
	Connection ConnectionConfig `yaml:"connection"`
	API        APIConfig        `yaml:"api"`
}

// ServerConfig identifies the FarmaEasy backend that hosts the push endpoint.
//
// When Host is empty the client targets the local development server on the
// loopback interface without TLS. Deployed environments set Host explicitly
// and TLS selects wss/https over ws/http.
type ServerConfig struct {
	Host string `yaml:"host"` // host[:port], empty = local dev server
	TLS  bool   `yaml:"tls"`
}

// AuthConfig holds the bearer credential.
type AuthConfig struct {
	Token string `yaml:"token"` // supports ${VAR} expansion
}

// ConnectionConfig holds WebSocket connection manager settings.
type ConnectionConfig struct {
	ReconnectInitialDelay time.Duration `yaml:"reconnect_initial_delay"`
	ReconnectMaxDelay     time.Duration `yaml:"reconnect_max_delay"`
	MaxReconnectAttempts  int           `yaml:"max_reconnect_attempts"`
	HandshakeTimeout      time.Duration `yaml:"handshake_timeout"`
	WriteTimeout          time.Duration `yaml:"write_timeout"`
	FrameBufferSize       int           `yaml:"frame_buffer_size"`
}

// APIConfig holds REST API settings.
type APIConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}
