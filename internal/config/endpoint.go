package config

import "net/url"

// WSEndpoint builds the push endpoint URL with the bearer token embedded as
// a query credential. The scheme mirrors the TLS setting (ws/wss).
func (c *Config) WSEndpoint(token string) string {
	scheme := "ws"
	if c.Server.TLS {
		scheme = "wss"
	}

	u := url.URL{
		Scheme: scheme,
		Host:   c.Server.Host,
		Path:   "/ws/notifications",
	}

	q := url.Values{}
	q.Set("token", token)
	u.RawQuery = q.Encode()

	return u.String()
}

// RESTBase builds the base URL for REST calls against the same host,
// preserving TLS-ness (http/https mirrors ws/wss).
func (c *Config) RESTBase() string {
	scheme := "http"
	if c.Server.TLS {
		scheme = "https"
	}

	u := url.URL{
		Scheme: scheme,
		Host:   c.Server.Host,
	}
	return u.String()
}
