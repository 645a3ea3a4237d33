// Package api provides the REST client used alongside the push connection.
//
// The only call the notification client needs is the unread-count resync
// performed after each successful handshake; retry policy is the concern of
// the application-wide HTTP client, so requests here are single attempts.
package api
