package connection

import (
	"errors"

	"github.com/gorilla/websocket"
)

// Errors
var (
	ErrNotConnected      = errors.New("not connected")
	ErrAlreadyClosed     = errors.New("already closed")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Closure codes with protocol meaning. Both are terminal: no reconnect is
// scheduled for them.
const (
	// CloseNormal is the client-initiated, intentional closure code.
	CloseNormal = websocket.CloseNormalClosure // 1000

	// CloseAuthRejected is sent by the server when it rejects the bearer
	// credential. Recovery requires re-authentication, not retry.
	CloseAuthRejected = 4001
)

// CloseEvent describes how a transport closed.
type CloseEvent struct {
	Code   int    // WebSocket closure code; 1006 for network-level failures
	Reason string // Close reason or underlying error text
}

// StatusChange is published on the status topic when the manager's
// externally observable status changes.
type StatusChange struct {
	Old Status
	New Status
}
