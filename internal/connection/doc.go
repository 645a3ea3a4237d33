// Package connection implements the Connection Manager component.
//
// The Connection Manager:
//   - Maintains at most one WebSocket connection to the push endpoint
//   - Tracks status through a validated state machine
//   - Handles reconnection with exponential backoff and a hard attempt cap
//   - Hands inbound frames to the Message Dispatcher
//
// The Lifecycle Binder (binder.go) ties the manager to authentication state
// so no transport outlives its owning context.
package connection
