// Package auth supplies the bearer credential and tracks authentication
// state for the notification client.
//
// Login and logout themselves are an external concern; this package only
// exposes the current token and a reactive "is authenticated" signal that
// the lifecycle binder consumes.
package auth

import "sync"

// TokenSource supplies the current bearer credential.
type TokenSource interface {
	// Token returns the current bearer token and whether the client is
	// authenticated. An empty token or a false flag means no connection
	// may be attempted.
	Token() (string, bool)
}

// Watcher is a TokenSource whose authenticated state changes at runtime.
// State transitions are delivered on Changes so the lifecycle binder can
// react to login and logout.
type Watcher struct {
	mu            sync.Mutex
	token         string
	authenticated bool
	closed        bool
	changes       chan bool
}

// NewWatcher creates a Watcher holding the given token, initially
// unauthenticated.
func NewWatcher(token string) *Watcher {
	return &Watcher{
		token:   token,
		changes: make(chan bool, 16),
	}
}

// Token returns the current bearer token and the authenticated flag.
func (w *Watcher) Token() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.token, w.authenticated
}

// Authenticated reports the current authentication state.
func (w *Watcher) Authenticated() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.authenticated
}

// SetToken replaces the bearer token (e.g., after a refresh).
func (w *Watcher) SetToken(token string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.token = token
}

// SetAuthenticated updates the authentication state. A transition is
// delivered on Changes; setting the same value twice is a no-op. The send
// never blocks: when a stalled consumer has let the buffer fill up, the
// oldest queued transition is dropped, keeping the most recent ones.
func (w *Watcher) SetAuthenticated(v bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.authenticated == v {
		return
	}
	w.authenticated = v

	for {
		select {
		case w.changes <- v:
			return
		default:
		}
		select {
		case <-w.changes:
		default:
		}
	}
}

// Changes returns the stream of authentication state transitions.
func (w *Watcher) Changes() <-chan bool {
	return w.changes
}

// Close stops delivery of further transitions and closes Changes.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.closed = true
	close(w.changes)
}
