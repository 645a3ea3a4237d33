package connection

import (
	"context"
	"log/slog"

	"github.com/Video-AI-Midias/farmaeasy-notify/internal/auth"
)

// Binder ties the Connection Manager to authentication state. Becoming
// authenticated triggers Connect; losing authentication triggers
// Disconnect. On activation and again on teardown, Disconnect runs
// unconditionally so no transport outlives the owning context, even if the
// authenticated flag never changed.
type Binder struct {
	mgr     *Manager
	watcher *auth.Watcher
	logger  *slog.Logger
}

// NewBinder creates a lifecycle binder for the given manager and watcher.
func NewBinder(mgr *Manager, watcher *auth.Watcher, logger *slog.Logger) *Binder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Binder{
		mgr:     mgr,
		watcher: watcher,
		logger:  logger,
	}
}

// Status returns the current connection status.
func (b *Binder) Status() Status {
	return b.mgr.Status()
}

// Connect triggers an explicit connect.
func (b *Binder) Connect() {
	b.mgr.Connect()
}

// Disconnect triggers an explicit disconnect.
func (b *Binder) Disconnect() {
	b.mgr.Disconnect()
}

// Run binds connection lifecycle to authentication state until ctx is done.
func (b *Binder) Run(ctx context.Context) error {
	b.mgr.Disconnect()
	defer b.mgr.Disconnect()

	if b.watcher.Authenticated() {
		b.mgr.Connect()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case authed, ok := <-b.watcher.Changes():
			if !ok {
				return nil
			}
			if authed {
				b.logger.Debug("authenticated, connecting")
				b.mgr.Connect()
			} else {
				b.logger.Debug("authentication lost, disconnecting")
				b.mgr.Disconnect()
			}
		}
	}
}
