package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Video-AI-Midias/farmaeasy-notify/internal/bus"
	"github.com/Video-AI-Midias/farmaeasy-notify/internal/model"
)

// Applier consumes dispatcher events from the bus and applies them to the
// store. A single goroutine applies events in delivery order, making the
// applier the store's sole push-path writer.
type Applier struct {
	store  *Store
	bus    bus.MessageBus
	logger *slog.Logger
}

// NewApplier creates an applier bound to the given store and bus.
func NewApplier(st *Store, b bus.MessageBus, logger *slog.Logger) *Applier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Applier{
		store:  st,
		bus:    b,
		logger: logger,
	}
}

// Run subscribes to notification events and applies them until ctx is done.
func (a *Applier) Run(ctx context.Context) error {
	sub := a.bus.Subscribe(bus.TopicNotifications)
	defer a.bus.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub:
			if !ok {
				return nil
			}
			a.apply(ev)
		}
	}
}

func (a *Applier) apply(ev any) {
	switch e := ev.(type) {
	case model.NotificationReceived:
		if a.store.PrependIfAbsent(e.Record) {
			a.store.IncrementCounts()
		} else {
			a.logger.Debug("duplicate notification dropped", "id", e.Record.ID)
		}
	case model.UnreadCountChanged:
		a.store.SetUnreadCount(e.Count)
	case model.ConnectedAck:
		a.logger.Debug("server handshake ack", "message", e.Message)
	default:
		a.logger.Debug("unhandled event", "type", fmt.Sprintf("%T", ev))
	}
}
