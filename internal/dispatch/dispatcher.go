// Package dispatch implements the Message Dispatcher component.
//
// The dispatcher:
//   - Parses inbound JSON frames and routes them by type
//   - Answers server keep-alive pings synchronously
//   - Publishes typed events on the bus for the store applier to consume
//
// A malformed frame is logged and dropped; the connection survives it.
package dispatch

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/Video-AI-Midias/farmaeasy-notify/internal/bus"
	"github.com/Video-AI-Midias/farmaeasy-notify/internal/model"
)

var pongFrame = []byte(`{"type":"pong"}`)

// PongFrame returns the keep-alive reply frame.
func PongFrame() []byte {
	return pongFrame
}

// IsPing reports whether raw is a server keep-alive ping.
func IsPing(raw []byte) bool {
	var env messageEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return false
	}
	return env.Type == framePing
}

// Sender writes a frame back to the transport the inbound frame arrived on.
type Sender interface {
	Send(data []byte) error
}

// Stats contains runtime dispatcher statistics.
type Stats struct {
	FramesReceived int64
	ParseErrors    int64
	UnknownTypes   int64
	PongsSent      int64
}

// Dispatcher parses inbound frames and routes them by type.
type Dispatcher struct {
	bus    bus.MessageBus
	logger *slog.Logger

	mu          sync.Mutex
	received    int64
	parseErrors int64
	unknown     int64
	pongs       int64
}

// New creates a dispatcher publishing onto the given bus.
func New(b bus.MessageBus, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		bus:    b,
		logger: logger,
	}
}

// HandleFrame parses a raw frame and routes it. The pong reply to a ping is
// sent on reply before HandleFrame returns, ahead of any queued outbound
// work, so keep-alive latency is independent of application logic.
func (d *Dispatcher) HandleFrame(raw []byte, reply Sender) {
	d.mu.Lock()
	d.received++
	d.mu.Unlock()

	var envelope messageEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		d.logger.Warn("malformed frame", "error", err)
		d.mu.Lock()
		d.parseErrors++
		d.mu.Unlock()
		return
	}

	switch envelope.Type {
	case frameConnected:
		var wire connectedWire
		if err := json.Unmarshal(raw, &wire); err != nil {
			d.recordParseError("connected", err)
			return
		}
		d.bus.Publish(bus.TopicNotifications, model.ConnectedAck{Message: wire.Message})

	case frameNotification:
		var wire notificationWire
		if err := json.Unmarshal(raw, &wire); err != nil {
			d.recordParseError("notification", err)
			return
		}
		d.bus.Publish(bus.TopicNotifications, model.NotificationReceived{Record: wire.Data.toRecord()})

	case frameUnreadCount:
		var wire unreadCountWire
		if err := json.Unmarshal(raw, &wire); err != nil {
			d.recordParseError("unread_count", err)
			return
		}
		d.bus.Publish(bus.TopicNotifications, model.UnreadCountChanged{Count: wire.Count})

	case framePing:
		if reply == nil {
			d.logger.Warn("ping received with no transport to answer on")
			return
		}
		if err := reply.Send(pongFrame); err != nil {
			d.logger.Warn("failed to send pong", "error", err)
			return
		}
		d.mu.Lock()
		d.pongs++
		d.mu.Unlock()

	case framePong:
		// Reserved for client-initiated liveness checks.

	default:
		d.logger.Debug("skipping frame type", "type", envelope.Type)
		d.mu.Lock()
		d.unknown++
		d.mu.Unlock()
	}
}

// Stats returns current statistics.
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	return Stats{
		FramesReceived: d.received,
		ParseErrors:    d.parseErrors,
		UnknownTypes:   d.unknown,
		PongsSent:      d.pongs,
	}
}

func (d *Dispatcher) recordParseError(frameType string, err error) {
	d.logger.Warn("failed to parse frame", "type", frameType, "error", err)
	d.mu.Lock()
	d.parseErrors++
	d.mu.Unlock()
}
