package dispatch

import (
	"time"

	"github.com/Video-AI-Midias/farmaeasy-notify/internal/model"
)

// Frame types understood by the dispatcher. Anything else is silently
// ignored so the client stays forward-compatible with server additions.
const (
	frameConnected    = "connected"
	frameNotification = "notification"
	frameUnreadCount  = "unread_count"
	framePing         = "ping"
	framePong         = "pong"
)

// messageEnvelope extracts just the frame type.
type messageEnvelope struct {
	Type string `json:"type"`
}

// connectedWire is the handshake acknowledgment frame.
type connectedWire struct {
	Message string `json:"message"`
}

// notificationWire is a notification frame.
type notificationWire struct {
	Data notificationPayload `json:"data"`
}

// unreadCountWire is an authoritative unread counter frame.
type unreadCountWire struct {
	Count int `json:"count"`
}

// notificationPayload is the wire shape of a pushed notification.
type notificationPayload struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	ActorID      *string   `json:"actor_id"`
	ActorName    *string   `json:"actor_name"`
	ActorAvatar  *string   `json:"actor_avatar"`
	ReferenceURL *string   `json:"reference_url"`
	IsRead       bool      `json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
}

// toRecord maps the wire payload into the store-side record. The actor
// sub-object is built only when the payload carries both an actor id and a
// display name.
func (p notificationPayload) toRecord() model.NotificationRecord {
	rec := model.NotificationRecord{
		ID:           p.ID,
		Type:         p.Type,
		Title:        p.Title,
		Message:      p.Message,
		ReferenceURL: p.ReferenceURL,
		IsRead:       p.IsRead,
		CreatedAt:    p.CreatedAt,
	}

	if p.ActorID != nil && *p.ActorID != "" && p.ActorName != nil && *p.ActorName != "" {
		actor := &model.Actor{
			ID:   *p.ActorID,
			Name: *p.ActorName,
		}
		if p.ActorAvatar != nil {
			actor.Avatar = *p.ActorAvatar
		}
		rec.Actor = actor
	}

	return rec
}
