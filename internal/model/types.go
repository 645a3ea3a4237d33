package model

import "time"

// Actor identifies the user that triggered a notification.
type Actor struct {
	ID     string // User ID
	Name   string // Display name
	Avatar string // Avatar URL, may be empty
}

// NotificationRecord is the store-side shape of a delivered notification.
//
// IDs are unique within the store's notification list; insertion order is
// newest-first.
type NotificationRecord struct {
	ID      string // Primary key (server-assigned)
	Type    string // Category (e.g., "order_ready", "stock_alert")
	Title   string // Display title
	Message string // Body text

	// Actor is present only when the wire payload carried both an actor
	// id and a display name.
	Actor *Actor

	ReferenceID  *string // Related entity ID, nil when absent
	ReferenceURL *string // Resolved deep-link URL, nil when absent

	IsRead    bool       // Read flag
	ReadAt    *time.Time // When marked read, nil while unread
	CreatedAt time.Time  // Server creation time
}

// NotificationReceived is published when the dispatcher decodes a new
// notification frame.
type NotificationReceived struct {
	Record NotificationRecord
}

// UnreadCountChanged is published when the server sends an authoritative
// unread counter value.
type UnreadCountChanged struct {
	Count int
}

// ConnectedAck is published when the server acknowledges the handshake.
type ConnectedAck struct {
	Message string
}
