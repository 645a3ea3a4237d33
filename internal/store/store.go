// Package store implements the client-side notification state container.
//
// The store is the only shared mutable resource in the subsystem. Writes
// arrive from the Applier (push events) and from the unread-count resync;
// dedup by notification ID makes duplicate delivery harmless.
package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/c-pro/geche"

	"github.com/Video-AI-Midias/farmaeasy-notify/internal/model"
)

// UnreadCounter fetches the authoritative unread count from the backend.
type UnreadCounter interface {
	UnreadCount(ctx context.Context) (int, error)
}

// Store holds the notification list and counters.
type Store struct {
	api    UnreadCounter
	logger *slog.Logger

	mu            sync.RWMutex
	notifications []model.NotificationRecord
	seen          geche.Geche[string, struct{}]
	unread        int
	total         int
}

// New creates an empty store. The UnreadCounter may be nil when no REST
// resync is available (tests, offline tooling).
func New(api UnreadCounter, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		api:    api,
		logger: logger,
		seen:   geche.NewMapCache[string, struct{}](),
	}
}

// PrependIfAbsent inserts a record at the head of the list unless a record
// with the same ID is already present. Returns true if inserted.
func (s *Store) PrependIfAbsent(rec model.NotificationRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.seen.Get(rec.ID); err == nil {
		return false
	}
	s.seen.Set(rec.ID, struct{}{})
	s.notifications = append([]model.NotificationRecord{rec}, s.notifications...)
	return true
}

// IncrementCounts bumps both the unread and total counters by one.
func (s *Store) IncrementCounts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unread++
	s.total++
}

// SetUnreadCount overwrites the unread counter with an authoritative value.
func (s *Store) SetUnreadCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unread = n
}

// RefreshUnreadCount queries the backend for the authoritative unread count
// and overwrites the counter. Called once per successful handshake so the
// counter is correct even if frames were missed while disconnected.
func (s *Store) RefreshUnreadCount(ctx context.Context) error {
	if s.api == nil {
		return nil
	}

	count, err := s.api.UnreadCount(ctx)
	if err != nil {
		s.logger.Warn("unread count refresh failed", "error", err)
		return err
	}

	s.SetUnreadCount(count)
	return nil
}

// Notifications returns a copy of the notification list, newest first.
func (s *Store) Notifications() []model.NotificationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.NotificationRecord, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// UnreadCount returns the current unread counter.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// TotalCount returns the total counter.
func (s *Store) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}
