package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Video-AI-Midias/farmaeasy-notify/internal/bus"
	"github.com/Video-AI-Midias/farmaeasy-notify/internal/model"
)

type fakeCounter struct {
	count int
	err   error
	calls int
}

func (f *fakeCounter) UnreadCount(ctx context.Context) (int, error) {
	f.calls++
	return f.count, f.err
}

func record(id string) model.NotificationRecord {
	return model.NotificationRecord{
		ID:        id,
		Type:      "order_ready",
		Title:     "Order ready",
		Message:   "Order " + id + " is ready for pickup",
		CreatedAt: time.Now(),
	}
}

func TestStore_PrependIfAbsent_Dedup(t *testing.T) {
	s := New(nil, nil)

	assert.True(t, s.PrependIfAbsent(record("n1")))
	assert.False(t, s.PrependIfAbsent(record("n1")))
	assert.True(t, s.PrependIfAbsent(record("n2")))

	list := s.Notifications()
	require.Len(t, list, 2)
	// Newest first
	assert.Equal(t, "n2", list[0].ID)
	assert.Equal(t, "n1", list[1].ID)
}

func TestStore_Counters(t *testing.T) {
	s := New(nil, nil)

	s.IncrementCounts()
	s.IncrementCounts()
	assert.Equal(t, 2, s.UnreadCount())
	assert.Equal(t, 2, s.TotalCount())

	s.SetUnreadCount(9)
	assert.Equal(t, 9, s.UnreadCount())
	assert.Equal(t, 2, s.TotalCount())
}

func TestStore_RefreshUnreadCount(t *testing.T) {
	api := &fakeCounter{count: 5}
	s := New(api, nil)

	require.NoError(t, s.RefreshUnreadCount(context.Background()))
	assert.Equal(t, 5, s.UnreadCount())
	assert.Equal(t, 1, api.calls)
}

func TestStore_RefreshUnreadCount_ErrorKeepsCounter(t *testing.T) {
	s := New(&fakeCounter{err: errors.New("boom")}, nil)
	s.SetUnreadCount(3)

	require.Error(t, s.RefreshUnreadCount(context.Background()))
	assert.Equal(t, 3, s.UnreadCount())
}

func TestStore_RefreshUnreadCount_NilAPI(t *testing.T) {
	s := New(nil, nil)
	assert.NoError(t, s.RefreshUnreadCount(context.Background()))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestApplier_AppliesEventsInOrder(t *testing.T) {
	b := bus.New(nil)
	defer b.Close()

	s := New(nil, nil)
	a := NewApplier(s, b, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.Run(ctx)
	}()

	// Give the applier time to subscribe before publishing.
	time.Sleep(20 * time.Millisecond)

	b.Publish(bus.TopicNotifications, model.NotificationReceived{Record: record("n1")})
	b.Publish(bus.TopicNotifications, model.NotificationReceived{Record: record("n1")}) // duplicate
	b.Publish(bus.TopicNotifications, model.NotificationReceived{Record: record("n2")})
	b.Publish(bus.TopicNotifications, model.UnreadCountChanged{Count: 40})

	waitFor(t, func() bool { return s.UnreadCount() == 40 })

	assert.Len(t, s.Notifications(), 2)
	assert.Equal(t, 2, s.TotalCount())

	cancel()
	<-done
}

func TestApplier_DuplicateIncrementsOnce(t *testing.T) {
	b := bus.New(nil)
	defer b.Close()

	s := New(nil, nil)
	a := NewApplier(s, b, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Run(ctx)
	time.Sleep(20 * time.Millisecond)

	b.Publish(bus.TopicNotifications, model.NotificationReceived{Record: record("dup")})
	b.Publish(bus.TopicNotifications, model.NotificationReceived{Record: record("dup")})

	waitFor(t, func() bool { return s.TotalCount() == 1 })

	assert.Equal(t, 1, s.UnreadCount())
	assert.Len(t, s.Notifications(), 1)
}
