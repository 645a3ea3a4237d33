package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Video-AI-Midias/farmaeasy-notify/internal/model"
)

func TestPubSubBus_PublishSubscribe(t *testing.T) {
	b := New(nil)
	defer b.Close()

	sub := b.Subscribe(TopicNotifications)
	defer b.Unsubscribe(sub)

	b.Publish(TopicNotifications, model.UnreadCountChanged{Count: 3})

	select {
	case got := <-sub:
		ev, ok := got.(model.UnreadCountChanged)
		assert.True(t, ok)
		assert.Equal(t, 3, ev.Count)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestPubSubBus_TopicIsolation(t *testing.T) {
	b := New(nil)
	defer b.Close()

	sub := b.Subscribe(TopicStatus)
	defer b.Unsubscribe(sub)

	b.Publish(TopicNotifications, model.ConnectedAck{Message: "hi"})

	select {
	case got := <-sub:
		t.Fatalf("unexpected event on status topic: %v", got)
	case <-time.After(50 * time.Millisecond):
	}
}
