package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishSubscribe(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	h.Publish("hello")

	select {
	case got := <-ch:
		assert.Equal(t, "hello", got)
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestHubDropsWhenSubscriberIsSlow(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	for i := 0; i < 20; i++ {
		h.Publish("evt")
	}
	assert.Equal(t, cap(ch), len(ch), "overflow beyond the buffer is dropped")
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	h.Unsubscribe(ch)

	// must not panic on a closed channel
	h.Publish("evt")
}

func TestMakeEvent(t *testing.T) {
	raw := MakeEvent("send_completed", map[string]any{"words": 2})

	var e Event
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.Equal(t, "send_completed", e.Type)
	assert.False(t, e.At.IsZero())
	assert.JSONEq(t, `{"words":2}`, string(e.Data))
}
