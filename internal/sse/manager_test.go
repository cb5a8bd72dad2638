package sse

import (
	"io"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"email-agent/internal/logger"
	"email-agent/internal/model"
)

func receive(t *testing.T, ch chan []byte) map[string]interface{} {
	t.Helper()
	select {
	case msg := <-ch:
		var event map[string]interface{}
		require.NoError(t, json.Unmarshal(msg, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("Did not receive message within timeout")
		return nil
	}
}

func TestSSEManagerProgress(t *testing.T) {
	// Setup
	manager := NewSSEManager(logger.NewWithWriter(io.Discard))
	defer manager.Close()
	first := manager.AddClient()
	second := manager.AddClient()
	assert.Equal(t, 2, manager.ClientCount())

	// Execute
	manager.ReportProgress("email-1", model.StateCategorizing, "")

	// Verify
	for _, ch := range []chan []byte{first, second} {
		event := receive(t, ch)
		assert.Equal(t, EventProgress, event["type"])
		data := event["data"].(map[string]interface{})
		assert.Equal(t, "email-1", data["email_id"])
		assert.Equal(t, "categorizing", data["state"])
	}

	manager.RemoveClient(first)
	assert.Equal(t, 1, manager.ClientCount())
	_, open := <-first
	assert.False(t, open)
}

func TestSSEManagerSlowClientDoesNotBlock(t *testing.T) {
	manager := NewSSEManager(logger.NewWithWriter(io.Discard))
	defer manager.Close()
	manager.AddClient()

	finished := make(chan struct{})
	go func() {
		for i := 0; i < clientBuffer*4; i++ {
			manager.Broadcast(EventSummary, i)
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked on a slow client")
	}
}

func TestSSEManagerClose(t *testing.T) {
	manager := NewSSEManager(logger.NewWithWriter(io.Discard))
	ch := manager.AddClient()

	manager.Close()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, manager.ClientCount())
	manager.Broadcast(EventSummary, "ignored")
}
