package clients

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatcut/beatcut/internal/progress"
)

func TestRegisterAndSend(t *testing.T) {
	registry := NewRegistry()
	ch := registry.Register("client-1")

	registry.Send("client-1", progress.Event{Type: progress.TypeStatus, Message: "hello"})

	require.Len(t, ch, 1)
	event := <-ch
	assert.Equal(t, "hello", event.Message)
}

func TestSendToAbsentClientIsDropped(t *testing.T) {
	registry := NewRegistry()

	// Must not panic or block.
	registry.Send("nobody", progress.Event{Type: progress.TypeStatus})

	assert.Equal(t, 0, registry.Count())
}

func TestSendToFullChannelIsDropped(t *testing.T) {
	registry := NewRegistry()
	ch := registry.Register("client-1")

	for i := 0; i < eventBuffer+10; i++ {
		registry.Send("client-1", progress.Event{Type: progress.TypeProgressUpdate})
	}

	assert.Len(t, ch, eventBuffer)
}

func TestUnregisterClosesChannel(t *testing.T) {
	registry := NewRegistry()
	ch := registry.Register("client-1")

	registry.Unregister("client-1")

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, registry.Count())

	// Events after unregister go nowhere.
	registry.Send("client-1", progress.Event{Type: progress.TypeStatus})
}

func TestSendDuringUnregisterDoesNotPanic(t *testing.T) {
	registry := NewRegistry()

	// A pipeline goroutine keeps sending while the SSE handler disconnects
	// and tears the channel down. The send must never hit a closed channel.
	for i := 0; i < 100; i++ {
		registry.Register("client-1")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				registry.Send("client-1", progress.Event{Type: progress.TypeProgressUpdate})
			}
		}()
		go func() {
			defer wg.Done()
			registry.Unregister("client-1")
		}()
		wg.Wait()
	}

	assert.Equal(t, 0, registry.Count())
}

func TestReregisterReplacesChannel(t *testing.T) {
	registry := NewRegistry()
	first := registry.Register("client-1")
	second := registry.Register("client-1")

	_, open := <-first
	assert.False(t, open, "first channel should be closed on re-register")

	registry.Send("client-1", progress.Event{Type: progress.TypeStatus, Message: "again"})
	require.Len(t, second, 1)
	assert.Equal(t, 1, registry.Count())
}
