package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/fusebox-party/fusebox/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutbox_PreservesEnqueueOrder(t *testing.T) {
	q := NewOutbox(4)

	for _, msgType := range []string{"a", "b", "c"} {
		require.True(t, q.TryEnqueue(&messages.Message{Type: msgType}))
	}

	assert.Equal(t, "a", (<-q.Messages()).Type)
	assert.Equal(t, "b", (<-q.Messages()).Type)
	assert.Equal(t, "c", (<-q.Messages()).Type)
}

func TestOutbox_DropsWhenFullWithoutBlocking(t *testing.T) {
	q := NewOutbox(2)
	require.True(t, q.TryEnqueue(&messages.Message{Type: "a"}))
	require.True(t, q.TryEnqueue(&messages.Message{Type: "b"}))

	done := make(chan bool, 1)
	go func() {
		done <- q.TryEnqueue(&messages.Message{Type: "c"})
	}()

	select {
	case ok := <-done:
		assert.False(t, ok, "enqueue on a full queue must report a drop")
	case <-time.After(time.Second):
		t.Fatal("enqueue on a full queue blocked")
	}

	assert.Equal(t, int64(1), q.Dropped())
	assert.Equal(t, 2, q.Size())
}

func TestOutbox_CloseRejectsAndIsIdempotent(t *testing.T) {
	q := NewOutbox(2)
	require.True(t, q.TryEnqueue(&messages.Message{Type: "a"}))

	q.Close()
	q.Close()

	assert.False(t, q.TryEnqueue(&messages.Message{Type: "b"}))

	// Queued messages drain, then the channel reports closed.
	msg, ok := <-q.Messages()
	require.True(t, ok)
	assert.Equal(t, "a", msg.Type)
	_, ok = <-q.Messages()
	assert.False(t, ok)
}

func TestOutbox_ConcurrentEnqueue(t *testing.T) {
	q := NewOutbox(1024)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.TryEnqueue(&messages.Message{Type: "m"})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, q.Size())
	assert.Equal(t, int64(0), q.Dropped())
}
