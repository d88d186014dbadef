package sessions

import (
	"sync"
	"testing"
	"time"

	"github.com/fusebox-party/fusebox/pkg/bomb"
	"github.com/fusebox-party/fusebox/pkg/game"
	"github.com/fusebox-party/fusebox/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopConn struct{}

func (noopConn) TrySend(*messages.Message) bool { return true }
func (noopConn) Close()                         {}

func TestCreateAndGet(t *testing.T) {
	r := NewRegistry()

	created, err := r.Create()
	require.NoError(t, err)
	assert.NotEmpty(t, created.HostID)
	assert.Len(t, created.HostToken, hostTokenLength)
	assert.Equal(t, game.StateWaiting, created.Session.State())

	got, err := r.Get(created.Session.ID())
	require.NoError(t, err)
	assert.Same(t, created.Session, got)
}

func TestGet_UnknownID(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	r := NewRegistry()
	created, err := r.Create()
	require.NoError(t, err)

	r.Remove(created.Session.ID())

	_, err = r.Get(created.Session.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, r.Count())
}

func TestTickAll_AdvancesActiveSessions(t *testing.T) {
	r := NewRegistry()
	created, err := r.Create()
	require.NoError(t, err)

	session := created.Session
	require.NoError(t, session.SetTimeLimit(30*time.Second))
	session.AddPlayer(created.HostID, "host", noopConn{})
	session.AddPlayer("p2", "p2", noopConn{})
	require.NoError(t, session.StartGame())

	r.TickAll(time.Now().Add(31 * time.Second))

	snap, ok := session.BombSnapshot()
	require.True(t, ok)
	assert.Equal(t, bomb.StateExploded, snap.State)
}

func TestConcurrentCreateAndGet(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	ids := make(chan string, 64)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 8; j++ {
				created, err := r.Create()
				assert.NoError(t, err)
				ids <- created.Session.ID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate session id %s", id)
		seen[id] = true
		_, err := r.Get(id)
		assert.NoError(t, err)
	}
	assert.Equal(t, 64, r.Count())
}
