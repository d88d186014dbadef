// Package sessions owns the process-wide map of live game sessions.
// The registry's lock only guards the map itself; each session carries
// its own lock, so unrelated sessions never serialize behind each
// other.
package sessions

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fusebox-party/fusebox/pkg/game"
	"github.com/fusebox-party/fusebox/pkg/random"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// hostTokenLength is the length of generated host tokens.
const hostTokenLength = 32

// Registry maps session ids to live sessions. Construct one at process
// start and pass it by reference; there is no package-level instance.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*game.GameSession
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*game.GameSession),
	}
}

// CreateResult carries the identifiers a newly created session's host
// needs to reconnect and administer it.
type CreateResult struct {
	Session   *game.GameSession
	HostID    string
	HostToken string
}

// Create mints a new session with a fresh id, host id and host token.
func (r *Registry) Create() (CreateResult, error) {
	hostToken, err := random.GenerateToken(hostTokenLength)
	if err != nil {
		return CreateResult{}, fmt.Errorf("failed to generate host token: %v", err)
	}

	session := game.NewGameSession(game.NewGameSessionOptions{
		ID:        random.NewID(),
		HostID:    random.NewID(),
		HostToken: hostToken,
	})

	r.mu.Lock()
	r.sessions[session.ID()] = session
	r.mu.Unlock()

	return CreateResult{
		Session:   session,
		HostID:    session.HostID(),
		HostToken: hostToken,
	}, nil
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*game.GameSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return session, nil
}

// Remove drops a session from the registry. Nothing in the server path
// calls this yet; it exists for tests and a future eviction sweep.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// TickAll advances every session's timer. The snapshot-then-tick shape
// keeps the registry lock out of the per-session work.
func (r *Registry) TickAll(now time.Time) {
	r.mu.RLock()
	sessions := make([]*game.GameSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	for _, s := range sessions {
		s.Update(now)
	}
}
