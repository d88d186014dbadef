// Package game holds the per-session state machine: the lobby, the
// player roster, role assignment, and the owned bomb while a game is
// active. All public methods are serialized against the session's own
// lock; callers never observe partial state.
package game

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/fusebox-party/fusebox/pkg/bomb"
	"github.com/fusebox-party/fusebox/pkg/random"
	"github.com/fusebox-party/fusebox/pkg/rules"
)

// State is the session lobby state.
type State string

const (
	StateWaiting State = "waiting"
	StateActive  State = "active"
)

const (
	// MinModuleCount and MaxModuleCount bound the configurable module
	// count.
	MinModuleCount = 1
	MaxModuleCount = 6

	// MinTimeLimit and MaxTimeLimit bound the configurable countdown.
	MinTimeLimit = 30 * time.Second
	MaxTimeLimit = 3600 * time.Second

	// DefaultModuleCount and DefaultTimeLimit are the lobby defaults.
	DefaultModuleCount = 3
	DefaultTimeLimit   = 300 * time.Second

	// MinPlayers is the roster size required to start a game.
	MinPlayers = 2
)

// GameSession is one lobby and, while active, its bomb.
type GameSession struct {
	mu sync.RWMutex

	id        string
	hostID    string
	hostToken string

	state         State
	players       map[string]*Player
	nextJoinSeq   int
	moduleCount   int
	timeLimit     time.Duration
	defuserID     string
	randomDefuser bool

	bomb *bomb.Bomb

	seedFn func() int64
}

// NewGameSessionOptions contains options for creating a new GameSession.
type NewGameSessionOptions struct {
	ID        string
	HostID    string
	HostToken string
	// SeedFn overrides the master seed source; nil uses the wall clock.
	SeedFn func() int64
}

// NewGameSession creates a session in the Waiting state with default
// lobby settings.
func NewGameSession(opts NewGameSessionOptions) *GameSession {
	seedFn := opts.SeedFn
	if seedFn == nil {
		seedFn = func() int64 { return time.Now().UnixNano() }
	}
	return &GameSession{
		id:            opts.ID,
		hostID:        opts.HostID,
		hostToken:     opts.HostToken,
		state:         StateWaiting,
		players:       make(map[string]*Player),
		moduleCount:   DefaultModuleCount,
		timeLimit:     DefaultTimeLimit,
		randomDefuser: true,
		seedFn:        seedFn,
	}
}

// ID returns the session identifier.
func (s *GameSession) ID() string { return s.id }

// HostID returns the host's player id.
func (s *GameSession) HostID() string { return s.hostID }

// AuthorizeHost reports whether the given token is the host token.
func (s *GameSession) AuthorizeHost(token string) bool {
	return token != "" && token == s.hostToken
}

// State returns the current lobby state.
func (s *GameSession) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// AddPlayer registers a player. Re-adding an id replaces the previous
// connection handle but keeps the original join order.
func (s *GameSession) AddPlayer(id, name string, conn Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.players[id]; ok {
		existing.Name = name
		existing.Conn = conn
		return
	}
	s.nextJoinSeq++
	s.players[id] = &Player{
		ID:       id,
		Name:     name,
		Type:     PlayerTypeExpert,
		JoinedAt: time.Now(),
		Conn:     conn,
		joinSeq:  s.nextJoinSeq,
	}
}

// RemovePlayer drops a player from the roster. Removing an unknown id
// is a no-op.
func (s *GameSession) RemovePlayer(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
}

// PlayerCount returns the roster size.
func (s *GameSession) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

// SetModuleCount updates the lobby module count.
func (s *GameSession) SetModuleCount(n int) error {
	if n < MinModuleCount || n > MaxModuleCount {
		return ErrInvalidConfig
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moduleCount = n
	return nil
}

// SetTimeLimit updates the lobby countdown.
func (s *GameSession) SetTimeLimit(d time.Duration) error {
	if d < MinTimeLimit || d > MaxTimeLimit {
		return ErrInvalidConfig
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeLimit = d
	return nil
}

// SetDefuser records the lobby defuser preference. The id is not
// validated against the roster; it is resolved at start time.
func (s *GameSession) SetDefuser(id string, isRandom bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defuserID = id
	s.randomDefuser = isRandom
}

// StartGame transitions Waiting to Active: resolves the defuser,
// assigns roles, and constructs the bomb, all atomically under the
// session lock.
func (s *GameSession) StartGame() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateWaiting {
		return ErrInvalidState
	}
	if len(s.players) < MinPlayers {
		return ErrNotEnoughPlayers
	}

	defuserID := s.defuserID
	if s.randomDefuser || defuserID == "" || s.players[defuserID] == nil {
		ids := make([]string, 0, len(s.players))
		for id := range s.players {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		defuserID = ids[rand.Intn(len(ids))]
	}

	for id, p := range s.players {
		if id == defuserID {
			p.Type = PlayerTypeDefuser
		} else {
			p.Type = PlayerTypeExpert
		}
	}
	s.defuserID = defuserID
	s.bomb = bomb.New(random.NewID(), s.timeLimit, s.moduleCount, s.seedFn(), time.Now())
	s.state = StateActive
	return nil
}

// ReturnToLobby transitions Active back to Waiting, discarding the
// bomb and resetting every player to the default role.
func (s *GameSession) ReturnToLobby() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return ErrInvalidState
	}
	s.bomb = nil
	for _, p := range s.players {
		p.Type = PlayerTypeExpert
	}
	s.state = StateWaiting
	return nil
}

// Update advances the bomb countdown from wall-clock time. No-op
// without a bomb.
func (s *GameSession) Update(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bomb != nil {
		s.bomb.Tick(now)
	}
}

// Attempt routes a puzzle action into the bomb under the session lock.
func (s *GameSession) Attempt(moduleIndex int, act bomb.Action, now time.Time) (bomb.AttemptResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive || s.bomb == nil {
		return bomb.AttemptResult{}, ErrInvalidState
	}
	return s.bomb.Attempt(moduleIndex, act, now), nil
}

// LobbyInfo is a copy of the session's lobby configuration.
type LobbyInfo struct {
	ID            string
	State         State
	HostID        string
	PlayerCount   int
	ModuleCount   int
	TimeLimit     time.Duration
	DefuserID     string
	RandomDefuser bool
}

// GetLobbyInfo returns a snapshot of the lobby configuration.
func (s *GameSession) GetLobbyInfo() LobbyInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return LobbyInfo{
		ID:            s.id,
		State:         s.state,
		HostID:        s.hostID,
		PlayerCount:   len(s.players),
		ModuleCount:   s.moduleCount,
		TimeLimit:     s.timeLimit,
		DefuserID:     s.defuserID,
		RandomDefuser: s.randomDefuser,
	}
}

// GetPlayersCopy returns the player listing in display order: host
// first, then remaining players by join order, most recent first.
func (s *GameSession) GetPlayersCopy() []PlayerInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		if (players[i].ID == s.hostID) != (players[j].ID == s.hostID) {
			return players[i].ID == s.hostID
		}
		return players[i].joinSeq > players[j].joinSeq
	})

	infos := make([]PlayerInfo, 0, len(players))
	for _, p := range players {
		infos = append(infos, PlayerInfo{
			ID:       p.ID,
			Name:     p.Name,
			Type:     p.Type,
			JoinedAt: p.JoinedAt,
			IsHost:   p.ID == s.hostID,
		})
	}
	return infos
}

// Endpoints returns a snapshot of every player's id, role and outbound
// handle, for pushing broadcasts outside the lock.
func (s *GameSession) Endpoints() []Endpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	endpoints := make([]Endpoint, 0, len(s.players))
	for _, p := range s.players {
		if p.Conn == nil {
			continue
		}
		endpoints = append(endpoints, Endpoint{ID: p.ID, Type: p.Type, Conn: p.Conn})
	}
	return endpoints
}

// PlayerType returns the role of the given player.
func (s *GameSession) PlayerType(id string) (PlayerType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return "", false
	}
	return p.Type, true
}

// BombSnapshot returns a copy of the bomb state, if a bomb exists.
func (s *GameSession) BombSnapshot() (bomb.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bomb == nil {
		return bomb.Snapshot{}, false
	}
	return s.bomb.Snapshot(), true
}

// Manuals returns the expert manuals keyed by module key, if a bomb
// exists.
func (s *GameSession) Manuals() (map[string]rules.Manual, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bomb == nil {
		return nil, false
	}
	return s.bomb.Manuals(), true
}

// Bomb returns the owned bomb. Only tests and in-lock callers should
// reach for the live aggregate; everything else uses snapshots.
func (s *GameSession) Bomb() *bomb.Bomb {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bomb
}
