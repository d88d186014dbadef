package game

import (
	"time"

	"github.com/fusebox-party/fusebox/pkg/messages"
)

// PlayerType is the role a player holds during an active game.
type PlayerType string

const (
	PlayerTypeDefuser PlayerType = "defuser"
	PlayerTypeExpert  PlayerType = "expert"
)

// Conn is the outbound handle a player's connection exposes to the
// session layer. Sends are best-effort and must never block.
type Conn interface {
	TrySend(msg *messages.Message) bool
	Close()
}

// Player is one connected participant.
type Player struct {
	ID       string
	Name     string
	Type     PlayerType
	JoinedAt time.Time
	Conn     Conn

	// joinSeq orders players by arrival without depending on clock
	// resolution.
	joinSeq int
}

// PlayerInfo is a copy-safe view of a player for listings.
type PlayerInfo struct {
	ID       string
	Name     string
	Type     PlayerType
	JoinedAt time.Time
	IsHost   bool
}

// Endpoint is the minimal per-player handle a broadcast needs: identity,
// role, and somewhere to push messages.
type Endpoint struct {
	ID   string
	Type PlayerType
	Conn Conn
}
