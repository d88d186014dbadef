// Package network bridges connected players to session state: it owns
// the websocket endpoint, the per-connection read/write pumps, the
// inbound message dispatcher, and the per-session broadcast loop.
package network

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/fusebox-party/fusebox/pkg/game"
	"github.com/fusebox-party/fusebox/pkg/log"
	"github.com/fusebox-party/fusebox/pkg/messages"
	"github.com/fusebox-party/fusebox/pkg/random"
	"github.com/fusebox-party/fusebox/pkg/sessions"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// WSServer accepts websocket connections and wires them into sessions.
type WSServer struct {
	registry *sessions.Registry
	upgrader websocket.Upgrader
	logger   *log.Logger

	loopMu sync.Mutex
	loops  map[string]bool
}

// NewWSServerOptions contains options for creating a new WSServer.
type NewWSServerOptions struct {
	Registry *sessions.Registry
	// AllowedOrigin restricts cross-origin upgrades; "*" allows any.
	AllowedOrigin string
}

// NewWSServer creates a new websocket server.
func NewWSServer(opts NewWSServerOptions) *WSServer {
	allowed := opts.AllowedOrigin
	return &WSServer{
		registry: opts.Registry,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowed == "" || allowed == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowed
			},
		},
		logger: log.WithComponent("network"),
		loops:  make(map[string]bool),
	}
}

// HandleConnection is the handler for the /ws/{sessionID} route.
func (s *WSServer) HandleConnection(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionID"]
	session, err := s.registry.Get(sessionID)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade to WebSocket: %v", err)
		return
	}

	// The host reconnecting with its token reuses the known host id;
	// everyone else gets a fresh one.
	playerID := random.NewID()
	if session.AuthorizeHost(r.URL.Query().Get("token")) {
		playerID = session.HostID()
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = fmt.Sprintf("Player-%.8s", playerID)
	}

	conn := newConn(playerID, ws)
	session.AddPlayer(playerID, name, conn)
	s.logger.Info("Player %s (%s) joined session %s", playerID, name, sessionID)

	go conn.writePump()

	if snapshot, ok := session.BombSnapshot(); ok {
		// Joining mid-game: push the current role view directly and
		// make sure the broadcast loop is running.
		s.pushRoleView(session, playerID, conn, snapshot)
		s.ensureBroadcastLoop(session)
	} else {
		s.broadcastLobby(session)
	}

	conn.readPump(func(msg *messages.Message) {
		s.handleMessage(session, playerID, conn, msg)
	}, func() {
		session.RemovePlayer(playerID)
		s.logger.Info("Player %s left session %s", playerID, sessionID)
		if session.State() == game.StateWaiting {
			s.broadcastLobby(session)
		}
	})
}
