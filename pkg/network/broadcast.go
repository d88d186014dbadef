package network

import (
	"time"

	"github.com/fusebox-party/fusebox/pkg/bomb"
	"github.com/fusebox-party/fusebox/pkg/game"
	"github.com/fusebox-party/fusebox/pkg/messages"
)

// broadcastInterval is the cadence of the per-session state push.
const broadcastInterval = time.Second

// broadcastAll pushes one message to every connected player. Pushes
// are independent; a slow connection only drops its own copy.
func (s *WSServer) broadcastAll(session *game.GameSession, msg *messages.Message) {
	for _, endpoint := range session.Endpoints() {
		endpoint.Conn.TrySend(msg)
	}
}

// broadcastLobby pushes the current lobby view to every connection.
func (s *WSServer) broadcastLobby(session *game.GameSession) {
	msg, err := messages.New(messages.MessageTypeServerLobbyUpdate, lobbyUpdate(session))
	if err != nil {
		s.logger.Error("Failed to build lobby update: %v", err)
		return
	}
	s.broadcastAll(session, msg)
}

// lobbyUpdate builds the lobby view from session snapshots.
func lobbyUpdate(session *game.GameSession) messages.ServerLobbyUpdate {
	info := session.GetLobbyInfo()
	update := messages.ServerLobbyUpdate{
		SessionID:        info.ID,
		State:            string(info.State),
		HostID:           info.HostID,
		ModuleCount:      info.ModuleCount,
		TimeLimitSeconds: int(info.TimeLimit / time.Second),
		DefuserID:        info.DefuserID,
		RandomDefuser:    info.RandomDefuser,
	}
	for _, p := range session.GetPlayersCopy() {
		update.Players = append(update.Players, messages.PlayerInfo{
			ID:     p.ID,
			Name:   p.Name,
			Type:   string(p.Type),
			IsHost: p.IsHost,
		})
	}
	return update
}

// announceGameStart broadcasts the lobby-to-active transition and the
// initial role views.
func (s *WSServer) announceGameStart(session *game.GameSession) {
	info := session.GetLobbyInfo()
	starting, err := messages.New(messages.MessageTypeServerGameStarting, messages.ServerGameStarting{
		DefuserID:        info.DefuserID,
		TimeLimitSeconds: int(info.TimeLimit / time.Second),
		ModuleCount:      info.ModuleCount,
	})
	if err != nil {
		s.logger.Error("Failed to build game starting message: %v", err)
		return
	}
	s.broadcastAll(session, starting)

	if snapshot, ok := session.BombSnapshot(); ok {
		s.pushRoleViews(session, snapshot)
	}
}

// pushRoleViews pushes the role-specific state snapshot to every
// connection: defusers see the raw bomb, experts see manuals plus the
// bomb.
func (s *WSServer) pushRoleViews(session *game.GameSession, snapshot bomb.Snapshot) {
	for _, endpoint := range session.Endpoints() {
		s.pushRoleView(session, endpoint.ID, endpoint.Conn, snapshot)
	}
}

// pushRoleView pushes the state snapshot to a single connection, shaped
// for that player's role.
func (s *WSServer) pushRoleView(session *game.GameSession, playerID string, conn game.Conn, snapshot bomb.Snapshot) {
	playerType, ok := session.PlayerType(playerID)
	if !ok {
		return
	}

	if playerType == game.PlayerTypeDefuser {
		msg, err := messages.New(messages.MessageTypeServerGameState, messages.ServerGameState{Bomb: snapshot})
		if err != nil {
			s.logger.Error("Failed to build game state: %v", err)
			return
		}
		conn.TrySend(msg)
		return
	}

	manuals, ok := session.Manuals()
	if !ok {
		return
	}
	content := messages.ServerManualContent{Bomb: snapshot}
	for _, module := range snapshot.Modules {
		if manual, ok := manuals[module.Key]; ok {
			content.Manuals = append(content.Manuals, messages.FlattenManual(module.Key, manual))
		}
	}
	msg, err := messages.New(messages.MessageTypeServerManualContent, content)
	if err != nil {
		s.logger.Error("Failed to build manual content: %v", err)
		return
	}
	conn.TrySend(msg)
}

// AnnounceGameStart broadcasts the game start and begins the periodic
// state push. Exposed for the REST surface, which shares the websocket
// fan-out.
func (s *WSServer) AnnounceGameStart(session *game.GameSession) {
	s.announceGameStart(session)
	s.ensureBroadcastLoop(session)
}

// BroadcastLobby pushes the current lobby view to every connection.
// Exposed for the REST surface.
func (s *WSServer) BroadcastLobby(session *game.GameSession) {
	s.broadcastLobby(session)
}

// AnnounceReturnToLobby broadcasts the active-to-lobby transition.
// Exposed for the REST surface.
func (s *WSServer) AnnounceReturnToLobby(session *game.GameSession) {
	returned, err := messages.New(messages.MessageTypeServerReturnedToLobby, nil)
	if err != nil {
		s.logger.Error("Failed to build returned to lobby message: %v", err)
		return
	}
	s.broadcastAll(session, returned)
	s.broadcastLobby(session)
}

// ensureBroadcastLoop starts the per-session broadcast loop if it is
// not already running. The loop ticks once per second, advances the
// session timer, pushes role views, and terminates itself once the
// bomb leaves the active state.
func (s *WSServer) ensureBroadcastLoop(session *game.GameSession) {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	if s.loops[session.ID()] {
		return
	}
	s.loops[session.ID()] = true

	go func() {
		defer func() {
			s.loopMu.Lock()
			delete(s.loops, session.ID())
			s.loopMu.Unlock()
		}()

		ticker := time.NewTicker(broadcastInterval)
		defer ticker.Stop()

		for now := range ticker.C {
			session.Update(now)
			snapshot, ok := session.BombSnapshot()
			if !ok {
				return
			}
			s.pushRoleViews(session, snapshot)
			if snapshot.State != bomb.StateActive {
				s.logger.Info("Session %s bomb reached state %s, stopping broadcast loop", session.ID(), snapshot.State)
				return
			}
		}
	}()
}
