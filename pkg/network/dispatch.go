package network

import (
	"encoding/json"
	"time"

	"github.com/fusebox-party/fusebox/pkg/bomb"
	"github.com/fusebox-party/fusebox/pkg/game"
	"github.com/fusebox-party/fusebox/pkg/log"
	"github.com/fusebox-party/fusebox/pkg/messages"
)

// handleMessage routes one inbound frame. Unauthorized and
// out-of-state messages are dropped silently; only host validation
// failures get an explicit error frame back.
func (s *WSServer) handleMessage(session *game.GameSession, playerID string, reply game.Conn, msg *messages.Message) {
	switch msg.Type {
	case messages.MessageTypeClientPing:
		pong, _ := messages.New(messages.MessageTypeServerPong, nil)
		reply.TrySend(pong)

	case messages.MessageTypeClientCutWire:
		var payload messages.ClientCutWire
		if !decode(msg, &payload) {
			return
		}
		s.attempt(session, payload.ModuleIndex, bomb.CutWire{Wire: payload.Wire}, messages.MessageTypeServerWireCutResult)

	case messages.MessageTypeClientPressButton:
		var payload messages.ClientPressButton
		if !decode(msg, &payload) {
			return
		}
		s.attempt(session, payload.ModuleIndex, bomb.PressButton{}, messages.MessageTypeServerButtonResult)

	case messages.MessageTypeClientHoldButton:
		var payload messages.ClientHoldButton
		if !decode(msg, &payload) {
			return
		}
		s.attempt(session, payload.ModuleIndex, bomb.HoldButton{}, messages.MessageTypeServerButtonResult)

	case messages.MessageTypeClientReleaseButton:
		var payload messages.ClientReleaseButton
		if !decode(msg, &payload) {
			return
		}
		s.attempt(session, payload.ModuleIndex, bomb.ReleaseButton{}, messages.MessageTypeServerButtonResult)

	case messages.MessageTypeClientTerminalCommand:
		var payload messages.ClientTerminalCommand
		if !decode(msg, &payload) {
			return
		}
		s.attempt(session, payload.ModuleIndex, bomb.EnterCommand{Command: payload.Command}, messages.MessageTypeServerTerminalResult)

	case messages.MessageTypeClientUpdateSettings:
		if playerID != session.HostID() {
			return
		}
		var payload messages.ClientUpdateSettings
		if !decode(msg, &payload) {
			return
		}
		s.updateSettings(session, reply, payload)

	case messages.MessageTypeClientStartGame:
		if playerID != session.HostID() {
			return
		}
		if err := session.StartGame(); err != nil {
			sendError(reply, "start_failed", err.Error())
			return
		}
		s.AnnounceGameStart(session)

	case messages.MessageTypeClientReturnToLobby:
		if playerID != session.HostID() {
			return
		}
		if err := session.ReturnToLobby(); err != nil {
			sendError(reply, "return_failed", err.Error())
			return
		}
		s.AnnounceReturnToLobby(session)

	default:
		s.logger.Debug("Dropping unknown message type %q from player %s", msg.Type, playerID)
	}
}

// attempt routes a puzzle action into the session and broadcasts the
// result to every connection.
func (s *WSServer) attempt(session *game.GameSession, moduleIndex int, act bomb.Action, resultType string) {
	result, err := session.Attempt(moduleIndex, act, time.Now())
	if err != nil {
		// Not active: best-effort channel, drop silently.
		return
	}

	resultMsg, err := messages.New(resultType, messages.ActionResultFromAttempt(result))
	if err != nil {
		s.logger.Error("Failed to build %s message: %v", resultType, err)
		return
	}
	s.broadcastAll(session, resultMsg)

	// Push fresh role views immediately so a solve, strike or terminal
	// state is visible before the next loop tick.
	if snapshot, ok := session.BombSnapshot(); ok {
		s.pushRoleViews(session, snapshot)
	}
}

func (s *WSServer) updateSettings(session *game.GameSession, reply game.Conn, payload messages.ClientUpdateSettings) {
	if payload.ModuleCount != nil {
		if err := session.SetModuleCount(*payload.ModuleCount); err != nil {
			sendError(reply, "invalid_module_count", err.Error())
			return
		}
	}
	if payload.TimeLimitSeconds != nil {
		if err := session.SetTimeLimit(time.Duration(*payload.TimeLimitSeconds) * time.Second); err != nil {
			sendError(reply, "invalid_time_limit", err.Error())
			return
		}
	}
	if payload.DefuserID != nil || payload.RandomDefuser != nil {
		info := session.GetLobbyInfo()
		defuserID := info.DefuserID
		randomDefuser := info.RandomDefuser
		if payload.DefuserID != nil {
			defuserID = *payload.DefuserID
		}
		if payload.RandomDefuser != nil {
			randomDefuser = *payload.RandomDefuser
		}
		session.SetDefuser(defuserID, randomDefuser)
	}
	s.broadcastLobby(session)
}

func decode(msg *messages.Message, v interface{}) bool {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		log.Debug("Dropping malformed %s payload: %v", msg.Type, err)
		return false
	}
	return true
}

func sendError(reply game.Conn, code, message string) {
	errMsg, err := messages.New(messages.MessageTypeServerError, messages.ServerError{Code: code, Message: message})
	if err != nil {
		return
	}
	reply.TrySend(errMsg)
}
