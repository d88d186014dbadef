// Package messages defines the tagged JSON envelope and the typed
// payloads exchanged over the streaming channel. This is the only
// package that flattens the per-kind manual union into a generic
// document.
package messages

import (
	"encoding/json"
	"fmt"
)

// Inbound message types (client to server).
const (
	MessageTypeClientCutWire         = "cut_wire"
	MessageTypeClientPressButton     = "press_button"
	MessageTypeClientHoldButton      = "hold_button"
	MessageTypeClientReleaseButton   = "release_button"
	MessageTypeClientTerminalCommand = "terminal_command"
	MessageTypeClientUpdateSettings  = "update_settings"
	MessageTypeClientStartGame       = "start_game"
	MessageTypeClientReturnToLobby   = "return_to_lobby"
	MessageTypeClientPing            = "ping"
)

// Outbound message types (server to client).
const (
	MessageTypeServerLobbyUpdate     = "lobby_update"
	MessageTypeServerGameStarting    = "game_starting"
	MessageTypeServerReturnedToLobby = "returned_to_lobby"
	MessageTypeServerGameState       = "game_state"
	MessageTypeServerManualContent   = "manual_content"
	MessageTypeServerWireCutResult   = "wire_cut_result"
	MessageTypeServerButtonResult    = "button_result"
	MessageTypeServerTerminalResult  = "terminal_result"
	MessageTypeServerPong            = "pong"
	MessageTypeServerError           = "error"
)

// Message is the generic envelope for the streaming channel.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// New marshals the payload and wraps it in an envelope.
func New(msgType string, payload interface{}) (*Message, error) {
	if payload == nil {
		return &Message{Type: msgType}, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %v", msgType, err)
	}
	return &Message{Type: msgType, Payload: b}, nil
}
