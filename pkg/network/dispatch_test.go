package network

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fusebox-party/fusebox/pkg/game"
	"github.com/fusebox-party/fusebox/pkg/messages"
	"github.com/fusebox-party/fusebox/pkg/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingConn captures pushed messages for assertions.
type recordingConn struct {
	sent []*messages.Message
}

func (c *recordingConn) TrySend(msg *messages.Message) bool {
	c.sent = append(c.sent, msg)
	return true
}

func (c *recordingConn) Close() {}

func (c *recordingConn) typesSent() []string {
	types := make([]string, 0, len(c.sent))
	for _, msg := range c.sent {
		types = append(types, msg.Type)
	}
	return types
}

func (c *recordingConn) lastOfType(t *testing.T, msgType string) *messages.Message {
	t.Helper()
	for i := len(c.sent) - 1; i >= 0; i-- {
		if c.sent[i].Type == msgType {
			return c.sent[i]
		}
	}
	t.Fatalf("no %s message sent", msgType)
	return nil
}

func newTestServer(t *testing.T) (*WSServer, *game.GameSession, string) {
	t.Helper()
	registry := sessions.NewRegistry()
	created, err := registry.Create()
	require.NoError(t, err)
	server := NewWSServer(NewWSServerOptions{Registry: registry, AllowedOrigin: "*"})
	return server, created.Session, created.HostID
}

func clientMessage(t *testing.T, msgType string, payload interface{}) *messages.Message {
	t.Helper()
	msg, err := messages.New(msgType, payload)
	require.NoError(t, err)
	return msg
}

func TestHandleMessage_Ping(t *testing.T) {
	server, session, hostID := newTestServer(t)
	conn := &recordingConn{}
	session.AddPlayer(hostID, "host", conn)

	server.handleMessage(session, hostID, conn, clientMessage(t, messages.MessageTypeClientPing, nil))

	assert.Equal(t, []string{messages.MessageTypeServerPong}, conn.typesSent())
}

func TestHandleMessage_StartGameRequiresHost(t *testing.T) {
	server, session, hostID := newTestServer(t)
	hostConn := &recordingConn{}
	otherConn := &recordingConn{}
	session.AddPlayer(hostID, "host", hostConn)
	session.AddPlayer("p2", "p2", otherConn)

	server.handleMessage(session, "p2", otherConn, clientMessage(t, messages.MessageTypeClientStartGame, nil))

	assert.Equal(t, game.StateWaiting, session.State())
	assert.Empty(t, otherConn.sent)
}

func TestHandleMessage_StartGameBroadcasts(t *testing.T) {
	server, session, hostID := newTestServer(t)
	hostConn := &recordingConn{}
	otherConn := &recordingConn{}
	session.AddPlayer(hostID, "host", hostConn)
	session.AddPlayer("p2", "p2", otherConn)

	server.handleMessage(session, hostID, hostConn, clientMessage(t, messages.MessageTypeClientStartGame, nil))

	assert.Equal(t, game.StateActive, session.State())
	for _, conn := range []*recordingConn{hostConn, otherConn} {
		types := conn.typesSent()
		require.NotEmpty(t, types)
		assert.Equal(t, messages.MessageTypeServerGameStarting, types[0])
		// Every player gets exactly one role view after the announcement.
		assert.Len(t, types, 2)
	}

	defuser, expert := hostConn, otherConn
	if role, _ := session.PlayerType("p2"); role == game.PlayerTypeDefuser {
		defuser, expert = otherConn, hostConn
	}
	assert.Equal(t, messages.MessageTypeServerGameState, defuser.sent[1].Type)
	assert.Equal(t, messages.MessageTypeServerManualContent, expert.sent[1].Type)

	var content messages.ServerManualContent
	require.NoError(t, json.Unmarshal(expert.sent[1].Payload, &content))
	assert.Len(t, content.Manuals, game.DefaultModuleCount)
}

func TestHandleMessage_StartGameNotEnoughPlayers(t *testing.T) {
	server, session, hostID := newTestServer(t)
	hostConn := &recordingConn{}
	session.AddPlayer(hostID, "host", hostConn)

	server.handleMessage(session, hostID, hostConn, clientMessage(t, messages.MessageTypeClientStartGame, nil))

	assert.Equal(t, game.StateWaiting, session.State())
	errMsg := hostConn.lastOfType(t, messages.MessageTypeServerError)
	var payload messages.ServerError
	require.NoError(t, json.Unmarshal(errMsg.Payload, &payload))
	assert.Equal(t, "start_failed", payload.Code)
}

func TestHandleMessage_UpdateSettings(t *testing.T) {
	server, session, hostID := newTestServer(t)
	hostConn := &recordingConn{}
	otherConn := &recordingConn{}
	session.AddPlayer(hostID, "host", hostConn)
	session.AddPlayer("p2", "p2", otherConn)

	moduleCount := 5
	timeLimit := 120
	server.handleMessage(session, hostID, hostConn, clientMessage(t, messages.MessageTypeClientUpdateSettings, messages.ClientUpdateSettings{
		ModuleCount:      &moduleCount,
		TimeLimitSeconds: &timeLimit,
	}))

	info := session.GetLobbyInfo()
	assert.Equal(t, 5, info.ModuleCount)
	assert.Equal(t, 120*time.Second, info.TimeLimit)

	update := otherConn.lastOfType(t, messages.MessageTypeServerLobbyUpdate)
	var payload messages.ServerLobbyUpdate
	require.NoError(t, json.Unmarshal(update.Payload, &payload))
	assert.Equal(t, 5, payload.ModuleCount)
	assert.Equal(t, 120, payload.TimeLimitSeconds)
	require.Len(t, payload.Players, 2)
	assert.True(t, payload.Players[0].IsHost)
}

func TestHandleMessage_UpdateSettingsRejectsInvalid(t *testing.T) {
	server, session, hostID := newTestServer(t)
	hostConn := &recordingConn{}
	session.AddPlayer(hostID, "host", hostConn)

	moduleCount := 99
	server.handleMessage(session, hostID, hostConn, clientMessage(t, messages.MessageTypeClientUpdateSettings, messages.ClientUpdateSettings{
		ModuleCount: &moduleCount,
	}))

	assert.Equal(t, game.DefaultModuleCount, session.GetLobbyInfo().ModuleCount)
	errMsg := hostConn.lastOfType(t, messages.MessageTypeServerError)
	var payload messages.ServerError
	require.NoError(t, json.Unmarshal(errMsg.Payload, &payload))
	assert.Equal(t, "invalid_module_count", payload.Code)
}

func TestHandleMessage_UpdateSettingsIgnoredFromNonHost(t *testing.T) {
	server, session, hostID := newTestServer(t)
	hostConn := &recordingConn{}
	otherConn := &recordingConn{}
	session.AddPlayer(hostID, "host", hostConn)
	session.AddPlayer("p2", "p2", otherConn)

	moduleCount := 5
	server.handleMessage(session, "p2", otherConn, clientMessage(t, messages.MessageTypeClientUpdateSettings, messages.ClientUpdateSettings{
		ModuleCount: &moduleCount,
	}))

	assert.Equal(t, game.DefaultModuleCount, session.GetLobbyInfo().ModuleCount)
	assert.Empty(t, otherConn.sent)
}

func TestHandleMessage_CutWireBroadcastsResult(t *testing.T) {
	server, session, hostID := newTestServer(t)
	hostConn := &recordingConn{}
	otherConn := &recordingConn{}
	session.AddPlayer(hostID, "host", hostConn)
	session.AddPlayer("p2", "p2", otherConn)
	require.NoError(t, session.StartGame())

	correct := session.Bomb().Module(0).(interface{ CorrectWire() int }).CorrectWire()
	server.handleMessage(session, hostID, hostConn, clientMessage(t, messages.MessageTypeClientCutWire, messages.ClientCutWire{
		ModuleIndex: 0,
		Wire:        correct,
	}))

	for _, conn := range []*recordingConn{hostConn, otherConn} {
		result := conn.lastOfType(t, messages.MessageTypeServerWireCutResult)
		var payload messages.ServerActionResult
		require.NoError(t, json.Unmarshal(result.Payload, &payload))
		assert.True(t, payload.Accepted)
		assert.True(t, payload.Correct)
		assert.True(t, payload.ModuleSolved)
		assert.Equal(t, 0, payload.Strikes)
	}
}

func TestHandleMessage_ActionBeforeStartDropped(t *testing.T) {
	server, session, hostID := newTestServer(t)
	hostConn := &recordingConn{}
	session.AddPlayer(hostID, "host", hostConn)

	server.handleMessage(session, hostID, hostConn, clientMessage(t, messages.MessageTypeClientCutWire, messages.ClientCutWire{
		ModuleIndex: 0,
		Wire:        0,
	}))

	assert.Empty(t, hostConn.sent)
}

func TestHandleMessage_ReturnToLobby(t *testing.T) {
	server, session, hostID := newTestServer(t)
	hostConn := &recordingConn{}
	otherConn := &recordingConn{}
	session.AddPlayer(hostID, "host", hostConn)
	session.AddPlayer("p2", "p2", otherConn)
	require.NoError(t, session.StartGame())

	server.handleMessage(session, hostID, hostConn, clientMessage(t, messages.MessageTypeClientReturnToLobby, nil))

	assert.Equal(t, game.StateWaiting, session.State())
	otherConn.lastOfType(t, messages.MessageTypeServerReturnedToLobby)
	update := otherConn.lastOfType(t, messages.MessageTypeServerLobbyUpdate)
	var payload messages.ServerLobbyUpdate
	require.NoError(t, json.Unmarshal(update.Payload, &payload))
	assert.Equal(t, string(game.StateWaiting), payload.State)
}

func TestHandleMessage_UnknownTypeDropped(t *testing.T) {
	server, session, hostID := newTestServer(t)
	hostConn := &recordingConn{}
	session.AddPlayer(hostID, "host", hostConn)

	server.handleMessage(session, hostID, hostConn, &messages.Message{Type: "bogus"})

	assert.Empty(t, hostConn.sent)
}
