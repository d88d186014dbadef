package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fusebox-party/fusebox/pkg/api/middleware"
	"github.com/fusebox-party/fusebox/pkg/game"
	"github.com/fusebox-party/fusebox/pkg/log"
	"github.com/fusebox-party/fusebox/pkg/messages"
	"github.com/fusebox-party/fusebox/pkg/sessions"
	"github.com/gorilla/mux"
)

// Notifier pushes REST-triggered state changes out over the websocket
// fan-out so connected players see them immediately.
type Notifier interface {
	AnnounceGameStart(session *game.GameSession)
	BroadcastLobby(session *game.GameSession)
	AnnounceReturnToLobby(session *game.GameSession)
}

// CreateSessionResponse is returned when a new session is created. The
// host token is only ever shown here.
type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
	HostID    string `json:"hostId"`
	HostToken string `json:"hostToken"`
}

// SessionResponse is the public lobby view of a session.
type SessionResponse struct {
	SessionID        string `json:"sessionId"`
	State            string `json:"state"`
	PlayerCount      int    `json:"playerCount"`
	ModuleCount      int    `json:"moduleCount"`
	TimeLimitSeconds int    `json:"timeLimitSeconds"`
}

func HandleCreateSession(registry *sessions.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		created, err := registry.Create()
		if err != nil {
			log.Error("failed to create session: %v", err)
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}
		log.Info("Created session %s", created.Session.ID())

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(CreateSessionResponse{
			SessionID: created.Session.ID(),
			HostID:    created.HostID,
			HostToken: created.HostToken,
		}); err != nil {
			log.Error("failed to encode session: %v", err)
		}
	}
}

func HandleGetSession(registry *sessions.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := registry.Get(mux.Vars(r)["sessionID"])
		if err != nil {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		info := session.GetLobbyInfo()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(SessionResponse{
			SessionID:        info.ID,
			State:            string(info.State),
			PlayerCount:      info.PlayerCount,
			ModuleCount:      info.ModuleCount,
			TimeLimitSeconds: int(info.TimeLimit / time.Second),
		}); err != nil {
			log.Error("failed to encode session: %v", err)
		}
	}
}

func HandleUpdateSettings(notifier Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromContext(w, r)
		if !ok {
			return
		}

		var payload messages.ClientUpdateSettings
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if payload.ModuleCount != nil {
			if err := session.SetModuleCount(*payload.ModuleCount); err != nil {
				http.Error(w, "Invalid module count", statusForError(err))
				return
			}
		}
		if payload.TimeLimitSeconds != nil {
			if err := session.SetTimeLimit(time.Duration(*payload.TimeLimitSeconds) * time.Second); err != nil {
				http.Error(w, "Invalid time limit", statusForError(err))
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
		notifier.BroadcastLobby(session)
		w.WriteHeader(http.StatusNoContent)
	}
}

func HandleStartGame(notifier Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromContext(w, r)
		if !ok {
			return
		}
		if err := session.StartGame(); err != nil {
			http.Error(w, "Failed to start game", statusForError(err))
			return
		}
		log.Info("Session %s started", session.ID())
		notifier.AnnounceGameStart(session)
		w.WriteHeader(http.StatusNoContent)
	}
}

func HandleReturnToLobby(notifier Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromContext(w, r)
		if !ok {
			return
		}
		if err := session.ReturnToLobby(); err != nil {
			http.Error(w, "Failed to return to lobby", statusForError(err))
			return
		}
		log.Info("Session %s returned to lobby", session.ID())
		notifier.AnnounceReturnToLobby(session)
		w.WriteHeader(http.StatusNoContent)
	}
}

func sessionFromContext(w http.ResponseWriter, r *http.Request) (*game.GameSession, bool) {
	session, ok := r.Context().Value(middleware.SessionContextKey).(*game.GameSession)
	if !ok {
		log.Error("failed to get session from context")
		http.Error(w, "Failed to get session from context", http.StatusInternalServerError)
		return nil, false
	}
	return session, true
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, sessions.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrInvalidState), errors.Is(err, game.ErrNotEnoughPlayers):
		return http.StatusConflict
	case errors.Is(err, game.ErrUnauthorized):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
