// Package api exposes the REST surface: session creation and lookup,
// host-authorized lobby control, and the websocket upgrade route.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fusebox-party/fusebox/pkg/api/handlers"
	"github.com/fusebox-party/fusebox/pkg/api/middleware"
	"github.com/fusebox-party/fusebox/pkg/log"
	"github.com/fusebox-party/fusebox/pkg/network"
	"github.com/fusebox-party/fusebox/pkg/sessions"
	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port     int
	TLS      *TLSConfig
	Registry *sessions.Registry
	WSServer *network.WSServer
	// AllowedOrigin is echoed in CORS headers; "*" allows any origin.
	AllowedOrigin string
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	hostAuth := middleware.NewHostAuthMiddleware(opts.Registry)

	router := mux.NewRouter()
	router.HandleFunc("/sessions", handlers.HandleCreateSession(opts.Registry)).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{sessionID}", handlers.HandleGetSession(opts.Registry)).Methods(http.MethodGet)
	router.Handle("/sessions/{sessionID}/settings", hostAuth(handlers.HandleUpdateSettings(opts.WSServer))).Methods(http.MethodPut)
	router.Handle("/sessions/{sessionID}/start", hostAuth(handlers.HandleStartGame(opts.WSServer))).Methods(http.MethodPost)
	router.Handle("/sessions/{sessionID}/lobby", hostAuth(handlers.HandleReturnToLobby(opts.WSServer))).Methods(http.MethodPost)
	router.HandleFunc("/ws/{sessionID}", opts.WSServer.HandleConnection)

	handler := corsHandler(opts.AllowedOrigin, gzhttp.GzipHandler(router))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: handler,
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

func corsHandler(allowedOrigin string, next http.Handler) http.Handler {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Host-Token")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
