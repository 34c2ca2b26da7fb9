package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/hydroviz/hydroviz/internal/config"
	"github.com/hydroviz/hydroviz/internal/core/session"
	"github.com/hydroviz/hydroviz/internal/data/cache"
	"github.com/hydroviz/hydroviz/internal/util"
)

// Server exposes the data layer over a websocket endpoint. Each client
// connection gets its own session loaded from the configured plot files;
// the shared index cache keeps repeat loading cheap.
type Server struct {
	addr       string
	scalarPath string
	vectorPath string
	cfg        *config.Config
	indexCache *cache.IndexCache
	upgrader   websocket.Upgrader
}

func NewServer(addr, scalarPath, vectorPath string, cfg *config.Config, indexCache *cache.IndexCache) *Server {
	return &Server{
		addr:       addr,
		scalarPath: scalarPath,
		vectorPath: vectorPath,
		cfg:        cfg,
		indexCache: indexCache,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// serveWs handles one websocket client for its whole lifetime.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		util.LogError(fmt.Sprintf("Websocket upgrade failed: %v", err))
		return
	}
	defer conn.Close()

	sess := session.NewSession(s.indexCache)
	if err := sess.LoadScalar(s.scalarPath); err != nil {
		conn.WriteJSON(errorResponse(err))
		return
	}
	if s.vectorPath != "" {
		if err := sess.LoadVector(s.vectorPath); err != nil {
			// A bad vector file only costs the overlay.
			util.LogWarn(fmt.Sprintf("Vector file rejected: %v", err))
			conn.WriteJSON(errorResponse(err))
		}
	}

	hub := NewHub(sess, s.cfg)
	util.LogInfo(fmt.Sprintf("Client connected: %s", conn.RemoteAddr()))

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			util.LogDebug(fmt.Sprintf("Client disconnected: %v", err))
			return
		}
		if err := conn.WriteJSON(hub.Handle(req)); err != nil {
			util.LogDebug(fmt.Sprintf("Write failed: %v", err))
			return
		}
	}
}

// Serve blocks listening on the configured address.
func (s *Server) Serve() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	util.LogInfo(fmt.Sprintf("Serving websocket API on %s/ws", s.addr))
	return http.ListenAndServe(s.addr, mux)
}
