// Package api carries channel calls from a local front-end to the bridge
// over HTTP and WebSocket.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/dixieflatline76/wallbridge/pkg/bridge"
	"github.com/dixieflatline76/wallbridge/util"
	"github.com/dixieflatline76/wallbridge/util/log"
	"github.com/gorilla/websocket"
)

// ErrChannelExists is returned when a channel name is registered twice.
var ErrChannelExists = errors.New("channel already registered")

// Server represents the local HTTP/WebSocket bridge server.
type Server struct {
	addr       string
	httpServer *http.Server
	mux        *http.ServeMux
	upgrader   websocket.Upgrader

	channelsMu sync.RWMutex
	channels   map[string]*bridge.Channel

	// WebSocket management
	clients   map[*websocket.Conn]*sync.Mutex // conn -> write lock
	clientsMu sync.Mutex

	calls    *util.SafeCounter
	strategy string
}

// NewServer creates a new API server that will listen on addr.
func NewServer(addr string) *Server {
	s := &Server{
		addr: addr,
		mux:  http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		channels: make(map[string]*bridge.Channel),
		clients:  make(map[*websocket.Conn]*sync.Mutex),
		calls:    util.NewSafeInt(),
	}
	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/health", s.enableCORS(s.handleHealth))
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/channel/{name...}", s.enableCORS(s.handleChannel))
}

// RegisterChannel exposes c under its name.
func (s *Server) RegisterChannel(c *bridge.Channel) error {
	s.channelsMu.Lock()
	defer s.channelsMu.Unlock()
	if _, ok := s.channels[c.Name()]; ok {
		return fmt.Errorf("%s: %w", c.Name(), ErrChannelExists)
	}
	s.channels[c.Name()] = c
	return nil
}

// SetStrategyName records the wallpaper backend reported by /health.
func (s *Server) SetStrategyName(name string) {
	s.strategy = name
}

func (s *Server) channel(name string) (*bridge.Channel, bool) {
	s.channelsMu.RLock()
	defer s.channelsMu.RUnlock()
	c, ok := s.channels[name]
	return c, ok
}

func (s *Server) channelNames() []string {
	s.channelsMu.RLock()
	defer s.channelsMu.RUnlock()
	names := make([]string, 0, len(s.channels))
	for n := range s.channels {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// invoke runs a call on c and announces wallpaper changes to WebSocket clients.
func (s *Server) invoke(c *bridge.Channel, call Call) bridge.Result {
	s.calls.Increment()
	log.Debugf("%s: %s %v", c.Name(), call.Method, call.Args)

	r := c.Invoke(call.Method, call.Args)
	if call.Method == bridge.MethodSetWallpaper && r.Status == bridge.StatusSuccess && r.Value == true {
		path, _ := call.Args[bridge.ArgPath].(string)
		s.Broadcast(Event{Type: EventWallpaperChanged, Channel: c.Name(), Path: path})
	}
	return r
}

// enableCORS adds CORS headers to the handler.
func (s *Server) enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until Stop is called. It blocks.
func (s *Server) Start() error {
	log.Printf("Bridge listening on %s", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop closes WebSocket clients and shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	s.clientsMu.Lock()
	for conn := range s.clients {
		conn.Close()
		delete(s.clients, conn)
	}
	s.clientsMu.Unlock()

	return s.httpServer.Shutdown(ctx)
}

// Broadcast sends ev to all connected WebSocket clients.
func (s *Server) Broadcast(ev Event) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for client, writeMu := range s.clients {
		writeMu.Lock()
		err := client.WriteJSON(ev)
		writeMu.Unlock()
		if err != nil {
			log.Printf("Failed to broadcast to client: %v", err)
			client.Close()
			delete(s.clients, client)
		}
	}
}
