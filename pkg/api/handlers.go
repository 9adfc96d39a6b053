package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/dixieflatline76/wallbridge/config"
	"github.com/dixieflatline76/wallbridge/util/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// maxCallBytes bounds the size of a single call body or frame.
const maxCallBytes = 1 << 20

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status":   "running",
		"version":  config.AppVersion,
		"strategy": s.strategy,
		"channels": s.channelNames(),
		"calls":    s.calls.Value(),
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleChannel answers one call posted to /channel/{name}.
func (s *Server) handleChannel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c, ok := s.channel(r.PathValue("name"))
	if !ok {
		http.Error(w, "Channel not found", http.StatusNotFound)
		return
	}

	var call Call
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCallBytes)).Decode(&call); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if call.Method == "" {
		http.Error(w, "Method is required", http.StatusBadRequest)
		return
	}

	reply := NewReply(call.ID, s.invoke(c, call))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(reply); err != nil {
		log.Printf("Failed to write reply: %v", err)
	}
}

// handleWebSocket upgrades the connection and answers calls frame by frame.
// Calls on one connection are handled in order.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	c, ok := s.channel(r.URL.Query().Get("channel"))
	if !ok {
		http.Error(w, "Channel not found", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxCallBytes)

	writeMu := &sync.Mutex{}
	s.clientsMu.Lock()
	s.clients[conn] = writeMu
	s.clientsMu.Unlock()

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("WebSocket read failed: %v", err)
			}
			return
		}

		var reply Reply
		var call Call
		if err := json.Unmarshal(msg, &call); err != nil || call.Method == "" {
			reply = Reply{Status: "error", Code: codeInvalidRequest, Message: "frame is not a method call"}
		} else {
			if call.ID == "" {
				call.ID = uuid.NewString()
			}
			reply = NewReply(call.ID, s.invoke(c, call))
		}

		writeMu.Lock()
		err = conn.WriteJSON(reply)
		writeMu.Unlock()
		if err != nil {
			log.Printf("WebSocket write failed: %v", err)
			return
		}
	}
}
