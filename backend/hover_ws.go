package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

type hoverRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type evaluationPayload struct {
	Row        int  `json:"row"`
	Col        int  `json:"col"`
	Applicable bool `json:"applicable"`
	Score      int  `json:"score"`
}

// stalePayload tells hover clients that cached evaluations no longer
// match the board.
type stalePayload struct {
	HistoryLen int `json:"history_len"`
}

type HoverClient struct {
	hub  *HoverHub
	conn *websocket.Conn
	send chan []byte
}

// HoverHub serves the board-hover evaluation overlay. Requests are
// answered per client; board changes are broadcast to all of them.
type HoverHub struct {
	mu        sync.Mutex
	clients   map[*HoverClient]struct{}
	broadcast chan stalePayload
}

func NewHoverHub() *HoverHub {
	return &HoverHub{
		clients:   make(map[*HoverClient]struct{}),
		broadcast: make(chan stalePayload, 32),
	}
}

func (h *HoverHub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(wsMessage{Type: "stale", Payload: mustMarshal(payload)})
			}
			h.mu.Unlock()
		}
	}
}

func (h *HoverHub) Register(c *HoverClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *HoverHub) Publish(payload stalePayload) {
	if !h.HasClients() {
		return
	}
	select {
	case h.broadcast <- payload:
	default:
	}
}

func (h *HoverHub) Unregister(c *HoverClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *HoverHub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *HoverClient) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func serveHoverWS(hub *HoverHub, controller *GameController, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &HoverClient{hub: hub, conn: conn, send: make(chan []byte, 16)}
	hub.Register(client)

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			return
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil || msg.Type != "hover" {
			continue
		}
		var req hoverRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			continue
		}
		client.sendJSON(wsMessage{Type: "evaluation", Payload: mustMarshal(evaluate(controller, req.Row, req.Col))})
	}
}

func evaluate(controller *GameController, row, col int) evaluationPayload {
	score, ok := controller.EvaluationAt(row, col)
	return evaluationPayload{Row: row, Col: col, Applicable: ok, Score: score}
}
