package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/alfredoyang/gomoku/engine"
)

const tickInterval = 50 * time.Millisecond

type StatusResponse struct {
	Board           []int             `json:"board"`
	BoardSize       int               `json:"board_size"`
	NextPlayer      int               `json:"next_player"`
	HumanPlayer     int               `json:"human_player"`
	AIPlayer        int               `json:"ai_player"`
	Winner          int               `json:"winner"`
	Status          string            `json:"status"`
	History         []historyEntryDTO `json:"history"`
	WinningLine     []engine.Move     `json:"winning_line"`
	AiThinking      bool              `json:"ai_thinking"`
	LastMessage     string            `json:"last_message,omitempty"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
	Config          Config            `json:"config"`
}

type apiMove struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type historyEntryDTO struct {
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	Player    int     `json:"player"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
	Score     int     `json:"score"`
	Nodes     int64   `json:"nodes,omitempty"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type resetPayload struct {
	Board      []int  `json:"board"`
	BoardSize  int    `json:"board_size"`
	NextPlayer int    `json:"next_player"`
	Status     string `json:"status"`
}

type settingsPayload struct {
	Config Config `json:"config"`
}

type evaluationResponse struct {
	Applicable bool `json:"applicable"`
	Score      int  `json:"score"`
}

func main() {
	addr := getenv("ADDR", ":8080")
	controller := NewGameController(DefaultGameSettings())
	hub := NewHub()
	hoverHub := NewHoverHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx.Done())
	go hoverHub.Run(ctx.Done())
	go runTicker(ctx, controller, hub, hoverHub)

	server := &http.Server{
		Addr:    addr,
		Handler: newRouter(controller, hub, hoverHub),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Printf("backend listening on %s", addr)
	select {
	case <-sigCtx.Done():
		log.Printf("[backend] shutdown signal received: %v", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			log.Printf("[backend] server error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[backend] graceful shutdown failed: %v", err)
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Printf("[backend] forced close failed: %v", closeErr)
		}
	}
	cancel()
}

// runTicker polls the session so AI moves land without a request, then
// pushes the new state to every websocket.
func runTicker(ctx context.Context, controller *GameController, hub *Hub, hoverHub *HoverHub) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if controller.Tick() {
				publishMove(controller, hub, hoverHub)
			}
		}
	}
}

func publishMove(controller *GameController, hub *Hub, hoverHub *HoverHub) {
	if entry, ok := controller.LatestHistoryEntry(); ok {
		hub.broadcastHistory <- historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}}
	}
	hub.broadcastStatus <- controllerStatus(controller)
	hoverHub.Publish(stalePayload{HistoryLen: controller.History().Size()})
}

func newRouter(controller *GameController, hub *Hub, hoverHub *HoverHub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/start", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			HumanFirst *bool `json:"human_first"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		humanFirst := true
		if payload.HumanFirst != nil {
			humanFirst = *payload.HumanFirst
		}
		controller.StartGame(SettingsForHumanFirst(humanFirst))
		status := controllerStatus(controller)
		hub.broadcastReset <- resetPayload{
			Board:      status.Board,
			BoardSize:  status.BoardSize,
			NextPlayer: status.NextPlayer,
			Status:     status.Status,
		}
		hoverHub.Publish(stalePayload{HistoryLen: 0})
		writeJSON(w, http.StatusOK, status)
	})

	r.Post("/api/move", func(w http.ResponseWriter, r *http.Request) {
		var payload apiMove
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		applied, errMsg := controller.ApplyHumanMove(engine.NewMove(payload.Row, payload.Col))
		if !applied {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
			return
		}
		publishMove(controller, hub, hoverHub)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Get("/api/evaluation", func(w http.ResponseWriter, r *http.Request) {
		row, rowErr := strconv.Atoi(r.URL.Query().Get("row"))
		col, colErr := strconv.Atoi(r.URL.Query().Get("col"))
		if rowErr != nil || colErr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "row and col must be integers"})
			return
		}
		eval := evaluate(controller, row, col)
		writeJSON(w, http.StatusOK, evaluationResponse{Applicable: eval.Applicable, Score: eval.Score})
	})

	r.Post("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Config *Config `json:"config"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Config == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if err := configStore.Update(*payload.Config); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		hub.broadcastSettings <- settingsPayload{Config: GetConfig()}
		writeJSON(w, http.StatusOK, settingsPayload{Config: GetConfig()})
	})

	r.Get("/analysis", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		aiColor := controller.Settings().AIColor().String()
		if err := renderAnalysis(w, controller.History().All(), aiColor); err != nil {
			log.Printf("[backend] analysis render failed: %v", err)
		}
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, controller, w, r)
	})
	r.Get("/ws/hover", func(w http.ResponseWriter, r *http.Request) {
		serveHoverWS(hoverHub, controller, w, r)
	})
	return r
}

func serveWS(hub *Hub, controller *GameController, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(client)

	status := controllerStatus(controller)
	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(status)})

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
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			status := controllerStatus(controller)
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(status)})
		case "click":
			var move apiMove
			if err := json.Unmarshal(msg.Payload, &move); err != nil {
				continue
			}
			controller.OnCellClicked(move.Row, move.Col)
		}
	}
}

func controllerStatus(controller *GameController) StatusResponse {
	state := controller.State()
	settings := controller.Settings()
	aiPlayer := 0
	if settings.HumanPlayer() != 0 {
		aiPlayer = settings.AIColor().Code()
	}
	return StatusResponse{
		Board:           state.Board,
		BoardSize:       state.BoardSize,
		NextPlayer:      state.ToMove.Code(),
		HumanPlayer:     settings.HumanPlayer(),
		AIPlayer:        aiPlayer,
		Winner:          state.Status.Winner(),
		Status:          state.Status.String(),
		History:         historyToDTO(controller.History()),
		WinningLine:     state.WinningLine,
		AiThinking:      controller.AiThinking(),
		LastMessage:     state.LastMessage,
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
		Config:          controller.Config(),
	}
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	return historyEntryDTO{
		Row:       entry.Move.Row,
		Col:       entry.Move.Col,
		Player:    entry.Player.Code(),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
		Score:     entry.Score,
		Nodes:     entry.Nodes,
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
