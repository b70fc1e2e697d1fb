package main

import (
	"errors"
	"testing"
	"time"

	"github.com/alfredoyang/gomoku/engine"
)

func useTestConfig(t *testing.T, mutate func(*Config)) {
	t.Helper()
	prev := GetConfig()
	cfg := Config{Engine: engine.DefaultConfig()}
	if mutate != nil {
		mutate(&cfg)
	}
	if err := configStore.Update(cfg); err != nil {
		t.Fatalf("test config rejected: %v", err)
	}
	t.Cleanup(func() {
		configStore.mu.Lock()
		configStore.config = prev
		configStore.mu.Unlock()
	})
}

func tickUntilMoved(t *testing.T, controller *GameController) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if controller.Tick() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("AI did not move before the deadline")
}

func TestHumanMoveThenAIReplies(t *testing.T) {
	useTestConfig(t, nil)
	controller := NewGameController(SettingsForHumanFirst(true))

	if applied, reason := controller.ApplyHumanMove(engine.NewMove(7, 7)); !applied {
		t.Fatalf("expected human move to apply: %s", reason)
	}
	state := controller.State()
	if state.ToMove != engine.PlayerWhite {
		t.Fatalf("expected the AI (white) to move next, got %s", state.ToMove)
	}
	if applied, reason := controller.ApplyHumanMove(engine.NewMove(0, 0)); applied || reason != "not human turn" {
		t.Fatalf("expected not human turn, got applied=%v reason=%q", applied, reason)
	}

	tickUntilMoved(t, controller)

	history := controller.History().All()
	if len(history) != 2 {
		t.Fatalf("expected two moves, got %d", len(history))
	}
	reply := history[1]
	if !reply.IsAi || reply.Player != engine.PlayerWhite {
		t.Fatalf("expected an AI move by white, got %+v", reply)
	}
	if dr, dc := reply.Move.Row-7, reply.Move.Col-7; dr < -2 || dr > 2 || dc < -2 || dc > 2 {
		t.Fatalf("AI reply %s is not near the only stone", reply.Move)
	}
	if reply.Nodes == 0 {
		t.Fatalf("expected search nodes on the AI entry")
	}
	if controller.State().ToMove != engine.PlayerBlack {
		t.Fatalf("turn must return to the human")
	}
}

func TestAIFirstOpensInCenter(t *testing.T) {
	useTestConfig(t, nil)
	controller := NewGameController(SettingsForHumanFirst(false))
	tickUntilMoved(t, controller)
	history := controller.History().All()
	if len(history) != 1 || !history[0].Move.Equals(engine.NewMove(7, 7)) {
		t.Fatalf("expected the AI to open at (7,7), got %+v", history)
	}
	if history[0].Player != engine.PlayerBlack {
		t.Fatalf("AI moving first plays black")
	}
	if settings := controller.Settings(); settings.HumanPlayer() != 2 {
		t.Fatalf("expected the human on white, got %d", settings.HumanPlayer())
	}
}

func TestIllegalHumanMoves(t *testing.T) {
	useTestConfig(t, nil)
	settings := GameSettings{BlackType: PlayerHuman, WhiteType: PlayerHuman}
	controller := NewGameController(settings)
	if applied, reason := controller.ApplyHumanMove(engine.NewMove(15, 3)); applied || reason != "Illegal move: out of bounds" {
		t.Fatalf("unexpected result applied=%v reason=%q", applied, reason)
	}
	_, _ = controller.ApplyHumanMove(engine.NewMove(3, 3))
	if applied, reason := controller.ApplyHumanMove(engine.NewMove(3, 3)); applied || reason != "Illegal move: occupied" {
		t.Fatalf("unexpected result applied=%v reason=%q", applied, reason)
	}
	state := controller.State()
	if state.ToMove != engine.PlayerWhite {
		t.Fatalf("a rejected move must not pass the turn")
	}
	if state.LastMessage != "Illegal move: occupied" {
		t.Fatalf("expected the rejection to be kept for the status, got %q", state.LastMessage)
	}
}

func TestWinEndsGame(t *testing.T) {
	useTestConfig(t, nil)
	settings := GameSettings{BlackType: PlayerHuman, WhiteType: PlayerHuman}
	controller := NewGameController(settings)
	for i := 0; i < 4; i++ {
		_, _ = controller.ApplyHumanMove(engine.NewMove(5, i))
		_, _ = controller.ApplyHumanMove(engine.NewMove(9, i))
	}
	if applied, reason := controller.ApplyHumanMove(engine.NewMove(5, 4)); !applied {
		t.Fatalf("winning move rejected: %s", reason)
	}
	state := controller.State()
	if state.Status != StatusBlackWon || state.Status.Winner() != 1 {
		t.Fatalf("expected black to win, got %s", state.Status)
	}
	if len(state.WinningLine) != 5 {
		t.Fatalf("expected a five-stone winning line, got %v", state.WinningLine)
	}
	if applied, reason := controller.ApplyHumanMove(engine.NewMove(0, 14)); applied || reason != "game over" {
		t.Fatalf("expected game over, got applied=%v reason=%q", applied, reason)
	}
	if controller.Tick() {
		t.Fatalf("tick must not move after the game ended")
	}
}

func TestClickIsAppliedOnTick(t *testing.T) {
	useTestConfig(t, nil)
	settings := GameSettings{BlackType: PlayerHuman, WhiteType: PlayerHuman}
	controller := NewGameController(settings)
	if !controller.OnCellClicked(4, 4) {
		t.Fatalf("click rejected on a human turn")
	}
	if controller.History().Size() != 0 {
		t.Fatalf("click must wait for the tick")
	}
	if !controller.Tick() {
		t.Fatalf("expected the tick to apply the click")
	}
	if last, ok := controller.LatestHistoryEntry(); !ok || !last.Move.Equals(engine.NewMove(4, 4)) {
		t.Fatalf("unexpected last entry %+v", last)
	}
}

func TestStartGameUsesStoredConfig(t *testing.T) {
	useTestConfig(t, func(c *Config) { c.Engine.SearchDepth = 2 })
	controller := NewGameController(DefaultGameSettings())
	if got := controller.Config().Engine.SearchDepth; got != 2 {
		t.Fatalf("expected depth 2, got %d", got)
	}
	if err := configStore.Update(Config{Engine: engine.DefaultConfig()}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := controller.Config().Engine.SearchDepth; got != 2 {
		t.Fatalf("config change must not touch the running game, got %d", got)
	}
	controller.StartGame(DefaultGameSettings())
	if got := controller.Config().Engine.SearchDepth; got != engine.DefaultSearchDepth {
		t.Fatalf("expected the new config after start, got %d", got)
	}
}

func TestConfigStoreKeepsFiveInARowOn15x15(t *testing.T) {
	useTestConfig(t, nil)
	tests := []struct {
		name   string
		mutate func(*engine.Config)
	}{
		{name: "board size", mutate: func(c *engine.Config) { c.BoardSize = 9 }},
		{name: "win length", mutate: func(c *engine.Config) { c.WinLength = 3 }},
		{name: "long win length", mutate: func(c *engine.Config) { c.WinLength = 6 }},
	}
	for _, tc := range tests {
		cfg := Config{Engine: engine.DefaultConfig()}
		tc.mutate(&cfg.Engine)
		if err := configStore.Update(cfg); !errors.Is(err, engine.ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", tc.name, err)
		}
		stored := GetConfig().Engine
		if stored.BoardSize != engine.DefaultBoardSize || stored.WinLength != engine.DefaultWinLength {
			t.Fatalf("%s: rejected config must not be stored, got %+v", tc.name, stored)
		}
	}

	controller := NewGameController(GameSettings{BlackType: PlayerHuman, WhiteType: PlayerHuman})
	for _, move := range []engine.Move{
		engine.NewMove(7, 5), engine.NewMove(0, 0),
		engine.NewMove(7, 6), engine.NewMove(0, 2),
		engine.NewMove(7, 7),
	} {
		if applied, reason := controller.ApplyHumanMove(move); !applied {
			t.Fatalf("move %s rejected: %s", move, reason)
		}
	}
	if status := controller.State().Status; status != StatusRunning {
		t.Fatalf("three in a row must not end the game, got %s", status)
	}
}

func TestGameSettingsTypeFor(t *testing.T) {
	useTestConfig(t, nil)
	settings := SettingsForHumanFirst(false)
	if settings.TypeFor(engine.PlayerBlack) != PlayerAI || settings.TypeFor(engine.PlayerWhite) != PlayerHuman {
		t.Fatalf("unexpected types %+v", settings)
	}
	controller := NewGameController(settings)
	if controller.State().ToMove != engine.PlayerBlack {
		t.Fatalf("black must move first")
	}
	if applied, reason := controller.ApplyHumanMove(engine.NewMove(7, 7)); applied || reason != "not human turn" {
		t.Fatalf("black is the AI here, got applied=%v reason=%q", applied, reason)
	}
}

func TestEvaluationAtReportsForAIColour(t *testing.T) {
	useTestConfig(t, nil)
	controller := NewGameController(SettingsForHumanFirst(true))
	_, _ = controller.ApplyHumanMove(engine.NewMove(7, 7))
	if _, ok := controller.EvaluationAt(7, 7); ok {
		t.Fatalf("occupied cell must not be applicable")
	}
	score, ok := controller.EvaluationAt(7, 8)
	if !ok {
		t.Fatalf("expected an applicable evaluation")
	}
	// A lone white stone next to a lone black one balances out.
	if score != 0 {
		t.Fatalf("expected a balanced score, got %d", score)
	}
}
