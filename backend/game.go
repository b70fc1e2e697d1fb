package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/alfredoyang/gomoku/engine"
)

// Game is the browser session: an engine game plus who controls each
// colour, move timing and the per-move evaluation trail.
type Game struct {
	settings    GameSettings
	config      Config
	session     *engine.Game
	history     MoveHistory
	blackPlayer IPlayer
	whitePlayer IPlayer
	turnStart   time.Time
	lastMessage string
	coordWidth  int
}

func NewGame(settings GameSettings, config Config) Game {
	g := Game{}
	g.Reset(settings, config)
	return g
}

// Reset starts a fresh game. A config the engine rejects falls back to
// the defaults so the session always has a board.
func (g *Game) Reset(settings GameSettings, config Config) {
	g.stopAIPlayers()
	session, err := engine.NewGame(config.Engine)
	if err != nil {
		log.Printf("[game] config rejected, using defaults: %v", err)
		config.Engine = engine.DefaultConfig()
		session = engine.NewDefaultGame()
	}
	g.settings = settings
	g.config = config
	g.session = session
	g.session.SetAIPlayer(settings.AIColor())
	g.history.Clear()
	g.lastMessage = ""
	g.createPlayers()
	g.computeLogWidths()
	g.turnStart = time.Now()
	g.logMatchup()
}

func (g *Game) Settings() GameSettings {
	return g.settings
}

func (g *Game) Config() Config {
	return g.config
}

func (g *Game) State() GameState {
	state := GameState{
		Board:       g.session.Board(),
		BoardSize:   g.session.BoardSize(),
		ToMove:      g.session.CurrentPlayer(),
		Status:      statusFromOutcome(g.session.Outcome()),
		LastMessage: g.lastMessage,
		WinningLine: g.session.WinningLine(),
	}
	if last, ok := g.session.LastMove(); ok {
		state.HasLastMove = true
		state.LastMove = last
	}
	return state
}

func (g *Game) History() MoveHistory {
	return MoveHistory{entries: g.history.All()}
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

// TryApplyMove plays move for the side to move and hands the turn over
// unless the move ended the game.
func (g *Game) TryApplyMove(move engine.Move) (bool, string) {
	if g.session.Outcome().IsOver() {
		return false, "game over"
	}
	player := g.currentPlayer()
	isAiMove := player != nil && !player.IsHuman()
	mover := g.session.CurrentPlayer()
	if err := g.session.MakeMove(move.Row, move.Col); err != nil {
		g.lastMessage = "Illegal move: " + illegalReason(err)
		return false, g.lastMessage
	}
	g.lastMessage = ""
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	entry := HistoryEntry{
		Move:      move,
		Player:    mover,
		ElapsedMs: elapsedMs,
		IsAi:      isAiMove,
		Score:     g.session.Evaluate(g.settings.AIColor()),
	}
	if ai, ok := player.(*AIPlayer); ok && isAiMove {
		result, _ := ai.LastResult()
		entry.Nodes = result.Nodes
	}
	g.history.Push(entry)
	g.logMovePlayed(entry)

	outcome := g.session.Outcome()
	if outcome.IsOver() {
		g.logResult(outcome)
		return true, ""
	}
	g.session.SwitchPlayer()
	g.turnStart = time.Now()
	return true, ""
}

func illegalReason(err error) string {
	switch {
	case errors.Is(err, engine.ErrOutOfBounds):
		return "out of bounds"
	case errors.Is(err, engine.ErrOccupied):
		return "occupied"
	default:
		return err.Error()
	}
}

// Tick advances the game by at most one move: a queued human click or a
// finished AI search. It starts the AI thinking when it is its turn.
func (g *Game) Tick() bool {
	if g.session.Outcome().IsOver() {
		g.stopAIPlayers()
		return false
	}
	player := g.currentPlayer()
	if player == nil {
		return false
	}
	if player.IsHuman() {
		human, ok := player.(*HumanPlayer)
		if ok && human.HasPendingMove() {
			applied, _ := g.TryApplyMove(human.TakePendingMove())
			return applied
		}
		return false
	}
	ai, ok := player.(*AIPlayer)
	if !ok {
		return false
	}
	if ai.HasMoveReady() {
		move, err := ai.TakeMove()
		if err != nil {
			log.Printf("[game] ai %s has no move: %v", ai.Color(), err)
			return false
		}
		applied, reason := g.TryApplyMove(move)
		if !applied {
			log.Printf("[game] ai move %s rejected: %s", move, reason)
		}
		return applied
	}
	if !ai.IsThinking() {
		ai.StartThinking(g.session.BoardCopy(), g.config)
	}
	return false
}

func (g *Game) SubmitHumanMove(move engine.Move) bool {
	human, ok := g.currentPlayer().(*HumanPlayer)
	if !ok {
		return false
	}
	human.SetPendingMove(move)
	return true
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) AiThinking() bool {
	ai, ok := g.currentPlayer().(*AIPlayer)
	if ok {
		return ai.IsThinking()
	}
	return false
}

// EvaluationAt is the hover score for the AI colour.
func (g *Game) EvaluationAt(row, col int) (int, bool) {
	return g.session.EvaluationAt(row, col)
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerForColor(g.session.CurrentPlayer())
}

func (g *Game) playerForColor(color engine.Player) IPlayer {
	if color == engine.PlayerBlack {
		return g.blackPlayer
	}
	return g.whitePlayer
}

func (g *Game) createPlayers() {
	makePlayer := func(t PlayerType, color engine.Player) IPlayer {
		if t == PlayerAI {
			return NewAIPlayer(color)
		}
		return NewHumanPlayer()
	}
	g.blackPlayer = makePlayer(g.settings.TypeFor(engine.PlayerBlack), engine.PlayerBlack)
	g.whitePlayer = makePlayer(g.settings.TypeFor(engine.PlayerWhite), engine.PlayerWhite)
}

// stopAIPlayers discards pending searches and waits for their goroutines
// so a reset never races a worker from the previous game.
func (g *Game) stopAIPlayers() {
	for _, player := range []IPlayer{g.blackPlayer, g.whitePlayer} {
		if ai, ok := player.(*AIPlayer); ok {
			ai.Stop()
			ai.Wait()
		}
	}
}

func (g *Game) logMatchup() {
	label := func(t PlayerType) string {
		if t == PlayerAI {
			return "AI"
		}
		return "Human"
	}
	log.Printf("[game] Black (%s) vs White (%s), depth=%d", label(g.settings.TypeFor(engine.PlayerBlack)), label(g.settings.TypeFor(engine.PlayerWhite)), g.config.Engine.SearchDepth)
}

func (g *Game) logMovePlayed(entry HistoryEntry) {
	who := "human"
	if entry.IsAi {
		who = "ai"
	}
	coord := fmt.Sprintf("(%*d,%*d)", g.coordWidth, entry.Move.Row, g.coordWidth, entry.Move.Col)
	log.Printf("[game] #%03d %-5s %s %-5s %6.0fms eval=%d", g.history.Size(), entry.Player, coord, who, entry.ElapsedMs, entry.Score)
}

func (g *Game) logResult(outcome engine.GameOutcome) {
	log.Printf("[game] finished after %d moves: %s", g.history.Size(), outcome)
}

func (g *Game) computeLogWidths() {
	digits := func(value int) int {
		width := 1
		for value >= 10 {
			value /= 10
			width++
		}
		return width
	}
	maxCoord := g.session.BoardSize() - 1
	if maxCoord < 0 {
		maxCoord = 0
	}
	g.coordWidth = digits(maxCoord)
}
