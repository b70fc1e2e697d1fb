package engine

import "fmt"

type HistoryEntry struct {
	Move   Move   `json:"move"`
	Player Player `json:"player"`
}

// Game is the session a driver holds: the board, whose turn it is and
// which colour the AI plays. Turn order is the driver's bookkeeping; the
// board itself does not care who moves.
type Game struct {
	config   Config
	rules    Rules
	searcher *Searcher
	board    Board
	current  Player
	aiPlayer Player
	history  []HistoryEntry
}

func NewGame(config Config) (*Game, error) {
	config = config.Normalized()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	g := &Game{
		config:   config,
		rules:    NewRules(config),
		searcher: NewSearcher(config),
		aiPlayer: PlayerWhite,
	}
	g.Reset()
	return g, nil
}

func NewDefaultGame() *Game {
	g, err := NewGame(DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("engine: default config rejected: %v", err))
	}
	return g
}

// Reset clears the board and gives Black the move. The AI colour is kept.
func (g *Game) Reset() {
	g.board = NewBoard(g.config.BoardSize)
	g.current = PlayerBlack
	g.history = nil
}

func (g *Game) Config() Config {
	return g.config
}

func (g *Game) BoardSize() int {
	return g.board.Size()
}

func (g *Game) CurrentPlayer() Player {
	return g.current
}

func (g *Game) AIPlayer() Player {
	return g.aiPlayer
}

func (g *Game) SetAIPlayer(player Player) {
	g.aiPlayer = player
}

// MakeMove places a stone for the current player. It checks bounds and
// occupancy only: stopping play after a win is the driver's job, as is
// switching turns with SwitchPlayer.
func (g *Game) MakeMove(row, col int) error {
	if err := g.board.Place(row, col, g.current); err != nil {
		return fmt.Errorf("move %s: %w", NewMove(row, col), err)
	}
	g.history = append(g.history, HistoryEntry{Move: NewMove(row, col), Player: g.current})
	return nil
}

func (g *Game) SwitchPlayer() {
	g.current = g.current.Other()
}

// CheckWinner returns 0 while nobody has five in a row, else 1 for Black
// and 2 for White.
func (g *Game) CheckWinner() int {
	if winner, ok := g.rules.Winner(g.board); ok {
		return winner.Code()
	}
	return 0
}

func (g *Game) IsBoardFull() bool {
	return g.board.IsFull()
}

func (g *Game) Outcome() GameOutcome {
	return g.rules.Outcome(g.board)
}

// AIMove asks the search for the AI colour's reply. The move is not
// applied.
func (g *Game) AIMove() (Move, error) {
	result, err := g.Search(g.aiPlayer)
	if err != nil {
		return Move{}, err
	}
	return result.Move, nil
}

// Search runs the search for any colour and returns its counters too.
func (g *Game) Search(player Player) (SearchResult, error) {
	return g.searcher.BestMove(&g.board, player)
}

// Board exports the cells as 0/1/2 codes, row-major.
func (g *Game) Board() []int {
	cells := g.board.Snapshot()
	out := make([]int, len(cells))
	for i, cell := range cells {
		out[i] = cell.Code()
	}
	return out
}

// BoardCopy returns an independent copy, safe to hand to another
// goroutine.
func (g *Game) BoardCopy() Board {
	return g.board.Clone()
}

// EvaluationAt is the advisory hover score for the AI colour.
func (g *Game) EvaluationAt(row, col int) (int, bool) {
	return g.searcher.Evaluator().EvaluationAt(&g.board, row, col, g.aiPlayer)
}

// Evaluate scores the current position for player.
func (g *Game) Evaluate(player Player) int {
	return g.searcher.Evaluator().Evaluate(g.board, player)
}

func (g *Game) History() []HistoryEntry {
	return append([]HistoryEntry(nil), g.history...)
}

func (g *Game) LastMove() (Move, bool) {
	if len(g.history) == 0 {
		return Move{}, false
	}
	return g.history[len(g.history)-1].Move, true
}

// WinningLine returns the five (or more) stones through the last move
// when that move won the game.
func (g *Game) WinningLine() []Move {
	last, ok := g.LastMove()
	if !ok || !g.rules.IsWinAt(g.board, last) {
		return nil
	}
	line, _ := g.rules.WinningLine(g.board, last)
	return line
}

func (g *Game) String() string {
	return g.board.String()
}
