//go:build js && wasm

// Command wasm exposes the engine to a browser as the global WasmGomoku
// object.
package main

import (
	"syscall/js"

	"github.com/alfredoyang/gomoku/engine"
)

// session holds the one game the page plays.
type session struct {
	game *engine.Game
}

var current = &session{game: engine.NewDefaultGame()}

func (s *session) board() any {
	cells := s.game.Board()
	out := make([]any, len(cells))
	for i, code := range cells {
		out[i] = code
	}
	return out
}

func (s *session) makeMove(row, col int) bool {
	return s.game.MakeMove(row, col) == nil
}

// aiMove returns [row, col] for the AI colour, or null when the board
// has no empty cell left.
func (s *session) aiMove() any {
	move, err := s.game.AIMove()
	if err != nil {
		println("WasmGomoku.aiMove:", err.Error())
		return nil
	}
	return []any{move.Row, move.Col}
}

func (s *session) evaluationAt(row, col int) any {
	score, ok := s.game.EvaluationAt(row, col)
	if !ok {
		return nil
	}
	return score
}

func (s *session) reset(humanFirst bool) {
	s.game.Reset()
	if humanFirst {
		s.game.SetAIPlayer(engine.PlayerWhite)
	} else {
		s.game.SetAIPlayer(engine.PlayerBlack)
	}
}

func intArgs(args []js.Value, n int) ([]int, bool) {
	if len(args) < n {
		return nil, false
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		if args[i].Type() != js.TypeNumber {
			return nil, false
		}
		out[i] = args[i].Int()
	}
	return out, true
}

func boardWrapper(this js.Value, args []js.Value) interface{} {
	return current.board()
}

func currentPlayerWrapper(this js.Value, args []js.Value) interface{} {
	return current.game.CurrentPlayer().Code()
}

func makeMoveWrapper(this js.Value, args []js.Value) interface{} {
	rc, ok := intArgs(args, 2)
	if !ok {
		return false
	}
	return current.makeMove(rc[0], rc[1])
}

func aiMoveWrapper(this js.Value, args []js.Value) interface{} {
	return current.aiMove()
}

func checkWinnerWrapper(this js.Value, args []js.Value) interface{} {
	return current.game.CheckWinner()
}

func isBoardFullWrapper(this js.Value, args []js.Value) interface{} {
	return current.game.IsBoardFull()
}

func switchPlayerWrapper(this js.Value, args []js.Value) interface{} {
	current.game.SwitchPlayer()
	return nil
}

func evaluationAtWrapper(this js.Value, args []js.Value) interface{} {
	rc, ok := intArgs(args, 2)
	if !ok {
		return nil
	}
	return current.evaluationAt(rc[0], rc[1])
}

func boardSizeWrapper(this js.Value, args []js.Value) interface{} {
	return current.game.BoardSize()
}

// resetWrapper starts a new game; pass false to let the AI open as Black.
func resetWrapper(this js.Value, args []js.Value) interface{} {
	humanFirst := true
	if len(args) >= 1 && args[0].Type() == js.TypeBoolean {
		humanFirst = args[0].Bool()
	}
	current.reset(humanFirst)
	return nil
}

func main() {
	c := make(chan struct{})

	js.Global().Set("WasmGomoku", js.ValueOf(map[string]interface{}{
		"board":         js.FuncOf(boardWrapper),
		"currentPlayer": js.FuncOf(currentPlayerWrapper),
		"makeMove":      js.FuncOf(makeMoveWrapper),
		"aiMove":        js.FuncOf(aiMoveWrapper),
		"checkWinner":   js.FuncOf(checkWinnerWrapper),
		"isBoardFull":   js.FuncOf(isBoardFullWrapper),
		"switchPlayer":  js.FuncOf(switchPlayerWrapper),
		"evaluationAt":  js.FuncOf(evaluationAtWrapper),
		"boardSize":     js.FuncOf(boardSizeWrapper),
		"reset":         js.FuncOf(resetWrapper),
	}))

	println("WasmGomoku initialized")
	<-c
}
