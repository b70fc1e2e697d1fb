package main

import "github.com/alfredoyang/gomoku/engine"

type GameStatus int

const (
	StatusRunning GameStatus = iota
	StatusBlackWon
	StatusWhiteWon
	StatusDraw
)

// GameState is a detached snapshot of the session, safe to serialise
// after the controller lock is released.
type GameState struct {
	Board       []int
	BoardSize   int
	ToMove      engine.Player
	Status      GameStatus
	HasLastMove bool
	LastMove    engine.Move
	LastMessage string
	WinningLine []engine.Move
}

func statusFromOutcome(outcome engine.GameOutcome) GameStatus {
	switch outcome.Kind {
	case engine.Win:
		if outcome.Winner == engine.PlayerBlack {
			return StatusBlackWon
		}
		return StatusWhiteWon
	case engine.Draw:
		return StatusDraw
	default:
		return StatusRunning
	}
}

func (s GameStatus) String() string {
	switch s {
	case StatusBlackWon:
		return "black_won"
	case StatusWhiteWon:
		return "white_won"
	case StatusDraw:
		return "draw"
	default:
		return "running"
	}
}

func (s GameStatus) Winner() int {
	switch s {
	case StatusBlackWon:
		return engine.PlayerBlack.Code()
	case StatusWhiteWon:
		return engine.PlayerWhite.Code()
	default:
		return 0
	}
}
