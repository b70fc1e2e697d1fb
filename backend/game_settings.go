package main

import "github.com/alfredoyang/gomoku/engine"

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

// GameSettings decides who plays which colour. Black always moves first.
type GameSettings struct {
	BlackType PlayerType `json:"-"`
	WhiteType PlayerType `json:"-"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		BlackType: PlayerHuman,
		WhiteType: PlayerAI,
	}
}

// SettingsForHumanFirst is the single-human setup: the human takes Black
// when moving first, White otherwise.
func SettingsForHumanFirst(humanFirst bool) GameSettings {
	if humanFirst {
		return GameSettings{BlackType: PlayerHuman, WhiteType: PlayerAI}
	}
	return GameSettings{BlackType: PlayerAI, WhiteType: PlayerHuman}
}

func (s GameSettings) TypeFor(player engine.Player) PlayerType {
	if player == engine.PlayerBlack {
		return s.BlackType
	}
	return s.WhiteType
}

// HumanPlayer returns the human colour code (1 or 2), or 0 when neither
// or both sides are human.
func (s GameSettings) HumanPlayer() int {
	switch {
	case s.BlackType == PlayerHuman && s.WhiteType != PlayerHuman:
		return engine.PlayerBlack.Code()
	case s.WhiteType == PlayerHuman && s.BlackType != PlayerHuman:
		return engine.PlayerWhite.Code()
	default:
		return 0
	}
}

// AIColor is the colour hover evaluations are reported for.
func (s GameSettings) AIColor() engine.Player {
	if s.BlackType == PlayerAI && s.WhiteType != PlayerAI {
		return engine.PlayerBlack
	}
	return engine.PlayerWhite
}
