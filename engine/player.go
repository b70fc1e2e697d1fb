package engine

type Player int

const (
	PlayerBlack Player = iota
	PlayerWhite
)

func (p Player) Other() Player {
	if p == PlayerBlack {
		return PlayerWhite
	}
	return PlayerBlack
}

// Code matches the cell encoding: 1 black, 2 white.
func (p Player) Code() int {
	return CellFromPlayer(p).Code()
}

func (p Player) String() string {
	return CellFromPlayer(p).String()
}

type OutcomeKind int

const (
	InProgress OutcomeKind = iota
	Win
	Draw
)

// GameOutcome is derived from the board on every query, never stored.
type GameOutcome struct {
	Kind   OutcomeKind
	Winner Player
}

func (o GameOutcome) IsOver() bool {
	return o.Kind != InProgress
}

// WinnerCode is 0 when nobody has won, otherwise the winner's code.
func (o GameOutcome) WinnerCode() int {
	if o.Kind != Win {
		return 0
	}
	return o.Winner.Code()
}

func (o GameOutcome) String() string {
	switch o.Kind {
	case Win:
		if o.Winner == PlayerBlack {
			return "black_won"
		}
		return "white_won"
	case Draw:
		return "draw"
	default:
		return "running"
	}
}
