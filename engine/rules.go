package engine

import "fmt"

var lineDirections = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

type Rules struct {
	winLength int
}

func NewRules(config Config) Rules {
	winLength := config.WinLength
	if winLength <= 0 {
		winLength = DefaultWinLength
	}
	return Rules{winLength: winLength}
}

func (r Rules) IsLegal(board Board, move Move) (bool, string) {
	if !board.InBounds(move.Row, move.Col) {
		return false, "out of bounds"
	}
	if board.At(move.Row, move.Col) != CellEmpty {
		return false, "occupied"
	}
	return true, ""
}

// CheckWinner scans every line on the board. Runs longer than the win
// length count as wins.
func (r Rules) CheckWinner(board Board, player Player) bool {
	target := CellFromPlayer(player)
	size := board.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if board.At(row, col) != target {
				continue
			}
			for _, dir := range lineDirections {
				// Only count from the first stone of a run.
				if board.InBounds(row-dir[0], col-dir[1]) && board.At(row-dir[0], col-dir[1]) == target {
					continue
				}
				if 1+r.countDirection(board, Move{Row: row, Col: col}, dir[0], dir[1]) >= r.winLength {
					return true
				}
			}
		}
	}
	return false
}

func (r Rules) Winner(board Board) (Player, bool) {
	if r.CheckWinner(board, PlayerBlack) {
		return PlayerBlack, true
	}
	if r.CheckWinner(board, PlayerWhite) {
		return PlayerWhite, true
	}
	return PlayerBlack, false
}

func (r Rules) CheckDraw(board Board) bool {
	if !board.IsFull() {
		return false
	}
	_, won := r.Winner(board)
	return !won
}

func (r Rules) Outcome(board Board) GameOutcome {
	if winner, ok := r.Winner(board); ok {
		return GameOutcome{Kind: Win, Winner: winner}
	}
	if board.IsFull() {
		return GameOutcome{Kind: Draw}
	}
	return GameOutcome{Kind: InProgress}
}

// IsWinAt only looks at the four lines through lastMove. It agrees with
// CheckWinner whenever lastMove is the most recent stone of a position
// that had no winner before it.
func (r Rules) IsWinAt(board Board, lastMove Move) bool {
	if !board.InBounds(lastMove.Row, lastMove.Col) {
		return false
	}
	if board.At(lastMove.Row, lastMove.Col) == CellEmpty {
		return false
	}
	for _, dir := range lineDirections {
		count := 1
		count += r.countDirection(board, lastMove, dir[0], dir[1])
		count += r.countDirection(board, lastMove, -dir[0], -dir[1])
		if count >= r.winLength {
			return true
		}
	}
	return false
}

func (r Rules) WinningLine(board Board, lastMove Move) ([]Move, bool) {
	if !board.InBounds(lastMove.Row, lastMove.Col) || board.At(lastMove.Row, lastMove.Col) == CellEmpty {
		return nil, false
	}
	for _, dir := range lineDirections {
		line := r.collectLine(board, lastMove, dir[0], dir[1])
		if len(line) >= r.winLength {
			return line, true
		}
	}
	return nil, false
}

// ImmediateWins lists, row-major, the empty cells where player would
// complete a winning line with one stone. The board is mutated and
// restored.
func (r Rules) ImmediateWins(board *Board, player Player) []Move {
	var wins []Move
	size := board.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if board.At(row, col) != CellEmpty {
				continue
			}
			move := Move{Row: row, Col: col}
			if !r.hasNeighbor(*board, move, CellFromPlayer(player)) {
				continue
			}
			if err := board.Place(row, col, player); err != nil {
				panic(fmt.Sprintf("engine: win scan on an empty cell failed at %s: %v", move, err))
			}
			if r.IsWinAt(*board, move) {
				wins = append(wins, move)
			}
			board.Remove(row, col)
		}
	}
	return wins
}

func (r Rules) countDirection(board Board, start Move, dr, dc int) int {
	target := board.At(start.Row, start.Col)
	row := start.Row + dr
	col := start.Col + dc
	count := 0
	for board.InBounds(row, col) && board.At(row, col) == target {
		count++
		row += dr
		col += dc
	}
	return count
}

func (r Rules) collectLine(board Board, start Move, dr, dc int) []Move {
	line := []Move{}
	target := board.At(start.Row, start.Col)
	row := start.Row
	col := start.Col
	for board.InBounds(row-dr, col-dc) && board.At(row-dr, col-dc) == target {
		row -= dr
		col -= dc
	}
	for board.InBounds(row, col) && board.At(row, col) == target {
		line = append(line, Move{Row: row, Col: col})
		row += dr
		col += dc
	}
	return line
}

// hasNeighbor reports whether a stone of the given colour touches move.
// A winning placement always extends an existing run, so cells without
// one can be skipped.
func (r Rules) hasNeighbor(board Board, move Move, target Cell) bool {
	if r.winLength <= 1 {
		return true
	}
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			row := move.Row + dr
			col := move.Col + dc
			if board.InBounds(row, col) && board.At(row, col) == target {
				return true
			}
		}
	}
	return false
}

func (r Rules) String() string {
	return fmt.Sprintf("Rules{win=%d}", r.winLength)
}
