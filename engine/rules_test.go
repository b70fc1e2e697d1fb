package engine

import (
	"math/rand"
	"testing"
)

func boardWith(size int, black, white []Move) Board {
	board := NewBoard(size)
	for _, m := range black {
		if err := board.Place(m.Row, m.Col, PlayerBlack); err != nil {
			panic(err)
		}
	}
	for _, m := range white {
		if err := board.Place(m.Row, m.Col, PlayerWhite); err != nil {
			panic(err)
		}
	}
	return board
}

func line(row, col, dr, dc, n int) []Move {
	moves := make([]Move, 0, n)
	for i := 0; i < n; i++ {
		moves = append(moves, Move{Row: row + i*dr, Col: col + i*dc})
	}
	return moves
}

// drawPattern colours the board so that no line holds more than two
// same-coloured stones in a row.
func drawPattern(size int) Board {
	board := NewBoard(size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			player := PlayerBlack
			if (col/2+row)%2 == 1 {
				player = PlayerWhite
			}
			_ = board.Place(row, col, player)
		}
	}
	return board
}

func TestCheckWinnerLines(t *testing.T) {
	rules := NewRules(DefaultConfig())
	tests := []struct {
		name   string
		board  Board
		winner Player
		won    bool
	}{
		{name: "horizontal black", board: boardWith(15, line(7, 3, 0, 1, 5), nil), winner: PlayerBlack, won: true},
		{name: "vertical white", board: boardWith(15, nil, line(0, 14, 1, 0, 5)), winner: PlayerWhite, won: true},
		{name: "diagonal black", board: boardWith(15, line(10, 10, 1, 1, 5), nil), winner: PlayerBlack, won: true},
		{name: "anti diagonal white", board: boardWith(15, nil, line(0, 4, 1, -1, 5)), winner: PlayerWhite, won: true},
		{name: "six in a row counts", board: boardWith(15, line(3, 0, 0, 1, 6), nil), winner: PlayerBlack, won: true},
		{name: "four is not enough", board: boardWith(15, line(3, 0, 0, 1, 4), nil), won: false},
		{
			name:  "four blocked on both ends",
			board: boardWith(15, line(7, 3, 0, 1, 4), []Move{{7, 2}, {7, 7}}),
			won:   false,
		},
		{
			name:  "broken five",
			board: boardWith(15, []Move{{5, 0}, {5, 1}, {5, 2}, {5, 4}, {5, 5}}, []Move{{5, 3}}),
			won:   false,
		},
		{name: "empty board", board: NewBoard(15), won: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			winner, won := rules.Winner(tc.board)
			if won != tc.won {
				t.Fatalf("expected won=%v, got %v", tc.won, won)
			}
			if won && winner != tc.winner {
				t.Fatalf("expected winner %s, got %s", tc.winner, winner)
			}
			if tc.won && rules.CheckWinner(tc.board, tc.winner.Other()) {
				t.Fatalf("loser reported as winner")
			}
		})
	}
}

func TestCheckDrawOnFullBoardWithoutFive(t *testing.T) {
	rules := NewRules(DefaultConfig())
	board := drawPattern(15)
	if !board.IsFull() {
		t.Fatalf("expected full board")
	}
	if _, won := rules.Winner(board); won {
		t.Fatalf("draw pattern unexpectedly contains a winner")
	}
	if !rules.CheckDraw(board) {
		t.Fatalf("expected draw")
	}
	if got := rules.Outcome(board); got.Kind != Draw || got.WinnerCode() != 0 {
		t.Fatalf("expected draw outcome, got %v", got)
	}
}

func TestCheckDrawFalseWhileCellsRemain(t *testing.T) {
	rules := NewRules(DefaultConfig())
	board := drawPattern(15)
	board.Remove(14, 14)
	if rules.CheckDraw(board) {
		t.Fatalf("board with an empty cell cannot be a draw")
	}
	if got := rules.Outcome(board); got.Kind != InProgress {
		t.Fatalf("expected in progress, got %v", got)
	}
}

// The local scan through the last stone must agree with the full board
// scan for every position reached by alternating play.
func TestLocalAndFullScanAgree(t *testing.T) {
	rules := NewRules(DefaultConfig())
	for seed := int64(1); seed <= 40; seed++ {
		rng := rand.New(rand.NewSource(seed))
		board := NewBoard(9)
		player := PlayerBlack
		for !board.IsFull() {
			move := Move{Row: rng.Intn(9), Col: rng.Intn(9)}
			if board.Place(move.Row, move.Col, player) != nil {
				continue
			}
			local := rules.IsWinAt(board, move)
			full := rules.CheckWinner(board, player)
			if local != full {
				t.Fatalf("seed %d: local=%v full=%v after %s\n%s", seed, local, full, move, board)
			}
			if rules.CheckWinner(board, player.Other()) {
				t.Fatalf("seed %d: opponent reported a win after %s", seed, move)
			}
			if local {
				break
			}
			player = player.Other()
		}
	}
}

func TestWinningLineCollectsWholeRun(t *testing.T) {
	rules := NewRules(DefaultConfig())
	stones := line(2, 2, 1, 1, 6)
	board := boardWith(15, stones, nil)
	got, ok := rules.WinningLine(board, Move{Row: 4, Col: 4})
	if !ok {
		t.Fatalf("expected a winning line")
	}
	if len(got) != 6 {
		t.Fatalf("expected 6 stones, got %d", len(got))
	}
	for i, m := range got {
		if !m.Equals(stones[i]) {
			t.Fatalf("line[%d]=%s, want %s", i, m, stones[i])
		}
	}
}

func TestIsLegalReasons(t *testing.T) {
	rules := NewRules(DefaultConfig())
	board := boardWith(15, []Move{{0, 0}}, nil)
	if ok, reason := rules.IsLegal(board, Move{Row: 15, Col: 0}); ok || reason != "out of bounds" {
		t.Fatalf("expected out of bounds, got ok=%v reason=%q", ok, reason)
	}
	if ok, reason := rules.IsLegal(board, Move{Row: 0, Col: 0}); ok || reason != "occupied" {
		t.Fatalf("expected occupied, got ok=%v reason=%q", ok, reason)
	}
	if ok, _ := rules.IsLegal(board, Move{Row: 1, Col: 1}); !ok {
		t.Fatalf("expected empty cell to be legal")
	}
}

func TestImmediateWinsRowMajorAndBoardRestored(t *testing.T) {
	rules := NewRules(DefaultConfig())
	board := boardWith(15, line(7, 3, 0, 1, 4), nil)
	before := board.Clone()
	wins := rules.ImmediateWins(&board, PlayerBlack)
	if len(wins) != 2 || !wins[0].Equals(Move{7, 2}) || !wins[1].Equals(Move{7, 7}) {
		t.Fatalf("expected [(7,2) (7,7)], got %v", wins)
	}
	if !board.Equal(before) {
		t.Fatalf("ImmediateWins left stones on the board")
	}
	if got := rules.ImmediateWins(&board, PlayerWhite); len(got) != 0 {
		t.Fatalf("white has no winning move, got %v", got)
	}
}

func TestRulesHonourConfiguredWinLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WinLength = 4
	rules := NewRules(cfg)
	board := boardWith(9, line(0, 0, 0, 1, 4), nil)
	if !rules.CheckWinner(board, PlayerBlack) {
		t.Fatalf("expected four in a row to win with win length 4")
	}
}
