package engine

import (
	"errors"
	"math/rand"
	"testing"
)

func randomBoard(size int, stones int, seed int64) Board {
	rng := rand.New(rand.NewSource(seed))
	board := NewBoard(size)
	player := PlayerBlack
	for placed := 0; placed < stones; {
		row := rng.Intn(size)
		col := rng.Intn(size)
		if board.Place(row, col, player) == nil {
			placed++
			player = player.Other()
		}
	}
	return board
}

func TestNewBoardIsEmpty(t *testing.T) {
	board := NewBoard(DefaultBoardSize)
	if board.Size() != 15 {
		t.Fatalf("expected size 15, got %d", board.Size())
	}
	if board.CountEmpty() != 225 {
		t.Fatalf("expected 225 empty cells, got %d", board.CountEmpty())
	}
	if board.IsFull() {
		t.Fatalf("expected fresh board not to be full")
	}
}

func TestPlaceChangesExactlyOneCell(t *testing.T) {
	board := randomBoard(15, 40, 7)
	for row := 0; row < board.Size(); row++ {
		for col := 0; col < board.Size(); col++ {
			if !board.IsEmpty(row, col) {
				continue
			}
			before := board.Snapshot()
			if err := board.Place(row, col, PlayerWhite); err != nil {
				t.Fatalf("place (%d,%d): %v", row, col, err)
			}
			cell, err := board.Get(row, col)
			if err != nil || cell != CellWhite {
				t.Fatalf("expected white at (%d,%d), got %v err=%v", row, col, cell, err)
			}
			after := board.Snapshot()
			changed := 0
			for i := range before {
				if before[i] != after[i] {
					changed++
				}
			}
			if changed != 1 {
				t.Fatalf("expected exactly one changed cell, got %d", changed)
			}
			board.Remove(row, col)
		}
	}
}

func TestPlaceOnOccupiedCellFailsWithoutChange(t *testing.T) {
	board := randomBoard(15, 60, 11)
	for row := 0; row < board.Size(); row++ {
		for col := 0; col < board.Size(); col++ {
			if board.IsEmpty(row, col) {
				continue
			}
			before := board.Clone()
			err := board.Place(row, col, PlayerBlack)
			if !errors.Is(err, ErrOccupied) {
				t.Fatalf("expected ErrOccupied at (%d,%d), got %v", row, col, err)
			}
			if !board.Equal(before) {
				t.Fatalf("board changed after failed place at (%d,%d)", row, col)
			}
		}
	}
}

func TestPlaceAndGetOutOfBounds(t *testing.T) {
	board := NewBoard(15)
	before := board.Clone()
	cases := []Move{{-1, 0}, {0, -1}, {15, 0}, {0, 15}, {20, 20}}
	for _, move := range cases {
		if err := board.Place(move.Row, move.Col, PlayerBlack); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("expected ErrOutOfBounds placing %s, got %v", move, err)
		}
		if _, err := board.Get(move.Row, move.Col); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("expected ErrOutOfBounds reading %s, got %v", move, err)
		}
	}
	if !board.Equal(before) {
		t.Fatalf("board changed after out of bounds placements")
	}
}

func TestPlaceRemoveRestoresWholeBoard(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		board := randomBoard(15, int(seed*20), seed)
		original := board.Clone()
		for row := 0; row < board.Size(); row++ {
			for col := 0; col < board.Size(); col++ {
				if !board.IsEmpty(row, col) {
					continue
				}
				if err := board.Place(row, col, PlayerBlack); err != nil {
					t.Fatalf("place (%d,%d): %v", row, col, err)
				}
				board.Remove(row, col)
				if !board.Equal(original) {
					t.Fatalf("seed %d: place/remove at (%d,%d) did not restore the board", seed, row, col)
				}
			}
		}
	}
}

func TestRemoveEmptyCellPanics(t *testing.T) {
	board := NewBoard(15)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when removing from an empty cell")
		}
	}()
	board.Remove(3, 3)
}

func TestSnapshotIsDetached(t *testing.T) {
	board := NewBoard(15)
	_ = board.Place(0, 0, PlayerBlack)
	snap := board.Snapshot()
	if len(snap) != 225 || snap[0] != CellBlack {
		t.Fatalf("unexpected snapshot head %v len=%d", snap[0], len(snap))
	}
	snap[1] = CellWhite
	if board.At(0, 1) != CellEmpty {
		t.Fatalf("snapshot writes leaked into the board")
	}
}

func TestSnapshotIsRowMajor(t *testing.T) {
	board := NewBoard(15)
	_ = board.Place(2, 3, PlayerWhite)
	snap := board.Snapshot()
	if snap[2*15+3] != CellWhite {
		t.Fatalf("expected white at index %d", 2*15+3)
	}
}

func TestIsFull(t *testing.T) {
	board := NewBoard(5)
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			if board.IsFull() {
				t.Fatalf("board reported full with empty cells left")
			}
			_ = board.Place(row, col, PlayerBlack)
		}
	}
	if !board.IsFull() {
		t.Fatalf("expected full board")
	}
	if board.StoneCount() != 25 {
		t.Fatalf("expected 25 stones, got %d", board.StoneCount())
	}
}

func TestBoardStringUsesConsoleGlyphs(t *testing.T) {
	board := NewBoard(5)
	_ = board.Place(0, 0, PlayerBlack)
	_ = board.Place(0, 1, PlayerWhite)
	want := "    0  1  2  3  4 \n" +
		" 0 X  O  .  .  .  \n" +
		" 1 .  .  .  .  .  \n" +
		" 2 .  .  .  .  .  \n" +
		" 3 .  .  .  .  .  \n" +
		" 4 .  .  .  .  .  \n"
	if got := board.String(); got != want {
		t.Fatalf("unexpected rendering:\n%q\nwant\n%q", got, want)
	}
}
