// Package engine holds the gomoku game core: the board, the rules, the
// positional evaluator and the minimax search that drives the AI.
package engine

import (
	"errors"
	"fmt"
	"strings"
)

type Cell int

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

var (
	ErrOutOfBounds = errors.New("out of bounds")
	ErrOccupied    = errors.New("cell occupied")
)

// Board is a square grid stored row-major. Stones are only ever added by
// Place; Remove exists for the search's place/undo discipline.
type Board struct {
	size  int
	cells []Cell
}

func NewBoard(boardSize int) Board {
	b := Board{}
	b.Reset(boardSize)
	return b
}

func (b *Board) Reset(boardSize int) {
	b.size = boardSize
	b.cells = make([]Cell, boardSize*boardSize)
}

func (b Board) Size() int {
	return b.size
}

func (b Board) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < b.size && col < b.size
}

func (b Board) Get(row, col int) (Cell, error) {
	if !b.InBounds(row, col) {
		return CellEmpty, ErrOutOfBounds
	}
	return b.cells[b.index(row, col)], nil
}

// At is the unchecked accessor used on hot paths where the caller has
// already bounds-checked.
func (b Board) At(row, col int) Cell {
	return b.cells[b.index(row, col)]
}

func (b Board) IsEmpty(row, col int) bool {
	return b.InBounds(row, col) && b.At(row, col) == CellEmpty
}

func (b *Board) Place(row, col int, player Player) error {
	if !b.InBounds(row, col) {
		return ErrOutOfBounds
	}
	idx := b.index(row, col)
	if b.cells[idx] != CellEmpty {
		return ErrOccupied
	}
	b.cells[idx] = CellFromPlayer(player)
	return nil
}

// Remove retracts a stone placed during search. Retracting an empty or
// off-board cell means the search lost track of its own moves.
func (b *Board) Remove(row, col int) {
	if !b.InBounds(row, col) {
		panic(fmt.Sprintf("engine: remove out of bounds (%d,%d)", row, col))
	}
	idx := b.index(row, col)
	if b.cells[idx] == CellEmpty {
		panic(fmt.Sprintf("engine: remove on empty cell (%d,%d)", row, col))
	}
	b.cells[idx] = CellEmpty
}

func (b Board) IsFull() bool {
	for _, cell := range b.cells {
		if cell == CellEmpty {
			return false
		}
	}
	return true
}

func (b Board) CountEmpty() int {
	count := 0
	for _, cell := range b.cells {
		if cell == CellEmpty {
			count++
		}
	}
	return count
}

func (b Board) StoneCount() int {
	return len(b.cells) - b.CountEmpty()
}

// Snapshot returns a row-major copy of every cell.
func (b Board) Snapshot() []Cell {
	out := make([]Cell, len(b.cells))
	copy(out, b.cells)
	return out
}

func (b Board) Clone() Board {
	clone := Board{size: b.size}
	clone.cells = make([]Cell, len(b.cells))
	copy(clone.cells, b.cells)
	return clone
}

func (b Board) Equal(other Board) bool {
	if b.size != other.size || len(b.cells) != len(other.cells) {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for col := 0; col < b.size; col++ {
		fmt.Fprintf(&sb, "%2d ", col)
	}
	sb.WriteByte('\n')
	for row := 0; row < b.size; row++ {
		fmt.Fprintf(&sb, "%2d ", row)
		for col := 0; col < b.size; col++ {
			sb.WriteString(b.At(row, col).Glyph())
			sb.WriteString("  ")
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b Board) index(row, col int) int {
	return row*b.size + col
}

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "Black"
	case CellWhite:
		return "White"
	default:
		return "Empty"
	}
}

func (c Cell) Glyph() string {
	switch c {
	case CellBlack:
		return "X"
	case CellWhite:
		return "O"
	default:
		return "."
	}
}

// Code is the numeric cell encoding shared with renderers: 0 empty,
// 1 black, 2 white.
func (c Cell) Code() int {
	return int(c)
}

func CellFromPlayer(player Player) Cell {
	if player == PlayerBlack {
		return CellBlack
	}
	return CellWhite
}

func PlayerFromCell(cell Cell) (Player, error) {
	switch cell {
	case CellBlack:
		return PlayerBlack, nil
	case CellWhite:
		return PlayerWhite, nil
	default:
		return PlayerBlack, fmt.Errorf("empty cell has no player")
	}
}
