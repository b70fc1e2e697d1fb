package engine

// RunTotals counts runs by how close they are to a win and how many of
// their ends are empty. Four/Three/Two/One name the default five-in-a-row
// case; with another win length they mean "one stone short", "two stones
// short", and so on.
type RunTotals struct {
	Five    int
	Open4   int
	Closed4 int
	Open3   int
	Closed3 int
	Open2   int
	Closed2 int
	Open1   int
}

type Evaluator struct {
	weights   HeuristicConfig
	winLength int
	size      int
	lines     [][]int
}

func NewEvaluator(config Config) *Evaluator {
	config = config.Normalized()
	return &Evaluator{
		weights:   config.Heuristics,
		winLength: config.WinLength,
		size:      config.BoardSize,
		lines:     buildLines(config.BoardSize, config.WinLength),
	}
}

// Lines returns every row, column and diagonal long enough to hold a win,
// as row-major cell indices.
func (e *Evaluator) Lines() [][]int {
	return e.lines
}

// Evaluate scores the board for maximizing: positive favours it, negative
// favours its opponent.
func (e *Evaluator) Evaluate(board Board, maximizing Player) int {
	me := e.RunCounts(board, maximizing)
	opp := e.RunCounts(board, maximizing.Other())
	return weightedSum(me, e.weights) - weightedSum(opp, e.weights)
}

// EvaluationAt scores the board as if maximizing had a stone on (row, col).
// The second result is false when the cell is off the board or occupied.
func (e *Evaluator) EvaluationAt(board *Board, row, col int, maximizing Player) (int, bool) {
	if err := board.Place(row, col, maximizing); err != nil {
		return 0, false
	}
	score := e.Evaluate(*board, maximizing)
	board.Remove(row, col)
	return score, true
}

func (e *Evaluator) RunCounts(board Board, player Player) RunTotals {
	var totals RunTotals
	target := CellFromPlayer(player)
	for _, line := range e.linesFor(board.Size()) {
		accumulateRuns(board, line, target, e.winLength, &totals)
	}
	return totals
}

func (e *Evaluator) linesFor(size int) [][]int {
	if size == e.size {
		return e.lines
	}
	return buildLines(size, e.winLength)
}

func accumulateRuns(board Board, line []int, target Cell, winLength int, totals *RunTotals) {
	n := len(line)
	for i := 0; i < n; {
		if board.cells[line[i]] != target {
			i++
			continue
		}
		start := i
		for i < n && board.cells[line[i]] == target {
			i++
		}
		length := i - start
		openEnds := 0
		if start > 0 && board.cells[line[start-1]] == CellEmpty {
			openEnds++
		}
		if i < n && board.cells[line[i]] == CellEmpty {
			openEnds++
		}
		classifyRun(length, openEnds, winLength, totals)
	}
}

func classifyRun(length, openEnds, winLength int, totals *RunTotals) {
	if length >= winLength {
		totals.Five++
		return
	}
	if openEnds == 0 {
		return
	}
	open := openEnds == 2
	switch winLength - length {
	case 1:
		if open {
			totals.Open4++
		} else {
			totals.Closed4++
		}
	case 2:
		if open {
			totals.Open3++
		} else {
			totals.Closed3++
		}
	case 3:
		if open {
			totals.Open2++
		} else {
			totals.Closed2++
		}
	case 4:
		if open {
			totals.Open1++
		}
	}
}

func weightedSum(t RunTotals, w HeuristicConfig) int {
	return t.Five*w.Five +
		t.Open4*w.Open4 +
		t.Closed4*w.Closed4 +
		t.Open3*w.Open3 +
		t.Closed3*w.Closed3 +
		t.Open2*w.Open2 +
		t.Closed2*w.Closed2 +
		t.Open1*w.Open1
}

func buildLines(size, minLength int) [][]int {
	lines := [][]int{}
	if size <= 0 {
		return lines
	}
	// Rows.
	for row := 0; row < size; row++ {
		lines = append(lines, collectLineIndices(size, row, 0, 0, 1))
	}
	// Cols.
	for col := 0; col < size; col++ {
		lines = append(lines, collectLineIndices(size, 0, col, 1, 0))
	}
	// Diagonals (\)
	for col := 0; col < size; col++ {
		if line := collectLineIndices(size, 0, col, 1, 1); len(line) >= minLength {
			lines = append(lines, line)
		}
	}
	for row := 1; row < size; row++ {
		if line := collectLineIndices(size, row, 0, 1, 1); len(line) >= minLength {
			lines = append(lines, line)
		}
	}
	// Anti-diagonals (/)
	for col := 0; col < size; col++ {
		if line := collectLineIndices(size, 0, col, 1, -1); len(line) >= minLength {
			lines = append(lines, line)
		}
	}
	for row := 1; row < size; row++ {
		if line := collectLineIndices(size, row, size-1, 1, -1); len(line) >= minLength {
			lines = append(lines, line)
		}
	}
	return lines
}

func collectLineIndices(size, startRow, startCol, dr, dc int) []int {
	line := []int{}
	row := startRow
	col := startCol
	for row >= 0 && col >= 0 && row < size && col < size {
		line = append(line, row*size+col)
		row += dr
		col += dc
	}
	return line
}
