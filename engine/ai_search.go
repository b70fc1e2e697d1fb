package engine

import (
	"errors"
	"math"
	"sync"
)

// WinScore is the magnitude reserved for decided positions. It is far
// above anything the evaluator can produce on a legal board, so a forced
// win or loss always outranks positional preference.
const WinScore = 1_000_000_000

const (
	scoreInf    = math.MaxInt
	scoreNegInf = -math.MaxInt
)

var ErrNoLegalMoves = errors.New("no legal moves")

type SearchResult struct {
	Move    Move `json:"move"`
	Score   int  `json:"score"`
	Nodes   int64
	Cutoffs int64
}

type searchStats struct {
	nodes   int64
	cutoffs int64
}

// Searcher runs a fixed-depth minimax with alpha-beta pruning. It places
// and retracts stones on the caller's board instead of copying it per
// node, so the board must not be touched elsewhere while BestMove runs.
type Searcher struct {
	config Config
	rules  Rules
	eval   *Evaluator
}

func NewSearcher(config Config) *Searcher {
	config = config.Normalized()
	return &Searcher{
		config: config,
		rules:  NewRules(config),
		eval:   NewEvaluator(config),
	}
}

func (s *Searcher) Evaluator() *Evaluator {
	return s.eval
}

// BestMove picks the move for ai. The board is left exactly as it was
// passed in. Equal scores resolve to the first candidate in generation
// order, so identical positions always give the identical move.
func (s *Searcher) BestMove(board *Board, ai Player) (SearchResult, error) {
	if board.IsFull() {
		return SearchResult{}, ErrNoLegalMoves
	}
	candidates := s.candidates(board, ai)
	if len(candidates) == 0 {
		return SearchResult{}, ErrNoLegalMoves
	}
	if s.config.Workers > 1 && len(candidates) > 1 {
		return s.bestMoveParallel(*board, ai, candidates), nil
	}

	stats := &searchStats{nodes: 1}
	depth := s.config.SearchDepth
	alpha := scoreNegInf
	best := scoreNegInf
	bestMove := candidates[0]
	for _, move := range candidates {
		value := s.scoreChild(board, move, ai, ai, depth, alpha, scoreInf, stats)
		if value > best {
			best = value
			bestMove = move
		}
		if best > alpha {
			alpha = best
		}
	}
	return SearchResult{Move: bestMove, Score: best, Nodes: stats.nodes, Cutoffs: stats.cutoffs}, nil
}

// bestMoveParallel gives every root candidate a full window on its own
// board copy. Without shared bounds each value is exact, and taking the
// first maximum matches the serial search.
func (s *Searcher) bestMoveParallel(board Board, ai Player, candidates []Move) SearchResult {
	values := make([]int, len(candidates))
	stats := make([]searchStats, len(candidates))
	sem := make(chan struct{}, s.config.Workers)
	var wg sync.WaitGroup
	for i, move := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, move Move) {
			defer wg.Done()
			defer func() { <-sem }()
			local := board.Clone()
			values[i] = s.scoreChild(&local, move, ai, ai, s.config.SearchDepth, scoreNegInf, scoreInf, &stats[i])
		}(i, move)
	}
	wg.Wait()

	result := SearchResult{Move: candidates[0], Score: scoreNegInf, Nodes: 1}
	for i, value := range values {
		result.Nodes += stats[i].nodes
		result.Cutoffs += stats[i].cutoffs
		if value > result.Score {
			result.Score = value
			result.Move = candidates[i]
		}
	}
	return result
}

// scoreChild plays move for toMove, scores the resulting position and
// takes the stone back. depth counts the plies left including this move.
func (s *Searcher) scoreChild(board *Board, move Move, toMove, ai Player, depth, alpha, beta int, stats *searchStats) int {
	if err := board.Place(move.Row, move.Col, toMove); err != nil {
		panic("engine: search generated illegal move " + move.String() + ": " + err.Error())
	}
	var value int
	switch {
	case s.rules.IsWinAt(*board, move):
		value = WinScore + depth
		if toMove != ai {
			value = -value
		}
	case board.IsFull():
		value = 0
	default:
		value = s.minimax(board, depth-1, alpha, beta, toMove.Other(), ai, stats)
	}
	board.Remove(move.Row, move.Col)
	return value
}

func (s *Searcher) minimax(board *Board, depth, alpha, beta int, toMove, ai Player, stats *searchStats) int {
	if depth <= 0 {
		return s.eval.Evaluate(*board, ai)
	}
	stats.nodes++
	candidates := s.candidates(board, toMove)
	if len(candidates) == 0 {
		return s.eval.Evaluate(*board, ai)
	}
	maximizing := toMove == ai
	best := scoreNegInf
	if !maximizing {
		best = scoreInf
	}
	for _, move := range candidates {
		value := s.scoreChild(board, move, toMove, ai, depth, alpha, beta, stats)
		if maximizing {
			if value > best {
				best = value
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if value < best {
				best = value
			}
			if best < beta {
				beta = best
			}
		}
		if beta <= alpha {
			stats.cutoffs++
			break
		}
	}
	return best
}

// Candidates returns the moves the search would try for toMove, in
// search order.
func (s *Searcher) Candidates(board *Board, toMove Player) []Move {
	return s.candidates(board, toMove)
}

// candidates narrows the move list the way a player would: win if
// possible, otherwise block a win-in-one, otherwise look near existing
// stones. Every list is row-major.
func (s *Searcher) candidates(board *Board, toMove Player) []Move {
	if wins := s.rules.ImmediateWins(board, toMove); len(wins) > 0 {
		return wins
	}
	if blocks := s.rules.ImmediateWins(board, toMove.Other()); len(blocks) > 0 {
		return blocks
	}
	return neighborhoodMoves(*board, s.config.NeighborRadius)
}

func neighborhoodMoves(board Board, radius int) []Move {
	size := board.Size()
	if board.StoneCount() == 0 {
		center := size / 2
		return []Move{{Row: center, Col: center}}
	}
	near := make([]bool, size*size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if board.At(row, col) == CellEmpty {
				continue
			}
			for dr := -radius; dr <= radius; dr++ {
				for dc := -radius; dc <= radius; dc++ {
					nr := row + dr
					nc := col + dc
					if board.IsEmpty(nr, nc) {
						near[nr*size+nc] = true
					}
				}
			}
		}
	}
	moves := make([]Move, 0, 64)
	for idx, ok := range near {
		if ok {
			moves = append(moves, Move{Row: idx / size, Col: idx % size})
		}
	}
	if len(moves) > 0 {
		return moves
	}
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if board.At(row, col) == CellEmpty {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}
	return moves
}
