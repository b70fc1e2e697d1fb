package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/alfredoyang/gomoku/engine"
)

// contender is one engine configuration taking part in the match.
type contender struct {
	ID     string
	Config engine.Config
	Elo    float64
}

type arena struct {
	logger       *log.Logger
	games        int
	workers      int
	openingPlies int
	eloK         float64
	seed         int64
}

type matchJob struct {
	index   int
	opening []engine.Move
}

type matchResult struct {
	index  int
	points float64
	stones int
	err    error
}

// gameRecord is one finished game between the two contenders.
type gameRecord struct {
	Outcome engine.GameOutcome
	Stones  int
}

// run plays the head-to-head series between a and b. Each opening is
// played twice with colours swapped; Elo is updated in opening order so
// the final ratings do not depend on worker scheduling.
func (ar *arena) run(ctx context.Context, a, b *contender) error {
	openings := buildOpeningSuite(a.Config.BoardSize, ar.games, ar.openingPlies, ar.seed)
	jobs := make(chan matchJob)
	results := make(chan matchResult, len(openings))

	var wg sync.WaitGroup
	for w := 0; w < ar.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				points, stones, err := playHeadToHead(ctx, a.Config, b.Config, job.opening)
				results <- matchResult{index: job.index, points: points, stones: stones, err: err}
			}
		}()
	}

	start := time.Now()
	go func() {
		defer close(jobs)
		for i, opening := range openings {
			select {
			case <-ctx.Done():
				return
			case jobs <- matchJob{index: i, opening: opening}:
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]matchResult, 0, len(openings))
	for result := range results {
		if result.err != nil {
			return result.err
		}
		collected = append(collected, result)
		ar.logf("opening %d done (%d/%d) result_for_%s=%.1f stones=%d", result.index, len(collected), len(openings), a.ID, result.points, result.stones)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })

	total := 0.0
	for _, result := range collected {
		updateElo(a, b, result.points, ar.eloK)
		total += result.points
	}
	ar.logf("finished %d openings in %s: %s %.1f - %.1f %s", len(collected), time.Since(start).Round(time.Millisecond), a.ID, total, float64(len(collected))-total, b.ID)
	ar.logf("elo: %s=%.1f %s=%.1f", a.ID, a.Elo, b.ID, b.Elo)
	return nil
}

// playHeadToHead plays opening once with first as Black and once with
// second as Black. The result is first's average score.
func playHeadToHead(ctx context.Context, first, second engine.Config, opening []engine.Move) (float64, int, error) {
	points := 0.0
	stones := 0
	for _, firstBlack := range []bool{true, false} {
		black, white := first, second
		if !firstBlack {
			black, white = second, first
		}
		record, err := playGame(ctx, black, white, opening)
		if err != nil {
			return 0, 0, err
		}
		stones += record.Stones
		switch {
		case record.Outcome.Kind == engine.Draw:
			points += 0.5
		case record.Outcome.Winner == engine.PlayerBlack && firstBlack:
			points += 1.0
		case record.Outcome.Winner == engine.PlayerWhite && !firstBlack:
			points += 1.0
		}
	}
	return points / 2.0, stones / 2, nil
}

// playGame seeds the board with opening and lets each side's searcher
// move until the game ends. Both configs must share board size and win
// length.
func playGame(ctx context.Context, black, white engine.Config, opening []engine.Move) (gameRecord, error) {
	game, err := engine.NewGame(black)
	if err != nil {
		return gameRecord{}, err
	}
	searchers := map[engine.Player]*engine.Searcher{
		engine.PlayerBlack: engine.NewSearcher(black),
		engine.PlayerWhite: engine.NewSearcher(white),
	}
	play := func(move engine.Move) (bool, error) {
		if err := game.MakeMove(move.Row, move.Col); err != nil {
			return false, err
		}
		if game.Outcome().IsOver() {
			return true, nil
		}
		game.SwitchPlayer()
		return false, nil
	}

	for _, move := range opening {
		over, err := play(move)
		if err != nil {
			return gameRecord{}, fmt.Errorf("opening move %s: %w", move, err)
		}
		if over {
			return gameRecord{Outcome: game.Outcome(), Stones: len(game.History())}, nil
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return gameRecord{}, err
		}
		board := game.BoardCopy()
		result, err := searchers[game.CurrentPlayer()].BestMove(&board, game.CurrentPlayer())
		if err != nil {
			return gameRecord{}, err
		}
		over, err := play(result.Move)
		if err != nil {
			return gameRecord{}, err
		}
		if over {
			return gameRecord{Outcome: game.Outcome(), Stones: len(game.History())}, nil
		}
	}
}

func buildOpeningSuite(boardSize, count, plies int, salt int64) [][]engine.Move {
	rng := rand.New(rand.NewSource(int64(boardSize*97+plies*13) + salt))
	center := boardSize / 2
	offsets := [][2]int{
		{0, 0}, {1, 0}, {0, 1}, {-1, 0}, {0, -1}, {1, 1}, {-1, -1}, {1, -1}, {-1, 1}, {2, 0}, {0, 2},
	}
	if plies > len(offsets) {
		plies = len(offsets)
	}
	suite := make([][]engine.Move, 0, count)
	for i := 0; i < count; i++ {
		used := map[engine.Move]bool{}
		opening := make([]engine.Move, 0, plies)
		for len(opening) < plies {
			off := offsets[rng.Intn(len(offsets))]
			move := engine.NewMove(center+off[0], center+off[1])
			if !move.IsValid(boardSize) || used[move] {
				continue
			}
			used[move] = true
			opening = append(opening, move)
		}
		suite = append(suite, opening)
	}
	return suite
}

func updateElo(a *contender, b *contender, resultForA float64, k float64) {
	expA := 1.0 / (1.0 + math.Pow(10, (b.Elo-a.Elo)/400.0))
	expB := 1.0 / (1.0 + math.Pow(10, (a.Elo-b.Elo)/400.0))
	a.Elo += k * (resultForA - expA)
	b.Elo += k * ((1.0 - resultForA) - expB)
}

// readHeuristicFile loads a weights file written as the JSON form of
// engine.HeuristicConfig. Missing fields keep the defaults.
func readHeuristicFile(path string) (engine.HeuristicConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return engine.HeuristicConfig{}, err
	}
	cfg := engine.DefaultHeuristics()
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return engine.HeuristicConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return engine.HeuristicConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (ar *arena) logf(format string, args ...any) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	ar.logger.Printf("[%s] %s", ts, fmt.Sprintf(format, args...))
}
