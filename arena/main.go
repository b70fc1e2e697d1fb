// Command arena plays two engine configurations against each other and
// reports the score and Elo ratings.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/alfredoyang/gomoku/engine"
)

func main() {
	games := flag.Int("games", getenvInt("ARENA_GAMES", 6), "number of openings; each is played with both colours")
	depthA := flag.Int("depth-a", getenvInt("ARENA_DEPTH_A", engine.DefaultSearchDepth), "search depth of contender a")
	depthB := flag.Int("depth-b", getenvInt("ARENA_DEPTH_B", engine.DefaultSearchDepth), "search depth of contender b")
	weightsA := flag.String("weights-a", getenv("ARENA_WEIGHTS_A", ""), "JSON heuristic weights of contender a")
	weightsB := flag.String("weights-b", getenv("ARENA_WEIGHTS_B", ""), "JSON heuristic weights of contender b")
	openingPlies := flag.Int("opening-plies", getenvInt("ARENA_OPENING_PLIES", 4), "stones placed before the engines take over")
	seed := flag.Int64("seed", int64(getenvInt("ARENA_SEED", 1)), "opening suite seed")
	workers := flag.Int("workers", getenvInt("ARENA_WORKERS", runtime.NumCPU()), "games played in parallel")
	eloK := flag.Float64("elo-k", getenvFloat("ARENA_ELO_K", 20), "Elo K factor")
	timeout := flag.Duration("timeout", 0, "abort the match after this long (0 disables)")
	logPath := flag.String("log", getenv("ARENA_LOG", "logs/arena.log"), "log file, also mirrored to stdout")
	flag.Parse()

	logger, closeLog, err := buildLogger(*logPath)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLog()

	a, err := newContender("a", *depthA, *weightsA)
	if err != nil {
		logger.Fatalf("contender a: %v", err)
	}
	b, err := newContender("b", *depthB, *weightsB)
	if err != nil {
		logger.Fatalf("contender b: %v", err)
	}

	if *games < 1 {
		*games = 1
	}
	if *workers < 1 {
		*workers = 1
	}
	if *openingPlies < 1 {
		*openingPlies = 1
	}
	ar := &arena{
		logger:       logger,
		games:        *games,
		workers:      *workers,
		openingPlies: *openingPlies,
		eloK:         *eloK,
		seed:         *seed,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	ar.logf("arena started: openings=%d workers=%d a.depth=%d b.depth=%d", ar.games, ar.workers, *depthA, *depthB)
	if err := ar.run(ctx, a, b); err != nil {
		ar.logf("arena stopped: %v", err)
		closeLog()
		os.Exit(1)
	}
}

func newContender(id string, depth int, weightsPath string) (*contender, error) {
	cfg := engine.DefaultConfig()
	cfg.SearchDepth = depth
	if weightsPath != "" {
		weights, err := readHeuristicFile(weightsPath)
		if err != nil {
			return nil, err
		}
		cfg.Heuristics = weights
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &contender{ID: id, Config: cfg, Elo: 1500}, nil
}

func buildLogger(path string) (*log.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(io.MultiWriter(os.Stdout, f), "", 0)
	return logger, func() { _ = f.Close() }, nil
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getenvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed float64
	if _, err := fmt.Sscanf(value, "%f", &parsed); err != nil {
		return fallback
	}
	return parsed
}
