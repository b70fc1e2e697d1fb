package main

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alfredoyang/gomoku/engine"
)

// AIPlayer runs the search off the request path. StartThinking hands a
// board copy to a goroutine; the session polls HasMoveReady on every
// tick and collects the move with TakeMove.
type AIPlayer struct {
	color      engine.Player
	moveMutex  sync.Mutex
	workerDone chan struct{}
	thinking   atomic.Bool
	moveReady  atomic.Bool
	stopSignal atomic.Bool
	readyMove  engine.Move
	readyErr   error
	lastResult engine.SearchResult
	lastTook   time.Duration
}

func NewAIPlayer(color engine.Player) *AIPlayer {
	return &AIPlayer{color: color}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

func (a *AIPlayer) Color() engine.Player {
	return a.color
}

func (a *AIPlayer) StartThinking(board engine.Board, config Config) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)
	a.stopSignal.Store(false)

	boardCopy := board.Clone()
	done := make(chan struct{})
	a.workerDone = done
	go func() {
		defer close(done)
		searcher := engine.NewSearcher(config.Engine)
		start := time.Now()
		result, err := searcher.BestMove(&boardCopy, a.color)
		took := time.Since(start)
		if a.stopSignal.Load() {
			a.moveReady.Store(false)
			a.thinking.Store(false)
			return
		}
		if err == nil && config.LogSearchStats {
			logSearchStats("think", a.color, result, took, config.Engine)
		}
		a.moveMutex.Lock()
		a.readyMove = result.Move
		a.readyErr = err
		a.lastResult = result
		a.lastTook = took
		a.moveMutex.Unlock()
		a.moveReady.Store(true)
		a.thinking.Store(false)
	}()
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

// TakeMove returns the finished search's move. The error is
// engine.ErrNoLegalMoves when the board filled up.
func (a *AIPlayer) TakeMove() (engine.Move, error) {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.readyMove, a.readyErr
}

func (a *AIPlayer) LastResult() (engine.SearchResult, time.Duration) {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	return a.lastResult, a.lastTook
}

// Stop discards the running search's result. It does not interrupt the
// search itself; a depth-3 search finishes quickly.
func (a *AIPlayer) Stop() {
	a.stopSignal.Store(true)
	a.moveReady.Store(false)
}

// Wait blocks until the current worker, if any, has exited.
func (a *AIPlayer) Wait() {
	if a.workerDone != nil {
		<-a.workerDone
	}
}

func logSearchStats(tag string, color engine.Player, result engine.SearchResult, elapsed time.Duration, config engine.Config) {
	nps := 0.0
	if elapsed > 0 {
		nps = float64(result.Nodes) / elapsed.Seconds()
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	fmt.Printf("[ai:%s] color=%s move=%s score=%d t=%dms depth=%d workers=%d nodes=%d nps=%.0f cutoffs=%d mem_alloc=%s\n",
		tag,
		color,
		result.Move,
		result.Score,
		elapsed.Milliseconds(),
		config.SearchDepth,
		config.Workers,
		result.Nodes,
		nps,
		result.Cutoffs,
		formatBytes(mem.Alloc),
	)
}

func formatBytes(value uint64) string {
	const unit = 1024
	if value < unit {
		return fmt.Sprintf("%dB", value)
	}
	div, exp := uint64(unit), 0
	for n := value / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(value)/float64(div), "KMGTPE"[exp])
}
