package engine

import (
	"errors"
	"fmt"
)

const (
	DefaultBoardSize      = 15
	DefaultWinLength      = 5
	DefaultSearchDepth    = 3
	DefaultNeighborRadius = 2
)

// MaxHeuristicWeight caps every run weight. Together with the board-size
// check in Config.Validate it keeps any static score below WinScore, so a
// forced win or loss always outranks positional play.
const MaxHeuristicWeight = WinScore / 10_000

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	BoardSize      int             `json:"board_size"`
	WinLength      int             `json:"win_length"`
	SearchDepth    int             `json:"search_depth"`
	NeighborRadius int             `json:"neighbor_radius"`
	Workers        int             `json:"workers"`
	Heuristics     HeuristicConfig `json:"heuristics"`
}

// HeuristicConfig weights a run by its length and by how many of its two
// ends are empty. Runs closed on both ends score nothing unless they are
// already long enough to win.
type HeuristicConfig struct {
	Five    int `json:"five"`
	Open4   int `json:"open_4"`
	Closed4 int `json:"closed_4"`
	Open3   int `json:"open_3"`
	Closed3 int `json:"closed_3"`
	Open2   int `json:"open_2"`
	Closed2 int `json:"closed_2"`
	Open1   int `json:"open_1"`
}

func DefaultConfig() Config {
	return Config{
		BoardSize:      DefaultBoardSize,
		WinLength:      DefaultWinLength,
		SearchDepth:    DefaultSearchDepth,
		NeighborRadius: DefaultNeighborRadius,
		Workers:        1,
		Heuristics:     DefaultHeuristics(),
	}
}

func DefaultHeuristics() HeuristicConfig {
	return HeuristicConfig{
		Five:    100000,
		Open4:   10000,
		Closed4: 1000,
		Open3:   1000,
		Closed3: 100,
		Open2:   100,
		Closed2: 10,
		Open1:   1,
	}
}

// Normalized fills zero fields from the defaults so a partially specified
// config (for example one decoded from a short JSON body) is usable.
func (c Config) Normalized() Config {
	def := DefaultConfig()
	if c.BoardSize == 0 {
		c.BoardSize = def.BoardSize
	}
	if c.WinLength == 0 {
		c.WinLength = def.WinLength
	}
	if c.SearchDepth == 0 {
		c.SearchDepth = def.SearchDepth
	}
	if c.NeighborRadius == 0 {
		c.NeighborRadius = def.NeighborRadius
	}
	if c.Workers == 0 {
		c.Workers = def.Workers
	}
	if c.Heuristics == (HeuristicConfig{}) {
		c.Heuristics = def.Heuristics
	}
	return c
}

func (c Config) Validate() error {
	if c.WinLength < 2 {
		return fmt.Errorf("%w: win length %d below 2", ErrInvalidConfig, c.WinLength)
	}
	if c.BoardSize < c.WinLength {
		return fmt.Errorf("%w: board size %d smaller than win length %d", ErrInvalidConfig, c.BoardSize, c.WinLength)
	}
	if c.SearchDepth < 1 {
		return fmt.Errorf("%w: search depth %d below 1", ErrInvalidConfig, c.SearchDepth)
	}
	if c.NeighborRadius < 1 {
		return fmt.Errorf("%w: neighbor radius %d below 1", ErrInvalidConfig, c.NeighborRadius)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: negative worker count", ErrInvalidConfig)
	}
	if err := c.Heuristics.Validate(); err != nil {
		return err
	}
	// Five is the largest weight and a line of length n holds at most
	// ceil(n/2) separate runs of one colour.
	runs := lineCount(c.BoardSize, c.WinLength) * ((c.BoardSize + 1) / 2)
	if c.Heuristics.Five > (WinScore-1)/runs {
		return fmt.Errorf("%w: five weight %d lets a %dx%d board score reach the win score", ErrInvalidConfig, c.Heuristics.Five, c.BoardSize, c.BoardSize)
	}
	return nil
}

// lineCount is len(buildLines(size, winLength)) without building them.
func lineCount(size, winLength int) int {
	diagonals := 2*(size-winLength) + 1
	return 2*size + 2*diagonals
}

// Validate checks the qualitative ordering the search relies on; the
// magnitudes themselves are free to tune.
func (h HeuristicConfig) Validate() error {
	checks := []struct {
		name          string
		higher, lower int
	}{
		{"five > open_4", h.Five, h.Open4},
		{"open_4 > open_3", h.Open4, h.Open3},
		{"open_3 > open_2", h.Open3, h.Open2},
		{"open_2 > open_1", h.Open2, h.Open1},
		{"closed_4 > closed_3", h.Closed4, h.Closed3},
		{"closed_3 > closed_2", h.Closed3, h.Closed2},
		{"open_4 > closed_4", h.Open4, h.Closed4},
		{"open_3 > closed_3", h.Open3, h.Closed3},
		{"open_2 > closed_2", h.Open2, h.Closed2},
	}
	for _, check := range checks {
		if check.higher <= check.lower {
			return fmt.Errorf("%w: heuristics must satisfy %s (%d <= %d)", ErrInvalidConfig, check.name, check.higher, check.lower)
		}
	}
	if h.Open1 < 0 || h.Closed2 < 0 {
		return fmt.Errorf("%w: heuristic weights must not be negative", ErrInvalidConfig)
	}
	if h.Five > MaxHeuristicWeight {
		return fmt.Errorf("%w: five weight %d above the cap %d", ErrInvalidConfig, h.Five, MaxHeuristicWeight)
	}
	return nil
}
