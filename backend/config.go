package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/alfredoyang/gomoku/engine"
)

// Config is what the browser can read and change at runtime. Engine
// changes apply from the next started game.
type Config struct {
	Engine         engine.Config `json:"engine"`
	LogSearchStats bool          `json:"log_search_stats"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	cfg := engine.DefaultConfig()
	cfg.SearchDepth = getenvInt("GOMOKU_AI_DEPTH", cfg.SearchDepth)
	cfg.Workers = getenvInt("GOMOKU_AI_WORKERS", cfg.Workers)
	return Config{
		Engine:         cfg,
		LogSearchStats: getenv("GOMOKU_LOG_SEARCH", "1") != "0",
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// Update stores newConfig after normalizing and validating its engine
// part. An invalid config leaves the store unchanged. The game is always
// five in a row on 15x15; only search and weight settings are tunable here.
func (c *ConfigStore) Update(newConfig Config) error {
	newConfig.Engine = newConfig.Engine.Normalized()
	if newConfig.Engine.BoardSize != engine.DefaultBoardSize {
		return fmt.Errorf("%w: board size is fixed at %d", engine.ErrInvalidConfig, engine.DefaultBoardSize)
	}
	if newConfig.Engine.WinLength != engine.DefaultWinLength {
		return fmt.Errorf("%w: win length is fixed at %d", engine.ErrInvalidConfig, engine.DefaultWinLength)
	}
	if err := newConfig.Engine.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
	return nil
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
