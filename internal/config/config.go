package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"dominoscore/internal/domain"
)

const (
	defaultHistoryCollection = "score_history"
	defaultHistoryKey        = "archive"
	defaultInviteTTL         = time.Hour
	defaultTickRate          = 5
)

// GameConfig holds the tunables shared by every table on the server.
type GameConfig struct {
	DefaultTargetScore int    `json:"default_target_score"`
	HistoryCollection  string `json:"history_collection"`
	HistoryKey         string `json:"history_key"`
	InviteTTLSeconds   int    `json:"invite_ttl_seconds"`
	TickRate           int    `json:"tick_rate"`
	// IdleTicksBeforeClose closes an empty table after this many loop ticks. 0 disables it.
	IdleTicksBeforeClose int `json:"idle_ticks_before_close"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// DefaultTargetScore returns the target a new table starts with.
func DefaultTargetScore() int {
	if cfg == nil || cfg.DefaultTargetScore <= 0 {
		return domain.DefaultTargetScore
	}
	return cfg.DefaultTargetScore
}

// HistoryLocation returns the storage collection and key of an owner's archive.
func HistoryLocation() (collection, key string) {
	collection, key = defaultHistoryCollection, defaultHistoryKey
	if cfg == nil {
		return collection, key
	}
	if cfg.HistoryCollection != "" {
		collection = cfg.HistoryCollection
	}
	if cfg.HistoryKey != "" {
		key = cfg.HistoryKey
	}
	return collection, key
}

func InviteTTL() time.Duration {
	if cfg == nil || cfg.InviteTTLSeconds <= 0 {
		return defaultInviteTTL
	}
	return time.Duration(cfg.InviteTTLSeconds) * time.Second
}

func TickRate() int {
	if cfg == nil || cfg.TickRate <= 0 {
		return defaultTickRate
	}
	return cfg.TickRate
}

func IdleTicksBeforeClose() int {
	if cfg == nil || cfg.IdleTicksBeforeClose < 0 {
		return 0
	}
	return cfg.IdleTicksBeforeClose
}
